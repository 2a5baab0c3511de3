package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/magdock/pkg/dock"
	"github.com/matzehuels/magdock/pkg/dock/sink"
	derrors "github.com/matzehuels/magdock/pkg/errors"
)

const (
	defaultViewportWidth  = 1440
	defaultViewportHeight = 900
)

// configReport is the derived dock configuration for one viewport.
type configReport struct {
	Tier        string  `json:"tier" toml:"tier" yaml:"tier"`
	Width       float64 `json:"width" toml:"width" yaml:"width"`
	Height      float64 `json:"height" toml:"height" yaml:"height"`
	IconSize    float64 `json:"icon_size" toml:"icon_size" yaml:"icon_size"`
	MaxScale    float64 `json:"max_scale" toml:"max_scale" yaml:"max_scale"`
	EffectWidth float64 `json:"effect_width" toml:"effect_width" yaml:"effect_width"`
	Spacing     float64 `json:"spacing" toml:"spacing" yaml:"spacing"`
	Padding     float64 `json:"padding" toml:"padding" yaml:"padding"`
	Headroom    float64 `json:"headroom" toml:"headroom" yaml:"headroom"`
	Apps        int     `json:"apps" toml:"apps" yaml:"apps"`
	RestWidth   float64 `json:"rest_width" toml:"rest_width" yaml:"rest_width"`
	PeakWidth   float64 `json:"peak_width" toml:"peak_width" yaml:"peak_width"`
}

// tierName names the breakpoint tier the smaller viewport dimension falls in.
func tierName(width, height float64) string {
	switch d := math.Min(width, height); {
	case d < dock.BreakpointPhone:
		return "phone"
	case d < dock.BreakpointTablet:
		return "tablet"
	case d < dock.BreakpointLaptop:
		return "laptop"
	default:
		return "desktop"
	}
}

// peakWidth sweeps the pointer across the rest layout in one-pixel steps
// and returns the widest settled content width.
func peakWidth(n int, cfg dock.Config) float64 {
	rest := dock.ContentWidth(dock.TargetScales(dock.Absent(), n, cfg), cfg)
	peak := rest
	for x := 0.0; x <= rest; x++ {
		peak = math.Max(peak, dock.ContentWidth(dock.TargetScales(dock.At(x), n, cfg), cfg))
	}
	return peak
}

func newConfigReport(width, height float64, n int, o dock.Overrides) configReport {
	cfg := o.Apply(dock.DeriveConfig(width, height))
	return configReport{
		Tier:        tierName(width, height),
		Width:       width,
		Height:      height,
		IconSize:    cfg.IconBaseSize,
		MaxScale:    cfg.MaxScale,
		EffectWidth: cfg.EffectWidth,
		Spacing:     cfg.Spacing,
		Padding:     cfg.Padding(),
		Headroom:    sink.Headroom(cfg),
		Apps:        n,
		RestWidth:   dock.ContentWidth(dock.TargetScales(dock.Absent(), n, cfg), cfg),
		PeakWidth:   peakWidth(n, cfg),
	}
}

func writeConfigReport(w io.Writer, r configReport, output string) error {
	switch output {
	case "text", "":
		printTitle(w, fmt.Sprintf("Dock config for %gx%g (%s)", r.Width, r.Height, r.Tier))
		printKeyValue(w, "icon size", fmt.Sprintf("%.1f px", r.IconSize))
		printKeyValue(w, "max scale", fmt.Sprintf("%.2f", r.MaxScale))
		printKeyValue(w, "effect width", fmt.Sprintf("%.1f px", r.EffectWidth))
		printKeyValue(w, "spacing", fmt.Sprintf("%.1f px", r.Spacing))
		printKeyValue(w, "padding", fmt.Sprintf("%.1f px", r.Padding))
		printKeyValue(w, "headroom", fmt.Sprintf("%.0f px", r.Headroom))
		printKeyValue(w, "apps", fmt.Sprintf("%d", r.Apps))
		printKeyValue(w, "rest width", fmt.Sprintf("%.1f px", r.RestWidth))
		printKeyValue(w, "peak width", fmt.Sprintf("%.1f px", r.PeakWidth))
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "toml":
		return toml.NewEncoder(w).Encode(r)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(r)
	}
	return derrors.New(derrors.ErrCodeInvalidFormat, "unknown output %q (want text, json, toml or yaml)", output)
}

func (c *CLI) configCommand() *cobra.Command {
	var (
		width, height float64
		appsPath      string
		output        string
	)
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the dock config derived for a viewport",
		Example: `  magdock config --width 375 --height 667
  magdock config --apps apps.toml -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := derrors.ValidateViewport(width, height); err != nil {
				return err
			}
			m, err := c.loadManifest(appsPath)
			if err != nil {
				return err
			}
			return writeConfigReport(cmd.OutOrStdout(), newConfigReport(width, height, len(m.Apps), m.Dock), output)
		},
	}
	cmd.Flags().Float64Var(&width, "width", defaultViewportWidth, "viewport width in pixels")
	cmd.Flags().Float64Var(&height, "height", defaultViewportHeight, "viewport height in pixels")
	cmd.Flags().StringVar(&appsPath, "apps", "", "app manifest (.toml, .yaml); defaults to $MAGDOCK_APPS or the built-in apps")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output: text, json, toml, yaml")
	return cmd
}
