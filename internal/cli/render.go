package cli

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/magdock/pkg/apps"
	"github.com/matzehuels/magdock/pkg/dock"
	"github.com/matzehuels/magdock/pkg/dock/sink"
	derrors "github.com/matzehuels/magdock/pkg/errors"
)

// renderOpts holds the flags of the render command.
type renderOpts struct {
	appsPath string
	output   string        // output file (single format) or base path
	formats  []sink.Format // parsed --format
	width    float64
	height   float64
	pointer  *float64 // nil when --pointer is not given
	frames   int      // animated frames; 0 renders the settled dock
	sweep    bool     // move the pointer across the dock over the frames
	activate string   // app to activate on the first frame
	bounce   string
	labels   bool
	scale    float64
}

func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		pointer    float64
	)
	opts := renderOpts{
		output: "dock",
		width:  defaultViewportWidth,
		height: defaultViewportHeight,
		bounce: bounceTransform,
	}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render dock snapshots to SVG, PNG or JSON",
		Long: `Render the dock for a viewport.

Without --frames the settled dock is written once per format. With --frames N
the frame loop is stepped N times at 60 fps and every frame is written as
<output>_NNN.<format>. --sweep moves the pointer from the first to the last
icon over the sequence.`,
		Example: `  magdock render --pointer 120 -f svg,png
  magdock render --frames 90 --sweep -f png -o out/sweep`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formats, err := sink.ParseFormats(formatsStr)
			if err != nil {
				return err
			}
			opts.formats = formats
			if cmd.Flags().Changed("pointer") {
				opts.pointer = &pointer
			}
			if err := validateRenderOpts(&opts); err != nil {
				return err
			}
			ctx := withLogger(cmd.Context(), c.Logger)
			return c.runRender(ctx, cmd, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.appsPath, "apps", "", "app manifest (.toml, .yaml)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output file (single format) or base path")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "svg", "output format(s): svg, png, json (comma-separated)")
	cmd.Flags().Float64Var(&opts.width, "width", opts.width, "viewport width in pixels")
	cmd.Flags().Float64Var(&opts.height, "height", opts.height, "viewport height in pixels")
	cmd.Flags().Float64Var(&pointer, "pointer", 0, "pointer x in content pixels (omit for no pointer)")
	cmd.Flags().IntVar(&opts.frames, "frames", 0, "number of animation frames to write")
	cmd.Flags().BoolVar(&opts.sweep, "sweep", false, "sweep the pointer across the dock (needs --frames)")
	cmd.Flags().StringVar(&opts.activate, "activate", "", "app id to activate on the first frame")
	cmd.Flags().StringVar(&opts.bounce, "bounce", opts.bounce, "activation bounce: transform, spring")
	cmd.Flags().BoolVar(&opts.labels, "labels", false, "draw the label of the hovered app")
	cmd.Flags().Float64Var(&opts.scale, "scale", 2, "PNG pixel scale")

	return cmd
}

func validateRenderOpts(opts *renderOpts) error {
	if err := derrors.ValidateViewport(opts.width, opts.height); err != nil {
		return err
	}
	if opts.frames < 0 || opts.frames > 10000 {
		return derrors.New(derrors.ErrCodeInvalidInput, "--frames must be within [0, 10000]")
	}
	if opts.sweep && opts.frames < 2 {
		return derrors.New(derrors.ErrCodeInvalidInput, "--sweep needs at least 2 frames")
	}
	if opts.pointer != nil && (math.IsNaN(*opts.pointer) || math.IsInf(*opts.pointer, 0)) {
		return derrors.New(derrors.ErrCodeInvalidInput, "--pointer must be a finite number")
	}
	if opts.sweep && opts.pointer != nil {
		return derrors.New(derrors.ErrCodeInvalidInput, "--sweep and --pointer are exclusive")
	}
	if opts.activate != "" && opts.frames == 0 {
		return derrors.New(derrors.ErrCodeInvalidInput, "--activate needs --frames")
	}
	if !(opts.scale > 0 && opts.scale <= 8) {
		return derrors.New(derrors.ErrCodeInvalidInput, "--scale must be within (0, 8]")
	}
	_, err := newBounce(opts.bounce)
	return err
}

// basePath strips a known format extension from output.
func basePath(output string) string {
	ext := filepath.Ext(output)
	if _, err := sink.ParseFormat(strings.TrimPrefix(ext, ".")); err == nil {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// renderJob is one file to write.
type renderJob struct {
	frame  dock.Frame
	format sink.Format
	index  int // -1 for a settled snapshot
	path   string
}

func (c *CLI) runRender(ctx context.Context, cmd *cobra.Command, opts *renderOpts) error {
	m, err := c.loadManifest(opts.appsPath)
	if err != nil {
		return err
	}
	prog := newProgress(c.Logger)

	var jobs []renderJob
	if opts.frames == 0 {
		jobs = settledJobs(m, opts)
	} else {
		jobs, err = animatedJobs(ctx, m, opts)
		if err != nil {
			return err
		}
	}

	var sp *spinner
	if len(jobs) > len(opts.formats) {
		sp = newSpinner(ctx, cmd.ErrOrStderr(), fmt.Sprintf("Writing %d files", len(jobs))).start()
	}
	err = writeJobs(ctx, jobs, opts)
	if sp != nil {
		sp.stop()
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(jobs) <= 4 {
		for _, j := range jobs {
			printFile(out, j.path)
		}
	} else {
		printFile(out, jobs[0].path)
		printDetail(out, "… %d more", len(jobs)-1)
	}
	prog.done(fmt.Sprintf("Rendered %d files", len(jobs)))
	return nil
}

func settledJobs(m *apps.Manifest, opts *renderOpts) []renderJob {
	cfg := m.Dock.Apply(dock.DeriveConfig(opts.width, opts.height))
	p := dock.Absent()
	if opts.pointer != nil {
		p = dock.At(*opts.pointer)
	}
	slots := apps.Slots(m.Apps)
	f := dock.BuildFrame(slots, dock.SettledState(p, len(slots), cfg), nil)

	jobs := make([]renderJob, 0, len(opts.formats))
	for _, format := range opts.formats {
		path := basePath(opts.output) + "." + string(format)
		if len(opts.formats) == 1 && filepath.Ext(opts.output) == "."+string(format) {
			path = opts.output
		}
		jobs = append(jobs, renderJob{frame: f, format: format, index: -1, path: path})
	}
	return jobs
}

// animatedJobs steps a controller on a manual clock and captures every frame.
func animatedJobs(ctx context.Context, m *apps.Manifest, opts *renderOpts) ([]renderJob, error) {
	logger := loggerFromContext(ctx)
	bounce, _ := newBounce(opts.bounce)
	sched := dock.NewManualScheduler(time.Unix(0, 0))
	slots := apps.Slots(m.Apps)
	ctrl := dock.NewController(slots, dock.DeriveConfig(opts.width, opts.height),
		dock.WithScheduler(sched),
		dock.WithClock(sched.Now),
		dock.WithOverrides(m.Dock),
		dock.WithBounce(bounce),
		dock.WithLogger(logger),
	)
	defer ctrl.Close()

	if opts.pointer != nil {
		ctrl.SetPointer(dock.At(*opts.pointer))
	}
	if opts.activate != "" {
		if err := ctrl.Activate(opts.activate); err != nil {
			return nil, err
		}
	}
	cfg := ctrl.Config()
	rest := dock.ContentWidth(dock.TargetScales(dock.Absent(), len(slots), cfg), cfg)

	base := basePath(opts.output)
	jobs := make([]renderJob, 0, opts.frames*len(opts.formats))
	for i := 0; i < opts.frames; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if opts.sweep {
			ctrl.SetPointer(dock.At(rest * float64(i) / float64(opts.frames-1)))
		}
		sched.Step()
		f := ctrl.Frame()
		for _, format := range opts.formats {
			jobs = append(jobs, renderJob{
				frame:  f,
				format: format,
				index:  i,
				path:   fmt.Sprintf("%s_%03d.%s", base, i, format),
			})
		}
	}
	logger.Debug("captured frames", "frames", opts.frames, "settled", !ctrl.Pending())
	return jobs, nil
}

// writeJobs renders and writes files concurrently.
func writeJobs(ctx context.Context, jobs []renderJob, opts *renderOpts) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, j := range jobs {
		j := j
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return writeJob(ctx, j, opts)
		})
	}
	return g.Wait()
}

func writeJob(ctx context.Context, j renderJob, opts *renderOpts) error {
	data, err := sink.Render(j.frame, j.format, sink.Options{
		Pointer:        j.frame.Pointer != nil,
		Labels:         opts.labels,
		Scale:          opts.scale,
		Title:          "dock",
		ViewportWidth:  opts.width,
		ViewportHeight: opts.height,
		Index:          j.index,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", j.path, err)
	}
	if dir := filepath.Dir(j.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(j.path, data, 0o644); err != nil {
		return err
	}
	loggerFromContext(ctx).Debugf("Wrote %s (%d bytes)", j.path, len(data))
	return nil
}
