package cli

import (
	"context"
	"errors"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/magdock/pkg/apps"
	"github.com/matzehuels/magdock/pkg/dock"
	derrors "github.com/matzehuels/magdock/pkg/errors"
)

// Bounce styles accepted by --bounce.
const (
	bounceTransform = "transform"
	bounceSpring    = "spring"
)

// newBounce returns the activation bounce for style.
func newBounce(style string) (dock.BounceEffect, error) {
	switch style {
	case bounceTransform, "":
		return dock.NewTransformBounce(), nil
	case bounceSpring:
		return dock.NewSpringBounce(60), nil
	}
	return nil, derrors.New(derrors.ErrCodeInvalidBounce, "unknown bounce %q (want transform or spring)", style)
}

type runOpts struct {
	appsPath   string
	watch      bool
	bounce     string
	cellWidth  float64
	cellHeight float64
	logFile    string
}

func (c *CLI) runCommand() *cobra.Command {
	opts := runOpts{bounce: bounceTransform, cellWidth: 8, cellHeight: 16}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the dock in the terminal",
		Long: `Run an interactive dock in the terminal.

Moving the mouse over the dock magnifies the icons near it; clicking opens
or closes an app. Each terminal cell counts as --cell-width x --cell-height
pixels when deriving the dock size.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDock(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.appsPath, "apps", "", "app manifest (.toml, .yaml)")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "reload the manifest when it changes")
	cmd.Flags().StringVar(&opts.bounce, "bounce", opts.bounce, "activation bounce: transform, spring")
	cmd.Flags().Float64Var(&opts.cellWidth, "cell-width", opts.cellWidth, "pixels per terminal column")
	cmd.Flags().Float64Var(&opts.cellHeight, "cell-height", opts.cellHeight, "pixels per terminal row")
	cmd.Flags().StringVar(&opts.logFile, "log", "", "write debug logs to this file")

	return cmd
}

func (c *CLI) runDock(ctx context.Context, opts runOpts) error {
	if opts.cellWidth <= 0 || opts.cellHeight <= 0 {
		return derrors.New(derrors.ErrCodeInvalidInput, "cell size must be positive")
	}
	if opts.watch && opts.appsPath == "" {
		return derrors.New(derrors.ErrCodeInvalidInput, "--watch needs --apps")
	}
	bounce, err := newBounce(opts.bounce)
	if err != nil {
		return err
	}
	m, err := c.loadManifest(opts.appsPath)
	if err != nil {
		return err
	}

	// The alternate screen owns the terminal, so logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if opts.logFile != "" {
		f, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		logOut = f
	}
	logger := newLogger(logOut, log.DebugLevel)

	model := newDockModel(m, bounce, cellSize{w: opts.cellWidth, h: opts.cellHeight}, logger)
	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(ctx),
	)

	if opts.watch {
		w, err := apps.NewWatcher(opts.appsPath, func(next *apps.Manifest, err error) {
			p.Send(manifestMsg{manifest: next, err: err})
		}, apps.WithWatchLogger(logger))
		if err != nil {
			return err
		}
		defer w.Close()
		go func() {
			if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("watcher stopped", "err", err)
			}
		}()
	}

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}
