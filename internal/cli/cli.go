// Package cli implements the magdock command-line interface.
//
// # Commands
//
//   - run: interactive terminal dock driven by the mouse
//   - render: write settled or animated snapshots as SVG, PNG or JSON
//   - serve: HTTP preview server with live sessions
//   - config: print the dock config derived for a viewport
//   - cache: inspect and clear the snapshot cache
//   - completion: shell completion scripts
//
// All commands accept --verbose (-v) for debug logging.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/magdock/pkg/apps"
	"github.com/matzehuels/magdock/pkg/buildinfo"
	"github.com/matzehuels/magdock/pkg/cache"
	derrors "github.com/matzehuels/magdock/pkg/errors"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "magdock"

	// envApps names the manifest used when --apps is not given.
	envApps = "MAGDOCK_APPS"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "magdock renders a proximity-magnified application dock",
		Long:         `magdock animates a row of application icons that grow smoothly as the pointer approaches them. It runs in the terminal, renders snapshots, and serves live docks over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.runCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Shared Helpers
// =============================================================================

// loadManifest reads path, falling back to $MAGDOCK_APPS and then to the
// built-in apps.
func (c *CLI) loadManifest(path string) (*apps.Manifest, error) {
	if path == "" {
		path = os.Getenv(envApps)
	}
	if path != "" {
		if err := derrors.ValidateManifestPath(path); err != nil {
			return nil, err
		}
	}
	m, err := apps.LoadOrDefault(path)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded manifest", "path", path, "apps", len(m.Apps))
	return m, nil
}

// newFileCache opens the snapshot cache under cacheDir.
func newFileCache() (*cache.FileCache, error) {
	dir, err := cacheDir()
	if err != nil {
		return nil, err
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/magdock/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
