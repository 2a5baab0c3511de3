package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/magdock/pkg/apps"
	"github.com/matzehuels/magdock/pkg/buildinfo"
	"github.com/matzehuels/magdock/pkg/cache"
	derrors "github.com/matzehuels/magdock/pkg/errors"
	"github.com/matzehuels/magdock/pkg/server"
	"github.com/matzehuels/magdock/pkg/session"
)

type serveOpts struct {
	addr        string
	appsPath    string
	watch       bool
	redisAddr   string
	redisPass   string
	redisDB     int
	redisPrefix string
	noCache     bool
	bounce      string
	sessionTTL  time.Duration
	snapshotTTL time.Duration
}

func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		addr:        "127.0.0.1:8080",
		redisPrefix: appName + ":",
		bounce:      bounceTransform,
		sessionTTL:  session.DefaultTTL,
		snapshotTTL: server.DefaultSnapshotTTL,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve dock snapshots and live sessions over HTTP",
		Example: `  magdock serve --addr :8080
  magdock serve --apps apps.toml --watch --redis localhost:6379`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.appsPath, "apps", "", "app manifest (.toml, .yaml)")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "reload the manifest when it changes")
	cmd.Flags().StringVar(&opts.redisAddr, "redis", "", "redis address for the snapshot cache (default: local file cache)")
	cmd.Flags().StringVar(&opts.redisPass, "redis-password", "", "redis password")
	cmd.Flags().IntVar(&opts.redisDB, "redis-db", 0, "redis database number")
	cmd.Flags().StringVar(&opts.redisPrefix, "redis-prefix", opts.redisPrefix, "key prefix in redis")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable snapshot caching")
	cmd.Flags().StringVar(&opts.bounce, "bounce", opts.bounce, "activation bounce for sessions: transform, spring")
	cmd.Flags().DurationVar(&opts.sessionTTL, "session-ttl", opts.sessionTTL, "idle session lifetime")
	cmd.Flags().DurationVar(&opts.snapshotTTL, "snapshot-ttl", opts.snapshotTTL, "cached snapshot lifetime")

	return cmd
}

// openCache picks the snapshot backend: none, redis, or the file cache.
func (c *CLI) openCache(ctx context.Context, cmd *cobra.Command, opts serveOpts) (cache.Cache, string, error) {
	switch {
	case opts.noCache:
		return cache.NewNullCache(), "disabled", nil
	case opts.redisAddr != "":
		sp := newSpinner(ctx, cmd.ErrOrStderr(), "Connecting to redis at "+opts.redisAddr).start()
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     opts.redisAddr,
			Password: opts.redisPass,
			DB:       opts.redisDB,
			Prefix:   opts.redisPrefix,
		})
		sp.stop()
		if err != nil {
			return nil, "", err
		}
		return rc, "redis " + opts.redisAddr, nil
	}
	fc, err := newFileCache()
	if err != nil {
		printWarning(cmd.ErrOrStderr(), "File cache unavailable: %v", err)
		return cache.NewNullCache(), "disabled", nil
	}
	return fc, "file " + fc.Dir(), nil
}

func (c *CLI) runServe(cmd *cobra.Command, opts serveOpts) error {
	ctx := cmd.Context()
	if _, err := newBounce(opts.bounce); err != nil {
		return err
	}
	if opts.watch && opts.appsPath == "" {
		return derrors.New(derrors.ErrCodeInvalidInput, "--watch needs --apps")
	}
	m, err := c.loadManifest(opts.appsPath)
	if err != nil {
		return err
	}

	backend, desc, err := c.openCache(ctx, cmd, opts)
	if err != nil {
		return err
	}
	defer backend.Close()

	srv := server.New(m,
		server.WithCache(cache.Instrument(backend)),
		server.WithKeyer(cache.NewScopedKeyer(cache.NewDefaultKeyer(), "serve:")),
		server.WithLogger(c.Logger),
		server.WithSessionTTL(opts.sessionTTL),
		server.WithSnapshotTTL(opts.snapshotTTL),
		server.WithBounceStyle(opts.bounce),
	)

	if opts.watch {
		w, err := apps.NewWatcher(opts.appsPath, func(next *apps.Manifest, err error) {
			if err == nil {
				srv.SetManifest(next)
			}
		}, apps.WithWatchLogger(c.Logger))
		if err != nil {
			return err
		}
		defer w.Close()
		go func() { _ = w.Run(ctx) }()
	}

	out := cmd.OutOrStdout()
	printTitle(out, "magdock preview server "+buildinfo.Short())
	printKeyValue(out, "address", StyleHighlight.Render("http://"+opts.addr))
	printKeyValue(out, "apps", fmt.Sprintf("%d", len(m.Apps)))
	printKeyValue(out, "cache", desc)
	if opts.noCache {
		printWarning(out, "Snapshot caching is disabled")
	}
	printNextStep(out, "Try", fmt.Sprintf("curl 'http://%s/dock.svg?x=120' -o dock.svg", opts.addr))

	err = srv.ListenAndServe(ctx, opts.addr)
	if err == nil && ctx.Err() != nil {
		printInfo(out, "Server stopped")
		return nil
	}
	return err
}
