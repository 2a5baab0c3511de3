// Package server exposes the dock over HTTP.
//
// Two kinds of endpoint are offered:
//
//   - Snapshots: GET /dock.{svg,png,json} renders the settled dock for a
//     viewport and pointer. Results are cached by content key.
//   - Sessions: POST /sessions creates a live dock that clients drive with
//     pointer, leave and activate calls, stepping frames explicitly.
//
// Routing uses github.com/go-chi/chi/v5. Every request is logged and
// reported to the HTTP hooks in the observability package.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/magdock/pkg/apps"
	"github.com/matzehuels/magdock/pkg/cache"
	"github.com/matzehuels/magdock/pkg/session"
)

// Defaults for snapshot requests without explicit parameters.
const (
	DefaultViewportWidth  = 1440
	DefaultViewportHeight = 900
	DefaultSnapshotTTL    = time.Hour
)

// Server serves dock snapshots and live sessions.
type Server struct {
	router   chi.Router
	manifest atomic.Pointer[apps.Manifest]
	store    session.Store
	cache    cache.Cache
	keyer    cache.Keyer
	logger   *log.Logger

	sessionTTL  time.Duration
	snapshotTTL time.Duration
	bounce      string
}

// Option configures a Server.
type Option func(*Server)

// WithCache sets the snapshot cache. The default never caches.
func WithCache(c cache.Cache) Option { return func(s *Server) { s.cache = c } }

// WithKeyer sets how snapshot cache keys are built.
func WithKeyer(k cache.Keyer) Option { return func(s *Server) { s.keyer = k } }

// WithStore sets the session store. The default keeps sessions in memory.
func WithStore(st session.Store) Option { return func(s *Server) { s.store = st } }

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option { return func(s *Server) { s.logger = l } }

// WithSessionTTL sets how long idle sessions live.
func WithSessionTTL(d time.Duration) Option { return func(s *Server) { s.sessionTTL = d } }

// WithSnapshotTTL sets how long cached snapshots live.
func WithSnapshotTTL(d time.Duration) Option { return func(s *Server) { s.snapshotTTL = d } }

// WithBounceStyle selects the bounce used by new sessions: "transform" or
// "spring".
func WithBounceStyle(style string) Option { return func(s *Server) { s.bounce = style } }

// New builds a server for the manifest.
func New(m *apps.Manifest, opts ...Option) *Server {
	s := &Server{
		cache:       cache.NewNullCache(),
		keyer:       cache.NewDefaultKeyer(),
		store:       session.NewMemoryStore(),
		logger:      log.New(io.Discard),
		sessionTTL:  session.DefaultTTL,
		snapshotTTL: DefaultSnapshotTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.manifest.Store(m)
	s.router = s.routes()
	return s
}

// SetManifest replaces the app list for snapshots and for new and stored
// sessions.
func (s *Server) SetManifest(m *apps.Manifest) {
	s.manifest.Store(m)
	n := 0
	err := s.store.Each(context.Background(), func(sess *session.Session) {
		sess.SetManifest(m)
		n++
	})
	if err != nil {
		s.logger.Warn("manifest not applied to sessions", "err", err)
		return
	}
	s.logger.Debug("manifest applied", "apps", len(m.Apps), "sessions", n)
}

// Manifest returns the current manifest.
func (s *Server) Manifest() *apps.Manifest { return s.manifest.Load() }

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.router.ServeHTTP(w, r) }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/apps", s.handleApps)
	r.Get("/dock.{format}", s.handleSnapshot)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(s.loadSession)
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Get("/frame.{format}", s.handleSessionFrame)
			r.Post("/pointer", s.handlePointer)
			r.Post("/leave", s.handleLeave)
			r.Post("/activate/{slot}", s.handleActivate)
			r.Post("/frames", s.handleFrames)
			r.Put("/viewport", s.handleViewport)
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully. Expired sessions are reaped in the background.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	reapCtx, stopReap := context.WithCancel(ctx)
	defer stopReap()
	go session.Reap(reapCtx, s.store, time.Minute, s.logger)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
