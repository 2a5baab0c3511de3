// Package session keeps live docks for the preview server.
//
// A session owns one [dock.Controller] driven by a [dock.ManualScheduler]:
// nothing animates on its own, clients post pointer events and then ask for
// frames to be stepped. Sessions expire after a period without use.
//
// # Usage
//
//	store := session.NewMemoryStore()
//	sess, err := session.New(manifest, 1440, 900, session.DefaultTTL)
//	if err != nil {
//	    return err
//	}
//	store.Set(ctx, sess)
//
//	sess.SetPointer(120)
//	sess.Step(30)
//	frame := sess.Frame()
package session

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/magdock/pkg/apps"
	"github.com/matzehuels/magdock/pkg/dock"
	derrors "github.com/matzehuels/magdock/pkg/errors"
)

// ErrExpired is returned when a session has exceeded its TTL.
var ErrExpired = errors.New("expired")

// Default durations.
const (
	// DefaultTTL is how long an idle session is kept.
	DefaultTTL = 15 * time.Minute

	// MaxSteps bounds a single Step call.
	MaxSteps = 600
)

// Session is one live dock. All methods are safe for concurrent use; they
// serialize access to the controller.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	mu        sync.Mutex
	ctrl      *dock.Controller
	sched     *dock.ManualScheduler
	manifest  *apps.Manifest
	open      string // id of the open app, "" for none
	width     float64
	height    float64
	ttl       time.Duration
	expiresAt time.Time
	now       func() time.Time
}

// Option configures a Session.
type Option func(*sessionOptions)

type sessionOptions struct {
	logger *log.Logger
	bounce dock.BounceEffect
	now    func() time.Time
}

// WithLogger sets the controller's debug logger.
func WithLogger(l *log.Logger) Option { return func(o *sessionOptions) { o.logger = l } }

// WithBounce sets the activation bounce.
func WithBounce(b dock.BounceEffect) Option { return func(o *sessionOptions) { o.bounce = b } }

// WithClock sets the wall clock used for expiry and pointer throttling.
func WithClock(now func() time.Time) Option { return func(o *sessionOptions) { o.now = now } }

// New creates a session for the manifest's apps at the given viewport.
func New(m *apps.Manifest, width, height float64, ttl time.Duration, opts ...Option) (*Session, error) {
	if err := derrors.ValidateViewport(width, height); err != nil {
		return nil, err
	}
	o := sessionOptions{logger: log.New(io.Discard), now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	now := o.now()
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		sched:     dock.NewManualScheduler(now),
		manifest:  m,
		width:     width,
		height:    height,
		ttl:       ttl,
		expiresAt: now.Add(ttl),
		now:       o.now,
	}
	ctrlOpts := []dock.Option{
		dock.WithScheduler(s.sched),
		dock.WithClock(o.now),
		dock.WithLogger(o.logger.With("session", s.ID[:8])),
		dock.WithOverrides(m.Dock),
		dock.WithActivator(dock.ActivatorFunc(s.toggle)),
	}
	if o.bounce != nil {
		ctrlOpts = append(ctrlOpts, dock.WithBounce(o.bounce))
	}
	s.ctrl = dock.NewController(apps.Slots(m.Apps), dock.DeriveConfig(width, height), ctrlOpts...)
	return s, nil
}

// toggle runs under s.mu via Activate. At most one app is open; opening
// another replaces it.
func (s *Session) toggle(id string) {
	if s.open == id {
		s.open = ""
		return
	}
	s.open = id
}

func (s *Session) touch() { s.expiresAt = s.now().Add(s.ttl) }

// IsExpired reports whether the session outlived its TTL.
func (s *Session) IsExpired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now().After(s.expiresAt)
}

// SetPointer places the pointer at content-local x.
func (s *Session) SetPointer(x float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.ctrl.SetPointer(dock.At(x))
}

// PointerMove feeds an absolute pointer position through the controller's
// throttle and reports whether it was accepted.
func (s *Session) PointerMove(clientX, dockLeft float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.ctrl.PointerMove(clientX, dockLeft)
}

// Leave marks the pointer absent.
func (s *Session) Leave() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.ctrl.PointerLeave()
}

// Activate bounces the app and toggles whether it is open.
func (s *Session) Activate(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.ctrl.Activate(id)
}

// Resize derives a new config for the viewport.
func (s *Session) Resize(width, height float64) error {
	if err := derrors.ValidateViewport(width, height); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.width, s.height = width, height
	s.ctrl.Resize(width, height)
	return nil
}

// SetManifest swaps the app list and overrides.
func (s *Session) SetManifest(m *apps.Manifest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.manifest = m
	s.ctrl.SetSlots(apps.Slots(m.Apps))
	if _, ok := apps.Find(m.Apps, s.open); !ok {
		s.open = ""
	}
}

// Step runs up to n frames (at most MaxSteps) and returns how many ran. It
// stops early once the dock settles.
func (s *Session) Step(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.sched.Run(min(max(n, 0), MaxSteps))
}

// Settle steps until the dock is idle or MaxSteps frames ran.
func (s *Session) Settle() int { return s.Step(MaxSteps) }

// Frame returns the current geometry with open apps marked.
func (s *Session) Frame() dock.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frameLocked()
}

func (s *Session) frameLocked() dock.Frame {
	f := s.ctrl.Frame()
	if s.open != "" {
		f.MarkOpen(s.open)
	}
	return f
}

// Info is the JSON summary of a session.
type Info struct {
	ID        string     `json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt time.Time  `json:"expires_at"`
	Viewport  [2]float64 `json:"viewport"`
	Apps      []apps.App `json:"apps"`
	Pending   bool       `json:"pending"`
	Frame     dock.Frame `json:"frame"`
}

// Info returns a summary including the current frame.
func (s *Session) Info() Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Info{
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
		ExpiresAt: s.expiresAt,
		Viewport:  [2]float64{s.width, s.height},
		Apps:      s.manifest.Apps,
		Pending:   s.ctrl.Pending(),
		Frame:     s.frameLocked(),
	}
}

// Close tears down the controller.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctrl.Close()
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist.
	// Returns nil, ErrExpired if the session exists but has expired.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, s *Session) error

	// Delete removes and closes a session.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions and returns how many were removed.
	Cleanup(ctx context.Context) (int, error)

	// Each calls fn for every live session.
	Each(ctx context.Context, fn func(*Session)) error
}
