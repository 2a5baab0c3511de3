package server

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/magdock/pkg/apps"
	"github.com/matzehuels/magdock/pkg/buildinfo"
	"github.com/matzehuels/magdock/pkg/cache"
	"github.com/matzehuels/magdock/pkg/dock"
	"github.com/matzehuels/magdock/pkg/dock/sink"
	derrors "github.com/matzehuels/magdock/pkg/errors"
	"github.com/matzehuels/magdock/pkg/session"
)

type ctxKey struct{}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Short()})
}

func (s *Server) handleApps(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Manifest())
}

// snapshotQuery holds the parsed query of a snapshot request.
type snapshotQuery struct {
	width, height float64
	pointer       *float64
	scale         float64
	labels        bool
}

func parseSnapshotQuery(r *http.Request) (snapshotQuery, error) {
	q := snapshotQuery{width: DefaultViewportWidth, height: DefaultViewportHeight}
	vals := r.URL.Query()
	num := func(name string, dst *float64) error {
		raw := vals.Get(name)
		if raw == "" {
			return nil
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return derrors.New(derrors.ErrCodeInvalidInput, "%s: not a finite number: %q", name, raw)
		}
		*dst = v
		return nil
	}
	if err := num("width", &q.width); err != nil {
		return q, err
	}
	if err := num("height", &q.height); err != nil {
		return q, err
	}
	if err := num("scale", &q.scale); err != nil {
		return q, err
	}
	if vals.Has("x") {
		var x float64
		if err := num("x", &x); err != nil {
			return q, err
		}
		q.pointer = &x
	}
	q.labels = vals.Get("labels") == "1" || vals.Get("labels") == "true"
	if err := derrors.ValidateViewport(q.width, q.height); err != nil {
		return q, err
	}
	if q.scale < 0 || q.scale > 8 {
		return q, derrors.New(derrors.ErrCodeInvalidInput, "scale must be within [0, 8]")
	}
	return q, nil
}

// handleSnapshot renders the settled dock for a viewport and pointer.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	format, err := sink.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	q, err := parseSnapshotQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	m := s.Manifest()
	cfg := m.Dock.Apply(dock.DeriveConfig(q.width, q.height))
	key := s.keyer.SnapshotKey(cache.SnapshotKeyOpts{
		Apps:        m.ContentHash(),
		Format:      string(format),
		Width:       q.width,
		Height:      q.height,
		Pointer:     q.pointer,
		Scale:       q.scale,
		IconSize:    cfg.IconBaseSize,
		MaxScale:    cfg.MaxScale,
		EffectWidth: cfg.EffectWidth,
	})
	if q.labels {
		key += ":labels"
	}

	ctx := r.Context()
	if data, ok, err := s.cache.Get(ctx, key); err != nil {
		s.logger.Warn("cache get failed", "key", key, "err", err)
	} else if ok {
		w.Header().Set("X-Cache", "hit")
		writeBytes(w, format, data)
		return
	}

	p := dock.Absent()
	if q.pointer != nil {
		p = dock.At(*q.pointer)
	}
	slots := apps.Slots(m.Apps)
	frame := dock.BuildFrame(slots, dock.SettledState(p, len(slots), cfg), nil)
	data, err := sink.Render(frame, format, sink.Options{
		Pointer:        q.pointer != nil,
		Labels:         q.labels,
		Scale:          q.scale,
		Title:          "dock",
		ViewportWidth:  q.width,
		ViewportHeight: q.height,
		Index:          -1,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.cache.Set(ctx, key, data, s.snapshotTTL); err != nil {
		s.logger.Warn("cache set failed", "key", key, "err", err)
	}
	w.Header().Set("X-Cache", "miss")
	writeBytes(w, format, data)
}

func writeBytes(w http.ResponseWriter, format sink.Format, data []byte) {
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// =============================================================================
// Sessions
// =============================================================================

type createSessionRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (s *Server) newBounce() dock.BounceEffect {
	if s.bounce == "spring" {
		return dock.NewSpringBounce(60)
	}
	return dock.NewTransformBounce()
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	req := createSessionRequest{Width: DefaultViewportWidth, Height: DefaultViewportHeight}
	if r.ContentLength != 0 {
		if err := decodeBody(w, r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	sess, err := session.New(s.Manifest(), req.Width, req.Height, s.sessionTTL,
		session.WithLogger(s.logger),
		session.WithBounce(s.newBounce()),
	)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Set(r.Context(), sess); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Debug("session created", "id", sess.ID)
	w.Header().Set("Location", "/sessions/"+sess.ID)
	writeJSON(w, http.StatusCreated, sess.Info())
}

// loadSession resolves {id} and stores the session in the request context.
func (s *Server) loadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		sess, err := s.store.Get(r.Context(), id)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if sess == nil {
			s.writeError(w, r, derrors.New(derrors.ErrCodeSessionNotFound, "no session %q", id))
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, sess)))
	})
}

func sessionFrom(r *http.Request) *session.Session {
	return r.Context().Value(ctxKey{}).(*session.Session)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionFrom(r).Info())
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), sessionFrom(r).ID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type pointerRequest struct {
	X        *float64 `json:"x,omitempty"`
	ClientX  *float64 `json:"client_x,omitempty"`
	DockLeft float64  `json:"dock_left,omitempty"`
}

type pointerResponse struct {
	Accepted bool       `json:"accepted"`
	Pending  bool       `json:"pending"`
	Frame    dock.Frame `json:"frame"`
}

// handlePointer accepts either a content-local x, applied directly, or an
// absolute client_x with dock_left, which goes through the throttle.
func (s *Server) handlePointer(w http.ResponseWriter, r *http.Request) {
	var req pointerRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	sess := sessionFrom(r)
	accepted := true
	switch {
	case req.X != nil:
		sess.SetPointer(*req.X)
	case req.ClientX != nil:
		accepted = sess.PointerMove(*req.ClientX, req.DockLeft)
	default:
		s.writeError(w, r, derrors.New(derrors.ErrCodeInvalidInput, "pointer needs x or client_x"))
		return
	}
	info := sess.Info()
	writeJSON(w, http.StatusOK, pointerResponse{Accepted: accepted, Pending: info.Pending, Frame: info.Frame})
}

func (s *Server) handleLeave(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	sess.Leave()
	writeJSON(w, http.StatusOK, sess.Info())
}

func (s *Server) handleActivate(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	if err := sess.Activate(chi.URLParam(r, "slot")); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Info())
}

type framesResponse struct {
	Stepped int        `json:"stepped"`
	Pending bool       `json:"pending"`
	Elapsed string     `json:"elapsed"`
	Frame   dock.Frame `json:"frame"`
}

// handleFrames steps the session's frame loop. n defaults to one frame;
// n=settle runs until idle.
func (s *Server) handleFrames(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	var stepped int
	switch raw := r.URL.Query().Get("n"); raw {
	case "":
		stepped = sess.Step(1)
	case "settle":
		stepped = sess.Settle()
	default:
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.writeError(w, r, derrors.New(derrors.ErrCodeInvalidInput, "n must be a non-negative integer or \"settle\""))
			return
		}
		stepped = sess.Step(n)
	}
	info := sess.Info()
	writeJSON(w, http.StatusOK, framesResponse{
		Stepped: stepped,
		Pending: info.Pending,
		Elapsed: (time.Duration(stepped) * dock.FrameInterval).String(),
		Frame:   info.Frame,
	})
}

func (s *Server) handleSessionFrame(w http.ResponseWriter, r *http.Request) {
	format, err := sink.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sess := sessionFrom(r)
	info := sess.Info()
	data, err := sink.Render(info.Frame, format, sink.Options{
		Pointer:        info.Frame.Pointer != nil,
		Labels:         true,
		Title:          "dock " + sess.ID,
		ViewportWidth:  info.Viewport[0],
		ViewportHeight: info.Viewport[1],
		Index:          -1,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeBytes(w, format, data)
}

type viewportRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (s *Server) handleViewport(w http.ResponseWriter, r *http.Request) {
	var req viewportRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	sess := sessionFrom(r)
	if err := sess.Resize(req.Width, req.Height); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Info())
}
