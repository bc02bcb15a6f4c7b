// Package httpapi exposes the campus map core over HTTP so a thin web
// client can drive it: campus and layout queries, session lifecycle, and
// per-session event and selection endpoints.
package httpapi

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"mapmycampus/core-go/internal/campus"
	"mapmycampus/core-go/internal/db"
	"mapmycampus/core-go/internal/metrics"
	"mapmycampus/core-go/internal/routing"
	"mapmycampus/core-go/internal/session"
)

type Handler struct {
	log     zerolog.Logger
	model   *campus.Model
	layout  *campus.Layout
	pool    *db.Pool
	metrics *metrics.Metrics
	router  routing.Router

	mu       sync.RWMutex
	sessions map[string]*session.Session
}

// Options wires a Handler. Model is required; everything else may be nil.
type Options struct {
	Model   *campus.Model
	Layout  *campus.Layout
	Pool    *db.Pool
	Metrics *metrics.Metrics
	Router  routing.Router
}

func NewHandler(log zerolog.Logger, opts Options) *Handler {
	return &Handler{
		log:      log,
		model:    opts.Model,
		layout:   opts.Layout,
		pool:     opts.Pool,
		metrics:  opts.Metrics,
		router:   opts.Router,
		sessions: make(map[string]*session.Session),
	}
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))
	r.Use(h.accessLog)

	// Health
	r.Get("/healthz", h.handleHealthz)
	r.Get("/readyz", h.handleReadyZ)
	r.Method(http.MethodGet, "/metrics", h.metrics.Handler())

	// API
	r.Route("/api", func(r chi.Router) {
		r.Route("/v1", func(r chi.Router) {
			r.Route("/campus", func(r chi.Router) {
				r.Get("/", h.handleGetCampus)
				r.Get("/buildings/{id}", h.handleGetBuilding)
			})
			r.Get("/layout", h.handleGetLayout)

			r.Route("/sessions", func(r chi.Router) {
				r.Post("/", h.handleCreateSession)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.handleGetSession)
					r.Delete("/", h.handleDeleteSession)
					r.Post("/events/zoom", h.handleZoomEvent)
					r.Post("/events/click", h.handleClickEvent)
					r.Post("/source", h.handleSetSource)
					r.Post("/destination", h.handleSetDestination)
					r.Post("/rooms", h.handleSelectRooms)
					r.Post("/floor", h.handleSelectFloor)
					r.Post("/opacity", h.handleSetOpacity)
					r.Post("/reset", h.handleReset)
					r.Post("/jump", h.handleJump)
					r.Post("/modal", h.handleModal)
				})
			})
		})
	})

	return r
}

func (h *Handler) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		duration := time.Since(start)
		routePattern := chi.RouteContext(r.Context()).RoutePattern()
		h.metrics.ObserveHTTPRequest(r.Method, routePattern, ww.Status(), duration)

		h.log.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Int64("duration_ms", duration.Milliseconds()).
			Msg("http_request")
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, msg string, details map[string]any) {
	resp := map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": msg,
		},
	}
	if details != nil {
		resp["error"].(map[string]any)["details"] = details
	}
	h.writeJSON(w, status, resp)
}

func decodeJSONStrict(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return errors.New("unexpected extra data after JSON body")
		}
		return err
	}
	return nil
}

// writeSessionError maps session errors onto the API envelope.
func (h *Handler) writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrInvalidInput):
		h.writeError(w, http.StatusBadRequest, "invalid_input", err.Error(), nil)
	case errors.Is(err, session.ErrUnknownLocation),
		errors.Is(err, session.ErrUnknownFloor),
		errors.Is(err, session.ErrUnknownRoom):
		h.writeError(w, http.StatusNotFound, "not_found", err.Error(), nil)
	case errors.Is(err, session.ErrNotFocused),
		errors.Is(err, session.ErrModalClosed):
		h.writeError(w, http.StatusConflict, "invalid_state", err.Error(), nil)
	default:
		h.writeError(w, http.StatusInternalServerError, "internal", err.Error(), nil)
	}
}

func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *Handler) handleReadyZ(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	// The journal database is optional; readiness only degrades when a
	// configured database stops answering.
	if err := h.pool.Ping(ctx); err != nil {
		h.writeError(w, http.StatusServiceUnavailable, "db_unavailable", "database not ready", map[string]any{"error": err.Error()})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"ready": true})
}

func newSessionID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "s-" + hex.EncodeToString([]byte(time.Now().Format(time.RFC3339Nano)))
	}
	return hex.EncodeToString(buf)
}

// lookupSession resolves the {id} route parameter, writing the error
// response itself when the session does not exist.
func (h *Handler) lookupSession(w http.ResponseWriter, r *http.Request) (*session.Session, string, bool) {
	id := chi.URLParam(r, "id")

	h.mu.RLock()
	s, ok := h.sessions[id]
	h.mu.RUnlock()

	if !ok {
		h.writeError(w, http.StatusNotFound, "not_found", "session not found", map[string]any{"id": id})
		return nil, id, false
	}
	return s, id, true
}

// journal records a session event in the optional database, best effort.
func (h *Handler) journal(ctx context.Context, sessionID, kind string, payload map[string]any) {
	if err := h.pool.RecordSessionEvent(ctx, sessionID, kind, payload); err != nil {
		h.log.Warn().Err(err).Str("session_id", sessionID).Str("kind", kind).Msg("failed to journal session event")
	}
}
