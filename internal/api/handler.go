// ABOUTME: Local HTTP JSON API over the tracker for browser front ends
// ABOUTME: Wires chi routes, request logging, and error-to-status mapping

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hariviapak/routine-tracker/internal/backup"
	"github.com/hariviapak/routine-tracker/internal/logger"
	"github.com/hariviapak/routine-tracker/internal/models"
	"github.com/hariviapak/routine-tracker/internal/storage"
	"github.com/hariviapak/routine-tracker/internal/tracker"
)

// maxImportBytes bounds the size of an uploaded backup document.
const maxImportBytes = 10 << 20

// Handler serves the tracker over HTTP.
type Handler struct {
	Tracker *tracker.Tracker
	Log     *logger.Logger
}

// NewHandler creates a handler for tr.
func NewHandler(tr *tracker.Tracker, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Discard()
	}
	return &Handler{Tracker: tr, Log: log.WithComponent("api")}
}

// RegisterRoutes mounts the API under /api.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/routines", h.ListRoutines)
		r.Post("/routines", h.CreateRoutine)
		r.Delete("/routines", h.DeleteAllRoutines)
		r.Post("/routines/defaults", h.RestoreDefaults)
		r.Get("/routines/{id}", h.GetRoutine)
		r.Put("/routines/{id}", h.UpdateRoutine)
		r.Delete("/routines/{id}", h.DeleteRoutine)

		r.Get("/entries/{date}/{id}", h.GetEntry)
		r.Post("/entries/{date}/{id}/count", h.AdjustCount)
		r.Put("/entries/{date}/{id}/done", h.SetDone)

		r.Get("/day/{date}", h.Day)
		r.Get("/week/{date}", h.Week)

		r.Get("/export", h.Export)
		r.Post("/import", h.Import)
		r.Delete("/data", h.ClearAll)
	})
}

// NewRouter builds the full router with middleware.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(h.Log))
	r.Use(middleware.Recoverer)
	h.RegisterRoutes(r)
	return r
}

// requestLogger logs each request through the application logger.
func requestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()))
		})
	}
}

// Serve runs the API on addr until ctx is canceled.
func Serve(ctx context.Context, addr string, h *Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(h),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		h.Log.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation), errors.Is(err, backup.ErrFormat):
		return http.StatusBadRequest
	case errors.Is(err, tracker.ErrRoutineNotFound), errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrConstraintViolation):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.Log.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
