package studyserver

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/anatolykoptev/go_study/internal/engine"
	"github.com/anatolykoptev/go_study/internal/engine/study"
)

const maxBodyBytes = 1 << 20

// apiResponse is the REST envelope: {success, message, data?}.
type apiResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    *study.ResultBundle `json:"data,omitempty"`
}

// NewRouter builds the REST API around svc.
func NewRouter(svc *Service, mc MiddlewareConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(corsMiddleware(mc))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "Hello World")
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"status":"ok"}`)
	})
	r.Get("/metrics", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, engine.FormatMetrics())
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rateLimitMiddleware(mc))
		h := studyHandler(svc)
		r.Post("/test/upload", h)
		r.Post("/study", h)
	})
	return r
}

func studyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req study.Request
		body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := json.NewDecoder(body).Decode(&req); err != nil {
			status := http.StatusBadRequest
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				status = http.StatusRequestEntityTooLarge
			}
			writeJSON(w, status, apiResponse{Message: msgBadBody})
			return
		}

		out, err := svc.Bundle(r.Context(), req)
		if err != nil {
			status, msg := mapError(err)
			slog.Warn("study request failed",
				slog.String("request_id", chimiddleware.GetReqID(r.Context())),
				slog.Int("status", status),
				slog.Any("error", err),
			)
			writeJSON(w, status, apiResponse{Message: msg})
			return
		}
		writeJSON(w, http.StatusOK, apiResponse{Success: true, Message: msgSuccess, Data: &out})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("marshal response failed", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		slog.Debug("write response failed", slog.Any("error", err))
	}
}
