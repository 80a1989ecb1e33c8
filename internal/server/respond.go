package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ecomdash/ecomdash/internal/experiment"
	"github.com/ecomdash/ecomdash/internal/metrics"
	"github.com/ecomdash/ecomdash/internal/store"
)

// problemDetail is an RFC 7807 problem body.
type problemDetail struct {
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func problem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(problemDetail{
		Title:  title,
		Status: status,
		Detail: detail,
	})
}

// respondError maps err to a problem response.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, metrics.ErrClosed), errors.Is(err, experiment.ErrClosed):
		problem(w, http.StatusServiceUnavailable, "Service Unavailable", "the dashboard is shutting down")
	case errors.Is(err, store.ErrNotFound):
		problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		s.log.Debug("request abandoned", slog.String("path", r.URL.Path), slog.Any("error", err))
		problem(w, http.StatusServiceUnavailable, "Service Unavailable", "request cancelled before completion")
	default:
		s.log.Error("request failed", slog.String("path", r.URL.Path), slog.Any("error", err))
		problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
