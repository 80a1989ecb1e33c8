package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/ecomdash/ecomdash/internal/analytics"
)

type HealthResponse struct {
	Status          string         `json:"status"`
	Datasets        map[string]int `json:"datasets"`
	Refreshing      bool           `json:"refreshing"`
	ExperimentState string         `json:"experiment_state"`
	UptimeSeconds   int64          `json:"uptime_seconds"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	counts, err := s.data.RowCounts(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:          "ok",
		Datasets:        counts,
		Refreshing:      s.live.IsRefreshing(),
		ExperimentState: s.runner.State().String(),
		UptimeSeconds:   int64(time.Since(s.startTime).Seconds()),
	})
}

// wantsWait reports whether the caller asked to block until the action
// completes.
func wantsWait(r *http.Request) bool {
	wait, _ := strconv.ParseBool(r.URL.Query().Get("wait"))
	return wait
}

func (s *Server) handleSummaryAPI(w http.ResponseWriter, r *http.Request) {
	sum, err := s.reports.Summary(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, summaryResponse{
		Metrics:    newMetricsResponse(s.live.Snapshot(), s.live.IsRefreshing()),
		Funnel:     newFunnelResponse(sum.Funnel),
		Products:   newProductsResponse(sum.Products),
		Categories: newCategoriesResponse(sum.Categories),
		Activity:   newActivityResponse(sum.Activity),
		Pipeline:   newPipelineResponse(sum.Pipeline),
		Experiment: newExperimentResponse(s.runner.Status()),
	})
}

func (s *Server) handleMetricsAPI(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newMetricsResponse(s.live.Snapshot(), s.live.IsRefreshing()))
}

func (s *Server) handleRefreshAPI(w http.ResponseWriter, r *http.Request) {
	op, started := s.refresh()

	if !wantsWait(r) {
		writeJSON(w, http.StatusAccepted, refreshResponse{Started: started, Refreshing: s.live.IsRefreshing()})
		return
	}

	snap, err := op.Wait(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	refreshing := s.live.IsRefreshing()
	m := newMetricsResponse(snap, refreshing)
	writeJSON(w, http.StatusOK, refreshResponse{Started: started, Refreshing: refreshing, Metrics: &m})
}

func (s *Server) handleFunnelAPI(w http.ResponseWriter, r *http.Request) {
	rep, err := s.reports.Funnel(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newFunnelResponse(rep))
}

func (s *Server) handleProductsAPI(w http.ResponseWriter, r *http.Request) {
	limit := analytics.DefaultProductLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			problem(w, http.StatusBadRequest, "Bad Request", "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	rep, err := s.reports.Products(r.Context(), limit)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newProductsResponse(rep))
}

func (s *Server) handleCategoriesAPI(w http.ResponseWriter, r *http.Request) {
	rep, err := s.reports.Categories(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newCategoriesResponse(rep))
}

func (s *Server) handleActivityAPI(w http.ResponseWriter, r *http.Request) {
	rep, err := s.reports.Activity(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newActivityResponse(rep))
}

func (s *Server) handlePipelineAPI(w http.ResponseWriter, r *http.Request) {
	rep, err := s.reports.Pipeline(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPipelineResponse(rep))
}

func (s *Server) handleExperimentAPI(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newExperimentResponse(s.runner.Status()))
}

func (s *Server) handleStartAPI(w http.ResponseWriter, r *http.Request) {
	op, started := s.startExperiment()

	if !wantsWait(r) {
		writeJSON(w, http.StatusAccepted, startResponse{
			Started:            started,
			experimentResponse: newExperimentResponse(s.runner.Status()),
		})
		return
	}

	if _, err := op.Wait(r.Context()); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, startResponse{
		Started:            started,
		experimentResponse: newExperimentResponse(s.runner.Status()),
	})
}

func (s *Server) handleDashboardRefresh(w http.ResponseWriter, r *http.Request) {
	s.refresh()
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (s *Server) handleDashboardExperiment(w http.ResponseWriter, r *http.Request) {
	s.startExperiment()
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}
