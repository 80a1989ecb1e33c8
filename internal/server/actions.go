package server

import (
	"github.com/ecomdash/ecomdash/internal/async"
	"github.com/ecomdash/ecomdash/internal/experiment"
	"github.com/ecomdash/ecomdash/internal/metrics"
	"github.com/ecomdash/ecomdash/internal/observability"
)

func outcome(started bool) string {
	if started {
		return observability.ResultStarted
	}
	return observability.ResultCoalesced
}

// refresh starts a pipeline refresh, or joins the pending one, and counts the
// request.
func (s *Server) refresh() (*async.Op[metrics.Snapshot], bool) {
	op, started := s.live.Refresh()
	s.metrics.RefreshRequests.WithLabelValues(outcome(started)).Inc()
	return op, started
}

// startExperiment starts an A/B test run, or joins the running one, and counts
// the request.
func (s *Server) startExperiment() (*async.Op[experiment.Result], bool) {
	op, started := s.runner.Start()
	s.metrics.ExperimentRequests.WithLabelValues(outcome(started)).Inc()
	return op, started
}
