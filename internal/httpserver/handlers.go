package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/skillcoder/downscaler-controller/internal/infra/appstate"
	"github.com/skillcoder/downscaler-controller/internal/infra/pinger"
	"github.com/skillcoder/downscaler-controller/internal/logic/downscaler"
)

type statusResponse struct {
	State      string                   `json:"state"`
	Uptime     string                   `json:"uptime"`
	StartTime  time.Time                `json:"startTime"`
	UptimeSec  float64                  `json:"uptimeSeconds"`
	Components map[string]pinger.Result `json:"components"`
	LastPass   *downscaler.PassSummary  `json:"lastPass,omitempty"`
}

// handleHealthz reports liveness: the process is up and not shutting down.
func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	switch s.appState.State() {
	case appstate.StateStarting, appstate.StateRunning:
		w.WriteHeader(http.StatusOK)
	case appstate.StateInit, appstate.StateTerminating, appstate.StateTerminated:
		w.WriteHeader(http.StatusServiceUnavailable)
	}
}

// handleReadyz reports readiness: running and every critical component answers.
func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if s.appState.State() != appstate.StateRunning || !s.checker.Healthy() {
		w.WriteHeader(http.StatusServiceUnavailable)
		s.logger.DebugContext(r.Context(), "readiness check failed", "traceID", middleware.GetReqID(r.Context()))

		return
	}

	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uptime := s.appState.Uptime()

	response := statusResponse{
		State:      string(s.appState.State()),
		Uptime:     uptime.String(),
		StartTime:  s.appState.StartedAt(),
		UptimeSec:  uptime.Seconds(),
		Components: s.checker.Results(),
		LastPass:   s.passes.LastPass(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.logger.ErrorContext(ctx, "failed to encode status response",
			"traceID", middleware.GetReqID(ctx),
			"reason", err,
		)
	}
}
