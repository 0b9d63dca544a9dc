package handlers

import (
	"net/http"

	"github.com/matchforge/matchforge/internal/runner"
)

type RunnerHandler struct {
	runner *runner.Runner
}

func NewRunnerHandler(r *runner.Runner) *RunnerHandler {
	return &RunnerHandler{runner: r}
}

type RunnerStatusResponse struct {
	Running bool `json:"running"`
}

func (h *RunnerHandler) Status(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, RunnerStatusResponse{Running: h.runner.IsRunning()})
}

func (h *RunnerHandler) Start(w http.ResponseWriter, r *http.Request) {
	if err := h.runner.Start(); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RunnerHandler) Stop(w http.ResponseWriter, r *http.Request) {
	if err := h.runner.Stop(); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// TickNow runs a single matchmaking pass outside the ticker schedule.
func (h *RunnerHandler) TickNow(w http.ResponseWriter, r *http.Request) {
	h.runner.Tick(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
