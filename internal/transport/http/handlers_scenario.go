package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mohamedwael201193/air-gate-os/internal/scenario"
	"github.com/mohamedwael201193/air-gate-os/pkg/httputil"
)

func (h *Handler) handleListScenarios(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"scenarios": scenario.All()})
}

// handleRunScenario executes a scenario synchronously. Step transitions are
// logged as they happen; the terminal result carries the full outcome either
// way, so run failures answer 200 with status "error" rather than an HTTP
// error.
func (h *Handler) handleRunScenario(w http.ResponseWriter, r *http.Request) {
	key := scenario.Key(chi.URLParam(r, "key"))

	observer := func(step scenario.Step) {
		if h.logger != nil {
			h.logger.InfoContext(r.Context(), "scenario step", "scenario", key, "step", step)
		}
	}

	result, err := h.scenarios.Run(r.Context(), key, r.UserAgent(), observer)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}
