package httpx

import (
	"net/http"

	"github.com/algocare/ops-console/internal/service"
)

// DashboardHandlers serves the console summary.
type DashboardHandlers struct {
	Svc *service.DashboardService
}

// Summary handles GET /api/dashboard/summary.
func (h *DashboardHandlers) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Svc.Summary(r.Context())
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "summary_failed", Err: err})
		return
	}
	WriteJSON(w, http.StatusOK, summary)
}
