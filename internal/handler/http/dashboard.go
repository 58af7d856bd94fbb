package http

import (
	"net/http"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/dashboard"
	"github.com/cmlabs-hris/payroll-engine/internal/handler/http/response"
)

type DashboardHandler interface {
	Payroll(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
	now              func() time.Time
}

func NewDashboardHandler(dashboardService dashboard.DashboardService, now func() time.Time) DashboardHandler {
	if now == nil {
		now = time.Now
	}
	return &dashboardHandlerImpl{
		dashboardService: dashboardService,
		now:              now,
	}
}

// Payroll implements DashboardHandler.
func (h *dashboardHandlerImpl) Payroll(w http.ResponseWriter, r *http.Request) {
	id, ok := actor(w, r)
	if !ok {
		return
	}

	window, err := getIntQueryParam(r, "window", dashboard.DefaultWindow)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	stats, err := h.dashboardService.Stats(r.Context(), id, window, h.now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, stats)
}
