package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/rahultripathi17/TimeDesk-sub001/internal/service"
	"github.com/rahultripathi17/TimeDesk-sub001/pkg/response"
)

// DashboardHandler landing page summary
type DashboardHandler struct {
	dashboardSvc service.DashboardService
}

// NewDashboardHandler creates a DashboardHandler.
func NewDashboardHandler(dashboardSvc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardSvc: dashboardSvc}
}

// Summary
// GET /api/v1/dashboard
func (h *DashboardHandler) Summary(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	summary, err := h.dashboardSvc.Summary(c.Request.Context(), caller)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			response.NotFound(c, 12001, "profile not found")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, summary)
}
