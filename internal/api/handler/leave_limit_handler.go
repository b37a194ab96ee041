package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/rahultripathi17/TimeDesk-sub001/internal/dto"
	"github.com/rahultripathi17/TimeDesk-sub001/internal/service"
	"github.com/rahultripathi17/TimeDesk-sub001/pkg/response"
)

// LeaveLimitHandler department leave quota endpoints
type LeaveLimitHandler struct {
	limitSvc service.LeaveLimitService
}

// NewLeaveLimitHandler creates a LeaveLimitHandler.
func NewLeaveLimitHandler(limitSvc service.LeaveLimitService) *LeaveLimitHandler {
	return &LeaveLimitHandler{limitSvc: limitSvc}
}

// ListLimits returns every leave type, defaults included.
// GET /api/v1/departments/:id/leave-limits
func (h *LeaveLimitHandler) ListLimits(c *gin.Context) {
	limits, err := h.limitSvc.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleLeaveLimitError(c, err)
		return
	}

	response.OK(c, gin.H{"list": limits})
}

// UpsertLimit
// PUT /api/v1/departments/:id/leave-limits/:type
func (h *LeaveLimitHandler) UpsertLimit(c *gin.Context) {
	callerID, ok := MustGetProfileID(c)
	if !ok {
		return
	}

	var req dto.UpsertLeaveLimitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "annual_limit must be within 0-365")
		return
	}

	limit, err := h.limitSvc.Upsert(c.Request.Context(), c.Param("id"), c.Param("type"), &req, callerID)
	if err != nil {
		h.handleLeaveLimitError(c, err)
		return
	}

	response.OK(c, limit)
}

// BulkUpsertLimits
// PUT /api/v1/departments/:id/leave-limits
func (h *LeaveLimitHandler) BulkUpsertLimits(c *gin.Context) {
	callerID, ok := MustGetProfileID(c)
	if !ok {
		return
	}

	var req dto.BulkUpsertLeaveLimitsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	limits, err := h.limitSvc.BulkUpsert(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleLeaveLimitError(c, err)
		return
	}

	response.OK(c, gin.H{"list": limits})
}

// DeleteLimit reverts one type to its default.
// DELETE /api/v1/leave-limits/:id
func (h *LeaveLimitHandler) DeleteLimit(c *gin.Context) {
	if err := h.limitSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleLeaveLimitError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *LeaveLimitHandler) handleLeaveLimitError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrLeaveLimitNotFound):
		response.NotFound(c, 14001, "leave limit not found")
	case errors.Is(err, service.ErrInvalidLeaveType):
		response.BadRequest(c, 14002, err.Error())
	case errors.Is(err, service.ErrDepartmentNotFound):
		response.NotFound(c, 14003, "department not found")
	default:
		response.InternalError(c)
	}
}
