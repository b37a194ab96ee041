package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rahultripathi17/TimeDesk-sub001/internal/dto"
	"github.com/rahultripathi17/TimeDesk-sub001/internal/service"
	pkgerrors "github.com/rahultripathi17/TimeDesk-sub001/pkg/errors"
	"github.com/rahultripathi17/TimeDesk-sub001/pkg/response"
)

// LeaveHandler leave request endpoints
type LeaveHandler struct {
	leaveSvc service.LeaveService
}

// NewLeaveHandler creates a LeaveHandler.
func NewLeaveHandler(leaveSvc service.LeaveService) *LeaveHandler {
	return &LeaveHandler{leaveSvc: leaveSvc}
}

// CreateLeave
// POST /api/v1/leaves
func (h *LeaveHandler) CreateLeave(c *gin.Context) {
	profileID, ok := MustGetProfileID(c)
	if !ok {
		return
	}

	var req dto.CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	leave, err := h.leaveSvc.Create(c.Request.Context(), profileID, &req)
	if err != nil {
		h.handleLeaveError(c, err)
		return
	}

	response.Created(c, leave)
}

// ListMine
// GET /api/v1/leaves/me
func (h *LeaveHandler) ListMine(c *gin.Context) {
	profileID, ok := MustGetProfileID(c)
	if !ok {
		return
	}

	var req dto.LeaveMineRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	leaves, total, err := h.leaveSvc.ListMine(c.Request.Context(), profileID, &req)
	if err != nil {
		h.handleLeaveError(c, err)
		return
	}

	response.OKPage(c, leaves, total, req.GetPage(), req.GetPageSize())
}

// ListLeaves
// GET /api/v1/leaves
func (h *LeaveHandler) ListLeaves(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	var req dto.LeaveListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	leaves, total, err := h.leaveSvc.List(c.Request.Context(), caller, &req)
	if err != nil {
		h.handleLeaveError(c, err)
		return
	}

	response.OKPage(c, leaves, total, req.GetPage(), req.GetPageSize())
}

// GetLeave
// GET /api/v1/leaves/:id
func (h *LeaveHandler) GetLeave(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	leave, err := h.leaveSvc.Get(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		h.handleLeaveError(c, err)
		return
	}

	response.OK(c, leave)
}

// CancelLeave
// POST /api/v1/leaves/:id/cancel
func (h *LeaveHandler) CancelLeave(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	leave, err := h.leaveSvc.Cancel(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		h.handleLeaveError(c, err)
		return
	}

	response.OK(c, leave)
}

// ApproveLeave
// POST /api/v1/leaves/:id/approve
func (h *LeaveHandler) ApproveLeave(c *gin.Context) {
	h.decide(c, h.leaveSvc.Approve)
}

// RejectLeave
// POST /api/v1/leaves/:id/reject
func (h *LeaveHandler) RejectLeave(c *gin.Context) {
	h.decide(c, h.leaveSvc.Reject)
}

type decideFunc = func(ctx context.Context, caller service.Caller, id string, req *dto.DecideLeaveRequest) (*dto.LeaveResponse, error)

func (h *LeaveHandler) decide(c *gin.Context, fn decideFunc) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	var req dto.DecideLeaveRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, 10001, "invalid request parameters")
			return
		}
	}

	leave, err := fn(c.Request.Context(), caller, c.Param("id"), &req)
	if err != nil {
		h.handleLeaveError(c, err)
		return
	}

	response.OK(c, leave)
}

// Balance
// GET /api/v1/leaves/balance
func (h *LeaveHandler) Balance(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	var req dto.LeaveBalanceRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	balance, err := h.leaveSvc.Balance(c.Request.Context(), caller, &req)
	if err != nil {
		h.handleLeaveError(c, err)
		return
	}

	response.OK(c, balance)
}

// Calendar serves approved leaves as an iCalendar feed.
// GET /api/v1/leaves/calendar.ics
func (h *LeaveHandler) Calendar(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	var req dto.LeaveCalendarRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	feed, err := h.leaveSvc.Calendar(c.Request.Context(), caller, &req)
	if err != nil {
		h.handleLeaveError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="leaves.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", feed)
}

func (h *LeaveHandler) handleLeaveError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrLeaveNotFound):
		response.NotFound(c, 18001, "leave request not found")
	case errors.Is(err, service.ErrLeaveOverlap):
		response.Conflict(c, 18002, "leave overlaps an existing pending or approved leave")
	case errors.Is(err, service.ErrLeaveLimitExceeded):
		response.ErrorWithDetails(c, http.StatusBadRequest, 18003, "leave limit exceeded", err.Error())
	case errors.Is(err, service.ErrLeaveNoWorkingDays):
		response.BadRequest(c, 18004, err.Error())
	case errors.Is(err, service.ErrLeaveTooFarInPast),
		errors.Is(err, service.ErrLeaveTooLong),
		errors.Is(err, service.ErrLeaveCrossesYear):
		response.BadRequest(c, 18005, err.Error())
	case errors.Is(err, service.ErrLeaveNotPending):
		response.Conflict(c, 18006, "only pending leave can be decided")
	case errors.Is(err, service.ErrLeaveNotCancellable):
		response.BadRequest(c, 18007, "only pending or future approved leave can be cancelled")
	case errors.Is(err, service.ErrLeaveSelfDecision):
		response.Forbidden(c, 18008, "cannot decide your own leave")
	case errors.Is(err, service.ErrInvalidLeaveType):
		response.BadRequest(c, 18009, err.Error())
	case errors.Is(err, service.ErrInvalidDate),
		errors.Is(err, service.ErrInvalidDateRange),
		errors.Is(err, service.ErrDateRangeTooLong):
		response.BadRequest(c, 18010, err.Error())
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 18011, "leave was modified by another request, reload and retry")
	case errors.Is(err, service.ErrProfileNotFound):
		response.NotFound(c, 12001, "profile not found")
	case errors.Is(err, service.ErrNoPermission):
		response.Forbidden(c, 10003, "permission denied")
	default:
		response.InternalError(c)
	}
}
