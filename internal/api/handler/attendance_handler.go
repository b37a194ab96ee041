package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rahultripathi17/TimeDesk-sub001/internal/dto"
	"github.com/rahultripathi17/TimeDesk-sub001/internal/service"
	"github.com/rahultripathi17/TimeDesk-sub001/pkg/response"
)

// AttendanceHandler check-in, check-out and attendance history
type AttendanceHandler struct {
	attendanceSvc service.AttendanceService
}

// NewAttendanceHandler creates an AttendanceHandler.
func NewAttendanceHandler(attendanceSvc service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceSvc: attendanceSvc}
}

// CheckIn
// POST /api/v1/attendance/check-in
func (h *AttendanceHandler) CheckIn(c *gin.Context) {
	profileID, ok := MustGetProfileID(c)
	if !ok {
		return
	}

	var req dto.CheckInRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, 10001, "invalid request parameters")
			return
		}
	}

	record, err := h.attendanceSvc.CheckIn(c.Request.Context(), profileID, &req)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.Created(c, record)
}

// CheckOut
// POST /api/v1/attendance/check-out
func (h *AttendanceHandler) CheckOut(c *gin.Context) {
	profileID, ok := MustGetProfileID(c)
	if !ok {
		return
	}

	var req dto.CheckOutRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, 10001, "invalid request parameters")
			return
		}
	}

	record, err := h.attendanceSvc.CheckOut(c.Request.Context(), profileID, &req)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, record)
}

// Today
// GET /api/v1/attendance/today
func (h *AttendanceHandler) Today(c *gin.Context) {
	profileID, ok := MustGetProfileID(c)
	if !ok {
		return
	}

	today, err := h.attendanceSvc.Today(c.Request.Context(), profileID)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, today)
}

// ListMine
// GET /api/v1/attendance/me
func (h *AttendanceHandler) ListMine(c *gin.Context) {
	profileID, ok := MustGetProfileID(c)
	if !ok {
		return
	}

	var req dto.AttendanceMineRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	records, err := h.attendanceSvc.ListMine(c.Request.Context(), profileID, &req)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, gin.H{"list": records})
}

// ListAttendance admin and manager view.
// GET /api/v1/attendance
func (h *AttendanceHandler) ListAttendance(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	var req dto.AttendanceListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	records, total, err := h.attendanceSvc.List(c.Request.Context(), caller, &req)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OKPage(c, records, total, req.GetPage(), req.GetPageSize())
}

// UpsertAttendance creates or corrects a record for any profile and date.
// PUT /api/v1/attendance
func (h *AttendanceHandler) UpsertAttendance(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	var req dto.UpsertAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	record, err := h.attendanceSvc.Upsert(c.Request.Context(), caller, &req)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, record)
}

// DeleteAttendance
// DELETE /api/v1/attendance/:id
func (h *AttendanceHandler) DeleteAttendance(c *gin.Context) {
	if err := h.attendanceSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *AttendanceHandler) handleAttendanceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAttendanceNotFound):
		response.NotFound(c, 17001, "attendance record not found")
	case errors.Is(err, service.ErrAlreadyCheckedIn):
		response.Conflict(c, 17002, "already checked in today")
	case errors.Is(err, service.ErrOnLeaveToday):
		response.BadRequest(c, 17003, "you are on approved leave today")
	case errors.Is(err, service.ErrNonWorkingDay):
		response.BadRequest(c, 17004, "check-in is not allowed on a non-working day")
	case errors.Is(err, service.ErrLocationRequired):
		response.BadRequest(c, 17005, "location is required to check in")
	case errors.Is(err, service.ErrOutsideGeofence):
		response.Forbidden(c, 17006, "you are not within range of an office")
	case errors.Is(err, service.ErrInvalidCheckinCode):
		response.BadRequest(c, 17007, "check-in code is invalid or expired")
	case errors.Is(err, service.ErrNotCheckedIn):
		response.BadRequest(c, 17008, "no check-in found for today")
	case errors.Is(err, service.ErrAlreadyCheckedOut):
		response.Conflict(c, 17009, "already checked out today")
	case errors.Is(err, service.ErrInvalidDate),
		errors.Is(err, service.ErrInvalidDateRange),
		errors.Is(err, service.ErrDateRangeTooLong):
		response.BadRequest(c, 17010, err.Error())
	case errors.Is(err, service.ErrInvalidTimes):
		response.BadRequest(c, 17011, err.Error())
	case errors.Is(err, service.ErrInvalidStatus):
		response.BadRequest(c, 17012, "invalid attendance status")
	case errors.Is(err, service.ErrProfileNotFound):
		response.NotFound(c, 12001, "profile not found")
	case errors.Is(err, service.ErrAccountDisabled):
		response.Error(c, http.StatusForbidden, 11002, "account is disabled")
	case errors.Is(err, service.ErrNoPermission):
		response.Forbidden(c, 10003, "permission denied")
	default:
		response.InternalError(c)
	}
}
