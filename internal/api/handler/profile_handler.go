package handler

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rahultripathi17/TimeDesk-sub001/internal/dto"
	"github.com/rahultripathi17/TimeDesk-sub001/internal/service"
	pkgerrors "github.com/rahultripathi17/TimeDesk-sub001/pkg/errors"
	"github.com/rahultripathi17/TimeDesk-sub001/pkg/response"
)

const defaultUploadLimit = 5 << 20

// ProfileHandler profile endpoints
type ProfileHandler struct {
	profileSvc  service.ProfileService
	uploadLimit int64
}

// NewProfileHandler creates a ProfileHandler. uploadLimit caps the import file size in bytes.
func NewProfileHandler(profileSvc service.ProfileService, uploadLimit int64) *ProfileHandler {
	if uploadLimit <= 0 {
		uploadLimit = defaultUploadLimit
	}
	return &ProfileHandler{profileSvc: profileSvc, uploadLimit: uploadLimit}
}

// CreateProfile
// POST /api/v1/profiles
func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	var req dto.CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	result, err := h.profileSvc.Create(c.Request.Context(), &req, caller)
	if err != nil {
		h.handleProfileError(c, err)
		return
	}

	response.Created(c, result)
}

// GetProfile
// GET /api/v1/profiles/:id
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	profile, err := h.profileSvc.Get(c.Request.Context(), c.Param("id"), caller)
	if err != nil {
		h.handleProfileError(c, err)
		return
	}

	response.OK(c, profile)
}

// ListProfiles
// GET /api/v1/profiles
func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	var req dto.ProfileListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	profiles, total, err := h.profileSvc.List(c.Request.Context(), &req, caller)
	if err != nil {
		h.handleProfileError(c, err)
		return
	}

	response.OKPage(c, profiles, total, req.GetPage(), req.GetPageSize())
}

// UpdateProfile
// PUT /api/v1/profiles/:id
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	profile, err := h.profileSvc.Update(c.Request.Context(), c.Param("id"), &req, caller)
	if err != nil {
		h.handleProfileError(c, err)
		return
	}

	response.OK(c, profile)
}

// UpdateSchedule sets or clears the per-profile schedule override.
// PUT /api/v1/profiles/:id/schedule
func (h *ProfileHandler) UpdateSchedule(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	var req dto.UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	profile, err := h.profileSvc.UpdateSchedule(c.Request.Context(), c.Param("id"), &req, caller)
	if err != nil {
		h.handleProfileError(c, err)
		return
	}

	response.OK(c, profile)
}

// DeleteProfile
// DELETE /api/v1/profiles/:id
func (h *ProfileHandler) DeleteProfile(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	if err := h.profileSvc.Delete(c.Request.Context(), c.Param("id"), caller); err != nil {
		h.handleProfileError(c, err)
		return
	}

	response.OK(c, nil)
}

// AssignRole
// PUT /api/v1/profiles/:id/role
func (h *ProfileHandler) AssignRole(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	var req dto.AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "role must be admin, manager or employee")
		return
	}

	if err := h.profileSvc.AssignRole(c.Request.Context(), c.Param("id"), &req, caller); err != nil {
		h.handleProfileError(c, err)
		return
	}

	response.OK(c, nil)
}

// ResetPassword
// POST /api/v1/profiles/:id/reset-password
func (h *ProfileHandler) ResetPassword(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	result, err := h.profileSvc.ResetPassword(c.Request.Context(), c.Param("id"), caller)
	if err != nil {
		h.handleProfileError(c, err)
		return
	}

	response.OK(c, result)
}

// ImportProfiles bulk-creates profiles from an .xlsx upload in the "file" field.
// POST /api/v1/profiles/import
func (h *ProfileHandler) ImportProfiles(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.uploadLimit)
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, 12010, "upload an .xlsx file in the file field")
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".xlsx") {
		response.BadRequest(c, 12010, "upload an .xlsx file in the file field")
		return
	}

	rows, err := h.profileSvc.ParseImportFile(file)
	if err != nil {
		h.handleProfileError(c, err)
		return
	}

	result, err := h.profileSvc.Import(c.Request.Context(), rows, caller)
	if err != nil {
		h.handleProfileError(c, err)
		return
	}

	if len(result.Errors) > 0 {
		c.JSON(http.StatusUnprocessableEntity, response.Response{
			Code:    12011,
			Message: "import rejected, fix the listed rows and upload again",
			Data:    result,
		})
		return
	}
	response.Created(c, result)
}

// handleProfileError maps profile errors.
func (h *ProfileHandler) handleProfileError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProfileNotFound):
		response.NotFound(c, 12001, "profile not found")
	case errors.Is(err, service.ErrEmailExists):
		response.Conflict(c, 12002, "email is already registered")
	case errors.Is(err, service.ErrEmployeeCodeExists):
		response.Conflict(c, 12003, "employee code is already in use")
	case errors.Is(err, service.ErrDepartmentNotFound):
		response.NotFound(c, 12004, "department not found")
	case errors.Is(err, service.ErrNoPermission):
		response.Forbidden(c, 10003, "permission denied")
	case errors.Is(err, service.ErrProfileSelfDelete):
		response.BadRequest(c, 12005, "cannot delete or deactivate your own profile")
	case errors.Is(err, service.ErrProfileSelfRole):
		response.BadRequest(c, 12006, "cannot change your own role")
	case errors.Is(err, service.ErrManagerNeedsDept):
		response.BadRequest(c, 12007, "a manager must belong to a department")
	case errors.Is(err, service.ErrInvalidSchedule):
		response.ErrorWithDetails(c, http.StatusBadRequest, 12008, "invalid work schedule", err.Error())
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 12009, "date must be YYYY-MM-DD")
	case errors.Is(err, service.ErrFieldNotEditable):
		response.Forbidden(c, 12012, "only full_name, phone and avatar_url can be changed on your own profile")
	case errors.Is(err, service.ErrImportBadFile),
		errors.Is(err, service.ErrImportBadHeader),
		errors.Is(err, service.ErrImportNoData),
		errors.Is(err, service.ErrImportTooManyRows):
		response.ErrorWithDetails(c, http.StatusBadRequest, 12010, "unreadable import file", err.Error())
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 12013, "profile was modified by another request, reload and retry")
	default:
		response.InternalError(c)
	}
}
