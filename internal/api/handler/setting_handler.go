package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/rahultripathi17/TimeDesk-sub001/internal/dto"
	"github.com/rahultripathi17/TimeDesk-sub001/internal/service"
	"github.com/rahultripathi17/TimeDesk-sub001/pkg/response"
)

// SettingHandler system settings endpoints
type SettingHandler struct {
	settingSvc service.SystemSettingService
}

// NewSettingHandler creates a SettingHandler.
func NewSettingHandler(settingSvc service.SystemSettingService) *SettingHandler {
	return &SettingHandler{settingSvc: settingSvc}
}

// ListSettings
// GET /api/v1/settings
func (h *SettingHandler) ListSettings(c *gin.Context) {
	settings, err := h.settingSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": settings})
}

// GetSetting
// GET /api/v1/settings/:key
func (h *SettingHandler) GetSetting(c *gin.Context) {
	setting, err := h.settingSvc.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		h.handleSettingError(c, err)
		return
	}

	response.OK(c, setting)
}

// SetSetting
// PUT /api/v1/settings/:key
func (h *SettingHandler) SetSetting(c *gin.Context) {
	callerID, ok := MustGetProfileID(c)
	if !ok {
		return
	}

	var req dto.SetSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "value is required")
		return
	}

	setting, err := h.settingSvc.Set(c.Request.Context(), c.Param("key"), &req, callerID)
	if err != nil {
		h.handleSettingError(c, err)
		return
	}

	response.OK(c, setting)
}

func (h *SettingHandler) handleSettingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSettingNotFound):
		response.NotFound(c, 15001, "setting not found")
	case errors.Is(err, service.ErrSettingUnknownKey):
		response.BadRequest(c, 15002, err.Error())
	case errors.Is(err, service.ErrSettingInvalidValue):
		response.BadRequest(c, 15003, err.Error())
	default:
		response.InternalError(c)
	}
}
