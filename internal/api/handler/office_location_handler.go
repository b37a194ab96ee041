package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/rahultripathi17/TimeDesk-sub001/internal/dto"
	"github.com/rahultripathi17/TimeDesk-sub001/internal/service"
	"github.com/rahultripathi17/TimeDesk-sub001/pkg/response"
)

// OfficeLocationHandler geo-fenced office endpoints
type OfficeLocationHandler struct {
	locationSvc service.OfficeLocationService
}

// NewOfficeLocationHandler creates an OfficeLocationHandler.
func NewOfficeLocationHandler(locationSvc service.OfficeLocationService) *OfficeLocationHandler {
	return &OfficeLocationHandler{locationSvc: locationSvc}
}

// ListLocations
// GET /api/v1/office-locations
func (h *OfficeLocationHandler) ListLocations(c *gin.Context) {
	var req dto.OfficeLocationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	locations, err := h.locationSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": locations})
}

// GetLocation
// GET /api/v1/office-locations/:id
func (h *OfficeLocationHandler) GetLocation(c *gin.Context) {
	location, err := h.locationSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleLocationError(c, err)
		return
	}

	response.OK(c, location)
}

// CreateLocation
// POST /api/v1/office-locations
func (h *OfficeLocationHandler) CreateLocation(c *gin.Context) {
	callerID, ok := MustGetProfileID(c)
	if !ok {
		return
	}

	var req dto.CreateOfficeLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	location, err := h.locationSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleLocationError(c, err)
		return
	}

	response.Created(c, location)
}

// UpdateLocation
// PUT /api/v1/office-locations/:id
func (h *OfficeLocationHandler) UpdateLocation(c *gin.Context) {
	callerID, ok := MustGetProfileID(c)
	if !ok {
		return
	}

	var req dto.UpdateOfficeLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	location, err := h.locationSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleLocationError(c, err)
		return
	}

	response.OK(c, location)
}

// DeleteLocation
// DELETE /api/v1/office-locations/:id
func (h *OfficeLocationHandler) DeleteLocation(c *gin.Context) {
	callerID, ok := MustGetProfileID(c)
	if !ok {
		return
	}

	if err := h.locationSvc.Delete(c.Request.Context(), c.Param("id"), callerID); err != nil {
		h.handleLocationError(c, err)
		return
	}

	response.OK(c, nil)
}

// CurrentCode returns the rotating check-in code shown at the office.
// GET /api/v1/office-locations/:id/code
func (h *OfficeLocationHandler) CurrentCode(c *gin.Context) {
	code, err := h.locationSvc.CurrentCode(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleLocationError(c, err)
		return
	}

	c.Header("Cache-Control", "no-store")
	response.OK(c, code)
}

func (h *OfficeLocationHandler) handleLocationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOfficeLocationNotFound):
		response.NotFound(c, 16001, "office location not found")
	case errors.Is(err, service.ErrInvalidCoordinates):
		response.BadRequest(c, 16002, "invalid coordinates")
	default:
		response.InternalError(c)
	}
}
