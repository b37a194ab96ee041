package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/rahultripathi17/TimeDesk-sub001/internal/dto"
	"github.com/rahultripathi17/TimeDesk-sub001/internal/service"
	"github.com/rahultripathi17/TimeDesk-sub001/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler analytics, compliance and leave usage reports
type ReportHandler struct {
	reportSvc service.ReportService
}

// NewReportHandler creates a ReportHandler.
func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// Analytics
// GET /api/v1/reports/analytics?month=2026-03
func (h *ReportHandler) Analytics(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	var req dto.AnalyticsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "month is required")
		return
	}

	report, err := h.reportSvc.Analytics(c.Request.Context(), caller, &req)
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	response.OK(c, report)
}

// Compliance
// GET /api/v1/reports/compliance?from=&to=
func (h *ReportHandler) Compliance(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	var req dto.ComplianceRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "from and to are required")
		return
	}

	report, err := h.reportSvc.Compliance(c.Request.Context(), caller, &req)
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	response.OK(c, report)
}

// LeaveSummary
// GET /api/v1/reports/leave-summary
func (h *ReportHandler) LeaveSummary(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	var req dto.LeaveSummaryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	report, err := h.reportSvc.LeaveSummary(c.Request.Context(), caller, &req)
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	response.OK(c, report)
}

// ExportAnalytics downloads the monthly report as .xlsx.
// GET /api/v1/reports/analytics/export?month=2026-03
func (h *ReportHandler) ExportAnalytics(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	var req dto.AnalyticsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "month is required")
		return
	}

	buf, filename, err := h.reportSvc.ExportAnalytics(c.Request.Context(), caller, &req)
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *ReportHandler) handleReportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidMonth):
		response.BadRequest(c, 19001, "month must be YYYY-MM")
	case errors.Is(err, service.ErrInvalidDate),
		errors.Is(err, service.ErrInvalidDateRange),
		errors.Is(err, service.ErrDateRangeTooLong):
		response.BadRequest(c, 19002, err.Error())
	case errors.Is(err, service.ErrExportGenerateFail):
		response.Error(c, http.StatusInternalServerError, 19003, "failed to generate the Excel workbook")
	case errors.Is(err, service.ErrNoPermission):
		response.Forbidden(c, 10003, "permission denied")
	default:
		response.InternalError(c)
	}
}
