package handler

import (
	"github.com/rahultripathi17/TimeDesk-sub001/config"
	"github.com/rahultripathi17/TimeDesk-sub001/internal/service"
)

// Handler aggregates every module handler.
type Handler struct {
	Auth           *AuthHandler
	Profile        *ProfileHandler
	Department     *DepartmentHandler
	LeaveLimit     *LeaveLimitHandler
	Setting        *SettingHandler
	OfficeLocation *OfficeLocationHandler
	Attendance     *AttendanceHandler
	Leave          *LeaveHandler
	Report         *ReportHandler
	Dashboard      *DashboardHandler
}

// NewHandler creates the Handler aggregate.
func NewHandler(svc *service.Service, cfg *config.Config) *Handler {
	return &Handler{
		Auth:           NewAuthHandler(svc.Auth, &cfg.Auth),
		Profile:        NewProfileHandler(svc.Profile, cfg.Server.UploadLimitM<<20),
		Department:     NewDepartmentHandler(svc.Department),
		LeaveLimit:     NewLeaveLimitHandler(svc.LeaveLimit),
		Setting:        NewSettingHandler(svc.Setting),
		OfficeLocation: NewOfficeLocationHandler(svc.OfficeLocation),
		Attendance:     NewAttendanceHandler(svc.Attendance),
		Leave:          NewLeaveHandler(svc.Leave),
		Report:         NewReportHandler(svc.Report),
		Dashboard:      NewDashboardHandler(svc.Dashboard),
	}
}
