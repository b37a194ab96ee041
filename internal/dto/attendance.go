package dto

import "github.com/rahultripathi17/TimeDesk-sub001/pkg/workday"

// ── attendance ──

// CheckInRequest coordinates and code are only required when the matching settings are on
type CheckInRequest struct {
	Latitude  *float64 `json:"latitude"  binding:"omitempty,min=-90,max=90"`
	Longitude *float64 `json:"longitude" binding:"omitempty,min=-180,max=180"`
	Code      string   `json:"code"      binding:"omitempty,len=6,numeric"`
	Notes     string   `json:"notes"     binding:"omitempty,max=500"`
}

// CheckOutRequest check out
type CheckOutRequest struct {
	Latitude  *float64 `json:"latitude"  binding:"omitempty,min=-90,max=90"`
	Longitude *float64 `json:"longitude" binding:"omitempty,min=-180,max=180"`
	Notes     string   `json:"notes"     binding:"omitempty,max=500"`
}

// AttendanceResponse one attendance row
type AttendanceResponse struct {
	ID               string `json:"id"`
	ProfileID        string `json:"profile_id"`
	ProfileName      string `json:"profile_name,omitempty"`
	WorkDate         string `json:"work_date"`
	Status           string `json:"status"`
	CheckInAt        string `json:"check_in_at,omitempty"`
	CheckOutAt       string `json:"check_out_at,omitempty"`
	WorkMinutes      int    `json:"work_minutes"`
	OfficeLocationID string `json:"office_location_id,omitempty"`
	Notes            string `json:"notes,omitempty"`
	Source           string `json:"source"`
}

// TodayResponse caller's state for the current business day
type TodayResponse struct {
	Date      string              `json:"date"`
	IsWorkday bool                `json:"is_workday"`
	OnLeave   bool                `json:"on_leave"`
	Schedule  workday.Schedule    `json:"schedule"`
	Record    *AttendanceResponse `json:"record"`
}

// AttendanceMineRequest own history, defaults to the current month
type AttendanceMineRequest struct {
	From string `form:"from"`
	To   string `form:"to"`
}

// AttendanceListRequest admin/manager listing
type AttendanceListRequest struct {
	PaginationRequest
	ProfileID    string `form:"profile_id"    binding:"omitempty,uuid"`
	DepartmentID string `form:"department_id" binding:"omitempty,uuid"`
	Status       string `form:"status"        binding:"omitempty,oneof=present late half_day absent on_leave"`
	From         string `form:"from"`
	To           string `form:"to"`
}

// UpsertAttendanceRequest admin correction; times are RFC 3339
type UpsertAttendanceRequest struct {
	ProfileID  string  `json:"profile_id"   binding:"required,uuid"`
	WorkDate   string  `json:"work_date"    binding:"required"`
	Status     string  `json:"status"       binding:"required,oneof=present late half_day absent on_leave"`
	CheckInAt  *string `json:"check_in_at"`
	CheckOutAt *string `json:"check_out_at"`
	Notes      string  `json:"notes"        binding:"omitempty,max=500"`
}
