package dto

// ── leaves ──

// CreateLeaveRequest request leave; dates are YYYY-MM-DD and inclusive
type CreateLeaveRequest struct {
	LeaveType string `json:"leave_type" binding:"required,oneof=annual sick casual maternity paternity unpaid"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date"   binding:"required"`
	Reason    string `json:"reason"     binding:"omitempty,max=1000"`
}

// DecideLeaveRequest approve or reject. When Version is sent it must match.
type DecideLeaveRequest struct {
	Note    string `json:"note"    binding:"omitempty,max=500"`
	Version *int   `json:"version" binding:"omitempty,min=1"`
}

// LeaveResponse one leave request
type LeaveResponse struct {
	ID           string `json:"id"`
	ProfileID    string `json:"profile_id"`
	ProfileName  string `json:"profile_name,omitempty"`
	LeaveType    string `json:"leave_type"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	Days         int    `json:"days"`
	Reason       string `json:"reason,omitempty"`
	Status       string `json:"status"`
	ApproverID   string `json:"approver_id,omitempty"`
	ApproverName string `json:"approver_name,omitempty"`
	DecidedAt    string `json:"decided_at,omitempty"`
	DecisionNote string `json:"decision_note,omitempty"`
	Version      int    `json:"version"`
	CreatedAt    string `json:"created_at"`
}

// LeaveMineRequest own leaves
type LeaveMineRequest struct {
	PaginationRequest
	Status string `form:"status" binding:"omitempty,oneof=pending approved rejected cancelled"`
}

// LeaveListRequest admin/manager listing; From/To select leaves overlapping the range
type LeaveListRequest struct {
	PaginationRequest
	Status       string `form:"status"        binding:"omitempty,oneof=pending approved rejected cancelled"`
	LeaveType    string `form:"leave_type"    binding:"omitempty,oneof=annual sick casual maternity paternity unpaid"`
	DepartmentID string `form:"department_id" binding:"omitempty,uuid"`
	ProfileID    string `form:"profile_id"    binding:"omitempty,uuid"`
	From         string `form:"from"`
	To           string `form:"to"`
}

// LeaveBalanceRequest ProfileID is honoured for admins and managers only
type LeaveBalanceRequest struct {
	ProfileID string `form:"profile_id" binding:"omitempty,uuid"`
	AsOf      string `form:"as_of"`
}

// LeaveTypeBalance quota usage for one type. Limit and Remaining are -1 when unlimited.
type LeaveTypeBalance struct {
	LeaveType string `json:"leave_type"`
	Limit     int    `json:"limit"`
	Used      int    `json:"used"`
	Pending   int    `json:"pending"`
	Remaining int    `json:"remaining"`
}

// LeaveBalanceResponse balances for one leave year
type LeaveBalanceResponse struct {
	ProfileID string             `json:"profile_id"`
	YearStart string             `json:"year_start"`
	YearEnd   string             `json:"year_end"`
	Balances  []LeaveTypeBalance `json:"balances"`
}

// LeaveCalendarRequest calendar feed scope; defaults to the caller
type LeaveCalendarRequest struct {
	ProfileID    string `form:"profile_id"    binding:"omitempty,uuid"`
	DepartmentID string `form:"department_id" binding:"omitempty,uuid"`
	From         string `form:"from"`
	To           string `form:"to"`
}
