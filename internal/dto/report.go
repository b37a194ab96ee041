package dto

// ── reports ──

// AnalyticsRequest month is YYYY-MM
type AnalyticsRequest struct {
	Month        string `form:"month"         binding:"required"`
	DepartmentID string `form:"department_id" binding:"omitempty,uuid"`
}

// UserAnalytics attendance counters for one employee in a month
type UserAnalytics struct {
	ProfileID      string  `json:"profile_id"`
	FullName       string  `json:"full_name"`
	EmployeeCode   string  `json:"employee_code"`
	Department     string  `json:"department,omitempty"`
	WorkingDays    int     `json:"working_days"` // elapsed working days in the month
	Present        int     `json:"present"`
	Late           int     `json:"late"`
	HalfDay        int     `json:"half_day"`
	Absent         int     `json:"absent"`
	OnLeave        int     `json:"on_leave"`
	AttendanceRate float64 `json:"attendance_rate"` // percent, two decimals
	AvgWorkHours   float64 `json:"avg_work_hours"`
}

// AnalyticsTotals aggregate over all rows
type AnalyticsTotals struct {
	Employees      int     `json:"employees"`
	WorkingDays    int     `json:"working_days"`
	Present        int     `json:"present"`
	Late           int     `json:"late"`
	HalfDay        int     `json:"half_day"`
	Absent         int     `json:"absent"`
	OnLeave        int     `json:"on_leave"`
	AttendanceRate float64 `json:"attendance_rate"`
}

// AnalyticsResponse monthly analytics
type AnalyticsResponse struct {
	Month        string          `json:"month"`
	DepartmentID string          `json:"department_id,omitempty"`
	Users        []UserAnalytics `json:"users"`
	Totals       AnalyticsTotals `json:"totals"`
}

// ComplianceRequest inclusive date range
type ComplianceRequest struct {
	From         string `form:"from"          binding:"required"`
	To           string `form:"to"            binding:"required"`
	DepartmentID string `form:"department_id" binding:"omitempty,uuid"`
}

// UserCompliance violation counters and score for one employee
type UserCompliance struct {
	ProfileID         string `json:"profile_id"`
	FullName          string `json:"full_name"`
	EmployeeCode      string `json:"employee_code"`
	Department        string `json:"department,omitempty"`
	LateArrivals      int    `json:"late_arrivals"`
	HalfDays          int    `json:"half_days"`
	MissingCheckouts  int    `json:"missing_checkouts"`
	UnexcusedAbsences int    `json:"unexcused_absences"`
	Score             int    `json:"score"`
	Flagged           bool   `json:"flagged"`
}

// ComplianceResponse compliance report sorted by score
type ComplianceResponse struct {
	From      string           `json:"from"`
	To        string           `json:"to"`
	Threshold int              `json:"threshold"`
	Flagged   int              `json:"flagged"`
	Users     []UserCompliance `json:"users"`
}

// LeaveSummaryRequest Date selects the leave year, default today
type LeaveSummaryRequest struct {
	Date         string `form:"date"`
	DepartmentID string `form:"department_id" binding:"omitempty,uuid"`
}

// UserLeaveSummary one employee's usage per type
type UserLeaveSummary struct {
	ProfileID    string             `json:"profile_id"`
	FullName     string             `json:"full_name"`
	EmployeeCode string             `json:"employee_code"`
	Types        []LeaveTypeBalance `json:"types"`
}

// LeaveSummaryResponse leave usage for a leave year
type LeaveSummaryResponse struct {
	YearStart string             `json:"year_start"`
	YearEnd   string             `json:"year_end"`
	Users     []UserLeaveSummary `json:"users"`
}

// ── dashboard ──

// TeamSummary today's figures for admins and managers
type TeamSummary struct {
	Headcount        int64 `json:"headcount"`
	CheckedIn        int64 `json:"checked_in"`
	Late             int64 `json:"late"`
	OnLeave          int64 `json:"on_leave"`
	PendingApprovals int64 `json:"pending_approvals"`
}

// DashboardResponse landing page payload
type DashboardResponse struct {
	Today           *TodayResponse        `json:"today"`
	Balance         *LeaveBalanceResponse `json:"balance"`
	UpcomingLeaves  []LeaveResponse       `json:"upcoming_leaves"`
	PendingRequests int64                 `json:"pending_requests"`
	Team            *TeamSummary          `json:"team,omitempty"`
}
