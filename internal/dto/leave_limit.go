package dto

// ── department leave limits ──

// UpsertLeaveLimitRequest set one type's annual quota
type UpsertLeaveLimitRequest struct {
	AnnualLimit *int `json:"annual_limit" binding:"required,min=0,max=365"`
}

// LeaveLimitItem one entry of a bulk update
type LeaveLimitItem struct {
	LeaveType   string `json:"leave_type"   binding:"required,oneof=annual sick casual maternity paternity unpaid"`
	AnnualLimit *int   `json:"annual_limit" binding:"required,min=0,max=365"`
}

// BulkUpsertLeaveLimitsRequest replace several quotas at once
type BulkUpsertLeaveLimitsRequest struct {
	Items []LeaveLimitItem `json:"items" binding:"required,min=1,dive"`
}

// LeaveLimitResponse quota; Configured is false when the default applies
type LeaveLimitResponse struct {
	ID           string `json:"id,omitempty"`
	DepartmentID string `json:"department_id"`
	LeaveType    string `json:"leave_type"`
	AnnualLimit  int    `json:"annual_limit"` // -1 unlimited
	Configured   bool   `json:"configured"`
	UpdatedAt    string `json:"updated_at,omitempty"`
}
