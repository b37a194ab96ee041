package dto

// ── departments ──

// CreateDepartmentRequest create department with its work policy
type CreateDepartmentRequest struct {
	Name             string   `json:"name"               binding:"required,min=2,max=80"`
	Description      string   `json:"description"        binding:"omitempty,max=500"`
	WorkStartTime    string   `json:"work_start_time"`
	WorkEndTime      string   `json:"work_end_time"`
	LateGraceMinutes *int     `json:"late_grace_minutes" binding:"omitempty,min=0,max=180"`
	HalfDayHours     *float64 `json:"half_day_hours"     binding:"omitempty,gt=0,lte=12"`
	WorkDays         []int    `json:"work_days"          binding:"omitempty,dive,min=0,max=6"`
}

// UpdateDepartmentRequest partial update
type UpdateDepartmentRequest struct {
	Name             *string  `json:"name"               binding:"omitempty,min=2,max=80"`
	Description      *string  `json:"description"        binding:"omitempty,max=500"`
	WorkStartTime    *string  `json:"work_start_time"`
	WorkEndTime      *string  `json:"work_end_time"`
	LateGraceMinutes *int     `json:"late_grace_minutes" binding:"omitempty,min=0,max=180"`
	HalfDayHours     *float64 `json:"half_day_hours"     binding:"omitempty,gt=0,lte=12"`
	WorkDays         []int    `json:"work_days"          binding:"omitempty,dive,min=0,max=6"`
	IsActive         *bool    `json:"is_active"`
}

// DepartmentListRequest list filters
type DepartmentListRequest struct {
	IncludeInactive bool `form:"include_inactive"`
}

// DepartmentDetailResponse department with policy and member count
type DepartmentDetailResponse struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Description      string  `json:"description,omitempty"`
	WorkStartTime    string  `json:"work_start_time"`
	WorkEndTime      string  `json:"work_end_time"`
	LateGraceMinutes int     `json:"late_grace_minutes"`
	HalfDayHours     float64 `json:"half_day_hours"`
	WorkDays         []int   `json:"work_days"`
	IsActive         bool    `json:"is_active"`
	MemberCount      int64   `json:"member_count"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
}
