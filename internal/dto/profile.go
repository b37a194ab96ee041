package dto

// ── profiles ──

// CreateProfileRequest admin creates an employee
type CreateProfileRequest struct {
	FullName     string `json:"full_name"     binding:"required,min=2,max=100"`
	Email        string `json:"email"         binding:"required,email,max=255"`
	EmployeeCode string `json:"employee_code" binding:"required,min=1,max=32"`
	Role         string `json:"role"          binding:"omitempty,oneof=admin manager employee"`
	DepartmentID string `json:"department_id" binding:"omitempty,uuid"`
	Phone        string `json:"phone"         binding:"omitempty,max=32"`
	Designation  string `json:"designation"   binding:"omitempty,max=100"`
	JoinedOn     string `json:"joined_on"` // YYYY-MM-DD
}

// CreateProfileResponse the temporary password is only ever returned here
type CreateProfileResponse struct {
	Profile           ProfileDetailResponse `json:"profile"`
	TemporaryPassword string                `json:"temporary_password"`
}

// UpdateProfileRequest partial update; employees may only send full_name, phone, avatar_url
type UpdateProfileRequest struct {
	FullName     *string `json:"full_name"     binding:"omitempty,min=2,max=100"`
	Phone        *string `json:"phone"         binding:"omitempty,max=32"`
	AvatarURL    *string `json:"avatar_url"    binding:"omitempty,max=1000"`
	Designation  *string `json:"designation"   binding:"omitempty,max=100"`
	DepartmentID *string `json:"department_id" binding:"omitempty,uuid"`
	JoinedOn     *string `json:"joined_on"`
	IsActive     *bool   `json:"is_active"`
}

// UpdateScheduleRequest per-profile schedule override.
// ResetToDepartment clears every override.
type UpdateScheduleRequest struct {
	WorkStartTime     *string `json:"work_start_time"`
	WorkEndTime       *string `json:"work_end_time"`
	WorkDays          []int   `json:"work_days"           binding:"omitempty,dive,min=0,max=6"`
	ResetToDepartment bool    `json:"reset_to_department"`
}

// AssignRoleRequest change a profile's role
type AssignRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin manager employee"`
}

// ProfileListRequest list filters
type ProfileListRequest struct {
	PaginationRequest
	DepartmentID string `form:"department_id" binding:"omitempty,uuid"`
	Role         string `form:"role"          binding:"omitempty,oneof=admin manager employee"`
	Keyword      string `form:"keyword"       binding:"omitempty,max=100"`
	IsActive     *bool  `form:"is_active"`
}

// ResetPasswordResponse new temporary password
type ResetPasswordResponse struct {
	TemporaryPassword string `json:"temporary_password"`
}

// ── import ──

// ImportRowError one rejected spreadsheet row (1-based, header is row 1)
type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportedProfile one created account
type ImportedProfile struct {
	ID                string `json:"id"`
	Email             string `json:"email"`
	EmployeeCode      string `json:"employee_code"`
	TemporaryPassword string `json:"temporary_password"`
}

// ImportProfilesResponse import result; nothing is written when Errors is non-empty
type ImportProfilesResponse struct {
	Total    int               `json:"total"`
	Imported int               `json:"imported"`
	Created  []ImportedProfile `json:"created"`
	Errors   []ImportRowError  `json:"errors"`
}
