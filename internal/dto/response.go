package dto

import "github.com/rahultripathi17/TimeDesk-sub001/pkg/workday"

// ── auth responses ──

// TokenResponse token pair
type TokenResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token,omitempty"` // also set as cookie
	ExpiresIn    int             `json:"expires_in"`              // access token lifetime in seconds
	Profile      ProfileResponse `json:"profile"`
}

// ── profile responses ──

// ProfileResponse profile summary without credentials
type ProfileResponse struct {
	ID                 string           `json:"id"`
	FullName           string           `json:"full_name"`
	Email              string           `json:"email"`
	EmployeeCode       string           `json:"employee_code"`
	Role               string           `json:"role"`
	Designation        string           `json:"designation,omitempty"`
	Department         *DepartmentBrief `json:"department,omitempty"`
	IsActive           bool             `json:"is_active"`
	MustChangePassword bool             `json:"must_change_password"`
}

// ProfileDetailResponse full profile (GET /auth/me, GET /profiles/:id)
type ProfileDetailResponse struct {
	ProfileResponse
	Phone     string           `json:"phone,omitempty"`
	AvatarURL string           `json:"avatar_url,omitempty"`
	JoinedOn  string           `json:"joined_on,omitempty"`
	Schedule  workday.Schedule `json:"schedule"`
	// HasScheduleOverride is true when any schedule field is set on the profile itself.
	HasScheduleOverride bool   `json:"has_schedule_override"`
	Version             int    `json:"version"`
	CreatedAt           string `json:"created_at"`
}

// DepartmentBrief department id and name
type DepartmentBrief struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ── pagination ──

// PaginationRequest common paging parameters
type PaginationRequest struct {
	Page     int `form:"page"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// GetPage page number with default
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetPageSize page size with default
func (p *PaginationRequest) GetPageSize() int {
	if p.PageSize <= 0 {
		return 20
	}
	return p.PageSize
}

// GetOffset row offset
func (p *PaginationRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}
