package model

import (
	"time"

	"github.com/rahultripathi17/TimeDesk-sub001/pkg/workday"
)

// Roles
const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleEmployee = "employee"
)

// ValidRole reports whether r is a known role.
func ValidRole(r string) bool {
	return r == RoleAdmin || r == RoleManager || r == RoleEmployee
}

// Profile employee account (profiles)
type Profile struct {
	ProfileID          string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"profile_id"`
	FullName           string     `gorm:"type:varchar(100);not null"                     json:"full_name"`
	Email              string     `gorm:"type:varchar(255);not null"                     json:"email"`
	EmployeeCode       string     `gorm:"type:varchar(32);not null"                      json:"employee_code"`
	PasswordHash       string     `gorm:"type:varchar(255);not null"                     json:"-"`
	Role               string     `gorm:"type:varchar(20);not null;default:'employee'"   json:"role"`
	DepartmentID       *string    `gorm:"type:uuid"                                      json:"department_id,omitempty"`
	Phone              string     `gorm:"type:varchar(32)"                               json:"phone,omitempty"`
	Designation        string     `gorm:"type:varchar(100)"                              json:"designation,omitempty"`
	AvatarURL          string     `gorm:"type:text"                                      json:"avatar_url,omitempty"`
	WorkStartTime      *string    `gorm:"type:varchar(5)"                                json:"work_start_time,omitempty"`
	WorkEndTime        *string    `gorm:"type:varchar(5)"                                json:"work_end_time,omitempty"`
	WorkDays           IntArray   `gorm:"type:int[]"                                     json:"work_days,omitempty"`
	JoinedOn           *time.Time `gorm:"type:date"                                      json:"joined_on,omitempty"`
	IsActive           bool       `gorm:"not null;default:true"                          json:"is_active"`
	MustChangePassword bool       `gorm:"not null;default:false"                         json:"must_change_password"`
	VersionedModel

	Department *Department `gorm:"foreignKey:DepartmentID;references:DepartmentID" json:"department,omitempty"`
}

// TableName table name
func (Profile) TableName() string { return "profiles" }

// DeptID returns the department id or "".
func (p *Profile) DeptID() string {
	if p.DepartmentID == nil {
		return ""
	}
	return *p.DepartmentID
}

// EffectiveSchedule merges the profile overrides onto the department policy.
// dept may be nil.
func (p *Profile) EffectiveSchedule(dept *Department) workday.Schedule {
	s := DefaultSchedule()
	if dept != nil {
		s = dept.Schedule()
	}
	if p.WorkStartTime != nil && *p.WorkStartTime != "" {
		s.Start = *p.WorkStartTime
	}
	if p.WorkEndTime != nil && *p.WorkEndTime != "" {
		s.End = *p.WorkEndTime
	}
	if len(p.WorkDays) > 0 {
		s.Days = []int(p.WorkDays)
	}
	return s
}
