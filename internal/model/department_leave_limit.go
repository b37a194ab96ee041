package model

// DepartmentLeaveLimit per-department annual quota for one leave type (department_leave_limits)
type DepartmentLeaveLimit struct {
	LimitID      string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"limit_id"`
	DepartmentID string `gorm:"type:uuid;not null"                             json:"department_id"`
	LeaveType    string `gorm:"type:varchar(20);not null"                      json:"leave_type"`
	AnnualLimit  int    `gorm:"not null"                                       json:"annual_limit"`
	BaseModel
}

// TableName table name
func (DepartmentLeaveLimit) TableName() string { return "department_leave_limits" }
