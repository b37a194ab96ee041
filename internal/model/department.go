package model

import "github.com/rahultripathi17/TimeDesk-sub001/pkg/workday"

// Department department and its work policy (departments)
type Department struct {
	DepartmentID     string   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"department_id"`
	Name             string   `gorm:"type:varchar(80);not null"                      json:"name"`
	Description      string   `gorm:"type:text"                                      json:"description,omitempty"`
	WorkStartTime    string   `gorm:"type:varchar(5);not null;default:'09:00'"       json:"work_start_time"`
	WorkEndTime      string   `gorm:"type:varchar(5);not null;default:'18:00'"       json:"work_end_time"`
	LateGraceMinutes int      `gorm:"not null;default:15"                            json:"late_grace_minutes"`
	HalfDayHours     float64  `gorm:"type:numeric(4,2);not null;default:4"           json:"half_day_hours"`
	WorkDays         IntArray `gorm:"type:int[];not null"                            json:"work_days"`
	IsActive         bool     `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel
}

// TableName table name
func (Department) TableName() string { return "departments" }

// Schedule returns the department policy as a schedule.
func (d *Department) Schedule() workday.Schedule {
	return workday.Schedule{
		Start:        d.WorkStartTime,
		End:          d.WorkEndTime,
		GraceMinutes: d.LateGraceMinutes,
		HalfDayHours: d.HalfDayHours,
		Days:         []int(d.WorkDays),
	}
}

// DefaultSchedule applies to profiles without a department.
func DefaultSchedule() workday.Schedule {
	return workday.Schedule{
		Start:        "09:00",
		End:          "18:00",
		GraceMinutes: 15,
		HalfDayHours: 4,
		Days:         append([]int(nil), workday.DefaultDays...),
	}
}
