package model

import "time"

// Attendance statuses
const (
	AttendancePresent = "present"
	AttendanceLate    = "late"
	AttendanceHalfDay = "half_day"
	AttendanceAbsent  = "absent"
	AttendanceOnLeave = "on_leave"
)

// Attendance sources
const (
	SourceSelf  = "self"
	SourceAdmin = "admin"
)

// ValidAttendanceStatus reports whether s is a known status.
func ValidAttendanceStatus(s string) bool {
	switch s {
	case AttendancePresent, AttendanceLate, AttendanceHalfDay, AttendanceAbsent, AttendanceOnLeave:
		return true
	}
	return false
}

// Attendance one row per profile per day (attendance)
type Attendance struct {
	AttendanceID     string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"attendance_id"`
	ProfileID        string     `gorm:"type:uuid;not null"                             json:"profile_id"`
	WorkDate         time.Time  `gorm:"type:date;not null"                             json:"work_date"`
	Status           string     `gorm:"type:varchar(20);not null"                      json:"status"`
	CheckInAt        *time.Time `                                                      json:"check_in_at,omitempty"`
	CheckOutAt       *time.Time `                                                      json:"check_out_at,omitempty"`
	CheckInLat       *float64   `                                                      json:"check_in_lat,omitempty"`
	CheckInLng       *float64   `                                                      json:"check_in_lng,omitempty"`
	CheckOutLat      *float64   `                                                      json:"check_out_lat,omitempty"`
	CheckOutLng      *float64   `                                                      json:"check_out_lng,omitempty"`
	OfficeLocationID *string    `gorm:"type:uuid"                                      json:"office_location_id,omitempty"`
	WorkMinutes      int        `gorm:"not null;default:0"                             json:"work_minutes"`
	Notes            string     `gorm:"type:text"                                      json:"notes,omitempty"`
	Source           string     `gorm:"type:varchar(10);not null;default:'self'"       json:"source"`
	BaseModel

	Profile *Profile `gorm:"foreignKey:ProfileID;references:ProfileID" json:"profile,omitempty"`
}

// TableName table name
func (Attendance) TableName() string { return "attendance" }

// Worked reports whether the row records time on site.
func (a *Attendance) Worked() bool {
	switch a.Status {
	case AttendancePresent, AttendanceLate, AttendanceHalfDay:
		return true
	}
	return false
}
