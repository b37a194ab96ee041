package model

// Known setting keys
const (
	SettingLeaveYearReset      = "leave_year_reset"
	SettingGeofenceEnabled     = "geofence_enabled"
	SettingCheckinCodeRequired = "checkin_code_required"
	SettingAllowWeekendCheckin = "allow_weekend_checkin"
	SettingComplianceThreshold = "compliance_threshold"
	SettingCompanyName         = "company_name"
)

// SystemSetting key/value row (system_settings)
type SystemSetting struct {
	Key         string `gorm:"column:key;type:varchar(64);primaryKey" json:"key"`
	Value       string `gorm:"type:text;not null"                     json:"value"`
	Description string `gorm:"type:text"                              json:"description,omitempty"`
	BaseModel
}

// TableName table name
func (SystemSetting) TableName() string { return "system_settings" }
