package dto

// ── system settings ──

// SetSettingRequest set one value
type SetSettingRequest struct {
	Value       *string `json:"value"       binding:"required,max=1000"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

// SettingResponse one setting
type SettingResponse struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
	UpdatedAt   string `json:"updated_at"`
}
