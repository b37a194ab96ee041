package dto

// ── office locations ──

// CreateOfficeLocationRequest create a geo-fenced office
type CreateOfficeLocationRequest struct {
	Name         string   `json:"name"          binding:"required,min=2,max=100"`
	Address      string   `json:"address"       binding:"omitempty,max=255"`
	Latitude     *float64 `json:"latitude"      binding:"required,min=-90,max=90"`
	Longitude    *float64 `json:"longitude"     binding:"required,min=-180,max=180"`
	RadiusMeters int      `json:"radius_meters" binding:"omitempty,min=10,max=5000"`
}

// UpdateOfficeLocationRequest partial update; RotateSecret invalidates displayed codes
type UpdateOfficeLocationRequest struct {
	Name         *string  `json:"name"          binding:"omitempty,min=2,max=100"`
	Address      *string  `json:"address"       binding:"omitempty,max=255"`
	Latitude     *float64 `json:"latitude"      binding:"omitempty,min=-90,max=90"`
	Longitude    *float64 `json:"longitude"     binding:"omitempty,min=-180,max=180"`
	RadiusMeters *int     `json:"radius_meters" binding:"omitempty,min=10,max=5000"`
	IsActive     *bool    `json:"is_active"`
	RotateSecret bool     `json:"rotate_secret"`
}

// OfficeLocationListRequest list filters
type OfficeLocationListRequest struct {
	IncludeInactive bool `form:"include_inactive"`
}

// OfficeLocationResponse office location
type OfficeLocationResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Address      string  `json:"address,omitempty"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusMeters int     `json:"radius_meters"`
	IsActive     bool    `json:"is_active"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

// CheckinCodeResponse current rotating code
type CheckinCodeResponse struct {
	LocationID   string `json:"location_id"`
	Code         string `json:"code"`
	Period       int    `json:"period"`        // seconds per code
	ValidSeconds int    `json:"valid_seconds"` // until the code rotates
}
