package model

import "github.com/rahultripathi17/TimeDesk-sub001/pkg/geo"

// OfficeLocation geo-fenced office (office_locations)
type OfficeLocation struct {
	LocationID    string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"location_id"`
	Name          string  `gorm:"type:varchar(100);not null"                     json:"name"`
	Address       string  `gorm:"type:varchar(255)"                              json:"address,omitempty"`
	Latitude      float64 `gorm:"not null"                                       json:"latitude"`
	Longitude     float64 `gorm:"not null"                                       json:"longitude"`
	RadiusMeters  int     `gorm:"not null;default:200"                           json:"radius_meters"`
	CheckinSecret string  `gorm:"type:varchar(64);not null"                      json:"-"`
	IsActive      bool    `gorm:"not null;default:true"                          json:"is_active"`
	SoftDeleteModel
}

// TableName table name
func (OfficeLocation) TableName() string { return "office_locations" }

// Center returns the fence center.
func (l *OfficeLocation) Center() geo.Point {
	return geo.Point{Lat: l.Latitude, Lng: l.Longitude}
}

// Contains reports whether p is inside the fence.
func (l *OfficeLocation) Contains(p geo.Point) bool {
	return geo.Within(p, l.Center(), float64(l.RadiusMeters))
}
