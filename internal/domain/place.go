package domain

import "time"

// Location is a geocoded coordinate pair.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Place is a user-submitted location with an image.
// Не зависит от Gin, Postgres, Redis.
type Place struct {
	ID          string
	Title       string
	Description string
	Address     string
	Location    Location
	Image       string
	CreatorID   string

	CreatedAt time.Time
	UpdatedAt time.Time
}
