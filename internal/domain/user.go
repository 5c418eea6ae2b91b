package domain

import "time"

// User is the domain entity for an account.
// PlaceIDs lists the user's places in creation order.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Image        string
	PlaceIDs     []string
	CreatedAt    time.Time
}

// Owns reports whether placeID is in the user's place collection.
func (u User) Owns(placeID string) bool {
	for _, id := range u.PlaceIDs {
		if id == placeID {
			return true
		}
	}
	return false
}
