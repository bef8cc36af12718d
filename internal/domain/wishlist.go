package domain

import (
	"time"
)

// WishlistEntry records that a user saved a tour. A (UserID, TourID) pair
// appears at most once.
type WishlistEntry struct {
	UserID    string    `json:"userId"`
	TourID    string    `json:"tourId"`
	CreatedAt time.Time `json:"createdAt"`
}
