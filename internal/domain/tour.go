package domain

import (
	"time"
)

// Tour is a bookable travel package. Price is in minor currency units.
type Tour struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Destination  string    `json:"destination"`
	Category     string    `json:"category"`
	Difficulty   string    `json:"difficulty"`
	DurationDays int       `json:"duration"`
	MaxGroupSize int       `json:"maxGroupSize"`
	Price        int64     `json:"price"`
	Currency     string    `json:"currency"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	Rating       float64   `json:"rating"`
	ReviewCount  int       `json:"reviewCount"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
