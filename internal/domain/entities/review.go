package entities

import "time"

// Review is the single rating attached to a booking
type Review struct {
	ID        int64     `json:"id" db:"id"`
	ProID     int64     `json:"pro_id" db:"pro_id"`
	BookingID *int64    `json:"booking_id,omitempty" db:"booking_id"`
	UserID    *int64    `json:"user_id,omitempty" db:"user_id"`
	Rating    float64   `json:"rating" db:"rating"`
	Review    *string   `json:"review,omitempty" db:"review"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// RatingAggregate is the full recompute of a pro's reviews
type RatingAggregate struct {
	ProID   int64
	Count   int
	Average float64
}
