package entities

import "time"

// Quote is a non-binding price estimate with a TTL, optionally tied to one pro
type Quote struct {
	ID                 string         `json:"id" db:"id"`
	ServiceID          int64          `json:"service_id" db:"service_id"`
	ProID              *int64         `json:"pro_id,omitempty" db:"pro_id"`
	Currency           string         `json:"currency" db:"currency"`
	EstimateLow        float64        `json:"estimate_low" db:"estimate_low"`
	EstimateHigh       float64        `json:"estimate_high" db:"estimate_high"`
	ExpiresAt          time.Time      `json:"expires_at" db:"expires_at"`
	SuggestedDateStart time.Time      `json:"suggested_date_start" db:"suggested_date_start"`
	SuggestedDateEnd   time.Time      `json:"suggested_date_end" db:"suggested_date_end"`
	Details            map[string]any `json:"details,omitempty" db:"details"`
	CreatedAt          time.Time      `json:"created_at" db:"created_at"`
}

// ExpiredAt reports whether the quote's advisory expiry has passed at now
func (q *Quote) ExpiredAt(now time.Time) bool {
	return !now.Before(q.ExpiresAt)
}
