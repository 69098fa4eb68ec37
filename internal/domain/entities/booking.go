package entities

import (
	"strings"
	"time"
)

// BookingStatus represents the lifecycle state of a booking
type BookingStatus string

const (
	BookingStatusPending     BookingStatus = "pending"
	BookingStatusConfirmed   BookingStatus = "confirmed"
	BookingStatusInProgress  BookingStatus = "in_progress"
	BookingStatusRescheduled BookingStatus = "rescheduled"
	BookingStatusCompleted   BookingStatus = "completed"
	BookingStatusCancelled   BookingStatus = "cancelled"
	BookingStatusRated       BookingStatus = "rated"
)

// Normalize lower-cases a status read from storage
func (s BookingStatus) Normalize() BookingStatus {
	return BookingStatus(strings.ToLower(string(s)))
}

// IsActive reports whether the booking can still be rescheduled, completed or cancelled
func (s BookingStatus) IsActive() bool {
	switch s.Normalize() {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusInProgress:
		return true
	}
	return false
}

// IsReviewable reports whether a review can be left for the booking
func (s BookingStatus) IsReviewable() bool {
	switch s.Normalize() {
	case BookingStatusCompleted, BookingStatusCancelled, BookingStatusRescheduled, BookingStatusRated:
		return true
	}
	return false
}

// ReviewableStatuses are the statuses surfaced by the review history
var ReviewableStatuses = []BookingStatus{
	BookingStatusCompleted,
	BookingStatusRescheduled,
	BookingStatusCancelled,
	BookingStatusRated,
}

// Address is where the job takes place
type Address struct {
	Label      string `json:"label,omitempty"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Notes      string `json:"notes,omitempty"`
}

// DefaultAddress is used when a booking does not carry one
var DefaultAddress = Address{
	Label:      "Home",
	Line1:      "Residensi 22, Jalan Kiara",
	Line2:      "Mont Kiara",
	City:       "Kuala Lumpur",
	State:      "Wilayah Persekutuan",
	PostalCode: "50480",
	Country:    "MY",
	Notes:      "Guardhouse: HomeFlow",
}

// Booking represents a job between a customer and a pro
type Booking struct {
	ID                 int64         `json:"id" db:"id"`
	ProID              int64         `json:"pro_id" db:"pro_id"`
	ServiceID          int64         `json:"service_id" db:"service_id"`
	UserID             *int64        `json:"user_id,omitempty" db:"user_id"`
	QuoteID            *string       `json:"quote_id,omitempty" db:"quote_id"`
	Start              time.Time     `json:"start" db:"start_at"`
	End                time.Time     `json:"end" db:"end_at"`
	Status             BookingStatus `json:"status" db:"status"`
	PriceEstimate      float64       `json:"price_estimate" db:"price_estimate"`
	Address            Address       `json:"address" db:"address"`
	Instructions       *string       `json:"instructions,omitempty" db:"instructions"`
	Rating             *float64      `json:"rating,omitempty" db:"rating"`
	ReviewText         *string       `json:"review_text,omitempty" db:"review_text"`
	CancellationReason *string       `json:"cancellation_reason,omitempty" db:"cancellation_reason"`
	CreatedAt          time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at" db:"updated_at"`
}
