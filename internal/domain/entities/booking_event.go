package entities

import (
	"time"

	"github.com/google/uuid"
)

// BookingEventType represents what happened to a booking
type BookingEventType string

const (
	BookingEventCreated     BookingEventType = "booking.created"
	BookingEventRescheduled BookingEventType = "booking.updated"
	BookingEventCompleted   BookingEventType = "booking.completed"
	BookingEventCancelled   BookingEventType = "booking.cancelled"
	BookingEventRated       BookingEventType = "booking.rated"
)

// BookingEvent is published on the event bus after a lifecycle mutation
type BookingEvent struct {
	ID        string           `json:"id"`
	Type      BookingEventType `json:"type"`
	BookingID int64            `json:"booking_id"`
	ProID     int64            `json:"pro_id"`
	ServiceID int64            `json:"service_id"`
	Status    BookingStatus    `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
}

// NewBookingEvent creates an event describing booking's current state
func NewBookingEvent(eventType BookingEventType, booking *Booking, at time.Time) *BookingEvent {
	return &BookingEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		BookingID: booking.ID,
		ProID:     booking.ProID,
		ServiceID: booking.ServiceID,
		Status:    booking.Status,
		Timestamp: at,
	}
}
