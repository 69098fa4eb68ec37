package repositories

import (
	"context"
	"time"

	"github.com/zatekoja/homeflow/internal/domain/entities"
)

// QuoteRepository defines the interface for quote data operations
type QuoteRepository interface {
	// Create persists a new quote
	Create(ctx context.Context, quote *entities.Quote) error

	// GetByID retrieves a quote by ID
	GetByID(ctx context.Context, id string) (*entities.Quote, error)
}

// BookingRepository defines the interface for booking data operations
type BookingRepository interface {
	// Create persists a new booking and assigns its ID
	Create(ctx context.Context, booking *entities.Booking) error

	// GetByID retrieves a booking by ID
	GetByID(ctx context.Context, id int64) (*entities.Booking, error)

	// Update overwrites the mutable fields of a booking
	Update(ctx context.Context, booking *entities.Booking) error

	// List retrieves bookings matching filter
	List(ctx context.Context, filter BookingFilter) ([]*entities.Booking, error)
}

// BookingOrder selects the sort order of a booking listing
type BookingOrder string

const (
	BookingOrderStartAsc      BookingOrder = "start_asc"
	BookingOrderUpdatedAtDesc BookingOrder = "updated_desc"
)

// BookingFilter defines filters for listing bookings
type BookingFilter struct {
	Statuses     []entities.BookingStatus
	UpdatedSince *time.Time
	OrderBy      BookingOrder
	Limit        int
}

// ReviewRepository defines the interface for review data operations
type ReviewRepository interface {
	// Create persists a new review. A second review for the same booking
	// fails with a conflict error.
	Create(ctx context.Context, review *entities.Review) error

	// GetByBooking retrieves the review attached to a booking
	GetByBooking(ctx context.Context, bookingID int64) (*entities.Review, error)

	// Update overwrites rating and text of an existing review
	Update(ctx context.Context, review *entities.Review) error

	// ListByPro retrieves up to limit reviews for a pro, newest first
	ListByPro(ctx context.Context, proID int64, limit int) ([]*entities.Review, error)

	// AggregateByPro counts and averages all reviews of a pro
	AggregateByPro(ctx context.Context, proID int64) (entities.RatingAggregate, error)
}
