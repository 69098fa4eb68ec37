// Package memory implements the repositories on process memory. Records are
// copied on the way in and out, so callers never share state with the store.
package memory

import (
	"maps"
	"slices"
	"sync"

	"github.com/zatekoja/homeflow/internal/domain/entities"
)

// Store holds every entity behind one lock
type Store struct {
	mu sync.RWMutex

	services map[int64]*entities.Service
	pros     map[int64]*entities.Pro
	quotes   map[string]*entities.Quote
	bookings map[int64]*entities.Booking
	reviews  map[int64]*entities.Review

	nextServiceID int64
	nextProID     int64
	nextBookingID int64
	nextReviewID  int64
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		services: make(map[int64]*entities.Service),
		pros:     make(map[int64]*entities.Pro),
		quotes:   make(map[string]*entities.Quote),
		bookings: make(map[int64]*entities.Booking),
		reviews:  make(map[int64]*entities.Review),
	}
}

// Services returns the service repository view
func (s *Store) Services() *ServiceRepository { return &ServiceRepository{store: s} }

// Pros returns the pro repository view
func (s *Store) Pros() *ProRepository { return &ProRepository{store: s} }

// Quotes returns the quote repository view
func (s *Store) Quotes() *QuoteRepository { return &QuoteRepository{store: s} }

// Bookings returns the booking repository view
func (s *Store) Bookings() *BookingRepository { return &BookingRepository{store: s} }

// Reviews returns the review repository view
func (s *Store) Reviews() *ReviewRepository { return &ReviewRepository{store: s} }

func cloneService(in *entities.Service) *entities.Service {
	out := *in
	out.DefaultWorkingDays = slices.Clone(in.DefaultWorkingDays)
	return &out
}

func clonePro(in *entities.Pro) *entities.Pro {
	out := *in
	out.Rating = cloneFloat(in.Rating)
	out.PriceFrom = cloneFloat(in.PriceFrom)
	out.WorkingDays = slices.Clone(in.WorkingDays)
	out.TimeWindows = slices.Clone(in.TimeWindows)
	out.Badges = slices.Clone(in.Badges)
	out.Extras = slices.Clone(in.Extras)
	return &out
}

func cloneQuote(in *entities.Quote) *entities.Quote {
	out := *in
	if in.ProID != nil {
		id := *in.ProID
		out.ProID = &id
	}
	out.Details = maps.Clone(in.Details)
	return &out
}

func cloneBooking(in *entities.Booking) *entities.Booking {
	out := *in
	out.UserID = cloneInt(in.UserID)
	out.QuoteID = cloneString(in.QuoteID)
	out.Instructions = cloneString(in.Instructions)
	out.Rating = cloneFloat(in.Rating)
	out.ReviewText = cloneString(in.ReviewText)
	out.CancellationReason = cloneString(in.CancellationReason)
	return &out
}

func cloneReview(in *entities.Review) *entities.Review {
	out := *in
	out.BookingID = cloneInt(in.BookingID)
	out.UserID = cloneInt(in.UserID)
	out.Review = cloneString(in.Review)
	return &out
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneInt(v *int64) *int64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
