package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"github.com/zatekoja/homeflow/internal/domain/entities"
	"github.com/zatekoja/homeflow/internal/domain/repositories"
	apperrors "github.com/zatekoja/homeflow/pkg/errors"
)

// QuoteRepository implements repositories.QuoteRepository
type QuoteRepository struct {
	store *Store
}

// Create stores a quote under its ID
func (r *QuoteRepository) Create(ctx context.Context, quote *entities.Quote) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.quotes[quote.ID]; exists {
		return apperrors.NewConflictError(fmt.Sprintf("quote %s already exists", quote.ID), nil)
	}
	r.store.quotes[quote.ID] = cloneQuote(quote)
	return nil
}

// GetByID retrieves a quote by ID
func (r *QuoteRepository) GetByID(ctx context.Context, id string) (*entities.Quote, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	quote, ok := r.store.quotes[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("quote %s not found", id))
	}
	return cloneQuote(quote), nil
}

// BookingRepository implements repositories.BookingRepository
type BookingRepository struct {
	store *Store
}

// Create stores a booking and assigns the next ID
func (r *BookingRepository) Create(ctx context.Context, booking *entities.Booking) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.nextBookingID++
	booking.ID = r.store.nextBookingID
	r.store.bookings[booking.ID] = cloneBooking(booking)
	return nil
}

// GetByID retrieves a booking by ID
func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*entities.Booking, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	booking, ok := r.store.bookings[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("booking %d not found", id))
	}
	return cloneBooking(booking), nil
}

// Update overwrites a stored booking
func (r *BookingRepository) Update(ctx context.Context, booking *entities.Booking) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.bookings[booking.ID]; !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("booking %d not found", booking.ID))
	}
	r.store.bookings[booking.ID] = cloneBooking(booking)
	return nil
}

// List retrieves bookings matching filter
func (r *BookingRepository) List(ctx context.Context, filter repositories.BookingFilter) ([]*entities.Booking, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var list []*entities.Booking
	for _, booking := range r.store.bookings {
		if len(filter.Statuses) > 0 && !slices.Contains(filter.Statuses, booking.Status.Normalize()) {
			continue
		}
		if filter.UpdatedSince != nil && booking.UpdatedAt.Before(*filter.UpdatedSince) {
			continue
		}
		list = append(list, cloneBooking(booking))
	}

	switch filter.OrderBy {
	case repositories.BookingOrderUpdatedAtDesc:
		sort.Slice(list, func(i, j int) bool {
			if !list[i].UpdatedAt.Equal(list[j].UpdatedAt) {
				return list[i].UpdatedAt.After(list[j].UpdatedAt)
			}
			return list[i].ID > list[j].ID
		})
	default:
		sort.Slice(list, func(i, j int) bool {
			if !list[i].Start.Equal(list[j].Start) {
				return list[i].Start.Before(list[j].Start)
			}
			return list[i].ID < list[j].ID
		})
	}

	if filter.Limit > 0 && len(list) > filter.Limit {
		list = list[:filter.Limit]
	}
	return list, nil
}

// ReviewRepository implements repositories.ReviewRepository
type ReviewRepository struct {
	store *Store
}

// Create stores a review; at most one review may reference a booking
func (r *ReviewRepository) Create(ctx context.Context, review *entities.Review) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if review.BookingID != nil {
		for _, existing := range r.store.reviews {
			if existing.BookingID != nil && *existing.BookingID == *review.BookingID {
				return apperrors.NewConflictError(fmt.Sprintf("review for booking %d already exists", *review.BookingID), nil)
			}
		}
	}
	r.store.nextReviewID++
	review.ID = r.store.nextReviewID
	r.store.reviews[review.ID] = cloneReview(review)
	return nil
}

// GetByBooking retrieves the review of a booking
func (r *ReviewRepository) GetByBooking(ctx context.Context, bookingID int64) (*entities.Review, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, review := range r.store.reviews {
		if review.BookingID != nil && *review.BookingID == bookingID {
			return cloneReview(review), nil
		}
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("review for booking %d not found", bookingID))
}

// Update overwrites rating and text of a stored review
func (r *ReviewRepository) Update(ctx context.Context, review *entities.Review) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.reviews[review.ID]
	if !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("review %d not found", review.ID))
	}
	existing.Rating = review.Rating
	existing.Review = cloneString(review.Review)
	existing.UpdatedAt = review.UpdatedAt
	return nil
}

// ListByPro retrieves a pro's reviews newest first
func (r *ReviewRepository) ListByPro(ctx context.Context, proID int64, limit int) ([]*entities.Review, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var list []*entities.Review
	for _, review := range r.store.reviews {
		if review.ProID == proID {
			list = append(list, cloneReview(review))
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

// AggregateByPro counts and averages a pro's reviews
func (r *ReviewRepository) AggregateByPro(ctx context.Context, proID int64) (entities.RatingAggregate, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	aggregate := entities.RatingAggregate{ProID: proID}
	var sum float64
	for _, review := range r.store.reviews {
		if review.ProID == proID {
			aggregate.Count++
			sum += review.Rating
		}
	}
	if aggregate.Count > 0 {
		aggregate.Average = sum / float64(aggregate.Count)
	}
	return aggregate, nil
}
