package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/homeflow/internal/domain/entities"
	"github.com/zatekoja/homeflow/internal/domain/providers"
	"github.com/zatekoja/homeflow/internal/domain/repositories"
	apperrors "github.com/zatekoja/homeflow/pkg/errors"
)

const (
	MinRating = 1.0
	MaxRating = 5.0

	// RecentReviewsLimit is shown after a rating is recorded
	RecentReviewsLimit = 10

	// ProReviewsLimit is shown on a pro's review page
	ProReviewsLimit = 12
)

// RateRequest is a rating for a booking. Review is trimmed; blank means none.
type RateRequest struct {
	JobID  int64
	Rating float64
	Review *string
}

// RateResult is the rated job, its review and the pro's latest reviews
type RateResult struct {
	Job    *JobDetails
	Review *entities.Review
	Rating float64
	Text   *string
	Recent []*entities.Review
}

// ReviewService records ratings and keeps pro aggregates in sync
type ReviewService struct {
	bookings repositories.BookingRepository
	reviews  repositories.ReviewRepository
	pros     repositories.ProRepository
	jobs     *BookingService
	events   providers.EventBus
	now      func() time.Time
}

// NewReviewService creates a new review service. events may be nil.
func NewReviewService(
	bookings repositories.BookingRepository,
	reviews repositories.ReviewRepository,
	pros repositories.ProRepository,
	jobs *BookingService,
	events providers.EventBus,
	now func() time.Time,
) *ReviewService {
	if now == nil {
		now = time.Now
	}
	return &ReviewService{
		bookings: bookings,
		reviews:  reviews,
		pros:     pros,
		jobs:     jobs,
		events:   events,
		now:      now,
	}
}

// ClampRating bounds a rating to [MinRating, MaxRating]
func ClampRating(rating float64) float64 {
	return math.Max(MinRating, math.Min(MaxRating, rating))
}

// Rate upserts the booking's single review, marks the booking rated and
// recomputes the pro aggregate. Rating the same booking again overwrites.
func (s *ReviewService) Rate(ctx context.Context, req RateRequest) (*RateResult, error) {
	if req.JobID <= 0 || math.IsNaN(req.Rating) || math.IsInf(req.Rating, 0) {
		return nil, apperrors.NewValidationError("job_id and rating are required.")
	}
	rating := ClampRating(req.Rating)

	var text *string
	if req.Review != nil {
		if trimmed := strings.TrimSpace(*req.Review); trimmed != "" {
			text = &trimmed
		}
	}

	booking, err := s.bookings.GetByID(ctx, req.JobID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFoundError("Job not found.")
		}
		return nil, err
	}

	review, err := s.upsert(ctx, booking, rating, text)
	if err != nil {
		return nil, err
	}

	now := s.now()
	booking.Status = entities.BookingStatusRated
	booking.Rating = &rating
	booking.ReviewText = text
	booking.UpdatedAt = now
	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}

	if err := s.RecomputeAggregate(ctx, booking.ProID); err != nil {
		return nil, err
	}

	publishBookingEvent(ctx, s.events, entities.NewBookingEvent(entities.BookingEventRated, booking, now))

	job, err := s.jobs.Get(ctx, booking.ID)
	if err != nil {
		return nil, err
	}

	recent, err := s.reviews.ListByPro(ctx, booking.ProID, RecentReviewsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	return &RateResult{Job: job, Review: review, Rating: rating, Text: text, Recent: recent}, nil
}

// upsert creates the booking's review or overwrites the existing one. A
// concurrent create that loses the uniqueness race becomes an update.
func (s *ReviewService) upsert(ctx context.Context, booking *entities.Booking, rating float64, text *string) (*entities.Review, error) {
	now := s.now()

	existing, err := s.reviews.GetByBooking(ctx, booking.ID)
	if err != nil && !apperrors.IsNotFound(err) {
		return nil, err
	}

	if existing == nil {
		bookingID := booking.ID
		review := &entities.Review{
			ProID:     booking.ProID,
			BookingID: &bookingID,
			UserID:    booking.UserID,
			Rating:    rating,
			Review:    text,
			CreatedAt: now,
			UpdatedAt: now,
		}
		err := s.reviews.Create(ctx, review)
		if err == nil {
			return review, nil
		}
		if !apperrors.IsConflict(err) {
			return nil, fmt.Errorf("failed to create review: %w", err)
		}

		log.Debug().Int64("booking_id", booking.ID).Msg("Review already exists, updating instead")
		existing, err = s.reviews.GetByBooking(ctx, booking.ID)
		if err != nil {
			return nil, err
		}
	}

	existing.Rating = rating
	existing.Review = text
	existing.UpdatedAt = now
	if err := s.reviews.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}
	return existing, nil
}

// RecomputeAggregate recounts and re-averages every review of a pro. A pro
// with no reviews is left unchanged.
func (s *ReviewService) RecomputeAggregate(ctx context.Context, proID int64) error {
	aggregate, err := s.reviews.AggregateByPro(ctx, proID)
	if err != nil {
		return fmt.Errorf("failed to aggregate reviews: %w", err)
	}
	if aggregate.Count == 0 {
		return nil
	}
	aggregate.ProID = proID
	if err := s.pros.UpdateRating(ctx, aggregate); err != nil {
		return fmt.Errorf("failed to update pro rating: %w", err)
	}
	return nil
}

// ListByPro returns the pro's most recent reviews
func (s *ReviewService) ListByPro(ctx context.Context, proID int64, limit int) ([]*entities.Review, error) {
	reviews, err := s.reviews.ListByPro(ctx, proID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}
