package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/homeflow/internal/domain/entities"
	"github.com/zatekoja/homeflow/internal/domain/providers"
	"github.com/zatekoja/homeflow/internal/domain/repositories"
	apperrors "github.com/zatekoja/homeflow/pkg/errors"
)

const (
	// DefaultCancellationReason is stored when the caller gives none
	DefaultCancellationReason = "cancelled_via_chat"

	// JobListLimit caps booking listings
	JobListLimit = 20
)

// CreateBookingRequest describes a new booking. ProRef is a slug or numeric ID.
type CreateBookingRequest struct {
	ProRef        string
	Service       entities.ServiceSlug
	Start         time.Time
	End           time.Time
	QuoteID       string
	PriceEstimate *float64
	Address       *entities.Address
	Instructions  *string
}

// UpdateBookingRequest reschedules a booking and/or edits its instructions
type UpdateBookingRequest struct {
	Start        *time.Time
	End          *time.Time
	Instructions *string
}

// JobDetails is a booking with the records it references
type JobDetails struct {
	Booking *entities.Booking
	Pro     *entities.Pro
	Service *entities.Service
	Quote   *entities.Quote
	// QuoteExpired is set when the referenced quote had expired at booking time
	QuoteExpired bool
}

// BookingService drives the booking lifecycle
type BookingService struct {
	bookings repositories.BookingRepository
	pros     repositories.ProRepository
	services repositories.ServiceRepository
	quotes   repositories.QuoteRepository
	events   providers.EventBus
	now      func() time.Time
}

// NewBookingService creates a new booking service. events may be nil.
func NewBookingService(
	bookings repositories.BookingRepository,
	pros repositories.ProRepository,
	services repositories.ServiceRepository,
	quotes repositories.QuoteRepository,
	events providers.EventBus,
	now func() time.Time,
) *BookingService {
	if now == nil {
		now = time.Now
	}
	return &BookingService{
		bookings: bookings,
		pros:     pros,
		services: services,
		quotes:   quotes,
		events:   events,
		now:      now,
	}
}

// Create books a confirmed job. The quote reference is attached when it
// exists; it is not checked against the pro or service.
func (s *BookingService) Create(ctx context.Context, req CreateBookingRequest) (*JobDetails, error) {
	if req.Start.IsZero() || req.End.IsZero() {
		return nil, apperrors.NewValidationError("slot.start and slot.end are required.")
	}
	if !req.End.After(req.Start) {
		return nil, apperrors.NewValidationError("slot.end must be after slot.start.")
	}

	pro, err := s.pros.GetByRef(ctx, req.ProRef)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFoundError("Provider not found.")
		}
		return nil, err
	}

	service, err := s.services.GetByID(ctx, pro.ServiceID)
	if err != nil && !apperrors.IsNotFound(err) {
		return nil, err
	}
	if service == nil || service.Slug != req.Service {
		return nil, apperrors.NewValidationError("Provider does not offer this service.")
	}

	now := s.now()
	details := &JobDetails{Pro: pro, Service: service}

	if req.QuoteID != "" {
		quote, err := s.quotes.GetByID(ctx, req.QuoteID)
		switch {
		case err == nil:
			details.Quote = quote
			details.QuoteExpired = quote.ExpiredAt(now)
		case apperrors.IsNotFound(err):
			log.Debug().Str("quote_id", req.QuoteID).Msg("Booking references unknown quote")
		default:
			return nil, err
		}
	}

	booking := &entities.Booking{
		ProID:         pro.ID,
		ServiceID:     pro.ServiceID,
		Start:         req.Start,
		End:           req.End,
		Status:        entities.BookingStatusConfirmed,
		PriceEstimate: pro.BaseQuoteLow,
		Address:       entities.DefaultAddress,
		Instructions:  req.Instructions,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if details.Quote != nil {
		booking.QuoteID = &details.Quote.ID
	}
	if req.PriceEstimate != nil {
		booking.PriceEstimate = *req.PriceEstimate
	}
	if req.Address != nil {
		booking.Address = *req.Address
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}
	details.Booking = booking

	s.publish(ctx, entities.BookingEventCreated, booking)
	return details, nil
}

// Get loads a booking with its pro, service and quote
func (s *BookingService) Get(ctx context.Context, id int64) (*JobDetails, error) {
	booking, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.details(ctx, booking, newLookup())
}

// Reschedule moves a booking and/or edits its instructions. Status is unchanged.
func (s *BookingService) Reschedule(ctx context.Context, id int64, req UpdateBookingRequest) (*JobDetails, error) {
	booking, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Start != nil {
		booking.Start = *req.Start
	}
	if req.End != nil {
		booking.End = *req.End
	}
	if !booking.End.After(booking.Start) {
		return nil, apperrors.NewValidationError("slot.end must be after slot.start.")
	}
	if req.Instructions != nil {
		booking.Instructions = req.Instructions
	}

	return s.save(ctx, booking, entities.BookingEventRescheduled)
}

// Complete marks a booking completed regardless of its current status
func (s *BookingService) Complete(ctx context.Context, id int64) (*JobDetails, error) {
	booking, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	booking.Status = entities.BookingStatusCompleted
	return s.save(ctx, booking, entities.BookingEventCompleted)
}

// Cancel cancels a booking, recording reason or the default sentinel
func (s *BookingService) Cancel(ctx context.Context, id int64, reason string) (*JobDetails, error) {
	booking, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if reason == "" {
		reason = DefaultCancellationReason
	}
	booking.Status = entities.BookingStatusCancelled
	booking.CancellationReason = &reason
	return s.save(ctx, booking, entities.BookingEventCancelled)
}

// ListUpcoming returns up to JobListLimit bookings ordered by start time
func (s *BookingService) ListUpcoming(ctx context.Context) ([]*JobDetails, error) {
	return s.list(ctx, repositories.BookingFilter{
		OrderBy: repositories.BookingOrderStartAsc,
		Limit:   JobListLimit,
	})
}

// ListReviewable returns bookings that can carry a review, most recently
// updated first. since may be nil.
func (s *BookingService) ListReviewable(ctx context.Context, since *time.Time) ([]*JobDetails, error) {
	return s.list(ctx, repositories.BookingFilter{
		Statuses:     entities.ReviewableStatuses,
		UpdatedSince: since,
		OrderBy:      repositories.BookingOrderUpdatedAtDesc,
		Limit:        JobListLimit,
	})
}

func (s *BookingService) list(ctx context.Context, filter repositories.BookingFilter) ([]*JobDetails, error) {
	bookings, err := s.bookings.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	lookup := newLookup()
	jobs := make([]*JobDetails, 0, len(bookings))
	for _, booking := range bookings {
		details, err := s.details(ctx, booking, lookup)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, details)
	}
	return jobs, nil
}

func (s *BookingService) load(ctx context.Context, id int64) (*entities.Booking, error) {
	if id <= 0 {
		return nil, apperrors.NewValidationError("job_id is required.")
	}
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFoundError("Job not found.")
		}
		return nil, err
	}
	return booking, nil
}

func (s *BookingService) save(ctx context.Context, booking *entities.Booking, event entities.BookingEventType) (*JobDetails, error) {
	booking.UpdatedAt = s.now()
	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}
	s.publish(ctx, event, booking)
	return s.details(ctx, booking, newLookup())
}

// lookup memoizes pro and service reads within one call
type lookup struct {
	pros     map[int64]*entities.Pro
	services map[int64]*entities.Service
}

func newLookup() *lookup {
	return &lookup{pros: map[int64]*entities.Pro{}, services: map[int64]*entities.Service{}}
}

func (s *BookingService) details(ctx context.Context, booking *entities.Booking, l *lookup) (*JobDetails, error) {
	details := &JobDetails{Booking: booking}

	pro, ok := l.pros[booking.ProID]
	if !ok {
		var err error
		pro, err = s.pros.GetByID(ctx, booking.ProID)
		if err != nil && !apperrors.IsNotFound(err) {
			return nil, err
		}
		l.pros[booking.ProID] = pro
	}
	details.Pro = pro

	service, ok := l.services[booking.ServiceID]
	if !ok {
		var err error
		service, err = s.services.GetByID(ctx, booking.ServiceID)
		if err != nil && !apperrors.IsNotFound(err) {
			return nil, err
		}
		l.services[booking.ServiceID] = service
	}
	details.Service = service

	if booking.QuoteID != nil {
		quote, err := s.quotes.GetByID(ctx, *booking.QuoteID)
		if err != nil && !apperrors.IsNotFound(err) {
			return nil, err
		}
		details.Quote = quote
	}
	return details, nil
}

func (s *BookingService) publish(ctx context.Context, eventType entities.BookingEventType, booking *entities.Booking) {
	publishBookingEvent(ctx, s.events, entities.NewBookingEvent(eventType, booking, s.now()))
}

// publishBookingEvent fans an event out to the global and per-pro channels.
// Failures are logged; the mutation has already been stored.
func publishBookingEvent(ctx context.Context, bus providers.EventBus, event *entities.BookingEvent) {
	if bus == nil {
		return
	}
	for _, channel := range []string{providers.EventChannelBookings, providers.ProChannel(event.ProID)} {
		if err := bus.Publish(ctx, channel, event); err != nil {
			log.Warn().Err(err).
				Str("channel", channel).
				Str("event_type", string(event.Type)).
				Int64("booking_id", event.BookingID).
				Msg("Failed to publish booking event")
		}
	}
}
