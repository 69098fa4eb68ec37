package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/homeflow/internal/application/schedule"
	"github.com/zatekoja/homeflow/internal/application/services"
	"github.com/zatekoja/homeflow/internal/domain/entities"
	"github.com/zatekoja/homeflow/internal/domain/providers"
	apperrors "github.com/zatekoja/homeflow/pkg/errors"
)

func TestBookingService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("books a confirmed job and publishes it", func(t *testing.T) {
		fx := newFixture(t)
		pro := fx.pro(t, "rapidfix-plumbing")

		job := fx.book(t, "rapidfix-plumbing", entities.ServicePlumbing)

		booking := job.Booking
		assert.NotZero(t, booking.ID)
		assert.Equal(t, entities.BookingStatusConfirmed, booking.Status)
		assert.Equal(t, pro.BaseQuoteLow, booking.PriceEstimate)
		assert.Equal(t, entities.DefaultAddress, booking.Address)
		assert.Nil(t, booking.QuoteID)
		assert.Equal(t, pro.ID, job.Pro.ID)
		assert.Equal(t, entities.ServicePlumbing, job.Service.Slug)

		global := fx.events.Published(providers.EventChannelBookings)
		require.Len(t, global, 1)
		assert.Equal(t, entities.BookingEventCreated, global[0].Type)
		assert.Equal(t, booking.ID, global[0].BookingID)
		assert.Len(t, fx.events.Published(providers.ProChannel(pro.ID)), 1)
	})

	t.Run("caller price, address and instructions win", func(t *testing.T) {
		fx := newFixture(t)
		address := entities.Address{Line1: "1 Jalan Ampang", City: "Kuala Lumpur", PostalCode: "50450", Country: "MY"}
		start := fx.now.Add(24 * time.Hour)

		job, err := fx.bookings.Create(ctx, services.CreateBookingRequest{
			ProRef:        "sparkle-cleaners",
			Service:       entities.ServiceCleaning,
			Start:         start,
			End:           start.Add(2 * time.Hour),
			PriceEstimate: ptr(99.0),
			Address:       &address,
			Instructions:  ptr("Bring a ladder"),
		})
		require.NoError(t, err)

		assert.Equal(t, 99.0, job.Booking.PriceEstimate)
		assert.Equal(t, address, job.Booking.Address)
		assert.Equal(t, "Bring a ladder", *job.Booking.Instructions)
	})

	t.Run("unknown quote is ignored", func(t *testing.T) {
		fx := newFixture(t)
		start := fx.now.Add(24 * time.Hour)

		job, err := fx.bookings.Create(ctx, services.CreateBookingRequest{
			ProRef:  "sparkle-cleaners",
			Service: entities.ServiceCleaning,
			Start:   start,
			End:     start.Add(2 * time.Hour),
			QuoteID: "does-not-exist",
		})
		require.NoError(t, err)
		assert.Nil(t, job.Booking.QuoteID)
		assert.Nil(t, job.Quote)
	})

	t.Run("expired quote is attached and flagged", func(t *testing.T) {
		fx := newFixture(t)
		quote, err := fx.quotes.Create(ctx, services.QuoteRequest{Service: entities.ServiceCleaning, ProRef: "sparkle-cleaners"})
		require.NoError(t, err)

		fx.now = fx.now.Add(services.QuoteTTL + time.Minute)
		start := fx.now.Add(24 * time.Hour)

		job, err := fx.bookings.Create(ctx, services.CreateBookingRequest{
			ProRef:  "sparkle-cleaners",
			Service: entities.ServiceCleaning,
			Start:   start,
			End:     start.Add(2 * time.Hour),
			QuoteID: quote.Quote.ID,
		})
		require.NoError(t, err)
		require.NotNil(t, job.Booking.QuoteID)
		assert.Equal(t, quote.Quote.ID, *job.Booking.QuoteID)
		assert.True(t, job.QuoteExpired)
	})

	t.Run("quote priced for another provider is attached", func(t *testing.T) {
		fx := newFixture(t)
		quote, err := fx.quotes.Create(ctx, services.QuoteRequest{Service: entities.ServicePlumbing, ProRef: "rapidfix-plumbing"})
		require.NoError(t, err)
		start := fx.now.Add(24 * time.Hour)

		job, err := fx.bookings.Create(ctx, services.CreateBookingRequest{
			ProRef:  "sparkle-cleaners",
			Service: entities.ServiceCleaning,
			Start:   start,
			End:     start.Add(2 * time.Hour),
			QuoteID: quote.Quote.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, "sparkle-cleaners", job.Pro.Slug)
		require.NotNil(t, job.Booking.QuoteID)
		assert.Equal(t, quote.Quote.ID, *job.Booking.QuoteID)
		require.NotNil(t, job.Quote)
		assert.NotEqual(t, job.Pro.ID, *job.Quote.ProID)
		assert.False(t, job.QuoteExpired)
	})

	t.Run("validation", func(t *testing.T) {
		fx := newFixture(t)
		start := fx.now.Add(24 * time.Hour)

		tests := []struct {
			name    string
			req     services.CreateBookingRequest
			errType apperrors.ErrorType
			message string
		}{
			{
				name:    "missing slot",
				req:     services.CreateBookingRequest{ProRef: "sparkle-cleaners", Service: entities.ServiceCleaning},
				errType: apperrors.ErrorTypeValidation,
				message: "slot.start and slot.end are required.",
			},
			{
				name:    "end before start",
				req:     services.CreateBookingRequest{ProRef: "sparkle-cleaners", Service: entities.ServiceCleaning, Start: start, End: start},
				errType: apperrors.ErrorTypeValidation,
				message: "slot.end must be after slot.start.",
			},
			{
				name:    "unknown pro",
				req:     services.CreateBookingRequest{ProRef: "nobody", Service: entities.ServiceCleaning, Start: start, End: start.Add(time.Hour)},
				errType: apperrors.ErrorTypeNotFound,
				message: "Provider not found.",
			},
			{
				name:    "pro of another service",
				req:     services.CreateBookingRequest{ProRef: "sparkle-cleaners", Service: entities.ServicePlumbing, Start: start, End: start.Add(time.Hour)},
				errType: apperrors.ErrorTypeValidation,
				message: "Provider does not offer this service.",
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := fx.bookings.Create(ctx, tt.req)
				require.Error(t, err)
				assert.True(t, apperrors.IsType(err, tt.errType))
				assert.Equal(t, tt.message, apperrors.Message(err))
			})
		}
	})
}

func TestBookingService_Lifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("reschedule moves the slot and keeps the status", func(t *testing.T) {
		fx := newFixture(t)
		job := fx.book(t, "voltsure-electric", entities.ServiceElectrical)

		start := job.Booking.Start.Add(48 * time.Hour)
		end := start.Add(2 * time.Hour)
		updated, err := fx.bookings.Reschedule(ctx, job.Booking.ID, services.UpdateBookingRequest{
			Start:        &start,
			End:          &end,
			Instructions: ptr("Gate code 1234"),
		})
		require.NoError(t, err)

		assert.Equal(t, start, updated.Booking.Start)
		assert.Equal(t, end, updated.Booking.End)
		assert.Equal(t, entities.BookingStatusConfirmed, updated.Booking.Status)
		assert.Equal(t, "Gate code 1234", *updated.Booking.Instructions)

		events := fx.events.Published(providers.EventChannelBookings)
		assert.Equal(t, entities.BookingEventRescheduled, events[len(events)-1].Type)
	})

	t.Run("reschedule rejects an inverted slot", func(t *testing.T) {
		fx := newFixture(t)
		job := fx.book(t, "voltsure-electric", entities.ServiceElectrical)

		end := job.Booking.Start.Add(-time.Hour)
		_, err := fx.bookings.Reschedule(ctx, job.Booking.ID, services.UpdateBookingRequest{End: &end})
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

		stored, err := fx.bookings.Get(ctx, job.Booking.ID)
		require.NoError(t, err)
		assert.Equal(t, job.Booking.End, stored.Booking.End)
	})

	t.Run("complete", func(t *testing.T) {
		fx := newFixture(t)
		job := fx.book(t, "voltsure-electric", entities.ServiceElectrical)

		completed, err := fx.bookings.Complete(ctx, job.Booking.ID)
		require.NoError(t, err)
		assert.Equal(t, entities.BookingStatusCompleted, completed.Booking.Status)
	})

	t.Run("cancel records the reason", func(t *testing.T) {
		fx := newFixture(t)
		job := fx.book(t, "voltsure-electric", entities.ServiceElectrical)

		cancelled, err := fx.bookings.Cancel(ctx, job.Booking.ID, "")
		require.NoError(t, err)
		assert.Equal(t, entities.BookingStatusCancelled, cancelled.Booking.Status)
		assert.Equal(t, services.DefaultCancellationReason, *cancelled.Booking.CancellationReason)

		cancelled, err = fx.bookings.Cancel(ctx, job.Booking.ID, "Found another pro")
		require.NoError(t, err)
		assert.Equal(t, "Found another pro", *cancelled.Booking.CancellationReason)
	})

	t.Run("unknown and invalid ids", func(t *testing.T) {
		fx := newFixture(t)

		_, err := fx.bookings.Get(ctx, 0)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
		assert.Equal(t, "job_id is required.", apperrors.Message(err))

		_, err = fx.bookings.Cancel(ctx, 999, "")
		assert.True(t, apperrors.IsNotFound(err))
		assert.Equal(t, "Job not found.", apperrors.Message(err))
	})
}

func TestBookingService_Lists(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	upcoming, err := fx.bookings.ListUpcoming(ctx)
	require.NoError(t, err)
	require.Len(t, upcoming, 3)
	for i := 1; i < len(upcoming); i++ {
		assert.False(t, upcoming[i].Booking.Start.Before(upcoming[i-1].Booking.Start))
	}
	for _, job := range upcoming {
		assert.NotNil(t, job.Pro)
		assert.NotNil(t, job.Service)
	}

	reviewable, err := fx.bookings.ListReviewable(ctx, nil)
	require.NoError(t, err)
	require.Len(t, reviewable, 1)
	assert.Equal(t, entities.BookingStatusCompleted, reviewable[0].Booking.Status)
	assert.Equal(t, "klang-valley-clean", reviewable[0].Pro.Slug)

	since := schedule.AddDays(fx.clock.Today(fx.now), 1)
	reviewable, err = fx.bookings.ListReviewable(ctx, &since)
	require.NoError(t, err)
	assert.Empty(t, reviewable)
}
