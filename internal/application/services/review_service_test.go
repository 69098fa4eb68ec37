package services_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/homeflow/internal/application/services"
	"github.com/zatekoja/homeflow/internal/domain/entities"
	"github.com/zatekoja/homeflow/internal/domain/providers"
	apperrors "github.com/zatekoja/homeflow/pkg/errors"
)

func TestReviewService_Rate(t *testing.T) {
	ctx := context.Background()

	t.Run("records a review and recomputes the aggregate", func(t *testing.T) {
		fx := newFixture(t)
		job := fx.book(t, "klang-valley-clean", entities.ServiceCleaning)

		result, err := fx.reviews.Rate(ctx, services.RateRequest{JobID: job.Booking.ID, Rating: 3, Review: ptr("  Okay job  ")})
		require.NoError(t, err)

		assert.Equal(t, 3.0, result.Rating)
		require.NotNil(t, result.Text)
		assert.Equal(t, "Okay job", *result.Text)
		assert.Equal(t, entities.BookingStatusRated, result.Job.Booking.Status)
		assert.Equal(t, 3.0, *result.Job.Booking.Rating)
		assert.NotEmpty(t, result.Recent)

		// the seeded history booking already carries a 5
		pro := fx.pro(t, "klang-valley-clean")
		require.NotNil(t, pro.Rating)
		assert.InDelta(t, 4.0, *pro.Rating, 1e-9)
		assert.Equal(t, 2, pro.ReviewsCount)

		events := fx.events.Published(providers.EventChannelBookings)
		assert.Equal(t, entities.BookingEventRated, events[len(events)-1].Type)
	})

	t.Run("rating again overwrites the single review", func(t *testing.T) {
		fx := newFixture(t)
		job := fx.book(t, "klang-valley-clean", entities.ServiceCleaning)

		first, err := fx.reviews.Rate(ctx, services.RateRequest{JobID: job.Booking.ID, Rating: 3})
		require.NoError(t, err)

		fx.now = fx.now.Add(time.Hour)
		second, err := fx.reviews.Rate(ctx, services.RateRequest{JobID: job.Booking.ID, Rating: 4, Review: ptr("Better second time")})
		require.NoError(t, err)

		assert.Equal(t, first.Review.ID, second.Review.ID)
		stored, err := fx.store.Reviews().GetByBooking(ctx, job.Booking.ID)
		require.NoError(t, err)
		assert.Equal(t, 4.0, stored.Rating)
		assert.Equal(t, "Better second time", *stored.Review)

		pro := fx.pro(t, "klang-valley-clean")
		assert.InDelta(t, 4.5, *pro.Rating, 1e-9)
		assert.Equal(t, 2, pro.ReviewsCount)
	})

	t.Run("cancelled job can be rated and keeps its reason", func(t *testing.T) {
		fx := newFixture(t)
		job := fx.book(t, "sparkle-cleaners", entities.ServiceCleaning)
		_, err := fx.bookings.Cancel(ctx, job.Booking.ID, "Changed plans")
		require.NoError(t, err)

		result, err := fx.reviews.Rate(ctx, services.RateRequest{JobID: job.Booking.ID, Rating: 5})
		require.NoError(t, err)

		assert.Equal(t, entities.BookingStatusRated, result.Job.Booking.Status)
		require.NotNil(t, result.Job.Booking.CancellationReason)
		assert.Equal(t, "Changed plans", *result.Job.Booking.CancellationReason)
	})

	t.Run("ratings are clamped and blank text is dropped", func(t *testing.T) {
		fx := newFixture(t)
		job := fx.book(t, "sparkle-cleaners", entities.ServiceCleaning)

		result, err := fx.reviews.Rate(ctx, services.RateRequest{JobID: job.Booking.ID, Rating: 9, Review: ptr("   ")})
		require.NoError(t, err)
		assert.Equal(t, services.MaxRating, result.Rating)
		assert.Nil(t, result.Text)

		result, err = fx.reviews.Rate(ctx, services.RateRequest{JobID: job.Booking.ID, Rating: -2})
		require.NoError(t, err)
		assert.Equal(t, services.MinRating, result.Rating)
	})

	t.Run("validation", func(t *testing.T) {
		fx := newFixture(t)

		for _, req := range []services.RateRequest{
			{JobID: 0, Rating: 4},
			{JobID: 1, Rating: math.NaN()},
			{JobID: 1, Rating: math.Inf(1)},
		} {
			_, err := fx.reviews.Rate(ctx, req)
			require.Error(t, err)
			assert.Equal(t, "job_id and rating are required.", apperrors.Message(err))
		}

		_, err := fx.reviews.Rate(ctx, services.RateRequest{JobID: 999, Rating: 4})
		assert.True(t, apperrors.IsNotFound(err))
		assert.Equal(t, "Job not found.", apperrors.Message(err))
	})
}

func TestClampRating(t *testing.T) {
	assert.Equal(t, 1.0, services.ClampRating(0))
	assert.Equal(t, 3.5, services.ClampRating(3.5))
	assert.Equal(t, 5.0, services.ClampRating(12))
}

func TestReviewService_RecomputeAggregate(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	// moveswift has no seeded reviews; its listed rating stays as is
	before := fx.pro(t, "moveswift-logistics")
	require.NoError(t, fx.reviews.RecomputeAggregate(ctx, before.ID))
	after := fx.pro(t, "moveswift-logistics")
	assert.Equal(t, *before.Rating, *after.Rating)
	assert.Equal(t, before.ReviewsCount, after.ReviewsCount)

	rapidfix := fx.pro(t, "rapidfix-plumbing")
	require.NoError(t, fx.reviews.RecomputeAggregate(ctx, rapidfix.ID))
	rapidfix = fx.pro(t, "rapidfix-plumbing")
	assert.Equal(t, 5.0, *rapidfix.Rating)
	assert.Equal(t, 1, rapidfix.ReviewsCount)
}
