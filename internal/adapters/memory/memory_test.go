package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/homeflow/internal/adapters/memory"
	"github.com/zatekoja/homeflow/internal/domain/entities"
	"github.com/zatekoja/homeflow/internal/domain/repositories"
	apperrors "github.com/zatekoja/homeflow/pkg/errors"
)

func ptr[T any](v T) *T { return &v }

// compile-time interface checks
var (
	_ repositories.ServiceRepository = (*memory.ServiceRepository)(nil)
	_ repositories.ProRepository     = (*memory.ProRepository)(nil)
	_ repositories.QuoteRepository   = (*memory.QuoteRepository)(nil)
	_ repositories.BookingRepository = (*memory.BookingRepository)(nil)
	_ repositories.ReviewRepository  = (*memory.ReviewRepository)(nil)
)

func TestCatalog(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	cleaning := &entities.Service{Slug: entities.ServiceCleaning, Title: "Cleaning"}
	require.NoError(t, store.Services().Create(ctx, cleaning))
	assert.Equal(t, int64(1), cleaning.ID)

	err := store.Services().Create(ctx, &entities.Service{Slug: entities.ServiceCleaning})
	assert.True(t, apperrors.IsConflict(err))

	pros := []*entities.Pro{
		{Slug: "a", ServiceID: cleaning.ID, Rating: ptr(4.2), Badges: []string{"Vetted"}},
		{Slug: "b", ServiceID: cleaning.ID},
		{Slug: "c", ServiceID: 99, Rating: ptr(4.9)},
	}
	for _, pro := range pros {
		require.NoError(t, store.Pros().Create(ctx, pro))
	}

	t.Run("get by ref accepts slug or id", func(t *testing.T) {
		bySlug, err := store.Pros().GetByRef(ctx, "b")
		require.NoError(t, err)
		byID, err := store.Pros().GetByRef(ctx, "2")
		require.NoError(t, err)
		assert.Equal(t, bySlug.ID, byID.ID)

		_, err = store.Pros().GetByRef(ctx, "zzz")
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("returned records are copies", func(t *testing.T) {
		pro, err := store.Pros().GetByRef(ctx, "a")
		require.NoError(t, err)
		pro.Badges[0] = "changed"
		*pro.Rating = 1

		again, err := store.Pros().GetByRef(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, "Vetted", again.Badges[0])
		assert.Equal(t, 4.2, *again.Rating)
	})

	t.Run("list by service and top rated", func(t *testing.T) {
		list, err := store.Pros().ListByService(ctx, cleaning.ID)
		require.NoError(t, err)
		assert.Len(t, list, 2)

		top, err := store.Pros().ListTopRated(ctx, 2)
		require.NoError(t, err)
		require.Len(t, top, 2)
		assert.Equal(t, "c", top[0].Slug)
		assert.Equal(t, "a", top[1].Slug)
	})

	t.Run("update rating", func(t *testing.T) {
		require.NoError(t, store.Pros().UpdateRating(ctx, entities.RatingAggregate{ProID: 2, Count: 3, Average: 4}))
		pro, err := store.Pros().GetByID(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, 4.0, *pro.Rating)
		assert.Equal(t, 3, pro.ReviewsCount)

		err = store.Pros().UpdateRating(ctx, entities.RatingAggregate{ProID: 42})
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestBookings(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	base := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	bookings := []*entities.Booking{
		{ProID: 1, Start: base.Add(48 * time.Hour), Status: entities.BookingStatusConfirmed, UpdatedAt: base},
		{ProID: 1, Start: base.Add(24 * time.Hour), Status: entities.BookingStatusCompleted, UpdatedAt: base.Add(time.Hour)},
		{ProID: 2, Start: base.Add(72 * time.Hour), Status: "RATED", UpdatedAt: base.Add(2 * time.Hour)},
	}
	for _, booking := range bookings {
		require.NoError(t, store.Bookings().Create(ctx, booking))
	}

	t.Run("orders by start", func(t *testing.T) {
		list, err := store.Bookings().List(ctx, repositories.BookingFilter{OrderBy: repositories.BookingOrderStartAsc})
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, []int64{2, 1, 3}, []int64{list[0].ID, list[1].ID, list[2].ID})
	})

	t.Run("filters statuses case-insensitively and since", func(t *testing.T) {
		since := base.Add(90 * time.Minute)
		list, err := store.Bookings().List(ctx, repositories.BookingFilter{
			Statuses:     entities.ReviewableStatuses,
			UpdatedSince: &since,
			OrderBy:      repositories.BookingOrderUpdatedAtDesc,
		})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, int64(3), list[0].ID)
	})

	t.Run("limit", func(t *testing.T) {
		list, err := store.Bookings().List(ctx, repositories.BookingFilter{OrderBy: repositories.BookingOrderUpdatedAtDesc, Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, []int64{3, 2}, []int64{list[0].ID, list[1].ID})
	})

	t.Run("update unknown booking", func(t *testing.T) {
		err := store.Bookings().Update(ctx, &entities.Booking{ID: 99})
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestReviews(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	base := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Reviews().Create(ctx, &entities.Review{ProID: 1, BookingID: ptr(int64(10)), Rating: 5, CreatedAt: base}))
	require.NoError(t, store.Reviews().Create(ctx, &entities.Review{ProID: 1, Rating: 3, CreatedAt: base.Add(time.Hour)}))
	require.NoError(t, store.Reviews().Create(ctx, &entities.Review{ProID: 2, Rating: 1, CreatedAt: base}))

	err := store.Reviews().Create(ctx, &entities.Review{ProID: 1, BookingID: ptr(int64(10)), Rating: 2})
	assert.True(t, apperrors.IsConflict(err))

	list, err := store.Reviews().ListByPro(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 3.0, list[0].Rating)

	aggregate, err := store.Reviews().AggregateByPro(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, aggregate.Count)
	assert.Equal(t, 4.0, aggregate.Average)

	review, err := store.Reviews().GetByBooking(ctx, 10)
	require.NoError(t, err)
	review.Rating = 4
	require.NoError(t, store.Reviews().Update(ctx, review))

	aggregate, err = store.Reviews().AggregateByPro(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3.5, aggregate.Average)

	empty, err := store.Reviews().AggregateByPro(ctx, 7)
	require.NoError(t, err)
	assert.Zero(t, empty.Count)
}
