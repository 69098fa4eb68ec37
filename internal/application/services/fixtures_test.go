package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/zatekoja/homeflow/internal/adapters/memory"
	"github.com/zatekoja/homeflow/internal/adapters/seed"
	"github.com/zatekoja/homeflow/internal/application/schedule"
	"github.com/zatekoja/homeflow/internal/application/services"
	"github.com/zatekoja/homeflow/internal/domain/entities"
)

// fixtureNow is Monday 2025-03-10 10:00 in the business zone
var fixtureNow = time.Date(2025, 3, 10, 2, 0, 0, 0, time.UTC)

type fixture struct {
	store    *memory.Store
	clock    schedule.BusinessClock
	events   *MockEventBus
	now      time.Time
	search   *services.SearchService
	quotes   *services.QuoteService
	bookings *services.BookingService
	reviews  *services.ReviewService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	fx := &fixture{
		store:  memory.NewStore(),
		clock:  schedule.NewBusinessClock(schedule.DefaultOffsetMinutes),
		events: NewMockEventBus(),
		now:    fixtureNow,
	}
	now := func() time.Time { return fx.now }

	require.NoError(t, seed.Load(context.Background(), seed.Repositories{
		Services: fx.store.Services(),
		Pros:     fx.store.Pros(),
		Bookings: fx.store.Bookings(),
		Reviews:  fx.store.Reviews(),
	}, fx.clock, fx.now))

	fx.search = services.NewSearchService(fx.store.Services(), fx.store.Pros(), fx.clock, now)
	fx.quotes = services.NewQuoteService(fx.store.Services(), fx.store.Pros(), fx.store.Quotes(), fx.clock, now)
	fx.bookings = services.NewBookingService(fx.store.Bookings(), fx.store.Pros(), fx.store.Services(), fx.store.Quotes(), fx.events, now)
	fx.reviews = services.NewReviewService(fx.store.Bookings(), fx.store.Reviews(), fx.store.Pros(), fx.bookings, fx.events, now)
	return fx
}

func (fx *fixture) pro(t *testing.T, slug string) *entities.Pro {
	t.Helper()
	pro, err := fx.store.Pros().GetByRef(context.Background(), slug)
	require.NoError(t, err)
	return pro
}

// book creates a confirmed booking tomorrow 09:00-11:00 business time
func (fx *fixture) book(t *testing.T, proSlug string, service entities.ServiceSlug) *services.JobDetails {
	t.Helper()
	tomorrow := schedule.AddDays(fx.clock.Today(fx.now), 1)
	job, err := fx.bookings.Create(context.Background(), services.CreateBookingRequest{
		ProRef:  proSlug,
		Service: service,
		Start:   fx.clock.LocalClockToInstant(tomorrow, "09:00"),
		End:     fx.clock.LocalClockToInstant(tomorrow, "11:00"),
	})
	require.NoError(t, err)
	return job
}

func ptr[T any](v T) *T { return &v }
