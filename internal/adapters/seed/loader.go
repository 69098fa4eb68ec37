package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/homeflow/internal/application/schedule"
	"github.com/zatekoja/homeflow/internal/domain/entities"
	"github.com/zatekoja/homeflow/internal/domain/repositories"
)

// Repositories are the stores the catalogue is written to
type Repositories struct {
	Services repositories.ServiceRepository
	Pros     repositories.ProRepository
	Bookings repositories.BookingRepository
	Reviews  repositories.ReviewRepository
}

// Load writes services, pros, sample bookings and historical reviews. It
// expects empty stores.
func Load(ctx context.Context, repos Repositories, clock schedule.BusinessClock, now time.Time) error {
	serviceIDs := make(map[entities.ServiceSlug]int64, len(Services))
	for _, s := range Services {
		service := s
		service.CreatedAt, service.UpdatedAt = now, now
		if err := repos.Services.Create(ctx, &service); err != nil {
			return fmt.Errorf("failed to seed service %s: %w", service.Slug, err)
		}
		serviceIDs[service.Slug] = service.ID
	}

	pros := make(map[string]*entities.Pro, len(Pros))
	for _, p := range Pros {
		serviceID, ok := serviceIDs[p.Service]
		if !ok {
			continue
		}
		pro := p.Pro
		pro.ServiceID = serviceID
		pro.CreatedAt, pro.UpdatedAt = now, now
		if err := repos.Pros.Create(ctx, &pro); err != nil {
			return fmt.Errorf("failed to seed pro %s: %w", pro.Slug, err)
		}
		pros[pro.Slug] = &pro
	}

	instructions := "Please call when you arrive at the lobby."
	tomorrow := schedule.AddDays(clock.Today(now), 1)
	for _, slug := range upcomingBookingPros {
		pro, ok := pros[slug]
		if !ok || len(pro.TimeWindows) == 0 {
			continue
		}
		booking := bookingInFirstWindow(clock, pro, tomorrow, now)
		booking.Status = entities.BookingStatusConfirmed
		if pro.PriceFrom != nil {
			booking.PriceEstimate = *pro.PriceFrom
		}
		booking.Instructions = &instructions
		if err := repos.Bookings.Create(ctx, booking); err != nil {
			return fmt.Errorf("failed to seed booking for %s: %w", slug, err)
		}
	}

	if pro, ok := pros[historyBookingPro]; ok && len(pro.TimeWindows) > 0 {
		if err := seedHistory(ctx, repos, clock, pro, now); err != nil {
			return err
		}
	}

	seeded := 0
	for _, r := range Reviews {
		pro, ok := pros[r.ProSlug]
		if !ok {
			continue
		}
		createdAt := now.Add(-time.Duration(r.DaysAgo) * 24 * time.Hour)
		text := r.Review
		review := &entities.Review{
			ProID:     pro.ID,
			Rating:    r.Rating,
			Review:    &text,
			CreatedAt: createdAt,
			UpdatedAt: createdAt,
		}
		if err := repos.Reviews.Create(ctx, review); err != nil {
			return fmt.Errorf("failed to seed review for %s: %w", r.ProSlug, err)
		}
		seeded++
	}

	log.Info().
		Int("services", len(serviceIDs)).
		Int("pros", len(pros)).
		Int("reviews", seeded).
		Msg("Seeded HomeFlow catalogue")
	return nil
}

func seedHistory(ctx context.Context, repos Repositories, clock schedule.BusinessClock, pro *entities.Pro, now time.Time) error {
	rating := 5.0
	text := "Super thorough and friendly!"
	instructions := "Focus on the kitchen, please."

	booking := bookingInFirstWindow(clock, pro, schedule.AddDays(clock.Today(now), -2), now)
	booking.Status = entities.BookingStatusCompleted
	booking.PriceEstimate = 140
	booking.Instructions = &instructions
	booking.Rating = &rating
	booking.ReviewText = &text
	if err := repos.Bookings.Create(ctx, booking); err != nil {
		return fmt.Errorf("failed to seed history booking: %w", err)
	}

	bookingID := booking.ID
	review := &entities.Review{
		ProID:     pro.ID,
		BookingID: &bookingID,
		Rating:    rating,
		Review:    &text,
		CreatedAt: booking.UpdatedAt,
		UpdatedAt: booking.UpdatedAt,
	}
	if err := repos.Reviews.Create(ctx, review); err != nil {
		return fmt.Errorf("failed to seed history review: %w", err)
	}
	return nil
}

func bookingInFirstWindow(clock schedule.BusinessClock, pro *entities.Pro, day, now time.Time) *entities.Booking {
	window := pro.TimeWindows[0]
	return &entities.Booking{
		ProID:     pro.ID,
		ServiceID: pro.ServiceID,
		Start:     clock.LocalClockToInstant(day, window.Start),
		End:       clock.LocalClockToInstant(day, window.End),
		Address:   entities.DefaultAddress,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
