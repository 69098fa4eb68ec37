package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/homeflow/internal/adapters/database"
	"github.com/zatekoja/homeflow/internal/adapters/memory"
	"github.com/zatekoja/homeflow/internal/adapters/seed"
	"github.com/zatekoja/homeflow/internal/api/handlers"
	"github.com/zatekoja/homeflow/internal/application/schedule"
	"github.com/zatekoja/homeflow/internal/domain/repositories"
	"github.com/zatekoja/homeflow/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/homeflow/pkg/config"
)

// stores are the repositories the services are built on
type stores struct {
	seed.Repositories
	Quotes repositories.QuoteRepository
}

// openStore builds the repositories for cfg.Store.Driver and seeds them when
// they are empty. The returned func releases the store.
func openStore(ctx context.Context, cfg *config.Config, clock schedule.BusinessClock, checks map[string]handlers.Pinger) (*stores, func(), error) {
	switch cfg.Store.Driver {
	case "memory":
		store := memory.NewStore()
		s := &stores{
			Repositories: seed.Repositories{
				Services: store.Services(),
				Pros:     store.Pros(),
				Bookings: store.Bookings(),
				Reviews:  store.Reviews(),
			},
			Quotes: store.Quotes(),
		}
		if cfg.Store.Seed {
			if err := seed.Load(ctx, s.Repositories, clock, time.Now()); err != nil {
				return nil, nil, fmt.Errorf("failed to seed memory store: %w", err)
			}
		}
		log.Info().Bool("seeded", cfg.Store.Seed).Msg("Memory store initialized")
		return s, func() {}, nil

	case "postgres":
		client, err := postgres.NewClient(ctx, &cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		closeClient := func() {
			if err := client.Close(); err != nil {
				log.Error().Err(err).Msg("Error closing PostgreSQL client")
			}
		}

		if err := database.Migrate(ctx, client); err != nil {
			closeClient()
			return nil, nil, err
		}
		checks["postgres"] = client

		s := &stores{
			Repositories: seed.Repositories{
				Services: database.NewServiceAdapter(client),
				Pros:     database.NewProAdapter(client),
				Bookings: database.NewBookingAdapter(client),
				Reviews:  database.NewReviewAdapter(client),
			},
			Quotes: database.NewQuoteAdapter(client),
		}

		empty, err := database.IsEmpty(ctx, client)
		if err != nil {
			closeClient()
			return nil, nil, err
		}
		if empty && cfg.Store.Seed {
			if err := seed.Load(ctx, s.Repositories, clock, time.Now()); err != nil {
				closeClient()
				return nil, nil, fmt.Errorf("failed to seed database: %w", err)
			}
			log.Info().Msg("Database seeded with the demo catalogue")
		}
		log.Info().Str("host", cfg.Database.Host).Msg("PostgreSQL store initialized")
		return s, closeClient, nil
	}

	return nil, nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
}
