package services

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/zatekoja/homeflow/internal/domain/repositories"
)

// CacheWarmingService periodically reads the hot pro listings through the
// cached repository so launcher and search calls hit a warm cache
type CacheWarmingService struct {
	services repositories.ServiceRepository
	pros     repositories.ProRepository
	cron     *cron.Cron
}

// NewCacheWarmingService creates a new cache warming service
func NewCacheWarmingService(services repositories.ServiceRepository, pros repositories.ProRepository) *CacheWarmingService {
	return &CacheWarmingService{
		services: services,
		pros:     pros,
		cron:     cron.New(),
	}
}

// WarmCache loads the featured pool and every service's pro list
func (s *CacheWarmingService) WarmCache(ctx context.Context) error {
	if _, err := s.pros.ListTopRated(ctx, FeaturedPoolSize); err != nil {
		return fmt.Errorf("failed to warm featured pros: %w", err)
	}

	services, err := s.services.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list services: %w", err)
	}

	warmed := 0
	for _, service := range services {
		if _, err := s.pros.ListByService(ctx, service.ID); err != nil {
			log.Warn().Err(err).Str("service", string(service.Slug)).Msg("Failed to warm service pros")
			continue
		}
		warmed++
	}

	log.Debug().Int("services", warmed).Msg("Cache warming completed")
	return nil
}

// Start schedules WarmCache on spec (e.g. "@every 5m") and runs it once now
func (s *CacheWarmingService) Start(ctx context.Context, spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		if err := s.WarmCache(ctx); err != nil {
			log.Warn().Err(err).Msg("Scheduled cache warming failed")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid cache warm schedule %q: %w", spec, err)
	}

	s.cron.Start()
	log.Info().Str("spec", spec).Msg("Cache warming scheduled")

	go func() {
		if err := s.WarmCache(ctx); err != nil {
			log.Warn().Err(err).Msg("Initial cache warming failed")
		}
	}()
	return nil
}

// Stop stops the schedule and waits for a running warm to finish
func (s *CacheWarmingService) Stop() {
	<-s.cron.Stop().Done()
	log.Info().Msg("Cache warming stopped")
}
