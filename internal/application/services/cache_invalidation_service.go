package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/homeflow/internal/domain/entities"
	"github.com/zatekoja/homeflow/internal/domain/providers"
)

// CacheInvalidationService drops cached pro reads when booking events change
// what they would return
type CacheInvalidationService struct {
	cache    providers.CacheProvider
	eventBus providers.EventBus
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
	started  bool
}

// NewCacheInvalidationService creates a new cache invalidation service
func NewCacheInvalidationService(cache providers.CacheProvider, eventBus providers.EventBus) *CacheInvalidationService {
	ctx, cancel := context.WithCancel(context.Background())
	return &CacheInvalidationService{
		cache:    cache,
		eventBus: eventBus,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// Start begins listening for booking events
func (s *CacheInvalidationService) Start() error {
	eventChan, err := s.eventBus.Subscribe(s.ctx, providers.EventChannelBookings)
	if err != nil {
		return fmt.Errorf("failed to subscribe to booking events: %w", err)
	}

	s.started = true
	go s.processEvents(eventChan)
	log.Info().Str("channel", providers.EventChannelBookings).Msg("Cache invalidation service started")
	return nil
}

// Stop stops the cache invalidation service and waits for the loop to exit
func (s *CacheInvalidationService) Stop() {
	s.cancel()
	if s.started {
		<-s.done
	}
	log.Info().Msg("Cache invalidation service stopped")
}

func (s *CacheInvalidationService) processEvents(eventChan <-chan *entities.BookingEvent) {
	defer close(s.done)
	for {
		select {
		case <-s.ctx.Done():
			return
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			if event == nil {
				continue
			}
			s.HandleEvent(event)
		}
	}
}

// HandleEvent handles a single booking event. Only ratings change pro data;
// every cached pro read is dropped because ratings also reorder listings.
func (s *CacheInvalidationService) HandleEvent(event *entities.BookingEvent) {
	if event.Type != entities.BookingEventRated {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.cache.DeletePattern(ctx, providers.ProCachePattern); err != nil {
		log.Warn().Err(err).Int64("pro_id", event.ProID).Msg("Failed to invalidate pro cache")
		return
	}
	log.Debug().Int64("pro_id", event.ProID).Str("event_id", event.ID).Msg("Invalidated pro cache")
}
