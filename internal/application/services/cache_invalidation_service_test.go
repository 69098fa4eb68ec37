package services_test

import (
	"context"
	"path"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/homeflow/internal/application/services"
	"github.com/zatekoja/homeflow/internal/domain/entities"
	"github.com/zatekoja/homeflow/internal/domain/providers"
)

// MockCacheProvider for testing
type MockCacheProvider struct {
	mu      sync.RWMutex
	data    map[string][]byte
	deleted []string
}

func NewMockCacheProvider() *MockCacheProvider {
	return &MockCacheProvider{data: make(map[string][]byte)}
}

func (m *MockCacheProvider) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if val, ok := m.data[key]; ok {
		return val, nil
	}
	return nil, providers.ErrCacheMiss
}

func (m *MockCacheProvider) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MockCacheProvider) Delete(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
		m.deleted = append(m.deleted, key)
	}
	return nil
}

func (m *MockCacheProvider) DeletePattern(ctx context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.data {
		if ok, _ := path.Match(pattern, key); ok {
			delete(m.data, key)
			m.deleted = append(m.deleted, key)
		}
	}
	return nil
}

func (m *MockCacheProvider) DeletedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.deleted)
}

func (m *MockCacheProvider) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.data[key]
	return ok
}

// MockEventBus for testing
type MockEventBus struct {
	mu          sync.Mutex
	subscribers map[string][]chan *entities.BookingEvent
	published   map[string][]*entities.BookingEvent
}

func NewMockEventBus() *MockEventBus {
	return &MockEventBus{
		subscribers: make(map[string][]chan *entities.BookingEvent),
		published:   make(map[string][]*entities.BookingEvent),
	}
}

func (m *MockEventBus) Publish(ctx context.Context, channel string, event *entities.BookingEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published[channel] = append(m.published[channel], event)
	for _, ch := range m.subscribers[channel] {
		select {
		case ch <- event:
		default:
		}
	}
	return nil
}

func (m *MockEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.BookingEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := make(chan *entities.BookingEvent, 10)
	m.subscribers[channel] = append(m.subscribers[channel], ch)
	return ch, nil
}

func (m *MockEventBus) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, channels := range m.subscribers {
		for _, ch := range channels {
			close(ch)
		}
	}
	m.subscribers = make(map[string][]chan *entities.BookingEvent)
	return nil
}

func (m *MockEventBus) Published(channel string) []*entities.BookingEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*entities.BookingEvent(nil), m.published[channel]...)
}

func (m *MockEventBus) SubscriberCount(channel string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subscribers[channel])
}

func ratedEvent(proID int64) *entities.BookingEvent {
	booking := &entities.Booking{ID: 7, ProID: proID, ServiceID: 1, Status: entities.BookingStatusRated}
	return entities.NewBookingEvent(entities.BookingEventRated, booking, time.Now())
}

func TestCacheInvalidationService_Start(t *testing.T) {
	cache := NewMockCacheProvider()
	eventBus := NewMockEventBus()
	service := services.NewCacheInvalidationService(cache, eventBus)

	require.NoError(t, service.Start())
	assert.Equal(t, 1, eventBus.SubscriberCount(providers.EventChannelBookings))

	service.Stop()
}

func TestCacheInvalidationService_StopWithoutStart(t *testing.T) {
	service := services.NewCacheInvalidationService(NewMockCacheProvider(), NewMockEventBus())
	service.Stop()
}

func TestCacheInvalidationService_HandleEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("rated event drops cached pro reads", func(t *testing.T) {
		cache := NewMockCacheProvider()
		service := services.NewCacheInvalidationService(cache, NewMockEventBus())

		require.NoError(t, cache.Set(ctx, providers.ProCacheKeyPrefix+"top:8", []byte("data"), 300))
		require.NoError(t, cache.Set(ctx, providers.ProCacheKeyPrefix+"service:1", []byte("data"), 300))
		require.NoError(t, cache.Set(ctx, "other:key", []byte("data"), 300))

		service.HandleEvent(ratedEvent(3))

		assert.Equal(t, 2, cache.DeletedCount())
		assert.True(t, cache.Has("other:key"))
	})

	t.Run("other events leave the cache alone", func(t *testing.T) {
		cache := NewMockCacheProvider()
		service := services.NewCacheInvalidationService(cache, NewMockEventBus())
		require.NoError(t, cache.Set(ctx, providers.ProCacheKeyPrefix+"top:8", []byte("data"), 300))

		booking := &entities.Booking{ID: 1, ProID: 3, Status: entities.BookingStatusConfirmed}
		for _, eventType := range []entities.BookingEventType{
			entities.BookingEventCreated,
			entities.BookingEventRescheduled,
			entities.BookingEventCompleted,
			entities.BookingEventCancelled,
		} {
			service.HandleEvent(entities.NewBookingEvent(eventType, booking, time.Now()))
		}

		assert.Zero(t, cache.DeletedCount())
	})
}

func TestCacheInvalidationService_ProcessesPublishedEvents(t *testing.T) {
	ctx := context.Background()
	cache := NewMockCacheProvider()
	eventBus := NewMockEventBus()
	service := services.NewCacheInvalidationService(cache, eventBus)

	require.NoError(t, service.Start())
	defer service.Stop()

	require.NoError(t, cache.Set(ctx, providers.ProCacheKeyPrefix+"top:8", []byte("data"), 300))
	require.NoError(t, eventBus.Publish(ctx, providers.EventChannelBookings, ratedEvent(3)))

	assert.Eventually(t, func() bool {
		return cache.DeletedCount() == 1
	}, time.Second, 10*time.Millisecond)
}
