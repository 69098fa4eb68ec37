package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/homeflow/internal/domain/entities"
	"github.com/zatekoja/homeflow/internal/domain/providers"
	"github.com/zatekoja/homeflow/internal/domain/repositories"
)

// CachedProAdapter wraps a ProRepository with caching
type CachedProAdapter struct {
	adapter repositories.ProRepository
	cache   providers.CacheProvider
}

// NewCachedProAdapter creates a new cached pro adapter
func NewCachedProAdapter(adapter repositories.ProRepository, cache providers.CacheProvider) repositories.ProRepository {
	return &CachedProAdapter{
		adapter: adapter,
		cache:   cache,
	}
}

// Cache TTLs (in seconds)
const (
	proByRefTTL = 300
	proListTTL  = 180
)

func proRefCacheKey(ref string) string {
	return fmt.Sprintf("%sref:%s", providers.ProCacheKeyPrefix, ref)
}

func proIDCacheKey(id int64) string {
	return fmt.Sprintf("%sid:%d", providers.ProCacheKeyPrefix, id)
}

func proServiceCacheKey(serviceID int64) string {
	return fmt.Sprintf("%sservice:%d", providers.ProCacheKeyPrefix, serviceID)
}

func proTopCacheKey(limit int) string {
	return fmt.Sprintf("%stop:%d", providers.ProCacheKeyPrefix, limit)
}

// Create persists a pro and drops every cached listing
func (a *CachedProAdapter) Create(ctx context.Context, pro *entities.Pro) error {
	if err := a.adapter.Create(ctx, pro); err != nil {
		return err
	}
	a.invalidate(ctx)
	return nil
}

// GetByRef retrieves a pro by slug or ID with caching
func (a *CachedProAdapter) GetByRef(ctx context.Context, ref string) (*entities.Pro, error) {
	key := proRefCacheKey(ref)
	var pro entities.Pro
	if a.load(ctx, key, &pro) {
		return &pro, nil
	}

	found, err := a.adapter.GetByRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	a.store(ctx, key, found, proByRefTTL)
	return found, nil
}

// GetByID retrieves a pro by ID with caching
func (a *CachedProAdapter) GetByID(ctx context.Context, id int64) (*entities.Pro, error) {
	key := proIDCacheKey(id)
	var pro entities.Pro
	if a.load(ctx, key, &pro) {
		return &pro, nil
	}

	found, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	a.store(ctx, key, found, proByRefTTL)
	return found, nil
}

// ListByService retrieves the pros of a service with caching
func (a *CachedProAdapter) ListByService(ctx context.Context, serviceID int64) ([]*entities.Pro, error) {
	key := proServiceCacheKey(serviceID)
	var pros []*entities.Pro
	if a.load(ctx, key, &pros) {
		return pros, nil
	}

	found, err := a.adapter.ListByService(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	a.store(ctx, key, found, proListTTL)
	return found, nil
}

// ListTopRated retrieves the best rated pros with caching
func (a *CachedProAdapter) ListTopRated(ctx context.Context, limit int) ([]*entities.Pro, error) {
	key := proTopCacheKey(limit)
	var pros []*entities.Pro
	if a.load(ctx, key, &pros) {
		return pros, nil
	}

	found, err := a.adapter.ListTopRated(ctx, limit)
	if err != nil {
		return nil, err
	}
	a.store(ctx, key, found, proListTTL)
	return found, nil
}

// UpdateRating persists the aggregate and drops every cached pro read
func (a *CachedProAdapter) UpdateRating(ctx context.Context, aggregate entities.RatingAggregate) error {
	if err := a.adapter.UpdateRating(ctx, aggregate); err != nil {
		return err
	}
	a.invalidate(ctx)
	return nil
}

func (a *CachedProAdapter) load(ctx context.Context, key string, out any) bool {
	cached, err := a.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, providers.ErrCacheMiss) {
			log.Warn().Err(err).Str("key", key).Msg("Pro cache read failed")
		}
		return false
	}
	if err := json.Unmarshal(cached, out); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to unmarshal cached pros")
		return false
	}
	return true
}

func (a *CachedProAdapter) store(ctx context.Context, key string, value any, ttl int) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to marshal pros for cache")
		return
	}
	if err := a.cache.Set(ctx, key, data, ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to cache pros")
	}
}

func (a *CachedProAdapter) invalidate(ctx context.Context) {
	if err := a.cache.DeletePattern(ctx, providers.ProCachePattern); err != nil {
		log.Warn().Err(err).Msg("Failed to invalidate pro cache")
	}
}
