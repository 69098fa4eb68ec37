package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/homeflow/internal/application/schedule"
	"github.com/zatekoja/homeflow/internal/application/services"
	"github.com/zatekoja/homeflow/internal/domain/entities"
)

func slugs(pros []services.RankedPro) []string {
	out := make([]string, 0, len(pros))
	for _, ranked := range pros {
		out = append(out, ranked.Pro.Slug)
	}
	return out
}

func TestSearchService_Search(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	kl := services.CustomerLocation{Point: entities.GeoPoint{Lat: 3.139, Lng: 101.686}, RadiusKm: 10}

	t.Run("ranks nearby pros by rating", func(t *testing.T) {
		result, err := fx.search.Search(ctx, services.SearchRequest{
			Service:  entities.ServicePlumbing,
			Location: kl,
		})
		require.NoError(t, err)

		assert.False(t, result.Fallback)
		assert.Equal(t, entities.ServicePlumbing, result.Service.Slug)
		assert.Equal(t, []string{"rapidfix-plumbing", "pipeguard-pros"}, slugs(result.Pros))
		assert.InDelta(t, 2.8, result.Pros[0].DistanceKm, 0.2)
		require.NotNil(t, result.Pros[0].NextAvailable)
		assert.True(t, result.Pros[0].NextAvailable.End.After(fx.now))
	})

	t.Run("radius is checked against the displayed distance", func(t *testing.T) {
		// rapidfix-plumbing sits at (3.157, 101.704) with a 22 km radius
		inside := services.CustomerLocation{Point: entities.GeoPoint{Lat: 3.157 - 0.19821, Lng: 101.704}}
		result, err := fx.search.Search(ctx, services.SearchRequest{Service: entities.ServicePlumbing, Location: inside})
		require.NoError(t, err)
		assert.False(t, result.Fallback)
		require.Contains(t, slugs(result.Pros), "rapidfix-plumbing")
		for _, ranked := range result.Pros {
			if ranked.Pro.Slug == "rapidfix-plumbing" {
				assert.Greater(t, ranked.DistanceKm, 22.0)
				assert.Equal(t, 22.0, schedule.RoundKm(ranked.DistanceKm))
			}
		}

		outside := services.CustomerLocation{Point: entities.GeoPoint{Lat: 3.157 - 0.1984, Lng: 101.704}}
		result, err = fx.search.Search(ctx, services.SearchRequest{Service: entities.ServicePlumbing, Location: outside})
		require.NoError(t, err)
		assert.NotContains(t, slugs(result.Pros), "rapidfix-plumbing")
	})

	t.Run("applies price and rating filters", func(t *testing.T) {
		result, err := fx.search.Search(ctx, services.SearchRequest{
			Service:  entities.ServicePlumbing,
			Location: kl,
			PriceMax: ptr(160.0),
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"pipeguard-pros"}, slugs(result.Pros))

		result, err = fx.search.Search(ctx, services.SearchRequest{
			Service:   entities.ServicePlumbing,
			Location:  kl,
			RatingMin: ptr(4.8),
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"rapidfix-plumbing"}, slugs(result.Pros))
	})

	t.Run("falls back to top rated when nothing is in range", func(t *testing.T) {
		penang := services.CustomerLocation{Point: entities.GeoPoint{Lat: 5.414, Lng: 100.329}, RadiusKm: 10}
		result, err := fx.search.Search(ctx, services.SearchRequest{
			Service:  entities.ServiceCleaning,
			Location: penang,
		})
		require.NoError(t, err)

		assert.True(t, result.Fallback)
		assert.Equal(t, []string{"sparkle-cleaners", "klang-valley-clean"}, slugs(result.Pros))
	})

	t.Run("filters that exclude everything also fall back", func(t *testing.T) {
		result, err := fx.search.Search(ctx, services.SearchRequest{
			Service:  entities.ServiceCleaning,
			Location: kl,
			PriceMax: ptr(10.0),
		})
		require.NoError(t, err)
		assert.True(t, result.Fallback)
		assert.Len(t, result.Pros, 2)
	})

	t.Run("unknown service yields an empty result", func(t *testing.T) {
		result, err := fx.search.Search(ctx, services.SearchRequest{
			Service:  entities.ServiceSlug("gardening"),
			Location: kl,
		})
		require.NoError(t, err)
		assert.Nil(t, result.Service)
		assert.Empty(t, result.Pros)
		assert.False(t, result.Fallback)
	})
}

func TestSearchService_Featured(t *testing.T) {
	fx := newFixture(t)

	featured, err := fx.search.Featured(context.Background(), services.DefaultCustomerLocation.Point)
	require.NoError(t, err)

	assert.Equal(t, []string{"rapidfix-plumbing", "sparkle-cleaners", "coolcomfort-ac", "voltsure-electric"}, slugs(featured))
	for _, ranked := range featured {
		require.NotNil(t, ranked.Service)
		assert.Equal(t, ranked.Pro.ServiceID, ranked.Service.ID)
	}
}
