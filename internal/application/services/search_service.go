package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/zatekoja/homeflow/internal/application/schedule"
	"github.com/zatekoja/homeflow/internal/domain/entities"
	"github.com/zatekoja/homeflow/internal/domain/repositories"
	apperrors "github.com/zatekoja/homeflow/pkg/errors"
)

const (
	// FallbackLimit caps the network-wide list shown when nothing is nearby
	FallbackLimit = 4

	// FeaturedPoolSize is how many top-rated pros the launcher considers
	FeaturedPoolSize = 8

	// FeaturedLimit is how many pros the launcher shows
	FeaturedLimit = 4

	// DefaultSearchRadiusKm is the informational radius when none is given
	DefaultSearchRadiusKm = 10.0
)

// DefaultCustomerLocation is used by the launcher
var DefaultCustomerLocation = CustomerLocation{
	Point:    entities.GeoPoint{Lat: 3.139, Lng: 101.686},
	RadiusKm: 15,
}

// CustomerLocation is where the job is, with an informational radius
type CustomerLocation struct {
	Point    entities.GeoPoint
	RadiusKm float64
}

// SearchRequest describes a provider search
type SearchRequest struct {
	Service  entities.ServiceSlug
	Location CustomerLocation
	// Date is the target day as a UTC midnight; next-available scans from it
	Date       time.Time
	PriceMax   *float64
	RatingMin  *float64
	OnlyVetted bool
}

// RankedPro is a pro decorated for a particular customer
type RankedPro struct {
	Pro     *entities.Pro
	Service *entities.Service
	// DistanceKm is the raw haversine distance
	DistanceKm    float64
	NextAvailable *schedule.Slot
}

// SearchResult holds ranked pros; Fallback is set when the filtered list was
// empty and the top of the unfiltered list is shown instead.
type SearchResult struct {
	Service  *entities.Service
	Pros     []RankedPro
	Fallback bool
}

// SearchService ranks and filters pros
type SearchService struct {
	services repositories.ServiceRepository
	pros     repositories.ProRepository
	clock    schedule.BusinessClock
	now      func() time.Time
}

// NewSearchService creates a new search service
func NewSearchService(
	services repositories.ServiceRepository,
	pros repositories.ProRepository,
	clock schedule.BusinessClock,
	now func() time.Time,
) *SearchService {
	if now == nil {
		now = time.Now
	}
	return &SearchService{services: services, pros: pros, clock: clock, now: now}
}

// Search returns pros of a service within their own service radius of the
// customer, filtered by price and rating. An unknown service yields an empty
// result.
func (s *SearchService) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	service, err := s.services.GetBySlug(ctx, req.Service)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return &SearchResult{}, nil
		}
		return nil, err
	}

	pros, err := s.pros.ListByService(ctx, service.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pros: %w", err)
	}

	now := s.now()
	from := req.Date
	if from.IsZero() {
		from = s.clock.Today(now)
	}

	decorated := make([]RankedPro, 0, len(pros))
	for _, pro := range pros {
		decorated = append(decorated, s.decorate(pro, service, req.Location.Point, from, now))
	}
	sortByRatingThenDistance(decorated)

	filtered := make([]RankedPro, 0, len(decorated))
	for _, ranked := range decorated {
		if matchesFilters(ranked, req) {
			filtered = append(filtered, ranked)
		}
	}

	result := &SearchResult{Service: service, Pros: filtered}
	if len(filtered) == 0 && len(decorated) > 0 {
		limit := min(FallbackLimit, len(decorated))
		result.Pros = decorated[:limit]
		result.Fallback = true
	}
	return result, nil
}

// Featured returns the launcher pros: the top-rated pool decorated against
// origin, re-sorted by rating then price.
func (s *SearchService) Featured(ctx context.Context, origin entities.GeoPoint) ([]RankedPro, error) {
	pros, err := s.pros.ListTopRated(ctx, FeaturedPoolSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list top rated pros: %w", err)
	}

	services, err := s.serviceIndex(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	decorated := make([]RankedPro, 0, len(pros))
	for _, pro := range pros {
		decorated = append(decorated, s.decorate(pro, services[pro.ServiceID], origin, now, now))
	}

	sort.SliceStable(decorated, func(i, j int) bool {
		ri, rj := decorated[i].Pro.RatingOrZero(), decorated[j].Pro.RatingOrZero()
		if ri != rj {
			return ri > rj
		}
		return priceOrMax(decorated[i].Pro) < priceOrMax(decorated[j].Pro)
	})

	if len(decorated) > FeaturedLimit {
		decorated = decorated[:FeaturedLimit]
	}
	return decorated, nil
}

func (s *SearchService) serviceIndex(ctx context.Context) (map[int64]*entities.Service, error) {
	list, err := s.services.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	index := make(map[int64]*entities.Service, len(list))
	for _, svc := range list {
		index[svc.ID] = svc
	}
	return index, nil
}

func (s *SearchService) decorate(pro *entities.Pro, service *entities.Service, origin entities.GeoPoint, from, now time.Time) RankedPro {
	ranked := RankedPro{
		Pro:        pro,
		Service:    service,
		DistanceKm: schedule.DistanceKm(origin, pro.Location()),
	}
	if slot, ok := s.clock.NextAvailable(pro.WorkingDays, pro.TimeWindows, from, now); ok {
		ranked.NextAvailable = &slot
	}
	return ranked
}

func sortByRatingThenDistance(pros []RankedPro) {
	sort.SliceStable(pros, func(i, j int) bool {
		ri, rj := pros[i].Pro.RatingOrZero(), pros[j].Pro.RatingOrZero()
		if ri != rj {
			return ri > rj
		}
		return schedule.RoundKm(pros[i].DistanceKm) < schedule.RoundKm(pros[j].DistanceKm)
	})
}

// matchesFilters tests the displayed (rounded) distance against the pro's radius
func matchesFilters(ranked RankedPro, req SearchRequest) bool {
	if schedule.RoundKm(ranked.DistanceKm) > ranked.Pro.ServiceRadiusKm {
		return false
	}
	if finite(req.PriceMax) && ranked.Pro.PriceFrom != nil && *ranked.Pro.PriceFrom > *req.PriceMax {
		return false
	}
	if finite(req.RatingMin) && ranked.Pro.Rating != nil && *ranked.Pro.Rating < *req.RatingMin {
		return false
	}
	return true
}

func finite(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}

func priceOrMax(pro *entities.Pro) float64 {
	if pro.PriceFrom == nil {
		return math.MaxFloat64
	}
	return *pro.PriceFrom
}
