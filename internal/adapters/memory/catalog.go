package memory

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/zatekoja/homeflow/internal/domain/entities"
	apperrors "github.com/zatekoja/homeflow/pkg/errors"
)

// ServiceRepository implements repositories.ServiceRepository
type ServiceRepository struct {
	store *Store
}

// Create stores a service; slugs are unique
func (r *ServiceRepository) Create(ctx context.Context, service *entities.Service) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.services {
		if existing.Slug == service.Slug {
			return apperrors.NewConflictError(fmt.Sprintf("service %q already exists", service.Slug), nil)
		}
	}
	r.store.nextServiceID++
	service.ID = r.store.nextServiceID
	r.store.services[service.ID] = cloneService(service)
	return nil
}

// GetBySlug retrieves a service by slug
func (r *ServiceRepository) GetBySlug(ctx context.Context, slug entities.ServiceSlug) (*entities.Service, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, service := range r.store.services {
		if service.Slug == slug {
			return cloneService(service), nil
		}
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("service %q not found", slug))
}

// GetByID retrieves a service by ID
func (r *ServiceRepository) GetByID(ctx context.Context, id int64) (*entities.Service, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	service, ok := r.store.services[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("service %d not found", id))
	}
	return cloneService(service), nil
}

// List retrieves every service ordered by ID
func (r *ServiceRepository) List(ctx context.Context) ([]*entities.Service, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	list := make([]*entities.Service, 0, len(r.store.services))
	for _, service := range r.store.services {
		list = append(list, cloneService(service))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

// ProRepository implements repositories.ProRepository
type ProRepository struct {
	store *Store
}

// Create stores a pro; slugs are unique
func (r *ProRepository) Create(ctx context.Context, pro *entities.Pro) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.pros {
		if existing.Slug == pro.Slug {
			return apperrors.NewConflictError(fmt.Sprintf("pro %q already exists", pro.Slug), nil)
		}
	}
	r.store.nextProID++
	pro.ID = r.store.nextProID
	r.store.pros[pro.ID] = clonePro(pro)
	return nil
}

// GetByRef retrieves a pro by slug, falling back to a numeric ID
func (r *ProRepository) GetByRef(ctx context.Context, ref string) (*entities.Pro, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, pro := range r.store.pros {
		if pro.Slug == ref {
			return clonePro(pro), nil
		}
	}
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		if pro, ok := r.store.pros[id]; ok {
			return clonePro(pro), nil
		}
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("pro %q not found", ref))
}

// GetByID retrieves a pro by ID
func (r *ProRepository) GetByID(ctx context.Context, id int64) (*entities.Pro, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	pro, ok := r.store.pros[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("pro %d not found", id))
	}
	return clonePro(pro), nil
}

// ListByService retrieves the pros of a service ordered by ID
func (r *ProRepository) ListByService(ctx context.Context, serviceID int64) ([]*entities.Pro, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var list []*entities.Pro
	for _, pro := range r.store.pros {
		if pro.ServiceID == serviceID {
			list = append(list, clonePro(pro))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

// ListTopRated retrieves pros by rating descending; unrated pros come last
func (r *ProRepository) ListTopRated(ctx context.Context, limit int) ([]*entities.Pro, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	list := make([]*entities.Pro, 0, len(r.store.pros))
	for _, pro := range r.store.pros {
		list = append(list, clonePro(pro))
	}
	sort.Slice(list, func(i, j int) bool {
		if (list[i].Rating == nil) != (list[j].Rating == nil) {
			return list[i].Rating != nil
		}
		if ri, rj := list[i].RatingOrZero(), list[j].RatingOrZero(); ri != rj {
			return ri > rj
		}
		return list[i].ID < list[j].ID
	})
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

// UpdateRating stores a recomputed aggregate
func (r *ProRepository) UpdateRating(ctx context.Context, aggregate entities.RatingAggregate) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	pro, ok := r.store.pros[aggregate.ProID]
	if !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("pro %d not found", aggregate.ProID))
	}
	average := aggregate.Average
	pro.Rating = &average
	pro.ReviewsCount = aggregate.Count
	return nil
}
