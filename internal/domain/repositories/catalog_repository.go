package repositories

import (
	"context"

	"github.com/zatekoja/homeflow/internal/domain/entities"
)

// ServiceRepository defines the interface for service catalogue operations
type ServiceRepository interface {
	// Create persists a new service and assigns its ID
	Create(ctx context.Context, service *entities.Service) error

	// GetBySlug retrieves a service by slug
	GetBySlug(ctx context.Context, slug entities.ServiceSlug) (*entities.Service, error)

	// GetByID retrieves a service by ID
	GetByID(ctx context.Context, id int64) (*entities.Service, error)

	// List retrieves every service
	List(ctx context.Context) ([]*entities.Service, error)
}

// ProRepository defines the interface for pro data operations.
// Returned pros carry their time windows, badges and extras.
type ProRepository interface {
	// Create persists a new pro with its windows, badges and extras and assigns its ID
	Create(ctx context.Context, pro *entities.Pro) error

	// GetByRef retrieves a pro by slug, or by numeric ID when ref parses as one
	GetByRef(ctx context.Context, ref string) (*entities.Pro, error)

	// GetByID retrieves a pro by ID
	GetByID(ctx context.Context, id int64) (*entities.Pro, error)

	// ListByService retrieves all pros offering a service
	ListByService(ctx context.Context, serviceID int64) ([]*entities.Pro, error)

	// ListTopRated retrieves up to limit pros ordered by rating descending
	ListTopRated(ctx context.Context, limit int) ([]*entities.Pro, error)

	// UpdateRating persists a recomputed rating aggregate
	UpdateRating(ctx context.Context, aggregate entities.RatingAggregate) error
}
