package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/zatekoja/homeflow/internal/application/schedule"
	"github.com/zatekoja/homeflow/internal/domain/entities"
	"github.com/zatekoja/homeflow/internal/domain/repositories"
	apperrors "github.com/zatekoja/homeflow/pkg/errors"
)

const (
	// QuoteTTL is the advisory lifetime of a quote
	QuoteTTL = 6 * time.Hour

	// DefaultCurrency applies to service-level quotes
	DefaultCurrency = "MYR"
)

// QuoteRequest describes a quote. ProRef is a slug or numeric ID and may be empty.
type QuoteRequest struct {
	Service entities.ServiceSlug
	ProRef  string
	Details map[string]any
}

// QuoteResult is a stored quote with the records it was priced from
type QuoteResult struct {
	Quote   *entities.Quote
	Service *entities.Service
	Pro     *entities.Pro
}

// QuoteService prices jobs
type QuoteService struct {
	services repositories.ServiceRepository
	pros     repositories.ProRepository
	quotes   repositories.QuoteRepository
	clock    schedule.BusinessClock
	now      func() time.Time
}

// NewQuoteService creates a new quote service
func NewQuoteService(
	services repositories.ServiceRepository,
	pros repositories.ProRepository,
	quotes repositories.QuoteRepository,
	clock schedule.BusinessClock,
	now func() time.Time,
) *QuoteService {
	if now == nil {
		now = time.Now
	}
	return &QuoteService{services: services, pros: pros, quotes: quotes, clock: clock, now: now}
}

// Create prices the request from the pro's base quote, or the service default
// when no pro is given, and stores the quote.
func (s *QuoteService) Create(ctx context.Context, req QuoteRequest) (*QuoteResult, error) {
	service, err := s.services.GetBySlug(ctx, req.Service)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFoundError("Service not found.")
		}
		return nil, err
	}

	var pro *entities.Pro
	if req.ProRef != "" {
		pro, err = s.pros.GetByRef(ctx, req.ProRef)
		if err != nil {
			if apperrors.IsNotFound(err) {
				return nil, apperrors.NewNotFoundError("Provider not found for quote.")
			}
			return nil, err
		}
		if pro.ServiceID != service.ID {
			return nil, apperrors.NewValidationError("Provider does not offer requested service.")
		}
	}

	now := s.now()
	today := s.clock.Today(now)
	quote := &entities.Quote{
		ID:                 uuid.New().String(),
		ServiceID:          service.ID,
		Currency:           DefaultCurrency,
		EstimateLow:        service.DefaultPriceLow,
		EstimateHigh:       service.DefaultPriceHigh,
		ExpiresAt:          now.Add(QuoteTTL),
		SuggestedDateStart: schedule.AddDays(today, 1),
		SuggestedDateEnd:   schedule.AddDays(today, 3),
		CreatedAt:          now,
	}
	if len(req.Details) > 0 {
		quote.Details = req.Details
	}
	if pro != nil {
		quote.ProID = &pro.ID
		quote.EstimateLow = pro.BaseQuoteLow
		quote.EstimateHigh = pro.BaseQuoteHigh
		if pro.Currency != "" {
			quote.Currency = pro.Currency
		}
	}

	if err := s.quotes.Create(ctx, quote); err != nil {
		return nil, fmt.Errorf("failed to save quote: %w", err)
	}

	return &QuoteResult{Quote: quote, Service: service, Pro: pro}, nil
}
