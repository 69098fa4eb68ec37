package tools

import (
	"context"
	"strconv"
	"time"

	"github.com/zatekoja/homeflow/internal/application/schedule"
	"github.com/zatekoja/homeflow/internal/application/services"
	"github.com/zatekoja/homeflow/internal/application/widget"
	"github.com/zatekoja/homeflow/internal/domain/entities"
	apperrors "github.com/zatekoja/homeflow/pkg/errors"
)

// toolset holds the handlers; one instance serves every request
type toolset struct {
	deps Dependencies
}

func (t *toolset) now() time.Time { return t.deps.Now() }

func (t *toolset) clock() schedule.BusinessClock { return t.deps.Clock }

func (t *toolset) build(ctx context.Context, summary string, config *widget.Config, payload map[string]any) (*widget.ToolResult, error) {
	if config.Timestamp == "" {
		config.Timestamp = t.clock().FormatInstant(t.now())
	}
	return t.deps.Assembler.Build(ctx, summary, config, payload)
}

func serviceArg(args Args) (entities.ServiceSlug, error) {
	raw, ok := args.String("service")
	if !ok {
		return "", apperrors.NewValidationError("Service is required.")
	}
	slug, ok := entities.ParseServiceSlug(raw)
	if !ok {
		return "", apperrors.NewValidationError("Unsupported service.")
	}
	return slug, nil
}

func jobIDArg(args Args) (int64, error) {
	id, ok := args.ID("job_id")
	if !ok {
		return 0, apperrors.NewValidationError("job_id is required.")
	}
	return id, nil
}

// findPro resolves a provider reference together with its service
func (t *toolset) findPro(ctx context.Context, ref string) (*entities.Pro, *entities.Service, error) {
	pro, err := t.deps.Pros.GetByRef(ctx, ref)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, nil, apperrors.NewNotFoundError("Provider not found.")
		}
		return nil, nil, err
	}
	service, err := t.deps.Services.GetByID(ctx, pro.ServiceID)
	if err != nil && !apperrors.IsNotFound(err) {
		return nil, nil, err
	}
	return pro, service, nil
}

func serviceSlug(service *entities.Service) entities.ServiceSlug {
	if service == nil {
		return ""
	}
	return service.Slug
}

func serviceTitle(service *entities.Service) string {
	if service == nil {
		return ""
	}
	return service.Title
}

// rankedSummary renders a search hit with its distance, next slot and actions
func (t *toolset) rankedSummary(ranked services.RankedPro, date string) widget.ProSummary {
	summary := widget.NewProSummary(ranked.Pro, serviceSlug(ranked.Service))
	distance := schedule.RoundKm(ranked.DistanceKm)
	summary.DistanceKm = &distance
	if ranked.NextAvailable != nil {
		summary.NextAvailable = t.clock().FormatInstant(ranked.NextAvailable.Start)
	}
	summary.Actions = widget.ProActions(summary, date)
	return summary
}

func (t *toolset) jobCard(job *services.JobDetails) widget.JobCard {
	return widget.NewJobCard(t.clock(), job.Booking, job.Pro, serviceSlug(job.Service))
}

func (t *toolset) jobCards(jobs []*services.JobDetails) []widget.JobCard {
	cards := make([]widget.JobCard, 0, len(jobs))
	for _, job := range jobs {
		cards = append(cards, t.jobCard(job))
	}
	return cards
}

func proName(job *services.JobDetails) string {
	if job.Pro == nil {
		return "your provider"
	}
	return job.Pro.Name
}

func locationParams(loc services.CustomerLocation) map[string]any {
	return map[string]any{"lat": loc.Point.Lat, "lng": loc.Point.Lng, "radius_km": loc.RadiusKm}
}

func locationContext(loc services.CustomerLocation) map[string]any {
	return map[string]any{"lat": loc.Point.Lat, "lng": loc.Point.Lng, "radiusKm": loc.RadiusKm}
}

// formatAmount renders a number the shortest way, e.g. 180 or 180.5
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// isoUTC renders an instant as a UTC ISO-8601 timestamp with milliseconds
func isoUTC(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

func jobIDString(id int64) string {
	return strconv.FormatInt(id, 10)
}
