// Package tools implements the named chat operations. Each handler parses a
// loosely-typed argument object, drives the application services and returns
// the widget envelope.
package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/homeflow/internal/application/schedule"
	"github.com/zatekoja/homeflow/internal/application/services"
	"github.com/zatekoja/homeflow/internal/application/widget"
	"github.com/zatekoja/homeflow/internal/domain/repositories"
	"github.com/zatekoja/homeflow/internal/domain/tool"
	apperrors "github.com/zatekoja/homeflow/pkg/errors"
)

// Handler runs one tool
type Handler func(ctx context.Context, args Args) (*widget.ToolResult, error)

// Dependencies are the collaborators the handlers need
type Dependencies struct {
	Search    *services.SearchService
	Quotes    *services.QuoteService
	Bookings  *services.BookingService
	Reviews   *services.ReviewService
	Services  repositories.ServiceRepository
	Pros      repositories.ProRepository
	Assembler *widget.Assembler
	Clock     schedule.BusinessClock
	Now       func() time.Time
}

// Registry dispatches tool calls by name
type Registry struct {
	handlers map[tool.Name]Handler
	toolset  *toolset
}

// NewRegistry wires every tool. It panics if a tool has no handler.
func NewRegistry(deps Dependencies) *Registry {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	ts := &toolset{deps: deps}

	handlers := map[tool.Name]Handler{
		tool.Home:        ts.home,
		tool.Account:     ts.account,
		tool.SearchPros:  ts.searchPros,
		tool.GetSlots:    ts.getSlots,
		tool.GetQuote:    ts.getQuote,
		tool.BookJob:     ts.bookJob,
		tool.UpdateJob:   ts.updateJob,
		tool.CompleteJob: ts.completeJob,
		tool.CancelJob:   ts.cancelJob,
		tool.JobStatus:   ts.jobStatus,
		tool.RateJobForm: ts.rateJobForm,
		tool.RateJob:     ts.rateJob,
		tool.ProReviews:  ts.proReviews,
		tool.MyReviews:   ts.myReviews,
	}
	if err := checkRegistered(handlers); err != nil {
		panic(err)
	}

	return &Registry{handlers: handlers, toolset: ts}
}

func checkRegistered(handlers map[tool.Name]Handler) error {
	for _, name := range tool.All() {
		if handlers[name] == nil {
			return fmt.Errorf("no handler registered for tool %s", name)
		}
	}
	return nil
}

// Has reports whether name has a handler
func (r *Registry) Has(name tool.Name) bool {
	return r.handlers[name] != nil
}

// Definitions returns the published tool declarations
func (r *Registry) Definitions() []Definition {
	return Definitions()
}

// Call runs the named tool
func (r *Registry) Call(ctx context.Context, name string, args Args) (*widget.ToolResult, error) {
	toolName, ok := tool.Parse(name)
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("Unknown HomeFlow tool: %s", name))
	}
	if args == nil {
		args = Args{}
	}

	start := time.Now()
	result, err := r.handlers[toolName](ctx, args)
	if err != nil {
		log.Warn().Err(err).Str("tool", name).Msg("Tool call failed")
		return nil, err
	}

	log.Debug().
		Str("tool", name).
		Str("view", string(result.Config.View)).
		Dur("duration", time.Since(start)).
		Msg("Tool call completed")
	return result, nil
}

// HomeResource renders the launcher as the standalone widget resource
func (r *Registry) HomeResource(ctx context.Context) (*widget.Resource, error) {
	config, err := r.toolset.homeConfig(ctx)
	if err != nil {
		return nil, err
	}
	return r.toolset.deps.Assembler.RenderResource(ctx, config)
}
