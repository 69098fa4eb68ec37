package tools

import (
	"context"
	"fmt"

	"github.com/zatekoja/homeflow/internal/application/services"
	"github.com/zatekoja/homeflow/internal/application/widget"
	"github.com/zatekoja/homeflow/internal/domain/entities"
	"github.com/zatekoja/homeflow/internal/domain/tool"
)

const (
	homeTitle       = "HandyHub by HomeFlow"
	homeSubtitle    = "Book trusted pros in under 2 minutes."
	homeDescription = "Compare real-time availability, upfront pricing, and vetted ratings without leaving chat."
)

func (t *toolset) homeConfig(ctx context.Context) (*widget.Config, error) {
	now := t.now()
	today := t.clock().FormatDate(now)
	origin := services.DefaultCustomerLocation

	featured, err := t.deps.Search.Featured(ctx, origin.Point)
	if err != nil {
		return nil, err
	}
	pros := make([]widget.ProSummary, 0, len(featured))
	for _, ranked := range featured {
		pros = append(pros, t.rankedSummary(ranked, today))
	}

	search := func(service entities.ServiceSlug, flex string) map[string]any {
		return map[string]any{
			"service":  service,
			"when":     map[string]any{"date": today, "flex": flex},
			"location": locationParams(origin),
		}
	}
	quote := func(service entities.ServiceSlug) map[string]any {
		return map[string]any{"service": service}
	}

	return &widget.Config{
		View:        widget.ViewHome,
		Title:       homeTitle,
		Subtitle:    homeSubtitle,
		Description: homeDescription,
		Timestamp:   t.clock().FormatInstant(now),
		QuickActions: []widget.Action{
			widget.ToolAction("Find a cleaner", tool.SearchPros, search(entities.ServiceCleaning, "morning"), widget.VariantPrimary),
			widget.ToolAction("Book a plumber", tool.SearchPros, search(entities.ServicePlumbing, "evening"), widget.VariantSecondary),
			widget.ToolAction("Ask about pricing", tool.GetQuote, quote(entities.ServiceMoving), widget.VariantGhost),
		},
		PricingActions: []widget.Action{
			widget.ToolAction("Cleaner pricing", tool.GetQuote, quote(entities.ServiceCleaning), widget.VariantGhost),
			widget.ToolAction("Plumber pricing", tool.GetQuote, quote(entities.ServicePlumbing), widget.VariantGhost),
			widget.ToolAction("AC service pricing", tool.GetQuote, quote(entities.ServiceACService), widget.VariantGhost),
		},
		ManageActions: []widget.Action{
			widget.ToolAction("Manage bookings", tool.JobStatus, nil, widget.VariantSecondary),
			widget.ToolAction("Reviews", tool.MyReviews, nil, widget.VariantGhost),
		},
		ViewModes:   widget.AllViewModes,
		DefaultView: widget.ViewModeCarousel,
		Map:         widget.NewMap(pros),
		Pros:        pros,
		Context: map[string]any{
			"default_location": locationContext(origin),
			"default_date":     today,
		},
	}, nil
}

func (t *toolset) home(ctx context.Context, _ Args) (*widget.ToolResult, error) {
	config, err := t.homeConfig(ctx)
	if err != nil {
		return nil, err
	}
	config.Context["view"] = string(widget.ViewHome)

	featured := make([]map[string]any, 0, len(config.Pros))
	for _, pro := range config.Pros {
		featured = append(featured, map[string]any{"id": pro.ID, "name": pro.Name, "rating": pro.Rating})
	}

	summary := "Showing HomeFlow launcher."
	if len(config.Pros) > 0 {
		summary = fmt.Sprintf("Featured %d pros.", len(config.Pros))
	}
	return t.build(ctx, summary, config, map[string]any{"featured": featured})
}

// account re-titles the launcher with the caller's Google profile
func (t *toolset) account(ctx context.Context, _ Args) (*widget.ToolResult, error) {
	config, err := t.homeConfig(ctx)
	if err != nil {
		return nil, err
	}
	config.View = widget.ViewAccount
	config.Title = "Your Google account"

	account, ok := widget.AccountFrom(ctx)
	summary := "Google account details unavailable."
	if ok && account.Email != "" {
		config.Subtitle = account.Email
		summary = fmt.Sprintf("Google account synced for %s.", account.Email)
	}

	payload := map[string]any{"account": nil}
	if ok {
		payload["account"] = account
	}
	return t.build(ctx, summary, config, payload)
}
