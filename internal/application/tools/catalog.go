package tools

import (
	"context"
	"fmt"

	"github.com/zatekoja/homeflow/internal/application/schedule"
	"github.com/zatekoja/homeflow/internal/application/services"
	"github.com/zatekoja/homeflow/internal/application/widget"
	"github.com/zatekoja/homeflow/internal/domain/entities"
	apperrors "github.com/zatekoja/homeflow/pkg/errors"
)

// MaxSlotRangeDays bounds the date range of a slot lookup
const MaxSlotRangeDays = 31

func (t *toolset) searchPros(ctx context.Context, args Args) (*widget.ToolResult, error) {
	service, err := serviceArg(args)
	if err != nil {
		return nil, err
	}

	locArgs := args.Object("location")
	if locArgs == nil {
		return nil, apperrors.NewValidationError("Location is required.")
	}
	lat, okLat := locArgs.Number("lat")
	lng, okLng := locArgs.Number("lng")
	if !okLat || !okLng {
		return nil, apperrors.NewValidationError("Location coordinates are invalid.")
	}
	location := services.CustomerLocation{Point: entities.GeoPoint{Lat: lat, Lng: lng}, RadiusKm: services.DefaultSearchRadiusKm}
	if radius, ok := locArgs.Number("radius_km"); ok {
		location.RadiusKm = radius
	}

	filters := args.Object("filters")
	if filters == nil {
		filters = Args{}
	}
	req := services.SearchRequest{Service: service, Location: location, OnlyVetted: true}
	if v, ok := filters.Number("price_max"); ok {
		req.PriceMax = &v
	}
	if v, ok := filters.Number("rating_min"); ok {
		req.RatingMin = &v
	}
	if v, ok := filters.Bool("only_vetted"); ok {
		req.OnlyVetted = v
	}

	now := t.now()
	whenDate, ok := args.Object("when").String("date")
	if !ok {
		whenDate = t.clock().FormatDate(now)
	}
	req.Date, err = schedule.ParseDateOnly(whenDate)
	if err != nil {
		req.Date = t.clock().Today(now)
	}

	result, err := t.deps.Search.Search(ctx, req)
	if err != nil {
		return nil, err
	}

	pros := make([]widget.ProSummary, 0, len(result.Pros))
	for _, ranked := range result.Pros {
		pros = append(pros, t.rankedSummary(ranked, whenDate))
	}

	label := service.Label()
	subtitle := "No providers match the filters"
	switch {
	case len(pros) > 0 && result.Fallback:
		subtitle = fmt.Sprintf("%d top-rated providers shown", len(pros))
	case len(pros) > 0:
		subtitle = fmt.Sprintf("%d available near you", len(pros))
	}

	searchContext := map[string]any{
		"service":      service,
		"location":     locationContext(location),
		"filters":      map[string]any(filters),
		"previousView": string(widget.ViewHome),
	}
	var notifications []string
	if result.Fallback {
		searchContext["fallback"] = true
		notifications = []string{"Showing top-rated providers across the network because none were nearby."}
	}

	config := &widget.Config{
		View:        widget.ViewSearch,
		Title:       fmt.Sprintf("%s nearby", label),
		Subtitle:    subtitle,
		Pros:        pros,
		ViewModes:   widget.AllViewModes,
		DefaultView: widget.ViewModeCarousel,
		Map:         widget.NewMap(pros),
		EmptyState:  fmt.Sprintf("No %s pros for %s.", label, whenDate),
		Query: map[string]any{
			"service":  service,
			"date":     whenDate,
			"location": locationContext(location),
			"filters":  map[string]any(filters),
		},
		Context:       searchContext,
		Notifications: notifications,
	}

	hits := make([]map[string]any, 0, len(pros))
	for _, pro := range pros {
		hits = append(hits, map[string]any{
			"id":          pro.ID,
			"rating":      pro.Rating,
			"price_from":  pro.PriceFrom,
			"distance_km": pro.DistanceKm,
		})
	}
	payload := map[string]any{"service": service, "pros": hits, "fallback": result.Fallback}

	var summary string
	switch {
	case len(pros) == 0:
		summary = fmt.Sprintf("No %s pros matched.", service)
	case result.Fallback:
		summary = fmt.Sprintf("Showing %d top-rated %s providers.", len(pros), label)
	default:
		summary = fmt.Sprintf("Found %d %s providers.", len(pros), label)
	}
	return t.build(ctx, summary, config, payload)
}

func (t *toolset) getSlots(ctx context.Context, args Args) (*widget.ToolResult, error) {
	ref, ok := args.Ref("pro_id")
	if !ok {
		return nil, apperrors.NewValidationError("pro_id is required.")
	}

	now := t.now()
	dateRange := args.Object("date_range")
	startDate, ok := dateRange.NonEmptyString("start")
	if !ok {
		startDate = t.clock().FormatDate(now)
	}
	endDate, ok := dateRange.NonEmptyString("end")
	if !ok {
		endDate = startDate
	}
	start, err := schedule.ParseDateOnly(startDate)
	if err != nil {
		return nil, apperrors.NewValidationError("date_range.start must be a date.")
	}
	end, err := schedule.ParseDateOnly(endDate)
	if err != nil {
		return nil, apperrors.NewValidationError("date_range.end must be a date.")
	}
	if len(schedule.EnumerateDates(start, end)) > MaxSlotRangeDays {
		return nil, apperrors.NewValidationError(fmt.Sprintf("date_range may span at most %d days.", MaxSlotRangeDays))
	}

	pro, service, err := t.findPro(ctx, ref)
	if err != nil {
		return nil, err
	}
	summary := widget.NewProSummary(pro, serviceSlug(service))

	config := &widget.Config{
		View:     widget.ViewSlots,
		Title:    fmt.Sprintf("Availability for %s", pro.Name),
		Subtitle: fmt.Sprintf("%s to %s", startDate, endDate),
		Context: map[string]any{
			"pro_id":     summary.ID,
			"date_range": map[string]any{"start": startDate, "end": endDate},
		},
	}

	slots := t.clock().ExpandSlots(pro.TimeWindows, start, end, now)
	if len(slots) == 0 {
		later := widget.SeeSlotsAction(summary.ID, schedule.AddDaysString(endDate, 1), schedule.AddDaysString(endDate, 2))
		later.Label = "Try later dates"
		summary.Actions = []widget.Action{later}
		config.Pro = &widget.ProDetail{ProSummary: summary}
		config.Notifications = []string{"No slots available for this range. Try widening your search window."}

		text := fmt.Sprintf("No slots available for %s between %s and %s.", pro.Name, startDate, endDate)
		return t.build(ctx, text, config, map[string]any{"pro_id": summary.ID, "slots": []any{}})
	}

	options := make([]widget.SlotOption, 0, len(slots))
	intervals := make([]map[string]any, 0, len(slots))
	for _, slot := range slots {
		option := widget.NewSlotOption(t.clock(), summary, slot)
		options = append(options, option)
		intervals = append(intervals, map[string]any{"start": option.Start, "end": option.End})
	}
	config.Pro = &widget.ProDetail{ProSummary: summary}
	config.Slots = options

	payload := map[string]any{
		"pro_id":         summary.ID,
		"slots":          intervals,
		"next_available": options[0].Start,
	}
	return t.build(ctx, fmt.Sprintf("Listed %d slots for %s.", len(options), pro.Name), config, payload)
}

func (t *toolset) getQuote(ctx context.Context, args Args) (*widget.ToolResult, error) {
	service, err := serviceArg(args)
	if err != nil {
		return nil, err
	}
	ref, _ := args.Ref("pro_id")

	result, err := t.deps.Quotes.Create(ctx, services.QuoteRequest{
		Service: service,
		ProRef:  ref,
		Details: args.Map("details"),
	})
	if err != nil {
		return nil, err
	}

	quote := result.Quote
	proSlug := ""
	if result.Pro != nil {
		proSlug = result.Pro.Slug
	}
	card := widget.NewQuoteCard(t.clock(), quote, service, proSlug)
	card.Actions = []widget.Action{
		widget.SeeSlotsAction(proSlug, t.clock().FormatDate(quote.SuggestedDateStart), t.clock().FormatDate(quote.SuggestedDateEnd)),
	}

	low, high := formatAmount(quote.EstimateLow), formatAmount(quote.EstimateHigh)
	config := &widget.Config{
		View:      widget.ViewQuote,
		Title:     fmt.Sprintf("Estimated price for %s", result.Service.Title),
		Subtitle:  fmt.Sprintf("%s %s–%s", quote.Currency, low, high),
		Timestamp: t.clock().FormatInstant(quote.CreatedAt),
		Quote:     card,
		Context: map[string]any{
			"service":  service,
			"quote_id": quote.ID,
		},
	}

	payload := map[string]any{
		"quote_id":      quote.ID,
		"estimate_low":  quote.EstimateLow,
		"estimate_high": quote.EstimateHigh,
		"currency":      quote.Currency,
	}
	if proSlug != "" {
		config.Context["pro_id"] = proSlug
		payload["pro_id"] = proSlug
	}

	return t.build(ctx, fmt.Sprintf("Estimated %s %s–%s.", quote.Currency, low, high), config, payload)
}
