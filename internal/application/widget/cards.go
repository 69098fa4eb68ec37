package widget

import (
	"strconv"

	"github.com/zatekoja/homeflow/internal/application/schedule"
	"github.com/zatekoja/homeflow/internal/domain/entities"
	"github.com/zatekoja/homeflow/internal/domain/tool"
)

// NewProSummary renders a pro; identifiers on the wire are slugs
func NewProSummary(pro *entities.Pro, service entities.ServiceSlug) ProSummary {
	badges := pro.Badges
	if badges == nil {
		badges = []string{}
	}
	windows := pro.TimeWindows
	if windows == nil {
		windows = []entities.TimeWindow{}
	}
	days := pro.WorkingDays
	if days == nil {
		days = []int{}
	}
	return ProSummary{
		ID:              pro.Slug,
		Service:         service,
		Name:            pro.Name,
		Image:           pro.Image,
		ImageAlt:        pro.ImageAlt,
		Rating:          pro.Rating,
		Reviews:         pro.ReviewsCount,
		PriceFrom:       pro.PriceFrom,
		Currency:        pro.Currency,
		Location:        pro.Location(),
		Badges:          badges,
		WorkingDays:     days,
		TimeWindows:     windows,
		BaseQuote:       Quote{Low: pro.BaseQuoteLow, High: pro.BaseQuoteHigh},
		ExtrasPricing:   pro.ExtrasPricing(),
		ServiceRadiusKm: pro.ServiceRadiusKm,
	}
}

// SeeSlotsAction lists availability for a pro over a date range
func SeeSlotsAction(proID, start, end string) Action {
	return ToolAction("See slots", tool.GetSlots, map[string]any{
		"pro_id":     proID,
		"date_range": map[string]any{"start": start, "end": end},
	}, VariantPrimary)
}

// ProActions are attached to every pro in a listing
func ProActions(summary ProSummary, date string) []Action {
	return []Action{
		SeeSlotsAction(summary.ID, date, date),
		ToolAction("Get quote", tool.GetQuote, map[string]any{
			"service": summary.Service,
			"pro_id":  summary.ID,
		}, VariantSecondary),
		ToolAction("Reviews", tool.ProReviews, map[string]any{"pro_id": summary.ID}, VariantGhost),
	}
}

// JobActions depend only on the booking status and rating
func JobActions(booking *entities.Booking) []Action {
	jobID := strconv.FormatInt(booking.ID, 10)
	params := func() map[string]any { return map[string]any{"job_id": jobID} }
	status := booking.Status.Normalize()

	var actions []Action
	if status.IsActive() {
		actions = append(actions,
			ToolAction("Reschedule", tool.UpdateJob, params(), VariantSecondary),
			ToolAction("Complete job", tool.CompleteJob, params(), VariantGhost),
			ToolAction("Cancel job", tool.CancelJob, params(), VariantDanger),
		)
	}

	if status.IsReviewable() {
		if status == entities.BookingStatusRated && booking.Rating != nil && *booking.Rating != 0 {
			actions = append(actions, ToolAction("Update review", tool.RateJobForm, params(), VariantSecondary))
		} else {
			actions = append(actions, ToolAction("Leave review", tool.RateJobForm, params(), VariantPrimary))
		}
	}
	return actions
}

// NewJobCard renders a booking together with its pro and service
func NewJobCard(clock schedule.BusinessClock, booking *entities.Booking, pro *entities.Pro, service entities.ServiceSlug) JobCard {
	card := JobCard{
		JobID:         strconv.FormatInt(booking.ID, 10),
		Service:       service,
		Status:        string(booking.Status),
		Slot:          Slot{Start: clock.FormatInstant(booking.Start), End: clock.FormatInstant(booking.End)},
		PriceEstimate: booking.PriceEstimate,
		Rating:        booking.Rating,
		Actions:       JobActions(booking),
	}
	if pro != nil {
		card.Pro = JobPro{ID: pro.Slug, Name: pro.Name, Image: pro.Image}
		card.Currency = pro.Currency
	} else {
		card.Pro = JobPro{ID: strconv.FormatInt(booking.ProID, 10)}
	}
	if booking.Instructions != nil {
		card.Instructions = *booking.Instructions
	}
	if booking.QuoteID != nil {
		card.QuoteID = *booking.QuoteID
	}
	if booking.ReviewText != nil {
		card.Review = *booking.ReviewText
	}
	return card
}

// NewQuoteCard renders a quote; proSlug is empty for service-level quotes
func NewQuoteCard(clock schedule.BusinessClock, quote *entities.Quote, service entities.ServiceSlug, proSlug string) *QuoteCard {
	return &QuoteCard{
		QuoteID:      quote.ID,
		Service:      service,
		Currency:     quote.Currency,
		EstimateLow:  quote.EstimateLow,
		EstimateHigh: quote.EstimateHigh,
		ExpiresAt:    clock.FormatInstant(quote.ExpiresAt),
		ProID:        proSlug,
	}
}

// NewSlotOption renders a slot with its Book action
func NewSlotOption(clock schedule.BusinessClock, summary ProSummary, slot schedule.Slot) SlotOption {
	start := clock.FormatInstant(slot.Start)
	end := clock.FormatInstant(slot.End)
	book := ToolAction("Book", tool.BookJob, map[string]any{
		"pro_id":  summary.ID,
		"service": summary.Service,
		"slot":    map[string]any{"start": start, "end": end},
		"address": entities.DefaultAddress,
	}, VariantPrimary)
	return SlotOption{
		Start:         start,
		End:           end,
		Label:         slot.Label(),
		PrimaryAction: &book,
	}
}

// NewMapMarker places a pro summary on the map
func NewMapMarker(summary ProSummary) MapMarker {
	return MapMarker{
		ID:        summary.ID,
		Name:      summary.Name,
		Coords:    [2]float64{summary.Location.Lng, summary.Location.Lat},
		Rating:    summary.Rating,
		PriceFrom: summary.PriceFrom,
		Currency:  summary.Currency,
		Badges:    summary.Badges,
		Actions:   summary.Actions,
	}
}

// NewMap centers on and selects the first pro; nil when there are none
func NewMap(pros []ProSummary) *Map {
	if len(pros) == 0 {
		return nil
	}
	markers := make([]MapMarker, 0, len(pros))
	for _, p := range pros {
		markers = append(markers, NewMapMarker(p))
	}
	return &Map{
		Center:     markers[0].Coords,
		Markers:    markers,
		SelectedID: markers[0].ID,
	}
}

// NewReviewItem renders a stored review
func NewReviewItem(clock schedule.BusinessClock, review *entities.Review) ReviewItem {
	item := ReviewItem{
		JobID:     "n/a",
		Rating:    review.Rating,
		UpdatedAt: clock.FormatInstant(review.CreatedAt),
	}
	if review.BookingID != nil {
		item.JobID = strconv.FormatInt(*review.BookingID, 10)
	}
	if review.Review != nil {
		item.Review = *review.Review
	}
	return item
}

// NewReviewItems renders reviews in order
func NewReviewItems(clock schedule.BusinessClock, reviews []*entities.Review) []ReviewItem {
	items := make([]ReviewItem, 0, len(reviews))
	for _, r := range reviews {
		items = append(items, NewReviewItem(clock, r))
	}
	return items
}
