package tools

import (
	"context"
	"fmt"

	"github.com/zatekoja/homeflow/internal/application/services"
	"github.com/zatekoja/homeflow/internal/application/widget"
	apperrors "github.com/zatekoja/homeflow/pkg/errors"
)

const expiredQuoteNotice = "The referenced quote has expired; the booking uses the provider's current pricing."

func (t *toolset) bookJob(ctx context.Context, args Args) (*widget.ToolResult, error) {
	ref, ok := args.Ref("pro_id")
	if !ok {
		return nil, apperrors.NewValidationError("pro_id is required.")
	}
	service, err := serviceArg(args)
	if err != nil {
		return nil, err
	}

	slot := args.Object("slot")
	start, _, err := slot.Instant("start", t.clock())
	if err != nil {
		return nil, err
	}
	end, _, err := slot.Instant("end", t.clock())
	if err != nil {
		return nil, err
	}

	req := services.CreateBookingRequest{ProRef: ref, Service: service, Start: start, End: end}
	req.QuoteID, _ = args.NonEmptyString("quote_id")
	if price, ok := args.Number("price_estimate"); ok {
		req.PriceEstimate = &price
	}
	if req.Address, err = args.Address("address"); err != nil {
		return nil, err
	}
	if instructions, ok := args.String("instructions"); ok {
		req.Instructions = &instructions
	}

	job, err := t.deps.Bookings.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	upcoming, err := t.deps.Bookings.ListUpcoming(ctx)
	if err != nil {
		return nil, err
	}

	booking := job.Booking
	card := t.jobCard(job)
	date := t.clock().FormatDate(booking.Start)
	notifications := []string{"A confirmation email has been sent."}
	if job.QuoteExpired {
		notifications = append(notifications, expiredQuoteNotice)
	}

	config := &widget.Config{
		View:          widget.ViewBooking,
		Title:         "Booking confirmed",
		Subtitle:      fmt.Sprintf("%s on %s", proName(job), date),
		Job:           &card,
		Jobs:          t.jobCards(upcoming),
		Context:       map[string]any{"job_id": booking.ID},
		Notifications: notifications,
	}

	payload := map[string]any{
		"job_id":  jobIDString(booking.ID),
		"status":  booking.Status,
		"pro_id":  job.Pro.Slug,
		"service": service,
		"start":   isoUTC(booking.Start),
		"end":     isoUTC(booking.End),
	}
	if job.QuoteExpired {
		payload["quote_expired"] = true
	}
	return t.build(ctx, fmt.Sprintf("Booked %s for %s.", proName(job), date), config, payload)
}

func (t *toolset) updateJob(ctx context.Context, args Args) (*widget.ToolResult, error) {
	id, err := jobIDArg(args)
	if err != nil {
		return nil, err
	}

	var req services.UpdateBookingRequest
	slot := args.Object("slot")
	if start, ok, err := slot.Instant("start", t.clock()); err != nil {
		return nil, err
	} else if ok {
		req.Start = &start
	}
	if end, ok, err := slot.Instant("end", t.clock()); err != nil {
		return nil, err
	} else if ok {
		req.End = &end
	}
	if instructions, ok := args.String("instructions"); ok {
		req.Instructions = &instructions
	}

	job, err := t.deps.Bookings.Reschedule(ctx, id, req)
	if err != nil {
		return nil, err
	}

	booking := job.Booking
	card := t.jobCard(job)
	config := &widget.Config{
		View:     widget.ViewUpdate,
		Title:    "Booking updated",
		Subtitle: fmt.Sprintf("%s • %s", proName(job), booking.Status),
		Job:      &card,
		Context:  map[string]any{"job_id": booking.ID},
	}
	payload := map[string]any{
		"job_id": jobIDString(booking.ID),
		"status": booking.Status,
		"start":  isoUTC(booking.Start),
		"end":    isoUTC(booking.End),
	}
	return t.build(ctx, fmt.Sprintf("Updated booking %d.", booking.ID), config, payload)
}

func (t *toolset) completeJob(ctx context.Context, args Args) (*widget.ToolResult, error) {
	id, err := jobIDArg(args)
	if err != nil {
		return nil, err
	}
	job, err := t.deps.Bookings.Complete(ctx, id)
	if err != nil {
		return nil, err
	}

	booking := job.Booking
	card := t.jobCard(job)
	config := &widget.Config{
		View:     widget.ViewBooking,
		Title:    "Job marked as completed",
		Subtitle: proName(job),
		Job:      &card,
		Context:  map[string]any{"job_id": booking.ID},
	}
	payload := map[string]any{"job_id": jobIDString(booking.ID), "status": booking.Status}
	return t.build(ctx, fmt.Sprintf("Completed job %d.", booking.ID), config, payload)
}

func (t *toolset) cancelJob(ctx context.Context, args Args) (*widget.ToolResult, error) {
	id, err := jobIDArg(args)
	if err != nil {
		return nil, err
	}
	reason, _ := args.NonEmptyString("reason")

	job, err := t.deps.Bookings.Cancel(ctx, id, reason)
	if err != nil {
		return nil, err
	}

	booking := job.Booking
	reason = *booking.CancellationReason
	card := t.jobCard(job)
	config := &widget.Config{
		View:          widget.ViewCancelled,
		Title:         "Booking cancelled",
		Subtitle:      proName(job),
		Job:           &card,
		Notifications: []string{"We've notified the provider.", fmt.Sprintf("Reason: %s", reason)},
		Context:       map[string]any{"job_id": booking.ID},
	}
	payload := map[string]any{"job_id": jobIDString(booking.ID), "status": booking.Status, "reason": reason}
	return t.build(ctx, fmt.Sprintf("Cancelled job %d.", booking.ID), config, payload)
}

// jobStatus shows one booking when job_id is given, otherwise the upcoming list
func (t *toolset) jobStatus(ctx context.Context, args Args) (*widget.ToolResult, error) {
	if raw, present := args["job_id"]; present && raw != nil && raw != "" {
		id, err := jobIDArg(args)
		if err != nil {
			return nil, err
		}
		job, err := t.deps.Bookings.Get(ctx, id)
		if err != nil {
			return nil, err
		}

		booking := job.Booking
		config := &widget.Config{
			View:     widget.ViewJobStatus,
			Title:    "Booking status",
			Subtitle: fmt.Sprintf("%s • %s", proName(job), booking.Status),
			Jobs:     []widget.JobCard{t.jobCard(job)},
			Context:  map[string]any{"job_id": booking.ID},
		}
		payload := map[string]any{"job_id": jobIDString(booking.ID), "status": booking.Status}
		return t.build(ctx, fmt.Sprintf("Status for %d: %s.", booking.ID, booking.Status), config, payload)
	}

	upcoming, err := t.deps.Bookings.ListUpcoming(ctx)
	if err != nil {
		return nil, err
	}
	cards := t.jobCards(upcoming)

	config := &widget.Config{
		View:     widget.ViewJobStatus,
		Title:    "Upcoming jobs",
		Subtitle: "No upcoming jobs",
		Jobs:     cards,
		Context:  map[string]any{"total": len(cards)},
	}
	if len(cards) > 0 {
		config.Subtitle = fmt.Sprintf("Next booking %s", t.clock().FormatDate(upcoming[0].Booking.Start))
		config.ViewModes = []widget.ViewMode{widget.ViewModeList}
	}
	summary := fmt.Sprintf("Found %d upcoming %s.", len(cards), plural(len(cards), "job"))
	return t.build(ctx, summary, config, map[string]any{"total": len(cards)})
}
