package tools

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/homeflow/internal/application/schedule"
	"github.com/zatekoja/homeflow/internal/application/services"
	"github.com/zatekoja/homeflow/internal/application/widget"
	apperrors "github.com/zatekoja/homeflow/pkg/errors"
)

// rateJobForm opens the rating form. A call that already carries a rating or
// review is treated as the submission.
func (t *toolset) rateJobForm(ctx context.Context, args Args) (*widget.ToolResult, error) {
	if args.Has("rating") || args.Has("review") {
		log.Debug().Interface("args", map[string]any(args)).Msg("rate_job_form received a submission, delegating to rate_job")
		return t.rateJob(ctx, args)
	}

	id, err := jobIDArg(args)
	if err != nil {
		return nil, err
	}
	job, err := t.deps.Bookings.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	booking := job.Booking
	card := t.jobCard(job)
	rating := 5.0
	if booking.Rating != nil {
		rating = *booking.Rating
	}

	config := &widget.Config{
		View:     widget.ViewRateForm,
		Title:    "Leave a review",
		Subtitle: fmt.Sprintf("%s · %s", proName(job), serviceTitle(job.Service)),
		Job:      &card,
		ReviewForm: &widget.ReviewForm{
			JobID:   jobIDString(booking.ID),
			ProName: proName(job),
			Service: serviceTitle(job.Service),
			Rating:  rating,
			Review:  booking.ReviewText,
		},
		Context: map[string]any{"job_id": booking.ID},
	}
	payload := map[string]any{"job_id": jobIDString(booking.ID), "job": card}
	return t.build(ctx, "Ready to collect feedback.", config, payload)
}

func (t *toolset) rateJob(ctx context.Context, args Args) (*widget.ToolResult, error) {
	id, _ := args.ID("job_id")
	rating, ok := args.Number("rating")
	if !ok {
		rating = math.NaN()
	}
	req := services.RateRequest{JobID: id, Rating: rating}
	if review, ok := args.String("review"); ok {
		req.Review = &review
	}

	result, err := t.deps.Reviews.Rate(ctx, req)
	if err != nil {
		return nil, err
	}

	job := result.Job
	booking := job.Booking
	card := t.jobCard(job)
	config := &widget.Config{
		View:     widget.ViewRateJob,
		Title:    "Thanks for the feedback!",
		Subtitle: fmt.Sprintf("%.1f★ for %s", result.Rating, proName(job)),
		Job:      &card,
		Reviews:  widget.NewReviewItems(t.clock(), result.Recent),
		Context:  map[string]any{"job_id": booking.ID},
	}

	payload := map[string]any{
		"job_id":    jobIDString(booking.ID),
		"status":    booking.Status,
		"rating":    result.Rating,
		"review":    nil,
		"review_id": result.Review.ID,
	}
	if result.Text != nil {
		payload["review"] = *result.Text
	}
	summary := fmt.Sprintf("Recorded %s★ for %s.", formatAmount(result.Rating), proName(job))
	return t.build(ctx, summary, config, payload)
}

// myReviews lists bookings that can carry a review, most recently updated first
func (t *toolset) myReviews(ctx context.Context, args Args) (*widget.ToolResult, error) {
	var since *time.Time
	if raw, ok := args.NonEmptyString("since"); ok {
		date, err := schedule.ParseDateOnly(raw)
		if err != nil {
			return nil, apperrors.NewValidationError("since must be a date.")
		}
		since = &date
	}

	jobs, err := t.deps.Bookings.ListReviewable(ctx, since)
	if err != nil {
		return nil, err
	}

	config := &widget.Config{
		View:  widget.ViewJobStatus,
		Title: "Your reviews",
	}
	if len(jobs) == 0 {
		config.Subtitle = "No reviews yet."
		config.Notifications = []string{"Leave feedback after your next booking to see it here."}
		return t.build(ctx, "No reviews found.", config, map[string]any{"reviews": []any{}})
	}

	cards := t.jobCards(jobs)
	config.Subtitle = fmt.Sprintf("%d past %s with ratings", len(cards), plural(len(cards), "booking"))
	config.Jobs = cards
	config.Context = map[string]any{"filter": "reviews"}

	reviews := make([]map[string]any, 0, len(cards))
	for _, card := range cards {
		entry := map[string]any{"job_id": card.JobID, "rating": nil, "review": nil}
		if card.Rating != nil {
			entry["rating"] = *card.Rating
		}
		if card.Review != "" {
			entry["review"] = card.Review
		}
		reviews = append(reviews, entry)
	}

	summary := fmt.Sprintf("Showing %d reviewed %s.", len(cards), plural(len(cards), "booking"))
	return t.build(ctx, summary, config, map[string]any{"reviews": reviews})
}

func (t *toolset) proReviews(ctx context.Context, args Args) (*widget.ToolResult, error) {
	ref, ok := args.Ref("pro_id")
	if !ok {
		return nil, apperrors.NewValidationError("pro_id is required.")
	}
	pro, service, err := t.findPro(ctx, ref)
	if err != nil {
		return nil, err
	}

	reviews, err := t.deps.Reviews.ListByPro(ctx, pro.ID, services.ProReviewsLimit)
	if err != nil {
		return nil, err
	}
	items := widget.NewReviewItems(t.clock(), reviews)

	subtitle := "No reviews yet"
	if len(items) > 0 {
		subtitle = fmt.Sprintf("%d recent", len(items))
	}
	config := &widget.Config{
		View:     widget.ViewProReviews,
		Title:    fmt.Sprintf("%s reviews", pro.Name),
		Subtitle: subtitle,
		Pro: &widget.ProDetail{
			ProSummary:    widget.NewProSummary(pro, serviceSlug(service)),
			RecentReviews: items,
		},
		Reviews: items,
		Context: map[string]any{"pro_id": pro.Slug},
	}

	payload := map[string]any{"pro_id": pro.Slug, "review_count": len(items)}
	summary := fmt.Sprintf("Loaded %d %s for %s.", len(items), plural(len(items), "review"), pro.Name)
	return t.build(ctx, summary, config, payload)
}
