package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	"github.com/zatekoja/homeflow/internal/domain/entities"
	"github.com/zatekoja/homeflow/internal/domain/repositories"
	"github.com/zatekoja/homeflow/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/homeflow/pkg/errors"
)

var quoteColumns = []any{
	"id", "service_id", "pro_id", "currency", "estimate_low", "estimate_high",
	"expires_at", "suggested_date_start", "suggested_date_end", "details", "created_at",
}

// QuoteAdapter implements the QuoteRepository interface
type QuoteAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewQuoteAdapter creates a new quote adapter
func NewQuoteAdapter(client *postgres.Client) repositories.QuoteRepository {
	return &QuoteAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a quote
func (a *QuoteAdapter) Create(ctx context.Context, quote *entities.Quote) error {
	var details any
	if len(quote.Details) > 0 {
		raw, err := json.Marshal(quote.Details)
		if err != nil {
			return apperrors.NewValidationError("details must be a JSON object.")
		}
		details = string(raw)
	}

	record := goqu.Record{
		"id":                   quote.ID,
		"service_id":           quote.ServiceID,
		"pro_id":               quote.ProID,
		"currency":             quote.Currency,
		"estimate_low":         quote.EstimateLow,
		"estimate_high":        quote.EstimateHigh,
		"expires_at":           quote.ExpiresAt,
		"suggested_date_start": quote.SuggestedDateStart,
		"suggested_date_end":   quote.SuggestedDateEnd,
		"details":              details,
		"created_at":           quote.CreatedAt,
	}

	query, args, err := a.db.Insert("quotes").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError(fmt.Sprintf("quote %s already exists", quote.ID), err)
		}
		return apperrors.NewInternalError("failed to create quote", err)
	}
	return nil
}

// GetByID retrieves a quote by ID
func (a *QuoteAdapter) GetByID(ctx context.Context, id string) (*entities.Quote, error) {
	query, args, err := a.db.Select(quoteColumns...).From("quotes").Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	quote := &entities.Quote{}
	var proID sql.NullInt64
	var details []byte
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&quote.ID,
		&quote.ServiceID,
		&proID,
		&quote.Currency,
		&quote.EstimateLow,
		&quote.EstimateHigh,
		&quote.ExpiresAt,
		&quote.SuggestedDateStart,
		&quote.SuggestedDateEnd,
		&details,
		&quote.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("quote %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get quote", err)
	}

	if proID.Valid {
		quote.ProID = &proID.Int64
	}
	if len(details) > 0 {
		if err := json.Unmarshal(details, &quote.Details); err != nil {
			return nil, apperrors.NewInternalError("failed to decode quote details", err)
		}
	}
	return quote, nil
}

var bookingColumns = []any{
	"id", "pro_id", "service_id", "user_id", "quote_id", "start_at", "end_at", "status",
	"price_estimate", "address", "instructions", "rating", "review_text",
	"cancellation_reason", "created_at", "updated_at",
}

// BookingAdapter implements the BookingRepository interface
type BookingAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewBookingAdapter creates a new booking adapter
func NewBookingAdapter(client *postgres.Client) repositories.BookingRepository {
	return &BookingAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a booking and assigns its ID
func (a *BookingAdapter) Create(ctx context.Context, booking *entities.Booking) error {
	address, err := json.Marshal(booking.Address)
	if err != nil {
		return apperrors.NewInternalError("failed to encode address", err)
	}

	record := goqu.Record{
		"pro_id":              booking.ProID,
		"service_id":          booking.ServiceID,
		"user_id":             booking.UserID,
		"quote_id":            booking.QuoteID,
		"start_at":            booking.Start,
		"end_at":              booking.End,
		"status":              string(booking.Status),
		"price_estimate":      booking.PriceEstimate,
		"address":             string(address),
		"instructions":        booking.Instructions,
		"rating":              booking.Rating,
		"review_text":         booking.ReviewText,
		"cancellation_reason": booking.CancellationReason,
		"created_at":          booking.CreatedAt,
		"updated_at":          booking.UpdatedAt,
	}

	query, args, err := a.db.Insert("bookings").Rows(record).Returning("id").ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&booking.ID); err != nil {
		return apperrors.NewInternalError("failed to create booking", err)
	}
	return nil
}

// GetByID retrieves a booking by ID
func (a *BookingAdapter) GetByID(ctx context.Context, id int64) (*entities.Booking, error) {
	query, args, err := a.db.Select(bookingColumns...).From("bookings").Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	booking, err := scanBooking(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("booking %d not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get booking", err)
	}
	return booking, nil
}

// Update overwrites the mutable fields of a booking
func (a *BookingAdapter) Update(ctx context.Context, booking *entities.Booking) error {
	address, err := json.Marshal(booking.Address)
	if err != nil {
		return apperrors.NewInternalError("failed to encode address", err)
	}

	query, args, err := a.db.Update("bookings").
		Set(goqu.Record{
			"quote_id":            booking.QuoteID,
			"start_at":            booking.Start,
			"end_at":              booking.End,
			"status":              string(booking.Status),
			"price_estimate":      booking.PriceEstimate,
			"address":             string(address),
			"instructions":        booking.Instructions,
			"rating":              booking.Rating,
			"review_text":         booking.ReviewText,
			"cancellation_reason": booking.CancellationReason,
			"updated_at":          booking.UpdatedAt,
		}).
		Where(goqu.Ex{"id": booking.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update booking", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("booking %d not found", booking.ID))
	}
	return nil
}

// List retrieves bookings matching filter. Status matching ignores case.
func (a *BookingAdapter) List(ctx context.Context, filter repositories.BookingFilter) ([]*entities.Booking, error) {
	ds := a.db.Select(bookingColumns...).From("bookings")

	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, strings.ToLower(string(s)))
		}
		ds = ds.Where(goqu.L("LOWER(status)").In(statuses))
	}
	if filter.UpdatedSince != nil {
		ds = ds.Where(goqu.C("updated_at").Gte(*filter.UpdatedSince))
	}

	switch filter.OrderBy {
	case repositories.BookingOrderUpdatedAtDesc:
		ds = ds.Order(goqu.I("updated_at").Desc(), goqu.I("id").Desc())
	default:
		ds = ds.Order(goqu.I("start_at").Asc(), goqu.I("id").Asc())
	}
	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list bookings", err)
	}
	defer rows.Close()

	var bookings []*entities.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan booking", err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to list bookings", err)
	}
	return bookings, nil
}

func scanBooking(row scanner) (*entities.Booking, error) {
	booking := &entities.Booking{}
	var userID sql.NullInt64
	var quoteID, instructions, reviewText, cancellationReason sql.NullString
	var rating sql.NullFloat64
	var status string
	var address []byte

	err := row.Scan(
		&booking.ID,
		&booking.ProID,
		&booking.ServiceID,
		&userID,
		&quoteID,
		&booking.Start,
		&booking.End,
		&status,
		&booking.PriceEstimate,
		&address,
		&instructions,
		&rating,
		&reviewText,
		&cancellationReason,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.Status = entities.BookingStatus(status)
	if len(address) > 0 {
		if err := json.Unmarshal(address, &booking.Address); err != nil {
			return nil, fmt.Errorf("failed to decode address: %w", err)
		}
	}
	if userID.Valid {
		booking.UserID = &userID.Int64
	}
	booking.QuoteID = nullString(quoteID)
	booking.Instructions = nullString(instructions)
	booking.ReviewText = nullString(reviewText)
	booking.CancellationReason = nullString(cancellationReason)
	if rating.Valid {
		booking.Rating = &rating.Float64
	}
	return booking, nil
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

var reviewColumns = []any{"id", "pro_id", "booking_id", "user_id", "rating", "review", "created_at", "updated_at"}

// ReviewAdapter implements the ReviewRepository interface
type ReviewAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewReviewAdapter creates a new review adapter
func NewReviewAdapter(client *postgres.Client) repositories.ReviewRepository {
	return &ReviewAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a review. The unique booking_id index turns a second review
// for the same booking into a conflict.
func (a *ReviewAdapter) Create(ctx context.Context, review *entities.Review) error {
	record := goqu.Record{
		"pro_id":     review.ProID,
		"booking_id": review.BookingID,
		"user_id":    review.UserID,
		"rating":     review.Rating,
		"review":     review.Review,
		"created_at": review.CreatedAt,
		"updated_at": review.UpdatedAt,
	}

	query, args, err := a.db.Insert("reviews").Rows(record).Returning("id").ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&review.ID); err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError("booking already has a review", err)
		}
		return apperrors.NewInternalError("failed to create review", err)
	}
	return nil
}

// GetByBooking retrieves the review attached to a booking
func (a *ReviewAdapter) GetByBooking(ctx context.Context, bookingID int64) (*entities.Review, error) {
	query, args, err := a.db.Select(reviewColumns...).From("reviews").Where(goqu.Ex{"booking_id": bookingID}).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	review, err := scanReview(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("review for booking %d not found", bookingID))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get review", err)
	}
	return review, nil
}

// Update overwrites rating and text of an existing review
func (a *ReviewAdapter) Update(ctx context.Context, review *entities.Review) error {
	query, args, err := a.db.Update("reviews").
		Set(goqu.Record{
			"rating":     review.Rating,
			"review":     review.Review,
			"updated_at": review.UpdatedAt,
		}).
		Where(goqu.Ex{"id": review.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update review", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("review %d not found", review.ID))
	}
	return nil
}

// ListByPro retrieves up to limit reviews for a pro, newest first
func (a *ReviewAdapter) ListByPro(ctx context.Context, proID int64, limit int) ([]*entities.Review, error) {
	ds := a.db.Select(reviewColumns...).From("reviews").
		Where(goqu.Ex{"pro_id": proID}).
		Order(goqu.I("created_at").Desc(), goqu.I("id").Desc())
	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list reviews", err)
	}
	defer rows.Close()

	var reviews []*entities.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan review", err)
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to list reviews", err)
	}
	return reviews, nil
}

// AggregateByPro counts and averages all reviews of a pro
func (a *ReviewAdapter) AggregateByPro(ctx context.Context, proID int64) (entities.RatingAggregate, error) {
	query, args, err := a.db.Select(
		goqu.COUNT("*"),
		goqu.COALESCE(goqu.AVG("rating"), 0),
	).From("reviews").Where(goqu.Ex{"pro_id": proID}).ToSQL()
	if err != nil {
		return entities.RatingAggregate{}, apperrors.NewInternalError("failed to build query", err)
	}

	aggregate := entities.RatingAggregate{ProID: proID}
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&aggregate.Count, &aggregate.Average); err != nil {
		return entities.RatingAggregate{}, apperrors.NewInternalError("failed to aggregate reviews", err)
	}
	return aggregate, nil
}

func scanReview(row scanner) (*entities.Review, error) {
	review := &entities.Review{}
	var bookingID, userID sql.NullInt64
	var text sql.NullString
	err := row.Scan(
		&review.ID,
		&review.ProID,
		&bookingID,
		&userID,
		&review.Rating,
		&text,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if bookingID.Valid {
		review.BookingID = &bookingID.Int64
	}
	if userID.Valid {
		review.UserID = &userID.Int64
	}
	review.Review = nullString(text)
	return review, nil
}
