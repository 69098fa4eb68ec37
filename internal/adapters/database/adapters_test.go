package database_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/homeflow/internal/adapters/database"
	"github.com/zatekoja/homeflow/internal/domain/entities"
	"github.com/zatekoja/homeflow/internal/domain/repositories"
	"github.com/zatekoja/homeflow/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/homeflow/pkg/errors"
)

func setupMockDB(t *testing.T) (*postgres.Client, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return postgres.NewClientFromDB(mockDB), mock
}

var stamp = time.Date(2026, 3, 2, 1, 0, 0, 0, time.UTC)

var serviceRowColumns = []string{
	"id", "slug", "title", "description", "default_price_low", "default_price_high",
	"default_working_days", "default_radius_km", "created_at", "updated_at",
}

var proRowColumns = []string{
	"id", "slug", "service_id", "name", "image", "image_alt", "rating", "reviews_count",
	"price_from", "currency", "latitude", "longitude", "service_radius_km", "working_days",
	"base_quote_low", "base_quote_high", "created_at", "updated_at",
}

var bookingRowColumns = []string{
	"id", "pro_id", "service_id", "user_id", "quote_id", "start_at", "end_at", "status",
	"price_estimate", "address", "instructions", "rating", "review_text",
	"cancellation_reason", "created_at", "updated_at",
}

var reviewRowColumns = []string{"id", "pro_id", "booking_id", "user_id", "rating", "review", "created_at", "updated_at"}

func proRow(rows *sqlmock.Rows, id int64, slug string, rating any) *sqlmock.Rows {
	return rows.AddRow(id, slug, 1, "Sparkle Home", "", "", rating, 12, 80.0, "MYR",
		3.14, 101.69, 12.0, "{1,2,3,4,5}", 80.0, 140.0, stamp, stamp)
}

func expectProDetails(mock sqlmock.Sqlmock, id int64) {
	mock.ExpectQuery(`SELECT "pro_id", "start_time", "end_time" FROM "pro_time_windows"`).
		WillReturnRows(sqlmock.NewRows([]string{"pro_id", "start_time", "end_time"}).
			AddRow(id, "09:00", "11:00").
			AddRow(id, "14:00", "16:00"))
	mock.ExpectQuery(`SELECT "pro_id", "label" FROM "pro_badges"`).
		WillReturnRows(sqlmock.NewRows([]string{"pro_id", "label"}).AddRow(id, "Background checked"))
	mock.ExpectQuery(`SELECT "pro_id", "name", "price" FROM "pro_extras"`).
		WillReturnRows(sqlmock.NewRows([]string{"pro_id", "name", "price"}).AddRow(id, "oven", 30.0))
}

func TestServiceAdapter(t *testing.T) {
	ctx := context.Background()

	t.Run("create assigns id", func(t *testing.T) {
		client, mock := setupMockDB(t)
		adapter := database.NewServiceAdapter(client)

		mock.ExpectQuery(`INSERT INTO "services" .* RETURNING "id"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))

		service := &entities.Service{Slug: entities.ServiceCleaning, Title: "Home cleaning", DefaultWorkingDays: []int{1, 2}}
		require.NoError(t, adapter.Create(ctx, service))
		assert.Equal(t, int64(3), service.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate slug is a conflict", func(t *testing.T) {
		client, mock := setupMockDB(t)
		adapter := database.NewServiceAdapter(client)

		mock.ExpectQuery(`INSERT INTO "services"`).WillReturnError(&pq.Error{Code: "23505"})

		err := adapter.Create(ctx, &entities.Service{Slug: entities.ServiceCleaning})
		assert.True(t, apperrors.IsConflict(err))
	})

	t.Run("get by slug", func(t *testing.T) {
		client, mock := setupMockDB(t)
		adapter := database.NewServiceAdapter(client)

		mock.ExpectQuery(`SELECT .* FROM "services" WHERE \("slug" = 'plumbing'\)`).
			WillReturnRows(sqlmock.NewRows(serviceRowColumns).
				AddRow(2, "plumbing", "Plumbing", "Leaks", 90.0, 180.0, "{1,2,3,4,5,6}", 15.0, stamp, stamp))

		service, err := adapter.GetBySlug(ctx, entities.ServicePlumbing)
		require.NoError(t, err)
		assert.Equal(t, entities.ServicePlumbing, service.Slug)
		assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, service.DefaultWorkingDays)
		assert.Equal(t, 15.0, service.DefaultRadiusKm)
	})

	t.Run("missing id is not found", func(t *testing.T) {
		client, mock := setupMockDB(t)
		adapter := database.NewServiceAdapter(client)

		mock.ExpectQuery(`SELECT .* FROM "services" WHERE \("id" = 99\)`).
			WillReturnRows(sqlmock.NewRows(serviceRowColumns))

		_, err := adapter.GetByID(ctx, 99)
		assert.True(t, apperrors.IsNotFound(err))
		assert.Equal(t, "service 99 not found", apperrors.Message(err))
	})

	t.Run("list orders by id", func(t *testing.T) {
		client, mock := setupMockDB(t)
		adapter := database.NewServiceAdapter(client)

		mock.ExpectQuery(`SELECT .* FROM "services" ORDER BY "id" ASC`).
			WillReturnRows(sqlmock.NewRows(serviceRowColumns).
				AddRow(1, "cleaning", "Cleaning", "", 80.0, 140.0, "{}", 12.0, stamp, stamp).
				AddRow(2, "plumbing", "Plumbing", "", 90.0, 180.0, "{}", 15.0, stamp, stamp))

		services, err := adapter.List(ctx)
		require.NoError(t, err)
		require.Len(t, services, 2)
		assert.Empty(t, services[0].DefaultWorkingDays)
	})

	t.Run("driver failure is internal", func(t *testing.T) {
		client, mock := setupMockDB(t)
		adapter := database.NewServiceAdapter(client)

		mock.ExpectQuery(`SELECT .* FROM "services"`).WillReturnError(sql.ErrConnDone)

		_, err := adapter.List(ctx)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInternal))
	})
}

func TestProAdapter(t *testing.T) {
	ctx := context.Background()

	t.Run("create writes child rows in a transaction", func(t *testing.T) {
		client, mock := setupMockDB(t)
		adapter := database.NewProAdapter(client)

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO "pros" .* RETURNING "id"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
		mock.ExpectExec(`INSERT INTO "pro_time_windows"`).WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(`INSERT INTO "pro_badges"`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO "pro_extras"`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		pro := &entities.Pro{
			Slug:        "sparkle-home",
			ServiceID:   1,
			WorkingDays: []int{1, 2, 3},
			TimeWindows: []entities.TimeWindow{{Start: "09:00", End: "11:00"}, {Start: "14:00", End: "16:00"}},
			Badges:      []string{"Background checked"},
			Extras:      []entities.Extra{{Name: "oven", Price: 30}},
		}
		require.NoError(t, adapter.Create(ctx, pro))
		assert.Equal(t, int64(7), pro.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("create rolls back on child failure", func(t *testing.T) {
		client, mock := setupMockDB(t)
		adapter := database.NewProAdapter(client)

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO "pros"`).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
		mock.ExpectExec(`INSERT INTO "pro_badges"`).WillReturnError(sql.ErrConnDone)
		mock.ExpectRollback()

		err := adapter.Create(ctx, &entities.Pro{Slug: "x", Badges: []string{"Insured"}})
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInternal))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("get by slug loads details", func(t *testing.T) {
		client, mock := setupMockDB(t)
		adapter := database.NewProAdapter(client)

		mock.ExpectQuery(`SELECT .* FROM "pros" WHERE \("slug" = 'sparkle-home'\) LIMIT 1`).
			WillReturnRows(proRow(sqlmock.NewRows(proRowColumns), 7, "sparkle-home", 4.8))
		expectProDetails(mock, 7)

		pro, err := adapter.GetByRef(ctx, "sparkle-home")
		require.NoError(t, err)
		require.NotNil(t, pro.Rating)
		assert.Equal(t, 4.8, *pro.Rating)
		assert.Equal(t, []int{1, 2, 3, 4, 5}, pro.WorkingDays)
		assert.Equal(t, []entities.TimeWindow{{Start: "09:00", End: "11:00"}, {Start: "14:00", End: "16:00"}}, pro.TimeWindows)
		assert.Equal(t, []string{"Background checked"}, pro.Badges)
		assert.Equal(t, map[string]float64{"oven": 30}, pro.ExtrasPricing())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("numeric ref falls back to id", func(t *testing.T) {
		client, mock := setupMockDB(t)
		adapter := database.NewProAdapter(client)

		mock.ExpectQuery(`FROM "pros" WHERE \("slug" = '7'\)`).WillReturnRows(sqlmock.NewRows(proRowColumns))
		mock.ExpectQuery(`FROM "pros" WHERE \("id" = 7\)`).
			WillReturnRows(proRow(sqlmock.NewRows(proRowColumns), 7, "sparkle-home", nil))
		expectProDetails(mock, 7)

		pro, err := adapter.GetByRef(ctx, "7")
		require.NoError(t, err)
		assert.Equal(t, "sparkle-home", pro.Slug)
		assert.Nil(t, pro.Rating)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown ref is not found", func(t *testing.T) {
		client, mock := setupMockDB(t)
		adapter := database.NewProAdapter(client)

		mock.ExpectQuery(`FROM "pros" WHERE \("slug" = 'nobody'\)`).WillReturnRows(sqlmock.NewRows(proRowColumns))

		_, err := adapter.GetByRef(ctx, "nobody")
		assert.True(t, apperrors.IsNotFound(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("top rated puts unrated last", func(t *testing.T) {
		client, mock := setupMockDB(t)
		adapter := database.NewProAdapter(client)

		mock.ExpectQuery(`FROM "pros" ORDER BY "rating" DESC NULLS LAST, "id" ASC LIMIT 8`).
			WillReturnRows(proRow(sqlmock.NewRows(proRowColumns), 7, "sparkle-home", 4.8))
		expectProDetails(mock, 7)

		pros, err := adapter.ListTopRated(ctx, 8)
		require.NoError(t, err)
		assert.Len(t, pros, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty service list skips detail queries", func(t *testing.T) {
		client, mock := setupMockDB(t)
		adapter := database.NewProAdapter(client)

		mock.ExpectQuery(`FROM "pros" WHERE \("service_id" = 4\) ORDER BY "id" ASC`).
			WillReturnRows(sqlmock.NewRows(proRowColumns))

		pros, err := adapter.ListByService(ctx, 4)
		require.NoError(t, err)
		assert.Empty(t, pros)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("update rating", func(t *testing.T) {
		client, mock := setupMockDB(t)
		adapter := database.NewProAdapter(client)

		mock.ExpectExec(`UPDATE "pros" SET .*"rating"=4.75.*"reviews_count"=2.* WHERE \("id" = 7\)`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE "pros"`).WillReturnResult(sqlmock.NewResult(0, 0))

		require.NoError(t, adapter.UpdateRating(ctx, entities.RatingAggregate{ProID: 7, Count: 2, Average: 4.75}))
		err := adapter.UpdateRating(ctx, entities.RatingAggregate{ProID: 70, Count: 1, Average: 5})
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestQuoteAdapter(t *testing.T) {
	ctx := context.Background()
	client, mock := setupMockDB(t)
	adapter := database.NewQuoteAdapter(client)

	proID := int64(7)
	quote := &entities.Quote{
		ID:                 "q-1",
		ServiceID:          1,
		ProID:              &proID,
		Currency:           "MYR",
		EstimateLow:        80,
		EstimateHigh:       140,
		ExpiresAt:          stamp.Add(6 * time.Hour),
		SuggestedDateStart: stamp,
		SuggestedDateEnd:   stamp.Add(2 * time.Hour),
		Details:            map[string]any{"rooms": 3.0},
		CreatedAt:          stamp,
	}

	mock.ExpectExec(`INSERT INTO "quotes" .*'\{"rooms":3\}'`).WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, adapter.Create(ctx, quote))

	mock.ExpectQuery(`SELECT .* FROM "quotes" WHERE \("id" = 'q-1'\)`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "service_id", "pro_id", "currency", "estimate_low", "estimate_high",
			"expires_at", "suggested_date_start", "suggested_date_end", "details", "created_at",
		}).AddRow("q-1", 1, 7, "MYR", 80.0, 140.0, quote.ExpiresAt, stamp, quote.SuggestedDateEnd, []byte(`{"rooms":3}`), stamp))

	got, err := adapter.GetByID(ctx, "q-1")
	require.NoError(t, err)
	require.NotNil(t, got.ProID)
	assert.Equal(t, int64(7), *got.ProID)
	assert.Equal(t, map[string]any{"rooms": 3.0}, got.Details)
	assert.True(t, got.ExpiresAt.Equal(quote.ExpiresAt))

	mock.ExpectQuery(`FROM "quotes"`).WillReturnError(sql.ErrNoRows)
	_, err = adapter.GetByID(ctx, "gone")
	assert.True(t, apperrors.IsNotFound(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingAdapter(t *testing.T) {
	ctx := context.Background()

	t.Run("create and get round trip the address", func(t *testing.T) {
		client, mock := setupMockDB(t)
		adapter := database.NewBookingAdapter(client)

		mock.ExpectQuery(`INSERT INTO "bookings" .* RETURNING "id"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))

		booking := &entities.Booking{
			ProID:         7,
			ServiceID:     1,
			Start:         stamp,
			End:           stamp.Add(2 * time.Hour),
			Status:        entities.BookingStatusConfirmed,
			PriceEstimate: 110,
			Address:       entities.DefaultAddress,
			CreatedAt:     stamp,
			UpdatedAt:     stamp,
		}
		require.NoError(t, adapter.Create(ctx, booking))
		assert.Equal(t, int64(4), booking.ID)

		mock.ExpectQuery(`SELECT .* FROM "bookings" WHERE \("id" = 4\)`).
			WillReturnRows(sqlmock.NewRows(bookingRowColumns).AddRow(
				4, 7, 1, nil, "q-1", stamp, stamp.Add(2*time.Hour), "CONFIRMED", 110.0,
				`{"line1":"Residensi 22, Jalan Kiara","city":"Kuala Lumpur","postal_code":"50480","country":"MY"}`,
				"Ring twice", nil, nil, nil, stamp, stamp))

		got, err := adapter.GetByID(ctx, 4)
		require.NoError(t, err)
		assert.Equal(t, entities.BookingStatusConfirmed, got.Status.Normalize())
		assert.Equal(t, "Kuala Lumpur", got.Address.City)
		require.NotNil(t, got.QuoteID)
		assert.Equal(t, "q-1", *got.QuoteID)
		require.NotNil(t, got.Instructions)
		assert.Equal(t, "Ring twice", *got.Instructions)
		assert.Nil(t, got.UserID)
		assert.Nil(t, got.Rating)
		assert.Nil(t, got.CancellationReason)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("update of a missing booking is not found", func(t *testing.T) {
		client, mock := setupMockDB(t)
		adapter := database.NewBookingAdapter(client)

		mock.ExpectExec(`UPDATE "bookings" SET .* WHERE \("id" = 40\)`).WillReturnResult(sqlmock.NewResult(0, 0))

		err := adapter.Update(ctx, &entities.Booking{ID: 40, Status: entities.BookingStatusCancelled})
		assert.True(t, apperrors.IsNotFound(err))
		assert.Equal(t, "booking 40 not found", apperrors.Message(err))
	})

	t.Run("reviewable listing filters status and recency", func(t *testing.T) {
		client, mock := setupMockDB(t)
		adapter := database.NewBookingAdapter(client)

		mock.ExpectQuery(`FROM "bookings" WHERE \(\(LOWER\(status\) IN \('completed', 'rescheduled', 'cancelled', 'rated'\)\) AND \("updated_at" >= .*\)\) ORDER BY "updated_at" DESC, "id" DESC LIMIT 20`).
			WillReturnRows(sqlmock.NewRows(bookingRowColumns).AddRow(
				4, 7, 1, 12, nil, stamp, stamp.Add(2*time.Hour), "rated", 110.0, `{}`,
				nil, 4.5, "Great", "cancelled_via_chat", stamp, stamp))

		since := stamp.Add(-24 * time.Hour)
		bookings, err := adapter.List(ctx, repositories.BookingFilter{
			Statuses:     entities.ReviewableStatuses,
			UpdatedSince: &since,
			OrderBy:      repositories.BookingOrderUpdatedAtDesc,
			Limit:        20,
		})
		require.NoError(t, err)
		require.Len(t, bookings, 1)
		require.NotNil(t, bookings[0].Rating)
		assert.Equal(t, 4.5, *bookings[0].Rating)
		require.NotNil(t, bookings[0].UserID)
		assert.Equal(t, int64(12), *bookings[0].UserID)
		assert.Equal(t, "cancelled_via_chat", *bookings[0].CancellationReason)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("upcoming listing orders by start", func(t *testing.T) {
		client, mock := setupMockDB(t)
		adapter := database.NewBookingAdapter(client)

		mock.ExpectQuery(`FROM "bookings" ORDER BY "start_at" ASC, "id" ASC LIMIT 20`).
			WillReturnRows(sqlmock.NewRows(bookingRowColumns))

		bookings, err := adapter.List(ctx, repositories.BookingFilter{Limit: 20})
		require.NoError(t, err)
		assert.Empty(t, bookings)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReviewAdapter(t *testing.T) {
	ctx := context.Background()

	t.Run("second review for a booking is a conflict", func(t *testing.T) {
		client, mock := setupMockDB(t)
		adapter := database.NewReviewAdapter(client)

		mock.ExpectQuery(`INSERT INTO "reviews" .* RETURNING "id"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectQuery(`INSERT INTO "reviews"`).WillReturnError(&pq.Error{Code: "23505"})

		bookingID := int64(4)
		first := &entities.Review{ProID: 7, BookingID: &bookingID, Rating: 5, CreatedAt: stamp, UpdatedAt: stamp}
		require.NoError(t, adapter.Create(ctx, first))
		assert.Equal(t, int64(1), first.ID)

		err := adapter.Create(ctx, &entities.Review{ProID: 7, BookingID: &bookingID, Rating: 3})
		assert.True(t, apperrors.IsConflict(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("get by booking and update", func(t *testing.T) {
		client, mock := setupMockDB(t)
		adapter := database.NewReviewAdapter(client)

		mock.ExpectQuery(`FROM "reviews" WHERE \("booking_id" = 4\)`).
			WillReturnRows(sqlmock.NewRows(reviewRowColumns).AddRow(1, 7, 4, nil, 5.0, nil, stamp, stamp))
		mock.ExpectExec(`UPDATE "reviews" SET .* WHERE \("id" = 1\)`).WillReturnResult(sqlmock.NewResult(0, 1))

		review, err := adapter.GetByBooking(ctx, 4)
		require.NoError(t, err)
		assert.Nil(t, review.Review)

		text := "Spotless"
		review.Rating = 4
		review.Review = &text
		require.NoError(t, adapter.Update(ctx, review))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing booking review is not found", func(t *testing.T) {
		client, mock := setupMockDB(t)
		adapter := database.NewReviewAdapter(client)

		mock.ExpectQuery(`FROM "reviews"`).WillReturnRows(sqlmock.NewRows(reviewRowColumns))

		_, err := adapter.GetByBooking(ctx, 9)
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("list by pro newest first", func(t *testing.T) {
		client, mock := setupMockDB(t)
		adapter := database.NewReviewAdapter(client)

		mock.ExpectQuery(`FROM "reviews" WHERE \("pro_id" = 7\) ORDER BY "created_at" DESC, "id" DESC LIMIT 12`).
			WillReturnRows(sqlmock.NewRows(reviewRowColumns).
				AddRow(2, 7, 5, nil, 4.5, "Quick", stamp.Add(time.Hour), stamp.Add(time.Hour)).
				AddRow(1, 7, 4, nil, 5.0, nil, stamp, stamp))

		reviews, err := adapter.ListByPro(ctx, 7, 12)
		require.NoError(t, err)
		require.Len(t, reviews, 2)
		assert.Equal(t, "Quick", *reviews[0].Review)
		assert.Equal(t, int64(5), *reviews[0].BookingID)
	})

	t.Run("aggregate", func(t *testing.T) {
		client, mock := setupMockDB(t)
		adapter := database.NewReviewAdapter(client)

		mock.ExpectQuery(`SELECT COUNT\(\*\), COALESCE\(AVG\("rating"\), 0\) FROM "reviews" WHERE \("pro_id" = 7\)`).
			WillReturnRows(sqlmock.NewRows([]string{"count", "avg"}).AddRow(2, 4.75))

		aggregate, err := adapter.AggregateByPro(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, entities.RatingAggregate{ProID: 7, Count: 2, Average: 4.75}, aggregate)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
