package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/lib/pq"
	"github.com/zatekoja/homeflow/internal/domain/entities"
	"github.com/zatekoja/homeflow/internal/domain/repositories"
	"github.com/zatekoja/homeflow/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/homeflow/pkg/errors"
)

var serviceColumns = []any{
	"id", "slug", "title", "description", "default_price_low", "default_price_high",
	"default_working_days", "default_radius_km", "created_at", "updated_at",
}

// ServiceAdapter implements the ServiceRepository interface
type ServiceAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewServiceAdapter creates a new service adapter
func NewServiceAdapter(client *postgres.Client) repositories.ServiceRepository {
	return &ServiceAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a service and assigns its ID
func (a *ServiceAdapter) Create(ctx context.Context, service *entities.Service) error {
	record := goqu.Record{
		"slug":                 string(service.Slug),
		"title":                service.Title,
		"description":          service.Description,
		"default_price_low":    service.DefaultPriceLow,
		"default_price_high":   service.DefaultPriceHigh,
		"default_working_days": toInt64s(service.DefaultWorkingDays),
		"default_radius_km":    service.DefaultRadiusKm,
		"created_at":           service.CreatedAt,
		"updated_at":           service.UpdatedAt,
	}

	query, args, err := a.db.Insert("services").Rows(record).Returning("id").ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&service.ID); err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError(fmt.Sprintf("service %s already exists", service.Slug), err)
		}
		return apperrors.NewInternalError("failed to create service", err)
	}
	return nil
}

// GetBySlug retrieves a service by slug
func (a *ServiceAdapter) GetBySlug(ctx context.Context, slug entities.ServiceSlug) (*entities.Service, error) {
	service, err := a.getOne(ctx, goqu.Ex{"slug": string(slug)})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("service %s not found", slug))
	}
	return service, err
}

// GetByID retrieves a service by ID
func (a *ServiceAdapter) GetByID(ctx context.Context, id int64) (*entities.Service, error) {
	service, err := a.getOne(ctx, goqu.Ex{"id": id})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("service %d not found", id))
	}
	return service, err
}

// List retrieves every service ordered by ID
func (a *ServiceAdapter) List(ctx context.Context) ([]*entities.Service, error) {
	query, args, err := a.db.Select(serviceColumns...).From("services").Order(goqu.I("id").Asc()).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list services", err)
	}
	defer rows.Close()

	var services []*entities.Service
	for rows.Next() {
		service, err := scanService(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan service", err)
		}
		services = append(services, service)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to list services", err)
	}
	return services, nil
}

// getOne returns sql.ErrNoRows unwrapped so callers can phrase the not-found message
func (a *ServiceAdapter) getOne(ctx context.Context, where goqu.Ex) (*entities.Service, error) {
	query, args, err := a.db.Select(serviceColumns...).From("services").Where(where).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	service, err := scanService(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get service", err)
	}
	return service, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanService(row scanner) (*entities.Service, error) {
	service := &entities.Service{}
	var days pq.Int64Array
	err := row.Scan(
		&service.ID,
		&service.Slug,
		&service.Title,
		&service.Description,
		&service.DefaultPriceLow,
		&service.DefaultPriceHigh,
		&days,
		&service.DefaultRadiusKm,
		&service.CreatedAt,
		&service.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	service.DefaultWorkingDays = toInts(days)
	return service, nil
}

var proColumns = []any{
	"id", "slug", "service_id", "name", "image", "image_alt", "rating", "reviews_count",
	"price_from", "currency", "latitude", "longitude", "service_radius_km", "working_days",
	"base_quote_low", "base_quote_high", "created_at", "updated_at",
}

// ProAdapter implements the ProRepository interface. Time windows, badges
// and extras live in child tables and are loaded with every pro.
type ProAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewProAdapter creates a new pro adapter
func NewProAdapter(client *postgres.Client) repositories.ProRepository {
	return &ProAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a pro and its child rows in one transaction
func (a *ProAdapter) Create(ctx context.Context, pro *entities.Pro) error {
	tx, err := a.client.BeginTx(ctx)
	if err != nil {
		return apperrors.NewInternalError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	record := goqu.Record{
		"slug":              pro.Slug,
		"service_id":        pro.ServiceID,
		"name":              pro.Name,
		"image":             pro.Image,
		"image_alt":         pro.ImageAlt,
		"rating":            pro.Rating,
		"reviews_count":     pro.ReviewsCount,
		"price_from":        pro.PriceFrom,
		"currency":          pro.Currency,
		"latitude":          pro.Latitude,
		"longitude":         pro.Longitude,
		"service_radius_km": pro.ServiceRadiusKm,
		"working_days":      toInt64s(pro.WorkingDays),
		"base_quote_low":    pro.BaseQuoteLow,
		"base_quote_high":   pro.BaseQuoteHigh,
		"created_at":        pro.CreatedAt,
		"updated_at":        pro.UpdatedAt,
	}
	query, args, err := a.db.Insert("pros").Rows(record).Returning("id").ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&pro.ID); err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError(fmt.Sprintf("pro %s already exists", pro.Slug), err)
		}
		return apperrors.NewInternalError("failed to create pro", err)
	}

	var inserts []*goqu.InsertDataset
	if len(pro.TimeWindows) > 0 {
		rows := make([]any, 0, len(pro.TimeWindows))
		for i, w := range pro.TimeWindows {
			rows = append(rows, goqu.Record{"pro_id": pro.ID, "position": i, "start_time": w.Start, "end_time": w.End})
		}
		inserts = append(inserts, a.db.Insert("pro_time_windows").Rows(rows...))
	}
	if len(pro.Badges) > 0 {
		rows := make([]any, 0, len(pro.Badges))
		for i, label := range pro.Badges {
			rows = append(rows, goqu.Record{"pro_id": pro.ID, "position": i, "label": label})
		}
		inserts = append(inserts, a.db.Insert("pro_badges").Rows(rows...))
	}
	if len(pro.Extras) > 0 {
		rows := make([]any, 0, len(pro.Extras))
		for _, extra := range pro.Extras {
			rows = append(rows, goqu.Record{"pro_id": pro.ID, "name": extra.Name, "price": extra.Price})
		}
		inserts = append(inserts, a.db.Insert("pro_extras").Rows(rows...))
	}

	for _, ds := range inserts {
		query, args, err := ds.ToSQL()
		if err != nil {
			return apperrors.NewInternalError("failed to build insert query", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return apperrors.NewInternalError("failed to create pro details", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewInternalError("failed to commit pro", err)
	}
	return nil
}

// GetByRef retrieves a pro by slug, falling back to a numeric ID
func (a *ProAdapter) GetByRef(ctx context.Context, ref string) (*entities.Pro, error) {
	pros, err := a.list(ctx, goqu.Ex{"slug": ref}, nil, 1)
	if err != nil {
		return nil, err
	}
	if len(pros) == 0 {
		if id, parseErr := strconv.ParseInt(ref, 10, 64); parseErr == nil {
			pros, err = a.list(ctx, goqu.Ex{"id": id}, nil, 1)
			if err != nil {
				return nil, err
			}
		}
	}
	if len(pros) == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("pro %q not found", ref))
	}
	return pros[0], nil
}

// GetByID retrieves a pro by ID
func (a *ProAdapter) GetByID(ctx context.Context, id int64) (*entities.Pro, error) {
	pros, err := a.list(ctx, goqu.Ex{"id": id}, nil, 1)
	if err != nil {
		return nil, err
	}
	if len(pros) == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("pro %d not found", id))
	}
	return pros[0], nil
}

// ListByService retrieves the pros of a service ordered by ID
func (a *ProAdapter) ListByService(ctx context.Context, serviceID int64) ([]*entities.Pro, error) {
	return a.list(ctx, goqu.Ex{"service_id": serviceID}, []exp.OrderedExpression{goqu.I("id").Asc()}, 0)
}

// ListTopRated retrieves pros by rating descending; unrated pros come last
func (a *ProAdapter) ListTopRated(ctx context.Context, limit int) ([]*entities.Pro, error) {
	order := []exp.OrderedExpression{goqu.I("rating").Desc().NullsLast(), goqu.I("id").Asc()}
	return a.list(ctx, nil, order, limit)
}

// UpdateRating stores a recomputed aggregate
func (a *ProAdapter) UpdateRating(ctx context.Context, aggregate entities.RatingAggregate) error {
	query, args, err := a.db.Update("pros").
		Set(goqu.Record{
			"rating":        aggregate.Average,
			"reviews_count": aggregate.Count,
			"updated_at":    time.Now(),
		}).
		Where(goqu.Ex{"id": aggregate.ProID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update pro rating", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("pro %d not found", aggregate.ProID))
	}
	return nil
}

func (a *ProAdapter) list(ctx context.Context, where goqu.Ex, order []exp.OrderedExpression, limit int) ([]*entities.Pro, error) {
	ds := a.db.Select(proColumns...).From("pros")
	if where != nil {
		ds = ds.Where(where)
	}
	if len(order) > 0 {
		ds = ds.Order(order...)
	}
	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list pros", err)
	}
	defer rows.Close()

	var pros []*entities.Pro
	for rows.Next() {
		pro, err := scanPro(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan pro", err)
		}
		pros = append(pros, pro)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to list pros", err)
	}

	if err := a.loadDetails(ctx, pros); err != nil {
		return nil, err
	}
	return pros, nil
}

// loadDetails fills time windows, badges and extras for pros
func (a *ProAdapter) loadDetails(ctx context.Context, pros []*entities.Pro) error {
	if len(pros) == 0 {
		return nil
	}
	byID := make(map[int64]*entities.Pro, len(pros))
	ids := make([]int64, 0, len(pros))
	for _, pro := range pros {
		pro.TimeWindows = []entities.TimeWindow{}
		pro.Badges = []string{}
		pro.Extras = []entities.Extra{}
		byID[pro.ID] = pro
		ids = append(ids, pro.ID)
	}

	err := a.eachRow(ctx,
		a.db.Select("pro_id", "start_time", "end_time").From("pro_time_windows").
			Where(goqu.Ex{"pro_id": ids}).Order(goqu.I("pro_id").Asc(), goqu.I("position").Asc()),
		func(row scanner) error {
			var proID int64
			var w entities.TimeWindow
			if err := row.Scan(&proID, &w.Start, &w.End); err != nil {
				return err
			}
			byID[proID].TimeWindows = append(byID[proID].TimeWindows, w)
			return nil
		})
	if err != nil {
		return err
	}

	err = a.eachRow(ctx,
		a.db.Select("pro_id", "label").From("pro_badges").
			Where(goqu.Ex{"pro_id": ids}).Order(goqu.I("pro_id").Asc(), goqu.I("position").Asc()),
		func(row scanner) error {
			var proID int64
			var label string
			if err := row.Scan(&proID, &label); err != nil {
				return err
			}
			byID[proID].Badges = append(byID[proID].Badges, label)
			return nil
		})
	if err != nil {
		return err
	}

	return a.eachRow(ctx,
		a.db.Select("pro_id", "name", "price").From("pro_extras").
			Where(goqu.Ex{"pro_id": ids}).Order(goqu.I("pro_id").Asc(), goqu.I("name").Asc()),
		func(row scanner) error {
			var proID int64
			var extra entities.Extra
			if err := row.Scan(&proID, &extra.Name, &extra.Price); err != nil {
				return err
			}
			byID[proID].Extras = append(byID[proID].Extras, extra)
			return nil
		})
}

func (a *ProAdapter) eachRow(ctx context.Context, ds *goqu.SelectDataset, fn func(scanner) error) error {
	query, args, err := ds.ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build query", err)
	}
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to load pro details", err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := fn(rows); err != nil {
			return apperrors.NewInternalError("failed to scan pro details", err)
		}
	}
	if err := rows.Err(); err != nil {
		return apperrors.NewInternalError("failed to load pro details", err)
	}
	return nil
}

func scanPro(row scanner) (*entities.Pro, error) {
	pro := &entities.Pro{}
	var rating, priceFrom sql.NullFloat64
	var days pq.Int64Array
	err := row.Scan(
		&pro.ID,
		&pro.Slug,
		&pro.ServiceID,
		&pro.Name,
		&pro.Image,
		&pro.ImageAlt,
		&rating,
		&pro.ReviewsCount,
		&priceFrom,
		&pro.Currency,
		&pro.Latitude,
		&pro.Longitude,
		&pro.ServiceRadiusKm,
		&days,
		&pro.BaseQuoteLow,
		&pro.BaseQuoteHigh,
		&pro.CreatedAt,
		&pro.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if rating.Valid {
		pro.Rating = &rating.Float64
	}
	if priceFrom.Valid {
		pro.PriceFrom = &priceFrom.Float64
	}
	pro.WorkingDays = toInts(days)
	return pro, nil
}
