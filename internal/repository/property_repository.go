package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vistahogar/listings/internal/backend"
	"github.com/vistahogar/listings/internal/domain"
)

// propertyRepository implements PropertyRepository over the gated pool.
type propertyRepository struct {
	gate *backend.Gate
}

// NewPropertyRepository creates a new property repository. Every operation
// awaits the readiness gate before touching the pool, so callers can issue
// queries while the backend is still initializing.
func NewPropertyRepository(gate *backend.Gate) PropertyRepository {
	return &propertyRepository{gate: gate}
}

func (r *propertyRepository) pool(ctx context.Context) (*pgxpool.Pool, error) {
	client, err := r.gate.WaitForReady(ctx)
	if err != nil {
		return nil, err
	}
	return client.Pool, nil
}

// List executes a normalized catalog query. The query shape is composed
// before the round trip, so later mutation of the filter cannot affect an
// in-flight request.
func (r *propertyRepository) List(ctx context.Context, query domain.PropertyQuery) ([]domain.Property, error) {
	sql, args := buildListQuery(query)

	pool, err := r.pool(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	defer rows.Close()

	return scanProperties(rows)
}

// GetByID retrieves a single listing by primary key.
func (r *propertyRepository) GetByID(ctx context.Context, id int64) (domain.Property, error) {
	pool, err := r.pool(ctx)
	if err != nil {
		return domain.Property{}, err
	}

	row := pool.QueryRow(ctx,
		"SELECT "+propertyColumns+" FROM properties WHERE id = $1", id)
	property, err := scanProperty(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Property{}, domain.ErrNotFound
		}
		return domain.Property{}, fmt.Errorf("get property %d: %w", id, err)
	}
	return property, nil
}

// Featured returns active, featured listings, newest first.
func (r *propertyRepository) Featured(ctx context.Context, limit int) ([]domain.Property, error) {
	if limit <= 0 {
		limit = 6
	}

	pool, err := r.pool(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := pool.Query(ctx,
		"SELECT "+propertyColumns+" FROM properties"+
			" WHERE featured = TRUE AND status = $1 ORDER BY created_at DESC LIMIT $2",
		string(domain.PropertyStatusActive), limit)
	if err != nil {
		return nil, fmt.Errorf("list featured properties: %w", err)
	}
	defer rows.Close()

	return scanProperties(rows)
}

// Similar returns active listings related by type or district, always
// excluding the given id.
func (r *propertyRepository) Similar(ctx context.Context, excludeID int64, propertyType, district string, limit int) ([]domain.Property, error) {
	if limit <= 0 {
		limit = 3
	}

	pool, err := r.pool(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := pool.Query(ctx,
		"SELECT "+propertyColumns+" FROM properties"+
			" WHERE status = $1 AND id <> $2 AND (property_type = $3 OR district = $4)"+
			" ORDER BY created_at DESC LIMIT $5",
		string(domain.PropertyStatusActive), excludeID, propertyType, district, limit)
	if err != nil {
		return nil, fmt.Errorf("list similar properties: %w", err)
	}
	defer rows.Close()

	return scanProperties(rows)
}

// Create inserts a listing. The USD price is derived here, at write time,
// from the fixed exchange rate; queries never convert.
func (r *propertyRepository) Create(ctx context.Context, property domain.Property) (domain.Property, error) {
	pool, err := r.pool(ctx)
	if err != nil {
		return domain.Property{}, err
	}

	if property.Status == "" {
		property.Status = domain.PropertyStatusActive
	}
	property.PriceUSD = domain.USDPrice(property.Price)

	row := pool.QueryRow(ctx,
		`INSERT INTO properties
			(title, description, location, district, property_type, price, price_usd,
			 bedrooms, bathrooms, area, image_url, featured, status, agent_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 RETURNING `+propertyColumns,
		property.Title, property.Description, property.Location, property.District,
		property.PropertyType, property.Price, property.PriceUSD,
		property.Bedrooms, property.Bathrooms, property.Area,
		property.ImageURL, property.Featured, string(property.Status), property.AgentID)

	created, err := scanProperty(row)
	if err != nil {
		return domain.Property{}, fmt.Errorf("create property: %w", err)
	}
	return created, nil
}

// Update rewrites a listing and bumps updated_at. Concurrent editors are
// last-write-wins; no version token is checked.
func (r *propertyRepository) Update(ctx context.Context, property domain.Property) (domain.Property, error) {
	pool, err := r.pool(ctx)
	if err != nil {
		return domain.Property{}, err
	}

	property.PriceUSD = domain.USDPrice(property.Price)

	row := pool.QueryRow(ctx,
		`UPDATE properties SET
			title = $2, description = $3, location = $4, district = $5,
			property_type = $6, price = $7, price_usd = $8, bedrooms = $9,
			bathrooms = $10, area = $11, image_url = $12, featured = $13,
			status = $14, agent_id = $15, updated_at = now()
		 WHERE id = $1
		 RETURNING `+propertyColumns,
		property.ID,
		property.Title, property.Description, property.Location, property.District,
		property.PropertyType, property.Price, property.PriceUSD,
		property.Bedrooms, property.Bathrooms, property.Area,
		property.ImageURL, property.Featured, string(property.Status), property.AgentID)

	updated, err := scanProperty(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Property{}, domain.ErrNotFound
		}
		return domain.Property{}, fmt.Errorf("update property %d: %w", property.ID, err)
	}
	return updated, nil
}

// Delete removes a listing by primary key.
func (r *propertyRepository) Delete(ctx context.Context, id int64) error {
	pool, err := r.pool(ctx)
	if err != nil {
		return err
	}

	tag, err := pool.Exec(ctx, "DELETE FROM properties WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete property %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Stats returns the dashboard counters in a single round trip.
func (r *propertyRepository) Stats(ctx context.Context) (domain.PropertyStats, error) {
	pool, err := r.pool(ctx)
	if err != nil {
		return domain.PropertyStats{}, err
	}

	var stats domain.PropertyStats
	err = pool.QueryRow(ctx,
		`SELECT
			(SELECT count(*) FROM properties),
			(SELECT count(*) FROM properties WHERE status = $1),
			(SELECT count(*) FROM properties WHERE featured = TRUE),
			(SELECT count(*) FROM inquiries)`,
		string(domain.PropertyStatusActive)).
		Scan(&stats.Total, &stats.Active, &stats.Featured, &stats.Inquiries)
	if err != nil {
		return domain.PropertyStats{}, fmt.Errorf("load property stats: %w", err)
	}
	return stats, nil
}

func scanProperty(row pgx.Row) (domain.Property, error) {
	var p domain.Property
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.Location, &p.District, &p.PropertyType,
		&p.Price, &p.PriceUSD, &p.Bedrooms, &p.Bathrooms, &p.Area,
		&p.ImageURL, &p.Featured, &p.Status, &p.AgentID, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func scanProperties(rows pgx.Rows) ([]domain.Property, error) {
	properties := []domain.Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("scan property row: %w", err)
		}
		properties = append(properties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate property rows: %w", err)
	}
	return properties, nil
}
