package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vistahogar/listings/internal/backend"
	"github.com/vistahogar/listings/internal/domain"
)

type inquiryRepository struct {
	gate *backend.Gate
}

// NewInquiryRepository creates a new inquiry repository
func NewInquiryRepository(gate *backend.Gate) InquiryRepository {
	return &inquiryRepository{gate: gate}
}

func (r *inquiryRepository) pool(ctx context.Context) (*pgxpool.Pool, error) {
	client, err := r.gate.WaitForReady(ctx)
	if err != nil {
		return nil, err
	}
	return client.Pool, nil
}

// Create inserts a contact request submitted from a detail page.
func (r *inquiryRepository) Create(ctx context.Context, inquiry domain.Inquiry) (domain.Inquiry, error) {
	pool, err := r.pool(ctx)
	if err != nil {
		return domain.Inquiry{}, err
	}

	if inquiry.Status == "" {
		inquiry.Status = domain.InquiryStatusNew
	}

	row := pool.QueryRow(ctx,
		`INSERT INTO inquiries (property_id, name, email, phone, message, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, property_id, name, email, phone, message, status, created_at`,
		inquiry.PropertyID, inquiry.Name, inquiry.Email, inquiry.Phone,
		inquiry.Message, string(inquiry.Status))

	var created domain.Inquiry
	err = row.Scan(&created.ID, &created.PropertyID, &created.Name, &created.Email,
		&created.Phone, &created.Message, &created.Status, &created.CreatedAt)
	if err != nil {
		return domain.Inquiry{}, fmt.Errorf("create inquiry: %w", err)
	}
	return created, nil
}

// List returns inquiries newest first, each carrying the linked property
// summary for the admin back office.
func (r *inquiryRepository) List(ctx context.Context, filter domain.InquiryFilter) ([]domain.Inquiry, error) {
	pool, err := r.pool(ctx)
	if err != nil {
		return nil, err
	}

	conds := []string{}
	args := []any{}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conds = append(conds, fmt.Sprintf("i.status = $%d", len(args)))
	}
	if filter.PropertyID != nil {
		args = append(args, *filter.PropertyID)
		conds = append(conds, fmt.Sprintf("i.property_id = $%d", len(args)))
	}

	sql := `SELECT i.id, i.property_id, i.name, i.email, i.phone, i.message, i.status, i.created_at,
			p.title, p.price, p.location
		FROM inquiries i
		LEFT JOIN properties p ON p.id = i.property_id`
	if len(conds) > 0 {
		sql += " WHERE " + strings.Join(conds, " AND ")
	}
	sql += " ORDER BY i.created_at DESC"

	rows, err := pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list inquiries: %w", err)
	}
	defer rows.Close()

	inquiries := []domain.Inquiry{}
	for rows.Next() {
		var (
			inquiry  domain.Inquiry
			title    *string
			price    *float64
			location *string
		)
		err := rows.Scan(&inquiry.ID, &inquiry.PropertyID, &inquiry.Name, &inquiry.Email,
			&inquiry.Phone, &inquiry.Message, &inquiry.Status, &inquiry.CreatedAt,
			&title, &price, &location)
		if err != nil {
			return nil, fmt.Errorf("scan inquiry row: %w", err)
		}
		if title != nil {
			summary := domain.InquiryProperty{Title: *title, Location: ""}
			if price != nil {
				summary.Price = *price
			}
			if location != nil {
				summary.Location = *location
			}
			inquiry.Property = &summary
		}
		inquiries = append(inquiries, inquiry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inquiry rows: %w", err)
	}
	return inquiries, nil
}

// UpdateStatus moves an inquiry through the follow-up workflow.
func (r *inquiryRepository) UpdateStatus(ctx context.Context, id int64, status domain.InquiryStatus) error {
	pool, err := r.pool(ctx)
	if err != nil {
		return err
	}

	tag, err := pool.Exec(ctx,
		"UPDATE inquiries SET status = $2 WHERE id = $1", id, string(status))
	if err != nil {
		return fmt.Errorf("update inquiry %d status: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
