package repository

import (
	"fmt"
	"strings"

	"github.com/vistahogar/listings/internal/domain"
)

const propertyColumns = "id, title, description, location, district, property_type, " +
	"price, price_usd, bedrooms, bathrooms, area, image_url, featured, status, " +
	"agent_id, created_at, updated_at"

// buildListQuery composes the catalog query from a normalized filter.
//
// Predicates are appended in a fixed order (status, equality, ranges, text
// search, ordering, pagination) so the generated SQL is deterministic for a
// given filter. Every value is bound as a parameter; the only interpolated
// pieces are the whitelisted sort column and direction.
func buildListQuery(q domain.PropertyQuery) (string, []any) {
	var (
		conds []string
		args  []any
	)
	bind := func(cond string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if q.Status != "" {
		bind("status = $%d", string(q.Status))
	}

	if q.PropertyType != "" {
		bind("property_type = $%d", q.PropertyType)
	}
	if q.District != "" {
		bind("district = $%d", q.District)
	}
	if q.BedroomsExact != nil {
		bind("bedrooms = $%d", *q.BedroomsExact)
	}
	if q.BedroomsMin != nil {
		bind("bedrooms >= $%d", *q.BedroomsMin)
	}

	if q.MinPrice != nil {
		bind("price >= $%d", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		bind("price <= $%d", *q.MaxPrice)
	}
	if q.MinArea != nil {
		bind("area >= $%d", *q.MinArea)
	}

	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(title ILIKE $%d OR location ILIKE $%d OR district ILIKE $%d)", n, n, n))
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(propertyColumns)
	sb.WriteString(" FROM properties")
	if len(conds) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conds, " AND "))
	}
	sb.WriteString(" ORDER BY ")
	sb.WriteString(orderClause(q.Sort))

	args = append(args, q.Limit)
	sb.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))

	if q.Offset != nil {
		args = append(args, *q.Offset)
		sb.WriteString(fmt.Sprintf(" OFFSET $%d", len(args)))
	}

	return sb.String(), args
}

// orderClause renders a whitelisted sort. The field set is closed in
// domain.ParseSortKey, so interpolation here cannot carry caller input.
func orderClause(sort domain.PropertySort) string {
	direction := "ASC"
	if sort.Direction == domain.SortDirectionDesc {
		direction = "DESC"
	}
	return string(sort.Field) + " " + direction
}
