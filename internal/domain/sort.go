package domain

import "strings"

// SortDirection represents ordering direction for sortable fields.
type SortDirection string

const (
	SortDirectionAsc  SortDirection = "asc"
	SortDirectionDesc SortDirection = "desc"
)

// PropertySortField enumerates columns listings can be ordered by.
type PropertySortField string

const (
	PropertySortFieldCreatedAt PropertySortField = "created_at"
	PropertySortFieldUpdatedAt PropertySortField = "updated_at"
	PropertySortFieldPrice     PropertySortField = "price"
	PropertySortFieldArea      PropertySortField = "area"
	PropertySortFieldBedrooms  PropertySortField = "bedrooms"
	PropertySortFieldTitle     PropertySortField = "title"
)

// PropertySort captures a single field + direction ordering.
type PropertySort struct {
	Field     PropertySortField
	Direction SortDirection
}

// DefaultPropertySort is newest-first, applied whenever the caller supplies
// no sort key or an unrecognized one.
func DefaultPropertySort() PropertySort {
	return PropertySort{Field: PropertySortFieldCreatedAt, Direction: SortDirectionDesc}
}

var sortableFields = map[PropertySortField]struct{}{
	PropertySortFieldCreatedAt: {},
	PropertySortFieldUpdatedAt: {},
	PropertySortFieldPrice:     {},
	PropertySortFieldArea:      {},
	PropertySortFieldBedrooms:  {},
	PropertySortFieldTitle:     {},
}

// ParseSortKey maps a "field:direction" key onto a whitelisted ordering.
// Unknown fields and malformed keys fall back to the default ordering so a
// bad query parameter never reaches the SQL layer.
func ParseSortKey(key string) PropertySort {
	key = strings.TrimSpace(key)
	if key == "" {
		return DefaultPropertySort()
	}

	field := key
	direction := SortDirectionAsc
	if idx := strings.IndexByte(key, ':'); idx >= 0 {
		field = key[:idx]
		switch strings.ToLower(strings.TrimSpace(key[idx+1:])) {
		case "desc":
			direction = SortDirectionDesc
		case "asc", "":
			direction = SortDirectionAsc
		default:
			return DefaultPropertySort()
		}
	}

	sortField := PropertySortField(strings.ToLower(strings.TrimSpace(field)))
	if _, ok := sortableFields[sortField]; !ok {
		return DefaultPropertySort()
	}
	return PropertySort{Field: sortField, Direction: direction}
}
