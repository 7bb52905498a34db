package domain

import (
	"math"
	"strconv"
	"strings"
)

// Sentinel values meaning "no constraint". They are distinct from absence:
// the catalog UI submits them for untouched dropdowns.
const (
	FilterSentinelAll = "all"
	FilterSentinelAny = "any"
)

// BedroomsFourPlus is the catalog token for "4 or more bedrooms". It maps
// to a minimum-bound predicate instead of equality.
const BedroomsFourPlus = "4+"

// DefaultListLimit bounds catalog queries when the caller supplies no
// explicit limit.
const DefaultListLimit = 10

// FilterRequest carries raw, caller-supplied search parameters. Values
// arrive as strings (query parameters, form fields); Normalize coerces and
// validates them. A FilterRequest is never persisted.
type FilterRequest struct {
	PropertyType string
	District     string
	Bedrooms     string
	MinPrice     string
	MaxPrice     string
	MinArea      string
	Search       string
	Status       string
	SortBy       string
	Limit        string
	Offset       string
}

// PropertyQuery is the normalized form of a FilterRequest: sentinels are
// stripped, numeric fields are coerced, and defaults are applied. Pointer
// fields are nil when the corresponding predicate must be omitted.
type PropertyQuery struct {
	Status        PropertyStatus
	PropertyType  string
	District      string
	BedroomsExact *int
	BedroomsMin   *int
	MinPrice      *float64
	MaxPrice      *float64
	MinArea       *float64
	Search        string
	Sort          PropertySort
	Limit         int
	Offset        *int
}

// Normalize turns a raw request into a PropertyQuery.
//
// Malformed numeric inputs are dropped silently rather than rejected,
// matching the catalog's established behavior. The one validation error is
// an offset supplied without an explicit limit, since the range request
// needs both bounds.
func (f FilterRequest) Normalize() (PropertyQuery, error) {
	q := PropertyQuery{
		Status: PropertyStatusActive,
		Sort:   ParseSortKey(f.SortBy),
		Limit:  DefaultListLimit,
		Search: strings.TrimSpace(f.Search),
	}

	if status := strings.TrimSpace(f.Status); status != "" {
		if strings.EqualFold(status, FilterSentinelAll) {
			// "all" lifts the status constraint entirely.
			q.Status = ""
		} else {
			q.Status = PropertyStatus(status)
		}
	}

	if v := dropSentinel(f.PropertyType, FilterSentinelAll); v != "" {
		q.PropertyType = v
	}
	if v := dropSentinel(f.District, FilterSentinelAll); v != "" {
		q.District = v
	}

	if v := dropSentinel(f.Bedrooms, FilterSentinelAny); v != "" {
		if v == BedroomsFourPlus {
			minBedrooms := 4
			q.BedroomsMin = &minBedrooms
		} else if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			q.BedroomsExact = &n
		}
	}

	q.MinPrice = parsePositiveNumber(f.MinPrice)
	q.MaxPrice = parsePositiveNumber(f.MaxPrice)
	q.MinArea = parsePositiveNumber(f.MinArea)

	limitSet := false
	if v := strings.TrimSpace(f.Limit); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			q.Limit = n
			limitSet = true
		}
	}

	if v := strings.TrimSpace(f.Offset); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return PropertyQuery{}, ErrInvalidFilter
		}
		if !limitSet {
			return PropertyQuery{}, ErrInvalidFilter
		}
		q.Offset = &n
	}

	return q, nil
}

func dropSentinel(value, sentinel string) string {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, sentinel) {
		return ""
	}
	return value
}

// parsePositiveNumber coerces a string number, treating absent, zero,
// negative and non-numeric values as "not set".
func parsePositiveNumber(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) || n <= 0 {
		return nil
	}
	return &n
}
