package repository

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vistahogar/listings/internal/domain"
)

func normalize(t *testing.T, req domain.FilterRequest) domain.PropertyQuery {
	t.Helper()
	q, err := req.Normalize()
	require.NoError(t, err)
	return q
}

func whereClause(t *testing.T, sql string) string {
	t.Helper()
	idx := strings.Index(sql, " WHERE ")
	require.GreaterOrEqual(t, idx, 0, "query has no WHERE clause: %s", sql)
	rest := sql[idx+len(" WHERE "):]
	if order := strings.Index(rest, " ORDER BY "); order >= 0 {
		rest = rest[:order]
	}
	return rest
}

func TestBuildListQuery_TypeAndPriceRange(t *testing.T) {
	q := normalize(t, domain.FilterRequest{
		PropertyType: "Casa",
		MinPrice:     "100000",
		MaxPrice:     "300000",
		SortBy:       "price:asc",
	})

	sql, args := buildListQuery(q)

	assert.Equal(t,
		"status = $1 AND property_type = $2 AND price >= $3 AND price <= $4",
		whereClause(t, sql))
	assert.Contains(t, sql, "ORDER BY price ASC")
	assert.Contains(t, sql, "LIMIT $5")
	assert.NotContains(t, sql, "OFFSET")
	assert.Equal(t, []any{"active", "Casa", 100000.0, 300000.0, domain.DefaultListLimit}, args)
}

func TestBuildListQuery_FourPlusBedroomsSkipsDistrictSentinel(t *testing.T) {
	q := normalize(t, domain.FilterRequest{
		Bedrooms: "4+",
		District: "all",
	})

	sql, args := buildListQuery(q)

	assert.Equal(t, "status = $1 AND bedrooms >= $2", whereClause(t, sql))
	assert.NotContains(t, sql, "district =")
	assert.NotContains(t, sql, "bedrooms =")
	assert.Equal(t, []any{"active", 4, domain.DefaultListLimit}, args)
}

func TestBuildListQuery_SentinelsProduceNoPredicates(t *testing.T) {
	q := normalize(t, domain.FilterRequest{
		PropertyType: "all",
		District:     "all",
		Bedrooms:     "any",
	})

	sql, args := buildListQuery(q)

	assert.Equal(t, "status = $1", whereClause(t, sql))
	assert.Equal(t, []any{"active", domain.DefaultListLimit}, args)
}

func TestBuildListQuery_StatusAllDropsWhereClause(t *testing.T) {
	q := normalize(t, domain.FilterRequest{Status: "all"})

	sql, args := buildListQuery(q)

	assert.NotContains(t, sql, "WHERE")
	assert.Contains(t, sql, "ORDER BY created_at DESC")
	assert.Equal(t, []any{domain.DefaultListLimit}, args)
}

func TestBuildListQuery_SearchTextIsParameterized(t *testing.T) {
	q := normalize(t, domain.FilterRequest{Search: "miraflores'; --"})

	sql, args := buildListQuery(q)

	assert.Equal(t,
		"status = $1 AND (title ILIKE $2 OR location ILIKE $2 OR district ILIKE $2)",
		whereClause(t, sql))
	// The raw text rides in the bind parameter, never in the SQL string.
	assert.NotContains(t, sql, "miraflores")
	assert.Equal(t, "%miraflores'; --%", args[1])
}

func TestBuildListQuery_CompositionOrderIsFixed(t *testing.T) {
	q := normalize(t, domain.FilterRequest{
		PropertyType: "Departamento",
		District:     "Barranco",
		Bedrooms:     "2",
		MinPrice:     "50000",
		MaxPrice:     "90000",
		MinArea:      "60",
		Search:       "vista al mar",
		SortBy:       "area:desc",
		Limit:        "12",
		Offset:       "24",
	})

	sql, args := buildListQuery(q)

	assert.Equal(t,
		"status = $1 AND property_type = $2 AND district = $3 AND bedrooms = $4"+
			" AND price >= $5 AND price <= $6 AND area >= $7"+
			" AND (title ILIKE $8 OR location ILIKE $8 OR district ILIKE $8)",
		whereClause(t, sql))
	assert.Contains(t, sql, "ORDER BY area DESC")
	assert.Contains(t, sql, "LIMIT $9")
	assert.Contains(t, sql, "OFFSET $10")
	assert.Equal(t, []any{
		"active", "Departamento", "Barranco", 2,
		50000.0, 90000.0, 60.0,
		"%vista al mar%", 12, 24,
	}, args)
}

func TestBuildListQuery_DefaultOrderingIsNewestFirst(t *testing.T) {
	q := normalize(t, domain.FilterRequest{})
	sql, _ := buildListQuery(q)
	assert.Contains(t, sql, "ORDER BY created_at DESC")
}

func TestBuildListQuery_SameFilterSameShape(t *testing.T) {
	req := domain.FilterRequest{PropertyType: "Casa", MinPrice: "100"}
	first, firstArgs := buildListQuery(normalize(t, req))
	second, secondArgs := buildListQuery(normalize(t, req))
	assert.Equal(t, first, second)
	assert.Equal(t, firstArgs, secondArgs)
}
