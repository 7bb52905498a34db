package domain

import (
	"errors"
	"testing"
)

func TestNormalize_DefaultsStatusToActive(t *testing.T) {
	q, err := FilterRequest{}.Normalize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Status != PropertyStatusActive {
		t.Fatalf("expected default status %q, got %q", PropertyStatusActive, q.Status)
	}
}

func TestNormalize_CallerStatusOverridesDefault(t *testing.T) {
	q, err := FilterRequest{Status: "sold"}.Normalize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Status != PropertyStatusSold {
		t.Fatalf("expected status sold, got %q", q.Status)
	}
}

func TestNormalize_StatusAllLiftsConstraint(t *testing.T) {
	q, err := FilterRequest{Status: "all"}.Normalize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Status != "" {
		t.Fatalf("status \"all\" must lift the constraint, got %q", q.Status)
	}
}

func TestNormalize_StripsSentinels(t *testing.T) {
	q, err := FilterRequest{
		PropertyType: "all",
		District:     "All",
		Bedrooms:     "any",
	}.Normalize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.PropertyType != "" {
		t.Fatalf("propertyType sentinel must be stripped, got %q", q.PropertyType)
	}
	if q.District != "" {
		t.Fatalf("district sentinel must be stripped, got %q", q.District)
	}
	if q.BedroomsExact != nil || q.BedroomsMin != nil {
		t.Fatal("bedrooms sentinel must produce no predicate")
	}
}

func TestNormalize_FourPlusBedroomsBecomesMinimumBound(t *testing.T) {
	q, err := FilterRequest{Bedrooms: "4+"}.Normalize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.BedroomsExact != nil {
		t.Fatal("4+ must not produce an equality predicate")
	}
	if q.BedroomsMin == nil || *q.BedroomsMin != 4 {
		t.Fatalf("expected bedrooms >= 4, got %v", q.BedroomsMin)
	}
}

func TestNormalize_ExactBedrooms(t *testing.T) {
	q, err := FilterRequest{Bedrooms: "2"}.Normalize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.BedroomsExact == nil || *q.BedroomsExact != 2 {
		t.Fatalf("expected bedrooms == 2, got %v", q.BedroomsExact)
	}
	if q.BedroomsMin != nil {
		t.Fatal("exact bedrooms must not set a minimum bound")
	}
}

func TestNormalize_CoercesStringNumbers(t *testing.T) {
	q, err := FilterRequest{MinPrice: "100000", MaxPrice: "300000.50", MinArea: "85"}.Normalize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.MinPrice == nil || *q.MinPrice != 100000 {
		t.Fatalf("expected minPrice 100000, got %v", q.MinPrice)
	}
	if q.MaxPrice == nil || *q.MaxPrice != 300000.50 {
		t.Fatalf("expected maxPrice 300000.50, got %v", q.MaxPrice)
	}
	if q.MinArea == nil || *q.MinArea != 85 {
		t.Fatalf("expected minArea 85, got %v", q.MinArea)
	}
}

func TestNormalize_DropsMalformedNumbersSilently(t *testing.T) {
	cases := []string{"", "abc", "NaN", "-5", "0", "Inf"}
	for _, raw := range cases {
		q, err := FilterRequest{MinPrice: raw, MaxPrice: raw, MinArea: raw}.Normalize()
		if err != nil {
			t.Fatalf("malformed numerics must be dropped, not rejected (%q): %v", raw, err)
		}
		if q.MinPrice != nil || q.MaxPrice != nil || q.MinArea != nil {
			t.Fatalf("expected %q to be dropped, got min=%v max=%v area=%v", raw, q.MinPrice, q.MaxPrice, q.MinArea)
		}
	}
}

func TestNormalize_DefaultSortAndLimit(t *testing.T) {
	q, err := FilterRequest{}.Normalize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Sort.Field != PropertySortFieldCreatedAt || q.Sort.Direction != SortDirectionDesc {
		t.Fatalf("expected created_at desc default, got %+v", q.Sort)
	}
	if q.Limit != DefaultListLimit {
		t.Fatalf("expected default limit %d, got %d", DefaultListLimit, q.Limit)
	}
	if q.Offset != nil {
		t.Fatalf("expected no offset, got %v", q.Offset)
	}
}

func TestNormalize_OffsetRequiresExplicitLimit(t *testing.T) {
	_, err := FilterRequest{Offset: "20"}.Normalize()
	if !errors.Is(err, ErrInvalidFilter) {
		t.Fatalf("expected ErrInvalidFilter, got %v", err)
	}

	q, err := FilterRequest{Limit: "10", Offset: "20"}.Normalize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Offset == nil || *q.Offset != 20 || q.Limit != 10 {
		t.Fatalf("expected limit=10 offset=20, got limit=%d offset=%v", q.Limit, q.Offset)
	}
}

func TestNormalize_NegativeOffsetRejected(t *testing.T) {
	_, err := FilterRequest{Limit: "10", Offset: "-1"}.Normalize()
	if !errors.Is(err, ErrInvalidFilter) {
		t.Fatalf("expected ErrInvalidFilter, got %v", err)
	}
}

func TestNormalize_TrimsSearchText(t *testing.T) {
	q, err := FilterRequest{Search: "  miraflores  "}.Normalize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Search != "miraflores" {
		t.Fatalf("expected trimmed search text, got %q", q.Search)
	}
}
