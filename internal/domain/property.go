package domain

import (
	"math"
	"time"
)

// PropertyStatus represents the publication state of a listing.
type PropertyStatus string

const (
	PropertyStatusActive   PropertyStatus = "active"
	PropertyStatusSold     PropertyStatus = "sold"
	PropertyStatusInactive PropertyStatus = "inactive"
)

// Known property types. The column is free text so new types can be added
// without a migration; these cover the catalog filter options.
const (
	PropertyTypeCasa         = "Casa"
	PropertyTypeDepartamento = "Departamento"
	PropertyTypeOficina      = "Oficina"
	PropertyTypeTerreno      = "Terreno"
)

// ExchangeRatePENPerUSD is the fixed rate used to derive the stored USD
// price at write time. Queries never convert currency.
const ExchangeRatePENPerUSD = 3.76

// Property is a single listing row.
type Property struct {
	ID           int64          `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Location     string         `json:"location"`
	District     string         `json:"district"`
	PropertyType string         `json:"propertyType"`
	Price        float64        `json:"price"`
	PriceUSD     float64        `json:"priceUsd"`
	Bedrooms     int            `json:"bedrooms"`
	Bathrooms    int            `json:"bathrooms"`
	Area         float64        `json:"area"`
	ImageURL     string         `json:"imageUrl"`
	Featured     bool           `json:"featured"`
	Status       PropertyStatus `json:"status"`
	AgentID      *int64         `json:"agentId,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// USDPrice converts a PEN amount at the fixed rate, rounded to cents.
func USDPrice(pen float64) float64 {
	return math.Round(pen/ExchangeRatePENPerUSD*100) / 100
}

// PropertyStats backs the admin dashboard counters.
type PropertyStats struct {
	Total     int64 `json:"total"`
	Active    int64 `json:"active"`
	Featured  int64 `json:"featured"`
	Inquiries int64 `json:"inquiries"`
}
