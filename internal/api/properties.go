package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/vistahogar/listings/internal/domain"
)

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	result := h.catalog.Search(r.Context(), filterFromQuery(r))
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleFeatured(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	result := h.catalog.Featured(r.Context(), limit)
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleGetProperty(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid property id")
		return
	}
	result := h.catalog.GetByID(r.Context(), id)
	status := http.StatusOK
	if !result.Success {
		status = http.StatusNotFound
	}
	writeJSON(w, status, result)
}

func (h *Handler) handleSimilar(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid property id")
		return
	}
	property, err := h.properties.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	result := h.catalog.Similar(r.Context(), id, property.PropertyType, property.District, limit)
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleGetAgent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid agent id")
		return
	}
	agent, err := h.agents.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": agent})
}

type propertyPayload struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Location     string  `json:"location"`
	District     string  `json:"district"`
	PropertyType string  `json:"propertyType"`
	Price        float64 `json:"price"`
	Bedrooms     int     `json:"bedrooms"`
	Bathrooms    int     `json:"bathrooms"`
	Area         float64 `json:"area"`
	ImageURL     string  `json:"imageUrl"`
	Featured     bool    `json:"featured"`
	Status       string  `json:"status"`
	AgentID      *int64  `json:"agentId"`
}

func (p propertyPayload) toDomain() domain.Property {
	return domain.Property{
		Title:        p.Title,
		Description:  p.Description,
		Location:     p.Location,
		District:     p.District,
		PropertyType: p.PropertyType,
		Price:        p.Price,
		Bedrooms:     p.Bedrooms,
		Bathrooms:    p.Bathrooms,
		Area:         p.Area,
		ImageURL:     p.ImageURL,
		Featured:     p.Featured,
		Status:       domain.PropertyStatus(p.Status),
		AgentID:      p.AgentID,
	}
}

func (p propertyPayload) validate() string {
	if p.Title == "" {
		return "title is required"
	}
	if p.PropertyType == "" {
		return "propertyType is required"
	}
	if p.Price < 0 {
		return "price must not be negative"
	}
	return ""
}

func (h *Handler) handleCreateProperty(w http.ResponseWriter, r *http.Request) {
	var payload propertyPayload
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	if msg := payload.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	created, err := h.properties.Create(r.Context(), payload.toDomain())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": created})
}

func (h *Handler) handleUpdateProperty(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid property id")
		return
	}
	var payload propertyPayload
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	if msg := payload.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	property := payload.toDomain()
	property.ID = id
	updated, err := h.properties.Update(r.Context(), property)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": updated})
}

func (h *Handler) handleDeleteProperty(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid property id")
		return
	}
	if err := h.properties.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.properties.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": stats})
}
