package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/vistahogar/listings/internal/domain"
)

type inquiryPayload struct {
	PropertyID int64  `json:"propertyId"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Message    string `json:"message"`
}

func (h *Handler) handleCreateInquiry(w http.ResponseWriter, r *http.Request) {
	var payload inquiryPayload
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	if payload.PropertyID <= 0 {
		writeError(w, http.StatusBadRequest, "propertyId is required")
		return
	}
	if strings.TrimSpace(payload.Name) == "" || strings.TrimSpace(payload.Email) == "" {
		writeError(w, http.StatusBadRequest, "name and email are required")
		return
	}

	created, err := h.inquiries.Create(r.Context(), domain.Inquiry{
		PropertyID: payload.PropertyID,
		Name:       strings.TrimSpace(payload.Name),
		Email:      strings.TrimSpace(payload.Email),
		Phone:      strings.TrimSpace(payload.Phone),
		Message:    payload.Message,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": created})
}

func (h *Handler) handleListInquiries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.InquiryFilter{Status: domain.InquiryStatus(q.Get("status"))}
	if raw := q.Get("property_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			writeError(w, http.StatusBadRequest, "invalid property_id")
			return
		}
		filter.PropertyID = &id
	}

	inquiries, err := h.inquiries.List(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": inquiries})
}

type inquiryStatusPayload struct {
	Status string `json:"status"`
}

var validInquiryStatuses = map[domain.InquiryStatus]bool{
	domain.InquiryStatusNew:       true,
	domain.InquiryStatusContacted: true,
	domain.InquiryStatusClosed:    true,
}

func (h *Handler) handleInquiryStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid inquiry id")
		return
	}
	var payload inquiryStatusPayload
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	status := domain.InquiryStatus(payload.Status)
	if !validInquiryStatuses[status] {
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}
	if err := h.inquiries.UpdateStatus(r.Context(), id, status); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
