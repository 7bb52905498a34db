// Package api exposes the JSON surface of the listings server: the public
// catalog endpoints, the contact form, authentication, and the admin back
// office routes.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/vistahogar/listings/internal/auth"
	"github.com/vistahogar/listings/internal/backend"
	"github.com/vistahogar/listings/internal/catalog"
	"github.com/vistahogar/listings/internal/domain"
	"github.com/vistahogar/listings/internal/export"
	"github.com/vistahogar/listings/internal/repository"
	"github.com/vistahogar/listings/internal/storage"
)

type Handler struct {
	catalog    *catalog.Service
	properties repository.PropertyRepository
	inquiries  repository.InquiryRepository
	agents     repository.AgentRepository
	auth       *auth.Service
	export     *export.Service
	images     *storage.ImageStore
	gate       *backend.Gate
	log        *logrus.Logger
}

func NewHandler(
	catalogSvc *catalog.Service,
	properties repository.PropertyRepository,
	inquiries repository.InquiryRepository,
	agents repository.AgentRepository,
	authSvc *auth.Service,
	exportSvc *export.Service,
	images *storage.ImageStore,
	gate *backend.Gate,
	log *logrus.Logger,
) *Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Handler{
		catalog:    catalogSvc,
		properties: properties,
		inquiries:  inquiries,
		agents:     agents,
		auth:       authSvc,
		export:     exportSvc,
		images:     images,
		gate:       gate,
		log:        log,
	}
}

// Register attaches every API route to the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", h.handleHealth)

	mux.HandleFunc("GET /api/properties", h.handleSearch)
	mux.HandleFunc("GET /api/properties/featured", h.handleFeatured)
	mux.HandleFunc("GET /api/properties/{id}", h.handleGetProperty)
	mux.HandleFunc("GET /api/properties/{id}/similar", h.handleSimilar)
	mux.HandleFunc("GET /api/agents/{id}", h.handleGetAgent)

	mux.HandleFunc("GET /api/stats", h.handleStats)

	mux.HandleFunc("POST /api/inquiries", h.handleCreateInquiry)

	mux.HandleFunc("POST /api/auth/signup", h.handleSignUp)
	mux.HandleFunc("POST /api/auth/signin", h.handleSignIn)
	mux.HandleFunc("POST /api/auth/signout", h.handleSignOut)
	mux.HandleFunc("GET /api/auth/session", h.handleSession)
	mux.HandleFunc("POST /api/auth/reset", h.handleRequestReset)
	mux.HandleFunc("POST /api/auth/reset/confirm", h.handleConfirmReset)
	mux.HandleFunc("POST /api/auth/password", h.handleUpdatePassword)

	mux.HandleFunc("POST /api/admin/properties", h.requireAdmin(h.handleCreateProperty))
	mux.HandleFunc("PUT /api/admin/properties/{id}", h.requireAdmin(h.handleUpdateProperty))
	mux.HandleFunc("DELETE /api/admin/properties/{id}", h.requireAdmin(h.handleDeleteProperty))
	mux.HandleFunc("GET /api/admin/stats", h.requireAdmin(h.handleStats))
	mux.HandleFunc("GET /api/admin/inquiries", h.requireAdmin(h.handleListInquiries))
	mux.HandleFunc("PUT /api/admin/inquiries/{id}/status", h.requireAdmin(h.handleInquiryStatus))
	mux.HandleFunc("GET /api/admin/export", h.requireAdmin(h.handleExport))
	mux.HandleFunc("POST /api/admin/images", h.requireAdmin(h.handleUploadImage))
	mux.HandleFunc("DELETE /api/admin/images", h.requireAdmin(h.handleDeleteImage))
}

// requireAdmin rejects requests whose session does not carry the admin role.
func (h *Handler) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := auth.RequireAdmin(r.Context()); err != nil {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		next(w, r)
	}
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_, ready := h.gate.Handle()
	status := map[string]any{"status": "ok", "backendReady": ready}
	if !ready {
		status["status"] = "degraded"
	}
	writeJSON(w, http.StatusOK, status)
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, catalog.SingleResult{Success: false, Error: message})
}

func decodeBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

// filterFromQuery maps URL query parameters onto a raw filter request.
// Values stay strings here; normalization happens in the domain layer.
func filterFromQuery(r *http.Request) domain.FilterRequest {
	q := r.URL.Query()
	return domain.FilterRequest{
		PropertyType: q.Get("type"),
		District:     q.Get("district"),
		Bedrooms:     q.Get("bedrooms"),
		MinPrice:     q.Get("min_price"),
		MaxPrice:     q.Get("max_price"),
		MinArea:      q.Get("min_area"),
		Search:       q.Get("search"),
		Status:       q.Get("status"),
		SortBy:       q.Get("sort"),
		Limit:        q.Get("limit"),
		Offset:       q.Get("offset"),
	}
}
