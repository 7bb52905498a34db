package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/vistahogar/listings/internal/storage"
)

const maxImageUpload = 10 << 20 // 10 MiB

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	req := filterFromQuery(r)

	filename := fmt.Sprintf("propiedades-%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := h.export.WriteXLSX(r.Context(), req, w); err != nil {
		// Headers may already be out; log instead of rewriting the response.
		h.log.WithError(err).Error("xlsx export failed")
	}
}

func (h *Handler) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImageUpload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart payload: "+err.Error())
		return
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "image field is required")
		return
	}
	defer file.Close()

	folder := r.FormValue("folder")
	if folder == "" {
		folder = "properties"
	}

	storedPath, publicURL, err := h.images.Upload(folder, file)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedImage) {
			writeError(w, http.StatusUnsupportedMediaType, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"data":    map[string]string{"path": storedPath, "url": publicURL},
	})
}

type deleteImagePayload struct {
	Path string `json:"path"`
}

func (h *Handler) handleDeleteImage(w http.ResponseWriter, r *http.Request) {
	var payload deleteImagePayload
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	if payload.Path == "" {
		writeError(w, http.StatusBadRequest, "path is required")
		return
	}
	if err := h.images.Delete(payload.Path); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
