package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"doemais/internal/domain"
	"doemais/internal/service"
)

// ImageHandler serves stored image bytes.
type ImageHandler struct {
	images *service.ImageService
}

// NewImageHandler creates a new ImageHandler.
func NewImageHandler(images *service.ImageService) *ImageHandler {
	return &ImageHandler{images: images}
}

// HandleGet streams a stored image by its storage key.
// GET /images/{key...}
func (h *ImageHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	data, contentType, err := h.images.Get(r.Context(), key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Image not found.")
			return
		}
		slog.Error("get image", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
