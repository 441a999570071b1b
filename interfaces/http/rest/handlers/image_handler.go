package handlers

import (
	"errors"
	"net/http"

	"reach-backend/application/services"
	"reach-backend/pkg/common"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ImageHandler serves the /api/imgs routes: one fixed-name profile image
// per researcher.
type ImageHandler struct {
	service *services.ImageService
	logger  *zap.Logger
}

// NewImageHandler creates a new ImageHandler.
func NewImageHandler(service *services.ImageService, logger *zap.Logger) *ImageHandler {
	return &ImageHandler{
		service: service,
		logger:  logger,
	}
}

// Routes mounts the image routes on a fresh router.
func (h *ImageHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/{userId}", h.Upload)
	r.Put("/{userId}", h.Upload)
	r.Get("/{userId}", h.Get)
	r.Delete("/{userId}", h.Delete)
	return r
}

// Upload handles POST and PUT /api/imgs/{userId}. The image arrives as
// the "image" part of a multipart form.
func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	// One extra KiB over the cap keeps the multipart framing from
	// tripping the reader before the size check rejects the file.
	r.Body = http.MaxBytesReader(w, r.Body, services.MaxImageSize+1024)
	if err := r.ParseMultipartForm(services.MaxImageSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			common.RespondError(w, http.StatusBadRequest, "image exceeds the 5 MB limit")
			return
		}
		common.RespondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		common.RespondError(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	location, err := h.service.Upload(r.Context(),
		chi.URLParam(r, "userId"),
		file,
		header.Header.Get("Content-Type"),
		header.Size,
	)
	if err != nil {
		common.RespondAppError(w, err, "failed to upload image")
		return
	}

	status := http.StatusCreated
	if r.Method == http.MethodPut {
		status = http.StatusOK
	}
	common.RespondJSON(w, status, map[string]string{"location": location})
}

// Get handles GET /api/imgs/{userId}: a presigned URL, not the bytes.
func (h *ImageHandler) Get(w http.ResponseWriter, r *http.Request) {
	url, err := h.service.GetURL(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		common.RespondAppError(w, err, "failed to get image URL")
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"url": url})
}

// Delete handles DELETE /api/imgs/{userId}.
func (h *ImageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "userId")); err != nil {
		common.RespondAppError(w, err, "failed to delete image")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
