package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sweetnothings-bakery/super-receptionist/internal/model"
	"github.com/sweetnothings-bakery/super-receptionist/internal/store"
	"github.com/sweetnothings-bakery/super-receptionist/pkg/logger"
)

// maxUploadBytes caps uploaded screenshots at 10MB.
const maxUploadBytes = 10 << 20

// UploadHandler handles image uploads (order confirmation screenshots and
// design photos).
type UploadHandler struct {
	images *store.ImageStore
	logger *logger.Logger
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(images *store.ImageStore, log *logger.Logger) *UploadHandler {
	return &UploadHandler{
		images: images,
		logger: log,
	}
}

// Upload handles POST /api/v1/uploads
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read file")
		return
	}

	img := &model.UploadedImage{
		ID:          uuid.Must(uuid.NewV7()).String(),
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        int64(len(data)),
		Data:        data,
	}
	if err := h.images.Save(r.Context(), img); err != nil {
		h.logger.Error("failed to save upload", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to save upload")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"status":   "success",
		"id":       img.ID,
		"filename": img.Filename,
		"size":     img.Size,
	})
}

// Download handles GET /api/v1/uploads/{imageID}
func (h *UploadHandler) Download(w http.ResponseWriter, r *http.Request) {
	imageID := chi.URLParam(r, "imageID")

	img, err := h.images.Get(r.Context(), imageID)
	if errors.Is(err, store.ErrImageNotFound) {
		writeError(w, http.StatusNotFound, "image not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to load upload", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load upload")
		return
	}

	contentType := img.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(img.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(img.Data)
}
