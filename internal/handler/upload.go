package handler

import (
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/retailsurvey/fieldsurvey-go/internal/service"
)

// UploadHandler handles image uploads.
type UploadHandler struct {
	service *service.UploadService
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(svc *service.UploadService) *UploadHandler {
	return &UploadHandler{service: svc}
}

// HandleImage handles POST /api/upload/image requests carrying a multipart part named "image".
func (h *UploadHandler) HandleImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, service.MaxImageSize+maxBodySize)

	file, header, err := r.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse(service.ErrImageTooLarge.Error()))
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse("image file is required"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = mime.TypeByExtension(filepath.Ext(header.Filename))
	}
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mediaType
	}

	resp, err := h.service.SaveImage(contentType, file)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnsupportedImage):
			writeJSON(w, http.StatusUnsupportedMediaType, errorResponse(err.Error()))
		case errors.Is(err, service.ErrImageTooLarge):
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse(err.Error()))
		default:
			slog.Error("image upload failed", "filename", header.Filename, "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
