package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/retailsurvey/fieldsurvey-go/internal/middleware"
	"github.com/retailsurvey/fieldsurvey-go/internal/model"
	"github.com/retailsurvey/fieldsurvey-go/internal/service"
)

// RecordHandler handles HTTP requests for survey records.
type RecordHandler struct {
	service *service.RecordService
}

// NewRecordHandler creates a new RecordHandler.
func NewRecordHandler(svc *service.RecordService) *RecordHandler {
	return &RecordHandler{service: svc}
}

// HandleCreate handles POST /api/records requests. When the request carries a
// verified token, the record is attributed to that surveyor.
func (h *RecordHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var rec model.Record
	if !decodeBody(w, r, &rec) {
		return
	}

	if id, ok := middleware.SurveyorIDFromContext(r.Context()); ok {
		rec.SurveyorID = id
	}

	resp, err := h.service.Create(r.Context(), rec)
	if err != nil {
		if isRecordValidationError(err) {
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		slog.Error("create record failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

func isRecordValidationError(err error) bool {
	return errors.Is(err, service.ErrItemIDRequired) ||
		errors.Is(err, service.ErrSurveyorIDRequired) ||
		errors.Is(err, service.ErrStoreNameRequired) ||
		errors.Is(err, service.ErrInvalidLocation)
}
