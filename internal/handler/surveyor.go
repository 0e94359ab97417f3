package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/retailsurvey/fieldsurvey-go/internal/model"
	"github.com/retailsurvey/fieldsurvey-go/internal/service"
)

// SurveyorHandler handles HTTP requests for surveyor accounts.
type SurveyorHandler struct {
	service *service.SurveyorService
}

// NewSurveyorHandler creates a new SurveyorHandler.
func NewSurveyorHandler(svc *service.SurveyorService) *SurveyorHandler {
	return &SurveyorHandler{service: svc}
}

// HandleGet handles GET /api/surveyors/{surveyor_id} requests.
func (h *SurveyorHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "surveyor_id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid surveyor id"))
		return
	}

	resp, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrSurveyorNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
			return
		}
		slog.Error("get surveyor failed", "surveyor_id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleCreate handles POST /api/surveyors requests.
func (h *SurveyorHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req model.CreateSurveyorRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.service.Create(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameRequired), errors.Is(err, service.ErrPasswordTooShort):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		case errors.Is(err, service.ErrUsernameTaken):
			writeJSON(w, http.StatusConflict, errorResponse(err.Error()))
		default:
			slog.Error("create surveyor failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// HandleUpdate handles PUT /api/surveyors/{surveyor_id} requests.
func (h *SurveyorHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "surveyor_id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid surveyor id"))
		return
	}

	var req model.UpdateSurveyorRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNothingToUpdate), errors.Is(err, service.ErrNameRequired):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		case errors.Is(err, service.ErrSurveyorNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
		default:
			slog.Error("update surveyor failed", "surveyor_id", id, "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleResetPassword handles POST /api/surveyors/{surveyor_id}/reset-password requests.
func (h *SurveyorHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "surveyor_id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid surveyor id"))
		return
	}

	resp, err := h.service.ResetPassword(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrSurveyorNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
			return
		}
		slog.Error("reset password failed", "surveyor_id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
