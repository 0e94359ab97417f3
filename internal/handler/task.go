package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/retailsurvey/fieldsurvey-go/internal/model"
	"github.com/retailsurvey/fieldsurvey-go/internal/service"
)

// TaskHandler handles HTTP requests for survey tasks.
type TaskHandler struct {
	service *service.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(svc *service.TaskService) *TaskHandler {
	return &TaskHandler{service: svc}
}

// HandleList handles GET /api/tasks requests.
func (h *TaskHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.service.List(r.Context())
	if err != nil {
		slog.Error("list tasks failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}

	writeJSON(w, http.StatusOK, tasks)
}

// HandleToday handles GET /api/tasks/today/{surveyor_id} requests.
func (h *TaskHandler) HandleToday(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "surveyor_id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid surveyor id"))
		return
	}

	task, err := h.service.Today(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrNoTaskToday) {
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
			return
		}
		slog.Error("today task failed", "surveyor_id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// HandleCreate handles POST /api/tasks requests.
func (h *TaskHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req model.CreateTaskRequest
	if !decodeBody(w, r, &req) {
		return
	}

	task, err := h.service.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrTitleRequired) || errors.Is(err, service.ErrInvalidDate) {
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		slog.Error("create task failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

// HandleCancel handles POST /api/tasks/{task_id}/cancel requests.
func (h *TaskHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "task_id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid task id"))
		return
	}

	if _, err := h.service.Cancel(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrTaskNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
			return
		}
		slog.Error("cancel task failed", "task_id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, model.StatusResponse{Success: true, Message: "task cancelled"})
}
