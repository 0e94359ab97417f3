package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/retailsurvey/fieldsurvey-go/internal/model"
	"github.com/retailsurvey/fieldsurvey-go/internal/repository"
)

const (
	dateLayout = "2006-01-02"

	StatusActive    = "active"
	StatusCancelled = "cancelled"
)

var (
	ErrNoTaskToday   = errors.New("no survey task today")
	ErrTitleRequired = errors.New("title is required")
	ErrInvalidDate   = errors.New("date must be YYYY-MM-DD")
	ErrTaskNotFound  = errors.New("task not found")
)

// TaskService handles survey task business logic.
type TaskService struct {
	repo TaskStore
	now  func() time.Time
}

// NewTaskService creates a new TaskService.
func NewTaskService(repo TaskStore) *TaskService {
	return &TaskService{repo: repo, now: time.Now}
}

// List returns every published task.
func (s *TaskService) List(ctx context.Context) ([]model.Task, error) {
	return s.repo.List(ctx)
}

// Today returns the task published for the current date. A cancelled task is
// returned flagged rather than hidden, so the app can tell the surveyor.
func (s *TaskService) Today(ctx context.Context) (model.Task, error) {
	task, err := s.repo.GetByDate(ctx, s.now().Format(dateLayout))
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return model.Task{}, ErrNoTaskToday
		}
		return model.Task{}, err
	}

	return withCancelFlag(*task), nil
}

// Cancel marks a task cancelled. Cancelling twice is not an error.
func (s *TaskService) Cancel(ctx context.Context, id int) (model.Task, error) {
	task, err := s.repo.SetStatus(ctx, id, StatusCancelled)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return model.Task{}, ErrTaskNotFound
		}
		return model.Task{}, err
	}

	slog.Info("task cancelled", "task_id", id)
	return withCancelFlag(*task), nil
}

func withCancelFlag(t model.Task) model.Task {
	if t.Status == StatusCancelled {
		t.Cancelled = true
		t.Message = "task has been cancelled"
	}
	return t
}

// Create publishes a task.
func (s *TaskService) Create(ctx context.Context, req model.CreateTaskRequest) (model.Task, error) {
	task, err := validateTask(req)
	if err != nil {
		return model.Task{}, err
	}

	if err := s.repo.Create(ctx, &task); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

func validateTask(req model.CreateTaskRequest) (model.Task, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return model.Task{}, ErrTitleRequired
	}
	if _, err := time.Parse(dateLayout, req.Date); err != nil {
		return model.Task{}, ErrInvalidDate
	}
	if req.ItemCount < 0 {
		req.ItemCount = 0
	}

	return model.Task{
		Title:       title,
		Date:        req.Date,
		Description: strings.TrimSpace(req.Description),
		Status:      StatusActive,
		ItemCount:   req.ItemCount,
	}, nil
}
