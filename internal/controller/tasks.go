package controller

import (
	"context"
	"log/slog"
	"sync"

	"github.com/retailsurvey/fieldsurvey-go/internal/client"
	"github.com/retailsurvey/fieldsurvey-go/internal/model"
)

// TaskListController drives the task list screen. Only the most recently started
// load may replace the displayed tasks; a failed load leaves them unchanged.
type TaskListController struct {
	lifecycle
	api      API
	sessions SessionStore

	mu    sync.Mutex
	tasks []model.Task
	gen   uint64
}

// NewTaskListController creates a TaskListController.
func NewTaskListController(api API, sessions SessionStore) *TaskListController {
	return &TaskListController{lifecycle: newLifecycle(), api: api, sessions: sessions}
}

// Load fetches the task list and displays it unless a newer load has started.
func (c *TaskListController) Load(ctx context.Context) ([]model.Task, error) {
	if _, err := RequireSession(c.sessions); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	ctx, cancel := c.bind(ctx)
	defer cancel()

	tasks, err := c.api.GetSurveys(ctx)
	if err != nil {
		slog.Warn("loading tasks failed", "error", err)
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		slog.Debug("discarding stale task list", "generation", gen, "latest", c.gen)
		return tasks, nil
	}
	c.tasks = tasks
	return tasks, nil
}

// Refresh starts Load in the background.
func (c *TaskListController) Refresh(ctx context.Context) *client.Future[[]model.Task] {
	return client.Go(ctx, c.Load)
}

// Tasks returns the displayed tasks.
func (c *TaskListController) Tasks() []model.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.Task(nil), c.tasks...)
}

// Today fetches today's task for the logged-in surveyor.
func (c *TaskListController) Today(ctx context.Context) (model.Task, error) {
	sess, err := RequireSession(c.sessions)
	if err != nil {
		return model.Task{}, err
	}

	ctx, cancel := c.bind(ctx)
	defer cancel()

	return c.api.GetTodayTask(ctx, sess.UserID)
}
