package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/retailsurvey/fieldsurvey-go/internal/model"
)

var ErrTaskNotFound = errors.New("task not found")

const taskColumns = `id, title, date, COALESCE(description, ''), status, item_count`

// TaskRepository handles survey task persistence operations.
type TaskRepository struct {
	db *sql.DB
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create inserts a task and sets its generated ID.
func (r *TaskRepository) Create(ctx context.Context, t *model.Task) error {
	query := `INSERT INTO survey_tasks (title, date, description, status, item_count) VALUES (?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, t.Title, t.Date, t.Description, t.Status, t.ItemCount)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = int(id)
	return nil
}

// List returns every task, newest date first.
func (r *TaskRepository) List(ctx context.Context) ([]model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM survey_tasks ORDER BY date DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Date, &t.Description, &t.Status, &t.ItemCount); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}

	return tasks, rows.Err()
}

// GetByID retrieves a task by ID.
func (r *TaskRepository) GetByID(ctx context.Context, id int) (*model.Task, error) {
	return r.getOne(ctx, `SELECT `+taskColumns+` FROM survey_tasks WHERE id = ?`, id)
}

// SetStatus changes a task's status and returns the stored row.
func (r *TaskRepository) SetStatus(ctx context.Context, id int, status string) (*model.Task, error) {
	if _, err := r.db.ExecContext(ctx, `UPDATE survey_tasks SET status = ? WHERE id = ?`, status, id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// GetByDate returns the first task published for a YYYY-MM-DD date.
func (r *TaskRepository) GetByDate(ctx context.Context, date string) (*model.Task, error) {
	return r.getOne(ctx, `SELECT `+taskColumns+` FROM survey_tasks WHERE date = ? ORDER BY id LIMIT 1`, date)
}

func (r *TaskRepository) getOne(ctx context.Context, query string, arg any) (*model.Task, error) {
	t := &model.Task{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&t.ID, &t.Title, &t.Date, &t.Description, &t.Status, &t.ItemCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return t, nil
}
