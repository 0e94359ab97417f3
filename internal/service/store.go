package service

import (
	"context"

	"github.com/retailsurvey/fieldsurvey-go/internal/model"
)

// SurveyorStore persists surveyor accounts. *repository.SurveyorRepository implements it.
type SurveyorStore interface {
	Create(ctx context.Context, s *model.SurveyorAccount) error
	GetByUsername(ctx context.Context, username string) (*model.SurveyorAccount, error)
	GetByID(ctx context.Context, id int) (*model.SurveyorAccount, error)
	UpdatePassword(ctx context.Context, id int, hash string) error
	Update(ctx context.Context, id int, u model.UpdateSurveyorRequest) (*model.SurveyorAccount, error)
}

// TaskStore persists survey tasks. *repository.TaskRepository implements it.
type TaskStore interface {
	Create(ctx context.Context, t *model.Task) error
	List(ctx context.Context) ([]model.Task, error)
	GetByDate(ctx context.Context, date string) (*model.Task, error)
	SetStatus(ctx context.Context, id int, status string) (*model.Task, error)
}

// RecordStore persists survey records. *repository.RecordRepository implements it.
type RecordStore interface {
	Create(ctx context.Context, rec *model.Record) error
}
