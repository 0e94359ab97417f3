package service

import (
	"context"

	"github.com/retailsurvey/fieldsurvey-go/internal/model"
	"github.com/retailsurvey/fieldsurvey-go/internal/repository"
)

type memSurveyors struct {
	accounts map[int]*model.SurveyorAccount
}

func newMemSurveyors(accounts ...model.SurveyorAccount) *memSurveyors {
	m := &memSurveyors{accounts: make(map[int]*model.SurveyorAccount)}
	for i := range accounts {
		a := accounts[i]
		m.accounts[a.ID] = &a
	}
	return m
}

func (m *memSurveyors) Create(_ context.Context, s *model.SurveyorAccount) error {
	for _, a := range m.accounts {
		if a.Username == s.Username {
			return repository.ErrDuplicateUsername
		}
	}
	s.ID = len(m.accounts) + 1
	s.IsActive = true
	stored := *s
	m.accounts[s.ID] = &stored
	return nil
}

func (m *memSurveyors) GetByUsername(_ context.Context, username string) (*model.SurveyorAccount, error) {
	for _, a := range m.accounts {
		if a.Username == username {
			cp := *a
			return &cp, nil
		}
	}
	return nil, repository.ErrSurveyorNotFound
}

func (m *memSurveyors) GetByID(_ context.Context, id int) (*model.SurveyorAccount, error) {
	a, ok := m.accounts[id]
	if !ok {
		return nil, repository.ErrSurveyorNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memSurveyors) UpdatePassword(_ context.Context, id int, hash string) error {
	a, ok := m.accounts[id]
	if !ok {
		return repository.ErrSurveyorNotFound
	}
	a.PasswordHash = hash
	return nil
}

func (m *memSurveyors) Update(ctx context.Context, id int, u model.UpdateSurveyorRequest) (*model.SurveyorAccount, error) {
	a, ok := m.accounts[id]
	if !ok {
		return nil, repository.ErrSurveyorNotFound
	}
	if u.Name != nil {
		a.Name = *u.Name
	}
	if u.Phone != nil {
		a.Phone = *u.Phone
	}
	if u.IsActive != nil {
		a.IsActive = *u.IsActive
	}
	return m.GetByID(ctx, id)
}

type memTasks struct {
	tasks []model.Task
}

func (m *memTasks) Create(_ context.Context, t *model.Task) error {
	t.ID = len(m.tasks) + 1
	m.tasks = append(m.tasks, *t)
	return nil
}

func (m *memTasks) List(context.Context) ([]model.Task, error) {
	return append([]model.Task{}, m.tasks...), nil
}

func (m *memTasks) GetByDate(_ context.Context, date string) (*model.Task, error) {
	for _, t := range m.tasks {
		if t.Date == date {
			return &t, nil
		}
	}
	return nil, repository.ErrTaskNotFound
}

func (m *memTasks) SetStatus(_ context.Context, id int, status string) (*model.Task, error) {
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			m.tasks[i].Status = status
			t := m.tasks[i]
			return &t, nil
		}
	}
	return nil, repository.ErrTaskNotFound
}
