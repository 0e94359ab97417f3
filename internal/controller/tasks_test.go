package controller

import (
	"context"
	"errors"
	"testing"

	"github.com/retailsurvey/fieldsurvey-go/internal/client"
	"github.com/retailsurvey/fieldsurvey-go/internal/model"
)

func loggedIn() *memSession {
	s := newMemSession()
	s.CreateLoginSession(9, "Wang Fang", "wangfang")
	return s
}

func TestTaskList_Load(t *testing.T) {
	api := &fakeAPI{
		getSurveys: func(ctx context.Context) ([]model.Task, error) {
			return []model.Task{{ID: 1, Title: "A"}, {ID: 2, Title: "B"}}, nil
		},
	}
	c := NewTaskListController(api, loggedIn())
	defer c.Close()

	tasks, err := c.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if len(tasks) != 2 || len(c.Tasks()) != 2 {
		t.Errorf("Load() = %v, Tasks() = %v", tasks, c.Tasks())
	}
}

func TestTaskList_FailureKeepsTasks(t *testing.T) {
	fail := false
	api := &fakeAPI{
		getSurveys: func(ctx context.Context) ([]model.Task, error) {
			if fail {
				return nil, &client.NetworkError{Op: "get surveys", Err: context.DeadlineExceeded}
			}
			return []model.Task{{ID: 1}}, nil
		},
	}
	c := NewTaskListController(api, loggedIn())
	defer c.Close()

	if _, err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	fail = true
	_, err := c.Load(context.Background())
	if !errors.Is(err, client.ErrNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
	if got := c.Tasks(); len(got) != 1 || got[0].ID != 1 {
		t.Errorf("Tasks() = %v, want previous list", got)
	}
}

func TestTaskList_RequiresSession(t *testing.T) {
	api := &fakeAPI{}
	c := NewTaskListController(api, newMemSession())
	defer c.Close()

	if _, err := c.Load(context.Background()); !errors.Is(err, ErrNotLoggedIn) {
		t.Errorf("expected ErrNotLoggedIn, got %v", err)
	}
	if api.Calls() != 0 {
		t.Errorf("API called %d times without a session", api.Calls())
	}
}

func TestTaskList_NewestLoadWins(t *testing.T) {
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})
	calls := 0

	api := &fakeAPI{
		getSurveys: func(ctx context.Context) ([]model.Task, error) {
			calls++
			if calls == 1 {
				close(firstStarted)
				<-releaseFirst
				return []model.Task{{ID: 1, Title: "stale"}}, nil
			}
			return []model.Task{{ID: 2, Title: "fresh"}}, nil
		},
	}
	c := NewTaskListController(api, loggedIn())
	defer c.Close()

	first := c.Refresh(context.Background())
	<-firstStarted

	if _, err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	close(releaseFirst)
	stale, err := first.Await(context.Background())
	if err != nil {
		t.Fatalf("Await() unexpected error: %v", err)
	}
	if stale[0].Title != "stale" {
		t.Errorf("first load returned %v", stale)
	}

	if got := c.Tasks(); len(got) != 1 || got[0].Title != "fresh" {
		t.Errorf("Tasks() = %v, want the newest load", got)
	}
}

func TestTaskList_CloseCancelsInFlight(t *testing.T) {
	started := make(chan struct{})
	api := &fakeAPI{
		getSurveys: func(ctx context.Context) ([]model.Task, error) {
			close(started)
			<-ctx.Done()
			return nil, &client.NetworkError{Op: "get surveys", Err: ctx.Err()}
		},
	}
	c := NewTaskListController(api, loggedIn())

	f := c.Refresh(context.Background())
	<-started
	c.Close()

	_, err := f.Await(context.Background())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(c.Tasks()) != 0 {
		t.Errorf("Tasks() = %v after cancelled load", c.Tasks())
	}
}

func TestTaskList_Today(t *testing.T) {
	api := &fakeAPI{
		getTodayTask: func(ctx context.Context, id int) (model.Task, error) {
			if id != 9 {
				t.Errorf("GetTodayTask(%d), want 9", id)
			}
			return model.Task{ID: 5, Title: "Daily"}, nil
		},
	}
	c := NewTaskListController(api, loggedIn())
	defer c.Close()

	task, err := c.Today(context.Background())
	if err != nil {
		t.Fatalf("Today() unexpected error: %v", err)
	}
	if task.ID != 5 {
		t.Errorf("ID = %d, want 5", task.ID)
	}
}
