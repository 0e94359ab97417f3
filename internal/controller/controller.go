// Package controller holds the UI-free logic behind the login, task list and
// create-survey screens. Each controller is built with its session store and API
// client, and cancels its in-flight requests on Close.
package controller

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/retailsurvey/fieldsurvey-go/internal/model"
)

var (
	ErrNotLoggedIn     = errors.New("not logged in")
	ErrSessionExpired  = errors.New("session expired, please log in again")
	ErrAccountDisabled = errors.New("account is disabled")
)

// ValidationError reports bad user input caught before any request is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// SessionStore is the persisted login state a controller reads and writes.
type SessionStore interface {
	CreateLoginSession(userID int, userName, username string) error
	ClearSession() error
	Session() (model.Session, error)
	IsSessionExpired() bool
}

// API is the subset of the survey API the screens use.
type API interface {
	Login(ctx context.Context, req model.LoginRequest) (model.LoginResponse, error)
	GetSurveyor(ctx context.Context, surveyorID int) (model.Surveyor, error)
	GetSurveys(ctx context.Context) ([]model.Task, error)
	GetTodayTask(ctx context.Context, surveyorID int) (model.Task, error)
	CreateSurvey(ctx context.Context, rec model.Record) (map[string]any, error)
	UploadImage(ctx context.Context, filename string, image io.Reader) (map[string]string, error)
}

// tokenSetter is implemented by clients that can attach the login token to requests.
type tokenSetter interface {
	SetToken(token string)
}

// lifecycle ties every request a controller issues to the controller's lifetime.
type lifecycle struct {
	root   context.Context
	cancel context.CancelFunc
}

func newLifecycle() lifecycle {
	root, cancel := context.WithCancel(context.Background())
	return lifecycle{root: root, cancel: cancel}
}

// bind derives a context that ends with ctx or when the controller is closed.
func (l lifecycle) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(l.root, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// Close cancels every in-flight request.
func (l lifecycle) Close() {
	l.cancel()
}

// RequireSession returns the current session, or an error when the user must log in.
// An expired session is cleared.
func RequireSession(store SessionStore) (model.Session, error) {
	sess, err := store.Session()
	if err != nil {
		return model.Session{}, fmt.Errorf("reading session: %w", err)
	}
	if !sess.LoggedIn {
		return model.Session{}, ErrNotLoggedIn
	}
	if store.IsSessionExpired() {
		if err := store.ClearSession(); err != nil {
			return model.Session{}, fmt.Errorf("clearing expired session: %w", err)
		}
		return model.Session{}, ErrSessionExpired
	}
	return sess, nil
}

// CheckAccount fetches the logged-in surveyor and clears the session when the
// account has been disabled.
func CheckAccount(ctx context.Context, api API, store SessionStore) (model.Surveyor, error) {
	sess, err := RequireSession(store)
	if err != nil {
		return model.Surveyor{}, err
	}

	surveyor, err := api.GetSurveyor(ctx, sess.UserID)
	if err != nil {
		return model.Surveyor{}, err
	}
	if !surveyor.IsActive {
		if err := store.ClearSession(); err != nil {
			return model.Surveyor{}, fmt.Errorf("clearing session: %w", err)
		}
		return surveyor, ErrAccountDisabled
	}
	return surveyor, nil
}
