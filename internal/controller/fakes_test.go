package controller

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/retailsurvey/fieldsurvey-go/internal/model"
	"github.com/retailsurvey/fieldsurvey-go/internal/session"
)

type memSession struct {
	mu   sync.Mutex
	sess model.Session
	now  time.Time
}

func newMemSession() *memSession {
	return &memSession{
		sess: model.Session{UserID: session.DefaultUserID},
		now:  time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC),
	}
}

func (m *memSession) CreateLoginSession(userID int, userName, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sess = model.Session{LoggedIn: true, UserID: userID, UserName: userName, Username: username, LoginTimeMs: m.now.UnixMilli()}
	return nil
}

func (m *memSession) ClearSession() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sess = model.Session{UserID: session.DefaultUserID}
	return nil
}

func (m *memSession) Session() (model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sess, nil
}

func (m *memSession) IsSessionExpired() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return session.Expired(m.sess.LoginTimeMs, m.now)
}

type fakeAPI struct {
	login        func(ctx context.Context, req model.LoginRequest) (model.LoginResponse, error)
	getSurveyor  func(ctx context.Context, id int) (model.Surveyor, error)
	getSurveys   func(ctx context.Context) ([]model.Task, error)
	getTodayTask func(ctx context.Context, id int) (model.Task, error)
	createSurvey func(ctx context.Context, rec model.Record) (map[string]any, error)
	uploadImage  func(ctx context.Context, name string, r io.Reader) (map[string]string, error)

	mu    sync.Mutex
	calls int
	token string
}

func (f *fakeAPI) count() {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
}

func (f *fakeAPI) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeAPI) SetToken(token string) {
	f.mu.Lock()
	f.token = token
	f.mu.Unlock()
}

func (f *fakeAPI) Login(ctx context.Context, req model.LoginRequest) (model.LoginResponse, error) {
	f.count()
	return f.login(ctx, req)
}

func (f *fakeAPI) GetSurveyor(ctx context.Context, id int) (model.Surveyor, error) {
	f.count()
	return f.getSurveyor(ctx, id)
}

func (f *fakeAPI) GetSurveys(ctx context.Context) ([]model.Task, error) {
	f.count()
	return f.getSurveys(ctx)
}

func (f *fakeAPI) GetTodayTask(ctx context.Context, id int) (model.Task, error) {
	f.count()
	return f.getTodayTask(ctx, id)
}

func (f *fakeAPI) CreateSurvey(ctx context.Context, rec model.Record) (map[string]any, error) {
	f.count()
	return f.createSurvey(ctx, rec)
}

func (f *fakeAPI) UploadImage(ctx context.Context, name string, r io.Reader) (map[string]string, error) {
	f.count()
	return f.uploadImage(ctx, name, r)
}
