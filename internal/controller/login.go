package controller

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/retailsurvey/fieldsurvey-go/internal/client"
	"github.com/retailsurvey/fieldsurvey-go/internal/model"
)

// MinPasswordLength is the shortest password the login screen accepts.
const MinPasswordLength = 6

// LoginController drives the login screen.
type LoginController struct {
	lifecycle
	api      API
	sessions SessionStore
}

// NewLoginController creates a LoginController.
func NewLoginController(api API, sessions SessionStore) *LoginController {
	return &LoginController{lifecycle: newLifecycle(), api: api, sessions: sessions}
}

// Login validates the input, authenticates and creates the local session.
// A rejected login returns a *client.APIError with the server's message and leaves
// the session untouched.
func (c *LoginController) Login(ctx context.Context, username, password string) (model.Session, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	if err := validateCredentials(username, password); err != nil {
		return model.Session{}, err
	}

	ctx, cancel := c.bind(ctx)
	defer cancel()

	resp, err := c.api.Login(ctx, model.LoginRequest{Username: username, Password: password})
	if err != nil {
		return model.Session{}, err
	}
	if !resp.Success {
		return model.Session{}, &client.APIError{StatusCode: http.StatusOK, Message: resp.Message}
	}

	if err := c.sessions.CreateLoginSession(resp.UserID, resp.Name, username); err != nil {
		return model.Session{}, fmt.Errorf("saving session: %w", err)
	}
	if ts, ok := c.api.(tokenSetter); ok && resp.Token != "" {
		ts.SetToken(resp.Token)
	}

	slog.Info("surveyor logged in", "user_id", resp.UserID, "username", username)
	return c.sessions.Session()
}

// Logout clears the local session.
func (c *LoginController) Logout() error {
	if ts, ok := c.api.(tokenSetter); ok {
		ts.SetToken("")
	}
	return c.sessions.ClearSession()
}

func validateCredentials(username, password string) error {
	if username == "" {
		return &ValidationError{Field: "username", Message: "username is required"}
	}
	if password == "" {
		return &ValidationError{Field: "password", Message: "password is required"}
	}
	if len([]rune(password)) < MinPasswordLength {
		return &ValidationError{Field: "password", Message: fmt.Sprintf("password must be at least %d characters", MinPasswordLength)}
	}
	return nil
}
