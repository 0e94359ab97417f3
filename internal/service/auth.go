package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/retailsurvey/fieldsurvey-go/internal/crypto"
	"github.com/retailsurvey/fieldsurvey-go/internal/model"
	"github.com/retailsurvey/fieldsurvey-go/internal/repository"
)

var ErrCredentialsRequired = errors.New("username and password are required")

// Login failure messages, returned in a 200 body with success=false.
const (
	MsgUnknownUser     = "user not found"
	MsgWrongPassword   = "wrong password"
	MsgAccountDisabled = "account is disabled"
	MsgLoginOK         = "login successful"
)

// AuthService handles surveyor login.
type AuthService struct {
	repo      SurveyorStore
	jwtSecret string
	jwtExpiry time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(repo SurveyorStore, secret string, expiry time.Duration) *AuthService {
	return &AuthService{
		repo:      repo,
		jwtSecret: secret,
		jwtExpiry: expiry,
	}
}

// Login checks credentials. Rejections are reported in the response, not as errors;
// an error means the check itself could not be made.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.LoginResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return model.LoginResponse{}, ErrCredentialsRequired
	}

	account, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrSurveyorNotFound) {
			return model.LoginResponse{Success: false, Message: MsgUnknownUser}, nil
		}
		return model.LoginResponse{}, err
	}

	match, err := crypto.VerifyPassword(req.Password, account.PasswordHash)
	if err != nil {
		return model.LoginResponse{}, err
	}
	if !match {
		return model.LoginResponse{Success: false, Message: MsgWrongPassword}, nil
	}
	if !account.IsActive {
		return model.LoginResponse{Success: false, Message: MsgAccountDisabled}, nil
	}

	token, err := crypto.GenerateToken(account.ID, s.jwtSecret, s.jwtExpiry)
	if err != nil {
		return model.LoginResponse{}, err
	}

	slog.Info("surveyor logged in", "surveyor_id", account.ID)
	return model.LoginResponse{
		Success: true,
		Message: MsgLoginOK,
		UserID:  account.ID,
		Name:    account.Name,
		Token:   token,
	}, nil
}
