package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/retailsurvey/fieldsurvey-go/internal/crypto"
	"github.com/retailsurvey/fieldsurvey-go/internal/model"
	"github.com/retailsurvey/fieldsurvey-go/internal/repository"
)

var (
	ErrSurveyorNotFound = errors.New("surveyor not found")
	ErrUsernameRequired = errors.New("username is required")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrUsernameTaken    = errors.New("username already taken")
	ErrNothingToUpdate  = errors.New("no fields to update")
	ErrNameRequired     = errors.New("name cannot be empty")
)

// SurveyorService handles surveyor accounts.
type SurveyorService struct {
	repo SurveyorStore
}

// NewSurveyorService creates a new SurveyorService.
func NewSurveyorService(repo SurveyorStore) *SurveyorService {
	return &SurveyorService{repo: repo}
}

// Get returns a surveyor profile.
func (s *SurveyorService) Get(ctx context.Context, id int) (model.Surveyor, error) {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSurveyorNotFound) {
			return model.Surveyor{}, ErrSurveyorNotFound
		}
		return model.Surveyor{}, err
	}
	return account.Profile(), nil
}

// Create registers a surveyor. When no password is given one is generated and
// returned once in the response.
func (s *SurveyorService) Create(ctx context.Context, req model.CreateSurveyorRequest) (model.CreateSurveyorResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return model.CreateSurveyorResponse{}, ErrUsernameRequired
	}

	password, generated := req.Password, ""
	if password == "" {
		var err error
		if password, err = crypto.GeneratePassword(crypto.DefaultPasswordLength); err != nil {
			return model.CreateSurveyorResponse{}, err
		}
		generated = password
	} else if len([]rune(password)) < crypto.MinPasswordLength {
		return model.CreateSurveyorResponse{}, ErrPasswordTooShort
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return model.CreateSurveyorResponse{}, err
	}

	account := &model.SurveyorAccount{
		Username:     username,
		PasswordHash: hash,
		Name:         strings.TrimSpace(req.Name),
		Phone:        strings.TrimSpace(req.Phone),
	}
	if err := s.repo.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return model.CreateSurveyorResponse{}, ErrUsernameTaken
		}
		return model.CreateSurveyorResponse{}, err
	}

	return model.CreateSurveyorResponse{Surveyor: account.Profile(), InitialPassword: generated}, nil
}

// Update changes a surveyor's name, phone or active flag. Deactivating an account
// makes later logins answer success=false.
func (s *SurveyorService) Update(ctx context.Context, id int, req model.UpdateSurveyorRequest) (model.Surveyor, error) {
	if req.Name == nil && req.Phone == nil && req.IsActive == nil {
		return model.Surveyor{}, ErrNothingToUpdate
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return model.Surveyor{}, ErrNameRequired
		}
		req.Name = &name
	}
	if req.Phone != nil {
		phone := strings.TrimSpace(*req.Phone)
		req.Phone = &phone
	}

	account, err := s.repo.Update(ctx, id, req)
	if err != nil {
		if errors.Is(err, repository.ErrSurveyorNotFound) {
			return model.Surveyor{}, ErrSurveyorNotFound
		}
		return model.Surveyor{}, err
	}

	if req.IsActive != nil {
		slog.Info("surveyor active flag changed", "surveyor_id", id, "is_active", *req.IsActive)
	}
	return account.Profile(), nil
}

// ResetPassword replaces a surveyor's password with a generated one.
func (s *SurveyorService) ResetPassword(ctx context.Context, id int) (model.ResetPasswordResponse, error) {
	password, err := crypto.GeneratePassword(crypto.DefaultPasswordLength)
	if err != nil {
		return model.ResetPasswordResponse{}, err
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return model.ResetPasswordResponse{}, err
	}

	if err := s.repo.UpdatePassword(ctx, id, hash); err != nil {
		if errors.Is(err, repository.ErrSurveyorNotFound) {
			return model.ResetPasswordResponse{}, ErrSurveyorNotFound
		}
		return model.ResetPasswordResponse{}, err
	}

	return model.ResetPasswordResponse{Success: true, Message: "password reset", NewPassword: password}, nil
}
