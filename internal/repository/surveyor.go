package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/retailsurvey/fieldsurvey-go/internal/model"
)

var (
	ErrSurveyorNotFound  = errors.New("surveyor not found")
	ErrDuplicateUsername = errors.New("username already exists")
)

// SurveyorRepository handles surveyor persistence operations.
type SurveyorRepository struct {
	db *sql.DB
}

// NewSurveyorRepository creates a new SurveyorRepository.
func NewSurveyorRepository(db *sql.DB) *SurveyorRepository {
	return &SurveyorRepository{db: db}
}

const surveyorColumns = `id, username, password_hash, name, phone, is_active, created_at`

// Create inserts a surveyor and sets the generated ID and creation time.
func (r *SurveyorRepository) Create(ctx context.Context, s *model.SurveyorAccount) error {
	query := `INSERT INTO surveyors (username, password_hash, name, phone, is_active) VALUES (?, ?, ?, ?, TRUE)`

	result, err := r.db.ExecContext(ctx, query, s.Username, s.PasswordHash, s.Name, s.Phone)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateUsername
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	created, err := r.GetByID(ctx, int(id))
	if err != nil {
		return err
	}
	*s = *created
	return nil
}

// GetByUsername retrieves a surveyor by login name.
func (r *SurveyorRepository) GetByUsername(ctx context.Context, username string) (*model.SurveyorAccount, error) {
	return r.getOne(ctx, `SELECT `+surveyorColumns+` FROM surveyors WHERE username = ?`, username)
}

// GetByID retrieves a surveyor by ID.
func (r *SurveyorRepository) GetByID(ctx context.Context, id int) (*model.SurveyorAccount, error) {
	return r.getOne(ctx, `SELECT `+surveyorColumns+` FROM surveyors WHERE id = ?`, id)
}

// UpdatePassword replaces a surveyor's password hash.
func (r *SurveyorRepository) UpdatePassword(ctx context.Context, id int, hash string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE surveyors SET password_hash = ? WHERE id = ?`, hash, id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSurveyorNotFound
	}
	return nil
}

// Update applies the set fields of u and returns the stored row.
func (r *SurveyorRepository) Update(ctx context.Context, id int, u model.UpdateSurveyorRequest) (*model.SurveyorAccount, error) {
	query := `UPDATE surveyors SET
		name = COALESCE(?, name),
		phone = COALESCE(?, phone),
		is_active = COALESCE(?, is_active)
		WHERE id = ?`

	if _, err := r.db.ExecContext(ctx, query, u.Name, u.Phone, u.IsActive, id); err != nil {
		return nil, err
	}
	// RowsAffected is 0 for unchanged rows, so existence is checked by reading back.
	return r.GetByID(ctx, id)
}

func (r *SurveyorRepository) getOne(ctx context.Context, query string, arg any) (*model.SurveyorAccount, error) {
	s := &model.SurveyorAccount{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&s.ID, &s.Username, &s.PasswordHash, &s.Name, &s.Phone, &s.IsActive, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSurveyorNotFound
		}
		return nil, err
	}
	return s, nil
}

// isDuplicateEntryError checks if a MySQL error is a duplicate entry error (code 1062).
func isDuplicateEntryError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "Duplicate entry")
}
