package model

import "time"

// Surveyor is the public profile of a field agent account.
type Surveyor struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
}

// SurveyorAccount represents a surveyor row in the database.
type SurveyorAccount struct {
	ID           int
	Username     string
	PasswordHash string
	Name         string
	Phone        string
	IsActive     bool
	CreatedAt    time.Time
}

// Profile returns the account data safe for API responses (no password hash).
func (a SurveyorAccount) Profile() Surveyor {
	return Surveyor{
		ID:        a.ID,
		Username:  a.Username,
		Name:      a.Name,
		Phone:     a.Phone,
		IsActive:  a.IsActive,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
	}
}

// CreateSurveyorRequest represents an admin request to register a surveyor.
// An empty Password asks the server to generate one.
type CreateSurveyorRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
}

// CreateSurveyorResponse returns the created profile. InitialPassword is only set
// when the server generated it.
type CreateSurveyorResponse struct {
	Surveyor
	InitialPassword string `json:"initial_password,omitempty"`
}

// ResetPasswordResponse carries a freshly generated password.
type ResetPasswordResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	NewPassword string `json:"new_password"`
}

// UpdateSurveyorRequest changes the fields that are set and leaves the rest alone.
type UpdateSurveyorRequest struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	IsActive *bool   `json:"is_active"`
}
