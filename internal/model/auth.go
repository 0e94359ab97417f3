package model

// LoginRequest represents a surveyor login request.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse represents the login result. Success is reported in the body and is
// independent of the HTTP status: a 200 response may still carry Success=false.
type LoginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	UserID  int    `json:"user_id"`
	Name    string `json:"name"`
	Token   string `json:"token"`
}

// StatusResponse is the generic {success, message} envelope used by the API for
// failures and simple acknowledgements.
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
