package dto

// RegisterRequest is the JSON body for POST /register.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,max=80"`
	Email    string `json:"email" binding:"required,max=120"`
	Password string `json:"password" binding:"required,max=72"`
}

// LoginRequest is the JSON body for POST /login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// LoginResponse is returned by a successful POST /login.
type LoginResponse struct {
	Message  string `json:"message"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

// SessionResponse is returned by GET /check-session.
type SessionResponse struct {
	LoggedIn bool   `json:"logged_in"`
	UserID   int64  `json:"user_id,omitempty"`
	Username string `json:"username,omitempty"`
	Message  string `json:"message,omitempty"`
}
