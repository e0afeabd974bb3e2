package auth

import "github.com/willardc/stocktrack-backend/internal/users"

// RegisterRequest is the payload accepted when creating an account.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required"`
}

// LoginRequest is the credentials payload for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries the (possibly expired) access token plus the
// refresh token to rotate. The access token normally arrives via the
// Authorization header; the controller fills it in.
type RefreshRequest struct {
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LogoutRequest identifies the session to revoke.
type LogoutRequest struct {
	AccessToken string `json:"access_token,omitempty"`
}

// LoginResponse is returned for successful register, login, and refresh calls.
type LoginResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	User         *users.UserDTO `json:"user"`
}
