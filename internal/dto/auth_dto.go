package dto

import "github.com/noah-isme/edudesk-api/internal/models"

// LoginRequest carries credentials for the login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=8"`
}

// RegisterRequest carries the payload creating a new account. Only admins
// may call the endpoint backed by it.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required"`
	FullName string `json:"full_name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
	BranchID *uint  `json:"branch_id"`
}

// RefreshRequest carries the refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// TokenPair bundles the issued access and refresh tokens.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// ProfileResponse describes the authenticated identity.
type ProfileResponse struct {
	UserID   uint        `json:"user_id"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
	FullName string      `json:"full_name"`
	Email    string      `json:"email"`
	HomePath string      `json:"home_path"`
}

// LoginResponse is returned on successful authentication.
type LoginResponse struct {
	Tokens  TokenPair       `json:"tokens"`
	Profile ProfileResponse `json:"profile"`
}
