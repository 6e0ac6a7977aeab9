package auth

import "github.com/knitinfo/knitinfo-backend/internal/admins"

// LoginRequest captures the credentials sent to the admin login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse contains the token and admin produced by a successful login.
type LoginResponse struct {
	AccessToken string           `json:"accessToken"`
	Admin       *admins.AdminDTO `json:"admin"`
}

// RegisterRequest seeds a new operator account. Exposed outside production
// only.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=10"`
	Name     string `json:"name" validate:"required,min=2,max=255"`
}
