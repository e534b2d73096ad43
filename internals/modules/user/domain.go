package user

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

type RegisterCmd struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LogInCmd struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshCmd trades a refresh token for a new token pair.
type RefreshCmd struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LogInResult struct {
	UserID       uuid.UUID
	AccessToken  string
	RefreshToken string
}
