package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an administrator account. PasswordHash and RefreshToken never
// leave the service layer; handlers render users through their own view.
type User struct {
	ID           uuid.UUID
	FullName     string
	Username     string // always lower-case
	PasswordHash string
	RefreshToken string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
