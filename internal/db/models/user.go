package models

import (
	"time"

	"github.com/google/uuid"
)

// AdminUser is an account that can manage video entries.
type AdminUser struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	IsAdmin      bool      `json:"is_admin" db:"is_admin"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// NewAdminUser creates a new AdminUser. The ID is assigned at insert time.
func NewAdminUser(email, passwordHash string, isAdmin bool) *AdminUser {
	return &AdminUser{
		Email:        email,
		PasswordHash: passwordHash,
		IsAdmin:      isAdmin,
		CreatedAt:    time.Now(),
	}
}
