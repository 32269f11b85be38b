// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered person who can belong to groups.
type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	Phone        string
	UPIID        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser creates a new User.
func NewUser(email, name, passwordHash string) *User {
	now := time.Now().UTC()
	return &User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// UpdateProfile replaces the editable profile fields.
func (u *User) UpdateProfile(name, phone, upiID string) {
	u.Name = name
	u.Phone = phone
	u.UPIID = upiID
	u.UpdatedAt = time.Now().UTC()
}
