package model

import (
	"time"

	"github.com/google/uuid"
)

// Role strings carried in JWT claims.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// User is a library member or administrator.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FullName     string    `json:"full_name" db:"full_name"`

	// Only IsActive gates the ability to borrow.
	IsActive bool `json:"is_active" db:"is_active"`
	IsAdmin  bool `json:"is_admin" db:"is_admin"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func (u *User) Role() string {
	if u.IsAdmin {
		return RoleAdmin
	}
	return RoleMember
}

// UserDTO is the public projection of a User.
type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	IsActive  bool      `json:"is_active"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToDTO() UserDTO {
	return UserDTO{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		IsActive:  u.IsActive,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
	}
}
