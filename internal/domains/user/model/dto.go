package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// RegisterRequest creates a new member account.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			is.Email.Error("invalid email format"),
			validation.Length(5, 255),
		),
		validation.Field(&r.Password,
			validation.Required.Error("password is required"),
			validation.Length(8, 128).Error("password must be 8-128 characters"),
		),
		validation.Field(&r.FullName,
			validation.Required.Error("full name is required"),
			validation.Length(2, 100),
		),
	)
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// LoginResponse carries the JWT pair plus the authenticated user.
type LoginResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         UserDTO   `json:"user"`
}

// UpdateProfileRequest lets a member change their own name or password.
type UpdateProfileRequest struct {
	FullName *string `json:"full_name"`
	Password *string `json:"password"`
}

func (r UpdateProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FullName, validation.NilOrNotEmpty, validation.Length(2, 100)),
		validation.Field(&r.Password, validation.NilOrNotEmpty, validation.Length(8, 128)),
	)
}

// AdminUpdateUserRequest is the admin-side user update.
type AdminUpdateUserRequest struct {
	Email    *string `json:"email"`
	FullName *string `json:"full_name"`
	Password *string `json:"password"`
	IsActive *bool   `json:"is_active"`
	IsAdmin  *bool   `json:"is_admin"`
}

func (r AdminUpdateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.NilOrNotEmpty, is.Email),
		validation.Field(&r.FullName, validation.NilOrNotEmpty, validation.Length(2, 100)),
		validation.Field(&r.Password, validation.NilOrNotEmpty, validation.Length(8, 128)),
	)
}

// SetStatusRequest toggles the active flag.
type SetStatusRequest struct {
	IsActive bool `json:"is_active"`
}

// SetRoleRequest toggles the admin flag.
type SetRoleRequest struct {
	IsAdmin bool `json:"is_admin"`
}
