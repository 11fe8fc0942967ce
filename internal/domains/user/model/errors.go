package model

import "errors"

const (
	ErrCodeUserNotFound       = "USR001"
	ErrCodeEmailTaken         = "USR002"
	ErrCodeInvalidCredentials = "USR003"
	ErrCodeUserInactive       = "USR004"
	ErrCodeInvalidRequest     = "USR005"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email is already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserInactive       = errors.New("user account is inactive")
)

// UserError is a coded error the handler layer can map to HTTP statuses
// without matching on message text.
type UserError struct {
	Code    string
	Message string
	Err     error
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Err
}

func NewUserError(code, message string, err error) *UserError {
	return &UserError{Code: code, Message: message, Err: err}
}
