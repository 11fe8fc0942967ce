package model

import "errors"

const (
	ErrCodeCategoryNotFound = "CAT001"
	ErrCodeNameTaken        = "CAT002"
	ErrCodeInvalidRequest   = "CAT003"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrNameTaken        = errors.New("category name is already in use")
)

type CategoryError struct {
	Code    string
	Message string
	Err     error
}

func (e *CategoryError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *CategoryError) Unwrap() error {
	return e.Err
}

func NewCategoryError(code, message string, err error) *CategoryError {
	return &CategoryError{Code: code, Message: message, Err: err}
}
