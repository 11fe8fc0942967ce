package model

import "errors"

const (
	ErrCodeBookNotFound     = "BOOK001"
	ErrCodeISBNTaken        = "BOOK002"
	ErrCodeNegativeQuantity = "BOOK003"
	ErrCodeInvalidRequest   = "BOOK004"
)

var (
	ErrBookNotFound     = errors.New("book not found")
	ErrISBNTaken        = errors.New("isbn is already in use")
	ErrNegativeQuantity = errors.New("quantity cannot drop below zero")
)

type BookError struct {
	Code    string
	Message string
	Err     error
}

func (e *BookError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *BookError) Unwrap() error {
	return e.Err
}

func NewBookError(code, message string, err error) *BookError {
	return &BookError{Code: code, Message: message, Err: err}
}
