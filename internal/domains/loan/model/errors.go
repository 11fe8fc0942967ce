package model

import "errors"

const (
	ErrCodeLoanNotFound    = "LOAN001"
	ErrCodeUserNotFound    = "LOAN002"
	ErrCodeUserInactive    = "LOAN003"
	ErrCodeBookNotFound    = "LOAN004"
	ErrCodeBookUnavailable = "LOAN005"
	ErrCodeDuplicateLoan   = "LOAN006"
	ErrCodeLimitReached    = "LOAN007"
	ErrCodeAlreadyReturned = "LOAN008"
	ErrCodeOverdue         = "LOAN009"
	ErrCodeAlreadyExtended = "LOAN010"
	ErrCodeInvalidRequest  = "LOAN011"
)

var (
	ErrLoanNotFound    = errors.New("loan not found")
	ErrBookUnavailable = errors.New("no copies available")
	ErrAlreadyReturned = errors.New("loan already returned")
	ErrExtendConflict  = errors.New("loan cannot be extended")
)

type LoanError struct {
	Code    string
	Message string
	Err     error
}

func (e *LoanError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *LoanError) Unwrap() error {
	return e.Err
}

func NewLoanError(code, message string, err error) *LoanError {
	return &LoanError{Code: code, Message: message, Err: err}
}
