package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// CreateLoanRequest starts a loan. UserID is honored for admins only;
// members always borrow for themselves. PeriodDays overrides the
// configured loan period and is deliberately unconstrained, operators
// use negative values to backfill loans that are already overdue.
type CreateLoanRequest struct {
	UserID     *uuid.UUID `json:"user_id"`
	BookID     uuid.UUID  `json:"book_id"`
	PeriodDays *int       `json:"loan_period_days"`
}

func (r CreateLoanRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BookID, validation.Required, validation.By(notNilUUID)),
	)
}

// ExtendLoanRequest pushes the due date out. Days falls back to the
// configured extension period when omitted.
type ExtendLoanRequest struct {
	Days *int `json:"days"`
}

func (r ExtendLoanRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Days, validation.By(optionalPositiveDays)),
	)
}

func notNilUUID(value interface{}) error {
	id, ok := value.(uuid.UUID)
	if !ok || id == uuid.Nil {
		return validation.NewError("validation_required", "cannot be blank")
	}
	return nil
}

// optionalPositiveDays rejects zero and negative day counts while still
// allowing the field to be omitted.
func optionalPositiveDays(value interface{}) error {
	days, ok := value.(*int)
	if !ok || days == nil {
		return nil
	}
	if *days < 1 {
		return validation.NewError("validation_min_days", "must be at least 1 day")
	}
	return nil
}
