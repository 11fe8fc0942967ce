package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Loan records a single lending of one book copy to one user. A loan
// with a nil ReturnDate is active and holds exactly one copy of the
// book out of the available quantity.
type Loan struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	BookID     uuid.UUID  `json:"book_id"`
	LoanDate   time.Time  `json:"loan_date"`
	DueDate    time.Time  `json:"due_date"`
	ReturnDate *time.Time `json:"return_date,omitempty"`
	Extended   bool       `json:"extended"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	// Joined for display, never written back.
	UserEmail string `json:"user_email,omitempty"`
	BookTitle string `json:"book_title,omitempty"`
}

// IsActive reports whether the book is still out.
func (l *Loan) IsActive() bool {
	return l.ReturnDate == nil
}

// IsOverdue reports whether the loan is active and past its due date.
func (l *Loan) IsOverdue(now time.Time) bool {
	return l.IsActive() && now.After(l.DueDate)
}

// DaysOverdue is the number of whole days past the due date, zero for
// loans that are not overdue.
func (l *Loan) DaysOverdue(now time.Time) int {
	if !l.IsOverdue(now) {
		return 0
	}
	return int(now.Sub(l.DueDate).Hours() / 24)
}

// Fine is the accrued late fee at the given per-day rate.
func (l *Loan) Fine(now time.Time, perDay decimal.Decimal) decimal.Decimal {
	return perDay.Mul(decimal.NewFromInt(int64(l.DaysOverdue(now))))
}

// OverdueLoan decorates a loan with its computed lateness and fine.
type OverdueLoan struct {
	Loan
	DaysOverdue int             `json:"days_overdue"`
	Fine        decimal.Decimal `json:"fine"`
}
