package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GeneralStats is the library-wide dashboard summary.
type GeneralStats struct {
	TotalBooks       int             `json:"total_books"`
	TotalCopies      int             `json:"total_copies"`
	TotalUsers       int             `json:"total_users"`
	ActiveUsers      int             `json:"active_users"`
	TotalLoans       int             `json:"total_loans"`
	ActiveLoans      int             `json:"active_loans"`
	OverdueLoans     int             `json:"overdue_loans"`
	OutstandingFines decimal.Decimal `json:"outstanding_fines"`
}

type MostBorrowedBook struct {
	BookID    uuid.UUID `json:"book_id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	LoanCount int       `json:"loan_count"`
}

type MostActiveUser struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	LoanCount int       `json:"loan_count"`
}

// MonthlyLoanCount buckets loans by calendar month, formatted YYYY-MM.
type MonthlyLoanCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}
