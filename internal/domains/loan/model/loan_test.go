package model_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"library-backend/internal/domains/loan/model"
)

func TestLoanState(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	returned := now.Add(-time.Hour)

	tests := []struct {
		name        string
		dueDate     time.Time
		returnDate  *time.Time
		wantActive  bool
		wantOverdue bool
		wantDays    int
	}{
		{
			name:       "active within the period",
			dueDate:    now.AddDate(0, 0, 7),
			wantActive: true,
		},
		{
			name:        "active past due",
			dueDate:     now.AddDate(0, 0, -3),
			wantActive:  true,
			wantOverdue: true,
			wantDays:    3,
		},
		{
			name:        "overdue by less than a day counts zero days",
			dueDate:     now.Add(-6 * time.Hour),
			wantActive:  true,
			wantOverdue: true,
			wantDays:    0,
		},
		{
			name:       "returned loans are never overdue",
			dueDate:    now.AddDate(0, 0, -30),
			returnDate: &returned,
		},
		{
			name:       "due exactly now is not overdue",
			dueDate:    now,
			wantActive: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loan := model.Loan{DueDate: tt.dueDate, ReturnDate: tt.returnDate}

			assert.Equal(t, tt.wantActive, loan.IsActive())
			assert.Equal(t, tt.wantOverdue, loan.IsOverdue(now))
			assert.Equal(t, tt.wantDays, loan.DaysOverdue(now))
		})
	}
}

func TestLoanFine(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	rate := decimal.RequireFromString("0.50")

	overdue := model.Loan{DueDate: now.AddDate(0, 0, -4)}
	assert.True(t, overdue.Fine(now, rate).Equal(decimal.RequireFromString("2.00")))

	onTime := model.Loan{DueDate: now.AddDate(0, 0, 4)}
	assert.True(t, onTime.Fine(now, rate).IsZero())
}
