package repository

import (
	"context"
	"time"

	"library-backend/internal/domains/stats/model"
)

// RepositoryInterface runs the aggregation queries behind the
// statistics endpoints. OverdueDays is the summed whole days past due
// across all overdue loans, the fine rate is applied by the caller.
type RepositoryInterface interface {
	General(ctx context.Context, now time.Time) (*model.GeneralStats, error)
	OverdueDays(ctx context.Context, now time.Time) (int64, error)
	MostBorrowedBooks(ctx context.Context, limit int) ([]model.MostBorrowedBook, error)
	MostActiveUsers(ctx context.Context, limit int) ([]model.MostActiveUser, error)
	MonthlyLoans(ctx context.Context, now time.Time, months int) ([]model.MonthlyLoanCount, error)
}
