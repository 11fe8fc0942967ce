package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"library-backend/internal/domains/stats/model"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) General(ctx context.Context, now time.Time) (*model.GeneralStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM books),
			(SELECT COALESCE(SUM(quantity), 0) FROM books),
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM users WHERE is_active),
			(SELECT COUNT(*) FROM loans),
			(SELECT COUNT(*) FROM loans WHERE return_date IS NULL),
			(SELECT COUNT(*) FROM loans WHERE return_date IS NULL AND due_date < $1)
	`

	var stats model.GeneralStats
	err := r.pool.QueryRow(ctx, query, now).Scan(
		&stats.TotalBooks,
		&stats.TotalCopies,
		&stats.TotalUsers,
		&stats.ActiveUsers,
		&stats.TotalLoans,
		&stats.ActiveLoans,
		&stats.OverdueLoans,
	)
	if err != nil {
		return nil, fmt.Errorf("general stats: %w", err)
	}
	return &stats, nil
}

func (r *postgresRepository) OverdueDays(ctx context.Context, now time.Time) (int64, error) {
	query := `
		SELECT COALESCE(SUM(FLOOR(EXTRACT(EPOCH FROM ($1::timestamptz - due_date)) / 86400)), 0)
		FROM loans
		WHERE return_date IS NULL AND due_date < $1
	`

	var days int64
	if err := r.pool.QueryRow(ctx, query, now).Scan(&days); err != nil {
		return 0, fmt.Errorf("overdue days: %w", err)
	}
	return days, nil
}

func (r *postgresRepository) MostBorrowedBooks(ctx context.Context, limit int) ([]model.MostBorrowedBook, error) {
	query := `
		SELECT b.id, b.title, b.author, COUNT(l.id) AS loan_count
		FROM books b
		JOIN loans l ON l.book_id = b.id
		GROUP BY b.id
		ORDER BY loan_count DESC, b.title
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("most borrowed books: %w", err)
	}
	defer rows.Close()

	var books []model.MostBorrowedBook
	for rows.Next() {
		var b model.MostBorrowedBook
		if err := rows.Scan(&b.BookID, &b.Title, &b.Author, &b.LoanCount); err != nil {
			return nil, fmt.Errorf("scan most borrowed book: %w", err)
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

func (r *postgresRepository) MostActiveUsers(ctx context.Context, limit int) ([]model.MostActiveUser, error) {
	query := `
		SELECT u.id, u.email, u.full_name, COUNT(l.id) AS loan_count
		FROM users u
		JOIN loans l ON l.user_id = u.id
		GROUP BY u.id
		ORDER BY loan_count DESC, u.email
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("most active users: %w", err)
	}
	defer rows.Close()

	var users []model.MostActiveUser
	for rows.Next() {
		var u model.MostActiveUser
		if err := rows.Scan(&u.UserID, &u.Email, &u.FullName, &u.LoanCount); err != nil {
			return nil, fmt.Errorf("scan most active user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *postgresRepository) MonthlyLoans(ctx context.Context, now time.Time, months int) ([]model.MonthlyLoanCount, error) {
	query := `
		SELECT to_char(date_trunc('month', loan_date), 'YYYY-MM') AS month, COUNT(*)
		FROM loans
		WHERE loan_date >= date_trunc('month', $1::timestamptz) - ($2 - 1) * INTERVAL '1 month'
		GROUP BY month
		ORDER BY month
	`

	rows, err := r.pool.Query(ctx, query, now, months)
	if err != nil {
		return nil, fmt.Errorf("monthly loans: %w", err)
	}
	defer rows.Close()

	var counts []model.MonthlyLoanCount
	for rows.Next() {
		var m model.MonthlyLoanCount
		if err := rows.Scan(&m.Month, &m.Count); err != nil {
			return nil, fmt.Errorf("scan monthly loans: %w", err)
		}
		counts = append(counts, m)
	}
	return counts, rows.Err()
}
