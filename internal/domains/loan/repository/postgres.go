package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"library-backend/internal/domains/loan/model"
	"library-backend/pkg/database"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const loanSelect = `
	SELECT l.id, l.user_id, l.book_id, l.loan_date, l.due_date, l.return_date,
	       l.extended, l.created_at, l.updated_at, u.email, b.title
	FROM loans l
	JOIN users u ON u.id = l.user_id
	JOIN books b ON b.id = l.book_id
`

func scanLoan(row pgx.Row) (*model.Loan, error) {
	var l model.Loan
	err := row.Scan(
		&l.ID,
		&l.UserID,
		&l.BookID,
		&l.LoanDate,
		&l.DueDate,
		&l.ReturnDate,
		&l.Extended,
		&l.CreatedAt,
		&l.UpdatedAt,
		&l.UserEmail,
		&l.BookTitle,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *postgresRepository) queryLoans(ctx context.Context, query string, args ...interface{}) ([]model.Loan, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query loans: %w", err)
	}
	defer rows.Close()

	var loans []model.Loan
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan loan: %w", err)
		}
		loans = append(loans, *loan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return loans, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Loan, error) {
	query := loanSelect + ` WHERE l.id = $1`

	loan, err := scanLoan(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrLoanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get loan by id: %w", err)
	}
	return loan, nil
}

func (r *postgresRepository) List(ctx context.Context, limit, offset int) ([]model.Loan, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM loans`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count loans: %w", err)
	}

	loans, err := r.queryLoans(ctx, loanSelect+` ORDER BY l.loan_date DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return loans, total, nil
}

func (r *postgresRepository) ListActive(ctx context.Context) ([]model.Loan, error) {
	return r.queryLoans(ctx, loanSelect+` WHERE l.return_date IS NULL ORDER BY l.due_date`)
}

func (r *postgresRepository) ListOverdue(ctx context.Context, now time.Time) ([]model.Loan, error) {
	return r.queryLoans(ctx,
		loanSelect+` WHERE l.return_date IS NULL AND l.due_date < $1 ORDER BY l.due_date`, now)
}

func (r *postgresRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Loan, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM loans WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count user loans: %w", err)
	}

	loans, err := r.queryLoans(ctx,
		loanSelect+` WHERE l.user_id = $1 ORDER BY l.loan_date DESC LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return loans, total, nil
}

func (r *postgresRepository) ListByBook(ctx context.Context, bookID uuid.UUID, limit, offset int) ([]model.Loan, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM loans WHERE book_id = $1`, bookID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count book loans: %w", err)
	}

	loans, err := r.queryLoans(ctx,
		loanSelect+` WHERE l.book_id = $1 ORDER BY l.loan_date DESC LIMIT $2 OFFSET $3`, bookID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return loans, total, nil
}

func (r *postgresRepository) ListDueBetween(ctx context.Context, from, to time.Time) ([]model.Loan, error) {
	return r.queryLoans(ctx,
		loanSelect+` WHERE l.return_date IS NULL AND l.due_date >= $1 AND l.due_date < $2 ORDER BY l.due_date`,
		from, to)
}

func (r *postgresRepository) CountActiveByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM loans WHERE user_id = $1 AND return_date IS NULL`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count active loans: %w", err)
	}
	return count, nil
}

func (r *postgresRepository) HasActiveLoan(ctx context.Context, userID, bookID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM loans WHERE user_id = $1 AND book_id = $2 AND return_date IS NULL)`,
		userID, bookID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check active loan: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) Create(ctx context.Context, loan *model.Loan) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		// The quantity guard is in the WHERE clause so two concurrent
		// borrows of the last copy cannot both succeed.
		tag, err := tx.Exec(ctx,
			`UPDATE books SET quantity = quantity - 1, updated_at = NOW() WHERE id = $1 AND quantity > 0`,
			loan.BookID)
		if err != nil {
			return fmt.Errorf("decrement book quantity: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return model.ErrBookUnavailable
		}

		query := `
			INSERT INTO loans (id, user_id, book_id, loan_date, due_date, extended)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING created_at, updated_at
		`

		err = tx.QueryRow(ctx, query,
			loan.ID,
			loan.UserID,
			loan.BookID,
			loan.LoanDate,
			loan.DueDate,
			loan.Extended,
		).Scan(&loan.CreatedAt, &loan.UpdatedAt)
		if err != nil {
			return fmt.Errorf("create loan: %w", err)
		}
		return nil
	})
}

func (r *postgresRepository) MarkReturned(ctx context.Context, id uuid.UUID, returnedAt time.Time) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		var bookID uuid.UUID
		err := tx.QueryRow(ctx,
			`UPDATE loans SET return_date = $2, updated_at = NOW()
			 WHERE id = $1 AND return_date IS NULL
			 RETURNING book_id`,
			id, returnedAt).Scan(&bookID)
		if errors.Is(err, pgx.ErrNoRows) {
			// Either missing or already returned, the caller decides.
			var exists bool
			if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM loans WHERE id = $1)`, id).Scan(&exists); err != nil {
				return fmt.Errorf("check loan exists: %w", err)
			}
			if !exists {
				return model.ErrLoanNotFound
			}
			return model.ErrAlreadyReturned
		}
		if err != nil {
			return fmt.Errorf("mark loan returned: %w", err)
		}

		_, err = tx.Exec(ctx,
			`UPDATE books SET quantity = quantity + 1, updated_at = NOW() WHERE id = $1`, bookID)
		if err != nil {
			return fmt.Errorf("increment book quantity: %w", err)
		}
		return nil
	})
}

func (r *postgresRepository) Extend(ctx context.Context, id uuid.UUID, newDue time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE loans SET due_date = $2, extended = TRUE, updated_at = NOW()
		 WHERE id = $1 AND return_date IS NULL AND NOT extended`,
		id, newDue)
	if err != nil {
		return fmt.Errorf("extend loan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrExtendConflict
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		var bookID uuid.UUID
		var returnDate *time.Time
		err := tx.QueryRow(ctx,
			`SELECT book_id, return_date FROM loans WHERE id = $1 FOR UPDATE`, id).Scan(&bookID, &returnDate)
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrLoanNotFound
		}
		if err != nil {
			return fmt.Errorf("lock loan: %w", err)
		}

		// An active loan still holds a copy, give it back before the
		// record disappears.
		if returnDate == nil {
			_, err = tx.Exec(ctx,
				`UPDATE books SET quantity = quantity + 1, updated_at = NOW() WHERE id = $1`, bookID)
			if err != nil {
				return fmt.Errorf("restore book quantity: %w", err)
			}
		}

		if _, err := tx.Exec(ctx, `DELETE FROM loans WHERE id = $1`, id); err != nil {
			return fmt.Errorf("delete loan: %w", err)
		}
		return nil
	})
}
