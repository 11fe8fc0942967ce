package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"library-backend/internal/domains/loan/model"
)

// RepositoryInterface is the loan storage contract. Create, MarkReturned
// and Delete are atomic with the matching book quantity change, so a
// crash between the two writes can never strand a copy.
type RepositoryInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Loan, error)
	List(ctx context.Context, limit, offset int) ([]model.Loan, int, error)
	ListActive(ctx context.Context) ([]model.Loan, error)
	ListOverdue(ctx context.Context, now time.Time) ([]model.Loan, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Loan, int, error)
	ListByBook(ctx context.Context, bookID uuid.UUID, limit, offset int) ([]model.Loan, int, error)
	ListDueBetween(ctx context.Context, from, to time.Time) ([]model.Loan, error)
	CountActiveByUser(ctx context.Context, userID uuid.UUID) (int, error)
	HasActiveLoan(ctx context.Context, userID, bookID uuid.UUID) (bool, error)

	// Create inserts the loan and decrements the book quantity in one
	// transaction. It returns model.ErrBookUnavailable when no copy is
	// left at commit time.
	Create(ctx context.Context, loan *model.Loan) error

	// MarkReturned stamps the return date and restores the book quantity.
	// It returns model.ErrAlreadyReturned when the loan is not active.
	MarkReturned(ctx context.Context, id uuid.UUID, returnedAt time.Time) error

	// Extend moves the due date and marks the loan extended. It returns
	// model.ErrExtendConflict when the loan was returned or already
	// extended by a concurrent request.
	Extend(ctx context.Context, id uuid.UUID, newDue time.Time) error

	// Delete removes the loan, restoring the book quantity first when the
	// loan is still active.
	Delete(ctx context.Context, id uuid.UUID) error
}
