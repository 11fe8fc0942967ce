package service

import (
	"context"

	"github.com/google/uuid"

	"library-backend/internal/domains/loan/model"
)

// ServiceInterface is the loan business contract. Operations that act
// on a single loan take the caller's identity so members can only
// touch their own loans.
type ServiceInterface interface {
	Create(ctx context.Context, actorID uuid.UUID, isAdmin bool, req model.CreateLoanRequest) (*model.Loan, error)
	Return(ctx context.Context, id, actorID uuid.UUID, isAdmin bool) (*model.Loan, error)
	Extend(ctx context.Context, id, actorID uuid.UUID, isAdmin bool, req model.ExtendLoanRequest) (*model.Loan, error)
	GetByID(ctx context.Context, id, actorID uuid.UUID, isAdmin bool) (*model.Loan, error)
	List(ctx context.Context, limit, offset int) ([]model.Loan, int, error)
	ListActive(ctx context.Context) ([]model.Loan, error)
	ListOverdue(ctx context.Context) ([]model.OverdueLoan, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Loan, int, error)
	ListByBook(ctx context.Context, bookID uuid.UUID, limit, offset int) ([]model.Loan, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
