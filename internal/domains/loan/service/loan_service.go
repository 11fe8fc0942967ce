package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"library-backend/internal/config"
	bookmodel "library-backend/internal/domains/book/model"
	bookrepository "library-backend/internal/domains/book/repository"
	"library-backend/internal/domains/loan/model"
	"library-backend/internal/domains/loan/repository"
	usermodel "library-backend/internal/domains/user/model"
	userrepository "library-backend/internal/domains/user/repository"
	"library-backend/pkg/cache"
	"library-backend/pkg/logger"
)

type loanService struct {
	repo   repository.RepositoryInterface
	users  userrepository.RepositoryInterface
	books  bookrepository.RepositoryInterface
	cache  cache.Cache
	config config.LoanConfig
}

func NewLoanService(
	repo repository.RepositoryInterface,
	users userrepository.RepositoryInterface,
	books bookrepository.RepositoryInterface,
	cacheClient cache.Cache,
	loanConfig config.LoanConfig,
) ServiceInterface {
	return &loanService{
		repo:   repo,
		users:  users,
		books:  books,
		cache:  cacheClient,
		config: loanConfig,
	}
}

func (s *loanService) Create(ctx context.Context, actorID uuid.UUID, isAdmin bool, req model.CreateLoanRequest) (*model.Loan, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewLoanError(model.ErrCodeInvalidRequest, "Invalid loan request", err)
	}

	borrowerID := actorID
	if req.UserID != nil && isAdmin {
		borrowerID = *req.UserID
	}

	user, err := s.users.GetByID(ctx, borrowerID)
	if errors.Is(err, usermodel.ErrUserNotFound) {
		return nil, model.NewLoanError(model.ErrCodeUserNotFound, "User not found", err)
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, model.NewLoanError(model.ErrCodeUserInactive, "User account is deactivated", nil)
	}

	book, err := s.books.GetByID(ctx, req.BookID)
	if errors.Is(err, bookmodel.ErrBookNotFound) {
		return nil, model.NewLoanError(model.ErrCodeBookNotFound, "Book not found", err)
	}
	if err != nil {
		return nil, err
	}
	if !book.Available() {
		return nil, model.NewLoanError(model.ErrCodeBookUnavailable, "No copies of this book are available", model.ErrBookUnavailable)
	}

	hasActive, err := s.repo.HasActiveLoan(ctx, borrowerID, req.BookID)
	if err != nil {
		return nil, err
	}
	if hasActive {
		return nil, model.NewLoanError(model.ErrCodeDuplicateLoan, "User already has an active loan for this book", nil)
	}

	activeCount, err := s.repo.CountActiveByUser(ctx, borrowerID)
	if err != nil {
		return nil, err
	}
	if activeCount >= s.config.MaxActiveLoans {
		return nil, model.NewLoanError(model.ErrCodeLimitReached,
			fmt.Sprintf("User already has %d active loans", activeCount), nil)
	}

	periodDays := s.config.PeriodDays
	if req.PeriodDays != nil {
		periodDays = *req.PeriodDays
	}

	now := time.Now().UTC()
	loan := &model.Loan{
		ID:       uuid.New(),
		UserID:   borrowerID,
		BookID:   req.BookID,
		LoanDate: now,
		DueDate:  now.AddDate(0, 0, periodDays),
	}

	if err := s.repo.Create(ctx, loan); err != nil {
		// The availability check above raced with another borrow.
		if errors.Is(err, model.ErrBookUnavailable) {
			return nil, model.NewLoanError(model.ErrCodeBookUnavailable, "No copies of this book are available", err)
		}
		return nil, err
	}

	loan.UserEmail = user.Email
	loan.BookTitle = book.Title

	s.invalidate(ctx)

	logger.Info("loan created", map[string]interface{}{
		"loan_id": loan.ID,
		"user_id": borrowerID,
		"book_id": req.BookID,
		"due":     loan.DueDate,
	})

	return loan, nil
}

func (s *loanService) Return(ctx context.Context, id, actorID uuid.UUID, isAdmin bool) (*model.Loan, error) {
	loan, err := s.getOwned(ctx, id, actorID, isAdmin)
	if err != nil {
		return nil, err
	}

	if !loan.IsActive() {
		return nil, model.NewLoanError(model.ErrCodeAlreadyReturned, "Loan has already been returned", model.ErrAlreadyReturned)
	}

	returnedAt := time.Now().UTC()
	if err := s.repo.MarkReturned(ctx, id, returnedAt); err != nil {
		switch {
		case errors.Is(err, model.ErrLoanNotFound):
			return nil, model.NewLoanError(model.ErrCodeLoanNotFound, "Loan not found", err)
		case errors.Is(err, model.ErrAlreadyReturned):
			return nil, model.NewLoanError(model.ErrCodeAlreadyReturned, "Loan has already been returned", err)
		default:
			return nil, err
		}
	}

	loan.ReturnDate = &returnedAt

	s.invalidate(ctx)

	logger.Info("loan returned", map[string]interface{}{
		"loan_id": loan.ID,
		"book_id": loan.BookID,
	})

	return loan, nil
}

func (s *loanService) Extend(ctx context.Context, id, actorID uuid.UUID, isAdmin bool, req model.ExtendLoanRequest) (*model.Loan, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewLoanError(model.ErrCodeInvalidRequest, "Invalid extension request", err)
	}

	loan, err := s.getOwned(ctx, id, actorID, isAdmin)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	switch {
	case !loan.IsActive():
		return nil, model.NewLoanError(model.ErrCodeAlreadyReturned, "Loan has already been returned", model.ErrAlreadyReturned)
	case loan.IsOverdue(now):
		return nil, model.NewLoanError(model.ErrCodeOverdue, "Overdue loans cannot be extended", nil)
	case loan.Extended:
		return nil, model.NewLoanError(model.ErrCodeAlreadyExtended, "Loan has already been extended once", nil)
	}

	days := s.config.ExtensionDays
	if req.Days != nil {
		days = *req.Days
	}

	newDue := loan.DueDate.AddDate(0, 0, days)
	if err := s.repo.Extend(ctx, id, newDue); err != nil {
		if errors.Is(err, model.ErrExtendConflict) {
			return nil, model.NewLoanError(model.ErrCodeAlreadyExtended, "Loan has already been extended once", err)
		}
		return nil, err
	}

	loan.DueDate = newDue
	loan.Extended = true

	logger.Info("loan extended", map[string]interface{}{
		"loan_id": loan.ID,
		"due":     newDue,
	})

	return loan, nil
}

func (s *loanService) GetByID(ctx context.Context, id, actorID uuid.UUID, isAdmin bool) (*model.Loan, error) {
	return s.getOwned(ctx, id, actorID, isAdmin)
}

func (s *loanService) List(ctx context.Context, limit, offset int) ([]model.Loan, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *loanService) ListActive(ctx context.Context) ([]model.Loan, error) {
	return s.repo.ListActive(ctx)
}

func (s *loanService) ListOverdue(ctx context.Context) ([]model.OverdueLoan, error) {
	now := time.Now().UTC()
	loans, err := s.repo.ListOverdue(ctx, now)
	if err != nil {
		return nil, err
	}

	overdue := make([]model.OverdueLoan, 0, len(loans))
	for _, loan := range loans {
		overdue = append(overdue, model.OverdueLoan{
			Loan:        loan,
			DaysOverdue: loan.DaysOverdue(now),
			Fine:        loan.Fine(now, s.config.FinePerDay),
		})
	}
	return overdue, nil
}

func (s *loanService) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Loan, int, error) {
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

func (s *loanService) ListByBook(ctx context.Context, bookID uuid.UUID, limit, offset int) ([]model.Loan, int, error) {
	return s.repo.ListByBook(ctx, bookID, limit, offset)
}

func (s *loanService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, model.ErrLoanNotFound) {
			return model.NewLoanError(model.ErrCodeLoanNotFound, "Loan not found", err)
		}
		return err
	}

	s.invalidate(ctx)

	logger.Info("loan deleted", map[string]interface{}{"loan_id": id})

	return nil
}

// getOwned fetches a loan and hides it from members who do not own it.
func (s *loanService) getOwned(ctx context.Context, id, actorID uuid.UUID, isAdmin bool) (*model.Loan, error) {
	loan, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, model.ErrLoanNotFound) {
		return nil, model.NewLoanError(model.ErrCodeLoanNotFound, "Loan not found", err)
	}
	if err != nil {
		return nil, err
	}

	if !isAdmin && loan.UserID != actorID {
		return nil, model.NewLoanError(model.ErrCodeLoanNotFound, "Loan not found", model.ErrLoanNotFound)
	}

	return loan, nil
}

// invalidate drops cached book and statistics entries after any write
// that changes quantities or loan counts.
func (s *loanService) invalidate(ctx context.Context) {
	for _, pattern := range []string{"books:*", "stats:*"} {
		if err := s.cache.DeletePattern(ctx, pattern); err != nil {
			logger.Warn("cache invalidation failed", map[string]interface{}{
				"pattern": pattern,
				"error":   err.Error(),
			})
		}
	}
}
