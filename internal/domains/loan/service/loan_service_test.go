package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/config"
	bookmodel "library-backend/internal/domains/book/model"
	"library-backend/internal/domains/loan/model"
	"library-backend/internal/domains/loan/service"
	usermodel "library-backend/internal/domains/user/model"
)

func testLoanConfig() config.LoanConfig {
	return config.LoanConfig{
		PeriodDays:     14,
		ExtensionDays:  7,
		MaxActiveLoans: 5,
		DueSoonDays:    2,
		FinePerDay:     decimal.RequireFromString("0.50"),
	}
}

type fixture struct {
	svc   service.ServiceInterface
	users *fakeUserRepo
	books *fakeBookRepo
	loans *fakeLoanRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	users := newFakeUserRepo()
	books := newFakeBookRepo()
	loans := newFakeLoanRepo(books)

	return &fixture{
		svc:   service.NewLoanService(loans, users, books, &fakeCache{}, testLoanConfig()),
		users: users,
		books: books,
		loans: loans,
	}
}

func (f *fixture) addUser(active bool) uuid.UUID {
	id := uuid.New()
	f.users.users[id] = &usermodel.User{
		ID:       id,
		Email:    id.String()[:8] + "@example.com",
		FullName: "Test Reader",
		IsActive: active,
	}
	return id
}

func (f *fixture) addBook(quantity int) uuid.UUID {
	id := uuid.New()
	f.books.books[id] = &bookmodel.Book{
		ID:       id,
		Title:    "The Go Programming Language",
		Author:   "Donovan",
		ISBN:     "9780134190440",
		Quantity: quantity,
	}
	return id
}

func requireLoanCode(t *testing.T, err error, code string) {
	t.Helper()
	var loanErr *model.LoanError
	require.ErrorAs(t, err, &loanErr)
	assert.Equal(t, code, loanErr.Code)
}

func TestCreateLoan(t *testing.T) {
	ctx := context.Background()

	t.Run("decrements quantity and sets dates", func(t *testing.T) {
		f := newFixture(t)
		userID := f.addUser(true)
		bookID := f.addBook(2)

		loan, err := f.svc.Create(ctx, userID, false, model.CreateLoanRequest{BookID: bookID})
		require.NoError(t, err)

		assert.Equal(t, userID, loan.UserID)
		assert.Equal(t, bookID, loan.BookID)
		assert.True(t, loan.IsActive())
		assert.Equal(t, 1, f.books.books[bookID].Quantity)

		wantDue := loan.LoanDate.AddDate(0, 0, 14)
		assert.WithinDuration(t, wantDue, loan.DueDate, time.Second)
		assert.WithinDuration(t, time.Now().UTC(), loan.LoanDate, 5*time.Second)
	})

	t.Run("member borrows for self even when user_id is set", func(t *testing.T) {
		f := newFixture(t)
		me := f.addUser(true)
		other := f.addUser(true)
		bookID := f.addBook(1)

		loan, err := f.svc.Create(ctx, me, false, model.CreateLoanRequest{UserID: &other, BookID: bookID})
		require.NoError(t, err)
		assert.Equal(t, me, loan.UserID)
	})

	t.Run("admin borrows on behalf of a member", func(t *testing.T) {
		f := newFixture(t)
		admin := f.addUser(true)
		member := f.addUser(true)
		bookID := f.addBook(1)

		loan, err := f.svc.Create(ctx, admin, true, model.CreateLoanRequest{UserID: &member, BookID: bookID})
		require.NoError(t, err)
		assert.Equal(t, member, loan.UserID)
	})

	t.Run("custom period overrides the default", func(t *testing.T) {
		f := newFixture(t)
		userID := f.addUser(true)
		bookID := f.addBook(1)
		period := 3

		loan, err := f.svc.Create(ctx, userID, false, model.CreateLoanRequest{BookID: bookID, PeriodDays: &period})
		require.NoError(t, err)
		assert.WithinDuration(t, loan.LoanDate.AddDate(0, 0, 3), loan.DueDate, time.Second)
	})

	t.Run("precondition failures", func(t *testing.T) {
		tests := []struct {
			name     string
			setup    func(f *fixture) (userID, bookID uuid.UUID)
			wantCode string
		}{
			{
				name: "unknown user",
				setup: func(f *fixture) (uuid.UUID, uuid.UUID) {
					return uuid.New(), f.addBook(1)
				},
				wantCode: model.ErrCodeUserNotFound,
			},
			{
				name: "deactivated user",
				setup: func(f *fixture) (uuid.UUID, uuid.UUID) {
					return f.addUser(false), f.addBook(1)
				},
				wantCode: model.ErrCodeUserInactive,
			},
			{
				name: "unknown book",
				setup: func(f *fixture) (uuid.UUID, uuid.UUID) {
					return f.addUser(true), uuid.New()
				},
				wantCode: model.ErrCodeBookNotFound,
			},
			{
				name: "no copies left",
				setup: func(f *fixture) (uuid.UUID, uuid.UUID) {
					return f.addUser(true), f.addBook(0)
				},
				wantCode: model.ErrCodeBookUnavailable,
			},
			{
				name: "duplicate active loan for same book",
				setup: func(f *fixture) (uuid.UUID, uuid.UUID) {
					userID := f.addUser(true)
					bookID := f.addBook(3)
					_, err := f.svc.Create(context.Background(), userID, false, model.CreateLoanRequest{BookID: bookID})
					require.NoError(t, err)
					return userID, bookID
				},
				wantCode: model.ErrCodeDuplicateLoan,
			},
			{
				name: "active loan limit reached",
				setup: func(f *fixture) (uuid.UUID, uuid.UUID) {
					userID := f.addUser(true)
					for i := 0; i < 5; i++ {
						_, err := f.svc.Create(context.Background(), userID, false,
							model.CreateLoanRequest{BookID: f.addBook(1)})
						require.NoError(t, err)
					}
					return userID, f.addBook(1)
				},
				wantCode: model.ErrCodeLimitReached,
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				f := newFixture(t)
				userID, bookID := tt.setup(f)

				_, err := f.svc.Create(ctx, userID, false, model.CreateLoanRequest{BookID: bookID})
				requireLoanCode(t, err, tt.wantCode)
			})
		}
	})

	t.Run("failed creation leaves quantity untouched", func(t *testing.T) {
		f := newFixture(t)
		userID := f.addUser(true)
		bookID := f.addBook(1)

		_, err := f.svc.Create(ctx, userID, false, model.CreateLoanRequest{BookID: bookID})
		require.NoError(t, err)

		_, err = f.svc.Create(ctx, userID, false, model.CreateLoanRequest{BookID: bookID})
		requireLoanCode(t, err, model.ErrCodeDuplicateLoan)
		assert.Equal(t, 0, f.books.books[bookID].Quantity)
	})

	t.Run("negative period creates an immediately overdue loan", func(t *testing.T) {
		f := newFixture(t)
		userID := f.addUser(true)
		bookID := f.addBook(1)
		period := -1

		loan, err := f.svc.Create(ctx, userID, false, model.CreateLoanRequest{BookID: bookID, PeriodDays: &period})
		require.NoError(t, err)
		assert.True(t, loan.IsActive())
		assert.True(t, loan.IsOverdue(time.Now().UTC()))

		active, err := f.svc.ListActive(ctx)
		require.NoError(t, err)
		require.Len(t, active, 1)

		overdue, err := f.svc.ListOverdue(ctx)
		require.NoError(t, err)
		require.Len(t, overdue, 1)
		assert.Equal(t, loan.ID, overdue[0].ID)
	})
}

func TestReturnLoan(t *testing.T) {
	ctx := context.Background()

	t.Run("restores quantity and stamps return date", func(t *testing.T) {
		f := newFixture(t)
		userID := f.addUser(true)
		bookID := f.addBook(1)

		loan, err := f.svc.Create(ctx, userID, false, model.CreateLoanRequest{BookID: bookID})
		require.NoError(t, err)
		require.Equal(t, 0, f.books.books[bookID].Quantity)

		returned, err := f.svc.Return(ctx, loan.ID, userID, false)
		require.NoError(t, err)
		require.NotNil(t, returned.ReturnDate)
		assert.False(t, returned.IsActive())
		assert.Equal(t, 1, f.books.books[bookID].Quantity)
	})

	t.Run("second return is rejected without touching quantity", func(t *testing.T) {
		f := newFixture(t)
		userID := f.addUser(true)
		bookID := f.addBook(1)

		loan, err := f.svc.Create(ctx, userID, false, model.CreateLoanRequest{BookID: bookID})
		require.NoError(t, err)

		_, err = f.svc.Return(ctx, loan.ID, userID, false)
		require.NoError(t, err)

		_, err = f.svc.Return(ctx, loan.ID, userID, false)
		requireLoanCode(t, err, model.ErrCodeAlreadyReturned)
		assert.Equal(t, 1, f.books.books[bookID].Quantity)
	})

	t.Run("unknown loan", func(t *testing.T) {
		f := newFixture(t)
		userID := f.addUser(true)

		_, err := f.svc.Return(ctx, uuid.New(), userID, false)
		requireLoanCode(t, err, model.ErrCodeLoanNotFound)
	})

	t.Run("borrow and return round trip", func(t *testing.T) {
		f := newFixture(t)
		userID := f.addUser(true)
		bookID := f.addBook(3)

		loan, err := f.svc.Create(ctx, userID, false, model.CreateLoanRequest{BookID: bookID})
		require.NoError(t, err)
		assert.Equal(t, 2, f.books.books[bookID].Quantity)

		_, err = f.svc.Return(ctx, loan.ID, userID, false)
		require.NoError(t, err)
		assert.Equal(t, 3, f.books.books[bookID].Quantity)

		// The same user can borrow the same book again after returning it.
		_, err = f.svc.Create(ctx, userID, false, model.CreateLoanRequest{BookID: bookID})
		require.NoError(t, err)
		assert.Equal(t, 2, f.books.books[bookID].Quantity)
	})
}

func TestExtendLoan(t *testing.T) {
	ctx := context.Background()

	t.Run("pushes the due date out once", func(t *testing.T) {
		f := newFixture(t)
		userID := f.addUser(true)
		bookID := f.addBook(1)

		loan, err := f.svc.Create(ctx, userID, false, model.CreateLoanRequest{BookID: bookID})
		require.NoError(t, err)
		originalDue := loan.DueDate

		extended, err := f.svc.Extend(ctx, loan.ID, userID, false, model.ExtendLoanRequest{})
		require.NoError(t, err)
		assert.True(t, extended.Extended)
		assert.WithinDuration(t, originalDue.AddDate(0, 0, 7), extended.DueDate, time.Second)
	})

	t.Run("second extension is rejected", func(t *testing.T) {
		f := newFixture(t)
		userID := f.addUser(true)
		bookID := f.addBook(1)

		loan, err := f.svc.Create(ctx, userID, false, model.CreateLoanRequest{BookID: bookID})
		require.NoError(t, err)

		_, err = f.svc.Extend(ctx, loan.ID, userID, false, model.ExtendLoanRequest{})
		require.NoError(t, err)

		_, err = f.svc.Extend(ctx, loan.ID, userID, false, model.ExtendLoanRequest{})
		requireLoanCode(t, err, model.ErrCodeAlreadyExtended)
	})

	t.Run("overdue loan cannot be extended", func(t *testing.T) {
		f := newFixture(t)
		userID := f.addUser(true)
		bookID := f.addBook(1)
		period := -1

		loan, err := f.svc.Create(ctx, userID, false, model.CreateLoanRequest{BookID: bookID, PeriodDays: &period})
		require.NoError(t, err)

		_, err = f.svc.Extend(ctx, loan.ID, userID, false, model.ExtendLoanRequest{})
		requireLoanCode(t, err, model.ErrCodeOverdue)
	})

	t.Run("returned loan cannot be extended", func(t *testing.T) {
		f := newFixture(t)
		userID := f.addUser(true)
		bookID := f.addBook(1)

		loan, err := f.svc.Create(ctx, userID, false, model.CreateLoanRequest{BookID: bookID})
		require.NoError(t, err)

		_, err = f.svc.Return(ctx, loan.ID, userID, false)
		require.NoError(t, err)

		_, err = f.svc.Extend(ctx, loan.ID, userID, false, model.ExtendLoanRequest{})
		requireLoanCode(t, err, model.ErrCodeAlreadyReturned)
	})

	t.Run("custom extension length", func(t *testing.T) {
		f := newFixture(t)
		userID := f.addUser(true)
		bookID := f.addBook(1)

		loan, err := f.svc.Create(ctx, userID, false, model.CreateLoanRequest{BookID: bookID})
		require.NoError(t, err)

		days := 3
		extended, err := f.svc.Extend(ctx, loan.ID, userID, false, model.ExtendLoanRequest{Days: &days})
		require.NoError(t, err)
		assert.WithinDuration(t, loan.DueDate.AddDate(0, 0, 3), extended.DueDate, time.Second)
	})
}

func TestLoanOwnership(t *testing.T) {
	ctx := context.Background()

	f := newFixture(t)
	owner := f.addUser(true)
	stranger := f.addUser(true)
	admin := f.addUser(true)
	bookID := f.addBook(1)

	loan, err := f.svc.Create(ctx, owner, false, model.CreateLoanRequest{BookID: bookID})
	require.NoError(t, err)

	t.Run("owner sees own loan", func(t *testing.T) {
		got, err := f.svc.GetByID(ctx, loan.ID, owner, false)
		require.NoError(t, err)
		assert.Equal(t, loan.ID, got.ID)
	})

	t.Run("other members get not found", func(t *testing.T) {
		_, err := f.svc.GetByID(ctx, loan.ID, stranger, false)
		requireLoanCode(t, err, model.ErrCodeLoanNotFound)

		_, err = f.svc.Return(ctx, loan.ID, stranger, false)
		requireLoanCode(t, err, model.ErrCodeLoanNotFound)

		_, err = f.svc.Extend(ctx, loan.ID, stranger, false, model.ExtendLoanRequest{})
		requireLoanCode(t, err, model.ErrCodeLoanNotFound)
	})

	t.Run("admin sees any loan", func(t *testing.T) {
		got, err := f.svc.GetByID(ctx, loan.ID, admin, true)
		require.NoError(t, err)
		assert.Equal(t, loan.ID, got.ID)
	})
}

func TestDeleteLoan(t *testing.T) {
	ctx := context.Background()

	t.Run("deleting an active loan restores the copy", func(t *testing.T) {
		f := newFixture(t)
		userID := f.addUser(true)
		bookID := f.addBook(1)

		loan, err := f.svc.Create(ctx, userID, false, model.CreateLoanRequest{BookID: bookID})
		require.NoError(t, err)
		require.Equal(t, 0, f.books.books[bookID].Quantity)

		require.NoError(t, f.svc.Delete(ctx, loan.ID))
		assert.Equal(t, 1, f.books.books[bookID].Quantity)
	})

	t.Run("deleting a returned loan leaves quantity alone", func(t *testing.T) {
		f := newFixture(t)
		userID := f.addUser(true)
		bookID := f.addBook(1)

		loan, err := f.svc.Create(ctx, userID, false, model.CreateLoanRequest{BookID: bookID})
		require.NoError(t, err)
		_, err = f.svc.Return(ctx, loan.ID, userID, false)
		require.NoError(t, err)

		require.NoError(t, f.svc.Delete(ctx, loan.ID))
		assert.Equal(t, 1, f.books.books[bookID].Quantity)
	})

	t.Run("unknown loan", func(t *testing.T) {
		f := newFixture(t)
		err := f.svc.Delete(ctx, uuid.New())
		requireLoanCode(t, err, model.ErrCodeLoanNotFound)
	})
}

func TestListOverdueFines(t *testing.T) {
	ctx := context.Background()

	f := newFixture(t)
	userID := f.addUser(true)
	bookID := f.addBook(1)
	period := -3

	_, err := f.svc.Create(ctx, userID, false, model.CreateLoanRequest{BookID: bookID, PeriodDays: &period})
	require.NoError(t, err)

	overdue, err := f.svc.ListOverdue(ctx)
	require.NoError(t, err)
	require.Len(t, overdue, 1)

	assert.Equal(t, 3, overdue[0].DaysOverdue)
	assert.True(t, overdue[0].Fine.Equal(decimal.RequireFromString("1.50")),
		"fine = %s", overdue[0].Fine)
}
