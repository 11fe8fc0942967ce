package service_test

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	bookmodel "library-backend/internal/domains/book/model"
	"library-backend/internal/domains/loan/model"
	usermodel "library-backend/internal/domains/user/model"
)

// In-memory stand-ins for the postgres repositories. The loan fake
// shares the book fake so quantity moves with loan writes, matching
// the transactional coupling of the real storage layer.

type fakeUserRepo struct {
	users map[uuid.UUID]*usermodel.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*usermodel.User)}
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*usermodel.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, usermodel.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*usermodel.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, usermodel.ErrUserNotFound
}

func (r *fakeUserRepo) List(_ context.Context, limit, offset int) ([]usermodel.User, int, error) {
	var users []usermodel.User
	for _, user := range r.users {
		users = append(users, *user)
	}
	return users, len(users), nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *usermodel.User) error {
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *usermodel.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return usermodel.ErrUserNotFound
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.users[id]; !ok {
		return usermodel.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

type fakeBookRepo struct {
	books map[uuid.UUID]*bookmodel.Book
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{books: make(map[uuid.UUID]*bookmodel.Book)}
}

func (r *fakeBookRepo) GetByID(_ context.Context, id uuid.UUID) (*bookmodel.Book, error) {
	book, ok := r.books[id]
	if !ok {
		return nil, bookmodel.ErrBookNotFound
	}
	copied := *book
	return &copied, nil
}

func (r *fakeBookRepo) GetByISBN(_ context.Context, isbn string) (*bookmodel.Book, error) {
	for _, book := range r.books {
		if book.ISBN == isbn {
			copied := *book
			return &copied, nil
		}
	}
	return nil, bookmodel.ErrBookNotFound
}

func (r *fakeBookRepo) List(_ context.Context, limit, offset int) ([]bookmodel.Book, int, error) {
	var books []bookmodel.Book
	for _, book := range r.books {
		books = append(books, *book)
	}
	return books, len(books), nil
}

func (r *fakeBookRepo) Search(_ context.Context, _ bookmodel.SearchQuery, limit, offset int) ([]bookmodel.Book, int, error) {
	return nil, 0, nil
}

func (r *fakeBookRepo) Create(_ context.Context, book *bookmodel.Book, _ []uuid.UUID) error {
	copied := *book
	r.books[book.ID] = &copied
	return nil
}

func (r *fakeBookRepo) Update(_ context.Context, book *bookmodel.Book, _ []uuid.UUID) error {
	if _, ok := r.books[book.ID]; !ok {
		return bookmodel.ErrBookNotFound
	}
	copied := *book
	r.books[book.ID] = &copied
	return nil
}

func (r *fakeBookRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.books[id]; !ok {
		return bookmodel.ErrBookNotFound
	}
	delete(r.books, id)
	return nil
}

func (r *fakeBookRepo) AdjustQuantity(_ context.Context, id uuid.UUID, delta int) error {
	book, ok := r.books[id]
	if !ok {
		return bookmodel.ErrBookNotFound
	}
	if book.Quantity+delta < 0 {
		return bookmodel.ErrNegativeQuantity
	}
	book.Quantity += delta
	return nil
}

type fakeLoanRepo struct {
	loans map[uuid.UUID]*model.Loan
	books *fakeBookRepo
}

func newFakeLoanRepo(books *fakeBookRepo) *fakeLoanRepo {
	return &fakeLoanRepo{
		loans: make(map[uuid.UUID]*model.Loan),
		books: books,
	}
}

func (r *fakeLoanRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Loan, error) {
	loan, ok := r.loans[id]
	if !ok {
		return nil, model.ErrLoanNotFound
	}
	copied := *loan
	return &copied, nil
}

func (r *fakeLoanRepo) all() []model.Loan {
	loans := make([]model.Loan, 0, len(r.loans))
	for _, loan := range r.loans {
		loans = append(loans, *loan)
	}
	sort.Slice(loans, func(i, j int) bool {
		return loans[i].LoanDate.Before(loans[j].LoanDate)
	})
	return loans
}

func (r *fakeLoanRepo) List(_ context.Context, limit, offset int) ([]model.Loan, int, error) {
	loans := r.all()
	return loans, len(loans), nil
}

func (r *fakeLoanRepo) ListActive(_ context.Context) ([]model.Loan, error) {
	var active []model.Loan
	for _, loan := range r.all() {
		if loan.IsActive() {
			active = append(active, loan)
		}
	}
	return active, nil
}

func (r *fakeLoanRepo) ListOverdue(_ context.Context, now time.Time) ([]model.Loan, error) {
	var overdue []model.Loan
	for _, loan := range r.all() {
		if loan.IsOverdue(now) {
			overdue = append(overdue, loan)
		}
	}
	return overdue, nil
}

func (r *fakeLoanRepo) ListByUser(_ context.Context, userID uuid.UUID, limit, offset int) ([]model.Loan, int, error) {
	var loans []model.Loan
	for _, loan := range r.all() {
		if loan.UserID == userID {
			loans = append(loans, loan)
		}
	}
	return loans, len(loans), nil
}

func (r *fakeLoanRepo) ListByBook(_ context.Context, bookID uuid.UUID, limit, offset int) ([]model.Loan, int, error) {
	var loans []model.Loan
	for _, loan := range r.all() {
		if loan.BookID == bookID {
			loans = append(loans, loan)
		}
	}
	return loans, len(loans), nil
}

func (r *fakeLoanRepo) ListDueBetween(_ context.Context, from, to time.Time) ([]model.Loan, error) {
	var loans []model.Loan
	for _, loan := range r.all() {
		if loan.IsActive() && !loan.DueDate.Before(from) && loan.DueDate.Before(to) {
			loans = append(loans, loan)
		}
	}
	return loans, nil
}

func (r *fakeLoanRepo) CountActiveByUser(_ context.Context, userID uuid.UUID) (int, error) {
	count := 0
	for _, loan := range r.loans {
		if loan.UserID == userID && loan.IsActive() {
			count++
		}
	}
	return count, nil
}

func (r *fakeLoanRepo) HasActiveLoan(_ context.Context, userID, bookID uuid.UUID) (bool, error) {
	for _, loan := range r.loans {
		if loan.UserID == userID && loan.BookID == bookID && loan.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeLoanRepo) Create(_ context.Context, loan *model.Loan) error {
	book, ok := r.books.books[loan.BookID]
	if !ok || book.Quantity <= 0 {
		return model.ErrBookUnavailable
	}
	book.Quantity--

	copied := *loan
	r.loans[loan.ID] = &copied
	return nil
}

func (r *fakeLoanRepo) MarkReturned(_ context.Context, id uuid.UUID, returnedAt time.Time) error {
	loan, ok := r.loans[id]
	if !ok {
		return model.ErrLoanNotFound
	}
	if loan.ReturnDate != nil {
		return model.ErrAlreadyReturned
	}
	loan.ReturnDate = &returnedAt

	if book, ok := r.books.books[loan.BookID]; ok {
		book.Quantity++
	}
	return nil
}

func (r *fakeLoanRepo) Extend(_ context.Context, id uuid.UUID, newDue time.Time) error {
	loan, ok := r.loans[id]
	if !ok {
		return model.ErrLoanNotFound
	}
	if loan.ReturnDate != nil || loan.Extended {
		return model.ErrExtendConflict
	}
	loan.DueDate = newDue
	loan.Extended = true
	return nil
}

func (r *fakeLoanRepo) Delete(_ context.Context, id uuid.UUID) error {
	loan, ok := r.loans[id]
	if !ok {
		return model.ErrLoanNotFound
	}
	if loan.ReturnDate == nil {
		if book, ok := r.books.books[loan.BookID]; ok {
			book.Quantity++
		}
	}
	delete(r.loans, id)
	return nil
}

// fakeCache is a no-op cache, every read misses.
type fakeCache struct{}

func (f *fakeCache) Get(_ context.Context, _ string, _ interface{}) (bool, error) { return false, nil }
func (f *fakeCache) Set(_ context.Context, _ string, _ interface{}, _ time.Duration) error {
	return nil
}
func (f *fakeCache) Delete(_ context.Context, _ ...string) error        { return nil }
func (f *fakeCache) DeletePattern(_ context.Context, _ string) error    { return nil }
func (f *fakeCache) Ping(_ context.Context) error                       { return nil }
