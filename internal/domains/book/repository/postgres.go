package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"library-backend/internal/domains/book/model"
	"library-backend/pkg/database"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

// bookSelect aggregates category names into a text array so a book is
// always read with its categories in a single round trip.
const bookSelect = `
	SELECT b.id, b.title, b.author, b.isbn, b.publication_year, b.quantity,
	       b.publisher, b.language, b.pages, b.description,
	       COALESCE(array_agg(c.name ORDER BY c.name) FILTER (WHERE c.name IS NOT NULL), '{}'),
	       b.created_at, b.updated_at
	FROM books b
	LEFT JOIN book_categories bc ON bc.book_id = b.id
	LEFT JOIN categories c ON c.id = bc.category_id
`

const bookGroup = ` GROUP BY b.id`

func scanBook(row pgx.Row) (*model.Book, error) {
	var b model.Book
	err := row.Scan(
		&b.ID,
		&b.Title,
		&b.Author,
		&b.ISBN,
		&b.PublicationYear,
		&b.Quantity,
		&b.Publisher,
		&b.Language,
		&b.Pages,
		&b.Description,
		&b.Categories,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	query := bookSelect + ` WHERE b.id = $1` + bookGroup

	book, err := scanBook(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get book by id: %w", err)
	}
	return book, nil
}

func (r *postgresRepository) GetByISBN(ctx context.Context, isbn string) (*model.Book, error) {
	query := bookSelect + ` WHERE b.isbn = $1` + bookGroup

	book, err := scanBook(r.pool.QueryRow(ctx, query, isbn))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get book by isbn: %w", err)
	}
	return book, nil
}

func (r *postgresRepository) List(ctx context.Context, limit, offset int) ([]model.Book, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM books`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}

	query := bookSelect + bookGroup + ` ORDER BY b.created_at DESC LIMIT $1 OFFSET $2`

	books, err := r.queryBooks(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

func (r *postgresRepository) Search(ctx context.Context, q model.SearchQuery, limit, offset int) ([]model.Book, int, error) {
	where := ` WHERE ($1 = '' OR b.title ILIKE '%' || $1 || '%')
	             AND ($2 = '' OR b.author ILIKE '%' || $2 || '%')`

	var total int
	countQuery := `SELECT COUNT(*) FROM books b` + where
	if err := r.pool.QueryRow(ctx, countQuery, q.Title, q.Author).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count books search: %w", err)
	}

	query := bookSelect + where + bookGroup + ` ORDER BY b.title LIMIT $3 OFFSET $4`

	books, err := r.queryBooks(ctx, query, q.Title, q.Author, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

func (r *postgresRepository) queryBooks(ctx context.Context, query string, args ...interface{}) ([]model.Book, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	defer rows.Close()

	var books []model.Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, *book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return books, nil
}

func (r *postgresRepository) Create(ctx context.Context, book *model.Book, categoryIDs []uuid.UUID) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			INSERT INTO books (id, title, author, isbn, publication_year, quantity,
			                   publisher, language, pages, description)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING created_at, updated_at
		`

		err := tx.QueryRow(ctx, query,
			book.ID,
			book.Title,
			book.Author,
			book.ISBN,
			book.PublicationYear,
			book.Quantity,
			book.Publisher,
			book.Language,
			book.Pages,
			book.Description,
		).Scan(&book.CreatedAt, &book.UpdatedAt)
		if err != nil {
			return fmt.Errorf("create book: %w", err)
		}

		return linkCategories(ctx, tx, book.ID, categoryIDs)
	})
}

func (r *postgresRepository) Update(ctx context.Context, book *model.Book, categoryIDs []uuid.UUID) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			UPDATE books
			SET title = $2, author = $3, isbn = $4, publication_year = $5,
			    quantity = $6, publisher = $7, language = $8, pages = $9,
			    description = $10, updated_at = NOW()
			WHERE id = $1
			RETURNING updated_at
		`

		err := tx.QueryRow(ctx, query,
			book.ID,
			book.Title,
			book.Author,
			book.ISBN,
			book.PublicationYear,
			book.Quantity,
			book.Publisher,
			book.Language,
			book.Pages,
			book.Description,
		).Scan(&book.UpdatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrBookNotFound
		}
		if err != nil {
			return fmt.Errorf("update book: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM book_categories WHERE book_id = $1`, book.ID); err != nil {
			return fmt.Errorf("unlink categories: %w", err)
		}

		return linkCategories(ctx, tx, book.ID, categoryIDs)
	})
}

func linkCategories(ctx context.Context, tx pgx.Tx, bookID uuid.UUID, categoryIDs []uuid.UUID) error {
	for _, categoryID := range categoryIDs {
		_, err := tx.Exec(ctx,
			`INSERT INTO book_categories (book_id, category_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			bookID, categoryID,
		)
		if err != nil {
			return fmt.Errorf("link category: %w", err)
		}
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}
	return nil
}

func (r *postgresRepository) AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) error {
	query := `
		UPDATE books
		SET quantity = quantity + $2, updated_at = NOW()
		WHERE id = $1 AND quantity + $2 >= 0
	`

	tag, err := r.pool.Exec(ctx, query, id, delta)
	if err != nil {
		return fmt.Errorf("adjust quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Distinguish a missing book from a change that would go negative.
		var exists bool
		if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM books WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("check book exists: %w", err)
		}
		if !exists {
			return model.ErrBookNotFound
		}
		return model.ErrNegativeQuantity
	}
	return nil
}
