package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Book is a catalog entry. Quantity tracks copies currently available
// for lending, not the total owned by the library.
type Book struct {
	ID              uuid.UUID      `json:"id"`
	Title           string         `json:"title"`
	Author          string         `json:"author"`
	ISBN            string         `json:"isbn"`
	PublicationYear int            `json:"publication_year"`
	Quantity        int            `json:"quantity"`
	Publisher       *string        `json:"publisher,omitempty"`
	Language        *string        `json:"language,omitempty"`
	Pages           *int           `json:"pages,omitempty"`
	Description     *string        `json:"description,omitempty"`
	Categories      pq.StringArray `json:"categories"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// Available reports whether at least one copy can be lent out.
func (b *Book) Available() bool {
	return b.Quantity > 0
}
