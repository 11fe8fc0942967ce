package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

type BookRequest struct {
	Title           string   `json:"title"`
	Author          string   `json:"author"`
	ISBN            string   `json:"isbn"`
	PublicationYear int      `json:"publication_year"`
	Quantity        int      `json:"quantity"`
	Publisher       *string  `json:"publisher"`
	Language        *string  `json:"language"`
	Pages           *int     `json:"pages"`
	Description     *string  `json:"description"`
	Categories      []string `json:"categories"`
}

func (r BookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Author, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.ISBN, validation.Required, validation.Length(10, 17), is.PrintableASCII),
		validation.Field(&r.PublicationYear, validation.Required, validation.Min(1000), validation.Max(2100)),
		validation.Field(&r.Quantity, validation.Min(0)),
		validation.Field(&r.Pages, validation.Min(1)),
		validation.Field(&r.Categories, validation.Each(validation.Required, validation.Length(1, 50))),
	)
}

// AdjustQuantityRequest changes the available copy count by a signed delta.
type AdjustQuantityRequest struct {
	Change int `json:"change"`
}

func (r AdjustQuantityRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Change, validation.Required.Error("must be a non-zero integer")),
	)
}

// SearchQuery carries the free-text filters parsed from query params.
type SearchQuery struct {
	Title  string
	Author string
}

func (q SearchQuery) Empty() bool {
	return q.Title == "" && q.Author == ""
}
