package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"library-backend/internal/shared/response"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Pagination is the normalized form of ?page=&limit= query params.
type Pagination struct {
	Page  int
	Limit int
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Meta builds the response meta block for a result set of size total.
func (p Pagination) Meta(total int) *response.Meta {
	return &response.Meta{
		Page:  p.Page,
		Limit: p.Limit,
		Total: total,
	}
}

// ParsePagination reads page/limit query params, clamping out-of-range
// values instead of rejecting them.
func ParsePagination(c *gin.Context) Pagination {
	page, err := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(DefaultPage)))
	if err != nil || page < 1 {
		page = DefaultPage
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultLimit)))
	if err != nil || limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Pagination{Page: page, Limit: limit}
}
