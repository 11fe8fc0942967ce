package utils_test

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"library-backend/internal/shared/utils"
)

func paginationFor(t *testing.T, query string) utils.Pagination {
	t.Helper()
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/books"+query, nil)

	return utils.ParsePagination(c)
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "", 1, 20},
		{"explicit values", "?page=3&limit=50", 3, 50},
		{"zero page clamps to first", "?page=0", 1, 20},
		{"negative page clamps to first", "?page=-2", 1, 20},
		{"zero limit falls back to default", "?limit=0", 1, 20},
		{"limit above maximum is capped", "?limit=500", 1, 100},
		{"garbage falls back to defaults", "?page=abc&limit=xyz", 1, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := paginationFor(t, tt.query)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantLimit, p.Limit)
		})
	}
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, utils.Pagination{Page: 1, Limit: 20}.Offset())
	assert.Equal(t, 40, utils.Pagination{Page: 3, Limit: 20}.Offset())
}

func TestMeta(t *testing.T) {
	meta := utils.Pagination{Page: 2, Limit: 10}.Meta(45)
	assert.Equal(t, 2, meta.Page)
	assert.Equal(t, 10, meta.Limit)
	assert.Equal(t, 45, meta.Total)
}
