package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"library-backend/internal/domains/stats/service"
	"library-backend/internal/shared/response"
)

type StatsHandler struct {
	service service.ServiceInterface
}

func NewStatsHandler(service service.ServiceInterface) *StatsHandler {
	return &StatsHandler{service: service}
}

// General handles GET /stats (admin).
func (h *StatsHandler) General(c *gin.Context) {
	stats, err := h.service.General(c.Request.Context())
	if err != nil {
		response.InternalServerError(c, "failed to compute statistics")
		return
	}

	response.Success(c, http.StatusOK, stats)
}

// MostBorrowedBooks handles GET /stats/books (admin).
func (h *StatsHandler) MostBorrowedBooks(c *gin.Context) {
	books, err := h.service.MostBorrowedBooks(c.Request.Context(), intQuery(c, "limit"))
	if err != nil {
		response.InternalServerError(c, "failed to compute statistics")
		return
	}

	response.Success(c, http.StatusOK, books)
}

// MostActiveUsers handles GET /stats/users (admin).
func (h *StatsHandler) MostActiveUsers(c *gin.Context) {
	users, err := h.service.MostActiveUsers(c.Request.Context(), intQuery(c, "limit"))
	if err != nil {
		response.InternalServerError(c, "failed to compute statistics")
		return
	}

	response.Success(c, http.StatusOK, users)
}

// MonthlyLoans handles GET /stats/monthly (admin).
func (h *StatsHandler) MonthlyLoans(c *gin.Context) {
	counts, err := h.service.MonthlyLoans(c.Request.Context(), intQuery(c, "months"))
	if err != nil {
		response.InternalServerError(c, "failed to compute statistics")
		return
	}

	response.Success(c, http.StatusOK, counts)
}

// intQuery returns the named query param as an int, zero when absent
// or malformed. The service applies defaults and caps.
func intQuery(c *gin.Context, name string) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return v
}
