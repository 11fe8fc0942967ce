package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"library-backend/internal/domains/loan/model"
	"library-backend/internal/domains/loan/service"
	"library-backend/internal/shared/middleware"
	"library-backend/internal/shared/response"
	"library-backend/internal/shared/utils"
	usermodel "library-backend/internal/domains/user/model"
)

type LoanHandler struct {
	service service.ServiceInterface
}

func NewLoanHandler(service service.ServiceInterface) *LoanHandler {
	return &LoanHandler{service: service}
}

func actor(c *gin.Context) (uuid.UUID, bool) {
	actorID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	role := c.MustGet(middleware.ContextRole).(string)
	return actorID, role == usermodel.RoleAdmin
}

// Create handles POST /loans.
func (h *LoanHandler) Create(c *gin.Context) {
	var req model.CreateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	actorID, isAdmin := actor(c)
	loan, err := h.service.Create(c.Request.Context(), actorID, isAdmin, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, loan)
}

// Return handles POST /loans/:id/return.
func (h *LoanHandler) Return(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid loan id")
		return
	}

	actorID, isAdmin := actor(c)
	loan, err := h.service.Return(c.Request.Context(), id, actorID, isAdmin)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, loan)
}

// Extend handles POST /loans/:id/extend.
func (h *LoanHandler) Extend(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid loan id")
		return
	}

	var req model.ExtendLoanRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "invalid request body")
			return
		}
	}

	actorID, isAdmin := actor(c)
	loan, err := h.service.Extend(c.Request.Context(), id, actorID, isAdmin, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, loan)
}

// GetByID handles GET /loans/:id.
func (h *LoanHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid loan id")
		return
	}

	actorID, isAdmin := actor(c)
	loan, err := h.service.GetByID(c.Request.Context(), id, actorID, isAdmin)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, loan)
}

// List handles GET /loans (admin).
func (h *LoanHandler) List(c *gin.Context) {
	pagination := utils.ParsePagination(c)

	loans, total, err := h.service.List(c.Request.Context(), pagination.Limit, pagination.Offset())
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, loans, pagination.Meta(total))
}

// ListActive handles GET /loans/active (admin).
func (h *LoanHandler) ListActive(c *gin.Context) {
	loans, err := h.service.ListActive(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, loans)
}

// ListOverdue handles GET /loans/overdue (admin). Each entry carries
// the accrued fine.
func (h *LoanHandler) ListOverdue(c *gin.Context) {
	loans, err := h.service.ListOverdue(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, loans)
}

// MyLoans handles GET /loans/me.
func (h *LoanHandler) MyLoans(c *gin.Context) {
	pagination := utils.ParsePagination(c)
	actorID, _ := actor(c)

	loans, total, err := h.service.ListByUser(c.Request.Context(), actorID, pagination.Limit, pagination.Offset())
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, loans, pagination.Meta(total))
}

// ListByUser handles GET /users/:id/loans (admin).
func (h *LoanHandler) ListByUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	pagination := utils.ParsePagination(c)
	loans, total, err := h.service.ListByUser(c.Request.Context(), userID, pagination.Limit, pagination.Offset())
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, loans, pagination.Meta(total))
}

// ListByBook handles GET /books/:id/loans (admin).
func (h *LoanHandler) ListByBook(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid book id")
		return
	}

	pagination := utils.ParsePagination(c)
	loans, total, err := h.service.ListByBook(c.Request.Context(), bookID, pagination.Limit, pagination.Offset())
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, loans, pagination.Meta(total))
}

// Delete handles DELETE /loans/:id (admin).
func (h *LoanHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid loan id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *LoanHandler) handleError(c *gin.Context, err error) {
	var loanErr *model.LoanError
	if errors.As(err, &loanErr) {
		switch loanErr.Code {
		case model.ErrCodeLoanNotFound, model.ErrCodeUserNotFound, model.ErrCodeBookNotFound:
			response.ErrorResponse(c, http.StatusNotFound, loanErr.Code, loanErr.Message)
		case model.ErrCodeUserInactive:
			response.ErrorResponse(c, http.StatusForbidden, loanErr.Code, loanErr.Message)
		case model.ErrCodeBookUnavailable, model.ErrCodeDuplicateLoan, model.ErrCodeLimitReached,
			model.ErrCodeAlreadyReturned, model.ErrCodeOverdue, model.ErrCodeAlreadyExtended:
			response.ErrorResponse(c, http.StatusConflict, loanErr.Code, loanErr.Message)
		case model.ErrCodeInvalidRequest:
			response.ErrorWithDetails(c, http.StatusBadRequest, loanErr.Code, loanErr.Message, errDetails(loanErr))
		default:
			response.ErrorResponse(c, http.StatusBadRequest, loanErr.Code, loanErr.Message)
		}
		return
	}

	response.InternalServerError(c, "internal server error")
}

func errDetails(err *model.LoanError) interface{} {
	if err.Err != nil {
		return err.Err.Error()
	}
	return nil
}
