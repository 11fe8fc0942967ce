package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"library-backend/internal/domains/book/model"
	"library-backend/internal/domains/book/service"
	"library-backend/internal/shared/response"
	"library-backend/internal/shared/utils"
)

type BookHandler struct {
	service service.ServiceInterface
}

func NewBookHandler(service service.ServiceInterface) *BookHandler {
	return &BookHandler{service: service}
}

// List handles GET /books. Optional title and author query params
// switch it into search mode.
func (h *BookHandler) List(c *gin.Context) {
	pagination := utils.ParsePagination(c)
	query := model.SearchQuery{
		Title:  c.Query("title"),
		Author: c.Query("author"),
	}

	books, total, err := h.service.Search(c.Request.Context(), query, pagination.Limit, pagination.Offset())
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, books, pagination.Meta(total))
}

// GetByID handles GET /books/:id.
func (h *BookHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid book id")
		return
	}

	book, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, book)
}

// GetByISBN handles GET /books/isbn/:isbn.
func (h *BookHandler) GetByISBN(c *gin.Context) {
	isbn := c.Param("isbn")
	if isbn == "" {
		response.BadRequest(c, "invalid isbn")
		return
	}

	book, err := h.service.GetByISBN(c.Request.Context(), isbn)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, book)
}

// Create handles POST /books (admin).
func (h *BookHandler) Create(c *gin.Context) {
	var req model.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	book, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, book)
}

// Update handles PUT /books/:id (admin).
func (h *BookHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid book id")
		return
	}

	var req model.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	book, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, book)
}

// Delete handles DELETE /books/:id (admin).
func (h *BookHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid book id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AdjustQuantity handles PATCH /books/:id/quantity (admin).
func (h *BookHandler) AdjustQuantity(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid book id")
		return
	}

	var req model.AdjustQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, model.ErrCodeInvalidRequest, "Invalid quantity change", err.Error())
		return
	}

	book, err := h.service.AdjustQuantity(c.Request.Context(), id, req.Change)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, book)
}

func (h *BookHandler) handleError(c *gin.Context, err error) {
	var bookErr *model.BookError
	if errors.As(err, &bookErr) {
		switch bookErr.Code {
		case model.ErrCodeBookNotFound:
			response.ErrorResponse(c, http.StatusNotFound, bookErr.Code, bookErr.Message)
		case model.ErrCodeISBNTaken:
			response.ErrorResponse(c, http.StatusConflict, bookErr.Code, bookErr.Message)
		case model.ErrCodeNegativeQuantity:
			response.ErrorResponse(c, http.StatusUnprocessableEntity, bookErr.Code, bookErr.Message)
		case model.ErrCodeInvalidRequest:
			response.ErrorWithDetails(c, http.StatusBadRequest, bookErr.Code, bookErr.Message, errDetails(bookErr))
		default:
			response.ErrorResponse(c, http.StatusBadRequest, bookErr.Code, bookErr.Message)
		}
		return
	}

	response.InternalServerError(c, "internal server error")
}

func errDetails(err *model.BookError) interface{} {
	if err.Err != nil {
		return err.Err.Error()
	}
	return nil
}
