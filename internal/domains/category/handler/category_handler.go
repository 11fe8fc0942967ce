package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"library-backend/internal/domains/category/model"
	"library-backend/internal/domains/category/service"
	"library-backend/internal/shared/response"
)

type CategoryHandler struct {
	service service.ServiceInterface
}

func NewCategoryHandler(service service.ServiceInterface) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// List handles GET /categories.
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.service.List(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, categories)
}

// GetByID handles GET /categories/:id.
func (h *CategoryHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid category id")
		return
	}

	cat, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, cat)
}

// Create handles POST /categories (admin).
func (h *CategoryHandler) Create(c *gin.Context) {
	var req model.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	cat, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, cat)
}

// Update handles PUT /categories/:id (admin).
func (h *CategoryHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid category id")
		return
	}

	var req model.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	cat, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, cat)
}

// Delete handles DELETE /categories/:id (admin).
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid category id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CategoryHandler) handleError(c *gin.Context, err error) {
	var catErr *model.CategoryError
	if errors.As(err, &catErr) {
		switch catErr.Code {
		case model.ErrCodeCategoryNotFound:
			response.ErrorResponse(c, http.StatusNotFound, catErr.Code, catErr.Message)
		case model.ErrCodeNameTaken:
			response.ErrorResponse(c, http.StatusConflict, catErr.Code, catErr.Message)
		default:
			response.ErrorResponse(c, http.StatusBadRequest, catErr.Code, catErr.Message)
		}
		return
	}

	response.InternalServerError(c, "internal server error")
}
