package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"library-backend/internal/domains/user/model"
	"library-backend/internal/domains/user/service"
	"library-backend/internal/shared/middleware"
	"library-backend/internal/shared/response"
	"library-backend/internal/shared/utils"
)

// UserHandler translates HTTP requests into user-service calls.
type UserHandler struct {
	service service.ServiceInterface
}

func NewUserHandler(service service.ServiceInterface) *UserHandler {
	return &UserHandler{service: service}
}

// Register handles POST /auth/register.
func (h *UserHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	dto, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Location", "/api/v1/users/"+dto.ID.String())
	response.Success(c, http.StatusCreated, dto)
}

// Login handles POST /auth/login.
func (h *UserHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// GetProfile handles GET /users/me.
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	user, err := h.service.GetByID(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, user.ToDTO())
}

// UpdateProfile handles PUT /users/me.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	dto, err := h.service.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, dto)
}

// ListUsers handles GET /users (admin).
func (h *UserHandler) ListUsers(c *gin.Context) {
	p := utils.ParsePagination(c)

	users, total, err := h.service.List(c.Request.Context(), p.Limit, p.Offset())
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, users, p.Meta(total))
}

// GetUser handles GET /users/:id (admin).
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	user, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, user.ToDTO())
}

// UpdateUser handles PUT /users/:id (admin).
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	var req model.AdminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	dto, err := h.service.AdminUpdate(c.Request.Context(), id, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, dto)
}

// UpdateUserStatus handles PUT /users/:id/status (admin).
func (h *UserHandler) UpdateUserStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	var req model.SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	dto, err := h.service.SetActive(c.Request.Context(), id, req.IsActive)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, dto)
}

// UpdateUserRole handles PUT /users/:id/role (admin).
func (h *UserHandler) UpdateUserRole(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	var req model.SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	dto, err := h.service.SetAdmin(c.Request.Context(), id, req.IsAdmin)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, dto)
}

// DeleteUser handles DELETE /users/:id (admin).
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// handleError maps coded domain errors to HTTP statuses.
func (h *UserHandler) handleError(c *gin.Context, err error) {
	var userErr *model.UserError
	if errors.As(err, &userErr) {
		switch userErr.Code {
		case model.ErrCodeUserNotFound:
			response.ErrorResponse(c, http.StatusNotFound, userErr.Code, userErr.Message)
		case model.ErrCodeEmailTaken:
			response.ErrorResponse(c, http.StatusConflict, userErr.Code, userErr.Message)
		case model.ErrCodeInvalidRequest:
			response.ErrorWithDetails(c, http.StatusBadRequest, userErr.Code, userErr.Message, errDetails(userErr))
		case model.ErrCodeInvalidCredentials:
			response.ErrorResponse(c, http.StatusUnauthorized, userErr.Code, userErr.Message)
		case model.ErrCodeUserInactive:
			response.ErrorResponse(c, http.StatusForbidden, userErr.Code, userErr.Message)
		default:
			response.ErrorResponse(c, http.StatusBadRequest, userErr.Code, userErr.Message)
		}
		return
	}

	response.InternalServerError(c, "internal server error")
}

func errDetails(err *model.UserError) string {
	if err.Err != nil {
		return err.Err.Error()
	}
	return ""
}
