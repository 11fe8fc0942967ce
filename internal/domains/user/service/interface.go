package service

import (
	"context"

	"github.com/google/uuid"

	"library-backend/internal/domains/user/model"
)

type ServiceInterface interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.UserDTO, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error)

	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	List(ctx context.Context, limit, offset int) ([]model.UserDTO, int, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, req model.UpdateProfileRequest) (*model.UserDTO, error)
	AdminUpdate(ctx context.Context, id uuid.UUID, req model.AdminUpdateUserRequest) (*model.UserDTO, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*model.UserDTO, error)
	SetAdmin(ctx context.Context, id uuid.UUID, admin bool) (*model.UserDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
