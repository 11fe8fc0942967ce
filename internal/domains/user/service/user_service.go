package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"library-backend/internal/config"
	"library-backend/internal/domains/user/model"
	"library-backend/internal/domains/user/repository"
	"library-backend/pkg/jwt"
	"library-backend/pkg/logger"
)

type userService struct {
	repo       repository.RepositoryInterface
	jwtManager *jwt.Manager
	jwtConfig  config.JWTConfig
}

func NewUserService(repo repository.RepositoryInterface, jwtManager *jwt.Manager, jwtConfig config.JWTConfig) ServiceInterface {
	return &userService{
		repo:       repo,
		jwtManager: jwtManager,
		jwtConfig:  jwtConfig,
	}
}

func (s *userService) Register(ctx context.Context, req model.RegisterRequest) (*model.UserDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewUserError(model.ErrCodeInvalidRequest, "Invalid registration request", err)
	}

	_, err := s.repo.GetByEmail(ctx, req.Email)
	if err == nil {
		return nil, model.NewUserError(model.ErrCodeEmailTaken, "Email is already in use", model.ErrEmailTaken)
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		IsActive:     true,
		IsAdmin:      false,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Info("user registered", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})

	dto := user.ToDTO()
	return &dto, nil
}

func (s *userService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewUserError(model.ErrCodeInvalidRequest, "Invalid login request", err)
	}

	user, err := s.repo.GetByEmail(ctx, req.Email)
	if errors.Is(err, model.ErrUserNotFound) {
		// Same error as a bad password so the response does not leak
		// which emails exist.
		return nil, model.NewUserError(model.ErrCodeInvalidCredentials, "Invalid email or password", model.ErrInvalidCredentials)
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, model.NewUserError(model.ErrCodeInvalidCredentials, "Invalid email or password", model.ErrInvalidCredentials)
	}

	if !user.IsActive {
		return nil, model.NewUserError(model.ErrCodeUserInactive, "User account is inactive", model.ErrUserInactive)
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, user.Role())
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(s.jwtConfig.AccessTokenExpiry) * time.Minute),
		User:         user.ToDTO(),
	}, nil
}

func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, model.ErrUserNotFound) {
		return nil, model.NewUserError(model.ErrCodeUserNotFound, "User not found", err)
	}
	return user, err
}

func (s *userService) List(ctx context.Context, limit, offset int) ([]model.UserDTO, int, error) {
	users, total, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]model.UserDTO, 0, len(users))
	for i := range users {
		dtos = append(dtos, users[i].ToDTO())
	}
	return dtos, total, nil
}

func (s *userService) UpdateProfile(ctx context.Context, id uuid.UUID, req model.UpdateProfileRequest) (*model.UserDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewUserError(model.ErrCodeInvalidRequest, "Invalid profile update", err)
	}

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	dto := user.ToDTO()
	return &dto, nil
}

func (s *userService) AdminUpdate(ctx context.Context, id uuid.UUID, req model.AdminUpdateUserRequest) (*model.UserDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewUserError(model.ErrCodeInvalidRequest, "Invalid user update", err)
	}

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != user.Email {
		if _, err := s.repo.GetByEmail(ctx, *req.Email); err == nil {
			return nil, model.NewUserError(model.ErrCodeEmailTaken, "Email is already in use", model.ErrEmailTaken)
		} else if !errors.Is(err, model.ErrUserNotFound) {
			return nil, err
		}
		user.Email = *req.Email
	}
	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.IsAdmin != nil {
		user.IsAdmin = *req.IsAdmin
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	dto := user.ToDTO()
	return &dto, nil
}

func (s *userService) SetActive(ctx context.Context, id uuid.UUID, active bool) (*model.UserDTO, error) {
	return s.AdminUpdate(ctx, id, model.AdminUpdateUserRequest{IsActive: &active})
}

func (s *userService) SetAdmin(ctx context.Context, id uuid.UUID, admin bool) (*model.UserDTO, error) {
	return s.AdminUpdate(ctx, id, model.AdminUpdateUserRequest{IsAdmin: &admin})
}

func (s *userService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.NewUserError(model.ErrCodeUserNotFound, "User not found", err)
	}
	return err
}
