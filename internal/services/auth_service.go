package services

import (
	"context"

	"dispatchhub_backend/internal/auth"
	"dispatchhub_backend/internal/email"
	"dispatchhub_backend/internal/logger"
	"dispatchhub_backend/internal/models"
	"dispatchhub_backend/internal/repositories"
	"dispatchhub_backend/internal/services/dto"
	"dispatchhub_backend/pkg/apperrors"
)

type AuthService struct {
	userRepo    repositories.UserRepository
	profileRepo repositories.ProfileRepository
	email       email.Provider
}

func NewAuthService(userRepo repositories.UserRepository, profileRepo repositories.ProfileRepository, emailProvider email.Provider) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		email:       emailProvider,
	}
}

// Signup registers a user and its profile under the requested role.
func (s *AuthService) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.LoginResponse, error) {
	if !auth.ValidatePassword(req.Password) {
		return nil, apperrors.ErrWeakPassword
	}
	role := models.UserRole(req.Role)
	if !models.ValidRole(role) {
		return nil, apperrors.ErrInvalidUserRole
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if apperrors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, apperrors.StoreError(err)
	}

	profile := &models.Profile{
		ID:    user.ID,
		Email: user.Email,
		Role:  role,
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, apperrors.StoreError(err)
	}

	// Welcome mail is best effort.
	if s.email != nil {
		if err := s.email.Send(ctx, email.WelcomeEmail(user.Email, req.Role)); err != nil {
			logger.CtxWarn(ctx, "failed to send welcome email", "email", user.Email, "error", err)
		}
	}

	token, err := auth.GenerateToken(user.ID, req.Role)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.LoginResponse{
		Token:   token,
		Profile: dto.NewProfileResponse(profile),
	}, nil
}

// Login verifies credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.StoreError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	profile, err := s.profileRepo.FindByID(ctx, user.ID)
	if err != nil {
		return nil, apperrors.StoreError(err)
	}

	token, err := auth.GenerateToken(user.ID, string(profile.Role))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.LoginResponse{
		Token:   token,
		Profile: dto.NewProfileResponse(profile),
	}, nil
}
