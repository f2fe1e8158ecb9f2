package services

import (
	"context"

	"dispatchhub_backend/internal/repositories"
	"dispatchhub_backend/internal/services/dto"
	"dispatchhub_backend/pkg/apperrors"
)

type ProfileService struct {
	profileRepo repositories.ProfileRepository
}

func NewProfileService(profileRepo repositories.ProfileRepository) *ProfileService {
	return &ProfileService{profileRepo: profileRepo}
}

func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*dto.ProfileResponse, error) {
	profile, err := s.profileRepo.FindByID(ctx, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrProfileNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.StoreError(err)
	}
	return dto.NewProfileResponse(profile), nil
}
