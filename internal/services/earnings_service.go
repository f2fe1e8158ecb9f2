package services

import (
	"context"

	"dispatchhub_backend/internal/models"
	"dispatchhub_backend/internal/repositories"
	"dispatchhub_backend/internal/services/dto"
	"dispatchhub_backend/pkg/apperrors"
)

// EarningsService aggregates the net value of completed jobs. Drivers are
// paid on jobs they completed; dispatchers see the total across jobs they
// created. Pending and in-progress jobs never count.
type EarningsService struct {
	jobRepo  repositories.JobRepository
	currency string
}

func NewEarningsService(jobRepo repositories.JobRepository, currency string) *EarningsService {
	return &EarningsService{jobRepo: jobRepo, currency: currency}
}

func (s *EarningsService) ComputeEarnings(ctx context.Context, userID string, role models.UserRole) (*dto.EarningsResponse, error) {
	var (
		total float64
		err   error
	)
	switch role {
	case models.UserRoleDriver:
		total, err = s.jobRepo.SumCompletedByDriver(ctx, userID)
	case models.UserRoleDispatch:
		total, err = s.jobRepo.SumCompletedByCreator(ctx, userID)
	case models.UserRoleAdmin:
		// Admins have no earnings of their own.
	default:
		return nil, apperrors.ErrInvalidUserRole
	}
	if err != nil {
		return nil, apperrors.StoreError(err)
	}

	return &dto.EarningsResponse{
		UserID:   userID,
		Role:     string(role),
		Total:    total,
		Currency: s.currency,
	}, nil
}
