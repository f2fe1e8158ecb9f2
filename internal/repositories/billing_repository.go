package repositories

import (
	"context"
	"errors"
	"time"

	"dispatchhub_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrPlanNotFound        = errors.New("subscription plan not found")
	ErrTransactionNotFound = errors.New("payment transaction not found")
)

type BillingRepository interface {
	FindPlanByCode(ctx context.Context, code string) (*models.SubscriptionPlan, error)
	ListActivePlans(ctx context.Context) ([]models.SubscriptionPlan, error)
	CreatePlan(ctx context.Context, plan *models.SubscriptionPlan) error
	CreateTransaction(ctx context.Context, tx *models.PaymentTransaction) error
	FindTransactionBySession(ctx context.Context, sessionID string) (*models.PaymentTransaction, error)
	MarkTransactionPaid(ctx context.Context, sessionID string, at time.Time) error
	MarkTransactionFailed(ctx context.Context, sessionID string) error
}

type BillingRepositoryImpl struct {
	db *gorm.DB
}

func NewBillingRepository(db *gorm.DB) BillingRepository {
	return &BillingRepositoryImpl{db: db}
}

func (r *BillingRepositoryImpl) FindPlanByCode(ctx context.Context, code string) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	err := r.db.WithContext(ctx).Where("code = ? AND is_active = ?", code, true).First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return &plan, nil
}

func (r *BillingRepositoryImpl) ListActivePlans(ctx context.Context) ([]models.SubscriptionPlan, error) {
	var plans []models.SubscriptionPlan
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("price ASC").Find(&plans).Error
	return plans, err
}

func (r *BillingRepositoryImpl) CreatePlan(ctx context.Context, plan *models.SubscriptionPlan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

func (r *BillingRepositoryImpl) CreateTransaction(ctx context.Context, tx *models.PaymentTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

func (r *BillingRepositoryImpl) FindTransactionBySession(ctx context.Context, sessionID string) (*models.PaymentTransaction, error) {
	var tx models.PaymentTransaction
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&tx).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return &tx, nil
}

func (r *BillingRepositoryImpl) MarkTransactionPaid(ctx context.Context, sessionID string, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&models.PaymentTransaction{}).
		Where("session_id = ?", sessionID).
		Updates(map[string]interface{}{
			"status":  models.PaymentStatusPaid,
			"paid_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

func (r *BillingRepositoryImpl) MarkTransactionFailed(ctx context.Context, sessionID string) error {
	res := r.db.WithContext(ctx).Model(&models.PaymentTransaction{}).
		Where("session_id = ?", sessionID).
		Update("status", models.PaymentStatusFailed)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}
