package repositories

import (
	"context"
	"errors"
	"time"

	"dispatchhub_backend/internal/models"

	"gorm.io/gorm"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	FindByID(ctx context.Context, id string) (*models.Profile, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]*models.Profile, error)
	ActivateSubscription(ctx context.Context, userID, customerRef, subscriptionRef string, until time.Time) error
	ActivateBoost(ctx context.Context, userID, subscriptionRef string, until time.Time) error
	ExpireBoosts(ctx context.Context, now time.Time) (int64, error)
	ExpireSubscriptions(ctx context.Context, now time.Time) (int64, error)
}

type ProfileRepositoryImpl struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &ProfileRepositoryImpl{db: db}
}

func (r *ProfileRepositoryImpl) Create(ctx context.Context, profile *models.Profile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *ProfileRepositoryImpl) FindByID(ctx context.Context, id string) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepositoryImpl) FindByIDs(ctx context.Context, ids []string) (map[string]*models.Profile, error) {
	result := make(map[string]*models.Profile, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var profiles []models.Profile
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&profiles).Error; err != nil {
		return nil, err
	}
	for i := range profiles {
		result[profiles[i].ID] = &profiles[i]
	}
	return result, nil
}

func (r *ProfileRepositoryImpl) ActivateSubscription(ctx context.Context, userID, customerRef, subscriptionRef string, until time.Time) error {
	res := r.db.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"subscription_active":     true,
			"subscription_expires_at": until,
			"stripe_customer_id":      customerRef,
			"stripe_subscription_id":  subscriptionRef,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *ProfileRepositoryImpl) ActivateBoost(ctx context.Context, userID, subscriptionRef string, until time.Time) error {
	res := r.db.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"boost_active":          true,
			"boost_expires_at":      until,
			"boost_subscription_id": subscriptionRef,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// ExpireBoosts clears the boost flag for profiles whose boost window ended.
func (r *ProfileRepositoryImpl) ExpireBoosts(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Profile{}).
		Where("boost_active = ? AND boost_expires_at IS NOT NULL AND boost_expires_at <= ?", true, now).
		Updates(map[string]interface{}{
			"boost_active":          false,
			"boost_subscription_id": nil,
		})
	return res.RowsAffected, res.Error
}

func (r *ProfileRepositoryImpl) ExpireSubscriptions(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Profile{}).
		Where("subscription_active = ? AND subscription_expires_at IS NOT NULL AND subscription_expires_at <= ?", true, now).
		Updates(map[string]interface{}{
			"subscription_active":    false,
			"stripe_subscription_id": nil,
		})
	return res.RowsAffected, res.Error
}
