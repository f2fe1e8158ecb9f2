package repositories

import (
	"context"
	"errors"
	"time"

	"dispatchhub_backend/internal/models"

	"gorm.io/gorm"
)

var ErrJobNotFound = errors.New("job not found")

type JobRepository interface {
	Create(ctx context.Context, job *models.Job) error
	FindByID(ctx context.Context, id string) (*models.Job, error)
	ListPendingOrAssigned(ctx context.Context, driverID string) ([]models.Job, error)
	ListByCreator(ctx context.Context, creatorID string) ([]models.Job, error)
	ListAll(ctx context.Context) ([]models.Job, error)
	Claim(ctx context.Context, jobID, driverID string) (bool, error)
	Complete(ctx context.Context, jobID, driverID string, at time.Time) (bool, error)
	Assign(ctx context.Context, jobID, driverID string) (bool, error)
	SumCompletedByDriver(ctx context.Context, driverID string) (float64, error)
	SumCompletedByCreator(ctx context.Context, creatorID string) (float64, error)
	DeleteAll(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context) (map[models.JobStatus]int64, error)
}

type JobRepositoryImpl struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &JobRepositoryImpl{db: db}
}

func (r *JobRepositoryImpl) Create(ctx context.Context, job *models.Job) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *JobRepositoryImpl) FindByID(ctx context.Context, id string) (*models.Job, error) {
	var job models.Job
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

// ListPendingOrAssigned returns the driver board: open jobs nobody reserved,
// jobs reserved for this driver, and the driver's own active and finished work.
func (r *JobRepositoryImpl) ListPendingOrAssigned(ctx context.Context, driverID string) ([]models.Job, error) {
	var jobs []models.Job
	err := r.db.WithContext(ctx).
		Where("(status = ? AND (assigned_to IS NULL OR assigned_to = ?)) OR assigned_to = ?",
			models.JobStatusPending, driverID, driverID).
		Order("created_at DESC").
		Find(&jobs).Error
	return jobs, err
}

func (r *JobRepositoryImpl) ListByCreator(ctx context.Context, creatorID string) ([]models.Job, error) {
	var jobs []models.Job
	err := r.db.WithContext(ctx).
		Where("created_by = ?", creatorID).
		Order("created_at DESC").
		Find(&jobs).Error
	return jobs, err
}

func (r *JobRepositoryImpl) ListAll(ctx context.Context) ([]models.Job, error) {
	var jobs []models.Job
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&jobs).Error
	return jobs, err
}

// Claim atomically reserves a pending job for the driver. The WHERE clause is
// the whole concurrency story: a job can be claimed only while it is still
// pending and either unreserved or reserved for this exact driver, so under
// concurrent claims exactly one UPDATE matches a row. Returns false when the
// job was not claimable; the caller decides why.
func (r *JobRepositoryImpl) Claim(ctx context.Context, jobID, driverID string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("id = ? AND status = ? AND (assigned_to IS NULL OR assigned_to = ?)",
			jobID, models.JobStatusPending, driverID).
		Updates(map[string]interface{}{
			"status":      models.JobStatusInProgress,
			"assigned_to": driverID,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// Complete marks an in-progress job done, but only for the driver it is
// assigned to. Same conditional-update shape as Claim.
func (r *JobRepositoryImpl) Complete(ctx context.Context, jobID, driverID string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("id = ? AND status = ? AND assigned_to = ?",
			jobID, models.JobStatusInProgress, driverID).
		Updates(map[string]interface{}{
			"status":       models.JobStatusCompleted,
			"completed_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// Assign reserves a pending job for a driver without starting it.
func (r *JobRepositoryImpl) Assign(ctx context.Context, jobID, driverID string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("id = ? AND status = ?", jobID, models.JobStatusPending).
		Update("assigned_to", driverID)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *JobRepositoryImpl) SumCompletedByDriver(ctx context.Context, driverID string) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("assigned_to = ? AND status = ?", driverID, models.JobStatusCompleted).
		Select("COALESCE(SUM(revenue - expense), 0)").
		Scan(&total).Error
	return total, err
}

func (r *JobRepositoryImpl) SumCompletedByCreator(ctx context.Context, creatorID string) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("created_by = ? AND status = ?", creatorID, models.JobStatusCompleted).
		Select("COALESCE(SUM(revenue - expense), 0)").
		Scan(&total).Error
	return total, err
}

func (r *JobRepositoryImpl) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Where("1 = 1").Delete(&models.Job{})
	return res.RowsAffected, res.Error
}

func (r *JobRepositoryImpl) CountByStatus(ctx context.Context) (map[models.JobStatus]int64, error) {
	type row struct {
		Status models.JobStatus
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&models.Job{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.JobStatus]int64, len(rows))
	for _, rw := range rows {
		counts[rw.Status] = rw.Count
	}
	return counts, nil
}
