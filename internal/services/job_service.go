package services

import (
	"context"
	"strings"
	"time"

	"dispatchhub_backend/internal/models"
	"dispatchhub_backend/internal/repositories"
	"dispatchhub_backend/internal/services/dto"
	"dispatchhub_backend/pkg/apperrors"
)

// JobService owns the job lifecycle: creation, role-scoped listing, the
// claim race, completion and assignment.
type JobService struct {
	jobRepo     repositories.JobRepository
	profileRepo repositories.ProfileRepository
}

func NewJobService(jobRepo repositories.JobRepository, profileRepo repositories.ProfileRepository) *JobService {
	return &JobService{jobRepo: jobRepo, profileRepo: profileRepo}
}

// CreateJob records a new pending job. Only dispatchers and admins create
// jobs. A job may be pre-assigned to a driver at creation; it still starts
// pending and only that driver may later claim it.
func (s *JobService) CreateJob(ctx context.Context, req *dto.CreateJobRequest) (*dto.JobResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperrors.ErrJobTitleRequired
	}
	if req.Expense < 0 || req.Revenue < 0 {
		return nil, apperrors.ErrNegativeAmount
	}

	creator, err := s.profileRepo.FindByID(ctx, req.CreatorID)
	if err != nil {
		return nil, s.mapProfileErr(err)
	}
	if creator.Role != models.UserRoleDispatch && creator.Role != models.UserRoleAdmin {
		return nil, apperrors.ErrInsufficientPermissions
	}

	if req.AssignedTo != nil {
		target, err := s.profileRepo.FindByID(ctx, *req.AssignedTo)
		if err != nil {
			return nil, s.mapProfileErr(err)
		}
		if target.Role != models.UserRoleDriver {
			return nil, apperrors.ErrTargetNotDriver
		}
	}

	job := &models.Job{
		Title:      title,
		CreatedBy:  req.CreatorID,
		AssignedTo: req.AssignedTo,
		Expense:    req.Expense,
		Revenue:    req.Revenue,
		Latitude:   normalizeCoordinate(req.Latitude),
		Longitude:  normalizeCoordinate(req.Longitude),
		Status:     models.JobStatusPending,
	}
	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, apperrors.StoreError(err)
	}

	return dto.NewJobResponse(job), nil
}

// ListJobs returns the jobs visible to the user: drivers see the open board
// plus their own work, dispatchers see what they created, admins see all.
// Boost highlighting is derived from the assigned drivers' profiles at read
// time; unassigned jobs are never boosted.
func (s *JobService) ListJobs(ctx context.Context, userID string, role models.UserRole) ([]*dto.JobResponse, error) {
	var (
		jobs []models.Job
		err  error
	)
	switch role {
	case models.UserRoleDriver:
		jobs, err = s.jobRepo.ListPendingOrAssigned(ctx, userID)
	case models.UserRoleDispatch:
		jobs, err = s.jobRepo.ListByCreator(ctx, userID)
	case models.UserRoleAdmin:
		jobs, err = s.jobRepo.ListAll(ctx)
	default:
		return nil, apperrors.ErrInvalidUserRole
	}
	if err != nil {
		return nil, apperrors.StoreError(err)
	}

	return s.decorateBoosts(ctx, jobs)
}

func (s *JobService) GetJob(ctx context.Context, jobID string) (*dto.JobResponse, error) {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, s.mapJobErr(err)
	}
	return dto.NewJobResponse(job), nil
}

// ClaimJob reserves a pending job for the calling driver. Under concurrent
// claims on the same job exactly one caller wins; the rest get
// ErrJobNoLongerAvailable.
func (s *JobService) ClaimJob(ctx context.Context, jobID, driverID string) (*dto.JobResponse, error) {
	driver, err := s.profileRepo.FindByID(ctx, driverID)
	if err != nil {
		return nil, s.mapProfileErr(err)
	}
	if driver.Role != models.UserRoleDriver {
		return nil, apperrors.ErrInsufficientPermissions
	}

	won, err := s.jobRepo.Claim(ctx, jobID, driverID)
	if err != nil {
		return nil, apperrors.StoreError(err)
	}
	if !won {
		// Distinguish a missing job from a lost race or a reserved job.
		if _, err := s.jobRepo.FindByID(ctx, jobID); err != nil {
			return nil, s.mapJobErr(err)
		}
		return nil, apperrors.ErrJobNoLongerAvailable
	}

	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, s.mapJobErr(err)
	}
	return dto.NewJobResponse(job), nil
}

// CompleteJob finishes an in-progress job. Only the assigned driver may
// complete it, and only from in_progress.
func (s *JobService) CompleteJob(ctx context.Context, jobID, driverID string) (*dto.JobResponse, error) {
	done, err := s.jobRepo.Complete(ctx, jobID, driverID, time.Now())
	if err != nil {
		return nil, apperrors.StoreError(err)
	}
	if !done {
		job, err := s.jobRepo.FindByID(ctx, jobID)
		if err != nil {
			return nil, s.mapJobErr(err)
		}
		if !job.Status.CanTransitionTo(models.JobStatusCompleted) {
			return nil, apperrors.ErrJobNotInProgress
		}
		return nil, apperrors.ErrNotAssignedDriver
	}

	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, s.mapJobErr(err)
	}
	return dto.NewJobResponse(job), nil
}

// AssignJob reserves a pending job for a driver without starting it. Admins
// may assign any job; dispatchers only their own.
func (s *JobService) AssignJob(ctx context.Context, jobID, driverID, actorID string, actorRole models.UserRole) (*dto.JobResponse, error) {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, s.mapJobErr(err)
	}

	switch actorRole {
	case models.UserRoleAdmin:
	case models.UserRoleDispatch:
		if job.CreatedBy != actorID {
			return nil, apperrors.ErrInsufficientPermissions
		}
	default:
		return nil, apperrors.ErrInsufficientPermissions
	}

	target, err := s.profileRepo.FindByID(ctx, driverID)
	if err != nil {
		return nil, s.mapProfileErr(err)
	}
	if target.Role != models.UserRoleDriver {
		return nil, apperrors.ErrTargetNotDriver
	}

	ok, err := s.jobRepo.Assign(ctx, jobID, driverID)
	if err != nil {
		return nil, apperrors.StoreError(err)
	}
	if !ok {
		return nil, apperrors.ErrJobNoLongerAvailable
	}

	job, err = s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, s.mapJobErr(err)
	}
	return dto.NewJobResponse(job), nil
}

// DeleteAllJobs wipes the job table. Admin maintenance operation.
func (s *JobService) DeleteAllJobs(ctx context.Context) (int64, error) {
	n, err := s.jobRepo.DeleteAll(ctx)
	if err != nil {
		return 0, apperrors.StoreError(err)
	}
	return n, nil
}

func (s *JobService) GetJobStats(ctx context.Context) (*dto.JobStatsResponse, error) {
	counts, err := s.jobRepo.CountByStatus(ctx)
	if err != nil {
		return nil, apperrors.StoreError(err)
	}
	stats := &dto.JobStatsResponse{
		Pending:    counts[models.JobStatusPending],
		InProgress: counts[models.JobStatusInProgress],
		Completed:  counts[models.JobStatusCompleted],
	}
	stats.Total = stats.Pending + stats.InProgress + stats.Completed
	return stats, nil
}

// decorateBoosts marks jobs whose assigned driver has a live boost so
// clients can sort them to the top. Jobs without a driver carry no boost.
func (s *JobService) decorateBoosts(ctx context.Context, jobs []models.Job) ([]*dto.JobResponse, error) {
	ids := make([]string, 0, len(jobs))
	seen := make(map[string]bool, len(jobs))
	for i := range jobs {
		if jobs[i].AssignedTo == nil {
			continue
		}
		id := *jobs[i].AssignedTo
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	profiles, err := s.profileRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, apperrors.StoreError(err)
	}

	now := time.Now()
	out := make([]*dto.JobResponse, 0, len(jobs))
	for i := range jobs {
		resp := dto.NewJobResponse(&jobs[i])
		if jobs[i].AssignedTo != nil {
			if p, ok := profiles[*jobs[i].AssignedTo]; ok && p.Boosted(now) {
				resp.IsBoosted = true
				resp.BoostExpiresAt = p.BoostExpiresAt
			}
		}
		out = append(out, resp)
	}
	return out, nil
}

// normalizeCoordinate treats an exact 0.0 as "no coordinate". Clients that
// omit the field and clients that send a zeroed placeholder get the same
// stored value.
func normalizeCoordinate(v *float64) *float64 {
	if v == nil || *v == 0.0 {
		return nil
	}
	return v
}

func (s *JobService) mapJobErr(err error) error {
	if apperrors.Is(err, repositories.ErrJobNotFound) {
		return apperrors.ErrNotFound(err)
	}
	return apperrors.StoreError(err)
}

func (s *JobService) mapProfileErr(err error) error {
	if apperrors.Is(err, repositories.ErrProfileNotFound) {
		return apperrors.ErrNotFound(err)
	}
	return apperrors.StoreError(err)
}
