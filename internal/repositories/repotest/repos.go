// Package repotest provides in-memory repository implementations for tests.
// The job store guards claim and complete with a mutex so the conditional
// update keeps the same exactly-one-winner behavior as the SQL version.
package repotest

import (
	"context"
	"sort"
	"sync"
	"time"

	"dispatchhub_backend/internal/models"
	"dispatchhub_backend/internal/repositories"

	"github.com/google/uuid"
)

type UserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func NewUserRepo() *UserRepo {
	return &UserRepo{users: make(map[string]*models.User)}
}

func (r *UserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return repositories.ErrUserAlreadyExists
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *UserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *UserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

type ProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]*models.Profile
}

func NewProfileRepo() *ProfileRepo {
	return &ProfileRepo{profiles: make(map[string]*models.Profile)}
}

func (r *ProfileRepo) Create(_ context.Context, profile *models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now()
	}
	cp := *profile
	r.profiles[profile.ID] = &cp
	return nil
}

func (r *ProfileRepo) FindByID(_ context.Context, id string) (*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return nil, repositories.ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *ProfileRepo) FindByIDs(_ context.Context, ids []string) (map[string]*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make(map[string]*models.Profile, len(ids))
	for _, id := range ids {
		if p, ok := r.profiles[id]; ok {
			cp := *p
			result[id] = &cp
		}
	}
	return result, nil
}

func (r *ProfileRepo) ActivateSubscription(_ context.Context, userID, customerRef, subscriptionRef string, until time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return repositories.ErrProfileNotFound
	}
	p.SubscriptionActive = true
	p.SubscriptionExpiresAt = &until
	p.StripeCustomerID = &customerRef
	p.StripeSubscriptionID = &subscriptionRef
	return nil
}

func (r *ProfileRepo) ActivateBoost(_ context.Context, userID, subscriptionRef string, until time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return repositories.ErrProfileNotFound
	}
	p.BoostActive = true
	p.BoostExpiresAt = &until
	p.BoostSubscriptionID = &subscriptionRef
	return nil
}

func (r *ProfileRepo) ExpireBoosts(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, p := range r.profiles {
		if p.BoostActive && p.BoostExpiresAt != nil && !p.BoostExpiresAt.After(now) {
			p.BoostActive = false
			p.BoostSubscriptionID = nil
			n++
		}
	}
	return n, nil
}

func (r *ProfileRepo) ExpireSubscriptions(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, p := range r.profiles {
		if p.SubscriptionActive && p.SubscriptionExpiresAt != nil && !p.SubscriptionExpiresAt.After(now) {
			p.SubscriptionActive = false
			p.StripeSubscriptionID = nil
			n++
		}
	}
	return n, nil
}

type JobRepo struct {
	mu   sync.Mutex
	jobs map[string]*models.Job
}

func NewJobRepo() *JobRepo {
	return &JobRepo{jobs: make(map[string]*models.Job)}
}

func (r *JobRepo) Create(_ context.Context, job *models.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now()
	}
	if job.Status == "" {
		job.Status = models.JobStatusPending
	}
	cp := *job
	r.jobs[job.ID] = &cp
	return nil
}

func (r *JobRepo) FindByID(_ context.Context, id string) (*models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok {
		return nil, repositories.ErrJobNotFound
	}
	cp := *j
	return &cp, nil
}

func (r *JobRepo) ListPendingOrAssigned(_ context.Context, driverID string) ([]models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var jobs []models.Job
	for _, j := range r.jobs {
		open := j.Status == models.JobStatusPending && (j.AssignedTo == nil || *j.AssignedTo == driverID)
		mine := j.AssignedTo != nil && *j.AssignedTo == driverID
		if open || mine {
			jobs = append(jobs, *j)
		}
	}
	sortJobs(jobs)
	return jobs, nil
}

func (r *JobRepo) ListByCreator(_ context.Context, creatorID string) ([]models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var jobs []models.Job
	for _, j := range r.jobs {
		if j.CreatedBy == creatorID {
			jobs = append(jobs, *j)
		}
	}
	sortJobs(jobs)
	return jobs, nil
}

func (r *JobRepo) ListAll(_ context.Context) ([]models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	jobs := make([]models.Job, 0, len(r.jobs))
	for _, j := range r.jobs {
		jobs = append(jobs, *j)
	}
	sortJobs(jobs)
	return jobs, nil
}

func (r *JobRepo) Claim(_ context.Context, jobID, driverID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[jobID]
	if !ok {
		return false, nil
	}
	if j.Status != models.JobStatusPending {
		return false, nil
	}
	if j.AssignedTo != nil && *j.AssignedTo != driverID {
		return false, nil
	}
	j.Status = models.JobStatusInProgress
	j.AssignedTo = &driverID
	return true, nil
}

func (r *JobRepo) Complete(_ context.Context, jobID, driverID string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[jobID]
	if !ok {
		return false, nil
	}
	if j.Status != models.JobStatusInProgress || j.AssignedTo == nil || *j.AssignedTo != driverID {
		return false, nil
	}
	j.Status = models.JobStatusCompleted
	j.CompletedAt = &at
	return true, nil
}

func (r *JobRepo) Assign(_ context.Context, jobID, driverID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[jobID]
	if !ok || j.Status != models.JobStatusPending {
		return false, nil
	}
	j.AssignedTo = &driverID
	return true, nil
}

func (r *JobRepo) SumCompletedByDriver(_ context.Context, driverID string) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total float64
	for _, j := range r.jobs {
		if j.Status == models.JobStatusCompleted && j.AssignedTo != nil && *j.AssignedTo == driverID {
			total += j.Revenue - j.Expense
		}
	}
	return total, nil
}

func (r *JobRepo) SumCompletedByCreator(_ context.Context, creatorID string) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total float64
	for _, j := range r.jobs {
		if j.Status == models.JobStatusCompleted && j.CreatedBy == creatorID {
			total += j.Revenue - j.Expense
		}
	}
	return total, nil
}

func (r *JobRepo) DeleteAll(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := int64(len(r.jobs))
	r.jobs = make(map[string]*models.Job)
	return n, nil
}

func (r *JobRepo) CountByStatus(_ context.Context) (map[models.JobStatus]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[models.JobStatus]int64)
	for _, j := range r.jobs {
		counts[j.Status]++
	}
	return counts, nil
}

type BillingRepo struct {
	mu    sync.Mutex
	plans map[string]*models.SubscriptionPlan
	txs   map[string]*models.PaymentTransaction
}

func NewBillingRepo() *BillingRepo {
	return &BillingRepo{
		plans: make(map[string]*models.SubscriptionPlan),
		txs:   make(map[string]*models.PaymentTransaction),
	}
}

func (r *BillingRepo) FindPlanByCode(_ context.Context, code string) (*models.SubscriptionPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.plans[code]
	if !ok || !p.IsActive {
		return nil, repositories.ErrPlanNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *BillingRepo) ListActivePlans(_ context.Context) ([]models.SubscriptionPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var plans []models.SubscriptionPlan
	for _, p := range r.plans {
		if p.IsActive {
			plans = append(plans, *p)
		}
	}
	sort.Slice(plans, func(i, k int) bool { return plans[i].Price < plans[k].Price })
	return plans, nil
}

func (r *BillingRepo) CreatePlan(_ context.Context, plan *models.SubscriptionPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}
	cp := *plan
	r.plans[plan.Code] = &cp
	return nil
}

func (r *BillingRepo) CreateTransaction(_ context.Context, tx *models.PaymentTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}
	cp := *tx
	r.txs[tx.SessionID] = &cp
	return nil
}

func (r *BillingRepo) FindTransactionBySession(_ context.Context, sessionID string) (*models.PaymentTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[sessionID]
	if !ok {
		return nil, repositories.ErrTransactionNotFound
	}
	cp := *tx
	return &cp, nil
}

func (r *BillingRepo) MarkTransactionPaid(_ context.Context, sessionID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[sessionID]
	if !ok {
		return repositories.ErrTransactionNotFound
	}
	tx.Status = models.PaymentStatusPaid
	tx.PaidAt = &at
	return nil
}

func (r *BillingRepo) MarkTransactionFailed(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[sessionID]
	if !ok {
		return repositories.ErrTransactionNotFound
	}
	tx.Status = models.PaymentStatusFailed
	return nil
}

func sortJobs(jobs []models.Job) {
	sort.Slice(jobs, func(i, k int) bool {
		return jobs[i].CreatedAt.After(jobs[k].CreatedAt)
	})
}
