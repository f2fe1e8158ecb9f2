package models

type UserRole string
type JobStatus string
type PaymentStatus string

const (
	UserRoleDriver   UserRole = "driver"
	UserRoleDispatch UserRole = "dispatch"
	UserRoleAdmin    UserRole = "admin"

	JobStatusPending    JobStatus = "pending"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"

	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// ValidRole reports whether r is one of the three known roles.
func ValidRole(r UserRole) bool {
	switch r {
	case UserRoleDriver, UserRoleDispatch, UserRoleAdmin:
		return true
	}
	return false
}

// CanTransitionTo encodes the job state machine: pending -> in_progress ->
// completed, no backward moves, no skipping in_progress.
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	switch s {
	case JobStatusPending:
		return next == JobStatusInProgress
	case JobStatusInProgress:
		return next == JobStatusCompleted
	}
	return false
}
