package models

import "time"

// Job is a delivery job moving through pending -> in_progress -> completed.
// Invariants enforced by the service and repository layers:
//   - in_progress implies AssignedTo is set
//   - completed implies CompletedAt is set
//   - status never regresses
type Job struct {
	BaseModel
	Title      string  `gorm:"not null"`
	CreatedBy  string  `gorm:"type:uuid;not null;index"`
	AssignedTo *string `gorm:"type:uuid;index"`

	Expense float64 `gorm:"not null;default:0"`
	Revenue float64 `gorm:"not null;default:0"`

	// Nil means "no coordinate supplied". An input of exactly 0.0 is
	// normalized to nil before the record is stored.
	Latitude  *float64
	Longitude *float64

	Status      JobStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	CompletedAt *time.Time
}

// NetValue is revenue minus expense; may be negative.
func (j *Job) NetValue() float64 {
	return j.Revenue - j.Expense
}
