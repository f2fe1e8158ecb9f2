package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(UserRoleDriver))
	assert.True(t, ValidRole(UserRoleDispatch))
	assert.True(t, ValidRole(UserRoleAdmin))
	assert.False(t, ValidRole(UserRole("manager")))
	assert.False(t, ValidRole(UserRole("")))
}

func TestJobStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to JobStatus
		allowed  bool
	}{
		{JobStatusPending, JobStatusInProgress, true},
		{JobStatusInProgress, JobStatusCompleted, true},
		{JobStatusPending, JobStatusCompleted, false},
		{JobStatusInProgress, JobStatusPending, false},
		{JobStatusCompleted, JobStatusPending, false},
		{JobStatusCompleted, JobStatusInProgress, false},
		{JobStatusPending, JobStatusPending, false},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestJobStatusNeverRegresses(t *testing.T) {
	order := map[JobStatus]int{
		JobStatusPending:    0,
		JobStatusInProgress: 1,
		JobStatusCompleted:  2,
	}
	all := []JobStatus{JobStatusPending, JobStatusInProgress, JobStatusCompleted}
	for _, from := range all {
		for _, to := range all {
			if from.CanTransitionTo(to) {
				assert.Greater(t, order[to], order[from])
			}
		}
	}
}

func TestJobNetValue(t *testing.T) {
	j := &Job{Expense: 30, Revenue: 100}
	assert.Equal(t, 70.0, j.NetValue())

	loss := &Job{Expense: 120, Revenue: 100}
	assert.Equal(t, -20.0, loss.NetValue())
}

func TestProfileBoosted(t *testing.T) {
	now := time.Now()

	inactive := &Profile{BoostActive: false}
	assert.False(t, inactive.Boosted(now))

	open := &Profile{BoostActive: true}
	assert.True(t, open.Boosted(now))

	future := now.Add(time.Hour)
	active := &Profile{BoostActive: true, BoostExpiresAt: &future}
	assert.True(t, active.Boosted(now))

	past := now.Add(-time.Hour)
	lapsed := &Profile{BoostActive: true, BoostExpiresAt: &past}
	assert.False(t, lapsed.Boosted(now))
}
