package dto

import (
	"time"

	"dispatchhub_backend/internal/models"
)

type CreateJobRequest struct {
	Title      string   `json:"title" validate:"required"`
	Expense    float64  `json:"expense" validate:"gte=0"`
	Revenue    float64  `json:"revenue" validate:"gte=0"`
	Latitude   *float64 `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude  *float64 `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
	AssignedTo *string  `json:"assigned_to,omitempty" validate:"omitempty,uuid"`

	// Set by the handler from the authenticated user, never from the body.
	CreatorID string `json:"-"`
}

type AssignJobRequest struct {
	DriverID string `json:"driver_id" validate:"required,uuid"`
}

type JobResponse struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	UserID         string     `json:"user_id"`
	AssignedTo     *string    `json:"assigned_to,omitempty"`
	Expense        float64    `json:"expense"`
	Revenue        float64    `json:"revenue"`
	NetValue       float64    `json:"net_value"`
	Latitude       *float64   `json:"latitude,omitempty"`
	Longitude      *float64   `json:"longitude,omitempty"`
	Status         string     `json:"status"`
	IsBoosted      bool       `json:"is_boosted"`
	BoostExpiresAt *time.Time `json:"boost_expires_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

func NewJobResponse(j *models.Job) *JobResponse {
	return &JobResponse{
		ID:          j.ID,
		Title:       j.Title,
		UserID:      j.CreatedBy,
		AssignedTo:  j.AssignedTo,
		Expense:     j.Expense,
		Revenue:     j.Revenue,
		NetValue:    j.NetValue(),
		Latitude:    j.Latitude,
		Longitude:   j.Longitude,
		Status:      string(j.Status),
		CreatedAt:   j.CreatedAt,
		CompletedAt: j.CompletedAt,
	}
}

type JobStatsResponse struct {
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"in_progress"`
	Completed  int64 `json:"completed"`
}

type EarningsResponse struct {
	UserID   string  `json:"user_id"`
	Role     string  `json:"role"`
	Total    float64 `json:"total"`
	Currency string  `json:"currency"`
}
