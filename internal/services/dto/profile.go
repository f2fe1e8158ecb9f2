package dto

import (
	"time"

	"dispatchhub_backend/internal/models"
)

type ProfileResponse struct {
	ID                    string     `json:"id"`
	Email                 string     `json:"email"`
	Role                  string     `json:"role"`
	SubscriptionActive    bool       `json:"subscription_active"`
	SubscriptionExpiresAt *time.Time `json:"subscription_expires_at,omitempty"`
	BoostActive           bool       `json:"boost_active"`
	BoostExpiresAt        *time.Time `json:"boost_expires_at,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
}

func NewProfileResponse(p *models.Profile) *ProfileResponse {
	return &ProfileResponse{
		ID:                    p.ID,
		Email:                 p.Email,
		Role:                  string(p.Role),
		SubscriptionActive:    p.SubscriptionActive,
		SubscriptionExpiresAt: p.SubscriptionExpiresAt,
		BoostActive:           p.BoostActive,
		BoostExpiresAt:        p.BoostExpiresAt,
		CreatedAt:             p.CreatedAt,
	}
}
