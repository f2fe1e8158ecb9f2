package dto

import (
	"time"

	"dispatchhub_backend/internal/models"
)

type CheckoutRequest struct {
	Plan string `json:"plan" validate:"required,oneof=premium boost"`
}

type CheckoutResponse struct {
	URL       string `json:"url"`
	SessionID string `json:"session_id"`
}

type PaymentResultResponse struct {
	SessionID string     `json:"session_id"`
	Plan      string     `json:"plan"`
	Status    string     `json:"status"`
	PaidAt    *time.Time `json:"paid_at,omitempty"`
}

type PlanResponse struct {
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Currency     string  `json:"currency"`
	DurationDays int     `json:"duration_days"`
}

func NewPlanResponse(p *models.SubscriptionPlan) *PlanResponse {
	return &PlanResponse{
		Code:         p.Code,
		Name:         p.Name,
		Price:        p.Price,
		Currency:     p.Currency,
		DurationDays: p.DurationDays,
	}
}
