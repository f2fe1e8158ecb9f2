package models

import (
	"time"

	"gorm.io/datatypes"
)

// Plan codes sold through checkout.
const (
	PlanPremium = "premium"
	PlanBoost   = "boost"
)

type SubscriptionPlan struct {
	BaseModel
	Code         string         `gorm:"uniqueIndex;not null"` // "premium", "boost"
	Name         string         `gorm:"not null"`
	Price        float64        `gorm:"not null"`
	Currency     string         `gorm:"default:'usd'"`
	DurationDays int            `gorm:"not null"`
	Features     datatypes.JSON `gorm:"type:jsonb"` // {"priority_display": true, ...}
	IsActive     bool           `gorm:"default:true"`
}

type PaymentTransaction struct {
	BaseModel
	UserID    string        `gorm:"type:uuid;not null;index"`
	PlanCode  string        `gorm:"not null"`
	Amount    float64       `gorm:"not null"`
	Currency  string        `gorm:"default:'usd'"`
	Status    PaymentStatus `gorm:"type:varchar(20);default:'pending'"`
	SessionID string        `gorm:"uniqueIndex"` // checkout session id from the gateway
	PaidAt    *time.Time
}
