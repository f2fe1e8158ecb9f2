package models

import "time"

// Profile is the per-user marketplace record. Its primary key equals the
// authenticated user's id; there is exactly one per identity. The role is set
// at signup and never reassigned here. Billing flags are mutated only by the
// billing service and the expiry worker.
type Profile struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Email     string    `gorm:"not null"`
	Role      UserRole  `gorm:"type:varchar(20);not null;index"`
	CreatedAt time.Time `gorm:"default:now()"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	SubscriptionActive    bool `gorm:"default:false"`
	BoostActive           bool `gorm:"default:false"`
	SubscriptionExpiresAt *time.Time
	BoostExpiresAt        *time.Time

	// External billing references
	StripeCustomerID     *string
	StripeSubscriptionID *string
	BoostSubscriptionID  *string
}

// Boosted reports whether the boost flag is live at the given instant.
func (p *Profile) Boosted(now time.Time) bool {
	if !p.BoostActive {
		return false
	}
	if p.BoostExpiresAt != nil && p.BoostExpiresAt.Before(now) {
		return false
	}
	return true
}
