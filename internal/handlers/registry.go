package handlers

import (
	"dispatchhub_backend/internal/i18n"
	"dispatchhub_backend/internal/services"
	"dispatchhub_backend/internal/validator"
)

// AppHandlers bundles the HTTP handlers for route registration.
type AppHandlers struct {
	Auth    *AuthHandler
	Profile *ProfileHandler
	Job     *JobHandler
	Billing *BillingHandler
	I18n    *I18nHandler
}

func NewAppHandlers(svc *services.ServiceContainer, table *i18n.Table) *AppHandlers {
	base := NewBaseHandler(validator.New())

	return &AppHandlers{
		Auth:    NewAuthHandler(base, svc.Auth),
		Profile: NewProfileHandler(base, svc.Profile),
		Job:     NewJobHandler(base, svc.Job, svc.Earnings),
		Billing: NewBillingHandler(base, svc.Billing),
		I18n:    NewI18nHandler(table),
	}
}
