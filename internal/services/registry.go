package services

// ServiceContainer bundles the application services for wiring into the
// HTTP layer.
type ServiceContainer struct {
	Auth     *AuthService
	Profile  *ProfileService
	Job      *JobService
	Earnings *EarningsService
	Billing  *BillingService
}
