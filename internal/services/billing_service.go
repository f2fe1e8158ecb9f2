package services

import (
	"context"
	"time"

	"dispatchhub_backend/internal/email"
	"dispatchhub_backend/internal/logger"
	"dispatchhub_backend/internal/models"
	"dispatchhub_backend/internal/repositories"
	"dispatchhub_backend/internal/services/billing"
	"dispatchhub_backend/internal/services/dto"
	"dispatchhub_backend/pkg/apperrors"
)

// BillingService sells the premium and boost plans through a checkout
// gateway and applies the purchased entitlement to the buyer's profile once
// the payment settles.
type BillingService struct {
	billingRepo repositories.BillingRepository
	profileRepo repositories.ProfileRepository
	gateway     billing.Gateway
	email       email.Provider

	successURL string
	cancelURL  string
}

func NewBillingService(
	billingRepo repositories.BillingRepository,
	profileRepo repositories.ProfileRepository,
	gateway billing.Gateway,
	emailProvider email.Provider,
	successURL, cancelURL string,
) *BillingService {
	return &BillingService{
		billingRepo: billingRepo,
		profileRepo: profileRepo,
		gateway:     gateway,
		email:       emailProvider,
		successURL:  successURL,
		cancelURL:   cancelURL,
	}
}

func (s *BillingService) ListPlans(ctx context.Context) ([]*dto.PlanResponse, error) {
	plans, err := s.billingRepo.ListActivePlans(ctx)
	if err != nil {
		return nil, apperrors.StoreError(err)
	}
	out := make([]*dto.PlanResponse, 0, len(plans))
	for i := range plans {
		out = append(out, dto.NewPlanResponse(&plans[i]))
	}
	return out, nil
}

// StartCheckout opens a checkout session for the plan and records a pending
// transaction keyed by the session id.
func (s *BillingService) StartCheckout(ctx context.Context, userID, planCode string) (*dto.CheckoutResponse, error) {
	profile, err := s.profileRepo.FindByID(ctx, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrProfileNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.StoreError(err)
	}

	plan, err := s.billingRepo.FindPlanByCode(ctx, planCode)
	if err != nil {
		if apperrors.Is(err, repositories.ErrPlanNotFound) {
			return nil, apperrors.ErrUnknownPlan
		}
		return nil, apperrors.StoreError(err)
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, billing.CheckoutParams{
		CustomerEmail: profile.Email,
		PlanCode:      plan.Code,
		PlanName:      plan.Name,
		Amount:        plan.Price,
		Currency:      plan.Currency,
		SuccessURL:    s.successURL,
		CancelURL:     s.cancelURL,
	})
	if err != nil {
		return nil, apperrors.ErrPaymentGatewayUnavailable.WithError(err)
	}

	tx := &models.PaymentTransaction{
		UserID:    userID,
		PlanCode:  plan.Code,
		Amount:    plan.Price,
		Currency:  plan.Currency,
		Status:    models.PaymentStatusPending,
		SessionID: session.ID,
	}
	if err := s.billingRepo.CreateTransaction(ctx, tx); err != nil {
		return nil, apperrors.StoreError(err)
	}

	return &dto.CheckoutResponse{URL: session.URL, SessionID: session.ID}, nil
}

// ConfirmCheckout settles a returned checkout session: verifies payment with
// the gateway, applies the entitlement and marks the transaction paid.
// Calling it again for an already-settled session is a no-op.
func (s *BillingService) ConfirmCheckout(ctx context.Context, sessionID string) (*dto.PaymentResultResponse, error) {
	tx, err := s.billingRepo.FindTransactionBySession(ctx, sessionID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrTransactionNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.StoreError(err)
	}

	if tx.Status == models.PaymentStatusPaid {
		return paymentResult(tx), nil
	}

	info, err := s.gateway.RetrieveSession(ctx, sessionID)
	if err != nil {
		return nil, apperrors.ErrPaymentGatewayUnavailable.WithError(err)
	}
	if !info.Paid {
		return nil, apperrors.ErrPaymentNotCompleted
	}

	plan, err := s.billingRepo.FindPlanByCode(ctx, tx.PlanCode)
	if err != nil {
		return nil, apperrors.StoreError(err)
	}

	until := time.Now().AddDate(0, 0, plan.DurationDays)
	switch plan.Code {
	case models.PlanPremium:
		err = s.profileRepo.ActivateSubscription(ctx, tx.UserID, info.CustomerRef, info.SubscriptionRef, until)
	case models.PlanBoost:
		err = s.profileRepo.ActivateBoost(ctx, tx.UserID, info.SubscriptionRef, until)
	default:
		return nil, apperrors.ErrUnknownPlan
	}
	if err != nil {
		return nil, apperrors.StoreError(err)
	}

	now := time.Now()
	if err := s.billingRepo.MarkTransactionPaid(ctx, sessionID, now); err != nil {
		return nil, apperrors.StoreError(err)
	}
	tx.Status = models.PaymentStatusPaid
	tx.PaidAt = &now

	if s.email != nil {
		profile, perr := s.profileRepo.FindByID(ctx, tx.UserID)
		if perr == nil {
			if serr := s.email.Send(ctx, email.PaymentReceipt(profile.Email, plan.Name, tx.Amount, tx.Currency)); serr != nil {
				logger.CtxWarn(ctx, "failed to send payment receipt", "user_id", tx.UserID, "error", serr)
			}
		}
	}

	return paymentResult(tx), nil
}

// CancelCheckout records an abandoned checkout. The profile is untouched;
// an already-paid session stays paid.
func (s *BillingService) CancelCheckout(ctx context.Context, sessionID string) error {
	tx, err := s.billingRepo.FindTransactionBySession(ctx, sessionID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrTransactionNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.StoreError(err)
	}
	if tx.Status != models.PaymentStatusPending {
		return nil
	}
	if err := s.billingRepo.MarkTransactionFailed(ctx, sessionID); err != nil {
		return apperrors.StoreError(err)
	}
	return nil
}

// ExpireEntitlements clears lapsed boost and subscription flags. Called by
// the periodic worker.
func (s *BillingService) ExpireEntitlements(ctx context.Context, now time.Time) (boosts, subscriptions int64, err error) {
	boosts, err = s.profileRepo.ExpireBoosts(ctx, now)
	if err != nil {
		return 0, 0, err
	}
	subscriptions, err = s.profileRepo.ExpireSubscriptions(ctx, now)
	if err != nil {
		return boosts, 0, err
	}
	return boosts, subscriptions, nil
}

func paymentResult(tx *models.PaymentTransaction) *dto.PaymentResultResponse {
	return &dto.PaymentResultResponse{
		SessionID: tx.SessionID,
		Plan:      tx.PlanCode,
		Status:    string(tx.Status),
		PaidAt:    tx.PaidAt,
	}
}
