package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"dispatchhub_backend/internal/models"
	"dispatchhub_backend/internal/repositories/repotest"
	"dispatchhub_backend/internal/services/billing"
	"dispatchhub_backend/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStripe mimics the two checkout endpoints the gateway calls.
type fakeStripe struct {
	mu       sync.Mutex
	sessions map[string]string // session id -> plan code
	paid     map[string]bool
	seq      int
}

func newFakeStripe() *fakeStripe {
	return &fakeStripe{
		sessions: make(map[string]string),
		paid:     make(map[string]bool),
	}
}

func (f *fakeStripe) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/checkout/sessions", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.seq++
		id := fmt.Sprintf("cs_test_%d", f.seq)
		f.sessions[id] = r.PostFormValue("metadata[plan]")
		f.mu.Unlock()

		json.NewEncoder(w).Encode(map[string]string{
			"id":  id,
			"url": "https://checkout.example.com/" + id,
		})
	})
	mux.HandleFunc("/v1/checkout/sessions/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/v1/checkout/sessions/")
		f.mu.Lock()
		plan, ok := f.sessions[id]
		paid := f.paid[id]
		f.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		status := "unpaid"
		if paid {
			status = "paid"
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":             id,
			"payment_status": status,
			"customer":       "cus_test",
			"subscription":   "sub_test",
			"metadata":       map[string]string{"plan": plan},
		})
	})
	return mux
}

func (f *fakeStripe) markPaid(sessionID string) {
	f.mu.Lock()
	f.paid[sessionID] = true
	f.mu.Unlock()
}

type billingFixture struct {
	svc      *BillingService
	profiles *repotest.ProfileRepo
	billing  *repotest.BillingRepo
	stripe   *fakeStripe
	server   *httptest.Server
}

func newBillingFixture(t *testing.T) *billingFixture {
	t.Helper()

	stripe := newFakeStripe()
	server := httptest.NewServer(stripe.handler())
	t.Cleanup(server.Close)

	profiles := repotest.NewProfileRepo()
	billingRepo := repotest.NewBillingRepo()

	require.NoError(t, billingRepo.CreatePlan(context.Background(), &models.SubscriptionPlan{
		Code: models.PlanPremium, Name: "Premium", Price: 9.99, Currency: "usd", DurationDays: 30, IsActive: true,
	}))
	require.NoError(t, billingRepo.CreatePlan(context.Background(), &models.SubscriptionPlan{
		Code: models.PlanBoost, Name: "Boost", Price: 4.99, Currency: "usd", DurationDays: 30, IsActive: true,
	}))

	gateway := billing.NewStripeGateway("sk_test", server.URL)
	svc := NewBillingService(
		billingRepo, profiles, gateway, nil,
		"http://localhost/success", "http://localhost/cancel",
	)

	return &billingFixture{
		svc:      svc,
		profiles: profiles,
		billing:  billingRepo,
		stripe:   stripe,
		server:   server,
	}
}

func (f *billingFixture) addProfile(t *testing.T) string {
	t.Helper()
	id := uuid.NewString()
	require.NoError(t, f.profiles.Create(context.Background(), &models.Profile{
		ID: id, Email: id + "@example.com", Role: models.UserRoleDispatch,
	}))
	return id
}

func TestStartCheckout(t *testing.T) {
	f := newBillingFixture(t)
	user := f.addProfile(t)

	resp, err := f.svc.StartCheckout(context.Background(), user, models.PlanPremium)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.SessionID)
	assert.Contains(t, resp.URL, resp.SessionID)

	tx, err := f.billing.FindTransactionBySession(context.Background(), resp.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, tx.Status)
	assert.Equal(t, user, tx.UserID)
}

func TestStartCheckoutUnknownPlan(t *testing.T) {
	f := newBillingFixture(t)
	user := f.addProfile(t)

	_, err := f.svc.StartCheckout(context.Background(), user, "platinum")
	assert.ErrorIs(t, err, apperrors.ErrUnknownPlan)
}

func TestStartCheckoutGatewayDown(t *testing.T) {
	f := newBillingFixture(t)
	user := f.addProfile(t)
	f.server.Close()

	_, err := f.svc.StartCheckout(context.Background(), user, models.PlanPremium)
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeExternalServiceError, appErr.Code)
	assert.Equal(t, http.StatusServiceUnavailable, appErr.HTTPCode)
}

func TestConfirmCheckoutPremium(t *testing.T) {
	f := newBillingFixture(t)
	user := f.addProfile(t)

	resp, err := f.svc.StartCheckout(context.Background(), user, models.PlanPremium)
	require.NoError(t, err)
	f.stripe.markPaid(resp.SessionID)

	result, err := f.svc.ConfirmCheckout(context.Background(), resp.SessionID)
	require.NoError(t, err)
	assert.Equal(t, string(models.PaymentStatusPaid), result.Status)
	require.NotNil(t, result.PaidAt)

	profile, err := f.profiles.FindByID(context.Background(), user)
	require.NoError(t, err)
	assert.True(t, profile.SubscriptionActive)
	require.NotNil(t, profile.SubscriptionExpiresAt)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 30), *profile.SubscriptionExpiresAt, time.Minute)
	assert.False(t, profile.BoostActive)
}

func TestConfirmCheckoutBoost(t *testing.T) {
	f := newBillingFixture(t)
	user := f.addProfile(t)

	resp, err := f.svc.StartCheckout(context.Background(), user, models.PlanBoost)
	require.NoError(t, err)
	f.stripe.markPaid(resp.SessionID)

	_, err = f.svc.ConfirmCheckout(context.Background(), resp.SessionID)
	require.NoError(t, err)

	profile, err := f.profiles.FindByID(context.Background(), user)
	require.NoError(t, err)
	assert.True(t, profile.BoostActive)
	assert.False(t, profile.SubscriptionActive)
}

func TestConfirmCheckoutUnpaid(t *testing.T) {
	f := newBillingFixture(t)
	user := f.addProfile(t)

	resp, err := f.svc.StartCheckout(context.Background(), user, models.PlanPremium)
	require.NoError(t, err)

	_, err = f.svc.ConfirmCheckout(context.Background(), resp.SessionID)
	assert.ErrorIs(t, err, apperrors.ErrPaymentNotCompleted)

	profile, err := f.profiles.FindByID(context.Background(), user)
	require.NoError(t, err)
	assert.False(t, profile.SubscriptionActive)
}

func TestConfirmCheckoutIdempotent(t *testing.T) {
	f := newBillingFixture(t)
	user := f.addProfile(t)

	resp, err := f.svc.StartCheckout(context.Background(), user, models.PlanPremium)
	require.NoError(t, err)
	f.stripe.markPaid(resp.SessionID)

	first, err := f.svc.ConfirmCheckout(context.Background(), resp.SessionID)
	require.NoError(t, err)
	second, err := f.svc.ConfirmCheckout(context.Background(), resp.SessionID)
	require.NoError(t, err)
	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Equal(t, first.Status, second.Status)
}

func TestConfirmCheckoutUnknownSession(t *testing.T) {
	f := newBillingFixture(t)

	_, err := f.svc.ConfirmCheckout(context.Background(), "cs_missing")
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func TestCancelCheckout(t *testing.T) {
	f := newBillingFixture(t)
	user := f.addProfile(t)

	resp, err := f.svc.StartCheckout(context.Background(), user, models.PlanBoost)
	require.NoError(t, err)

	require.NoError(t, f.svc.CancelCheckout(context.Background(), resp.SessionID))

	tx, err := f.billing.FindTransactionBySession(context.Background(), resp.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusFailed, tx.Status)

	// The profile is untouched.
	profile, err := f.profiles.FindByID(context.Background(), user)
	require.NoError(t, err)
	assert.False(t, profile.BoostActive)
	assert.False(t, profile.SubscriptionActive)
}

func TestCancelCheckoutAfterPaidIsNoOp(t *testing.T) {
	f := newBillingFixture(t)
	user := f.addProfile(t)

	resp, err := f.svc.StartCheckout(context.Background(), user, models.PlanPremium)
	require.NoError(t, err)
	f.stripe.markPaid(resp.SessionID)
	_, err = f.svc.ConfirmCheckout(context.Background(), resp.SessionID)
	require.NoError(t, err)

	require.NoError(t, f.svc.CancelCheckout(context.Background(), resp.SessionID))

	tx, err := f.billing.FindTransactionBySession(context.Background(), resp.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, tx.Status)
}

func TestExpireEntitlements(t *testing.T) {
	f := newBillingFixture(t)
	lapsed := f.addProfile(t)
	current := f.addProfile(t)

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(24 * time.Hour)
	require.NoError(t, f.profiles.ActivateBoost(context.Background(), lapsed, "sub_old", past))
	require.NoError(t, f.profiles.ActivateSubscription(context.Background(), lapsed, "cus", "sub_old2", past))
	require.NoError(t, f.profiles.ActivateBoost(context.Background(), current, "sub_new", future))

	boosts, subs, err := f.svc.ExpireEntitlements(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), boosts)
	assert.Equal(t, int64(1), subs)

	p, err := f.profiles.FindByID(context.Background(), lapsed)
	require.NoError(t, err)
	assert.False(t, p.BoostActive)
	assert.False(t, p.SubscriptionActive)

	p, err = f.profiles.FindByID(context.Background(), current)
	require.NoError(t, err)
	assert.True(t, p.BoostActive)
}
