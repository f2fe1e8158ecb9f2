// Package billing talks to the Stripe Checkout API over its form-encoded
// HTTP surface. The base URL is configurable so tests can point the client
// at a local httptest server.
package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// CheckoutSession is the subset of a Stripe checkout session we use.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// PaymentInfo is the settled state of a checkout session.
type PaymentInfo struct {
	Paid            bool
	CustomerRef     string
	SubscriptionRef string
	Plan            string
}

// CheckoutParams describes a single-plan checkout to start.
type CheckoutParams struct {
	CustomerEmail string
	PlanCode      string
	PlanName      string
	Amount        float64
	Currency      string
	SuccessURL    string
	CancelURL     string
}

// Gateway abstracts the payment provider so services can be tested
// without network access.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error)
	RetrieveSession(ctx context.Context, sessionID string) (*PaymentInfo, error)
}

type StripeGateway struct {
	secretKey string
	baseURL   string
	client    *http.Client
}

func NewStripeGateway(secretKey, baseURL string) *StripeGateway {
	return &StripeGateway{
		secretKey: secretKey,
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("customer_email", params.CustomerEmail)
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", strings.ToLower(params.Currency))
	form.Set("line_items[0][price_data][product_data][name]", params.PlanName)
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(toMinorUnits(params.Amount), 10))
	form.Set("metadata[plan]", params.PlanCode)

	var session CheckoutSession
	if err := g.do(ctx, http.MethodPost, "/v1/checkout/sessions", form, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (g *StripeGateway) RetrieveSession(ctx context.Context, sessionID string) (*PaymentInfo, error) {
	var raw struct {
		ID            string `json:"id"`
		PaymentStatus string `json:"payment_status"`
		Customer      string `json:"customer"`
		Subscription  string `json:"subscription"`
		Metadata      struct {
			Plan string `json:"plan"`
		} `json:"metadata"`
	}
	path := "/v1/checkout/sessions/" + url.PathEscape(sessionID)
	if err := g.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}

	return &PaymentInfo{
		Paid:            raw.PaymentStatus == "paid",
		CustomerRef:     raw.Customer,
		SubscriptionRef: raw.Subscription,
		Plan:            raw.Metadata.Plan,
	}, nil
}

func (g *StripeGateway) do(ctx context.Context, method, path string, form url.Values, out interface{}) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("stripe: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.secretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("stripe: request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("stripe: read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("stripe: %s %s returned %d: %s", method, path, resp.StatusCode, truncate(data, 256))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("stripe: decode response: %w", err)
	}
	return nil
}

// toMinorUnits converts a decimal amount to cents, rounding half up.
func toMinorUnits(amount float64) int64 {
	return int64(amount*100 + 0.5)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
