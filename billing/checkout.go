package billing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
)

const (
	defaultOrigin   = "http://localhost:5173"
	TrialPeriodDays = 7
)

var ErrNotConfigured = errors.New("stripe keys not configured")

type Config struct {
	SecretKey     string
	PriceID       string
	WebhookSecret string
	// APIURL overrides the Stripe API root; empty uses the SDK default.
	APIURL string
}

type Client struct {
	cfg      Config
	sessions *session.Client
}

// NewClient builds a Stripe client with its own backend so tests and
// callers can supply the transport.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	backendCfg := &stripe.BackendConfig{
		HTTPClient:        httpClient,
		MaxNetworkRetries: stripe.Int64(1),
	}
	if cfg.APIURL != "" {
		backendCfg.URL = stripe.String(cfg.APIURL)
	}
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, backendCfg)
	return &Client{cfg: cfg, sessions: &session.Client{B: backend, Key: cfg.SecretKey}}
}

func (c *Client) WebhookSecret() string {
	return c.cfg.WebhookSecret
}

type CheckoutParams struct {
	UserID string
	Email  string
	Origin string
}

func checkoutParams(priceID string, p CheckoutParams) *stripe.CheckoutSessionParams {
	origin := strings.TrimRight(p.Origin, "/")
	if origin == "" {
		origin = defaultOrigin
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(priceID), Quantity: stripe.Int64(1)},
		},
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			TrialPeriodDays: stripe.Int64(TrialPeriodDays),
			Metadata:        map[string]string{"user_id": p.UserID},
		},
		SuccessURL: stripe.String(origin + "/dashboard?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(origin + "/pricing"),
	}
	if p.Email != "" {
		params.CustomerEmail = stripe.String(p.Email)
	}
	params.AddMetadata("user_id", p.UserID)
	return params
}

// CreateCheckoutSession starts a subscription checkout with a trial and
// returns the Stripe session id.
func (c *Client) CreateCheckoutSession(ctx context.Context, p CheckoutParams) (string, error) {
	if c.cfg.SecretKey == "" || c.cfg.PriceID == "" {
		return "", ErrNotConfigured
	}

	params := checkoutParams(c.cfg.PriceID, p)
	params.Context = ctx
	s, err := c.sessions.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe checkout: %w", err)
	}
	if s.ID == "" {
		return "", errors.New("stripe returned no session id")
	}
	return s.ID, nil
}
