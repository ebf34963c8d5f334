package billing

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"simquiz_backend/models"
	"simquiz_backend/subscription"
)

// SignatureTolerance bounds how old a signed webhook timestamp may be.
const SignatureTolerance = 5 * time.Minute

var (
	ErrMissingSignature = errors.New("no signature")
	ErrInvalidSignature = errors.New("webhook signature mismatch")
	ErrStaleSignature   = errors.New("webhook timestamp outside tolerance")
	ErrInvalidEvent     = errors.New("invalid webhook event")
)

// ConstructEvent verifies a Stripe-Signature header against the raw
// payload and decodes the event. Events sent for a different API version
// than the one the SDK is pinned to are rejected.
func ConstructEvent(payload []byte, header, secret string) (stripe.Event, error) {
	if header == "" {
		return stripe.Event{}, ErrMissingSignature
	}
	ev, err := webhook.ConstructEventWithOptions(payload, header, secret, webhook.ConstructEventOptions{
		Tolerance: SignatureTolerance,
	})
	switch {
	case err == nil:
	case errors.Is(err, webhook.ErrNotSigned):
		return stripe.Event{}, ErrMissingSignature
	case errors.Is(err, webhook.ErrTooOld):
		return stripe.Event{}, ErrStaleSignature
	case errors.Is(err, webhook.ErrNoValidSignature), errors.Is(err, webhook.ErrInvalidHeader):
		return stripe.Event{}, ErrInvalidSignature
	default:
		return stripe.Event{}, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	if ev.Type == "" {
		return stripe.Event{}, fmt.Errorf("%w: event has no type", ErrInvalidEvent)
	}
	return ev, nil
}

// SignatureHeader signs payload the way Stripe does, for local tooling and
// tests.
func SignatureHeader(payload []byte, secret string, at time.Time) string {
	return webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    secret,
		Timestamp: at,
	}).Header
}

// ParseEvent decodes an event without checking its signature.
func ParseEvent(payload []byte) (stripe.Event, error) {
	var ev stripe.Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return stripe.Event{}, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	if ev.Type == "" {
		return stripe.Event{}, fmt.Errorf("%w: event has no type", ErrInvalidEvent)
	}
	return ev, nil
}

func parseUserID(s string) (*uuid.UUID, bool) {
	if s == "" {
		return nil, false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, false
	}
	return &id, true
}

func decodeObject(ev stripe.Event, v any) error {
	if ev.Data == nil || len(ev.Data.Raw) == 0 {
		return fmt.Errorf("%w: %s has no data object", ErrInvalidEvent, ev.Type)
	}
	if err := json.Unmarshal(ev.Data.Raw, v); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrInvalidEvent, ev.Type, err)
	}
	return nil
}

// invoiceSubscriptionID finds the subscription an invoice bills. It lives
// under parent.subscription_details on current API versions.
func invoiceSubscriptionID(inv *stripe.Invoice) string {
	if inv.Parent == nil || inv.Parent.SubscriptionDetails == nil || inv.Parent.SubscriptionDetails.Subscription == nil {
		return ""
	}
	return inv.Parent.SubscriptionDetails.Subscription.ID
}

// UpdateForEvent maps a webhook event to the profile change it implies.
// Events that carry nothing actionable return (nil, nil).
func UpdateForEvent(ev stripe.Event, now time.Time) (*models.ProfileUpdate, error) {
	switch ev.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		var s stripe.CheckoutSession
		if err := decodeObject(ev, &s); err != nil {
			return nil, err
		}
		userID, ok := parseUserID(s.Metadata["user_id"])
		if !ok || s.Subscription == nil || s.Subscription.ID == "" {
			return nil, nil
		}
		sub := s.Subscription.ID
		trialEnds := now.Add(TrialPeriodDays * 24 * time.Hour)
		return &models.ProfileUpdate{
			UserID:            userID,
			Status:            string(subscription.StatusActive),
			SetSubscriptionID: true,
			NewSubscriptionID: &sub,
			SetTrialEndsAt:    true,
			TrialEndsAt:       &trialEnds,
		}, nil

	case stripe.EventTypeCustomerSubscriptionCreated, stripe.EventTypeCustomerSubscriptionUpdated:
		var s stripe.Subscription
		if err := decodeObject(ev, &s); err != nil {
			return nil, err
		}
		userID, ok := parseUserID(s.Metadata["user_id"])
		if !ok {
			return nil, nil
		}
		status := subscription.StatusCanceled
		if s.Status == stripe.SubscriptionStatusActive || s.Status == stripe.SubscriptionStatusTrialing {
			status = subscription.StatusActive
		}
		var trialEnds *time.Time
		if s.TrialEnd > 0 {
			t := time.Unix(s.TrialEnd, 0).UTC()
			trialEnds = &t
		}
		sub := s.ID
		return &models.ProfileUpdate{
			UserID:            userID,
			Status:            string(status),
			SetSubscriptionID: true,
			NewSubscriptionID: &sub,
			SetTrialEndsAt:    true,
			TrialEndsAt:       trialEnds,
		}, nil

	case stripe.EventTypeCustomerSubscriptionDeleted:
		var s stripe.Subscription
		if err := decodeObject(ev, &s); err != nil {
			return nil, err
		}
		userID, ok := parseUserID(s.Metadata["user_id"])
		if !ok {
			return nil, nil
		}
		return &models.ProfileUpdate{
			UserID:            userID,
			Status:            string(subscription.StatusCanceled),
			SetSubscriptionID: true,
			SetTrialEndsAt:    true,
		}, nil

	case stripe.EventTypeInvoicePaymentSucceeded, stripe.EventTypeInvoicePaymentFailed:
		var inv stripe.Invoice
		if err := decodeObject(ev, &inv); err != nil {
			return nil, err
		}
		subID := invoiceSubscriptionID(&inv)
		if subID == "" {
			return nil, nil
		}
		status := subscription.StatusActive
		if ev.Type == stripe.EventTypeInvoicePaymentFailed {
			status = subscription.StatusPastDue
		}
		return &models.ProfileUpdate{
			SubscriptionID: subID,
			Status:         string(status),
		}, nil
	}
	return nil, nil
}
