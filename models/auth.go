package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the subset of a Supabase access token the API relies on. The
// user id travels in the standard "sub" claim.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type Profile struct {
	ID                 uuid.UUID  `json:"id"`
	Email              string     `json:"email"`
	FullName           *string    `json:"full_name"`
	Role               string     `json:"role"`
	Institution        *string    `json:"institution"`
	SubscriptionStatus string     `json:"subscription_status"`
	SubscriptionID     *string    `json:"subscription_id"`
	TrialEndsAt        *time.Time `json:"trial_ends_at"`
	CreatedAt          time.Time  `json:"created_at"`
}

// ProfileUpdate carries billing fields written from payment webhooks.
// Exactly one of UserID and SubscriptionID selects the row.
type ProfileUpdate struct {
	UserID         *uuid.UUID
	SubscriptionID string

	Status            string
	SetSubscriptionID bool
	NewSubscriptionID *string
	SetTrialEndsAt    bool
	TrialEndsAt       *time.Time
}

type CheckoutResponse struct {
	SessionID string `json:"sessionId"`
}
