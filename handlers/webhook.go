package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"simquiz_backend/billing"
)

const maxWebhookBytes = 1 << 20

type WebhookHandler struct {
	profiles ProfileStore
	secret   string
	now      func() time.Time
}

func NewWebhookHandler(profiles ProfileStore, secret string) *WebhookHandler {
	return &WebhookHandler{profiles: profiles, secret: secret, now: time.Now}
}

// Stripe verifies the event signature and applies the billing change it
// implies to the matching profile.
func (h *WebhookHandler) Stripe(c *gin.Context) {
	if h.secret == "" {
		respondError(c, billing.ErrNotConfigured)
		return
	}

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read body"})
		return
	}

	ev, err := billing.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), h.secret)
	if err != nil {
		log.Printf("Webhook rejected: %v", err)
		msg := "Webhook signature verification failed"
		switch {
		case errors.Is(err, billing.ErrMissingSignature):
			msg = "No signature"
		case errors.Is(err, billing.ErrInvalidEvent):
			msg = err.Error()
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	update, err := billing.UpdateForEvent(ev, h.now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if update == nil {
		log.Printf("Webhook %s (%s): nothing to apply", ev.Type, ev.ID)
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	n, err := h.profiles.ApplyProfileUpdate(c.Request.Context(), *update)
	if err != nil {
		respondError(c, err)
		return
	}
	log.Printf("Webhook %s (%s): updated %d profile(s) to %s", ev.Type, ev.ID, n, update.Status)
	c.JSON(http.StatusOK, gin.H{"received": true})
}
