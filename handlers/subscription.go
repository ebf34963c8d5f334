package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"simquiz_backend/billing"
	"simquiz_backend/db"
	"simquiz_backend/middleware"
	"simquiz_backend/models"
	"simquiz_backend/subscription"
)

// QuotaService reads billing state and monthly usage for quota decisions.
type QuotaService struct {
	profiles ProfileStore
	quizzes  QuizStore
	checker  *subscription.Checker
}

func NewQuotaService(profiles ProfileStore, quizzes QuizStore, checker *subscription.Checker) *QuotaService {
	return &QuotaService{profiles: profiles, quizzes: quizzes, checker: checker}
}

// Quota never fails: when billing state cannot be read the caller is
// treated as a free-tier user with no usage. A missing profile is a plain
// free account.
func (s *QuotaService) Quota(ctx context.Context, userID uuid.UUID) subscription.Quota {
	acct := subscription.Account{Status: subscription.StatusFree}
	p, err := s.profiles.GetProfile(ctx, userID)
	switch {
	case err == nil:
		acct = subscription.Account{
			Status:         subscription.ParseStatus(p.SubscriptionStatus),
			SubscriptionID: p.SubscriptionID,
			TrialEndsAt:    p.TrialEndsAt,
		}
	case !errors.Is(err, db.ErrNotFound):
		log.Printf("Error getting subscription status for %s: %v", userID, err)
		return s.checker.FreeTier()
	}

	count, err := s.quizzes.CountQuizzesSince(ctx, userID, s.checker.WindowStart())
	if err != nil {
		log.Printf("Error counting quizzes for %s: %v", userID, err)
		return s.checker.FreeTier()
	}
	return s.checker.Quota(acct, count)
}

// WindowStart is the start of the current quota month.
func (s *QuotaService) WindowStart() time.Time {
	return s.checker.WindowStart()
}

func (s *QuotaService) Check(ctx context.Context, userID uuid.UUID) subscription.Decision {
	return subscription.Decide(s.Quota(ctx, userID))
}

type SubscriptionHandler struct {
	quota    *QuotaService
	checkout CheckoutCreator
}

func NewSubscriptionHandler(quota *QuotaService, checkout CheckoutCreator) *SubscriptionHandler {
	return &SubscriptionHandler{quota: quota, checkout: checkout}
}

func (h *SubscriptionHandler) GetSubscription(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	c.JSON(http.StatusOK, h.quota.Check(c.Request.Context(), userID))
}

func (h *SubscriptionHandler) CreateCheckout(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	sessionID, err := h.checkout.CreateCheckoutSession(c.Request.Context(), billing.CheckoutParams{
		UserID: userID.String(),
		Email:  middleware.UserEmail(c),
		Origin: c.GetHeader("Origin"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.CheckoutResponse{SessionID: sessionID})
}
