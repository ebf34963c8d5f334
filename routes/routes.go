package routes

import (
	"database/sql"

	"github.com/gin-gonic/gin"

	"simquiz_backend/billing"
	"simquiz_backend/config"
	"simquiz_backend/db"
	"simquiz_backend/handlers"
	"simquiz_backend/middleware"
	"simquiz_backend/quizgen"
	"simquiz_backend/subscription"
	"simquiz_backend/transcript"
)

// SetupRoutes configures all the routes for the application
func SetupRoutes(r *gin.Engine, database *sql.DB, cfg *config.Config) {
	store := db.NewStore(database)

	// Outbound clients
	generator := quizgen.NewGenerator(quizgen.Config{
		APIKey:    cfg.AnthropicAPIKey,
		Model:     cfg.AnthropicModel,
		MaxTokens: cfg.AnthropicMaxTokens,
		BaseURL:   cfg.AnthropicBaseURL,
	}, nil)
	captions := transcript.NewCaptionsClient(nil)
	whisper := transcript.NewWhisperClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, nil)
	stripe := billing.NewClient(billing.Config{
		SecretKey:     cfg.StripeSecretKey,
		PriceID:       cfg.StripePriceID,
		WebhookSecret: cfg.StripeWebhookSecret,
	}, nil)

	// Initialize handlers
	quota := handlers.NewQuotaService(store, store, subscription.NewChecker(cfg.FreeQuizLimit))
	healthHandler := handlers.NewHealthHandler(database)
	webhookHandler := handlers.NewWebhookHandler(store, stripe.WebhookSecret())
	profileHandler := handlers.NewProfileHandler(store)
	subscriptionHandler := handlers.NewSubscriptionHandler(quota, stripe)
	quizHandler := handlers.NewQuizHandler(store, quota, generator, captions)
	transcriptionHandler := handlers.NewTranscriptionHandler(whisper)
	attemptHandler := handlers.NewAttemptHandler(store, store)
	progressHandler := handlers.NewProgressHandler(store, store)

	// Public routes
	r.GET("/health", healthHandler.HealthCheck)
	r.POST("/webhooks/stripe", webhookHandler.Stripe)

	// Protected routes
	protected := r.Group("/")
	protected.Use(middleware.AuthMiddleware([]byte(cfg.JWTSecret)))
	{
		protected.GET("/me", profileHandler.GetMe)

		// Billing routes
		protected.GET("/subscription", subscriptionHandler.GetSubscription)
		protected.POST("/checkout", subscriptionHandler.CreateCheckout)

		// Quiz routes
		protected.POST("/quizzes/generate", quizHandler.GenerateQuiz)
		protected.GET("/quizzes", quizHandler.GetQuizzes)
		protected.GET("/quizzes/:id", quizHandler.GetQuizByID)
		protected.POST("/transcriptions", transcriptionHandler.Transcribe)

		// Attempt routes
		protected.POST("/attempts", attemptHandler.SubmitAttempt)
		protected.GET("/attempts/:id", attemptHandler.GetAttemptDetail)

		// Progress routes
		protected.GET("/progress", progressHandler.GetProgress)
		protected.GET("/instructor/dashboard", progressHandler.GetInstructorDashboard)
	}
}
