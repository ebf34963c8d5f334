package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"

	"simquiz_backend/billing"
	"simquiz_backend/models"
	"simquiz_backend/quizgen"
)

type QuizStore interface {
	CreateQuiz(ctx context.Context, quiz models.Quiz, questions []models.Question) (*models.QuizWithQuestions, error)
	CreateQuizWithinLimit(ctx context.Context, quiz models.Quiz, questions []models.Question, since time.Time, limit int) (*models.QuizWithQuestions, error)
	GetQuiz(ctx context.Context, id uuid.UUID) (*models.QuizWithQuestions, error)
	ListQuizzesByCreator(ctx context.Context, userID uuid.UUID) ([]models.Quiz, error)
	CountQuizzesSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error)
}

type AttemptStore interface {
	CreateAttempt(ctx context.Context, a *models.Attempt) error
	GetAttemptForUser(ctx context.Context, id, userID uuid.UUID) (*models.Attempt, error)
	ListAttemptsByUser(ctx context.Context, userID uuid.UUID) ([]models.AttemptSummary, error)
	ListVisibleAttempts(ctx context.Context, quizIDs []uuid.UUID) ([]models.InstructorAttempt, error)
}

type ProfileStore interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	EnsureProfile(ctx context.Context, userID uuid.UUID, email string) (*models.Profile, error)
	ApplyProfileUpdate(ctx context.Context, u models.ProfileUpdate) (int64, error)
}

type QuizGenerator interface {
	Generate(ctx context.Context, req quizgen.Request) (*quizgen.Result, error)
}

type CaptionFetcher interface {
	Fetch(ctx context.Context, videoURL string) (string, error)
}

type Transcriber interface {
	Transcribe(ctx context.Context, filename string, data []byte) (string, error)
}

type CheckoutCreator interface {
	CreateCheckoutSession(ctx context.Context, p billing.CheckoutParams) (string, error)
}
