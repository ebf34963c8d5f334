package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"simquiz_backend/analytics"
	"simquiz_backend/middleware"
	"simquiz_backend/models"
)

const recentAttemptLimit = 10

type ProgressHandler struct {
	quizzes  QuizStore
	attempts AttemptStore
}

func NewProgressHandler(quizzes QuizStore, attempts AttemptStore) *ProgressHandler {
	return &ProgressHandler{quizzes: quizzes, attempts: attempts}
}

// GetProgress rolls up every attempt the caller has made.
func (h *ProgressHandler) GetProgress(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	attempts, err := h.attempts.ListAttemptsByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	stats := make([]analytics.AttemptStats, len(attempts))
	for i, a := range attempts {
		stats[i] = analytics.AttemptStats{
			Percentage:       a.Percentage,
			TimeSpentSeconds: a.TimeSpentSeconds,
			WeakTopics:       a.WeakTopics,
		}
	}

	recent := attempts
	if len(recent) > recentAttemptLimit {
		recent = recent[:recentAttemptLimit]
	}

	c.JSON(http.StatusOK, models.ProgressResponse{
		Rollup:         analytics.RollupAttempts(stats),
		RecentAttempts: recent,
	})
}

// GetInstructorDashboard summarises shared attempts on the caller's quizzes.
func (h *ProgressHandler) GetInstructorDashboard(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx := c.Request.Context()
	quizzes, err := h.quizzes.ListQuizzesByCreator(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	ids := make([]uuid.UUID, len(quizzes))
	for i, q := range quizzes {
		ids[i] = q.ID
	}
	visible, err := h.attempts.ListVisibleAttempts(ctx, ids)
	if err != nil {
		respondError(c, err)
		return
	}

	rows := make([]analytics.StudentAttempt, len(visible))
	for i, a := range visible {
		name := ""
		if a.StudentName != nil {
			name = *a.StudentName
		}
		rows[i] = analytics.StudentAttempt{
			UserID:     a.UserID.String(),
			Name:       name,
			Email:      a.StudentEmail,
			Percentage: a.Percentage,
			WeakTopics: a.WeakTopics,
		}
	}

	c.JSON(http.StatusOK, models.InstructorDashboardResponse{
		Quizzes:     quizzes,
		ClassRollup: analytics.RollupClass(rows),
	})
}
