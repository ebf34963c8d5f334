package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"simquiz_backend/analytics"
	"simquiz_backend/middleware"
	"simquiz_backend/models"
)

type AttemptHandler struct {
	quizzes  QuizStore
	attempts AttemptStore
}

func NewAttemptHandler(quizzes QuizStore, attempts AttemptStore) *AttemptHandler {
	return &AttemptHandler{quizzes: quizzes, attempts: attempts}
}

// questionTopics resolves each question's topic in display order.
func questionTopics(quiz *models.QuizWithQuestions) []string {
	topics := make([]string, len(quiz.Questions))
	for i, q := range quiz.Questions {
		topics[i] = analytics.QuestionTopic(q.Topic, quiz.Topics)
	}
	return topics
}

func outcomes(answers []models.AnswerRecord) []bool {
	correct := make([]bool, len(answers))
	for i, a := range answers {
		correct[i] = a.Correct
	}
	return correct
}

// gradeAnswers scores selections against the stored answer key. Questions
// without a selection count as skipped.
func gradeAnswers(questions []models.Question, selections []*int) ([]models.AnswerRecord, error) {
	if len(selections) > len(questions) {
		return nil, fmt.Errorf("got %d selections for %d questions", len(selections), len(questions))
	}
	answers := make([]models.AnswerRecord, len(questions))
	for i, q := range questions {
		if i >= len(selections) || selections[i] == nil {
			continue
		}
		sel := *selections[i]
		if sel < 0 || sel >= len(q.Options) {
			return nil, fmt.Errorf("selection %d for question %d is out of range", sel, i+1)
		}
		answers[i] = models.AnswerRecord{Selected: &sel, Correct: sel == q.CorrectAnswer}
	}
	return answers, nil
}

func (h *AttemptHandler) SubmitAttempt(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req models.SubmitAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	quiz, err := h.quizzes.GetQuiz(ctx, req.QuizID)
	if err != nil {
		respondError(c, err)
		return
	}

	answers, err := gradeAnswers(quiz.Questions, req.Selections)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	correct := outcomes(answers)
	score := analytics.ScoreSummary(correct, len(quiz.Questions))
	perf := analytics.TopicPerformance(questionTopics(quiz), correct)
	weak := analytics.Classify(perf, analytics.DashboardThresholds).NeedsReview

	attempt := &models.Attempt{
		QuizID:            quiz.ID,
		UserID:            userID,
		Mode:              req.Mode,
		Score:             score.CorrectCount,
		TotalQuestions:    score.Total,
		Percentage:        score.Percentage,
		TimeSpentSeconds:  req.TimeSpentSeconds,
		Answers:           answers,
		WeakTopics:        weak,
		InstructorVisible: req.InstructorVisible,
	}
	if err := h.attempts.CreateAttempt(ctx, attempt); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, attempt)
}

// GetAttemptDetail returns one of the caller's attempts with per-topic
// results and the pass band.
func (h *AttemptHandler) GetAttemptDetail(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid attempt ID"})
		return
	}

	ctx := c.Request.Context()
	attempt, err := h.attempts.GetAttemptForUser(ctx, id, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	quiz, err := h.quizzes.GetQuiz(ctx, attempt.QuizID)
	if err != nil {
		respondError(c, err)
		return
	}

	perf := analytics.TopicPerformance(questionTopics(quiz), outcomes(attempt.Answers))
	c.JSON(http.StatusOK, models.AttemptDetailResponse{
		Attempt:          *attempt,
		Quiz:             *quiz,
		TopicPerformance: perf,
		Areas:            analytics.Classify(perf, analytics.DetailThresholds),
		Result:           analytics.PassBand(attempt.Percentage),
	})
}
