package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"simquiz_backend/db"
	"simquiz_backend/middleware"
	"simquiz_backend/models"
	"simquiz_backend/quizgen"
)

type QuizHandler struct {
	quizzes   QuizStore
	quota     *QuotaService
	generator QuizGenerator
	captions  CaptionFetcher
}

func NewQuizHandler(quizzes QuizStore, quota *QuotaService, generator QuizGenerator, captions CaptionFetcher) *QuizHandler {
	return &QuizHandler{quizzes: quizzes, quota: quota, generator: generator, captions: captions}
}

func (h *QuizHandler) GenerateQuiz(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req models.GenerateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.VideoURL = strings.TrimSpace(req.VideoURL)
	if req.VideoURL == "" && strings.TrimSpace(req.Transcript) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Either videoUrl or transcript is required"})
		return
	}

	ctx := c.Request.Context()
	decision := h.quota.Check(ctx, userID)
	if !decision.Allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": decision.Reason, "subscription": decision.Quota})
		return
	}

	text := req.Transcript
	sourceType := req.SourceType
	var sourceURL *string
	if req.VideoURL != "" {
		sourceURL = &req.VideoURL
	}
	if strings.TrimSpace(text) == "" {
		fetched, err := h.captions.Fetch(ctx, req.VideoURL)
		if err != nil {
			respondError(c, err)
			return
		}
		text = fetched
		sourceType = models.SourceYouTube
	}
	if sourceType == "" {
		sourceType = models.SourceTranscript
	}

	result, err := h.generator.Generate(ctx, quizgen.Request{
		Transcript:   text,
		NumQuestions: req.NumQuestions,
		Coverage:     req.CoverageMode,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	newQuiz := models.Quiz{
		Title:        result.Title,
		SourceURL:    sourceURL,
		SourceType:   sourceType,
		Topics:       result.Topics,
		CoverageMode: req.CoverageMode,
		CreatedBy:    userID,
	}
	var quiz *models.QuizWithQuestions
	if decision.Quota.Unlimited {
		quiz, err = h.quizzes.CreateQuiz(ctx, newQuiz, result.Questions)
	} else {
		// Parallel requests can all pass the check above; the insert
		// counts again under a per-user lock.
		quiz, err = h.quizzes.CreateQuizWithinLimit(ctx, newQuiz, result.Questions, h.quota.WindowStart(), decision.Quota.QuizLimit)
	}
	if errors.Is(err, db.ErrQuotaExceeded) {
		denied := h.quota.Check(ctx, userID)
		reason := denied.Reason
		if reason == "" {
			reason = err.Error()
		}
		c.JSON(http.StatusForbidden, gin.H{"error": reason, "subscription": denied.Quota})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, quiz)
}

func (h *QuizHandler) GetQuizzes(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	quizzes, err := h.quizzes.ListQuizzesByCreator(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quizzes)
}

func (h *QuizHandler) GetQuizByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quiz ID"})
		return
	}

	quiz, err := h.quizzes.GetQuiz(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quiz)
}
