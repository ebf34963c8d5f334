package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"simquiz_backend/billing"
	"simquiz_backend/db"
	"simquiz_backend/quizgen"
	"simquiz_backend/transcript"
)

// statusFor maps domain errors to a status code and a client-safe message.
func statusFor(err error) (int, string) {
	var apiErr *quizgen.APIError
	switch {
	case errors.Is(err, quizgen.ErrEmptyTranscript),
		errors.Is(err, quizgen.ErrInvalidRequest),
		errors.Is(err, transcript.ErrInvalidURL),
		errors.Is(err, transcript.ErrNoCaptions),
		errors.Is(err, transcript.ErrFileTooLarge),
		errors.Is(err, transcript.ErrUnsupportedMedia),
		errors.Is(err, transcript.ErrEmptyTranscription):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, db.ErrQuotaExceeded):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, quizgen.ErrInvalidResponse):
		return http.StatusBadGateway, quizgen.ErrInvalidResponse.Error()
	case errors.As(err, &apiErr):
		return http.StatusBadGateway, "Quiz generation service error"
	case errors.Is(err, quizgen.ErrNotConfigured),
		errors.Is(err, transcript.ErrNotConfigured),
		errors.Is(err, billing.ErrNotConfigured):
		return http.StatusInternalServerError, err.Error()
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func respondError(c *gin.Context, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gin.H{"error": msg})
}
