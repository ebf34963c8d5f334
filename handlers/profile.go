package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"simquiz_backend/middleware"
)

type ProfileHandler struct {
	profiles ProfileStore
}

func NewProfileHandler(profiles ProfileStore) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// GetMe returns the caller's profile, creating it on first request.
func (h *ProfileHandler) GetMe(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	profile, err := h.profiles.EnsureProfile(c.Request.Context(), userID, middleware.UserEmail(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
