package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"graphology-api/internal/domain"
)

type profileService interface {
	GetProfile(ctx context.Context, userID string) (domain.Profile, error)
	Similar(ctx context.Context, userID string, k int) ([]domain.SimilarProfile, error)
}

type ProfileHandler struct {
	logger   *zap.Logger
	profiles profileService
}

func NewProfileHandler(logger *zap.Logger, profiles profileService) *ProfileHandler {
	return &ProfileHandler{logger: logger, profiles: profiles}
}

// GetProfile maneja GET /profile.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	p, err := h.profiles.GetProfile(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, h.logger, "get profile", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": p})
}

// GetSimilar maneja GET /profile/similar?k=N.
func (h *ProfileHandler) GetSimilar(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	k := 0
	if raw := c.Query("k"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "k must be a positive integer"})
			return
		}
		k = n
	}
	similar, err := h.profiles.Similar(c.Request.Context(), userID, k)
	if err != nil {
		writeServiceError(c, h.logger, "similar profiles", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"similar": similar})
}
