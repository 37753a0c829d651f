package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"graphology-api/internal/domain"
	"graphology-api/internal/service"
)

// writeServiceError traduce errores de servicio a respuestas JSON.
func writeServiceError(c *gin.Context, logger *zap.Logger, op string, err error) {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": vErr.Error(), "field": vErr.Field})
	case errors.Is(err, service.ErrInvalidImage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many analyses, try again later"})
	case errors.Is(err, service.ErrAnalysisNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "analysis not found"})
	case errors.Is(err, service.ErrVisionUnavailable):
		logger.Warn(op+" failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "vision service unavailable"})
	case errors.Is(err, service.ErrMalformedPayload):
		logger.Warn(op+" failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "vision service returned an unusable response"})
	default:
		logger.Error(op+" failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
