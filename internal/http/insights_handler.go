package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"graphology-api/internal/domain"
	"graphology-api/internal/service"
)

type insightsService interface {
	GetInsights(ctx context.Context, userID string) (service.Insights, error)
	Trends(ctx context.Context, userID string) ([]domain.TraitTrend, service.TrendSourceKind, error)
}

type InsightsHandler struct {
	logger   *zap.Logger
	insights insightsService
}

func NewInsightsHandler(logger *zap.Logger, insights insightsService) *InsightsHandler {
	return &InsightsHandler{logger: logger, insights: insights}
}

// GetInsights maneja GET /insights.
func (h *InsightsHandler) GetInsights(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	out, err := h.insights.GetInsights(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, h.logger, "get insights", err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GetTrends maneja GET /insights/trends, sin cache.
func (h *InsightsHandler) GetTrends(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	trends, src, err := h.insights.Trends(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, h.logger, "get trends", err)
		return
	}
	if trends == nil {
		trends = []domain.TraitTrend{}
	}
	c.JSON(http.StatusOK, gin.H{"trends": trends, "trend_source": src})
}
