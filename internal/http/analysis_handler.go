package http

import (
	"context"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"graphology-api/internal/domain"
	"graphology-api/internal/service"
)

type analysisService interface {
	Analyze(ctx context.Context, in service.AnalyzeInput) (domain.AnalysisRecord, error)
	Get(ctx context.Context, userID, id string) (domain.AnalysisRecord, error)
	Latest(ctx context.Context, userID string) (domain.AnalysisRecord, error)
	ListRecent(ctx context.Context, userID string, limit int) ([]domain.AnalysisRecord, error)
}

// AnalysisHandler expone el análisis de muestras y el historial.
type AnalysisHandler struct {
	logger   *zap.Logger
	analyses analysisService
}

func NewAnalysisHandler(logger *zap.Logger, analyses analysisService) *AnalysisHandler {
	return &AnalysisHandler{logger: logger, analyses: analyses}
}

// CreateAnalysis maneja POST /analyses.
func (h *AnalysisHandler) CreateAnalysis(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req struct {
		ImageBase64 string `json:"image_base64" binding:"required"`
		Prompt      string `json:"prompt"`
		Rederive    bool   `json:"rederive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid analysis request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "image_base64 is required"})
		return
	}

	claims, _ := GetAuthClaims(c)
	rec, err := h.analyses.Analyze(c.Request.Context(), service.AnalyzeInput{
		UserID:      userID,
		Email:       claims.Email,
		ImageBase64: req.ImageBase64,
		Prompt:      req.Prompt,
		Rederive:    req.Rederive,
	})
	if err != nil {
		writeServiceError(c, h.logger, "analyze handwriting", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"analysis":       rec,
		"traits_display": service.TraitsForDisplay(rec.Traits),
	})
}

// ListAnalyses maneja GET /analyses?limit=N.
func (h *AnalysisHandler) ListAnalyses(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	records, err := h.analyses.ListRecent(c.Request.Context(), userID, limit)
	if err != nil {
		writeServiceError(c, h.logger, "list analyses", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"analyses": records})
}

// GetAnalysis maneja GET /analyses/:id.
func (h *AnalysisHandler) GetAnalysis(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	rec, err := h.analyses.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeServiceError(c, h.logger, "get analysis", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"analysis": rec})
}

// LatestDisplay maneja GET /analyses/latest/display.
func (h *AnalysisHandler) LatestDisplay(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	rec, err := h.analyses.Latest(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, h.logger, "latest analysis", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"analysis_id":    rec.ID,
		"created_at":     rec.CreatedAt,
		"overall_score":  displayOverall(rec.OverallScore),
		"traits_display": service.TraitsForDisplay(rec.Traits),
	})
}

func displayOverall(v float64) int {
	return int(math.Round(v * 100))
}
