package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"graphology-api/internal/domain"
	"graphology-api/internal/repository"
)

// Insights es la vista agregada del historial de un usuario.
type Insights struct {
	HasData        bool                         `json:"has_data"`
	LatestAnalysis *domain.AnalysisRecord       `json:"latest_analysis"`
	Snapshots      []domain.PersonalitySnapshot `json:"snapshots"`
	RecentAnalyses []domain.AnalysisRecord      `json:"recent_analyses"`
	Trends         []domain.TraitTrend          `json:"trends"`
	TrendSource    TrendSourceKind              `json:"trend_source"`
}

type InsightsService struct {
	analyses    repository.AnalysisRepository
	snapshots   repository.SnapshotRepository
	cache       TrendCache
	trends      TrendEngine
	windowDays  int
	recentLimit int
	logger      *zap.Logger
	now         func() time.Time
}

func NewInsightsService(
	analyses repository.AnalysisRepository,
	snapshots repository.SnapshotRepository,
	cache TrendCache,
	windowDays, recentLimit int,
	logger *zap.Logger,
) *InsightsService {
	if windowDays <= 0 {
		windowDays = 30
	}
	if recentLimit <= 0 {
		recentLimit = 10
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InsightsService{
		analyses:    analyses,
		snapshots:   snapshots,
		cache:       cache,
		trends:      DefaultTrendEngine,
		windowDays:  windowDays,
		recentLimit: recentLimit,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// GetInsights lee en paralelo el último análisis, los snapshots de la ventana y los
// análisis recientes. Las tendencias salen de los snapshots si hay alguno; si no, de
// los análisis recientes. Nunca se mezclan ambas fuentes.
func (s *InsightsService) GetInsights(ctx context.Context, userID string) (Insights, error) {
	var (
		latest    *domain.AnalysisRecord
		snapshots []domain.PersonalitySnapshot
		recent    []domain.AnalysisRecord
	)
	since := startOfDay(s.now()).AddDate(0, 0, -s.windowDays)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rec, err := s.analyses.GetLatest(gctx, userID)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("latest analysis: %w", err)
		}
		latest = &rec
		return nil
	})
	g.Go(func() error {
		list, err := s.snapshots.ListSince(gctx, userID, since)
		if err != nil {
			return fmt.Errorf("list snapshots: %w", err)
		}
		snapshots = list
		return nil
	})
	g.Go(func() error {
		list, err := s.analyses.ListRecent(gctx, userID, s.recentLimit)
		if err != nil {
			return fmt.Errorf("list recent analyses: %w", err)
		}
		recent = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return Insights{}, err
	}

	if snapshots == nil {
		snapshots = []domain.PersonalitySnapshot{}
	}
	if recent == nil {
		recent = []domain.AnalysisRecord{}
	}

	src := SelectTrendSource(snapshots, recent)
	out := Insights{
		HasData:        latest != nil || len(snapshots) > 0,
		LatestAnalysis: latest,
		Snapshots:      snapshots,
		RecentAnalyses: recent,
	}
	out.Trends, out.TrendSource = s.trendsFor(ctx, userID, src)
	return out, nil
}

// trendsFor sirve tendencias y fuente desde la cache cuando hay entrada; las dos
// salen siempre del mismo cálculo.
func (s *InsightsService) trendsFor(ctx context.Context, userID string, src TrendSource) ([]domain.TraitTrend, TrendSourceKind) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, userID); ok {
			return cached.Trends, cached.Source
		}
	}
	trends := s.trends.BuildTrends(src)
	if s.cache != nil && len(trends) > 0 {
		if err := s.cache.Set(ctx, userID, CachedTrends{Source: src.Kind, Trends: trends}); err != nil {
			s.logger.Warn("trend cache set failed", zap.String("user_id", userID), zap.Error(err))
		}
	}
	return trends, src.Kind
}

// Trends calcula las tendencias sin pasar por la cache.
func (s *InsightsService) Trends(ctx context.Context, userID string) ([]domain.TraitTrend, TrendSourceKind, error) {
	since := startOfDay(s.now()).AddDate(0, 0, -s.windowDays)
	snapshots, err := s.snapshots.ListSince(ctx, userID, since)
	if err != nil {
		return nil, TrendSourceNone, fmt.Errorf("list snapshots: %w", err)
	}
	var recent []domain.AnalysisRecord
	if len(snapshots) == 0 {
		recent, err = s.analyses.ListRecent(ctx, userID, s.recentLimit)
		if err != nil {
			return nil, TrendSourceNone, fmt.Errorf("list recent analyses: %w", err)
		}
	}
	src := SelectTrendSource(snapshots, recent)
	return s.trends.BuildTrends(src), src.Kind, nil
}
