package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"graphology-api/internal/domain"
	"graphology-api/internal/llm"
	"graphology-api/internal/metrics"
	"graphology-api/internal/repository"
)

var (
	ErrRateLimited       = errors.New("analysis rate limit exceeded")
	ErrInvalidImage      = errors.New("invalid image")
	ErrVisionUnavailable = errors.New("vision service unavailable")
	ErrAnalysisNotFound  = errors.New("analysis not found")
)

const (
	maxImageBytes     = 20 << 20
	maxRecentAnalyses = 50
)

// AnalysisService orquesta el análisis de una muestra: visión, validación, rasgos,
// persistencia y actualización de snapshot y estadísticas del perfil.
type AnalysisService struct {
	vision    llm.VisionClient
	analyses  repository.AnalysisRepository
	snapshots repository.SnapshotRepository
	profiles  repository.ProfileRepository
	limiter   AnalysisRateLimiter
	cache     TrendCache
	engine    TraitEngine
	logger    *zap.Logger
	now       func() time.Time
}

func NewAnalysisService(
	vision llm.VisionClient,
	analyses repository.AnalysisRepository,
	snapshots repository.SnapshotRepository,
	profiles repository.ProfileRepository,
	limiter AnalysisRateLimiter,
	cache TrendCache,
	logger *zap.Logger,
) *AnalysisService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalysisService{
		vision:    vision,
		analyses:  analyses,
		snapshots: snapshots,
		profiles:  profiles,
		limiter:   limiter,
		cache:     cache,
		engine:    DefaultTraitEngine,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

type AnalyzeInput struct {
	UserID      string
	Email       string
	ImageBase64 string
	Prompt      string
	// Rederive ignora los rasgos que devuelva el servicio de visión y los deriva de las features.
	Rederive bool
}

// Analyze ejecuta el pipeline completo y devuelve el registro persistido.
// Fallas posteriores al insert (snapshot, perfil, cache) se loguean y no se propagan.
func (s *AnalysisService) Analyze(ctx context.Context, in AnalyzeInput) (domain.AnalysisRecord, error) {
	start := time.Now()
	rec, err := s.analyze(ctx, in, start)
	metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.AnalysesTotal.WithLabelValues(analysisOutcome(err)).Inc()
		return domain.AnalysisRecord{}, err
	}
	metrics.AnalysesTotal.WithLabelValues("ok").Inc()
	return rec, nil
}

func (s *AnalysisService) analyze(ctx context.Context, in AnalyzeInput, start time.Time) (domain.AnalysisRecord, error) {
	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		return domain.AnalysisRecord{}, &domain.ValidationError{Field: "user_id", Reason: "missing"}
	}

	if s.limiter != nil && !s.limiter.Allow(ctx, userID) {
		metrics.RateLimited.Inc()
		return domain.AnalysisRecord{}, ErrRateLimited
	}

	imageB64, mimeType, err := decodeImage(in.ImageBase64)
	if err != nil {
		return domain.AnalysisRecord{}, err
	}

	raw, err := s.vision.AnalyzeImage(ctx, NewVisionRequest(imageB64, mimeType, in.Prompt))
	if err != nil {
		s.logger.Warn("vision analysis failed", zap.String("user_id", userID), zap.Error(err))
		return domain.AnalysisRecord{}, fmt.Errorf("%w: %v", ErrVisionUnavailable, err)
	}

	payload, err := ParseVisionPayload(raw)
	if err != nil {
		s.logger.Warn("vision payload rejected", zap.String("user_id", userID), zap.Error(err))
		return domain.AnalysisRecord{}, err
	}

	traits, derived, err := s.engine.ResolveTraits(payload.Features, payload.Traits, in.Rederive)
	if err != nil {
		return domain.AnalysisRecord{}, err
	}
	if derived {
		metrics.TraitsDerivedTotal.WithLabelValues("derived").Inc()
	} else {
		metrics.TraitsDerivedTotal.WithLabelValues("supplied").Inc()
	}
	metrics.ConfidenceScore.Observe(payload.ConfidenceScore)

	now := s.now()
	rec := domain.AnalysisRecord{
		ID:               uuid.NewString(),
		UserID:           userID,
		Features:         payload.Features,
		Traits:           traits,
		OverallScore:     s.engine.OverallScore(traits),
		ConfidenceScore:  payload.ConfidenceScore,
		TraitsDerived:    derived,
		Narrative:        payload.Narrative,
		Summary:          FormatAnalysisSummary(payload.Narrative, traits),
		ProcessingTimeMs: time.Since(start).Milliseconds(),
		CreatedAt:        now,
	}
	if derived {
		rec.DerivationVersion = DerivationVersion
	}

	if err := s.profiles.Ensure(ctx, domain.Profile{ID: userID, Email: in.Email, CreatedAt: now, UpdatedAt: now}); err != nil {
		return domain.AnalysisRecord{}, fmt.Errorf("ensure profile %s: %w", userID, err)
	}
	if err := s.analyses.Create(ctx, rec); err != nil {
		return domain.AnalysisRecord{}, fmt.Errorf("create analysis: %w", err)
	}

	if err := s.refreshSnapshot(ctx, userID, now); err != nil {
		s.logger.Warn("snapshot refresh failed", zap.String("user_id", userID), zap.Error(err))
	}
	if err := s.updateProfileStats(ctx, rec); err != nil {
		s.logger.Warn("profile stats update failed", zap.String("user_id", userID), zap.Error(err))
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, userID); err != nil {
			s.logger.Warn("trend cache invalidate failed", zap.String("user_id", userID), zap.Error(err))
		}
	}

	s.logger.Info("analysis stored",
		zap.String("user_id", userID),
		zap.String("analysis_id", rec.ID),
		zap.Bool("traits_derived", derived),
		zap.Float64("overall_score", rec.OverallScore),
		zap.Int64("processing_time_ms", rec.ProcessingTimeMs),
	)
	return rec, nil
}

// refreshSnapshot recalcula el promedio del día (UTC) con todos los registros del día.
func (s *AnalysisService) refreshSnapshot(ctx context.Context, userID string, at time.Time) error {
	day := startOfDay(at)
	records, err := s.analyses.ListBetween(ctx, userID, day, day.Add(24*time.Hour))
	if err != nil {
		return fmt.Errorf("list day analyses: %w", err)
	}
	if len(records) == 0 {
		return nil
	}
	list := make([]domain.PersonalityTraits, 0, len(records))
	for _, r := range records {
		list = append(list, r.Traits)
	}
	return s.snapshots.Upsert(ctx, domain.PersonalitySnapshot{
		ID:            uuid.NewString(),
		UserID:        userID,
		SnapshotDate:  day,
		AvgTraits:     s.engine.AverageTraits(list),
		AnalysisCount: len(records),
		UpdatedAt:     at,
	})
}

func (s *AnalysisService) updateProfileStats(ctx context.Context, rec domain.AnalysisRecord) error {
	now := s.now()
	err := s.profiles.UpdateStats(ctx, rec.UserID, func(p domain.Profile) domain.Profile {
		return ApplyAnalysisStats(p, rec, now)
	})
	if err != nil {
		return fmt.Errorf("update profile stats: %w", err)
	}
	return nil
}

// ApplyAnalysisStats incorpora un análisis nuevo a las estadísticas del perfil.
// La racha cuenta días UTC consecutivos con al menos un análisis.
func ApplyAnalysisStats(p domain.Profile, rec domain.AnalysisRecord, now time.Time) domain.Profile {
	prev := p.TotalAnalyses
	if prev < 0 {
		prev = 0
	}
	p.AverageScore = (p.AverageScore*float64(prev) + rec.OverallScore) / float64(prev+1)
	p.TotalAnalyses = prev + 1

	recDay := startOfDay(rec.CreatedAt)
	switch {
	case p.LastAnalysisDate == nil:
		p.CurrentStreak = 1
	default:
		lastDay := startOfDay(*p.LastAnalysisDate)
		gap := int(recDay.Sub(lastDay).Hours() / 24)
		switch {
		case gap == 0:
			if p.CurrentStreak < 1 {
				p.CurrentStreak = 1
			}
		case gap == 1:
			p.CurrentStreak++
		case gap > 1:
			p.CurrentStreak = 1
		}
	}
	if p.LastAnalysisDate == nil || rec.CreatedAt.After(*p.LastAnalysisDate) {
		at := rec.CreatedAt
		p.LastAnalysisDate = &at
	}

	traits := rec.Traits
	if p.BaselineTraits == nil {
		baseline := traits
		p.BaselineTraits = &baseline
	}
	p.LatestTraits = &traits
	p.UpdatedAt = now
	return p
}

func (s *AnalysisService) Get(ctx context.Context, userID, id string) (domain.AnalysisRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.AnalysisRecord{}, ErrAnalysisNotFound
	}
	rec, err := s.analyses.GetByID(ctx, userID, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.AnalysisRecord{}, ErrAnalysisNotFound
	}
	if err != nil {
		return domain.AnalysisRecord{}, fmt.Errorf("get analysis: %w", err)
	}
	return rec, nil
}

func (s *AnalysisService) Latest(ctx context.Context, userID string) (domain.AnalysisRecord, error) {
	rec, err := s.analyses.GetLatest(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.AnalysisRecord{}, ErrAnalysisNotFound
	}
	if err != nil {
		return domain.AnalysisRecord{}, fmt.Errorf("get latest analysis: %w", err)
	}
	return rec, nil
}

// ListRecent devuelve los últimos análisis; limit se acota a [1, 50].
func (s *AnalysisService) ListRecent(ctx context.Context, userID string, limit int) ([]domain.AnalysisRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > maxRecentAnalyses {
		limit = maxRecentAnalyses
	}
	records, err := s.analyses.ListRecent(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	return records, nil
}

// decodeImage acepta base64 crudo o data URL y devuelve base64 normalizado y el MIME detectado.
func decodeImage(raw string) (string, string, error) {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "data:") {
		idx := strings.Index(s, ",")
		if idx == -1 {
			return "", "", fmt.Errorf("%w: malformed data url", ErrInvalidImage)
		}
		s = s[idx+1:]
	}
	s = strings.Join(strings.Fields(s), "")
	if s == "" {
		return "", "", fmt.Errorf("%w: image data is required", ErrInvalidImage)
	}

	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return "", "", fmt.Errorf("%w: not base64", ErrInvalidImage)
	}
	if len(data) > maxImageBytes {
		return "", "", fmt.Errorf("%w: image exceeds %d bytes", ErrInvalidImage, maxImageBytes)
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", "", fmt.Errorf("%w: unsupported content type %s", ErrInvalidImage, mt.String())
	}
	return s, mt.String(), nil
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func analysisOutcome(err error) string {
	var vErr *domain.ValidationError
	switch {
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrInvalidImage):
		return "invalid_image"
	case errors.Is(err, ErrVisionUnavailable):
		return "vision_unavailable"
	case errors.Is(err, ErrMalformedPayload), errors.As(err, &vErr):
		return "invalid_payload"
	default:
		return "error"
	}
}
