package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"graphology-api/internal/domain"
	"graphology-api/internal/repository"
)

const (
	defaultSimilarProfiles = 5
	maxSimilarProfiles     = 20
)

// ProfileService expone estadísticas del perfil y perfiles afines por rasgos.
type ProfileService struct {
	profiles repository.ProfileRepository
	logger   *zap.Logger
}

func NewProfileService(profiles repository.ProfileRepository, logger *zap.Logger) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{profiles: profiles, logger: logger}
}

// GetProfile devuelve el perfil; si el usuario aún no analizó nada devuelve estadísticas en cero.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (domain.Profile, error) {
	p, err := s.profiles.GetByID(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Profile{ID: userID}, nil
	}
	if err != nil {
		return domain.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// Similar busca perfiles cercanos al vector de rasgos más reciente del usuario.
func (s *ProfileService) Similar(ctx context.Context, userID string, k int) ([]domain.SimilarProfile, error) {
	if k <= 0 {
		k = defaultSimilarProfiles
	}
	if k > maxSimilarProfiles {
		k = maxSimilarProfiles
	}

	p, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p.LatestTraits == nil {
		return []domain.SimilarProfile{}, nil
	}

	similar, err := s.profiles.FindSimilar(ctx, userID, *p.LatestTraits, k)
	if err != nil {
		return nil, fmt.Errorf("find similar profiles: %w", err)
	}
	for i := range similar {
		similar[i].Compatibility = math.Round(TraitCompatibility(*p.LatestTraits, similar[i].Traits)*10) / 10
	}
	return similar, nil
}
