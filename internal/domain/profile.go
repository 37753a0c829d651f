package domain

import "time"

// Profile guarda estadísticas agregadas del usuario. La identidad la gestiona el
// proveedor de auth externo; ID es el subject del token.
type Profile struct {
	ID               string             `json:"id"`
	Email            string             `json:"email,omitempty"`
	Name             string             `json:"name,omitempty"`
	TotalAnalyses    int                `json:"total_analyses"`
	CurrentStreak    int                `json:"current_streak"`
	AverageScore     float64            `json:"average_score"`
	BaselineTraits   *PersonalityTraits `json:"baseline_traits,omitempty"`
	LatestTraits     *PersonalityTraits `json:"latest_traits,omitempty"`
	LastAnalysisDate *time.Time         `json:"last_analysis_date,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

// SimilarProfile es un perfil cercano por vector de rasgos.
type SimilarProfile struct {
	ProfileID     string            `json:"profile_id"`
	Name          string            `json:"name,omitempty"`
	Traits        PersonalityTraits `json:"traits"`
	Distance      float64           `json:"distance"`
	Compatibility float64           `json:"compatibility"`
}
