package domain

import "time"

// PersonalitySnapshot es el promedio diario de rasgos de un usuario.
type PersonalitySnapshot struct {
	ID            string            `json:"id"`
	UserID        string            `json:"user_id"`
	SnapshotDate  time.Time         `json:"snapshot_date"`
	AvgTraits     PersonalityTraits `json:"avg_traits"`
	AnalysisCount int               `json:"analysis_count"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

type TrendDirection string

const (
	TrendUp     TrendDirection = "up"
	TrendDown   TrendDirection = "down"
	TrendStable TrendDirection = "stable"
)

// TrendPoint es un punto (fecha, valor) de la serie de un rasgo.
type TrendPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// TraitTrend es una vista derivada, nunca persistida, de la evolución de un rasgo.
type TraitTrend struct {
	TraitCode        string         `json:"trait_code"`
	TraitName        string         `json:"trait_name"`
	CurrentValue     float64        `json:"current_value"`
	DataPoints       []TrendPoint   `json:"data_points"`
	ChangePercentage float64        `json:"change_percentage"`
	TrendDirection   TrendDirection `json:"trend_direction"`
	Color            string         `json:"color"`
}
