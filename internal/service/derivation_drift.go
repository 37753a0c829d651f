package service

import (
	"math"
	"time"

	"graphology-api/internal/domain"
)

// DriftReport compara los rasgos guardados de un registro con los que deriva la versión
// actual de las fórmulas.
type DriftReport struct {
	AnalysisID    string             `json:"analysis_id"`
	CreatedAt     time.Time          `json:"created_at"`
	TraitsDerived bool               `json:"traits_derived"`
	Version       string             `json:"derivation_version"`
	Deltas        map[string]float64 `json:"deltas"`
	MaxDelta      float64            `json:"max_delta"`
}

// Drift re-deriva los rasgos de rec y devuelve stored - derived por rasgo.
func (e TraitEngine) Drift(rec domain.AnalysisRecord) (DriftReport, error) {
	derived, err := e.DeriveTraits(rec.Features)
	if err != nil {
		return DriftReport{}, err
	}
	report := DriftReport{
		AnalysisID:    rec.ID,
		CreatedAt:     rec.CreatedAt,
		TraitsDerived: rec.TraitsDerived,
		Version:       rec.DerivationVersion,
		Deltas:        make(map[string]float64, len(domain.TraitCodes)),
	}
	for _, code := range domain.TraitCodes {
		stored, _ := rec.Traits.Get(code)
		fresh, _ := derived.Get(code)
		d := stored - fresh
		report.Deltas[code] = d
		if math.Abs(d) > report.MaxDelta {
			report.MaxDelta = math.Abs(d)
		}
	}
	return report, nil
}
