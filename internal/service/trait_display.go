package service

import (
	"math"

	"graphology-api/internal/domain"
)

// TraitsForDisplay convierte rasgos [0,1] a la vista de UI en orden canónico.
func TraitsForDisplay(t domain.PersonalityTraits) []domain.TraitDisplay {
	out := make([]domain.TraitDisplay, 0, len(domain.TraitCodes))
	for _, code := range domain.TraitCodes {
		info, _ := domain.LookupTrait(code)
		v, _ := t.Get(code)
		out = append(out, domain.TraitDisplay{TraitInfo: info, Score: displayScore(v)})
	}
	return out
}

func displayScore(v float64) int {
	return int(math.Round(v * 100))
}

// Compatibility compara dos perfiles en escala 0-100: 100 menos la diferencia media
// de puntajes de los rasgos en común. Sin rasgos en común devuelve 50.
func Compatibility(a, b []domain.TraitDisplay) float64 {
	scores := make(map[string]int, len(b))
	for _, t := range b {
		scores[t.Code] = t.Score
	}

	total := 0.0
	count := 0
	for _, t := range a {
		other, ok := scores[t.Code]
		if !ok {
			continue
		}
		total += math.Abs(float64(t.Score - other))
		count++
	}
	if count == 0 {
		return 50
	}
	return math.Max(0, math.Min(100, 100-total/float64(count)))
}

func TraitCompatibility(a, b domain.PersonalityTraits) float64 {
	return Compatibility(TraitsForDisplay(a), TraitsForDisplay(b))
}
