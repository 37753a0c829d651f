package service

import (
	"math"

	"graphology-api/internal/domain"
)

// DerivationVersion identifica el juego de pesos de DeriveTraits. Cambiar un peso
// reinterpreta datos históricos, así que cualquier cambio requiere una versión nueva.
const DerivationVersion = "v1"

// TraitEngine deriva rasgos de personalidad a partir de features de escritura.
// Es puro y seguro para uso concurrente.
type TraitEngine struct{}

// DefaultTraitEngine permite uso directo sin instanciar.
var DefaultTraitEngine = TraitEngine{}

// DeriveTraits aplica las combinaciones lineales fijas a features ya validadas.
// Devuelve *domain.ValidationError si alguna feature está fuera de [0,1].
func (TraitEngine) DeriveTraits(f domain.HandwritingFeatures) (domain.PersonalityTraits, error) {
	if err := f.Validate(); err != nil {
		return domain.PersonalityTraits{}, err
	}

	// Desvío de la vertical, reescalado a [0,1].
	slantDeviation := math.Abs(f.SLN-0.5) * 2

	return domain.PersonalityTraits{
		CNF: clampUnit(0.6*f.LSZ + 0.4*f.PRT),
		EMX: clampUnit(0.7*slantDeviation + 0.3*f.RHM),
		CRT: clampUnit(0.6*f.LCR + 0.4*(1-f.BLN)),
		DSC: clampUnit(0.6*f.BLN + 0.4*f.MLM),
		SOC: clampUnit(0.5*f.WSP + 0.3*f.LSP + 0.2*slantDeviation),
		NRG: clampUnit(0.6*f.PRT + 0.4*f.RHM),
		INT: clampUnit(0.6*(1-f.CNT) + 0.4*f.LCR),
		IND: clampUnit(0.5*(1-f.CNT) + 0.5*(1-f.WSP)),
	}, nil
}

// OverallScore es la media aritmética de los ocho rasgos. Aplica igual a rasgos
// derivados o provistos por el servicio de visión.
func (TraitEngine) OverallScore(t domain.PersonalityTraits) float64 {
	values := t.Values()
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// AverageTraits promedia rasgo a rasgo; una lista vacía devuelve ceros.
func (TraitEngine) AverageTraits(list []domain.PersonalityTraits) domain.PersonalityTraits {
	if len(list) == 0 {
		return domain.PersonalityTraits{}
	}
	sums := make([]float64, len(domain.TraitCodes))
	for _, t := range list {
		for i, v := range t.Values() {
			sums[i] += v
		}
	}
	for i := range sums {
		sums[i] = clampUnit(sums[i] / float64(len(list)))
	}
	avg, _ := domain.TraitsFromValues(sums)
	return avg
}

// ResolveTraits devuelve los rasgos provistos si existen, o los deriva de las features.
// derived indica si se usó la derivación.
func (e TraitEngine) ResolveTraits(f domain.HandwritingFeatures, supplied *domain.PersonalityTraits, forceDerive bool) (traits domain.PersonalityTraits, derived bool, err error) {
	if supplied != nil && !forceDerive {
		if err := supplied.Validate(); err != nil {
			return domain.PersonalityTraits{}, false, err
		}
		return *supplied, false, nil
	}
	traits, err = e.DeriveTraits(f)
	if err != nil {
		return domain.PersonalityTraits{}, false, err
	}
	return traits, true, nil
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
