package service

import (
	"math"
	"sort"
	"time"

	"graphology-api/internal/domain"
)

const (
	// DefaultMaxTrendPoints acota la ventana de puntos por serie.
	DefaultMaxTrendPoints = 30
	// trendDeadbandPercent suprime ruido en series casi planas.
	trendDeadbandPercent = 2.0
)

type TrendSourceKind string

const (
	TrendSourceNone      TrendSourceKind = "none"
	TrendSourceSnapshots TrendSourceKind = "snapshots"
	TrendSourceRecords   TrendSourceKind = "records"
)

// TrendSource es la entrada etiquetada del motor: snapshots diarios o registros crudos.
// Las dos fuentes nunca se mezclan en una misma serie.
type TrendSource struct {
	Kind      TrendSourceKind
	snapshots []domain.PersonalitySnapshot
	records   []domain.AnalysisRecord
}

func SnapshotSource(snapshots []domain.PersonalitySnapshot) TrendSource {
	return TrendSource{Kind: TrendSourceSnapshots, snapshots: snapshots}
}

func RecordSource(records []domain.AnalysisRecord) TrendSource {
	return TrendSource{Kind: TrendSourceRecords, records: records}
}

// SelectTrendSource prefiere snapshots si hay alguno en la ventana; si no, registros crudos.
func SelectTrendSource(snapshots []domain.PersonalitySnapshot, records []domain.AnalysisRecord) TrendSource {
	switch {
	case len(snapshots) > 0:
		return SnapshotSource(snapshots)
	case len(records) > 0:
		return RecordSource(records)
	default:
		return TrendSource{Kind: TrendSourceNone}
	}
}

// Len devuelve la cantidad de observaciones de la fuente.
func (s TrendSource) Len() int {
	return len(s.snapshots) + len(s.records)
}

type observation struct {
	at     time.Time
	traits domain.PersonalityTraits
}

// observations devuelve las observaciones ordenadas por fecha ascendente.
func (s TrendSource) observations() []observation {
	var out []observation
	switch s.Kind {
	case TrendSourceSnapshots:
		out = make([]observation, 0, len(s.snapshots))
		for _, snap := range s.snapshots {
			out = append(out, observation{at: snap.SnapshotDate, traits: snap.AvgTraits})
		}
	case TrendSourceRecords:
		out = make([]observation, 0, len(s.records))
		for _, rec := range s.records {
			out = append(out, observation{at: rec.CreatedAt, traits: rec.Traits})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].at.Before(out[j].at)
	})
	return out
}

// TrendEngine convierte historial de rasgos en una TraitTrend por rasgo. No hace I/O.
type TrendEngine struct {
	MaxPoints int
}

// DefaultTrendEngine permite uso directo sin instanciar.
var DefaultTrendEngine = TrendEngine{MaxPoints: DefaultMaxTrendPoints}

func NewTrendEngine(maxPoints int) TrendEngine {
	if maxPoints <= 0 {
		maxPoints = DefaultMaxTrendPoints
	}
	return TrendEngine{MaxPoints: maxPoints}
}

// BuildTrends devuelve ocho tendencias en orden canónico, o una lista vacía sin historial.
// La lista vacía es un estado válido, no un error.
func (e TrendEngine) BuildTrends(src TrendSource) []domain.TraitTrend {
	obs := src.observations()
	if len(obs) == 0 {
		return []domain.TraitTrend{}
	}
	maxPoints := e.MaxPoints
	if maxPoints <= 0 {
		maxPoints = DefaultMaxTrendPoints
	}
	if len(obs) > maxPoints {
		obs = obs[len(obs)-maxPoints:]
	}

	trends := make([]domain.TraitTrend, 0, len(domain.TraitCodes))
	for _, code := range domain.TraitCodes {
		points := make([]domain.TrendPoint, 0, len(obs))
		for _, o := range obs {
			v, _ := o.traits.Get(code)
			points = append(points, domain.TrendPoint{Date: o.at, Value: v})
		}

		change := 0.0
		direction := domain.TrendStable
		if len(points) >= 2 {
			change = PercentChange(points[0].Value, points[len(points)-1].Value)
			direction = ClassifyTrend(change)
		}

		info, _ := domain.LookupTrait(code)
		trends = append(trends, domain.TraitTrend{
			TraitCode:        code,
			TraitName:        info.Name,
			CurrentValue:     points[len(points)-1].Value,
			DataPoints:       points,
			ChangePercentage: change,
			TrendDirection:   direction,
			Color:            info.Color,
		})
	}
	return trends
}

// PercentChange calcula (last-first)/first*100. Con first == 0 devuelve 0 aunque last > 0.
// TODO: revisar con producto si un salto desde cero debe reportarse distinto.
func PercentChange(first, last float64) float64 {
	if first == 0 {
		return 0
	}
	change := (last - first) / first * 100
	if math.IsNaN(change) || math.IsInf(change, 0) {
		return 0
	}
	return change
}

// ClassifyTrend aplica la banda muerta de 2%.
func ClassifyTrend(change float64) domain.TrendDirection {
	switch {
	case math.Abs(change) < trendDeadbandPercent:
		return domain.TrendStable
	case change > 0:
		return domain.TrendUp
	default:
		return domain.TrendDown
	}
}
