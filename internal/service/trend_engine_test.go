package service

import (
	"testing"
	"time"

	"graphology-api/internal/domain"
)

func recordAt(at time.Time, cnf float64) domain.AnalysisRecord {
	return domain.AnalysisRecord{
		ID:        at.Format(time.RFC3339),
		CreatedAt: at,
		Traits:    domain.PersonalityTraits{CNF: cnf, EMX: 0.5, CRT: 0.5, DSC: 0.5, SOC: 0.5, NRG: 0.5, INT: 0.5, IND: 0.5},
	}
}

func findTrend(t *testing.T, trends []domain.TraitTrend, code string) domain.TraitTrend {
	t.Helper()
	for _, tr := range trends {
		if tr.TraitCode == code {
			return tr
		}
	}
	t.Fatalf("trend %s not found", code)
	return domain.TraitTrend{}
}

func TestBuildTrends_EmptyHistory(t *testing.T) {
	engine := NewTrendEngine(0)

	trends := engine.BuildTrends(SelectTrendSource(nil, nil))
	if trends == nil {
		t.Fatalf("expected non-nil empty list")
	}
	if len(trends) != 0 {
		t.Fatalf("expected no trends, got %d", len(trends))
	}
}

func TestBuildTrends_SinglePointIsStable(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	trends := DefaultTrendEngine.BuildTrends(RecordSource([]domain.AnalysisRecord{recordAt(base, 0.7)}))

	if len(trends) != len(domain.TraitCodes) {
		t.Fatalf("expected %d trends, got %d", len(domain.TraitCodes), len(trends))
	}
	cnf := findTrend(t, trends, domain.TraitConfidence)
	if cnf.TrendDirection != domain.TrendStable || cnf.ChangePercentage != 0 {
		t.Fatalf("expected stable/0, got %s/%v", cnf.TrendDirection, cnf.ChangePercentage)
	}
	if cnf.CurrentValue != 0.7 {
		t.Fatalf("expected current 0.7, got %v", cnf.CurrentValue)
	}
	if cnf.TraitName != "Confidence" || cnf.Color != "#3B82F6" {
		t.Fatalf("unexpected display metadata %q %q", cnf.TraitName, cnf.Color)
	}
}

func TestBuildTrends_Directions(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		name       string
		first      float64
		last       float64
		wantChange float64
		wantDir    domain.TrendDirection
	}{
		{name: "ten percent up", first: 50, last: 55, wantChange: 10, wantDir: domain.TrendUp},
		{name: "ten percent down", first: 50, last: 45, wantChange: -10, wantDir: domain.TrendDown},
		{name: "inside deadband", first: 0.5, last: 0.505, wantChange: 1, wantDir: domain.TrendStable},
		{name: "zero baseline reports no change", first: 0, last: 40, wantChange: 0, wantDir: domain.TrendStable},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			records := []domain.AnalysisRecord{
				recordAt(base, tc.first),
				recordAt(base.Add(24*time.Hour), tc.last),
			}
			cnf := findTrend(t, DefaultTrendEngine.BuildTrends(RecordSource(records)), domain.TraitConfidence)
			if !approxEqual(cnf.ChangePercentage, tc.wantChange) {
				t.Fatalf("expected change %v, got %v", tc.wantChange, cnf.ChangePercentage)
			}
			if cnf.TrendDirection != tc.wantDir {
				t.Fatalf("expected direction %s, got %s", tc.wantDir, cnf.TrendDirection)
			}
		})
	}
}

func TestBuildTrends_SortsRecordsAscending(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	// Los registros llegan del repositorio en orden descendente.
	records := []domain.AnalysisRecord{
		recordAt(base.Add(48*time.Hour), 0.9),
		recordAt(base.Add(24*time.Hour), 0.6),
		recordAt(base, 0.3),
	}

	cnf := findTrend(t, DefaultTrendEngine.BuildTrends(RecordSource(records)), domain.TraitConfidence)
	if len(cnf.DataPoints) != 3 {
		t.Fatalf("expected 3 points, got %d", len(cnf.DataPoints))
	}
	for i := 1; i < len(cnf.DataPoints); i++ {
		if cnf.DataPoints[i].Date.Before(cnf.DataPoints[i-1].Date) {
			t.Fatalf("points not ascending at %d", i)
		}
	}
	if cnf.CurrentValue != 0.9 {
		t.Fatalf("expected current value from most recent record, got %v", cnf.CurrentValue)
	}
	if cnf.TrendDirection != domain.TrendUp || !approxEqual(cnf.ChangePercentage, 200) {
		t.Fatalf("expected up/200, got %s/%v", cnf.TrendDirection, cnf.ChangePercentage)
	}
}

func TestBuildTrends_CapsWindow(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	var snapshots []domain.PersonalitySnapshot
	for i := 0; i < 10; i++ {
		snapshots = append(snapshots, domain.PersonalitySnapshot{
			SnapshotDate: base.AddDate(0, 0, i),
			AvgTraits:    domain.PersonalityTraits{CNF: 0.1 * float64(i+1)},
		})
	}

	cnf := findTrend(t, NewTrendEngine(4).BuildTrends(SnapshotSource(snapshots)), domain.TraitConfidence)
	if len(cnf.DataPoints) != 4 {
		t.Fatalf("expected 4 points, got %d", len(cnf.DataPoints))
	}
	if !cnf.DataPoints[0].Date.Equal(base.AddDate(0, 0, 6)) {
		t.Fatalf("expected window to keep most recent points, first=%s", cnf.DataPoints[0].Date)
	}
}

func TestSelectTrendSource_PrefersSnapshots(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	snapshots := []domain.PersonalitySnapshot{{SnapshotDate: base, AvgTraits: domain.PersonalityTraits{CNF: 0.2}}}
	records := []domain.AnalysisRecord{recordAt(base, 0.9), recordAt(base.Add(time.Hour), 0.8)}

	src := SelectTrendSource(snapshots, records)
	if src.Kind != TrendSourceSnapshots {
		t.Fatalf("expected snapshots source, got %s", src.Kind)
	}
	if src.Len() != 1 {
		t.Fatalf("expected sources not to be merged, got %d observations", src.Len())
	}
	cnf := findTrend(t, DefaultTrendEngine.BuildTrends(src), domain.TraitConfidence)
	if cnf.CurrentValue != 0.2 {
		t.Fatalf("expected snapshot value, got %v", cnf.CurrentValue)
	}

	if got := SelectTrendSource(nil, records).Kind; got != TrendSourceRecords {
		t.Fatalf("expected records fallback, got %s", got)
	}
}

func TestPercentChangeAndClassify(t *testing.T) {
	if got := PercentChange(0, 0.4); got != 0 {
		t.Fatalf("expected 0 on zero baseline, got %v", got)
	}
	if got := ClassifyTrend(1.99); got != domain.TrendStable {
		t.Fatalf("expected stable below deadband, got %s", got)
	}
	if got := ClassifyTrend(2); got != domain.TrendUp {
		t.Fatalf("expected up at deadband edge, got %s", got)
	}
	if got := ClassifyTrend(-2.5); got != domain.TrendDown {
		t.Fatalf("expected down, got %s", got)
	}
}
