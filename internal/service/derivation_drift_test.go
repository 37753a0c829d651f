package service

import (
	"testing"

	"graphology-api/internal/domain"
)

func TestTraitEngineDrift(t *testing.T) {
	f := sampleFeatures()
	derived, err := DefaultTraitEngine.DeriveTraits(f)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}

	t.Run("derived record has no drift", func(t *testing.T) {
		rec := domain.AnalysisRecord{ID: "a", Features: f, Traits: derived, TraitsDerived: true, DerivationVersion: DerivationVersion}
		report, err := DefaultTraitEngine.Drift(rec)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if report.MaxDelta != 0 || len(report.Deltas) != len(domain.TraitCodes) {
			t.Fatalf("expected zero drift, got %+v", report)
		}
	})

	t.Run("supplied traits drift", func(t *testing.T) {
		supplied := derived
		supplied.SOC = derived.SOC + 0.25
		supplied.IND = derived.IND - 0.1
		report, err := DefaultTraitEngine.Drift(domain.AnalysisRecord{ID: "b", Features: f, Traits: supplied})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !approxEqual(report.MaxDelta, 0.25) {
			t.Fatalf("expected max delta 0.25, got %v", report.MaxDelta)
		}
		if !approxEqual(report.Deltas[domain.TraitIndependence], -0.1) {
			t.Fatalf("expected IND delta -0.1, got %v", report.Deltas[domain.TraitIndependence])
		}
	})

	t.Run("invalid stored features", func(t *testing.T) {
		bad := f
		bad.PRT = 2
		if _, err := DefaultTraitEngine.Drift(domain.AnalysisRecord{Features: bad}); err == nil {
			t.Fatalf("expected validation error")
		}
	})
}
