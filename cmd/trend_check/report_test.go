package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"graphology-api/internal/domain"
	"graphology-api/internal/service"
)

func TestRenderTrends_Empty(t *testing.T) {
	var buf bytes.Buffer
	renderTrends(&buf, nil, service.TrendSourceNone)
	if !strings.Contains(buf.String(), "sin historial") {
		t.Fatalf("expected empty marker, got %q", buf.String())
	}
}

func TestRenderTrends_OneLinePerTrait(t *testing.T) {
	at := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	snaps := []domain.PersonalitySnapshot{
		{SnapshotDate: at, AvgTraits: domain.PersonalityTraits{CNF: 0.5}},
		{SnapshotDate: at.AddDate(0, 0, 1), AvgTraits: domain.PersonalityTraits{CNF: 0.6}},
	}
	trends := service.DefaultTrendEngine.BuildTrends(service.SnapshotSource(snaps))

	var buf bytes.Buffer
	renderTrends(&buf, trends, service.TrendSourceSnapshots)
	out := buf.String()
	if got := strings.Count(out, "\n"); got != len(domain.TraitCodes)+1 {
		t.Fatalf("expected header plus %d lines, got %d:\n%s", len(domain.TraitCodes), got, out)
	}
	if !strings.Contains(out, "+20.00%") {
		t.Fatalf("expected CNF change of +20%%, got:\n%s", out)
	}
}

func TestRenderDrift_FlagsOnlyAboveThreshold(t *testing.T) {
	reports := []service.DriftReport{
		{AnalysisID: "ok", MaxDelta: 0.01, Deltas: map[string]float64{"CNF": 0.01}},
		{AnalysisID: "bad", MaxDelta: 0.2, Deltas: map[string]float64{"CNF": -0.2, "EMX": 0.01}},
	}
	var buf bytes.Buffer
	flagged := renderDrift(&buf, reports, 0.05)
	if flagged != 1 {
		t.Fatalf("expected 1 flagged, got %d", flagged)
	}
	out := buf.String()
	if !strings.Contains(out, "bad") || strings.Contains(out, " ok ") {
		t.Fatalf("unexpected drift output:\n%s", out)
	}
	if !strings.Contains(out, "CNF=-0.200") || strings.Contains(out, "EMX=") {
		t.Fatalf("expected only CNF delta, got:\n%s", out)
	}
}

func TestRenderDrift_NoneFlagged(t *testing.T) {
	var buf bytes.Buffer
	if flagged := renderDrift(&buf, nil, 0.05); flagged != 0 {
		t.Fatalf("expected 0 flagged, got %d", flagged)
	}
	if !strings.Contains(buf.String(), "sin diferencias") {
		t.Fatalf("expected none marker, got %q", buf.String())
	}
}
