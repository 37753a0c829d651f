package main

import (
	"fmt"
	"io"
	"sort"

	"graphology-api/internal/domain"
	"graphology-api/internal/service"
)

const (
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorReset  = "\033[0m"
)

func directionColor(d domain.TrendDirection) string {
	switch d {
	case domain.TrendUp:
		return colorGreen
	case domain.TrendDown:
		return colorRed
	default:
		return colorYellow
	}
}

// renderTrends imprime una línea por rasgo con valor actual, cambio y dirección.
func renderTrends(w io.Writer, trends []domain.TraitTrend, src service.TrendSourceKind) {
	fmt.Fprintf(w, "%sTendencias (fuente: %s)%s\n", colorCyan, src, colorReset)
	if len(trends) == 0 {
		fmt.Fprintln(w, "  sin historial")
		return
	}
	for _, t := range trends {
		fmt.Fprintf(w, "  %-3s %-22s actual=%.3f cambio=%+7.2f%% %s%s%s (%d puntos)\n",
			t.TraitCode, t.TraitName, t.CurrentValue, t.ChangePercentage,
			directionColor(t.TrendDirection), t.TrendDirection, colorReset, len(t.DataPoints))
	}
}

// renderDrift imprime los registros cuya diferencia máxima supera threshold y
// devuelve cuántos son.
func renderDrift(w io.Writer, reports []service.DriftReport, threshold float64) int {
	fmt.Fprintf(w, "%sDrift de derivación (umbral %.3f)%s\n", colorCyan, threshold, colorReset)
	flagged := 0
	for _, r := range reports {
		if r.MaxDelta <= threshold {
			continue
		}
		flagged++
		origin := "supplied"
		if r.TraitsDerived {
			origin = "derived " + r.Version
		}
		fmt.Fprintf(w, "  %s %s [%s] max=%.3f %s\n",
			r.CreatedAt.Format("2006-01-02 15:04"), r.AnalysisID, origin, r.MaxDelta, formatDeltas(r.Deltas, threshold))
	}
	if flagged == 0 {
		fmt.Fprintln(w, "  sin diferencias sobre el umbral")
	}
	return flagged
}

func formatDeltas(deltas map[string]float64, threshold float64) string {
	codes := make([]string, 0, len(deltas))
	for code, d := range deltas {
		if d > threshold || -d > threshold {
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)
	out := ""
	for i, code := range codes {
		if i > 0 {
			out += " "
		}
		out += fmt.Sprintf("%s=%+.3f", code, deltas[code])
	}
	return out
}
