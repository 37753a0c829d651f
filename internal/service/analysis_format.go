package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"graphology-api/internal/domain"
)

// FormatAnalysisSummary arma el resumen de texto (markdown liviano) que se guarda
// junto al análisis. Los puntajes salen siempre de los rasgos resueltos, no de la narrativa.
func FormatAnalysisSummary(narrativeRaw json.RawMessage, traits domain.PersonalityTraits) string {
	var n domain.GraphologyNarrative
	if len(narrativeRaw) > 0 {
		// Narrativa incompleta o con tipos inesperados: se arma con lo que haya.
		_ = json.Unmarshal(narrativeRaw, &n)
	}

	var b strings.Builder

	header := "**OVERALL ASSESSMENT**"
	if level := strings.TrimSpace(n.OverallAssessment.ConfidenceLevel); level != "" {
		header += fmt.Sprintf(" (Confidence: %s)", strings.ToUpper(level))
	}
	b.WriteString(header + "\n")
	if s := strings.TrimSpace(n.OverallAssessment.Summary); s != "" {
		b.WriteString(s + "\n")
	}

	b.WriteString("\n**QUANTIFIED PERSONALITY TRAITS**\n")
	for _, d := range TraitsForDisplay(traits) {
		fmt.Fprintf(&b, "• %s: %d%%\n", d.Name, d.Score)
	}

	wc := n.WritingCharacteristics
	writeBulletSection(&b, "HANDWRITING CHARACTERISTICS", [][2]string{
		{"Size", wc.Size},
		{"Slant", wc.Slant},
		{"Pressure", wc.Pressure},
		{"Spacing", wc.Spacing},
		{"Margins", wc.Margins},
		{"Baseline", wc.Baseline},
	})

	pi := n.PersonalityInsights
	writeBulletSection(&b, "PERSONALITY INSIGHTS", [][2]string{
		{"Emotional Stability", pi.EmotionalStability},
		{"Social Orientation", pi.SocialOrientation},
		{"Thinking Style", pi.ThinkingStyle},
		{"Communication", pi.Communication},
		{"Attention to Detail", pi.AttentionToDetail},
	})

	if len(n.Observations) > 0 {
		b.WriteString("\n**SPECIFIC OBSERVATIONS**\n")
		for i, obs := range n.Observations {
			fmt.Fprintf(&b, "%d. **%s**: %s\n", i+1, obs.Feature, obs.Observation)
			if obs.Interpretation != "" {
				fmt.Fprintf(&b, "   → %s\n", obs.Interpretation)
			}
		}
	}

	rec := n.Recommendations
	if len(rec.Strengths)+len(rec.Development)+len(rec.Careers) > 0 {
		b.WriteString("\n**RECOMMENDATIONS**\n")
		writeList(&b, "Strengths to Leverage", rec.Strengths)
		writeList(&b, "Areas for Development", rec.Development)
		writeList(&b, "Career Suggestions", rec.Careers)
	}

	return strings.TrimRight(b.String(), "\n")
}

func writeBulletSection(b *strings.Builder, title string, items [][2]string) {
	var lines []string
	for _, it := range items {
		if v := strings.TrimSpace(it[1]); v != "" {
			lines = append(lines, fmt.Sprintf("• %s: %s", it[0], v))
		}
	}
	if len(lines) == 0 {
		return
	}
	b.WriteString("\n**" + title + "**\n")
	for _, l := range lines {
		b.WriteString(l + "\n")
	}
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString("**" + title + ":**\n")
	for _, it := range items {
		b.WriteString("• " + it + "\n")
	}
}
