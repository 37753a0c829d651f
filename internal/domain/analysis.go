package domain

import (
	"encoding/json"
	"time"
)

// AnalysisRecord es una observación persistida de una muestra de escritura. Es inmutable:
// un nuevo análisis crea otro registro, nunca modifica uno existente.
type AnalysisRecord struct {
	ID                string              `json:"id"`
	UserID            string              `json:"user_id"`
	Features          HandwritingFeatures `json:"features"`
	Traits            PersonalityTraits   `json:"traits"`
	OverallScore      float64             `json:"overall_score"`
	ConfidenceScore   float64             `json:"confidence_score"`
	TraitsDerived     bool                `json:"traits_derived"`
	DerivationVersion string              `json:"derivation_version,omitempty"`
	Narrative         json.RawMessage     `json:"narrative,omitempty"`
	Summary           string              `json:"summary,omitempty"`
	ProcessingTimeMs  int64               `json:"processing_time_ms"`
	CreatedAt         time.Time           `json:"created_at"`
}

// GraphologyNarrative es la parte cualitativa de la respuesta del servicio de visión.
// Se usa solo para armar el resumen de texto; el resto del sistema la trata como opaca.
type GraphologyNarrative struct {
	OverallAssessment struct {
		ConfidenceLevel string `json:"confidence_level"`
		Quality         string `json:"handwriting_quality"`
		Summary         string `json:"overall_personality_summary"`
	} `json:"overall_assessment"`
	WritingCharacteristics struct {
		Size     string `json:"size"`
		Slant    string `json:"slant"`
		Pressure string `json:"pressure"`
		Spacing  string `json:"spacing"`
		Margins  string `json:"margins"`
		Baseline string `json:"baseline"`
	} `json:"writing_characteristics"`
	PersonalityInsights struct {
		EmotionalStability string `json:"emotional_stability"`
		SocialOrientation  string `json:"social_orientation"`
		ThinkingStyle      string `json:"thinking_style"`
		Communication      string `json:"communication_style"`
		AttentionToDetail  string `json:"attention_to_detail"`
	} `json:"personality_traits"`
	Observations []struct {
		Feature        string `json:"feature"`
		Observation    string `json:"observation"`
		Interpretation string `json:"interpretation"`
	} `json:"specific_observations"`
	Recommendations struct {
		Strengths   []string `json:"strengths_to_leverage"`
		Development []string `json:"areas_for_development"`
		Careers     []string `json:"career_suggestions"`
	} `json:"recommendations"`
}
