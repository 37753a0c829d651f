package service

import (
	"strings"

	"graphology-api/internal/domain"
	"graphology-api/internal/llm"
)

const (
	visionSchemaName  = "graphology_analysis"
	visionMaxTokens   = 3000
	visionTemperature = 0.2
)

const graphologistSystemPrompt = `You are an expert graphologist with a background in personality psychology.

For each handwriting sample provide BOTH qualitative insights AND quantified measurements.

1. Extract quantified features on a 0-1 scale:
   - SLN (Slant): 0 = left slant, 0.5 = vertical, 1 = right slant
   - WSP (Word spacing): 0 = tight, 1 = wide
   - LSZ (Letter size): 0 = small, 1 = large
   - BLN (Baseline stability): 0 = wavy/erratic, 1 = stable
   - MLM (Left margin): 0 = narrow, 1 = wide
   - PRT (Pressure): 0 = light, 1 = heavy
   - LSP (Letter spacing): 0 = tight, 1 = loose
   - LCR (Curvature): 0 = angular, 1 = rounded
   - CNT (Connectedness): 0 = disconnected, 1 = fully connected
   - RHM (Rhythm): 0 = slow/hesitant, 1 = fast/fluent

2. Optionally estimate personality traits on a 0-1 scale (CNF, EMX, CRT, DSC, SOC, NRG, INT, IND).

3. Provide a confidence score (0-1) based on image quality and handwriting clarity.

Every quantified value must be a number between 0 and 1. Do not omit any feature.`

const defaultVisionUserPrompt = `Analyze this handwriting sample and provide a comprehensive graphological assessment with qualitative insights and precise quantified measurements.

Examine letter formation, spacing, pressure, slant, baseline and overall organization.`

func unitNumberSchema() map[string]any {
	return map[string]any{"type": "number", "minimum": 0, "maximum": 1}
}

func codesObjectSchema(codes []string, required bool) map[string]any {
	props := make(map[string]any, len(codes))
	for _, c := range codes {
		props[c] = unitNumberSchema()
	}
	out := map[string]any{
		"type":                 "object",
		"properties":           props,
		"additionalProperties": false,
	}
	if required {
		out["required"] = codes
	}
	return out
}

func stringsObjectSchema(keys ...string) map[string]any {
	props := make(map[string]any, len(keys))
	for _, k := range keys {
		props[k] = map[string]any{"type": "string"}
	}
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"required":             keys,
		"additionalProperties": false,
	}
}

func stringArraySchema() map[string]any {
	return map[string]any{"type": "array", "items": map[string]any{"type": "string"}}
}

// visionResponseSchema describe la respuesta esperada del servicio de visión.
// quantified_traits es opcional: si falta, los rasgos se derivan de las features.
func visionResponseSchema() map[string]any {
	overall := stringsObjectSchema("confidence_level", "handwriting_quality", "overall_personality_summary")
	overall["properties"].(map[string]any)["confidence_level"] = map[string]any{
		"type": "string",
		"enum": []string{"high", "medium", "low"},
	}

	observation := stringsObjectSchema("feature", "observation", "interpretation")

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"overall_assessment":      overall,
			"writing_characteristics": stringsObjectSchema("size", "slant", "pressure", "spacing", "margins", "baseline"),
			"personality_traits": stringsObjectSchema(
				"emotional_stability", "social_orientation", "thinking_style",
				"communication_style", "attention_to_detail",
			),
			"specific_observations": map[string]any{"type": "array", "items": observation},
			"recommendations": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"strengths_to_leverage": stringArraySchema(),
					"areas_for_development": stringArraySchema(),
					"career_suggestions":    stringArraySchema(),
				},
				"required":             []string{"strengths_to_leverage", "areas_for_development", "career_suggestions"},
				"additionalProperties": false,
			},
			"quantified_features": codesObjectSchema(domain.FeatureCodes, true),
			"quantified_traits":   codesObjectSchema(domain.TraitCodes, true),
			"confidence_score":    unitNumberSchema(),
		},
		"required": []string{
			"overall_assessment",
			"writing_characteristics",
			"personality_traits",
			"specific_observations",
			"recommendations",
			"quantified_features",
			"confidence_score",
		},
		"additionalProperties": false,
	}
}

// NewVisionRequest arma la llamada estructurada al servicio de visión. Un prompt
// vacío usa el prompt por defecto.
func NewVisionRequest(imageB64, mimeType, prompt string) llm.VisionRequest {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		prompt = defaultVisionUserPrompt
	}
	return llm.VisionRequest{
		SystemPrompt: graphologistSystemPrompt,
		UserPrompt:   prompt,
		ImageBase64:  imageB64,
		MimeType:     mimeType,
		SchemaName:   visionSchemaName,
		Schema:       visionResponseSchema(),
		MaxTokens:    visionMaxTokens,
		Temperature:  visionTemperature,
	}
}
