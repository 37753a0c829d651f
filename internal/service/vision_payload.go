package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"graphology-api/internal/domain"
)

// ErrMalformedPayload indica que la respuesta del servicio de visión no es un objeto JSON usable.
var ErrMalformedPayload = errors.New("malformed vision payload")

// VisionPayload es la salida validada del servicio de visión.
type VisionPayload struct {
	Features        domain.HandwritingFeatures
	Traits          *domain.PersonalityTraits
	ConfidenceScore float64
	Narrative       json.RawMessage
}

var (
	fenceStartRe = regexp.MustCompile("(?is)^\\s*```(?:json)?\\s*")
	fenceEndRe   = regexp.MustCompile("(?is)\\s*```\\s*$")
)

// ParseVisionPayload limpia, decodifica y valida la respuesta del servicio de visión.
// Valores fuera de rango se rechazan con *domain.ValidationError; nunca se recortan.
func ParseVisionPayload(raw string) (VisionPayload, error) {
	obj, err := decodePayloadObject(raw)
	if err != nil {
		return VisionPayload{}, err
	}

	featuresRaw, err := sectionObject(obj, "quantified_features", "features")
	if err != nil {
		return VisionPayload{}, err
	}
	features, err := domain.ParseFeatures(featuresRaw)
	if err != nil {
		return VisionPayload{}, err
	}

	out := VisionPayload{Features: features}

	// Sin clave o con null, los rasgos se derivan de las features.
	if raw, ok := obj["quantified_traits"]; ok && !bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		traitsRaw, err := sectionObject(obj, "quantified_traits", "traits")
		if err != nil {
			return VisionPayload{}, err
		}
		traits, err := domain.ParseTraits(traitsRaw)
		if err != nil {
			return VisionPayload{}, err
		}
		out.Traits = &traits
	}

	confidence, err := confidenceScore(obj)
	if err != nil {
		return VisionPayload{}, err
	}
	out.ConfidenceScore = confidence

	narrative, err := json.Marshal(obj)
	if err != nil {
		return VisionPayload{}, fmt.Errorf("encode narrative: %w", err)
	}
	out.Narrative = narrative
	return out, nil
}

func decodePayloadObject(raw string) (map[string]json.RawMessage, error) {
	cleaned := cleanLLMJSONResponse(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: empty response", ErrMalformedPayload)
	}

	candidates := []string{cleaned}
	if obj := extractFirstJSONObject(cleaned); obj != "" && obj != cleaned {
		candidates = append(candidates, obj)
	}

	var lastErr error
	for _, c := range candidates {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal([]byte(c), &obj); err != nil {
			lastErr = err
			continue
		}
		if obj == nil {
			lastErr = errors.New("null object")
			continue
		}
		return obj, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, lastErr)
}

func sectionObject(obj map[string]json.RawMessage, key, field string) (map[string]any, error) {
	raw, ok := obj[key]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, &domain.ValidationError{Field: field, Reason: "missing"}
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var section map[string]any
	if err := dec.Decode(&section); err != nil {
		return nil, &domain.ValidationError{Field: field, Value: string(raw), Reason: "not an object"}
	}
	return section, nil
}

func confidenceScore(obj map[string]json.RawMessage) (float64, error) {
	raw, ok := obj["confidence_score"]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return 0, &domain.ValidationError{Field: "confidence_score", Reason: "missing"}
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, &domain.ValidationError{Field: "confidence_score", Value: string(raw), Reason: "not numeric"}
	}
	if v < 0 || v > 1 {
		return 0, &domain.ValidationError{Field: "confidence_score", Value: v, Reason: "out of range [0,1]"}
	}
	return v, nil
}

// cleanLLMJSONResponse quita fences ```json ... ``` y BOM, dejando el contenido usable.
func cleanLLMJSONResponse(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	s = strings.TrimPrefix(s, "\uFEFF")
	s = fenceStartRe.ReplaceAllString(s, "")
	s = fenceEndRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// extractFirstJSONObject devuelve el primer objeto {...} balanceado, respetando strings.
func extractFirstJSONObject(input string) string {
	start := strings.IndexByte(input, '{')
	if start == -1 {
		return ""
	}

	inString := false
	escape := false
	depth := 0

	for i := start; i < len(input); i++ {
		ch := input[i]

		if inString {
			switch {
			case escape:
				escape = false
			case ch == '\\':
				escape = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return input[start : i+1]
			}
		}
	}
	return ""
}
