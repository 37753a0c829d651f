package domain

import "math"

// Códigos de las features cuantificadas que devuelve el servicio de visión.
const (
	FeatureSlant             = "SLN"
	FeatureWordSpacing       = "WSP"
	FeatureLetterSize        = "LSZ"
	FeatureBaselineStability = "BLN"
	FeatureLeftMargin        = "MLM"
	FeaturePressure          = "PRT"
	FeatureLetterSpacing     = "LSP"
	FeatureCurvature         = "LCR"
	FeatureConnectedness     = "CNT"
	FeatureRhythm            = "RHM"
)

// FeatureCodes es el orden canónico de las diez features.
var FeatureCodes = []string{
	FeatureSlant,
	FeatureWordSpacing,
	FeatureLetterSize,
	FeatureBaselineStability,
	FeatureLeftMargin,
	FeaturePressure,
	FeatureLetterSpacing,
	FeatureCurvature,
	FeatureConnectedness,
	FeatureRhythm,
}

// HandwritingFeatures son las mediciones normalizadas (0-1) de una muestra de escritura.
type HandwritingFeatures struct {
	SLN float64 `json:"SLN"` // 0 izquierda, 0.5 vertical, 1 derecha
	WSP float64 `json:"WSP"`
	LSZ float64 `json:"LSZ"`
	BLN float64 `json:"BLN"`
	MLM float64 `json:"MLM"`
	PRT float64 `json:"PRT"`
	LSP float64 `json:"LSP"`
	LCR float64 `json:"LCR"`
	CNT float64 `json:"CNT"`
	RHM float64 `json:"RHM"`
}

// Get devuelve la feature por código; ok es false si el código no existe.
func (f HandwritingFeatures) Get(code string) (float64, bool) {
	switch code {
	case FeatureSlant:
		return f.SLN, true
	case FeatureWordSpacing:
		return f.WSP, true
	case FeatureLetterSize:
		return f.LSZ, true
	case FeatureBaselineStability:
		return f.BLN, true
	case FeatureLeftMargin:
		return f.MLM, true
	case FeaturePressure:
		return f.PRT, true
	case FeatureLetterSpacing:
		return f.LSP, true
	case FeatureCurvature:
		return f.LCR, true
	case FeatureConnectedness:
		return f.CNT, true
	case FeatureRhythm:
		return f.RHM, true
	}
	return 0, false
}

// Validate verifica que cada feature sea finita y esté en [0,1].
func (f HandwritingFeatures) Validate() error {
	for _, code := range FeatureCodes {
		v, _ := f.Get(code)
		if err := checkUnit("features."+code, v); err != nil {
			return err
		}
	}
	return nil
}

// ParseFeatures construye HandwritingFeatures desde un objeto JSON genérico.
// No completa valores faltantes ni recorta valores fuera de rango.
func ParseFeatures(raw map[string]any) (HandwritingFeatures, error) {
	values, err := parseUnitScalars("features", raw, FeatureCodes)
	if err != nil {
		return HandwritingFeatures{}, err
	}
	return HandwritingFeatures{
		SLN: values[FeatureSlant],
		WSP: values[FeatureWordSpacing],
		LSZ: values[FeatureLetterSize],
		BLN: values[FeatureBaselineStability],
		MLM: values[FeatureLeftMargin],
		PRT: values[FeaturePressure],
		LSP: values[FeatureLetterSpacing],
		LCR: values[FeatureCurvature],
		CNT: values[FeatureConnectedness],
		RHM: values[FeatureRhythm],
	}, nil
}

func parseUnitScalars(section string, raw map[string]any, codes []string) (map[string]float64, error) {
	if raw == nil {
		return nil, &ValidationError{Field: section, Reason: "missing"}
	}
	out := make(map[string]float64, len(codes))
	for _, code := range codes {
		field := section + "." + code
		v, ok := raw[code]
		if !ok || v == nil {
			return nil, &ValidationError{Field: field, Reason: "missing"}
		}
		num, ok := toFloat(v)
		if !ok {
			return nil, &ValidationError{Field: field, Value: v, Reason: "not numeric"}
		}
		if err := checkUnit(field, num); err != nil {
			return nil, err
		}
		out[code] = num
	}
	return out, nil
}

func checkUnit(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &ValidationError{Field: field, Value: v, Reason: "not finite"}
	}
	if v < 0 || v > 1 {
		return &ValidationError{Field: field, Value: v, Reason: "out of range [0,1]"}
	}
	return nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case interface{ Float64() (float64, error) }:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
