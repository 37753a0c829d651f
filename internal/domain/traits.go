package domain

// Códigos de los rasgos de personalidad.
const (
	TraitConfidence          = "CNF"
	TraitEmotionalExpression = "EMX"
	TraitCreativity          = "CRT"
	TraitDiscipline          = "DSC"
	TraitSocialOpenness      = "SOC"
	TraitMentalEnergy        = "NRG"
	TraitIntuition           = "INT"
	TraitIndependence        = "IND"
)

// TraitCodes es el orden canónico de los ocho rasgos.
var TraitCodes = []string{
	TraitConfidence,
	TraitEmotionalExpression,
	TraitCreativity,
	TraitDiscipline,
	TraitSocialOpenness,
	TraitMentalEnergy,
	TraitIntuition,
	TraitIndependence,
}

// PersonalityTraits son los puntajes normalizados (0-1) de personalidad.
type PersonalityTraits struct {
	CNF float64 `json:"CNF"`
	EMX float64 `json:"EMX"`
	CRT float64 `json:"CRT"`
	DSC float64 `json:"DSC"`
	SOC float64 `json:"SOC"`
	NRG float64 `json:"NRG"`
	INT float64 `json:"INT"`
	IND float64 `json:"IND"`
}

// Get devuelve el rasgo por código.
func (t PersonalityTraits) Get(code string) (float64, bool) {
	switch code {
	case TraitConfidence:
		return t.CNF, true
	case TraitEmotionalExpression:
		return t.EMX, true
	case TraitCreativity:
		return t.CRT, true
	case TraitDiscipline:
		return t.DSC, true
	case TraitSocialOpenness:
		return t.SOC, true
	case TraitMentalEnergy:
		return t.NRG, true
	case TraitIntuition:
		return t.INT, true
	case TraitIndependence:
		return t.IND, true
	}
	return 0, false
}

// Values devuelve los ocho valores en orden canónico.
func (t PersonalityTraits) Values() []float64 {
	return []float64{t.CNF, t.EMX, t.CRT, t.DSC, t.SOC, t.NRG, t.INT, t.IND}
}

// TraitsFromValues es la inversa de Values. Requiere exactamente ocho valores.
func TraitsFromValues(v []float64) (PersonalityTraits, bool) {
	if len(v) != len(TraitCodes) {
		return PersonalityTraits{}, false
	}
	return PersonalityTraits{
		CNF: v[0],
		EMX: v[1],
		CRT: v[2],
		DSC: v[3],
		SOC: v[4],
		NRG: v[5],
		INT: v[6],
		IND: v[7],
	}, true
}

// Validate verifica que cada rasgo sea finito y esté en [0,1].
func (t PersonalityTraits) Validate() error {
	for _, code := range TraitCodes {
		v, _ := t.Get(code)
		if err := checkUnit("traits."+code, v); err != nil {
			return err
		}
	}
	return nil
}

// ParseTraits construye PersonalityTraits desde un objeto JSON genérico.
func ParseTraits(raw map[string]any) (PersonalityTraits, error) {
	values, err := parseUnitScalars("traits", raw, TraitCodes)
	if err != nil {
		return PersonalityTraits{}, err
	}
	out := make([]float64, 0, len(TraitCodes))
	for _, code := range TraitCodes {
		out = append(out, values[code])
	}
	traits, _ := TraitsFromValues(out)
	return traits, nil
}

// TraitInfo agrupa metadata de presentación de un rasgo.
type TraitInfo struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

var traitCatalog = map[string]TraitInfo{
	TraitConfidence:          {Code: TraitConfidence, Name: "Confidence", Icon: "star", Color: "#3B82F6"},
	TraitEmotionalExpression: {Code: TraitEmotionalExpression, Name: "Emotional Expression", Icon: "heart", Color: "#EC4899"},
	TraitCreativity:          {Code: TraitCreativity, Name: "Creativity", Icon: "bulb", Color: "#8B5CF6"},
	TraitDiscipline:          {Code: TraitDiscipline, Name: "Discipline", Icon: "checkmark-circle", Color: "#10B981"},
	TraitSocialOpenness:      {Code: TraitSocialOpenness, Name: "Social Openness", Icon: "people", Color: "#F59E0B"},
	TraitMentalEnergy:        {Code: TraitMentalEnergy, Name: "Mental Energy", Icon: "flash", Color: "#EF4444"},
	TraitIntuition:           {Code: TraitIntuition, Name: "Intuition", Icon: "eye", Color: "#06B6D4"},
	TraitIndependence:        {Code: TraitIndependence, Name: "Independence", Icon: "person", Color: "#84CC16"},
}

// LookupTrait devuelve la metadata de presentación del rasgo.
func LookupTrait(code string) (TraitInfo, bool) {
	info, ok := traitCatalog[code]
	return info, ok
}

// TraitDisplay es la vista de un rasgo lista para la UI (puntaje 0-100).
type TraitDisplay struct {
	TraitInfo
	Score int `json:"score"`
}
