package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"graphology-api/internal/domain"
	"graphology-api/internal/llm"
	"graphology-api/internal/service"
)

// sampleResult resume una muestra: rasgos derivados de las features y, si el modelo
// los envió, su acuerdo con los rasgos propuestos por el modelo.
type sampleResult struct {
	Path       string
	Confidence float64
	Derived    domain.PersonalityTraits
	Supplied   *domain.PersonalityTraits
	Overall    float64
	Agreement  float64
}

func checkSample(ctx context.Context, client llm.VisionClient, path string, data []byte, prompt string) (sampleResult, error) {
	mime := mimetype.Detect(data).String()
	if !strings.HasPrefix(mime, "image/") {
		return sampleResult{}, fmt.Errorf("%s: not an image (%s)", path, mime)
	}

	raw, err := client.AnalyzeImage(ctx, service.NewVisionRequest(base64.StdEncoding.EncodeToString(data), mime, prompt))
	if err != nil {
		return sampleResult{}, fmt.Errorf("%s: vision call: %w", path, err)
	}

	payload, err := service.ParseVisionPayload(raw)
	if err != nil {
		return sampleResult{}, fmt.Errorf("%s: %w", path, err)
	}

	derived, err := service.DefaultTraitEngine.DeriveTraits(payload.Features)
	if err != nil {
		return sampleResult{}, fmt.Errorf("%s: %w", path, err)
	}

	res := sampleResult{
		Path:       path,
		Confidence: payload.ConfidenceScore,
		Derived:    derived,
		Supplied:   payload.Traits,
		Overall:    service.DefaultTraitEngine.OverallScore(derived),
	}
	if payload.Traits != nil {
		res.Agreement = service.TraitCompatibility(*payload.Traits, derived)
	}
	return res, nil
}
