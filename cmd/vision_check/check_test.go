package main

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"graphology-api/internal/domain"
	"graphology-api/internal/llm"
	"graphology-api/internal/service"
)

var samplePNG = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

var sampleFeatures = domain.HandwritingFeatures{
	SLN: 0.5, WSP: 0.5, LSZ: 0.8, BLN: 0.9, MLM: 0.5,
	PRT: 0.8, LSP: 0.5, LCR: 0.2, CNT: 0.5, RHM: 0.5,
}

func visionResponse(t *testing.T, traits *domain.PersonalityTraits) string {
	t.Helper()
	body := map[string]any{
		"quantified_features": sampleFeatures,
		"confidence_score":    0.7,
	}
	if traits != nil {
		body["quantified_traits"] = traits
	}
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	return string(raw)
}

func TestCheckSample_FullAgreement(t *testing.T) {
	derived, err := service.DefaultTraitEngine.DeriveTraits(sampleFeatures)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	client := &llm.MockClient{Response: visionResponse(t, &derived)}

	res, err := checkSample(context.Background(), client, "a.png", samplePNG, "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if res.Agreement != 100 {
		t.Fatalf("expected agreement 100, got %v", res.Agreement)
	}
	if client.LastReq.MimeType != "image/png" {
		t.Fatalf("expected png mime, got %s", client.LastReq.MimeType)
	}
	if res.Confidence != 0.7 {
		t.Fatalf("expected confidence 0.7, got %v", res.Confidence)
	}
}

func TestCheckSample_WithoutSuppliedTraits(t *testing.T) {
	client := &llm.MockClient{Response: visionResponse(t, nil)}
	res, err := checkSample(context.Background(), client, "a.png", samplePNG, "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if res.Supplied != nil || res.Agreement != 0 {
		t.Fatalf("expected no agreement without supplied traits, got %+v", res)
	}
	if res.Overall <= 0 || res.Overall > 1 {
		t.Fatalf("unexpected overall %v", res.Overall)
	}
}

func TestCheckSample_Rejections(t *testing.T) {
	if _, err := checkSample(context.Background(), &llm.MockClient{}, "a.txt", []byte("plain text"), ""); err == nil || !strings.Contains(err.Error(), "not an image") {
		t.Fatalf("expected not-an-image error, got %v", err)
	}

	client := &llm.MockClient{Err: errors.New("timeout")}
	if _, err := checkSample(context.Background(), client, "a.png", samplePNG, ""); err == nil {
		t.Fatalf("expected vision error")
	}

	client = &llm.MockClient{Response: `{"quantified_features":{"SLN":2}}`}
	_, err := checkSample(context.Background(), client, "a.png", samplePNG, "")
	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
