package config

import (
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/graphology")
	t.Setenv("LLM_API_KEY", "sk-test")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.HTTPPort)
	}
	if cfg.LLMModel != "gpt-4o-2024-08-06" {
		t.Fatalf("unexpected default model %s", cfg.LLMModel)
	}
	if cfg.TrendWindowDays != 30 || cfg.RecentAnalyses != 10 {
		t.Fatalf("unexpected history defaults: %d days, %d recent", cfg.TrendWindowDays, cfg.RecentAnalyses)
	}
	if cfg.LLMTimeout() != 90*time.Second {
		t.Fatalf("unexpected llm timeout %s", cfg.LLMTimeout())
	}
	if cfg.AnalysisRateWindowDuration() != time.Hour {
		t.Fatalf("unexpected rate window %s", cfg.AnalysisRateWindowDuration())
	}
}

func TestLoadConfig_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("LLM_API_KEY", "sk-test")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error when DATABASE_URL is missing")
	}
}
