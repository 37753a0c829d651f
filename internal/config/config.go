package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort           string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL        string `env:"DATABASE_URL,required,notEmpty"`
	RunMigrations      bool   `env:"RUN_MIGRATIONS" envDefault:"false"`
	LLMAPIKey          string `env:"LLM_API_KEY,required,notEmpty"`
	LLMBaseURL         string `env:"LLM_BASE_URL" envDefault:"https://api.openai.com/v1"`
	LLMModel           string `env:"LLM_MODEL" envDefault:"gpt-4o-2024-08-06"`
	LLMTimeoutSeconds  int    `env:"LLM_TIMEOUT_SECONDS" envDefault:"90"`
	AuthJWTSecret      string `env:"AUTH_JWT_SECRET"`
	AuthJWTIssuer      string `env:"AUTH_JWT_ISSUER"`
	RedisAddr          string `env:"REDIS_ADDR"`
	RedisPassword      string `env:"REDIS_PASSWORD"`
	RedisDB            int    `env:"REDIS_DB" envDefault:"0"`
	TrendCacheTTLSecs  int    `env:"TREND_CACHE_TTL_SECONDS" envDefault:"300"`
	AnalysisRateLimit  int    `env:"ANALYSIS_RATE_LIMIT" envDefault:"20"`
	AnalysisRateWindow int    `env:"ANALYSIS_RATE_WINDOW_MINUTES" envDefault:"60"`
	TrendWindowDays    int    `env:"TREND_WINDOW_DAYS" envDefault:"30"`
	RecentAnalyses     int    `env:"RECENT_ANALYSES_LIMIT" envDefault:"10"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) LLMTimeout() time.Duration {
	return time.Duration(c.LLMTimeoutSeconds) * time.Second
}

func (c *Config) TrendCacheTTL() time.Duration {
	return time.Duration(c.TrendCacheTTLSecs) * time.Second
}

func (c *Config) AnalysisRateWindowDuration() time.Duration {
	return time.Duration(c.AnalysisRateWindow) * time.Minute
}
