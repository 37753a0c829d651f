package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"graphology-api/internal/config"
	"graphology-api/internal/db"
	apihttp "graphology-api/internal/http"
	"graphology-api/internal/llm"
	"graphology-api/internal/metrics"
	"graphology-api/internal/repository"
	"graphology-api/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, cfg.DatabaseURL); err != nil {
			logger.Fatal("db migrate", zap.Error(err))
		}
		logger.Info("migrations applied")
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	metrics.Init()

	analysisRepo := repository.NewPgAnalysisRepository(pool)
	snapshotRepo := repository.NewPgSnapshotRepository(pool)
	profileRepo := repository.NewPgProfileRepository(pool)
	visionClient := llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMTimeout(), logger)

	limiter := service.NewMemoryRateLimiter(cfg.AnalysisRateWindowDuration(), cfg.AnalysisRateLimit)
	trendCache := service.NewMemoryTrendCache(cfg.TrendCacheTTL())
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory limiter and cache", zap.Error(err))
		} else {
			limiter = service.NewRedisRateLimiter(redisClient, cfg.AnalysisRateWindowDuration(), cfg.AnalysisRateLimit)
			trendCache = service.NewRedisTrendCache(redisClient, cfg.TrendCacheTTL())
		}
		cancel()
	}

	if cfg.AuthJWTSecret == "" {
		logger.Warn("auth jwt secret not configured, protected routes will reject every request")
	}
	verifier := service.NewTokenVerifier(cfg.AuthJWTSecret, cfg.AuthJWTIssuer)

	analysisSvc := service.NewAnalysisService(visionClient, analysisRepo, snapshotRepo, profileRepo, limiter, trendCache, logger)
	insightsSvc := service.NewInsightsService(analysisRepo, snapshotRepo, trendCache, cfg.TrendWindowDays, cfg.RecentAnalyses, logger)
	profileSvc := service.NewProfileService(profileRepo, logger)

	router := apihttp.NewRouter(
		logger,
		verifier,
		apihttp.NewAnalysisHandler(logger, analysisSvc),
		apihttp.NewInsightsHandler(logger, insightsSvc),
		apihttp.NewProfileHandler(logger, profileSvc),
	)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
