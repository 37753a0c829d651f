package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"graphology-api/internal/config"
	"graphology-api/internal/db"
	"graphology-api/internal/repository"
	"graphology-api/internal/service"
)

func main() {
	userID := flag.String("user", "", "user id (token subject) to inspect")
	limit := flag.Int("limit", 50, "analyses to check for derivation drift")
	threshold := flag.Float64("threshold", 0.05, "max |stored - derived| tolerated per trait")
	flag.Parse()

	if *userID == "" {
		log.Fatal("-user is required")
	}

	_ = godotenv.Load()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	analyses := repository.NewPgAnalysisRepository(pool)
	snapshots := repository.NewPgSnapshotRepository(pool)
	insights := service.NewInsightsService(analyses, snapshots, nil, cfg.TrendWindowDays, cfg.RecentAnalyses, logger)

	trends, src, err := insights.Trends(ctx, *userID)
	if err != nil {
		logger.Fatal("build trends", zap.Error(err))
	}
	renderTrends(os.Stdout, trends, src)

	records, err := analyses.ListRecent(ctx, *userID, *limit)
	if err != nil {
		logger.Fatal("list analyses", zap.Error(err))
	}
	reports := make([]service.DriftReport, 0, len(records))
	for _, rec := range records {
		r, err := service.DefaultTraitEngine.Drift(rec)
		if err != nil {
			logger.Warn("skip record with invalid features", zap.String("analysis_id", rec.ID), zap.Error(err))
			continue
		}
		reports = append(reports, r)
	}
	if flagged := renderDrift(os.Stdout, reports, *threshold); flagged > 0 {
		os.Exit(1)
	}
}
