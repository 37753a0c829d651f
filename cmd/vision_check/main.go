package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"graphology-api/internal/config"
	"graphology-api/internal/llm"
)

const (
	colorGreen = "\033[32m"
	colorRed   = "\033[31m"
	colorCyan  = "\033[36m"
	colorReset = "\033[0m"
)

func main() {
	prompt := flag.String("prompt", "", "custom user prompt")
	minAgreement := flag.Float64("min-agreement", 80, "min agreement (0-100) between model traits and derived traits")
	flag.Parse()

	if flag.NArg() == 0 {
		log.Fatal("usage: vision_check [flags] image...")
	}

	_ = godotenv.Load()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	client := llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMTimeout(), logger)

	var failed, total int
	var sumAgreement float64
	for _, path := range flag.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("read %s: %v", path, err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.LLMTimeout()+10*time.Second)
		res, err := checkSample(ctx, client, path, data, *prompt)
		cancel()
		if err != nil {
			fmt.Printf("%s[FAIL]%s %v\n", colorRed, colorReset, err)
			failed++
			continue
		}

		fmt.Printf("%s[%s]%s confianza=%.2f overall=%.3f\n", colorCyan, res.Path, colorReset, res.Confidence, res.Overall)
		if res.Supplied == nil {
			fmt.Println("  el modelo no envió rasgos; se usan los derivados")
			continue
		}
		total++
		sumAgreement += res.Agreement
		color := colorGreen
		if res.Agreement < *minAgreement {
			color = colorRed
			failed++
		}
		fmt.Printf("  acuerdo modelo/fórmulas: %s%.1f%s\n", color, res.Agreement, colorReset)
	}

	if total > 0 {
		fmt.Println("==== Promedio ====")
		fmt.Printf("Acuerdo: %.1f/100 sobre %d muestras\n", sumAgreement/float64(total), total)
	}
	if failed > 0 {
		os.Exit(1)
	}
}
