// Command pqcscan runs the PQC scan pipeline synchronously against a single
// target and prints the fused result as JSON, per spec §6's standalone CLI
// surface.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pqcshield/scanner/internal/logger"
	"github.com/pqcshield/scanner/internal/model"
	"github.com/pqcshield/scanner/internal/pipeline"
	"go.uber.org/zap"
)

type output struct {
	Target          string                   `json:"target"`
	Analysis        model.RepositoryAnalysis `json:"analysis"`
	Inventory       interface{}              `json:"inventory"`
	Heatmap         interface{}              `json:"heatmap"`
	Recommendations interface{}              `json:"recommendations"`
	Findings        interface{}              `json:"findings"`
}

func main() {
	quiet := flag.Bool("quiet", false, "suppress progress messages on stderr")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <local-path-or-git-url>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	target := flag.Arg(0)

	_ = godotenv.Load()
	logger.Init()
	defer logger.Sync()

	ctx := context.Background()
	start := time.Now()

	result, err := pipeline.Run(ctx, target, func(fraction float64, message string) {
		if *quiet {
			return
		}
		fmt.Fprintf(os.Stderr, "[%3.0f%%] %s\n", fraction*100, message)
	})
	if err != nil {
		logger.Get().Error("scan failed", zap.String("target", target), zap.Error(err))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	out := output{
		Target:          target,
		Analysis:        result.Analysis,
		Inventory:       result.Fused.Inventory,
		Heatmap:         result.Fused.Heatmap,
		Recommendations: result.Fused.Recommendations,
		Findings:        result.Fused.Findings,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(os.Stderr, "error encoding result: %v\n", err)
		os.Exit(1)
	}

	logger.Get().Info("scan finished", zap.String("target", target), zap.Duration("elapsed", time.Since(start)))
}
