// Package pipeline composes the acquire, classify, scan, and fuse stages
// into a single synchronous scan, shared by the CLI entrypoint and the
// Temporal activity that backs the orchestrated scan workflow, grounded on
// the original implementation's services/scanner.go ScanRepository shape.
package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/pqcshield/scanner/internal/acquirer"
	"github.com/pqcshield/scanner/internal/classifier"
	"github.com/pqcshield/scanner/internal/configscan"
	"github.com/pqcshield/scanner/internal/fusion"
	"github.com/pqcshield/scanner/internal/logger"
	"github.com/pqcshield/scanner/internal/model"
	"github.com/pqcshield/scanner/internal/sast"
	"github.com/pqcshield/scanner/internal/sca"
	"go.uber.org/zap"
)

// ProgressFunc reports a scan's fixed-checkpoint progress fraction plus a
// human-readable status message, matching the checkpoints the orchestrated
// workflow persists to the job record (spec §4.7).
type ProgressFunc func(fraction float64, message string)

// Result is the complete output of one scan run: the repository analysis,
// the three raw engine reports, and the fused view derived from them.
type Result struct {
	Analysis  model.RepositoryAnalysis
	SAST      model.SASTReport
	SCA       model.SCAReport
	Config    model.ConfigReport
	Fused     fusion.Result
}

func noopProgress(float64, string) {}

// Run acquires target, classifies its contents, runs the three scan
// engines concurrently, and fuses the results. The working copy is not
// returned: Run always cleans up an owned working copy before returning.
func Run(ctx context.Context, target string, onProgress ProgressFunc) (Result, error) {
	if onProgress == nil {
		onProgress = noopProgress
	}
	log := logger.Get()

	onProgress(0.10, "cloning repository")
	working, err := acquirer.Acquire(ctx, target)
	if err != nil {
		return Result{}, fmt.Errorf("acquiring target %q: %w", target, err)
	}
	defer working.Cleanup()

	onProgress(0.25, "analyzing languages and classifying files")
	analysis, err := classifier.Analyze(working.Path)
	if err != nil {
		return Result{}, fmt.Errorf("classifying %q: %w", working.Path, err)
	}

	var (
		sastReport   model.SASTReport
		scaReport    model.SCAReport
		configReport model.ConfigReport
		wg           sync.WaitGroup
	)

	onProgress(0.40, "running static analysis")
	wg.Add(3)
	go func() {
		defer wg.Done()
		sastReport = sast.ScanRepository(analysis.ScannerTargets.SASTTargets)
	}()
	go func() {
		defer wg.Done()
		onProgress(0.55, "running software composition analysis")
		scaReport = sca.ScanRepository(analysis.ScannerTargets.SCATargets)
	}()
	go func() {
		defer wg.Done()
		onProgress(0.70, "running configuration analysis")
		configReport = configscan.ScanRepository(analysis.ScannerTargets.ConfigTargets)
	}()
	wg.Wait()

	onProgress(0.85, "fusing findings")
	fused := fusion.Fuse(working.Path, sastReport, scaReport, configReport)

	onProgress(0.95, "finalizing report")
	log.Info("pipeline: scan complete",
		zap.String("target", target),
		zap.Int("totalFiles", analysis.TotalFiles),
		zap.Int("findings", len(fused.Findings)))

	onProgress(1.00, "complete")

	return Result{
		Analysis: analysis,
		SAST:     sastReport,
		SCA:      scaReport,
		Config:   configReport,
		Fused:    fused,
	}, nil
}
