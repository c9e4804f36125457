package sast

import (
	"fmt"
	"os"

	"github.com/pqcshield/scanner/internal/logger"
	"github.com/pqcshield/scanner/internal/model"
	"go.uber.org/zap"
)

// ScanFile dispatches a single file to its language analyzer. Unsupported
// languages are skipped with a reason, never an error.
func ScanFile(meta model.FileMetadata) model.SASTFileResult {
	analyzer, ok := AnalyzerFor(meta.Language)
	if !ok {
		return model.SASTFileResult{
			FilePath:   meta.FilePath,
			Language:   meta.Language,
			Skipped:    true,
			SkipReason: fmt.Sprintf("unsupported language: %s", meta.Language),
		}
	}

	content, err := os.ReadFile(meta.AbsolutePath)
	if err != nil {
		logger.Get().Warn("sast: failed to read file, skipping", zap.String("path", meta.AbsolutePath), zap.Error(err))
		return model.SASTFileResult{
			FilePath:   meta.FilePath,
			Language:   meta.Language,
			Skipped:    true,
			SkipReason: "file read failed",
		}
	}

	vulns, err := analyzer.Analyze(string(content))
	if err != nil {
		logger.Get().Warn("sast: analyzer soft error", zap.String("path", meta.AbsolutePath), zap.Error(err))
		return model.SASTFileResult{
			FilePath:   meta.FilePath,
			Language:   meta.Language,
			Skipped:    true,
			SkipReason: "analysis failed: " + err.Error(),
		}
	}

	if vulns == nil {
		vulns = []model.Vulnerability{}
	}

	return model.SASTFileResult{
		FilePath:        meta.FilePath,
		Language:        meta.Language,
		Vulnerabilities: vulns,
		TotalIssues:     len(vulns),
	}
}

// ScanRepository runs the SAST engine over every target and aggregates
// severity/algorithm breakdowns.
func ScanRepository(targets []model.FileMetadata) model.SASTReport {
	log := logger.Get()
	log.Info("sast: scanning", zap.Int("targets", len(targets)))

	severityBreakdown := map[string]int{}
	algorithmBreakdown := map[string]int{}
	results := make([]model.SASTFileResult, 0, len(targets))

	for _, meta := range targets {
		result := ScanFile(meta)
		results = append(results, result)
		if result.Skipped {
			continue
		}
		for _, v := range result.Vulnerabilities {
			severityBreakdown[v.Severity]++
			if v.Algorithm != "" {
				algorithmBreakdown[v.Algorithm]++
			}
		}
	}

	log.Info("sast: scan complete", zap.Int("filesScanned", len(results)))

	return model.SASTReport{
		Results:            results,
		SeverityBreakdown:  severityBreakdown,
		AlgorithmBreakdown: algorithmBreakdown,
	}
}
