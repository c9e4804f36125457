package sca

import (
	"fmt"

	"github.com/pqcshield/scanner/internal/logger"
	"github.com/pqcshield/scanner/internal/model"
	"go.uber.org/zap"
)

// ScanFile parses a single dependency manifest and matches every declared
// dependency against the PQC-risk knowledge base for its language.
func ScanFile(meta model.FileMetadata) model.SCAFileResult {
	parser, ok := ParserFor(meta.FileName)
	if !ok {
		return model.SCAFileResult{
			FilePath:   meta.FilePath,
			Skipped:    true,
			SkipReason: fmt.Sprintf("unsupported manifest: %s", meta.FileName),
		}
	}

	deps, err := parser(meta.AbsolutePath)
	if err != nil {
		logger.Get().Warn("sca: parse failed, skipping", zap.String("path", meta.AbsolutePath), zap.Error(err))
		return model.SCAFileResult{
			FilePath:   meta.FilePath,
			Skipped:    true,
			SkipReason: "parse failed: " + err.Error(),
		}
	}

	var vulnerable []model.VulnerableDependency
	for _, dep := range deps {
		result, ok := match(dep, meta.Language)
		if !ok {
			continue
		}
		vuln := result.entry.AllVersionsVulnerable || IsVersionVulnerable(dep.Version, result.entry.VulnerableVersions)
		if !vuln {
			continue
		}
		vulnerable = append(vulnerable, model.VulnerableDependency{
			Dependency:   dep,
			RuleID:       result.ruleID,
			MatchedName:  dep.Name,
			MatchType:    result.matchType,
			Severity:     result.entry.Severity,
			Reason:       result.entry.Reason,
			PQCSupport:   result.entry.PQCSupport,
			Alternatives: result.entry.Alternatives,
		})
	}

	return model.SCAFileResult{
		FilePath:               meta.FilePath,
		TotalDependencies:      len(deps),
		VulnerableDependencies: vulnerable,
		TotalVulnerabilities:   len(vulnerable),
	}
}

// ScanRepository runs the SCA engine over every manifest target.
func ScanRepository(targets []model.FileMetadata) model.SCAReport {
	log := logger.Get()
	log.Info("sca: scanning", zap.Int("targets", len(targets)))

	results := make([]model.SCAFileResult, 0, len(targets))
	totalDeps, totalVulnerable := 0, 0

	for _, meta := range targets {
		result := ScanFile(meta)
		results = append(results, result)
		if result.Skipped {
			continue
		}
		totalDeps += result.TotalDependencies
		totalVulnerable += result.TotalVulnerabilities
	}

	log.Info("sca: scan complete", zap.Int("totalDependencies", totalDeps), zap.Int("totalVulnerable", totalVulnerable))

	return model.SCAReport{
		Results:           results,
		TotalDependencies: totalDeps,
		TotalVulnerable:   totalVulnerable,
	}
}
