package fusion

import (
	"github.com/pqcshield/scanner/internal/logger"
	"github.com/pqcshield/scanner/internal/model"
	"go.uber.org/zap"
)

// Result is the fully fused output of a completed scan: the normalized,
// deduplicated finding stream plus the three report views derived from it.
type Result struct {
	Findings   []model.Finding
	Inventory  model.InventorySnapshot
	Heatmap    *model.HeatmapNode
	Recommendations []model.Recommendation
}

// Fuse combines the three raw engine reports into the normalized finding
// stream and the derived inventory, heatmap, and recommendation views, per
// spec §4.6.
func Fuse(repoPath string, sast model.SASTReport, sca model.SCAReport, cfg model.ConfigReport) Result {
	log := logger.Get()

	findings := dedup(normalize(sast, sca, cfg))
	log.Info("fusion: normalized findings", zap.Int("count", len(findings)))

	ratios := algorithmRatios(sast)

	snapshot := model.InventorySnapshot{
		PQCReadinessScore: readinessScore(sast, sca),
		AlgorithmRatios:   ratios,
		InventoryTable:    inventoryTable(repoPath, sast),
	}

	heatmap := buildHeatmap(repoPath, sast)
	recs := recommendations(sast)

	log.Info("fusion: complete",
		zap.Int("pqcReadinessScore", snapshot.PQCReadinessScore),
		zap.Int("recommendations", len(recs)))

	return Result{
		Findings:        findings,
		Inventory:       snapshot,
		Heatmap:         heatmap,
		Recommendations: recs,
	}
}
