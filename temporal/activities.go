package temporal

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pqcshield/scanner/db"
	"github.com/pqcshield/scanner/internal/logger"
	"github.com/pqcshield/scanner/internal/pipeline"
	"go.uber.org/zap"
)

// ScanActivityInput carries the target and the persisted job id into the
// scan activity.
type ScanActivityInput struct {
	ScanID string
	Target string
}

// ScanActivityOutput is the activity's summary return value; the full
// fused result is persisted to the database rather than carried through
// the workflow history, which would otherwise grow unbounded for large
// repositories.
type ScanActivityOutput struct {
	ScanID            string
	PQCReadinessScore int
	TotalFindings     int
	ScanTimestamp     time.Time
}

// RunScanActivity executes the full acquire-classify-scan-fuse pipeline
// for one job, persisting fixed-checkpoint progress and the final fused
// result, per spec §4.7.
func RunScanActivity(ctx context.Context, input ScanActivityInput) (*ScanActivityOutput, error) {
	log := logger.WithJob(input.ScanID)
	log.Info("starting scan activity", zap.String("target", input.Target))

	dbQueries := db.NewQueries()

	result, err := pipeline.Run(ctx, input.Target, func(fraction float64, message string) {
		if updateErr := dbQueries.UpdateScanProgress(ctx, input.ScanID, fraction, message); updateErr != nil {
			log.Warn("failed to persist progress checkpoint", zap.Error(updateErr))
		}
	})
	if err != nil {
		log.Error("scan pipeline failed", zap.Error(err))
		if failErr := dbQueries.FailScan(ctx, input.ScanID, err.Error(), err.Error()); failErr != nil {
			log.Error("failed to persist scan failure", zap.Error(failErr))
		}
		return nil, fmt.Errorf("running scan pipeline: %w", err)
	}

	if err := dbQueries.CompleteScan(ctx, input.ScanID, result.Fused); err != nil {
		log.Error("failed to persist scan result", zap.Error(err))
		if failErr := dbQueries.FailScan(ctx, input.ScanID, err.Error(), err.Error()); failErr != nil {
			log.Error("failed to persist scan failure", zap.Error(failErr))
		}
		return nil, fmt.Errorf("persisting scan result: %w", err)
	}

	log.Info("scan activity complete",
		zap.Int("pqcReadinessScore", result.Fused.Inventory.PQCReadinessScore),
		zap.Int("totalFindings", len(result.Fused.Findings)))

	return &ScanActivityOutput{
		ScanID:            input.ScanID,
		PQCReadinessScore: result.Fused.Inventory.PQCReadinessScore,
		TotalFindings:     len(result.Fused.Findings),
		ScanTimestamp:     time.Now(),
	}, nil
}

// CreateScanRecordActivity inserts the initial "queued" row for a new job,
// generating the scan id that the workflow carries through the remaining
// activities.
func CreateScanRecordActivity(ctx context.Context, target string) (string, error) {
	scanID := uuid.New().String()
	dbQueries := db.NewQueries()
	if err := dbQueries.CreateScan(ctx, scanID, target); err != nil {
		return "", fmt.Errorf("creating scan record: %w", err)
	}
	return scanID, nil
}
