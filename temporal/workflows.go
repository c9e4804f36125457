package temporal

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// ScanWorkflowInput is the input to a scan job, identified only by its
// target (a local path or a remote Git URL).
type ScanWorkflowInput struct {
	Target string
}

// ScanWorkflowOutput is the terminal result a caller receives via
// Workflow.Get or the "scan_result" query handler.
type ScanWorkflowOutput struct {
	ScanID            string
	Status            string
	Message           string
	StartTime         time.Time
	EndTime           time.Time
	PQCReadinessScore int
	TotalFindings     int
}

// ScanWorkflow orchestrates one scan job: create the job record, run the
// pipeline activity, and expose the terminal status via a query handler,
// per spec §2's orchestration surface and §4.7's job record.
func ScanWorkflow(ctx workflow.Context, input ScanWorkflowInput) (*ScanWorkflowOutput, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("starting scan workflow", "target", input.Target)

	startTime := workflow.Now(ctx)

	var scanID string
	createCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy:         &temporal.RetryPolicy{MaximumAttempts: 3},
	})
	if err := workflow.ExecuteActivity(createCtx, CreateScanRecordActivity, input.Target).Get(ctx, &scanID); err != nil {
		return &ScanWorkflowOutput{
			Status:    "failed",
			Message:   "Error: failed to create scan record: " + err.Error(),
			StartTime: startTime,
			EndTime:   workflow.Now(ctx),
		}, err
	}

	var output ScanWorkflowOutput
	workflow.SetQueryHandler(ctx, "scan_result", func() (*ScanWorkflowOutput, error) {
		return &output, nil
	})

	output = ScanWorkflowOutput{ScanID: scanID, Status: "running", StartTime: startTime}

	scanCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 60 * time.Minute,
		RetryPolicy:         &temporal.RetryPolicy{MaximumAttempts: 2},
	})

	var scanOutput ScanActivityOutput
	scanErr := workflow.ExecuteActivity(scanCtx, RunScanActivity, ScanActivityInput{
		ScanID: scanID,
		Target: input.Target,
	}).Get(ctx, &scanOutput)

	if scanErr != nil {
		output = ScanWorkflowOutput{
			ScanID:    scanID,
			Status:    "failed",
			Message:   "Error: " + scanErr.Error(),
			StartTime: startTime,
			EndTime:   workflow.Now(ctx),
		}
		return &output, scanErr
	}

	output = ScanWorkflowOutput{
		ScanID:            scanID,
		Status:            "completed",
		Message:           "scan completed successfully",
		StartTime:         startTime,
		EndTime:           workflow.Now(ctx),
		PQCReadinessScore: scanOutput.PQCReadinessScore,
		TotalFindings:     scanOutput.TotalFindings,
	}
	return &output, nil
}
