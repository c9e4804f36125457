// Package db provides the Postgres persistence layer for scan jobs and
// their derived reports.
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	_ "github.com/lib/pq"

	"github.com/pqcshield/scanner/internal/fusion"
	"github.com/pqcshield/scanner/internal/model"
)

// Queries provides all the database operations for the scanner.
type Queries struct {
	db *sql.DB
}

var (
	globalDB *sql.DB
	dbMutex  sync.Mutex
)

// SetGlobalDB sets the global database connection used by NewQueries.
func SetGlobalDB(db *sql.DB) {
	dbMutex.Lock()
	defer dbMutex.Unlock()
	globalDB = db
}

// NewQueries creates a new Queries instance bound to the global connection.
func NewQueries() *Queries {
	dbMutex.Lock()
	defer dbMutex.Unlock()
	return &Queries{db: globalDB}
}

func (q *Queries) SetDB(db *sql.DB) { q.db = db }
func (q *Queries) GetDB() *sql.DB   { return q.db }

func (q *Queries) Close() error {
	if q.db != nil {
		return q.db.Close()
	}
	return nil
}

func (q *Queries) Ping() error {
	if q.db != nil {
		return q.db.Ping()
	}
	log.Println("Warning: No database connection set")
	return nil
}

// ScanRecord is the persisted view of a single scan job, per spec §4.7.
type ScanRecord struct {
	ID          string
	Target      string
	Status      string
	Progress    float64
	Message     string
	ErrorLog    sql.NullString
	CreatedAt   time.Time
	CompletedAt sql.NullTime
}

// CreateScan inserts a new scan job record in the "queued" state.
func (q *Queries) CreateScan(ctx context.Context, id, target string) error {
	if q.db == nil {
		return nil
	}
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO scans (id, target, status, progress, message, created_at)
		 VALUES ($1, $2, 'queued', 0, 'queued', NOW())`,
		id, target)
	if err != nil {
		return fmt.Errorf("creating scan record: %w", err)
	}
	return nil
}

// UpdateScanProgress records a fixed-checkpoint progress update, per the
// orchestration surface in spec §4.7.
func (q *Queries) UpdateScanProgress(ctx context.Context, id string, progress float64, message string) error {
	if q.db == nil {
		return nil
	}
	_, err := q.db.ExecContext(ctx,
		`UPDATE scans SET status = 'running', progress = $1, message = $2 WHERE id = $3`,
		progress, message, id)
	if err != nil {
		return fmt.Errorf("updating scan progress: %w", err)
	}
	return nil
}

// FailScan marks a scan job as failed with an explanatory message.
func (q *Queries) FailScan(ctx context.Context, id, message, errorLog string) error {
	if q.db == nil {
		return nil
	}
	_, err := q.db.ExecContext(ctx,
		`UPDATE scans SET status = 'failed', message = $1, error_log = $2, completed_at = NOW() WHERE id = $3`,
		"Error: "+message, errorLog, id)
	if err != nil {
		return fmt.Errorf("failing scan record: %w", err)
	}
	return nil
}

// CompleteScan persists the full fused result of a scan inside a single
// transaction, replacing any prior rows for the scan before inserting the
// new ones, per spec §4.7's replace-all-per-scan semantics.
func (q *Queries) CompleteScan(ctx context.Context, id string, result fusion.Result) error {
	if q.db == nil {
		return nil
	}

	tx, err := q.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning scan completion transaction: %w", err)
	}
	defer tx.Rollback()

	ratiosJSON, err := json.Marshal(result.Inventory.AlgorithmRatios)
	if err != nil {
		return fmt.Errorf("marshaling algorithm ratios: %w", err)
	}
	tableJSON, err := json.Marshal(result.Inventory.InventoryTable)
	if err != nil {
		return fmt.Errorf("marshaling inventory table: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM inventory_snapshots WHERE scan_id = $1`, id); err != nil {
		return fmt.Errorf("clearing prior inventory snapshot: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO inventory_snapshots (scan_id, pqc_readiness_score, algorithm_ratios, inventory_table)
		 VALUES ($1, $2, $3, $4)`,
		id, result.Inventory.PQCReadinessScore, string(ratiosJSON), string(tableJSON)); err != nil {
		return fmt.Errorf("inserting inventory snapshot: %w", err)
	}

	heatmapJSON, err := json.Marshal(result.Heatmap)
	if err != nil {
		return fmt.Errorf("marshaling heatmap: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM heatmap_snapshots WHERE scan_id = $1`, id); err != nil {
		return fmt.Errorf("clearing prior heatmap snapshot: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO heatmap_snapshots (scan_id, root_node) VALUES ($1, $2)`,
		id, string(heatmapJSON)); err != nil {
		return fmt.Errorf("inserting heatmap snapshot: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM recommendations WHERE scan_id = $1`, id); err != nil {
		return fmt.Errorf("clearing prior recommendations: %w", err)
	}
	for _, rec := range result.Recommendations {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO recommendations (scan_id, priority_rank, estimated_effort, ai_recommendation, algorithm, context)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			id, rec.PriorityRank, rec.EstimatedEffort, rec.AIRecommendation, rec.Algorithm, rec.Context); err != nil {
			return fmt.Errorf("inserting recommendation: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM findings WHERE scan_id = $1`, id); err != nil {
		return fmt.Errorf("clearing prior findings: %w", err)
	}
	for _, f := range result.Findings {
		metaJSON, err := json.Marshal(f.Meta)
		if err != nil {
			return fmt.Errorf("marshaling finding meta: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO findings (scan_id, scanner_type, rule_id, severity, severity_score, algorithm, file_path, line_start, line_end, evidence, meta)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			id, string(f.ScannerType), f.RuleID, f.Severity, f.SeverityScore,
			f.Algorithm, f.FilePath, f.LineStart, f.LineEnd, f.Evidence, string(metaJSON)); err != nil {
			return fmt.Errorf("inserting finding: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE scans SET status = 'completed', progress = 1, message = 'complete', completed_at = NOW() WHERE id = $1`,
		id); err != nil {
		return fmt.Errorf("marking scan completed: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing scan completion: %w", err)
	}
	return nil
}

// GetScan returns the current status row for a scan job.
func (q *Queries) GetScan(ctx context.Context, id string) (*ScanRecord, error) {
	if q.db == nil {
		return nil, fmt.Errorf("no database connection configured")
	}
	var rec ScanRecord
	err := q.db.QueryRowContext(ctx,
		`SELECT id, target, status, progress, message, error_log, created_at, completed_at FROM scans WHERE id = $1`,
		id).Scan(&rec.ID, &rec.Target, &rec.Status, &rec.Progress, &rec.Message, &rec.ErrorLog, &rec.CreatedAt, &rec.CompletedAt)
	if err != nil {
		return nil, fmt.Errorf("fetching scan %s: %w", id, err)
	}
	return &rec, nil
}

// GetFindings returns the persisted findings for a completed scan.
func (q *Queries) GetFindings(ctx context.Context, scanID string) ([]model.Finding, error) {
	if q.db == nil {
		return nil, fmt.Errorf("no database connection configured")
	}
	rows, err := q.db.QueryContext(ctx,
		`SELECT scanner_type, rule_id, severity, severity_score, algorithm, file_path, line_start, line_end, evidence, meta
		 FROM findings WHERE scan_id = $1`, scanID)
	if err != nil {
		return nil, fmt.Errorf("querying findings for scan %s: %w", scanID, err)
	}
	defer rows.Close()

	var out []model.Finding
	for rows.Next() {
		var f model.Finding
		var metaRaw []byte
		if err := rows.Scan(&f.ScannerType, &f.RuleID, &f.Severity, &f.SeverityScore,
			&f.Algorithm, &f.FilePath, &f.LineStart, &f.LineEnd, &f.Evidence, &metaRaw); err != nil {
			return nil, fmt.Errorf("scanning finding row: %w", err)
		}
		if len(metaRaw) > 0 {
			if err := json.Unmarshal(metaRaw, &f.Meta); err != nil {
				return nil, fmt.Errorf("unmarshaling finding meta: %w", err)
			}
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
