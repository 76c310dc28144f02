package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"fia_cof/pkg/core/config"
	"fia_cof/pkg/core/solver"
)

// RunStore persists completed run summaries.
// Hybrid vault: DB (primary) + file system (fallback/local).
type RunStore struct {
	pool    *pgxpool.Pool
	fileDir string
}

// NewRunStore creates a run store. If pool is nil it falls back to a
// file-based store under dir; an empty dir defaults to .cache/cof/runs.
func NewRunStore(pool *pgxpool.Pool, dir string) *RunStore {
	if pool == nil && dir == "" {
		dir = filepath.Join(".cache", "cof", "runs")
	}
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			fmt.Printf("[WARNING] Check RunStore dir: %v\n", err)
		}
	}
	return &RunStore{pool: pool, fileDir: dir}
}

// RunRecord is what gets persisted per completed run: the request, the
// headline results and timing, but not the full cashflow vector.
type RunRecord struct {
	RunID            string                   `json:"run_id"`
	Request          *config.Request          `json:"request"`
	CostOfFundsPct   *float64                 `json:"cost_of_funds_pct"`
	CedingCommission *solver.CedingCommission `json:"ceding_commission,omitempty"`
	PolicyCount      int                      `json:"policy_count"`
	ProjectionMonths int                      `json:"projection_months"`
	TotalNetCashflow float64                  `json:"total_net_cashflows"`
	ExecutionTimeMs  int64                    `json:"execution_time_ms"`
	CompletedAt      time.Time                `json:"completed_at"`
}

// Save writes the record to the DB when configured, the file dir otherwise.
func (s *RunStore) Save(ctx context.Context, rec *RunRecord) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal run record: %w", err)
	}

	if s.pool != nil {
		query := `
			INSERT INTO cof_runs (run_id, completed_at, record)
			VALUES ($1, $2, $3)
			ON CONFLICT (run_id) DO UPDATE SET record = EXCLUDED.record
		`
		if _, err := s.pool.Exec(ctx, query, rec.RunID, rec.CompletedAt, data); err != nil {
			return fmt.Errorf("persist run %s: %w", rec.RunID, err)
		}
		return nil
	}

	if s.fileDir != "" {
		path := s.runPath(rec.RunID)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("persist run %s: %w", rec.RunID, err)
		}
	}
	return nil
}

// Get retrieves a stored run record by id; (nil, nil) when not found.
func (s *RunStore) Get(ctx context.Context, runID string) (*RunRecord, error) {
	if s.pool != nil {
		query := `SELECT record FROM cof_runs WHERE run_id = $1 LIMIT 1`
		var data []byte
		err := s.pool.QueryRow(ctx, query, runID).Scan(&data)
		if err != nil {
			return nil, nil
		}
		var rec RunRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("unmarshal stored run %s: %w", runID, err)
		}
		return &rec, nil
	}

	if s.fileDir != "" {
		data, err := os.ReadFile(s.runPath(runID))
		if err != nil {
			if os.IsNotExist(err) {
				return nil, nil
			}
			return nil, fmt.Errorf("read stored run %s: %w", runID, err)
		}
		var rec RunRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("unmarshal stored run %s: %w", runID, err)
		}
		return &rec, nil
	}

	return nil, nil
}

func (s *RunStore) runPath(runID string) string {
	return filepath.Join(s.fileDir, runID+".json")
}
