package store

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteDB implements DB over a single SQLite file.
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB opens (or creates) the database at path.
func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	return &SQLiteDB{db: db}, nil
}

// Close closes the underlying connection.
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// Migrate creates the schema if it does not exist yet.
func (s *SQLiteDB) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			style TEXT NOT NULL,
			mode TEXT NOT NULL,
			seed INTEGER NOT NULL,
			height INTEGER NOT NULL,
			width INTEGER NOT NULL,
			params_json TEXT NOT NULL,
			output_dir TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS metrics (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			key TEXT NOT NULL,
			value REAL NOT NULL DEFAULT 0,
			text TEXT NOT NULL DEFAULT '',
			FOREIGN KEY (run_id) REFERENCES runs(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_metrics_run_id ON metrics(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_metrics_key ON metrics(run_id, key)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_style ON runs(style)`,
	}
	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// SaveRun inserts a run, assigning a fresh id when none is set.
func (s *SQLiteDB) SaveRun(run *Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	query := `INSERT INTO runs (id, style, mode, seed, height, width, params_json, output_dir)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.Exec(query,
		run.ID, run.Style, run.Mode, run.Seed,
		run.Height, run.Width, run.ParamsJSON, run.OutputDir,
	)
	return err
}

// SaveMetrics inserts a batch of metric rows in one transaction.
func (s *SQLiteDB) SaveMetrics(runID string, metrics []Metric) error {
	if len(metrics) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT INTO metrics (run_id, key, value, text) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, m := range metrics {
		if _, err := stmt.Exec(runID, m.Key, m.Value, m.Text); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetRun retrieves a run by id.
func (s *SQLiteDB) GetRun(id string) (*Run, error) {
	query := `SELECT id, style, mode, seed, height, width, params_json, output_dir, created_at
		FROM runs WHERE id = ?`
	var run Run
	err := s.db.QueryRow(query, id).Scan(
		&run.ID, &run.Style, &run.Mode, &run.Seed,
		&run.Height, &run.Width, &run.ParamsJSON, &run.OutputDir, &run.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// ListRuns returns runs newest-first with pagination.
func (s *SQLiteDB) ListRuns(limit, offset int) ([]Run, error) {
	query := `SELECT id, style, mode, seed, height, width, params_json, output_dir, created_at
		FROM runs ORDER BY created_at DESC LIMIT ? OFFSET ?`
	rows, err := s.db.Query(query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(
			&run.ID, &run.Style, &run.Mode, &run.Seed,
			&run.Height, &run.Width, &run.ParamsJSON, &run.OutputDir, &run.CreatedAt,
		); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetMetrics returns every metric row for a run, ordered by key.
func (s *SQLiteDB) GetMetrics(runID string) ([]Metric, error) {
	query := `SELECT id, run_id, key, value, text FROM metrics WHERE run_id = ? ORDER BY key`
	rows, err := s.db.Query(query, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var metrics []Metric
	for rows.Next() {
		var m Metric
		if err := rows.Scan(&m.ID, &m.RunID, &m.Key, &m.Value, &m.Text); err != nil {
			return nil, err
		}
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}

// MetricsFromRecord flattens a mixed-type record into metric rows: numbers go
// to value, everything else to text.
func MetricsFromRecord(record map[string]any) []Metric {
	metrics := make([]Metric, 0, len(record))
	for key, raw := range record {
		m := Metric{Key: key}
		switch v := raw.(type) {
		case float64:
			m.Value = v
		case int:
			m.Value = float64(v)
		case bool:
			if v {
				m.Value = 1
			}
			m.Text = strconv.FormatBool(v)
		case string:
			m.Text = v
		default:
			m.Text = fmt.Sprint(v)
		}
		metrics = append(metrics, m)
	}
	return metrics
}
