// Package store persists generation runs and their metric records in SQLite,
// so parameter sweeps can be queried after the fact.
package store

import "time"

// Run records one generation invocation: the resolved parameters, the seed
// actually used, and where the rendered artifacts landed.
type Run struct {
	ID         string    `json:"id" db:"id"`
	Style      string    `json:"style" db:"style"`
	Mode       string    `json:"mode" db:"mode"`
	Seed       int64     `json:"seed" db:"seed"`
	Height     int       `json:"height" db:"height"`
	Width      int       `json:"width" db:"width"`
	ParamsJSON string    `json:"params_json" db:"params_json"`
	OutputDir  string    `json:"output_dir" db:"output_dir"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// Metric is one flattened metric value attached to a run.
type Metric struct {
	ID    int64   `json:"id" db:"id"`
	RunID string  `json:"run_id" db:"run_id"`
	Key   string  `json:"key" db:"key"`
	Value float64 `json:"value" db:"value"`
	Text  string  `json:"text" db:"text"`
}

// DB is the persistence interface the CLI works against.
type DB interface {
	Close() error
	Migrate() error
	SaveRun(run *Run) error
	SaveMetrics(runID string, metrics []Metric) error
	GetRun(id string) (*Run, error)
	ListRuns(limit, offset int) ([]Run, error)
	GetMetrics(runID string) ([]Metric, error)
}
