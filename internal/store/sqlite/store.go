// Package sqlite stores the results of simulated runs in a SQLite database, so batches
// of runs of different strategies can be compared over time.
//
// It doesn't store game state: only one row per finished (or timed out) run.
package sqlite

import (
	"context"
	"database/sql"
	"github.com/google/uuid"
	"github.com/janpfeifer/antsGo/internal/state"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
	"time"

	_ "modernc.org/sqlite"
)

// Timeout is the outcome recorded for runs aborted after too many turns.
const Timeout = "Timeout"

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	scenario TEXT NOT NULL,
	strategy TEXT NOT NULL,
	seed INTEGER NOT NULL,
	outcome TEXT NOT NULL,
	reason TEXT NOT NULL DEFAULT '',
	turns INTEGER NOT NULL,
	food INTEGER NOT NULL,
	ants_deployed INTEGER NOT NULL,
	started_at INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_strategy ON runs(scenario, strategy);
CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
`

// Run is the result of one simulated game.
type Run struct {
	ID       string
	Scenario string
	Strategy string
	Seed     uint64

	// Outcome is the state.Outcome name, or Timeout.
	Outcome string

	// Reason is the loss reason, if the ants lost.
	Reason string

	Turns, Food, AntsDeployed int
	StartedAt                 time.Time
	Duration                  time.Duration
}

// StrategySummary aggregates the runs of one strategy on one scenario.
type StrategySummary struct {
	Scenario, Strategy string
	Runs, Wins, Losses int
	AvgTurns           float64
}

// Store of runs.
type Store struct {
	db *sql.DB
}

// Open the database in dbPath, creating it if needed. Call Migrate before using it.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	// Runs are recorded from parallel goroutines: one connection serializes the writes.
	db.SetMaxOpenConns(1)
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, errors.Wrapf(err, "set sqlite pragma %q", stmt)
		}
	}
	klog.V(1).Infof("Opened runs database %s", dbPath)
	return &Store{db: db}, nil
}

// Close the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates the tables, if they don't exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(err, "migrate schema")
	}
	return nil
}

// RecordRun inserts the run. If run.ID is empty a new UUID is used. It returns the ID.
func (s *Store) RecordRun(ctx context.Context, run Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO runs(
			id, scenario, strategy, seed, outcome, reason, turns, food, ants_deployed,
			started_at, duration_ms
		) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Scenario, run.Strategy, int64(run.Seed), run.Outcome, run.Reason,
		run.Turns, run.Food, run.AntsDeployed, run.StartedAt.UnixMilli(), run.Duration.Milliseconds(),
	)
	if err != nil {
		return "", errors.Wrapf(err, "record run %s", run.ID)
	}
	return run.ID, nil
}

// ListRuns returns the most recent runs, newest first. If limit <= 0, all runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1 // No limit, in SQLite.
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, scenario, strategy, seed, outcome, reason, turns, food, ants_deployed,
			started_at, duration_ms
		FROM runs ORDER BY started_at DESC, id LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, errors.Wrap(err, "list runs")
	}
	defer rows.Close()

	result := make([]Run, 0)
	for rows.Next() {
		var r Run
		var seed, started, durationMs int64
		if err := rows.Scan(
			&r.ID, &r.Scenario, &r.Strategy, &seed, &r.Outcome, &r.Reason, &r.Turns, &r.Food,
			&r.AntsDeployed, &started, &durationMs,
		); err != nil {
			return nil, errors.Wrap(err, "scan run")
		}
		r.Seed = uint64(seed)
		r.StartedAt = time.UnixMilli(started)
		r.Duration = time.Duration(durationMs) * time.Millisecond
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate runs")
	}
	return result, nil
}

// Summary aggregates all runs per scenario and strategy.
func (s *Store) Summary(ctx context.Context) ([]StrategySummary, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT scenario, strategy, COUNT(*),
			COALESCE(SUM(outcome = ?), 0), COALESCE(SUM(outcome = ?), 0), AVG(turns)
		FROM runs GROUP BY scenario, strategy ORDER BY scenario, strategy`,
		state.AntsWin.String(), state.AntsLose.String(),
	)
	if err != nil {
		return nil, errors.Wrap(err, "summarize runs")
	}
	defer rows.Close()

	var result []StrategySummary
	for rows.Next() {
		var summary StrategySummary
		if err := rows.Scan(&summary.Scenario, &summary.Strategy, &summary.Runs, &summary.Wins,
			&summary.Losses, &summary.AvgTurns); err != nil {
			return nil, errors.Wrap(err, "scan summary")
		}
		result = append(result, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate summary")
	}
	return result, nil
}
