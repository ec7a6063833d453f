// Package store keeps the history of benchmark runs in SQLite.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"math"
	"time"

	"github.com/zeebo/errs"
	_ "modernc.org/sqlite"

	"github.com/calebcase/cubench/internal/bench"
)

// Error is the error class for store failures.
var Error = errs.Class("store")

//go:embed schema.sql
var schemaSQL string

// Schema versions:
// 0 - runs and cases
// 1 - index on cases(name)
const currentSchemaVersion = 1

// Store is a run history database.
type Store struct {
	db *sql.DB
}

// Open creates or opens the database at path and migrates it.
func Open(path string) (_ *Store, err error) {
	defer Error.WrapP(&err)

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	err = db.Ping()
	if err != nil {
		return nil, errs.Combine(err, db.Close())
	}

	// SQLite has a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	err = applyPragmas(db)
	if err != nil {
		return nil, errs.Combine(err, db.Close())
	}

	err = applySchema(db)
	if err != nil {
		return nil, errs.Combine(err, db.Close())
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}

	return Error.Wrap(s.db.Close())
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		_, err := db.Exec(pragma)
		if err != nil {
			return Error.New("failed to execute %q: %v", pragma, err)
		}
	}

	return nil
}

func applySchema(db *sql.DB) error {
	_, err := db.Exec(schemaSQL)
	if err != nil {
		return Error.New("failed to execute schema: %v", err)
	}

	var version int

	err = db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return Error.New("get user_version: %v", err)
	}

	if version < 1 {
		_, err = db.Exec("CREATE INDEX IF NOT EXISTS idx_cases_name ON cases(name)")
		if err != nil {
			return Error.New("migrate to v1: %v", err)
		}
	}

	_, err = db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion))
	if err != nil {
		return Error.New("set user_version: %v", err)
	}

	return nil
}

// toInt64 narrows a unit count for storage.
func toInt64(v uint64) (int64, error) {
	if v > math.MaxInt64 {
		return 0, Error.New("value %d exceeds storable range", v)
	}

	return int64(v), nil
}

// SaveRun stores a report and its cases atomically.
func (s *Store) SaveRun(ctx context.Context, r *bench.Report) (err error) {
	defer Error.WrapP(&err)

	correction, err := toInt64(r.Correction)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			err = errs.Combine(err, tx.Rollback())
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, suite, correction, repeat, started_at, duration_ns) VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.Suite, correction, r.Repeat, r.Started.UnixNano(), int64(r.Duration),
	)
	if err != nil {
		return err
	}

	for i, c := range r.Cases {
		var units [3]int64

		for j, v := range []uint64{c.Stats.Min, c.Stats.Median, c.Stats.Max} {
			units[j], err = toInt64(v)
			if err != nil {
				return err
			}
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO cases (run_id, seq, name, instruction, value, min_units, median_units, max_units, mean_units, error)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, i, c.Name, c.Instruction, c.Value, units[0], units[1], units[2], c.Stats.Mean, c.Error,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Run summarizes one stored run.
type Run struct {
	ID         string        `json:"id"`
	Suite      string        `json:"suite"`
	Correction uint64        `json:"correction"`
	Repeat     int           `json:"repeat"`
	Started    time.Time     `json:"started"`
	Duration   time.Duration `json:"duration"`
	Cases      int           `json:"cases"`
	Failed     int           `json:"failed"`
}

// ListRuns returns the most recent runs first. A limit below one returns
// every run.
func (s *Store) ListRuns(ctx context.Context, limit int) (_ []Run, err error) {
	defer Error.WrapP(&err)

	if limit < 1 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.suite, r.correction, r.repeat, r.started_at, r.duration_ns,
		       COUNT(c.seq), COALESCE(SUM(c.error != ''), 0)
		FROM runs r LEFT JOIN cases c ON c.run_id = r.id
		GROUP BY r.id
		ORDER BY r.started_at DESC, r.id
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { err = errs.Combine(err, rows.Close()) }()

	var runs []Run

	for rows.Next() {
		var (
			run        Run
			correction int64
			started    int64
			duration   int64
		)

		err = rows.Scan(&run.ID, &run.Suite, &correction, &run.Repeat, &started, &duration, &run.Cases, &run.Failed)
		if err != nil {
			return nil, err
		}

		run.Correction = uint64(correction)
		run.Started = time.Unix(0, started).UTC()
		run.Duration = time.Duration(duration)

		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// RunCases returns the cases of run id in suite order. Samples are not
// stored; only their summary is.
func (s *Store) RunCases(ctx context.Context, id string) (_ []bench.CaseResult, err error) {
	defer Error.WrapP(&err)

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, instruction, value, min_units, median_units, max_units, mean_units, error
		FROM cases WHERE run_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, err
	}
	defer func() { err = errs.Combine(err, rows.Close()) }()

	var cases []bench.CaseResult

	for rows.Next() {
		var (
			c     bench.CaseResult
			units [3]int64
		)

		err = rows.Scan(&c.Name, &c.Instruction, &c.Value, &units[0], &units[1], &units[2], &c.Stats.Mean, &c.Error)
		if err != nil {
			return nil, err
		}

		c.Stats.Min = uint64(units[0])
		c.Stats.Median = uint64(units[1])
		c.Stats.Max = uint64(units[2])

		cases = append(cases, c)
	}

	err = rows.Err()
	if err != nil {
		return nil, err
	}

	if len(cases) == 0 {
		return nil, Error.New("run %q not found", id)
	}

	return cases, nil
}
