package store_test

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/calebcase/cubench/internal/bench"
	"github.com/calebcase/cubench/internal/store"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})

	return s
}

func report(id string, started time.Time) *bench.Report {
	return &bench.Report{
		ID:         id,
		Suite:      "default",
		Correction: 102,
		Repeat:     3,
		Started:    started,
		Duration:   1500 * time.Millisecond,
		Cases: []bench.CaseResult{
			{
				Name:        "sqrt_u64_max",
				Instruction: "square_root_u64 radicand=18446744073709551615",
				Value:       "4294967295",
				Stats:       bench.Stats{Min: 1234, Median: 1500, Max: 20000, Mean: 7578},
			},
			{
				Name:        "u64_divide",
				Instruction: "u64_divide dividend=3 divisor=0",
				Error:       "division by zero",
			},
		},
	}
}

func TestSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	started := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	r := report("run-1", started)

	require.NoError(t, s.SaveRun(ctx, r))

	runs, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, []store.Run{{
		ID:         "run-1",
		Suite:      "default",
		Correction: 102,
		Repeat:     3,
		Started:    started,
		Duration:   1500 * time.Millisecond,
		Cases:      2,
		Failed:     1,
	}}, runs)

	cases, err := s.RunCases(ctx, "run-1")
	require.NoError(t, err)
	require.Equal(t, r.Cases, cases)
}

func TestListRunsOrder(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	require.NoError(t, s.SaveRun(ctx, report("old", base)))
	require.NoError(t, s.SaveRun(ctx, report("new", base.Add(time.Hour))))
	require.NoError(t, s.SaveRun(ctx, report("mid", base.Add(time.Minute))))

	runs, err := s.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	require.Equal(t, "new", runs[0].ID)
	require.Equal(t, "mid", runs[1].ID)
}

func TestSaveRunDuplicate(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	r := report("dup", time.Now().UTC())

	require.NoError(t, s.SaveRun(ctx, r))

	err := s.SaveRun(ctx, r)
	require.Error(t, err)
	require.True(t, store.Error.Has(err))

	cases, err := s.RunCases(ctx, "dup")
	require.NoError(t, err)
	require.Len(t, cases, 2)
}

func TestSaveRunUnstorable(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	r := report("huge", time.Now().UTC())
	r.Cases[0].Stats.Max = math.MaxUint64

	err := s.SaveRun(ctx, r)
	require.Error(t, err)
	require.True(t, store.Error.Has(err))

	// Rolled back.
	runs, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Empty(t, runs)
}

func TestRunCasesMissing(t *testing.T) {
	s := openStore(t)

	_, err := s.RunCases(context.Background(), "nope")
	require.Error(t, err)
	require.True(t, store.Error.Has(err))
}

func TestReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "runs.db")

	s, err := store.Open(path)
	require.NoError(t, err)
	require.NoError(t, s.SaveRun(ctx, report("kept", time.Now().UTC())))
	require.NoError(t, s.Close())

	s, err = store.Open(path)
	require.NoError(t, err)
	defer func() { require.NoError(t, s.Close()) }()

	runs, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Equal(t, "kept", runs[0].ID)
}
