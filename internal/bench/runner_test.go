package bench_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calebcase/cubench/internal/bench"
	"github.com/calebcase/cubench/meter"
	"github.com/calebcase/cubench/processor"
)

// counterHosts charge a fixed amount per budget read.
func counterHosts(charge uint64) bench.HostFactory {
	return func(budget uint64) processor.Host {
		return &meter.Host{
			Budget:     meter.NewCounter(budget, charge),
			Transcript: meter.NewTranscript(),
		}
	}
}

type recorder struct {
	mu       sync.Mutex
	observed map[string]int
	failed   map[string]int
}

func newRecorder() *recorder {
	return &recorder{
		observed: map[string]int{},
		failed:   map[string]int{},
	}
}

func (r *recorder) Observe(name string, units uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.observed[name]++
}

func (r *recorder) Failure(name string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.failed[name]++
}

func TestRunDefaultSuite(t *testing.T) {
	rec := newRecorder()

	runner := bench.NewRunner(processor.New(),
		bench.WithHosts(counterHosts(0)),
		bench.WithRepeat(3),
		bench.WithConcurrency(4),
		bench.WithRecorder(rec),
	)

	suite := bench.DefaultSuite()

	report, err := runner.Run(context.Background(), suite)
	require.NoError(t, err)

	require.NotEmpty(t, report.ID)
	require.Equal(t, "default", report.Suite)
	require.Equal(t, processor.DefaultCorrection, report.Correction)
	require.Len(t, report.Cases, len(suite.Cases))
	require.Zero(t, report.Failed())

	for i, c := range report.Cases {
		require.Equal(t, suite.Cases[i].Name, c.Name)
		require.Len(t, c.Samples, 3)
		require.Equal(t, bench.Stats{}, c.Stats)

		if suite.Cases[i].Expect != "" {
			require.Equal(t, suite.Cases[i].Expect, c.Value)
		}
	}

	require.Equal(t, 3, rec.observed["noop"])
	require.Empty(t, rec.failed)
}

func TestRunCaseFailures(t *testing.T) {
	suite, err := bench.ParseSuite([]byte(`
name: failures
cases:
  - name: overflow
    instruction: u64_multiply
    args: {multiplicand: max, multiplier: "2"}
  - name: wrong
    instruction: u64_divide
    args: {dividend: "3", divisor: "1"}
    expect: "4"
  - name: ok
    instruction: noop
`))
	require.NoError(t, err)

	rec := newRecorder()
	runner := bench.NewRunner(processor.New(), bench.WithHosts(counterHosts(0)), bench.WithRecorder(rec))

	report, err := runner.Run(context.Background(), suite)
	require.NoError(t, err)

	require.Equal(t, 2, report.Failed())
	require.Contains(t, report.Cases[0].Error, "overflow")
	require.Contains(t, report.Cases[1].Error, "unexpected value 3")
	require.False(t, report.Cases[2].Failed())
	require.Equal(t, 1, rec.failed["u64_multiply"])
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := bench.NewRunner(processor.New(), bench.WithHosts(counterHosts(0)))

	_, err := runner.Run(ctx, bench.DefaultSuite())
	require.ErrorIs(t, err, context.Canceled)
}

func TestCalibrate(t *testing.T) {
	runner := bench.NewRunner(processor.New(), bench.WithHosts(counterHosts(57)))

	correction, err := runner.Calibrate(context.Background(), 9)
	require.NoError(t, err)
	require.Equal(t, uint64(57), correction)

	// A calibrated processor measures an empty window as free.
	report, err := bench.NewRunner(processor.New(processor.WithCorrection(correction)), bench.WithHosts(counterHosts(57))).
		Run(context.Background(), &bench.Suite{Name: "noop", Cases: []bench.Case{{Name: "noop", Instruction: "noop"}}})
	require.NoError(t, err)
	require.Equal(t, uint64(0), report.Cases[0].Stats.Max)

	_, err = runner.Calibrate(context.Background(), 0)
	require.Error(t, err)
}

func TestCalibrateRealClock(t *testing.T) {
	runner := bench.NewRunner(processor.New())

	_, err := runner.Calibrate(context.Background(), 25)
	require.NoError(t, err)
}
