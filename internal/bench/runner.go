package bench

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/calebcase/cubench/instruction"
	"github.com/calebcase/cubench/internal/logging"
	"github.com/calebcase/cubench/meter"
	"github.com/calebcase/cubench/processor"
)

// HostFactory returns a fresh host for one invocation.
type HostFactory func(budget uint64) processor.Host

// ClockHosts drain by monotonic time.
func ClockHosts(budget uint64) processor.Host {
	return meter.NewHost(budget)
}

// Recorder observes case outcomes.
type Recorder interface {
	Observe(name string, units uint64)
	Failure(name string, err error)
}

type nopRecorder struct{}

func (nopRecorder) Observe(string, uint64) {}
func (nopRecorder) Failure(string, error)  {}

// Runner runs suites.
type Runner struct {
	proc        *processor.Processor
	hosts       HostFactory
	budget      uint64
	repeat      int
	concurrency int
	logger      *logging.Logger
	recorder    Recorder
	now         func() time.Time
}

// Option configures a Runner.
type Option func(r *Runner)

func WithHosts(f HostFactory) Option {
	return func(r *Runner) { r.hosts = f }
}

func WithBudget(units uint64) Option {
	return func(r *Runner) { r.budget = units }
}

func WithRepeat(n int) Option {
	return func(r *Runner) { r.repeat = n }
}

func WithConcurrency(n int) Option {
	return func(r *Runner) { r.concurrency = n }
}

func WithLogger(l *logging.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

func WithRecorder(rec Recorder) Option {
	return func(r *Runner) { r.recorder = rec }
}

func WithNow(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// NewRunner returns a Runner invoking proc.
func NewRunner(proc *processor.Processor, opts ...Option) *Runner {
	r := &Runner{
		proc:        proc,
		hosts:       ClockHosts,
		budget:      meter.DefaultBudget,
		repeat:      1,
		concurrency: 1,
		logger:      logging.Noop(),
		recorder:    nopRecorder{},
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.repeat < 1 {
		r.repeat = 1
	}

	if r.concurrency < 1 {
		r.concurrency = 1
	}

	return r
}

// CaseResult is the outcome of one case.
type CaseResult struct {
	Name        string   `json:"name"`
	Instruction string   `json:"instruction"`
	Value       string   `json:"value,omitempty"`
	Samples     []uint64 `json:"samples,omitempty"`
	Stats       Stats    `json:"stats"`
	Error       string   `json:"error,omitempty"`
}

// Failed reports whether the case did not complete.
func (c *CaseResult) Failed() bool {
	return c.Error != ""
}

// Report is the outcome of a suite run.
type Report struct {
	ID         string        `json:"id"`
	Suite      string        `json:"suite"`
	Correction uint64        `json:"correction"`
	Repeat     int           `json:"repeat"`
	Started    time.Time     `json:"started"`
	Duration   time.Duration `json:"duration"`
	Cases      []CaseResult  `json:"cases"`
}

// Failed counts the failed cases.
func (r *Report) Failed() (n int) {
	for i := range r.Cases {
		if r.Cases[i].Failed() {
			n++
		}
	}

	return n
}

// Run executes every case of s. Case failures are recorded in the report;
// the returned error is reserved for cancellation and for results that
// differ between repetitions of the same request.
func (r *Runner) Run(ctx context.Context, s *Suite) (_ *Report, err error) {
	defer Error.WrapP(&err)

	report := &Report{
		ID:         uuid.NewString(),
		Suite:      s.Name,
		Correction: r.proc.Correction(),
		Repeat:     r.repeat,
		Started:    r.now(),
		Cases:      make([]CaseResult, len(s.Cases)),
	}

	logger := r.logger.WithRun(report.ID)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, c := range s.Cases {
		g.Go(func() error {
			cr, err := r.runCase(ctx, c)
			if err != nil {
				return err
			}

			logger.LogCase(ctx, c.Name, r.repeat, cr.Stats.Median, errorOf(cr))
			report.Cases[i] = *cr

			return nil
		})
	}

	err = g.Wait()
	if err != nil {
		return nil, err
	}

	report.Duration = r.now().Sub(report.Started)

	return report, nil
}

func errorOf(cr *CaseResult) error {
	if cr.Error == "" {
		return nil
	}

	return Error.New("%s", cr.Error)
}

func (r *Runner) runCase(ctx context.Context, c Case) (*CaseResult, error) {
	cr := &CaseResult{
		Name:        c.Name,
		Instruction: c.Instruction,
	}

	ins, err := c.Build()
	if err != nil {
		cr.Error = err.Error()
		r.recorder.Failure(c.Instruction, err)

		return cr, nil
	}

	cr.Instruction = instruction.Format(ins)

	input, err := instruction.Encode(ins)
	if err != nil {
		cr.Error = err.Error()
		r.recorder.Failure(c.Instruction, err)

		return cr, nil
	}

	for n := 0; n < r.repeat; n++ {
		err = ctx.Err()
		if err != nil {
			return nil, err
		}

		res, err := r.proc.Process(r.hosts(r.budget), input)
		if err != nil {
			cr.Error = err.Error()
			r.recorder.Failure(c.Instruction, err)

			return cr, nil
		}

		if n == 0 {
			cr.Value = res.Value()
		} else if res.Value() != cr.Value {
			return nil, Error.New("case %q: nondeterministic result: %q then %q", c.Name, cr.Value, res.Value())
		}

		units := res.ComputeUnitsConsumed()
		cr.Samples = append(cr.Samples, units)
		r.recorder.Observe(c.Instruction, units)
	}

	cr.Stats = Summarize(cr.Samples)

	if c.Expect != "" && cr.Value != c.Expect {
		cr.Error = "unexpected value " + cr.Value + ", want " + c.Expect
	}

	return cr, nil
}

// Calibrate derives a correction from samples Noop invocations: the median
// raw cost of an empty window.
func (r *Runner) Calibrate(ctx context.Context, samples int) (_ uint64, err error) {
	defer Error.WrapP(&err)

	if samples < 1 {
		return 0, Error.New("samples must be at least 1, got %d", samples)
	}

	proc := processor.New(processor.WithCorrection(0))
	input := instruction.MustEncode(&instruction.Noop{})

	raw := make([]uint64, 0, samples)

	for range samples {
		err = ctx.Err()
		if err != nil {
			return 0, err
		}

		res, err := proc.Process(r.hosts(r.budget), input)
		if err != nil {
			return 0, err
		}

		raw = append(raw, res.Measurements[0].Raw)
	}

	correction := Summarize(raw).Median
	r.logger.LogCalibration(ctx, samples, correction)

	return correction, nil
}
