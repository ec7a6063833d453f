// Package processor runs one request at a time and reports the resource units
// its primitive consumed.
//
// An invocation logs the instruction label, reads the remaining budget, runs
// the primitive, reads the budget again and logs:
//
//	cu_bench_consumed <units>
//	<result>
//
// where units is before - after - correction, clamped to zero. A failing
// primitive aborts the invocation without a cost line.
package processor

import (
	"context"
	"math"
	"strconv"

	"github.com/holiman/uint256"
	"github.com/zeebo/errs"

	"github.com/calebcase/cubench/decimal"
	"github.com/calebcase/cubench/instruction"
	"github.com/calebcase/cubench/internal/logging"
	"github.com/calebcase/cubench/matherr"
)

// Error is the error class for processor failures.
var Error = errs.Class("processor")

const (
	// DefaultCorrection is the measurement overhead subtracted from every
	// raw delta.
	DefaultCorrection uint64 = 102

	// ConsumedPrefix starts the cost line.
	ConsumedPrefix = "cu_bench_consumed "
)

// Meter reads the remaining budget.
type Meter interface {
	RemainingUnits() uint64
}

// Logger emits one log line.
type Logger interface {
	Log(msg string)
}

// Host is the environment of one invocation.
type Host interface {
	Meter
	Logger
}

// Processor dispatches requests. It is immutable and safe for concurrent
// use; hosts are not shared between invocations.
type Processor struct {
	correction uint64
	logger     *logging.Logger
}

// Option configures a Processor.
type Option func(p *Processor)

// WithCorrection sets the units subtracted from every measurement.
func WithCorrection(units uint64) Option {
	return func(p *Processor) {
		p.correction = units
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *logging.Logger) Option {
	return func(p *Processor) {
		p.logger = l
	}
}

// New returns a Processor.
func New(opts ...Option) *Processor {
	p := &Processor{
		correction: DefaultCorrection,
		logger:     logging.Noop(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Correction returns the configured correction.
func (p *Processor) Correction() uint64 {
	return p.correction
}

// Process decodes input and executes it. Malformed input fails with an
// instruction.DecodeError before anything is logged or run.
func (p *Processor) Process(host Host, input []byte) (_ *Result, err error) {
	defer Error.WrapP(&err)

	ins, err := instruction.Decode(input)
	if err != nil {
		p.logger.LogInvocation(context.Background(), "", 0, err)
		return nil, err
	}

	return p.Execute(host, ins)
}

// Execute runs ins against host.
func (p *Processor) Execute(host Host, ins instruction.Instruction) (r *Result, err error) {
	defer Error.WrapP(&err)

	r = &Result{Instruction: ins}

	defer func() {
		var units uint64
		if err == nil {
			units = r.ComputeUnitsConsumed()
		}

		p.logger.LogInvocation(context.Background(), ins.Tag().String(), units, err)
	}()

	inv := &invocation{
		p:    p,
		host: host,
		r:    r,
		name: ins.Tag().String(),
	}

	host.Log(ins.Tag().Label())

	switch i := ins.(type) {
	case *instruction.PreciseSquareRoot:
		radicand := decimal.FromUint64(i.Radicand)

		var out uint64
		err = inv.measure(func() (err error) {
			out, err = preciseSquareRoot(radicand)
			return err
		}, func() string {
			return formatUint(out)
		})
	case *instruction.PreciseMulDiv:
		val := decimal.FromUint64(i.Val)
		num := decimal.FromUint64(i.Num)
		denom := decimal.FromUint64(i.Denom)

		var out *uint256.Int
		err = inv.measure(func() (err error) {
			out, err = preciseMulDiv(val, num, denom)
			return err
		}, func() string {
			return out.Dec()
		})
	case *instruction.SquareRootU64:
		var out uint64
		err = inv.measure(func() error {
			out = squareRootU64(i.Radicand)
			return nil
		}, func() string {
			return formatUint(out)
		})
	case *instruction.SquareRootU128:
		var out *uint256.Int
		err = inv.measure(func() (err error) {
			out, err = squareRootU128(&i.Radicand)
			return err
		}, func() string {
			return out.Dec()
		})
	case *instruction.U64Multiply:
		var out uint64
		err = inv.measure(func() (err error) {
			out, err = u64Multiply(i.Multiplicand, i.Multiplier)
			return err
		}, func() string {
			return formatUint(out)
		})
	case *instruction.U64Divide:
		var out uint64
		err = inv.measure(func() (err error) {
			out, err = u64Divide(i.Dividend, i.Divisor)
			return err
		}, func() string {
			return formatUint(out)
		})
	case *instruction.F32Multiply:
		var out float32
		err = inv.measure(func() error {
			out = f32Multiply(i.Multiplicand, i.Multiplier)
			return nil
		}, func() string {
			return formatFloat32(out)
		})
	case *instruction.F32Divide:
		var out float32
		err = inv.measure(func() error {
			out = f32Divide(i.Dividend, i.Divisor)
			return nil
		}, func() string {
			return formatFloat32(out)
		})
	case *instruction.F32Exponentiate:
		var out float32
		err = inv.measure(func() error {
			out = f32Exponentiate(i.Base, i.Exponent)
			return nil
		}, func() string {
			return formatFloat32(out)
		})
	case *instruction.F32NaturalLog:
		var out float32
		err = inv.measure(func() error {
			out = f32NaturalLog(i.Argument)
			return nil
		}, func() string {
			return formatFloat32(out)
		})
	case *instruction.F32NormalCDF:
		var out float32
		err = inv.measure(func() error {
			out = f32NormalCDF(i.Argument)
			return nil
		}, func() string {
			return formatFloat32(out)
		})
	case *instruction.F64Pow:
		// Both strategies are measured separately; the integer one sees the
		// exponent truncated toward zero.
		exp := truncInt32(i.Exponent)

		var powi, powf float64

		inv.name = "powi"
		err = inv.measure(func() error {
			powi = f64Powi(i.Base, exp)
			return nil
		}, func() string {
			return formatFloat64(powi)
		})
		if err != nil {
			break
		}

		inv.name = "powf"
		err = inv.measure(func() error {
			powf = f64Powf(i.Base, i.Exponent)
			return nil
		}, func() string {
			return formatFloat64(powf)
		})
	case *instruction.U128Multiply:
		var out *uint256.Int
		err = inv.measure(func() (err error) {
			out, err = u128Multiply(&i.Multiplicand, &i.Multiplier)
			return err
		}, func() string {
			return out.Dec()
		})
	case *instruction.U128Divide:
		var out *uint256.Int
		err = inv.measure(func() (err error) {
			out, err = u128Divide(&i.Dividend, &i.Divisor)
			return err
		}, func() string {
			return out.Dec()
		})
	case *instruction.F64Multiply:
		var out float64
		err = inv.measure(func() error {
			out = f64Multiply(i.Multiplicand, i.Multiplier)
			return nil
		}, func() string {
			return formatFloat64(out)
		})
	case *instruction.F64Divide:
		var out float64
		err = inv.measure(func() error {
			out = f64Divide(i.Dividend, i.Divisor)
			return nil
		}, func() string {
			return formatFloat64(out)
		})
	case *instruction.Noop:
		inv.quiet = true
		err = inv.measure(func() error {
			return nil
		}, func() string {
			return "noop"
		})
	default:
		err = Error.New("unsupported instruction: %s", ins.Tag())
	}

	if err != nil {
		return nil, err
	}

	return r, nil
}

// invocation is the state of one Execute call.
type invocation struct {
	p    *Processor
	host Host
	r    *Result
	name string

	// quiet skips the consumption markers around the window.
	quiet bool
}

func (inv *invocation) consumption() {
	if inv.quiet {
		return
	}

	inv.host.Log("Program consumption: " + formatUint(inv.host.RemainingUnits()) + " units remaining")
}

// measure runs one window. Only run executes between the two budget reads;
// format renders the value afterwards.
func (inv *invocation) measure(run func() error, format func() string) error {
	inv.consumption()

	before := inv.host.RemainingUnits()
	err := run()
	after := inv.host.RemainingUnits()

	if err != nil {
		return err
	}

	inv.consumption()

	units, raw := inv.p.correct(before, after)
	value := format()

	inv.host.Log(ConsumedPrefix + formatUint(units))
	inv.host.Log(value)

	inv.r.Measurements = append(inv.r.Measurements, Measurement{
		Name:  inv.name,
		Units: units,
		Raw:   raw,
		Value: value,
	})

	return nil
}

// correct returns the corrected and raw units between two budget readings.
func (p *Processor) correct(before, after uint64) (units, raw uint64) {
	if after > before {
		return 0, 0
	}

	raw = before - after
	if raw < p.correction {
		return 0, raw
	}

	return raw - p.correction, raw
}

// ErrorCode returns the host code for a domain failure. Decode failures and
// division by zero have no code.
func ErrorCode(err error) (uint32, bool) {
	return matherr.Code(err)
}

func truncInt32(f float64) int32 {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt32:
		return math.MaxInt32
	case f <= math.MinInt32:
		return math.MinInt32
	}

	return int32(f)
}

func formatUint(v uint64) string {
	return strconv.FormatUint(v, 10)
}

func formatFloat32(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}

func formatFloat64(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
