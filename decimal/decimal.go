package decimal

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/zeebo/errs"

	"github.com/calebcase/cubench/integer"
	"github.com/calebcase/cubench/matherr"
)

// Error is the error class for decimal failures.
var Error = errs.Class("decimal")

const (
	// Digits is the count of fractional base 10 digits.
	Digits = 12

	// Scale is the mantissa of 1.0.
	Scale uint64 = 1_000_000_000_000

	// MaxApproximationIterations bounds the Newton iteration in Sqrt.
	MaxApproximationIterations = 100
)

var (
	scale = uint256.NewInt(Scale)
	two   = Decimal{m: *uint256.NewInt(2 * Scale)}
)

// Decimal is a fixed point number. The zero value is 0.
type Decimal struct {
	m uint256.Int
}

func overflow() error  { return Error.Wrap(matherr.Overflow) }
func underflow() error { return Error.Wrap(matherr.Underflow) }

func narrow(m *uint256.Int) (Decimal, error) {
	if !integer.FitsU128(m) {
		return Decimal{}, overflow()
	}

	return Decimal{m: *m}, nil
}

// New returns the decimal with integer value n.
func New(n *uint256.Int) (Decimal, error) {
	m, over := new(uint256.Int).MulOverflow(n, scale)
	if over {
		return Decimal{}, overflow()
	}

	return narrow(m)
}

// FromUint64 returns the decimal with integer value n. It cannot fail since
// 2^64 * 10^12 fits in 128 bits.
func FromUint64(n uint64) Decimal {
	var d Decimal
	d.m.Mul(uint256.NewInt(n), scale)

	return d
}

// FromMantissa returns the decimal m / 10^12.
func FromMantissa(m *uint256.Int) (Decimal, error) {
	return narrow(m)
}

// Zero returns 0.
func Zero() Decimal {
	return Decimal{}
}

// One returns 1.
func One() Decimal {
	return FromUint64(1)
}

// Mantissa returns a copy of the scaled integer.
func (d Decimal) Mantissa() *uint256.Int {
	return d.m.Clone()
}

// IsZero reports whether d is 0.
func (d Decimal) IsZero() bool {
	return d.m.IsZero()
}

// Cmp returns -1, 0 or +1 as d is less than, equal to or greater than o.
func (d Decimal) Cmp(o Decimal) int {
	return d.m.Cmp(&o.m)
}

// Add returns d + o.
func (d Decimal) Add(o Decimal) (Decimal, error) {
	m, over := new(uint256.Int).AddOverflow(&d.m, &o.m)
	if over {
		return Decimal{}, overflow()
	}

	return narrow(m)
}

// Sub returns d - o.
func (d Decimal) Sub(o Decimal) (Decimal, error) {
	if d.m.Lt(&o.m) {
		return Decimal{}, underflow()
	}

	var r Decimal
	r.m.Sub(&d.m, &o.m)

	return r, nil
}

// UnsignedSub returns |d - o| and whether d - o is negative.
func (d Decimal) UnsignedSub(o Decimal) (Decimal, bool) {
	var r Decimal
	if d.m.Lt(&o.m) {
		r.m.Sub(&o.m, &d.m)
		return r, true
	}

	r.m.Sub(&d.m, &o.m)

	return r, false
}

// CheckedMul returns floor(d * o).
func (d Decimal) CheckedMul(o Decimal) (Decimal, error) {
	// Both mantissas fit in 128 bits so the product fits in 256.
	m := new(uint256.Int).Mul(&d.m, &o.m)
	m.Div(m, scale)

	return narrow(m)
}

// CheckedDiv returns floor(d / o).
func (d Decimal) CheckedDiv(o Decimal) (Decimal, error) {
	if o.m.IsZero() {
		return Decimal{}, Error.Wrap(matherr.ErrDivisionByZero)
	}

	m := new(uint256.Int).Mul(&d.m, scale)
	m.Div(m, &o.m)

	return narrow(m)
}

// MulDivFloor returns floor(d * num / denom) without overflowing on the
// intermediate product.
func (d Decimal) MulDivFloor(num, denom Decimal) (Decimal, error) {
	if denom.m.IsZero() {
		return Decimal{}, Error.Wrap(matherr.ErrDivisionByZero)
	}

	m, over := new(uint256.Int).MulDivOverflow(&d.m, &num.m, &denom.m)
	if over {
		return Decimal{}, overflow()
	}

	return narrow(m)
}

// Pow returns d^exp by repeated squaring. d^0 is 1.
func (d Decimal) Pow(exp uint64) (r Decimal, err error) {
	r = One()
	base := d

	for exp > 0 {
		if exp&1 == 1 {
			r, err = r.CheckedMul(base)
			if err != nil {
				return Decimal{}, err
			}
		}

		exp >>= 1

		if exp > 0 {
			base, err = base.CheckedMul(base)
			if err != nil {
				return Decimal{}, err
			}
		}
	}

	return r, nil
}

// Sqrt returns the square root of d, floored to 10^-12.
func (d Decimal) Sqrt() (_ Decimal, err error) {
	if d.IsZero() {
		return Decimal{}, nil
	}

	guess, err := d.Add(One())
	if err != nil {
		return Decimal{}, err
	}

	guess, err = guess.CheckedDiv(two)
	if err != nil {
		return Decimal{}, err
	}

	for range MaxApproximationIterations {
		q, err := d.CheckedDiv(guess)
		if err != nil {
			return Decimal{}, err
		}

		next, err := guess.Add(q)
		if err != nil {
			return Decimal{}, err
		}

		next, err = next.CheckedDiv(two)
		if err != nil {
			return Decimal{}, err
		}

		if !next.m.Lt(&guess.m) {
			break
		}

		guess = next
	}

	return guess, nil
}

// Floor drops the fractional part.
func (d Decimal) Floor() Decimal {
	var frac, r uint256.Int
	frac.Mod(&d.m, scale)
	r.Sub(&d.m, &frac)

	return Decimal{m: r}
}

// Ceiling rounds up to the next integer value.
func (d Decimal) Ceiling() (Decimal, error) {
	f := d.Floor()
	if f.m.Eq(&d.m) {
		return f, nil
	}

	return f.Add(One())
}

// AlmostEqual reports whether d and o differ by at most precision.
func (d Decimal) AlmostEqual(o, precision Decimal) bool {
	diff, _ := d.UnsignedSub(o)

	return !precision.m.Lt(&diff.m)
}

// ToImprecise returns floor(d) as an integer.
func (d Decimal) ToImprecise() (*uint256.Int, error) {
	n := new(uint256.Int).Div(&d.m, scale)
	if !integer.FitsU128(n) {
		return nil, overflow()
	}

	return n, nil
}

// ToUint64 returns floor(d) as a u64.
func (d Decimal) ToUint64() (uint64, error) {
	n, err := d.ToImprecise()
	if err != nil {
		return 0, err
	}

	if !n.IsUint64() {
		return 0, overflow()
	}

	return n.Uint64(), nil
}

func (d Decimal) String() string {
	var i, f uint256.Int
	i.DivMod(&d.m, scale, &f)

	return fmt.Sprintf("%s.%0*d", i.Dec(), Digits, f.Uint64())
}
