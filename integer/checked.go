package integer

import (
	"math/bits"

	"github.com/holiman/uint256"

	"github.com/calebcase/cubench/matherr"
)

var maxU128 = func() uint256.Int {
	var v uint256.Int
	v.SetAllOne()
	v.Rsh(&v, 128)

	return v
}()

// MaxU128 returns 2^128 - 1.
func MaxU128() *uint256.Int {
	v := maxU128
	return &v
}

// FitsU128 reports whether v can be represented in 128 bits.
func FitsU128(v *uint256.Int) bool {
	return v.BitLen() <= 128
}

// ParseU128 parses a base 10 u128.
func ParseU128(s string) (_ *uint256.Int, err error) {
	defer Error.WrapP(&err)

	v, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, err
	}

	if !FitsU128(v) {
		return nil, matherr.Overflow
	}

	return v, nil
}

// Mul64 returns a*b or matherr.Overflow.
func Mul64(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, Error.Wrap(matherr.Overflow)
	}

	return lo, nil
}

// Div64 returns a/b or matherr.ErrDivisionByZero.
func Div64(a, b uint64) (uint64, error) {
	if b == 0 {
		return 0, Error.Wrap(matherr.ErrDivisionByZero)
	}

	return a / b, nil
}

// Mul128 returns a*b or matherr.Overflow when the product needs more than
// 128 bits.
func Mul128(a, b *uint256.Int) (*uint256.Int, error) {
	if !FitsU128(a) || !FitsU128(b) {
		return nil, Error.Wrap(matherr.Overflow)
	}

	// Two 128-bit operands never overflow 256 bits.
	z := new(uint256.Int).Mul(a, b)
	if !FitsU128(z) {
		return nil, Error.Wrap(matherr.Overflow)
	}

	return z, nil
}

// Div128 returns a/b or matherr.ErrDivisionByZero.
func Div128(a, b *uint256.Int) (*uint256.Int, error) {
	if !FitsU128(a) || !FitsU128(b) {
		return nil, Error.Wrap(matherr.Overflow)
	}

	if b.IsZero() {
		return nil, Error.Wrap(matherr.ErrDivisionByZero)
	}

	return new(uint256.Int).Div(a, b), nil
}
