package processor

import (
	"github.com/holiman/uint256"

	"github.com/calebcase/cubench/approx"
	"github.com/calebcase/cubench/decimal"
	"github.com/calebcase/cubench/integer"
)

// Primitives are never inlined: each measured window holds exactly one call.

//go:noinline
func preciseSquareRoot(radicand decimal.Decimal) (uint64, error) {
	root, err := radicand.Sqrt()
	if err != nil {
		return 0, err
	}

	return root.ToUint64()
}

//go:noinline
func preciseMulDiv(val, num, denom decimal.Decimal) (*uint256.Int, error) {
	r, err := val.MulDivFloor(num, denom)
	if err != nil {
		return nil, err
	}

	return r.ToImprecise()
}

//go:noinline
func squareRootU64(radicand uint64) uint64 {
	return integer.SqrtU64(radicand)
}

//go:noinline
func squareRootU128(radicand *uint256.Int) (*uint256.Int, error) {
	return integer.SqrtU128(radicand)
}

//go:noinline
func u64Multiply(multiplicand, multiplier uint64) (uint64, error) {
	return integer.Mul64(multiplicand, multiplier)
}

//go:noinline
func u64Divide(dividend, divisor uint64) (uint64, error) {
	return integer.Div64(dividend, divisor)
}

//go:noinline
func f32Multiply(multiplicand, multiplier float32) float32 {
	return multiplicand * multiplier
}

//go:noinline
func f32Divide(dividend, divisor float32) float32 {
	return dividend / divisor
}

//go:noinline
func f32Exponentiate(base, exponent float32) float32 {
	return approx.Exponentiate(base, exponent)
}

//go:noinline
func f32NaturalLog(argument float32) float32 {
	return approx.NaturalLog(argument)
}

//go:noinline
func f32NormalCDF(argument float32) float32 {
	return approx.NormalCDF(argument)
}

//go:noinline
func f64Powi(base float64, exponent int32) float64 {
	return approx.Powi(base, exponent)
}

//go:noinline
func f64Powf(base, exponent float64) float64 {
	return approx.Powf(base, exponent)
}

//go:noinline
func u128Multiply(multiplicand, multiplier *uint256.Int) (*uint256.Int, error) {
	return integer.Mul128(multiplicand, multiplier)
}

//go:noinline
func u128Divide(dividend, divisor *uint256.Int) (*uint256.Int, error) {
	return integer.Div128(dividend, divisor)
}

//go:noinline
func f64Multiply(multiplicand, multiplier float64) float64 {
	return multiplicand * multiplier
}

//go:noinline
func f64Divide(dividend, divisor float64) float64 {
	return dividend / divisor
}
