// Package approx provides the elementary floating point functions measured by
// the processor.
package approx

import "math"

// invSqrt2Pi is 1/sqrt(2*pi).
const invSqrt2Pi = 0.3989422804014327

// NaturalLog returns ln(x). Non-positive inputs follow math.Log.
func NaturalLog(x float32) float32 {
	return float32(math.Log(float64(x)))
}

// NormalCDF approximates the standard normal cumulative distribution at x
// with a closed form tabulation fit:
//
//	1 - phi(|x|) / (0.226 + 0.64|x| + 0.33 sqrt(x^2 + 3))
//
// where phi is the standard normal density. Negative inputs are reflected.
func NormalCDF(x float32) float32 {
	a := math.Abs(float64(x))

	phi := invSqrt2Pi * math.Exp(-a*a/2)
	denom := 0.226 + 0.64*a + 0.33*math.Sqrt(a*a+3)

	y := 1 - phi/denom
	if x < 0 {
		y = 1 - y
	}

	return float32(y)
}

// Exponentiate returns base^exp.
func Exponentiate(base, exp float32) float32 {
	return float32(math.Pow(float64(base), float64(exp)))
}

// Powi returns base^n by repeated squaring.
func Powi(base float64, n int32) float64 {
	e := int64(n)
	if e < 0 {
		base = 1 / base
		e = -e
	}

	r := 1.0
	for e > 0 {
		if e&1 == 1 {
			r *= base
		}

		e >>= 1
		base *= base
	}

	return r
}

// Powf returns base^exp.
func Powf(base, exp float64) float64 {
	return math.Pow(base, exp)
}
