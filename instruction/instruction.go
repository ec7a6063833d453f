// Package instruction defines the requests understood by the processor and
// their wire encoding.
//
// A request is a control Data block carrying the tag followed by the operands
// of the variant in declaration order. Unsigned integers use minimal big-endian
// data blocks (zero is a single zero byte). Floating point operands are 4 or 8
// byte big-endian IEEE-754 data blocks.
package instruction

import (
	"github.com/holiman/uint256"
	"github.com/zeebo/errs"
)

var (
	// Error is the error class for instruction failures.
	Error = errs.Class("instruction")

	// DecodeError marks every failure to decode a request buffer.
	DecodeError = errs.Class("decode")
)

// Instruction is one request. The set of variants is closed.
type Instruction interface {
	Tag() Tag

	visit(v visitor)
}

// visitor walks the operands of an instruction in declaration order.
type visitor interface {
	Uint64(name string, v *uint64)
	Uint128(name string, v *uint256.Int)
	Float32(name string, v *float32)
	Float64(name string, v *float64)
}

// PreciseSquareRoot takes the Decimal square root of an integer.
type PreciseSquareRoot struct {
	Radicand uint64
}

func (*PreciseSquareRoot) Tag() Tag { return TagPreciseSquareRoot }

func (i *PreciseSquareRoot) visit(v visitor) {
	v.Uint64("radicand", &i.Radicand)
}

type SquareRootU64 struct {
	Radicand uint64
}

func (*SquareRootU64) Tag() Tag { return TagSquareRootU64 }

func (i *SquareRootU64) visit(v visitor) {
	v.Uint64("radicand", &i.Radicand)
}

type SquareRootU128 struct {
	Radicand uint256.Int
}

func (*SquareRootU128) Tag() Tag { return TagSquareRootU128 }

func (i *SquareRootU128) visit(v visitor) {
	v.Uint128("radicand", &i.Radicand)
}

type U64Multiply struct {
	Multiplicand uint64
	Multiplier   uint64
}

func (*U64Multiply) Tag() Tag { return TagU64Multiply }

func (i *U64Multiply) visit(v visitor) {
	v.Uint64("multiplicand", &i.Multiplicand)
	v.Uint64("multiplier", &i.Multiplier)
}

type U64Divide struct {
	Dividend uint64
	Divisor  uint64
}

func (*U64Divide) Tag() Tag { return TagU64Divide }

func (i *U64Divide) visit(v visitor) {
	v.Uint64("dividend", &i.Dividend)
	v.Uint64("divisor", &i.Divisor)
}

type F32Multiply struct {
	Multiplicand float32
	Multiplier   float32
}

func (*F32Multiply) Tag() Tag { return TagF32Multiply }

func (i *F32Multiply) visit(v visitor) {
	v.Float32("multiplicand", &i.Multiplicand)
	v.Float32("multiplier", &i.Multiplier)
}

type F32Divide struct {
	Dividend float32
	Divisor  float32
}

func (*F32Divide) Tag() Tag { return TagF32Divide }

func (i *F32Divide) visit(v visitor) {
	v.Float32("dividend", &i.Dividend)
	v.Float32("divisor", &i.Divisor)
}

type F32Exponentiate struct {
	Base     float32
	Exponent float32
}

func (*F32Exponentiate) Tag() Tag { return TagF32Exponentiate }

func (i *F32Exponentiate) visit(v visitor) {
	v.Float32("base", &i.Base)
	v.Float32("exponent", &i.Exponent)
}

type F32NaturalLog struct {
	Argument float32
}

func (*F32NaturalLog) Tag() Tag { return TagF32NaturalLog }

func (i *F32NaturalLog) visit(v visitor) {
	v.Float32("argument", &i.Argument)
}

type F32NormalCDF struct {
	Argument float32
}

func (*F32NormalCDF) Tag() Tag { return TagF32NormalCDF }

func (i *F32NormalCDF) visit(v visitor) {
	v.Float32("argument", &i.Argument)
}

// F64Pow is measured twice: once with the exponent truncated to an integer
// and once with the general power.
type F64Pow struct {
	Base     float64
	Exponent float64
}

func (*F64Pow) Tag() Tag { return TagF64Pow }

func (i *F64Pow) visit(v visitor) {
	v.Float64("base", &i.Base)
	v.Float64("exponent", &i.Exponent)
}

type U128Multiply struct {
	Multiplicand uint256.Int
	Multiplier   uint256.Int
}

func (*U128Multiply) Tag() Tag { return TagU128Multiply }

func (i *U128Multiply) visit(v visitor) {
	v.Uint128("multiplicand", &i.Multiplicand)
	v.Uint128("multiplier", &i.Multiplier)
}

type U128Divide struct {
	Dividend uint256.Int
	Divisor  uint256.Int
}

func (*U128Divide) Tag() Tag { return TagU128Divide }

func (i *U128Divide) visit(v visitor) {
	v.Uint128("dividend", &i.Dividend)
	v.Uint128("divisor", &i.Divisor)
}

type F64Multiply struct {
	Multiplicand float64
	Multiplier   float64
}

func (*F64Multiply) Tag() Tag { return TagF64Multiply }

func (i *F64Multiply) visit(v visitor) {
	v.Float64("multiplicand", &i.Multiplicand)
	v.Float64("multiplier", &i.Multiplier)
}

type F64Divide struct {
	Dividend float64
	Divisor  float64
}

func (*F64Divide) Tag() Tag { return TagF64Divide }

func (i *F64Divide) visit(v visitor) {
	v.Float64("dividend", &i.Dividend)
	v.Float64("divisor", &i.Divisor)
}

// Noop measures an empty window.
type Noop struct{}

func (*Noop) Tag() Tag { return TagNoop }

func (*Noop) visit(visitor) {}

// PreciseMulDiv computes floor(val * num / denom) through Decimal.
type PreciseMulDiv struct {
	Val   uint64
	Num   uint64
	Denom uint64
}

func (*PreciseMulDiv) Tag() Tag { return TagPreciseMulDiv }

func (i *PreciseMulDiv) visit(v visitor) {
	v.Uint64("val", &i.Val)
	v.Uint64("num", &i.Num)
	v.Uint64("denom", &i.Denom)
}
