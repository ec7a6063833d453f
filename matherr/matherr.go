// Package matherr defines the failures shared by the arithmetic packages.
//
// Overflow and Underflow are the two domain kinds that a host can observe as
// numeric codes. Division by zero is a domain failure without a code.
package matherr

import (
	"errors"

	"github.com/zeebo/errs"
)

// Error is the error class for arithmetic failures.
var Error = errs.Class("math")

// ErrDivisionByZero is returned when a divisor is zero valued.
var ErrDivisionByZero = Error.New("division by zero")

// Kind is a domain failure with a stable host code.
type Kind uint32

const (
	// Overflow means the calculation overflowed the destination number.
	Overflow Kind = iota
	// Underflow means the calculation underflowed the destination number.
	Underflow
)

func (k Kind) Error() string {
	switch k {
	case Overflow:
		return "calculation overflowed the destination number"
	case Underflow:
		return "calculation underflowed the destination number"
	}

	return "unknown math error"
}

// Code returns the numeric code reported to the host.
func (k Kind) Code() uint32 {
	return uint32(k)
}

// Code extracts the host code from err. It returns false when err does not
// carry a Kind.
func Code(err error) (uint32, bool) {
	var k Kind
	if errors.As(err, &k) {
		return k.Code(), true
	}

	return 0, false
}
