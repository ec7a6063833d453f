// Package decimal provides a non-negative fixed point base 10 number.
//
// The equation for a decimal number is:
//
//  number = mantissa / 10^Digits
//
// Where mantissa is an unsigned integer of at most 128 bits and Digits is
// fixed at 12. For example:
//
//  1.23 = 1_230_000_000_000 / 10^12
//
// The largest representable number is (2^128 - 1) / 10^12, roughly
// 3.4 * 10^26. The smallest non-zero number is 10^-12.
//
// Arithmetic
//
// Every operation returns a new Decimal and fails rather than wrapping:
//
//  | Operation   | Result                      | Failure                        |
//  |-------------|-----------------------------|--------------------------------|
//  | Add         | a + b                       | Overflow                       |
//  | Sub         | a - b                       | Underflow                      |
//  | CheckedMul  | floor(a * b / 10^12)        | Overflow                       |
//  | CheckedDiv  | floor(a * 10^12 / b)        | Overflow, division by zero     |
//  | MulDivFloor | floor(a * num / denom)      | Overflow, division by zero     |
//  | Sqrt        | floor(sqrt(a)) to 10^-12    | Overflow                       |
//  |-------------|-----------------------------|--------------------------------|
//
// Products are formed in a 256 bit intermediate and narrowed back to 128 bits
// with an explicit range check, so a*b may exceed 128 bits as long as the
// final quotient does not.
//
// Square Root
//
// Sqrt uses Newton's method on the fixed point value v:
//
//  x' = (x + v/x) / 2
//
// starting from (v + 1) / 2. Each step goes through Add and CheckedDiv. The
// iteration stops as soon as a step fails to decrease the estimate or after
// MaxApproximationIterations steps. Because the start is never below the
// root and every division floors, the result is the floor of the exact root
// at 12 digits.
package decimal
