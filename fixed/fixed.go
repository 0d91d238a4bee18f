// Package fixed provides the 16.16 fixed-point numbers and binary angle
// measurements (BAM) the renderer computes with. No renderer arithmetic is
// done in floating point; the trigonometric tables are built once at start-up
// and shared read-only for the lifetime of the process.
package fixed

import (
	"math"

	"golang.org/x/exp/constraints"
)

// FracBits is the number of binary digits after the point.
const FracBits = 16

// Unit is 1.0 in fixed point.
const Unit Fixed = 1 << FracBits

// Fixed is a signed 16.16 fixed-point number. The represented value is
// Fixed / 65536.
type Fixed int32

// FromInt converts an integer map or screen unit to fixed point.
func FromInt[T constraints.Integer](v T) Fixed {
	return Fixed(v) << FracBits
}

// Int truncates towards negative infinity.
func (f Fixed) Int() int {
	return int(f >> FracBits)
}

// Float is for diagnostics only.
func (f Fixed) Float() float64 {
	return float64(f) / float64(Unit)
}

// Mul multiplies two fixed-point numbers.
func Mul(a, b Fixed) Fixed {
	return Fixed((int64(a) * int64(b)) >> FracBits)
}

// Div divides a by b, saturating to the int32 range when the quotient would
// overflow (which includes b == 0).
func Div(a, b Fixed) Fixed {
	if Abs(a)>>14 >= Abs(b) {
		if a^b < 0 {
			return math.MinInt32
		}
		return math.MaxInt32
	}
	return Fixed((int64(a) << FracBits) / int64(b))
}

// Abs returns |a|.
func Abs(a Fixed) Fixed {
	if a < 0 {
		return -a
	}
	return a
}
