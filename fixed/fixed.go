// Package fixed provides the 16-bit signed fixed-point arithmetic shared by
// the STDP traces and decay tables.
//
// Values use a Q-format with Point fractional bits. Traces and table entries
// are stored as int16; intermediate results are carried in int32.
package fixed

import "math"

const (
	// Point is the number of fractional bits.
	Point = 11

	// One is the fixed-point representation of 1.0.
	One int32 = 1 << Point

	// RatePoint is the number of fractional bits of a learning rate. Rates
	// are small, so they get more precision than traces and weights.
	RatePoint = 24
)

// Mul multiplies the low halfwords of a and b as signed 16-bit values and
// shifts the 32-bit product right by Point. The shift is arithmetic, so
// negative products round towards negative infinity.
func Mul(a, b int32) int32 {
	return (int32(int16(a)) * int32(int16(b))) >> Point
}

// FromFloat converts f to fixed point, rounding half away from zero.
func FromFloat(f float64) int32 {
	return int32(math.Round(f * float64(One)))
}

// ToFloat converts a fixed-point value back to a float.
func ToFloat(v int32) float64 {
	return float64(v) / float64(One)
}


// RateFromFloat converts a learning rate to fixed point with RatePoint
// fractional bits, rounding half away from zero.
func RateFromFloat(f float64) int32 {
	return int32(math.Round(f * (1 << RatePoint)))
}

// RateToFloat converts a fixed-point learning rate back to a float.
func RateToFloat(r int32) float64 {
	return float64(r) / (1 << RatePoint)
}

// MulRate scales the fixed-point value v by the learning rate r. The result
// has Point fractional bits.
func MulRate(v, r int32) int32 {
	return int32((int64(v) * int64(r)) >> RatePoint)
}
