// Package gaspoc holds the numeric helpers shared by the pipe mesh
// generator packages of the gas plant scene.
package gaspoc

import (
	"fmt"
	"math"
	"runtime"
)

const (
	pi = math.Pi
	// Tau is a full turn in radians.
	Tau = 2 * pi
	// Tolerance is the default geometric tolerance used to decide
	// whether two points coincide or two directions are parallel.
	Tolerance = 1e-9
)

// DtoR converts degrees to radians
func DtoR(degrees float64) float64 {
	return (pi / 180) * degrees
}

// RtoD converts radians to degrees
func RtoD(radians float64) float64 {
	return (180 / pi) * radians
}

// Clamp x between a and b, assume a <= b
func Clamp(x, a, b float64) float64 {
	if x < a {
		return a
	}
	if x > b {
		return b
	}
	return x
}

// Fract returns the fractional part of x wrapped into [0,1).
// Fract(-0.25) is 0.75.
func Fract(x float64) float64 {
	f := x - math.Floor(x)
	if f >= 1 {
		// x was a tiny negative number and the subtraction rounded up.
		return 0
	}
	return f
}

// CeilPowerOfTwo returns the smallest power of two greater or equal to x.
// Values below 1 return 1.
func CeilPowerOfTwo(x float64) float64 {
	if x <= 1 || math.IsNaN(x) {
		return 1
	}
	return math.Pow(2, math.Ceil(math.Log2(x)))
}

// IsFinite reports whether x is neither NaN nor an infinity.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// ErrMsg returns an error with a message function name and line number.
func ErrMsg(msg string) error {
	pc, _, line, ok := runtime.Caller(1)
	if !ok {
		return fmt.Errorf("?: %s", msg)
	}
	fn := runtime.FuncForPC(pc)
	return fmt.Errorf("%s line %d: %s", fn.Name(), line, msg)
}
