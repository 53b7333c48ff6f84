package core

import "math"

// fabs returns the absolute value of a float32 by clearing the sign bit.
func fabs(v float32) float32 {
	return math.Float32frombits(math.Float32bits(v) &^ (1 << 31))
}
