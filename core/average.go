package core

import "math/bits"

// AverageCount is the number of samples the hardware accumulates per
// result. Always a power of two in [MinAverageCount, MaxAverageCount].
type AverageCount uint16

const (
	MinAverageCount AverageCount = 1
	MaxAverageCount AverageCount = 256
)

// Halve returns half of c, clamped at MinAverageCount.
func (c AverageCount) Halve() AverageCount {
	if c <= MinAverageCount {
		return MinAverageCount
	}
	return c >> 1
}

// Double returns twice c, clamped at MaxAverageCount.
func (c AverageCount) Double() AverageCount {
	if c >= MaxAverageCount {
		return MaxAverageCount
	}
	return c << 1
}

// Shift returns log2(c), the right shift that normalises an accumulated
// result back to native resolution.
func (c AverageCount) Shift() uint8 {
	if c == 0 {
		return 0
	}
	return uint8(bits.TrailingZeros16(uint16(c)))
}

// Valid reports whether c is a power of two within range.
func (c AverageCount) Valid() bool {
	return c >= MinAverageCount && c <= MaxAverageCount && c&(c-1) == 0
}
