// Package helpers provides numeric clamping conversions used where a wider
// Go int meets a fixed-width wire field.
package helpers

import "math"

func clampInt(v, minVal, maxVal int) int {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// ClampIntToUint16 converts v to uint16 with clamping.
// Values below 0 become 0; values above math.MaxUint16 become math.MaxUint16.
func ClampIntToUint16(v int) uint16 {
	clamped := clampInt(v, 0, math.MaxUint16)
	return uint16(clamped) //nolint:gosec // clamped to valid range
}

// ClampInt64ToInt restricts v to the given range.
func ClampInt64ToInt(v int64, lowerLimit, upperLimit int) int {
	if v < int64(lowerLimit) {
		return lowerLimit
	}
	if v > int64(upperLimit) {
		return upperLimit
	}
	return int(v)
}
