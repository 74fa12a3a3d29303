package engine

import "golang.org/x/exp/constraints"

// Clamp restricts v to [lo, hi]. Used for history-table saturation, UCI
// option clamping and search margin arithmetic across int32, int and int16
// without duplicating the same three-line function per type.
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Min returns the smaller of a and b.
func Min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of a and b.
func Max[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}
