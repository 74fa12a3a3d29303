package engine

import (
	"errors"
	"math/bits"
)

var (
	errInvalidSquare = errors.New("engine: invalid square")
	errInvalidFEN    = errors.New("engine: invalid FEN")
)

func popcount(x uint64) int      { return bits.OnesCount64(x) }
func trailingZeros(x uint64) int { return bits.TrailingZeros64(x) }
