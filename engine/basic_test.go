package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corewindmill/goharbinger/engine"
)

func TestSquareRoundTrip(t *testing.T) {
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			sq := engine.RankFile(r, f)
			assert.Equal(t, r, sq.Rank())
			assert.Equal(t, f, sq.File())

			parsed, err := engine.SquareFromString(sq.String())
			require.NoError(t, err)
			assert.Equal(t, sq, parsed)
		}
	}
}

func TestSquareFromStringInvalid(t *testing.T) {
	for _, s := range []string{"", "i1", "a9", "e", "aa"} {
		_, err := engine.SquareFromString(s)
		assert.Error(t, err, "SquareFromString(%q)", s)
	}
}

func TestBitboardPopAndPopcount(t *testing.T) {
	bb := engine.RankFile(0, 0).Bitboard() | engine.RankFile(3, 4).Bitboard() | engine.RankFile(7, 7).Bitboard()
	require.Equal(t, 3, bb.Popcount())

	seen := map[engine.Square]bool{}
	for bb != 0 {
		seen[bb.Pop()] = true
	}
	assert.Len(t, seen, 3)
	assert.True(t, seen[engine.RankFile(0, 0)])
	assert.True(t, seen[engine.RankFile(3, 4)])
	assert.True(t, seen[engine.RankFile(7, 7)])
}

func TestMovePacking(t *testing.T) {
	m := engine.NewMove(engine.RankFile(1, 4), engine.RankFile(3, 4), engine.DoublePush)
	assert.Equal(t, engine.RankFile(1, 4), m.From())
	assert.Equal(t, engine.RankFile(3, 4), m.To())
	assert.Equal(t, engine.DoublePush, m.Type())
	assert.False(t, m.IsCapture())
	assert.False(t, m.IsPromotion())
	assert.Equal(t, "e2e4", m.UCI())
}

// TestMoveCaptureFlagInvariant checks the "bit 2 is the capture flag,
// bit 3 is the promotion flag" encoding invariant, including the EnPassant
// special case (a capture that does not set bit 2).
func TestMoveCaptureFlagInvariant(t *testing.T) {
	cases := []struct {
		mt        engine.MoveType
		isCapture bool
		isPromo   bool
	}{
		{engine.Quiet, false, false},
		{engine.DoublePush, false, false},
		{engine.Castle, false, false},
		{engine.EnPassant, true, false},
		{engine.Capture, true, false},
		{engine.PromotionQ, false, true},
		{engine.CapturePromotionN, true, true},
	}
	for _, c := range cases {
		m := engine.NewMove(engine.RankFile(0, 0), engine.RankFile(1, 1), c.mt)
		assert.Equal(t, c.isCapture, m.IsCapture(), "move type %v capture flag", c.mt)
		assert.Equal(t, c.isPromo, m.IsPromotion(), "move type %v promotion flag", c.mt)
		assert.Equal(t, !c.isCapture && !c.isPromo, m.IsQuiet(), "move type %v quiet flag", c.mt)
	}
}

func TestPromotionUCIText(t *testing.T) {
	m := engine.NewMove(engine.RankFile(6, 4), engine.RankFile(7, 4), engine.PromotionQ)
	assert.Equal(t, "e7e8q", m.UCI())
}

func TestCastleRightsString(t *testing.T) {
	assert.Equal(t, "-", engine.NoCastle.String())
	assert.Equal(t, "KQkq", engine.AnyCastle.String())
	assert.Equal(t, "Kq", (engine.WhiteOO | engine.BlackOOO).String())
}
