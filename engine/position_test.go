package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corewindmill/goharbinger/engine"
)

func TestParseFENStartingPosition(t *testing.T) {
	pos, err := engine.ParseFEN(engine.StartFEN)
	require.NoError(t, err)
	require.NoError(t, pos.Verify())

	assert.Equal(t, engine.White, pos.SideToMove)
	assert.Equal(t, engine.AnyCastle, pos.CastleRights)
	assert.Equal(t, engine.NoSquare, pos.EnPassant)
	assert.Equal(t, 0, pos.HalfmoveClock)
	assert.Equal(t, 1, pos.FullmoveNumber)
	assert.Equal(t, 8, pos.ByPiece(engine.White, engine.Pawn).Popcount())
	assert.Equal(t, 1, pos.ByPiece(engine.Black, engine.King).Popcount())
}

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		engine.StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"rnbqkbnr/pppp1ppp/8/4p3/8/8/PPPPPPPP/RNBQKBNR w KQkq e6 0 2",
	}
	for _, fen := range fens {
		pos, err := engine.ParseFEN(fen)
		require.NoError(t, err, "ParseFEN(%q)", fen)
		assert.Equal(t, fen, pos.FEN())
	}
}

func TestParseFENInvalid(t *testing.T) {
	invalid := []string{
		"",
		"not a fen at all",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1",    // only 7 ranks
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1", // bad side to move
		"8/8/8/8/8/8/8/8 w ZZZZ - 0 1",                        // bad castling letters
	}
	for _, fen := range invalid {
		_, err := engine.ParseFEN(fen)
		assert.Error(t, err, "ParseFEN(%q)", fen)
	}
}

func TestPositionVerifyCatchesMissingKing(t *testing.T) {
	pos := engine.NewPosition()
	pos.Put(engine.RankFile(0, 4), engine.PieceOnSquare{Kind: engine.King, Color: engine.White})
	// No black king placed: Verify must reject this.
	err := pos.Verify()
	assert.Error(t, err)
}

func TestPositionVerifyCatchesStateInvariants(t *testing.T) {
	cases := []struct {
		name string
		fen  string
	}{
		{"pawn on promotion rank", "P3k3/8/8/8/8/8/8/4K3 w - - 0 1"},
		{"castling right without rook at home", "4k3/8/8/8/8/8/8/4K3 w K - 0 1"},
		{"en passant square with no double push behind it", "4k3/8/8/8/8/8/8/4K3 b - e3 0 1"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			pos, err := engine.ParseFEN(c.fen)
			require.NoError(t, err)
			assert.Error(t, pos.Verify())
		})
	}
}

func TestHasNonPawnMaterial(t *testing.T) {
	pos, err := engine.ParseFEN("4k3/8/8/8/8/8/4P3/4K3 w - - 0 1")
	require.NoError(t, err)
	assert.False(t, pos.HasNonPawnMaterial(engine.White))
	assert.False(t, pos.HasNonPawnMaterial(engine.Black))

	pos, err = engine.ParseFEN("4k3/8/8/8/8/8/4P3/3NK3 w - - 0 1")
	require.NoError(t, err)
	assert.True(t, pos.HasNonPawnMaterial(engine.White))
}
