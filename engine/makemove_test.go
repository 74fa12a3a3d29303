package engine_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/corewindmill/goharbinger/engine"
)

// legalMoves is a small helper returning every legal move of pos.
func legalMoves(pos *engine.Position) []engine.Move {
	var list engine.MoveList
	engine.GenerateMoves(pos, engine.ComputeConstraints(pos), &list)
	moves := make([]engine.Move, list.Len())
	for i := range moves {
		moves[i] = list.Move(i)
	}
	return moves
}

// TestMakeUnmakeRoundTrip walks every legal move up to 4 plies deep from
// the starting position and checks that unmake(make(pos, m)) restores the
// position exactly, including the Zobrist hash.
// Whole-Position comparison uses go-cmp rather than hand-rolled
// field checks so a future field addition can't silently escape coverage.
func TestMakeUnmakeRoundTrip(t *testing.T) {
	var walk func(pos *engine.Position, depth int)
	walk = func(pos *engine.Position, depth int) {
		if depth == 0 {
			return
		}
		for _, m := range legalMoves(pos) {
			before := *pos
			u := engine.MakeMove(pos, m)
			engine.UnmakeMove(pos, m, u)
			if diff := cmp.Diff(before, *pos, cmp.AllowUnexported()); diff != "" {
				t.Fatalf("make/unmake(%v) not an identity (-before +after):\n%s", m, diff)
			}

			engine.MakeMove(pos, m)
			walk(pos, depth-1)
			engine.UnmakeMove(pos, m, u)
		}
	}
	walk(engine.StartingPosition(), 4)
}

// TestZobristMatchesFromScratch checks invariant 6 over the same reachable
// tree: the incrementally maintained hash always equals a from-scratch
// recomputation.
func TestZobristMatchesFromScratch(t *testing.T) {
	var walk func(pos *engine.Position, depth int)
	walk = func(pos *engine.Position, depth int) {
		want := engine.RecomputeZobrist(pos)
		if pos.Zobrist != want {
			t.Fatalf("position %s: incremental zobrist %x != recomputed %x", pos.FEN(), pos.Zobrist, want)
		}
		if depth == 0 {
			return
		}
		for _, m := range legalMoves(pos) {
			u := engine.MakeMove(pos, m)
			walk(pos, depth-1)
			engine.UnmakeMove(pos, m, u)
		}
	}
	walk(engine.StartingPosition(), 3)
}

// TestMakeMoveAppliedSequence checks that the Zobrist hash after
// e2e4 e7e5 g1f3 equals the hash of the resulting FEN parsed directly.
func TestMakeMoveAppliedSequence(t *testing.T) {
	pos := engine.StartingPosition()
	moves := []string{"e2e4", "e7e5", "g1f3"}
	for _, text := range moves {
		m := findLegalMove(t, pos, text)
		engine.MakeMove(pos, m)
	}

	require.Equal(t, engine.Black, pos.SideToMove)

	want, err := engine.ParseFEN("rnbqkbnr/pppp1ppp/8/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R b KQkq - 1 2")
	require.NoError(t, err)
	require.Equal(t, want.Zobrist, pos.Zobrist)
}

func findLegalMove(t *testing.T, pos *engine.Position, uciText string) engine.Move {
	t.Helper()
	from, err := engine.SquareFromString(uciText[0:2])
	require.NoError(t, err)
	to, err := engine.SquareFromString(uciText[2:4])
	require.NoError(t, err)
	for _, m := range legalMoves(pos) {
		if m.From() == from && m.To() == to {
			return m
		}
	}
	t.Fatalf("no legal move %s from %s", uciText, pos.FEN())
	return engine.NullMove
}

// TestCastlingRightsLostOnRookCapture checks that capturing an untouched
// rook on its home square revokes that side's castling right even though
// the capturing side never moved its own king or rook.
func TestCastlingRightsLostOnRookCapture(t *testing.T) {
	pos, err := engine.ParseFEN("r3k2r/5N2/8/8/8/8/8/R3K3 w Qkq - 0 1")
	require.NoError(t, err)

	m := findLegalMove(t, pos, "f7h8")
	require.True(t, m.IsCapture())

	engine.MakeMove(pos, m)
	require.Equal(t, engine.WhiteOOO|engine.BlackOOO, pos.CastleRights)
}
