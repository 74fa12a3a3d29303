// Zobrist hashing constants, generated once from a fixed seed so that a
// given position always hashes to the same key across runs.
//
// More information on Zobrist hashing can be found in the paper:
// http://research.cs.wisc.edu/techreports/1970/TR88.pdf

package engine

import "math/rand"

var (
	// ZobristPiece[color][figure][sq] is XORed in for every piece on the
	// board.
	ZobristPiece [ColorCount][FigureCount][64]uint64
	// ZobristEnPassant[file] is XORed in when a square on file is the en
	// passant target; only the file matters since a double push always
	// lands the target on the mover's fourth/fifth rank, implied by side to
	// move.
	ZobristEnPassant [8]uint64
	// ZobristCastle[rights] is XORed in for the current castling rights
	// mask (0..15).
	ZobristCastle [16]uint64
	// ZobristSideToMove is XORed in when it is Black to move.
	ZobristSideToMove uint64
)

func rand64(r *rand.Rand) uint64 {
	return uint64(r.Int63())<<32 ^ uint64(r.Int63())
}

func init() {
	r := rand.New(rand.NewSource(1))
	for c := Color(0); c < ColorCount; c++ {
		for f := Figure(0); f < FigureCount; f++ {
			for sq := 0; sq < 64; sq++ {
				ZobristPiece[c][f][sq] = rand64(r)
			}
		}
	}
	for file := 0; file < 8; file++ {
		ZobristEnPassant[file] = rand64(r)
	}
	for i := range ZobristCastle {
		ZobristCastle[i] = rand64(r)
	}
	ZobristSideToMove = rand64(r)
}

// RecomputeZobrist derives pos's Zobrist key from scratch by folding in
// every piece, the castling rights, the en passant target and the side to
// move, independently of whatever incremental updates Put/Remove/MakeMove
// have applied. Tests use it to confirm the incremental hash never drifts;
// it is never called on the hot path.
func RecomputeZobrist(pos *Position) uint64 {
	var key uint64
	for sq := Square(0); sq < 64; sq++ {
		p := pos.Board[sq]
		if p.Kind == NoFigure {
			continue
		}
		key ^= ZobristPiece[p.Color][p.Kind][sq]
	}
	if pos.EnPassant != NoSquare {
		key ^= ZobristEnPassant[pos.EnPassant.File()]
	}
	key ^= ZobristCastle[pos.CastleRights]
	if pos.SideToMove == Black {
		key ^= ZobristSideToMove
	}
	return key
}
