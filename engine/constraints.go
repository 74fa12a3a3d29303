package engine

// Constraints captures everything the move generator needs to produce only
// legal moves in a single pass, computed once per node before move
// generation begins: the squares pinned to the side-to-move's king, the
// pieces currently giving check, and a mask restricting where non-king
// moves are allowed to land while in check.
type Constraints struct {
	// Pinned is the set of side-to-move squares that are pinned to their
	// own king; a pinned piece may only move along the Through ray between
	// the king and the pinning piece.
	Pinned Bitboard
	// Checkers is the set of enemy pieces currently attacking the
	// side-to-move king.
	Checkers Bitboard
	// CheckMask restricts where a non-king move may land: when not in
	// check it is all ones (no restriction); in single check it is the
	// checker's square plus the squares between it and the king (so a
	// capture or a block is legal); in double check it is empty, since
	// only king moves can answer two simultaneous checks.
	CheckMask Bitboard
}

// InCheck reports whether the side to move's king is attacked.
func (c Constraints) InCheck() bool { return c.Checkers != 0 }

// DoubleCheck reports whether two or more pieces check the king
// simultaneously, in which case only king moves are legal.
func (c Constraints) DoubleCheck() bool { return c.Checkers.Popcount() >= 2 }

const allSquares Bitboard = ^Bitboard(0)

// ComputeConstraints analyzes pos from the perspective of the side to move
// and returns the Constraints needed to generate only legal moves.
func ComputeConstraints(pos *Position) Constraints {
	us := pos.SideToMove
	them := us.Opposite()
	king := pos.King(us)
	occ := pos.Occupied()

	checkers := AttackersToBy(pos, king, occ, them)

	checkMask := allSquares
	switch checkers.Popcount() {
	case 0:
		// no restriction
	case 1:
		checker := Square(trailingZeros(uint64(checkers)))
		checkMask = checkers | Between[king][checker]
	default:
		checkMask = 0
	}

	pinned := computePinned(pos, us, king, occ)

	return Constraints{Pinned: pinned, Checkers: checkers, CheckMask: checkMask}
}

// computePinned finds every us-colored piece that, if removed, would expose
// the king to a sliding attack: for each enemy rook/bishop/queen on the same
// rank, file or diagonal as the king, if exactly one of our pieces sits
// between them, that piece is pinned.
func computePinned(pos *Position, us Color, king Square, occ Bitboard) Bitboard {
	them := us.Opposite()
	var pinned Bitboard

	potentialRook := (pos.Pieces[Rook] | pos.Pieces[Queen]) & pos.Colors[them] & RookAttacks(king, 0)
	potentialBishop := (pos.Pieces[Bishop] | pos.Pieces[Queen]) & pos.Colors[them] & BishopAttacks(king, 0)

	for sliders := potentialRook | potentialBishop; sliders != 0; {
		sq := sliders.Pop()
		between := Between[king][sq] & occ
		if between != 0 && between&(between-1) == 0 && between&pos.Colors[us] != 0 {
			pinned |= between
		}
	}
	return pinned
}
