package engine

// Undo carries everything MakeMove destroys that UnmakeMove cannot recover
// by inspecting the move alone: what was captured, the prior castling
// rights, the prior en passant target, the prior halfmove clock and the
// prior Zobrist hash. UnmakeMove restores the hash directly from this
// record rather than re-deriving it incrementally, so a bug in the
// incremental update can never compound across a make/unmake pair.
type Undo struct {
	Captured      PieceOnSquare
	CapturedAt    Square
	CastleRights  CastleRights
	EnPassant     Square
	HalfmoveClock int
	Zobrist       uint64
}

// MakeMove applies m to pos and returns an Undo record that UnmakeMove can
// later use to restore pos to its exact prior state. m is assumed legal;
// MakeMove does not re-validate it.
func MakeMove(pos *Position, m Move) Undo {
	u := Undo{
		CastleRights:  pos.CastleRights,
		EnPassant:     pos.EnPassant,
		HalfmoveClock: pos.HalfmoveClock,
		Zobrist:       pos.Zobrist,
		CapturedAt:    NoSquare,
	}

	us := pos.SideToMove
	from, to, mt := m.From(), m.To(), m.Type()
	moving := pos.Board[from]

	if pos.EnPassant != NoSquare {
		pos.Zobrist ^= ZobristEnPassant[pos.EnPassant.File()]
	}
	pos.EnPassant = NoSquare

	captureSq := to
	if mt == EnPassant {
		captureSq = Square(int(to) - 8)
		if us == Black {
			captureSq = Square(int(to) + 8)
		}
	}
	if m.IsCapture() {
		u.Captured = pos.Board[captureSq]
		u.CapturedAt = captureSq
		pos.Remove(captureSq, u.Captured)
	}

	pos.Remove(from, moving)
	if m.IsPromotion() {
		pos.Put(to, PieceOnSquare{Kind: m.PromotionFigure(), Color: us})
	} else {
		pos.Put(to, moving)
	}

	if mt == Castle {
		rookFrom, rookTo := castleRookSquares(to)
		rook := pos.Board[rookFrom]
		pos.Remove(rookFrom, rook)
		pos.Put(rookTo, rook)
	}

	if mt == DoublePush {
		ep := Square((int(from) + int(to)) / 2)
		pos.EnPassant = ep
		pos.Zobrist ^= ZobristEnPassant[ep.File()]
	}

	newRights := pos.CastleRights &^ lostCastleRights[from] &^ lostCastleRights[to]
	if newRights != pos.CastleRights {
		pos.Zobrist ^= ZobristCastle[pos.CastleRights]
		pos.Zobrist ^= ZobristCastle[newRights]
		pos.CastleRights = newRights
	}

	if moving.Kind == Pawn || m.IsCapture() {
		pos.HalfmoveClock = 0
	} else {
		pos.HalfmoveClock++
	}
	if us == Black {
		pos.FullmoveNumber++
	}

	pos.SideToMove = us.Opposite()
	pos.Zobrist ^= ZobristSideToMove

	return u
}

// UnmakeMove reverses the effect of MakeMove(pos, m), restoring pos exactly
// to the state it had immediately before that call. u must be the Undo
// value MakeMove returned for this same m.
func UnmakeMove(pos *Position, m Move, u Undo) {
	us := pos.SideToMove.Opposite()
	from, to, mt := m.From(), m.To(), m.Type()

	moved := pos.Board[to]
	pos.Remove(to, moved)
	if m.IsPromotion() {
		pos.Put(from, PieceOnSquare{Kind: Pawn, Color: us})
	} else {
		pos.Put(from, moved)
	}

	if mt == Castle {
		rookFrom, rookTo := castleRookSquares(to)
		rook := pos.Board[rookTo]
		pos.Remove(rookTo, rook)
		pos.Put(rookFrom, rook)
	}

	if u.CapturedAt != NoSquare {
		pos.Put(u.CapturedAt, u.Captured)
	}

	pos.SideToMove = us
	pos.CastleRights = u.CastleRights
	pos.EnPassant = u.EnPassant
	pos.HalfmoveClock = u.HalfmoveClock
	if us == Black {
		pos.FullmoveNumber--
	}
	pos.Zobrist = u.Zobrist
}

// castleRookSquares returns the rook's start and end squares for the
// castling move whose king lands on kingTo.
func castleRookSquares(kingTo Square) (from, to Square) {
	switch kingTo {
	case RankFile(0, 6):
		return RankFile(0, 7), RankFile(0, 5)
	case RankFile(0, 2):
		return RankFile(0, 0), RankFile(0, 3)
	case RankFile(7, 6):
		return RankFile(7, 7), RankFile(7, 5)
	case RankFile(7, 2):
		return RankFile(7, 0), RankFile(7, 3)
	}
	panic("engine: invalid castling king destination")
}

// MakeNullMove toggles the side to move without moving any piece, used by
// null-move pruning. It returns the minimal Undo needed to reverse it.
func MakeNullMove(pos *Position) Undo {
	u := Undo{
		CastleRights:  pos.CastleRights,
		EnPassant:     pos.EnPassant,
		HalfmoveClock: pos.HalfmoveClock,
		Zobrist:       pos.Zobrist,
		CapturedAt:    NoSquare,
	}
	if pos.EnPassant != NoSquare {
		pos.Zobrist ^= ZobristEnPassant[pos.EnPassant.File()]
		pos.EnPassant = NoSquare
	}
	pos.SideToMove = pos.SideToMove.Opposite()
	pos.Zobrist ^= ZobristSideToMove
	return u
}

// UnmakeNullMove reverses MakeNullMove.
func UnmakeNullMove(pos *Position, u Undo) {
	pos.SideToMove = pos.SideToMove.Opposite()
	pos.EnPassant = u.EnPassant
	pos.Zobrist = u.Zobrist
}
