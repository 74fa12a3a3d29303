package engine

// MoveList collects generated moves into two fixed-capacity buckets so
// later move ordering doesn't need to re-classify captures. 128 slots per
// bucket comfortably covers the busiest legal positions.
type MoveList struct {
	Captures  [128]Move
	NCaptures int
	Quiets    [128]Move
	NQuiets   int
}

// Reset empties the list for reuse, avoiding an allocation per node.
func (l *MoveList) Reset() {
	l.NCaptures = 0
	l.NQuiets = 0
}

// AddCapture appends a capture or capture-promotion.
func (l *MoveList) AddCapture(m Move) {
	l.Captures[l.NCaptures] = m
	l.NCaptures++
}

// AddQuiet appends a quiet move, a quiet promotion, a double push or a
// castle.
func (l *MoveList) AddQuiet(m Move) {
	l.Quiets[l.NQuiets] = m
	l.NQuiets++
}

// Len returns the total number of moves collected.
func (l *MoveList) Len() int { return l.NCaptures + l.NQuiets }

// Move returns the i-th move in capture-then-quiet order.
func (l *MoveList) Move(i int) Move {
	if i < l.NCaptures {
		return l.Captures[i]
	}
	return l.Quiets[i-l.NCaptures]
}

var promotionCaptureTypes = [4]MoveType{CapturePromotionN, CapturePromotionB, CapturePromotionR, CapturePromotionQ}
var promotionQuietTypes = [4]MoveType{PromotionN, PromotionB, PromotionR, PromotionQ}

// GenerateMoves appends every legal move in pos to list, given constraints
// already computed by ComputeConstraints for pos. list is not reset by this
// call; callers that want a fresh list should call list.Reset() first.
func GenerateMoves(pos *Position, c Constraints, list *MoveList) {
	us := pos.SideToMove
	king := pos.King(us)

	genKingMoves(pos, us, king, list)
	if c.DoubleCheck() {
		return
	}

	genPawnMoves(pos, us, c, list)
	genPieceMoves(pos, us, Knight, c, list, func(sq Square, _ Bitboard) Bitboard { return KnightAttacks[sq] })
	genPieceMoves(pos, us, Bishop, c, list, BishopAttacks)
	genPieceMoves(pos, us, Rook, c, list, RookAttacks)
	genPieceMoves(pos, us, Queen, c, list, QueenAttacks)
	if !c.InCheck() {
		genCastles(pos, us, list)
	}
}

func legalDestinationMask(pos *Position, from Square, us Color, c Constraints) Bitboard {
	mask := ^pos.Colors[us] & c.CheckMask
	if c.Pinned.Has(from) {
		mask &= Through[pos.King(us)][from]
	}
	return mask
}

func genPieceMoves(pos *Position, us Color, f Figure, c Constraints, list *MoveList, attacksFn func(Square, Bitboard) Bitboard) {
	occ := pos.Occupied()
	for pieces := pos.ByPiece(us, f); pieces != 0; {
		from := pieces.Pop()
		targets := attacksFn(from, occ) & legalDestinationMask(pos, from, us, c)
		emitMoves(pos, us, from, targets, list)
	}
}

func emitMoves(pos *Position, us Color, from Square, targets Bitboard, list *MoveList) {
	them := us.Opposite()
	for targets != 0 {
		to := targets.Pop()
		if pos.Colors[them].Has(to) {
			list.AddCapture(NewMove(from, to, Capture))
		} else {
			list.AddQuiet(NewMove(from, to, Quiet))
		}
	}
}

func genKingMoves(pos *Position, us Color, king Square, list *MoveList) {
	them := us.Opposite()
	occWithoutKing := pos.Occupied() &^ king.Bitboard()
	targets := KingAttacks[king] &^ pos.Colors[us]
	for targets != 0 {
		to := targets.Pop()
		if IsSquareAttacked(pos, to, them, occWithoutKing) {
			continue
		}
		if pos.Colors[them].Has(to) {
			list.AddCapture(NewMove(king, to, Capture))
		} else {
			list.AddQuiet(NewMove(king, to, Quiet))
		}
	}
}

func genPawnMoves(pos *Position, us Color, c Constraints, list *MoveList) {
	them := us.Opposite()
	occ := pos.Occupied()
	king := pos.King(us)

	forward := 8
	startRank, promoRank := 1, 7
	if us == Black {
		forward = -8
		startRank, promoRank = 6, 0
	}

	for pawns := pos.ByPiece(us, Pawn); pawns != 0; {
		from := pawns.Pop()
		pinMask := allSquares
		if c.Pinned.Has(from) {
			pinMask = Through[king][from]
		}

		one := Square(int(from) + forward)
		if int(one) >= 0 && int(one) < 64 && !occ.Has(one) {
			if c.CheckMask.Has(one) && pinMask.Has(one) {
				addPawnAdvance(from, one, promoRank, list, false)
			}
			if from.Rank() == startRank {
				two := Square(int(from) + 2*forward)
				if !occ.Has(two) && c.CheckMask.Has(two) && pinMask.Has(two) {
					list.AddQuiet(NewMove(from, two, DoublePush))
				}
			}
		}

		for targets := PawnAttacks[us][from] & pos.Colors[them]; targets != 0; {
			to := targets.Pop()
			if !c.CheckMask.Has(to) || !pinMask.Has(to) {
				continue
			}
			addPawnAdvance(from, to, promoRank, list, true)
		}

		if pos.EnPassant != NoSquare {
			if PawnAttacks[us][from].Has(pos.EnPassant) {
				if epLegal(pos, us, from, pos.EnPassant, king, c, pinMask) {
					list.AddCapture(NewMove(from, pos.EnPassant, EnPassant))
				}
			}
		}
	}
}

func addPawnAdvance(from, to Square, promoRank int, list *MoveList, capture bool) {
	if to.Rank() == promoRank {
		types := promotionQuietTypes
		if capture {
			types = promotionCaptureTypes
		}
		for _, t := range types {
			if capture {
				list.AddCapture(NewMove(from, to, t))
			} else {
				list.AddQuiet(NewMove(from, to, t))
			}
		}
		return
	}
	if capture {
		list.AddCapture(NewMove(from, to, Capture))
	} else {
		list.AddQuiet(NewMove(from, to, Quiet))
	}
}

// epLegal handles the rare discovered-check case where capturing en passant
// removes both the moving pawn and the captured pawn from the same rank as
// the king, exposing it to a rook or queen that neither CheckMask nor the
// ordinary pin mask accounts for. It is checked by simulating the capture's
// occupancy change directly.
func epLegal(pos *Position, us Color, from, epSq, king Square, c Constraints, pinMask Bitboard) bool {
	them := us.Opposite()
	capturedSq := Square(int(epSq) - 8)
	if us == Black {
		capturedSq = Square(int(epSq) + 8)
	}

	if c.InCheck() {
		if !c.Checkers.Has(capturedSq) && !c.CheckMask.Has(epSq) {
			return false
		}
	}
	if !pinMask.Has(epSq) {
		return false
	}

	occ := pos.Occupied()
	occ &^= from.Bitboard()
	occ &^= capturedSq.Bitboard()
	occ |= epSq.Bitboard()

	attackers := RookAttacks(king, occ) & (pos.Pieces[Rook] | pos.Pieces[Queen]) & pos.Colors[them]
	attackers |= BishopAttacks(king, occ) & (pos.Pieces[Bishop] | pos.Pieces[Queen]) & pos.Colors[them]
	return attackers == 0
}

// castleTravel describes one side's castling move: the rights bit that
// gates it, where the king starts and ends, which squares must be empty,
// and which squares (including the start and end) must not be attacked.
type castleTravel struct {
	right  CastleRights
	king   Square
	kingTo Square
	empty  Bitboard
	safe   [3]Square
}

var castleKingTravel [4]castleTravel

func init() {
	e1, g1, c1, d1, f1 := RankFile(0, 4), RankFile(0, 6), RankFile(0, 2), RankFile(0, 3), RankFile(0, 5)
	e8, g8, c8, d8, f8 := RankFile(7, 4), RankFile(7, 6), RankFile(7, 2), RankFile(7, 3), RankFile(7, 5)
	b1, b8 := RankFile(0, 1), RankFile(7, 1)

	castleKingTravel[0] = castleTravel{right: WhiteOO, king: e1, kingTo: g1, empty: f1.Bitboard() | g1.Bitboard(), safe: [3]Square{e1, f1, g1}}
	castleKingTravel[1] = castleTravel{right: WhiteOOO, king: e1, kingTo: c1, empty: d1.Bitboard() | c1.Bitboard() | b1.Bitboard(), safe: [3]Square{e1, d1, c1}}
	castleKingTravel[2] = castleTravel{right: BlackOO, king: e8, kingTo: g8, empty: f8.Bitboard() | g8.Bitboard(), safe: [3]Square{e8, f8, g8}}
	castleKingTravel[3] = castleTravel{right: BlackOOO, king: e8, kingTo: c8, empty: d8.Bitboard() | c8.Bitboard() | b8.Bitboard(), safe: [3]Square{e8, d8, c8}}
}

func genCastles(pos *Position, us Color, list *MoveList) {
	them := us.Opposite()
	occ := pos.Occupied()

	lo, hi := 0, 2
	if us == Black {
		lo, hi = 2, 4
	}
	for i := lo; i < hi; i++ {
		cr := castleKingTravel[i]
		if pos.CastleRights&cr.right == 0 {
			continue
		}
		if occ&cr.empty != 0 {
			continue
		}
		blocked := false
		for _, sq := range cr.safe {
			if IsSquareAttacked(pos, sq, them, occ) {
				blocked = true
				break
			}
		}
		if blocked {
			continue
		}
		list.AddQuiet(NewMove(cr.king, cr.kingTo, Castle))
	}
}
