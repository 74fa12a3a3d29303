package engine

// seeValue gives each figure's trade value for exchange evaluation, the
// same material scale as PieceValue; a king is given a value higher than
// any realistic gain so that capturing into a square defended only by the
// king is always correctly scored.
var seeValue = [FigureCount]int32{100, 300, 300, 500, 900, 20000}

// SEE returns the static exchange evaluation of m: the net material change,
// in centipawns from the mover's perspective, if both sides trade off every
// attacker and defender of m's destination square in least-valuable-first
// order. pos is the position before m is played.
func SEE(pos *Position, m Move) int32 {
	sq := m.To()
	us := pos.SideToMove
	moving := pos.Board[m.From()]

	occ := pos.Occupied()
	occ &^= m.From().Bitboard()

	var gain [32]int32
	depth := 0

	captured := NoFigure
	if m.Type() == EnPassant {
		capSq := Square(int(sq) - 8)
		if us == Black {
			capSq = Square(int(sq) + 8)
		}
		captured = pos.Board[capSq].Kind
		occ &^= capSq.Bitboard()
	} else if pos.Board[sq].Kind != NoFigure {
		captured = pos.Board[sq].Kind
	}
	gain[depth] = seeValue[captured]

	attackerFigure := moving.Kind
	if m.IsPromotion() {
		attackerFigure = m.PromotionFigure()
		gain[depth] += seeValue[m.PromotionFigure()] - seeValue[Pawn]
	}

	occ |= sq.Bitboard()
	side := us.Opposite()

	for {
		attackers := AttackersToBy(pos, sq, occ, side) & occ
		if attackers == 0 {
			break
		}
		from, figure, ok := leastValuableAttacker(pos, attackers, side)
		if !ok {
			break
		}

		depth++
		gain[depth] = seeValue[attackerFigure] - gain[depth-1]
		if Max(-gain[depth-1], gain[depth]) < 0 {
			// Further captures cannot improve either side's result once the
			// running exchange already favors the side to move; stop early.
			break
		}

		occ &^= from.Bitboard()
		attackerFigure = figure
		side = side.Opposite()

		if depth >= len(gain)-1 {
			break
		}
	}

	for depth > 0 {
		depth--
		gain[depth] = -Max(-gain[depth], gain[depth+1])
	}
	return gain[0]
}

// SEESign reports whether SEE(pos, m) is negative, without computing the
// exact value, for the common fast path where the moving piece is no more
// valuable than what it captures (always non-negative in that case).
func SEESign(pos *Position, m Move) bool {
	moving := pos.Board[m.From()].Kind
	captured := pos.Board[m.To()].Kind
	if m.Type() == EnPassant {
		captured = Pawn
	}
	if captured != NoFigure && seeValue[moving] <= seeValue[captured] {
		return false
	}
	return SEE(pos, m) < 0
}

// leastValuableAttacker picks the cheapest figure among attackers belonging
// to side, returning its square and figure kind.
func leastValuableAttacker(pos *Position, attackers Bitboard, side Color) (Square, Figure, bool) {
	for f := Pawn; f <= King; f++ {
		bb := attackers & pos.ByPiece(side, f)
		if bb != 0 {
			return Square(trailingZeros(uint64(bb))), f, true
		}
	}
	return NoSquare, NoFigure, false
}
