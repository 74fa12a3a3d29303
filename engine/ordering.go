package engine

// Move ordering score bands, highest first. A quiet move's history score is
// clamped below ScoreGoodCaptureBase, so winning captures always go ahead of
// it; a quiet move with a large enough history score can still outrank
// promotions, killers and losing captures. Every good capture's SEE bonus is
// kept well below ScoreTT so the hash move always goes first.
const (
	ScoreTT              int32 = 1_000_000
	ScoreGoodCaptureBase int32 = 100_000
	ScorePromotion       int32 = 90_000
	ScoreKiller1         int32 = 20_000
	ScoreKiller2         int32 = 15_000
	ScoreBadCaptureBase  int32 = 5_000
)

// MaxPly bounds the killer-move table; no search path in this engine goes
// deeper than this many plies from the root.
const MaxPly = 128

// OrderingContext holds the move-ordering state that persists across a
// single search (killer moves and history scores), kept separate per
// Lazy-SMP worker so workers never contend on it.
type OrderingContext struct {
	killers [MaxPly][2]Move
	history [ColorCount][64][64]int32
}

// NewOrderingContext returns a zeroed ordering context.
func NewOrderingContext() *OrderingContext {
	return &OrderingContext{}
}

// Killers returns the two killer moves recorded for ply.
func (oc *OrderingContext) Killers(ply int) (Move, Move) {
	k := &oc.killers[ply]
	return k[0], k[1]
}

// RecordKiller saves m as the newest killer for ply, demoting the previous
// primary killer to secondary. Only quiet moves are recorded; captures and
// promotions are scored by their own bands in ScoreMove.
func (oc *OrderingContext) RecordKiller(ply int, m Move) {
	if !m.IsQuiet() {
		return
	}
	k := &oc.killers[ply]
	if k[0] == m {
		return
	}
	k[1] = k[0]
	k[0] = m
}

// RecordHistory rewards a quiet move that caused a beta cutoff, scaled by
// depth squared per the common history-heuristic formula, and clamps the
// running total so it cannot overflow across a long search.
func (oc *OrderingContext) RecordHistory(us Color, m Move, depth int) {
	if !m.IsQuiet() {
		return
	}
	bonus := int32(depth * depth)
	h := &oc.history[us][m.From()][m.To()]
	*h = Clamp(*h+bonus, -ScoreBadCaptureBase+1, ScoreGoodCaptureBase-1)
}

// ScoreMove assigns a move-ordering priority to m in pos at ply, given the
// move from the transposition table (NullMove if none).
func (oc *OrderingContext) ScoreMove(pos *Position, m Move, ttMove Move, ply int) int32 {
	if m == ttMove {
		return ScoreTT
	}
	if m.IsCapture() {
		see := SEE(pos, m)
		if see >= 0 {
			return ScoreGoodCaptureBase + see
		}
		return ScoreBadCaptureBase + see
	}
	if m.IsPromotion() {
		return ScorePromotion
	}
	k1, k2 := oc.Killers(ply)
	if m == k1 {
		return ScoreKiller1
	}
	if m == k2 {
		return ScoreKiller2
	}
	return oc.history[pos.SideToMove][m.From()][m.To()]
}

// scoredMove pairs a move with its ordering score for selection-sort ordering.
type scoredMove struct {
	move  Move
	score int32
}

// OrderedMoves scores every move in list and returns a buffer the search
// loop drains one at a time via PickNext, which is cheaper than a full sort
// when a beta cutoff ends the loop early (the common case).
type OrderedMoves struct {
	buf [256]scoredMove
	n   int
}

// Fill scores every move of list against ttMove/ply into the buffer.
func (om *OrderedMoves) Fill(pos *Position, list *MoveList, oc *OrderingContext, ttMove Move, ply int) {
	om.n = list.Len()
	for i := 0; i < om.n; i++ {
		m := list.Move(i)
		om.buf[i] = scoredMove{move: m, score: oc.ScoreMove(pos, m, ttMove, ply)}
	}
}

// Remaining reports how many moves are still unpicked.
func (om *OrderedMoves) Remaining() int { return om.n }

// PickNext selects the highest-scoring remaining move, removes it from the
// unpicked region by moving the last unpicked move into its slot, and
// returns it. This is a classic
// selection-sort "pick one at a time" rather than a full up-front sort,
// since most nodes only need the first few moves before a cutoff.
func (om *OrderedMoves) PickNext() Move {
	if om.n == 0 {
		return NullMove
	}
	best := 0
	for i := 1; i < om.n; i++ {
		if om.buf[i].score > om.buf[best].score {
			best = i
		}
	}
	m := om.buf[best].move
	om.n--
	om.buf[best] = om.buf[om.n]
	return m
}
