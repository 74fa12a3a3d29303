package engine

import "math"

const (
	checkExtension      = 1
	nullMoveMinDepth    = 3
	lmrMinDepth         = 3
	frontierMaxDepth    = 7
	aspirationMinDepth  = 8
	initialAspiration   = 25
	maxAspirationDelta  = 1000
	checkpointNodeStep  = 2048
	rfpMarginPerDepth   = 85
	futilityMarginBase  = 150
	futilityMarginDepth = 60
)

// Stats reports progress for one completed (or in-progress) iterative
// deepening depth, consumed by the UCI layer to print `info` lines.
type Stats struct {
	Depth    int
	SelDepth int
	Nodes    uint64
	Score    int32
	PV       []Move
}

// Logger receives search progress. UCI wraps this to emit `info` lines; the
// engine-internal diagnostics logger (enginelog.go) is a separate thing
// entirely and never implements this interface, since protocol output and
// diagnostics must never share a stream.
type Logger interface {
	PrintPV(Stats)
}

// NullLogger discards all search progress, used when running perft or
// tests that don't care about intermediate output.
type NullLogger struct{}

func (NullLogger) PrintPV(Stats) {}

// Searcher holds everything one search thread needs: its own position,
// move-ordering state and node counter, plus references to state shared
// across Lazy-SMP workers (the transposition table, the stop flag carried
// inside TimeControl). Each worker in engine/lazysmp.go owns one Searcher.
type Searcher struct {
	Position *Position
	TT       *HashTable
	Eval     Evaluator
	Log      Logger

	ordering   *OrderingContext
	repetition *RepetitionTable
	tc         *TimeControl

	// History carries the Zobrist keys of every position reached earlier in
	// the actual game (seeded by the UCI layer as it replays `position ...
	// moves ...`), so a three-fold repetition spanning moves played before
	// this search started is detected exactly like one occurring in-tree.
	// Play seeds the repetition table from this slice before pushing the
	// search root.
	History []uint64

	nodes    uint64
	selDepth int
	stopped  bool
	checkAt  uint64

	// helperJitter is nonzero only for non-master Lazy-SMP workers
	// (engine/lazysmp.go); it perturbs the aspiration window seed so a
	// helper's search tree diverges from the master's, per the
	// concurrency model's "divergence is desirable" guidance.
	helperJitter int32

	// aspirationWindow overrides initialAspiration when nonzero, set from
	// engine.Config via LazySMP so a loaded TOML file's aspiration_window
	// actually reaches the search driver.
	aspirationWindow int32
	// contempt biases the draw score returned by isDraw, from the side to
	// move's perspective, set from engine.Config via LazySMP.
	contempt int32

	pvTable [MaxPly + 1][MaxPly + 1]Move
	pvLen   [MaxPly + 1]int
}

// NewSearcher returns a Searcher for pos sharing tt, using eval to score
// leaf positions. If eval is nil, MaterialEvaluator is used.
func NewSearcher(pos *Position, tt *HashTable, eval Evaluator) *Searcher {
	if eval == nil {
		eval = MaterialEvaluator{}
	}
	return &Searcher{
		Position:   pos,
		TT:         tt,
		Eval:       eval,
		Log:        NullLogger{},
		ordering:   NewOrderingContext(),
		repetition: NewRepetitionTable(),
	}
}

// SetContempt sets the draw-score bias applied whenever isDraw triggers,
// from the side to move's perspective. Used by engine.LazySMP (same
// package, direct field access) and exposed here for callers in other
// packages and tests.
func (s *Searcher) SetContempt(contempt int32) {
	s.contempt = contempt
}

// SetAspirationWindow overrides the package default aspiration half-width
// used once the search is deep enough to aspire; zero restores the default.
func (s *Searcher) SetAspirationWindow(window int32) {
	s.aspirationWindow = window
}

// Play runs iterative deepening until tc signals time is up or the maximum
// depth is reached, logging one PrintPV call per completed depth and
// returning the final principal variation (moves[0] is the best move).
func (s *Searcher) Play(tc *TimeControl) []Move {
	s.tc = tc
	s.nodes = 0
	s.checkAt = checkpointNodeStep
	s.stopped = false
	s.repetition.Reset()
	for _, key := range s.History {
		s.repetition.Push(key)
	}
	s.repetition.Push(s.Position.Zobrist)

	var pv []Move
	score := int32(0)
	for depth := 1; depth <= MaxPly; depth++ {
		if !tc.NextDepth(depth) {
			break
		}
		score = s.searchAspiration(depth, score)
		if s.stopped && depth > 1 {
			break
		}
		if s.pvLen[0] > 0 {
			pv = append(pv[:0], s.pvTable[0][:s.pvLen[0]]...)
		}
		s.Log.PrintPV(Stats{Depth: depth, SelDepth: s.selDepth, Nodes: s.nodes, Score: score, PV: pv})
		if IsMateScore(score) {
			break
		}
	}
	return pv
}

// searchAspiration wraps searchRoot in a gradually widening window seeded
// from the previous depth's score, re-searching with a wider window on
// fail-low/fail-high rather than immediately falling back to the full
// (-inf, +inf) window. A fail on a mate score, or a window already widened
// past maxAspirationDelta, reopens the full window at once: mate scores
// move too fast between depths for incremental widening to catch them.
func (s *Searcher) searchAspiration(depth int, prevScore int32) int32 {
	if depth < aspirationMinDepth {
		return s.searchRoot(depth, -InfinityScore, InfinityScore)
	}

	window := int32(initialAspiration)
	if s.aspirationWindow != 0 {
		window = s.aspirationWindow
	}
	if s.helperJitter != 0 {
		window += (s.helperJitter%4 + 1) * 5
	}
	alpha := Clamp(prevScore-window, -InfinityScore, InfinityScore)
	beta := Clamp(prevScore+window, -InfinityScore, InfinityScore)
	delta := window

	for {
		score := s.searchRoot(depth, alpha, beta)
		if s.stopped {
			return score
		}
		if score > alpha && score < beta {
			return score
		}
		if IsMateScore(score) || delta > maxAspirationDelta {
			alpha, beta = -InfinityScore, InfinityScore
			continue
		}
		if score <= alpha {
			alpha = Max(alpha-delta, -InfinityScore)
		} else {
			beta = Min(beta+delta, InfinityScore)
		}
		delta += delta / 2
	}
}

func (s *Searcher) searchRoot(depth int, alpha, beta int32) int32 {
	return s.negamax(alpha, beta, depth, 0, true)
}

// pollStop is the engine's single cooperative cancellation point. It is
// checked once per fixed number of nodes rather than on every node, since
// time.Now() is comparatively expensive.
func (s *Searcher) pollStop() bool {
	if s.stopped {
		return true
	}
	s.nodes++
	s.tc.IncNodes()
	if s.nodes < s.checkAt {
		return false
	}
	s.checkAt = s.nodes + checkpointNodeStep
	if s.tc.Stopped() {
		s.stopped = true
	}
	return s.stopped
}

func (s *Searcher) isDraw() bool {
	if s.Position.HalfmoveClock >= 100 {
		return true
	}
	if s.repetition.Count(s.Position.Zobrist) >= 3 {
		return true
	}
	return false
}

// drawScore is the score assigned to a detected draw, biased by contempt
// (from the side to move's perspective) rather than a flat zero.
func (s *Searcher) drawScore() int32 {
	return s.contempt
}

// negamax is the unified alpha-beta search, fail-soft, implementing PVS,
// null-move pruning, late move reductions, futility and reverse futility
// pruning, mate-distance pruning and transposition table cutoffs. ply is
// the distance from the root, used for mate scoring and killer lookup.
// allowNull is false directly below a null move, so two consecutive passes
// can never occur.
func (s *Searcher) negamax(alpha, beta int32, depth, ply int, allowNull bool) int32 {
	if s.pollStop() {
		return alpha
	}
	if ply >= MaxPly {
		return s.Eval.Evaluate(s.Position)
	}
	s.pvLen[ply] = 0
	pvNode := beta-alpha > 1
	if pvNode && ply > s.selDepth {
		s.selDepth = ply
	}

	if ply > 0 {
		if s.isDraw() {
			return s.drawScore()
		}
		// Mate distance pruning: a shorter mate found higher in the tree
		// already bounds this node tighter than anything found below.
		alpha = Max(alpha, -MateScore+int32(ply))
		beta = Min(beta, MateScore-int32(ply))
		if alpha >= beta {
			return alpha
		}
	}

	pos := s.Position
	constraints := ComputeConstraints(pos)

	var ttMove Move
	if entry, ok := s.TT.Probe(pos.Zobrist); ok {
		ttMove = entry.Move
		if int(entry.Depth) >= depth && ply > 0 {
			score := adjustMateScoreFromTT(entry.Score, ply)
			switch entry.Bound {
			case BoundExact:
				return score
			case BoundLower:
				if score >= beta {
					return score
				}
			case BoundUpper:
				if score <= alpha {
					return score
				}
			}
		}
	}

	if depth <= 0 {
		return s.quiescence(alpha, beta, ply)
	}

	inCheck := constraints.InCheck()
	staticEval := int32(0)
	haveStatic := false
	if !inCheck {
		staticEval = s.Eval.Evaluate(pos)
		haveStatic = true
	}

	// Reverse futility pruning: if the static eval already beats beta by
	// more than what depth plies of search could plausibly swing, assume
	// this node fails high without searching it.
	if !pvNode && !inCheck && depth <= frontierMaxDepth && haveStatic {
		margin := int32(depth) * rfpMarginPerDepth
		if staticEval-margin >= beta && !IsMateScore(beta) {
			return staticEval - margin
		}
	}

	// Null-move pruning: if we could pass the turn entirely and the
	// opponent still can't beat beta, our position is so good a real move
	// will do at least as well. Guarded against zugzwang by requiring
	// non-pawn material and a minimum depth.
	if allowNull && !pvNode && !inCheck && depth >= nullMoveMinDepth && haveStatic && staticEval >= beta &&
		pos.HasNonPawnMaterial(pos.SideToMove) && !IsMateScore(beta) {
		reduction := 2
		if depth >= 7 {
			reduction = 3
		}
		u := MakeNullMove(pos)
		s.repetition.Push(pos.Zobrist)
		score := -s.negamax(-beta, -beta+1, depth-1-reduction, ply+1, false)
		s.repetition.Pop()
		UnmakeNullMove(pos, u)
		if s.stopped {
			return alpha
		}
		if score >= beta {
			return score
		}
	}

	var list MoveList
	GenerateMoves(pos, constraints, &list)
	if list.Len() == 0 {
		if inCheck {
			return -MateScore + int32(ply)
		}
		return s.drawScore()
	}

	var ordered OrderedMoves
	ordered.Fill(pos, &list, s.ordering, ttMove, ply)

	alphaOrig := alpha
	bestMove := NullMove
	bestScore := -InfinityScore
	moveIndex := 0
	us := pos.SideToMove

	for ordered.Remaining() > 0 {
		m := ordered.PickNext()
		critical := m == ttMove
		moveIndex++

		u := MakeMove(pos, m)
		s.repetition.Push(pos.Zobrist)
		givesCheck := ComputeConstraints(pos).InCheck()

		newDepth := depth - 1
		if givesCheck {
			newDepth += checkExtension
		}

		lmr := 0
		if depth >= lmrMinDepth && !inCheck && !givesCheck && !critical && m.IsQuiet() && moveIndex > 3 {
			lmr = lmrReduction(depth, moveIndex)
			if pvNode && lmr > 0 {
				lmr--
			}
			if lmr > newDepth-1 {
				lmr = newDepth - 1
			}
			if lmr < 0 {
				lmr = 0
			}
		}

		if !pvNode && !inCheck && !givesCheck && !critical && depth <= frontierMaxDepth &&
			haveStatic && m.IsQuiet() && !IsMateScore(alpha) {
			margin := futilityMarginBase + futilityMarginDepth*int32(depth)
			if staticEval+margin <= alpha {
				s.repetition.Pop()
				UnmakeMove(pos, m, u)
				if bestScore < staticEval+margin {
					bestScore = staticEval + margin
				}
				continue
			}
		}

		var score int32
		if moveIndex == 1 {
			score = -s.negamax(-beta, -alpha, newDepth, ply+1, true)
		} else {
			score = -s.negamax(-alpha-1, -alpha, newDepth-lmr, ply+1, true)
			if score > alpha && (lmr > 0 || score < beta) {
				score = -s.negamax(-beta, -alpha, newDepth, ply+1, true)
			}
		}

		s.repetition.Pop()
		UnmakeMove(pos, m, u)

		if s.stopped {
			return alpha
		}

		if score > bestScore {
			bestScore = score
			bestMove = m
			if score > alpha {
				alpha = score
				s.updatePV(ply, m)
				if alpha >= beta {
					if m.IsQuiet() {
						s.ordering.RecordKiller(ply, m)
						s.ordering.RecordHistory(us, m, depth)
					}
					break
				}
			}
		}
	}

	bound := BoundExact
	if bestScore >= beta {
		bound = BoundLower
	} else if bestScore <= alphaOrig {
		bound = BoundUpper
	}
	s.TT.Store(pos.Zobrist, Entry{
		Move:  bestMove,
		Score: adjustMateScoreForTT(bestScore, ply),
		Depth: int8(depth),
		Bound: bound,
	})

	return bestScore
}

// quiescence resolves captures and promotions until the position is quiet,
// bounding the horizon effect that a fixed-depth cutoff would otherwise
// create at violent positions.
func (s *Searcher) quiescence(alpha, beta int32, ply int) int32 {
	if s.pollStop() {
		return alpha
	}
	if ply >= MaxPly {
		return s.Eval.Evaluate(s.Position)
	}
	if ply > s.selDepth {
		s.selDepth = ply
	}
	s.pvLen[ply] = 0

	pos := s.Position
	constraints := ComputeConstraints(pos)
	inCheck := constraints.InCheck()

	standPat := int32(0)
	if !inCheck {
		standPat = s.Eval.Evaluate(pos)
		if standPat >= beta {
			return standPat
		}
		if standPat > alpha {
			alpha = standPat
		}
	}

	var list MoveList
	GenerateMoves(pos, constraints, &list)
	if list.Len() == 0 {
		if inCheck {
			return -MateScore + int32(ply)
		}
		// Generation above is complete, not capture-only, so an empty list
		// out of check really is stalemate.
		return s.drawScore()
	}

	var ordered OrderedMoves
	if inCheck {
		ordered.Fill(pos, &list, s.ordering, NullMove, ply)
	} else {
		ordered.n = list.NCaptures
		for i := 0; i < list.NCaptures; i++ {
			m := list.Captures[i]
			ordered.buf[i] = scoredMove{move: m, score: s.ordering.ScoreMove(pos, m, NullMove, ply)}
		}
		// Quiet promotions are still material-changing enough to belong in
		// quiescence even though they aren't captures; movegen.go files them
		// in the quiet bucket, so they need pulling in separately here.
		for i := 0; i < list.NQuiets; i++ {
			m := list.Quiets[i]
			if !m.IsPromotion() {
				continue
			}
			ordered.buf[ordered.n] = scoredMove{move: m, score: s.ordering.ScoreMove(pos, m, NullMove, ply)}
			ordered.n++
		}
	}

	bestScore := standPat
	if inCheck {
		bestScore = -InfinityScore
	}

	for ordered.Remaining() > 0 {
		m := ordered.PickNext()

		if !inCheck && m.IsCapture() {
			// Delta pruning: a capture that cannot possibly raise alpha
			// even with a generous margin is not worth searching.
			gain := PieceValue[capturedFigure(pos, m)]
			if standPat+gain+200 <= alpha && !m.IsPromotion() {
				continue
			}
			if SEESign(pos, m) {
				continue
			}
		}

		u := MakeMove(pos, m)
		score := -s.quiescence(-beta, -alpha, ply+1)
		UnmakeMove(pos, m, u)

		if s.stopped {
			return alpha
		}
		if score > bestScore {
			bestScore = score
			if score > alpha {
				alpha = score
				s.updatePV(ply, m)
				if alpha >= beta {
					break
				}
			}
		}
	}

	return bestScore
}

func capturedFigure(pos *Position, m Move) Figure {
	if m.Type() == EnPassant {
		return Pawn
	}
	return pos.Board[m.To()].Kind
}

// lmrReduction computes the logarithmic late-move reduction
// R(d,m) = floor(0.85 + ln(d)*ln(m)/2.25), clamped so it is never negative.
// It is not capped against the depth here; the caller caps it against
// newDepth-1.
func lmrReduction(depth, moveIndex int) int {
	r := int(math.Floor(0.85 + math.Log(float64(depth))*math.Log(float64(moveIndex))/2.25))
	if r < 0 {
		return 0
	}
	return r
}

func (s *Searcher) updatePV(ply int, m Move) {
	s.pvTable[ply][0] = m
	copy(s.pvTable[ply][1:], s.pvTable[ply+1][:s.pvLen[ply+1]])
	s.pvLen[ply] = s.pvLen[ply+1] + 1
}

// adjustMateScoreForTT converts a from-here mate score (relative to ply)
// into a from-root-independent score suitable for storage, so that the
// same stored value is correct no matter which ply later probes it.
func adjustMateScoreForTT(score int32, ply int) int32 {
	if score >= MateScore-MaxPly {
		return score + int32(ply)
	}
	if score <= -MateScore+MaxPly {
		return score - int32(ply)
	}
	return score
}

// adjustMateScoreFromTT is the inverse of adjustMateScoreForTT, applied
// when reading a stored mate score back at a given ply.
func adjustMateScoreFromTT(score int32, ply int) int32 {
	if score >= MateScore-MaxPly {
		return score - int32(ply)
	}
	if score <= -MateScore+MaxPly {
		return score + int32(ply)
	}
	return score
}
