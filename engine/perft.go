package engine

// PerftCounters breaks a perft node count down by move category, matching
// the standard perft table columns (nodes, captures, en passant, castles,
// promotions) used to cross-check a move generator against known-good
// results.
type PerftCounters struct {
	Nodes      uint64
	Captures   uint64
	EnPassant  uint64
	Castles    uint64
	Promotions uint64
}

// Add accumulates ot into co.
func (co *PerftCounters) Add(ot PerftCounters) {
	co.Nodes += ot.Nodes
	co.Captures += ot.Captures
	co.EnPassant += ot.EnPassant
	co.Castles += ot.Castles
	co.Promotions += ot.Promotions
}

// Perft walks the legal move tree from pos to the given depth and returns
// the leaf counters, recursing via make/unmake so no allocation happens per
// node beyond the move list already living on the call stack.
func Perft(pos *Position, depth int) PerftCounters {
	if depth == 0 {
		return PerftCounters{Nodes: 1}
	}

	constraints := ComputeConstraints(pos)
	var list MoveList
	GenerateMoves(pos, constraints, &list)

	var total PerftCounters
	for i := 0; i < list.Len(); i++ {
		m := list.Move(i)
		if depth == 1 {
			if m.IsCapture() {
				total.Captures++
			}
			if m.Type() == EnPassant {
				total.EnPassant++
			}
			if m.Type() == Castle {
				total.Castles++
			}
			if m.IsPromotion() {
				total.Promotions++
			}
		}
		u := MakeMove(pos, m)
		total.Add(Perft(pos, depth-1))
		UnmakeMove(pos, m, u)
	}
	return total
}

// PerftNodes is a thin convenience wrapper around Perft for callers that
// only need the leaf count.
func PerftNodes(pos *Position, depth int) uint64 {
	return Perft(pos, depth).Nodes
}

// Divide computes Perft for each legal root move separately, the standard
// debugging aid for isolating which root branch disagrees with a known-good
// node count.
func Divide(pos *Position, depth int) map[string]uint64 {
	constraints := ComputeConstraints(pos)
	var list MoveList
	GenerateMoves(pos, constraints, &list)

	result := make(map[string]uint64, list.Len())
	for i := 0; i < list.Len(); i++ {
		m := list.Move(i)
		u := MakeMove(pos, m)
		result[m.UCI()] = PerftNodes(pos, depth-1)
		UnmakeMove(pos, m, u)
	}
	return result
}
