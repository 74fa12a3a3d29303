package engine

// RepetitionTable is a ply-indexed stack of Zobrist keys, used to detect
// three-fold repetition. Searcher.Play seeds it with the keys of earlier
// game positions (Searcher.History) and the root; it is not trimmed at
// irreversible moves. The fifty-move rule is checked separately, from the
// halfmove clock. Search pushes a key before descending into a move and
// pops it on the way back out, so the table always reflects exactly the
// seeded game history plus the path from the root to the current node.
type RepetitionTable struct {
	keys []uint64
}

// NewRepetitionTable returns an empty table.
func NewRepetitionTable() *RepetitionTable {
	return &RepetitionTable{keys: make([]uint64, 0, 128)}
}

// Push records key as having occurred at the current ply.
func (rt *RepetitionTable) Push(key uint64) {
	rt.keys = append(rt.keys, key)
}

// Pop removes the most recently pushed key.
func (rt *RepetitionTable) Pop() {
	rt.keys = rt.keys[:len(rt.keys)-1]
}

// Reset clears the table; Searcher.Play calls it at the start of every
// search.
func (rt *RepetitionTable) Reset() {
	rt.keys = rt.keys[:0]
}

// Count returns how many times key occurs in the table, including the
// current occurrence if it was already pushed.
func (rt *RepetitionTable) Count(key uint64) int {
	n := 0
	for _, k := range rt.keys {
		if k == key {
			n++
		}
	}
	return n
}
