package engine

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// LazySMP coordinates the shared-nothing-plus-shared-TT parallel search
// described by the concurrency model: each worker owns its own Position
// clone, its own OrderingContext (killers/history) and its own node
// counter, and all workers read and write one shared HashTable through its
// lock-free Probe/Store. The reported best move always comes from the
// master worker (index 0); the other workers exist only to diversify TT
// writes and help the master find cutoffs sooner.
type LazySMP struct {
	TT      *HashTable
	Eval    Evaluator
	Threads int

	// AspirationWindow overrides the package default aspiration half-width
	// for every worker when nonzero, set from engine.Config so a loaded
	// TOML file's aspiration_window actually reaches the search.
	AspirationWindow int32
	// Contempt biases the draw score every worker returns, set from
	// engine.Config.
	Contempt int32
}

// NewLazySMP returns a worker pool of the given thread count sharing tt. A
// threads value below 1 is clamped to 1. If eval is nil, MaterialEvaluator
// is used.
func NewLazySMP(tt *HashTable, eval Evaluator, threads int) *LazySMP {
	if eval == nil {
		eval = MaterialEvaluator{}
	}
	return &LazySMP{TT: tt, Eval: eval, Threads: Max(threads, 1)}
}

// Result is the outcome of one worker's iterative deepening run.
type Result struct {
	PV []Move
}

// Search runs Threads workers against independent clones of root until tc
// signals time is up, and returns the master worker's principal variation.
// tc is shared by all workers, so any worker reaching its node-count or
// time checkpoint sets the one cooperative stop flag every other worker
// polls too. history carries the Zobrist keys of positions reached earlier
// in the game (before root), seeded into every worker's repetition table so
// a three-fold repetition spanning prior moves is detected the same way an
// in-tree one is.
func (p *LazySMP) Search(ctx context.Context, root *Position, tc *TimeControl, log Logger, history []uint64) []Move {
	p.TT.NewGeneration()

	if p.Threads == 1 {
		s := NewSearcher(clonePosition(root), p.TT, p.Eval)
		s.History = history
		s.SetAspirationWindow(p.AspirationWindow)
		s.SetContempt(p.Contempt)
		if log != nil {
			s.Log = log
		}
		return s.Play(tc)
	}

	results := make([][]Move, p.Threads)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < p.Threads; i++ {
		i := i
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			s := NewSearcher(clonePosition(root), p.TT, p.Eval)
			s.History = history
			s.aspirationWindow = p.AspirationWindow
			s.contempt = p.Contempt
			if i == 0 && log != nil {
				s.Log = log
			}
			// Helper workers jitter their aspiration seed by worker index so
			// their search trees diverge from the master's instead of
			// retracing the same cutoffs; the master (i==0) searches
			// unperturbed since its PV is the one reported.
			s.helperJitter = int32(i)
			results[i] = s.Play(tc)
			return nil
		})
	}
	// Errors from worker goroutines are not surfaced: search is pure
	// computation; the only possible "failure" is cooperative time-out, which
	// Play already handles by returning the last completed depth's PV.
	_ = g.Wait()

	return results[0]
}

// clonePosition returns a deep copy of pos so each Lazy-SMP worker can
// mutate its own position independently via make/unmake.
func clonePosition(pos *Position) *Position {
	clone := *pos
	return &clone
}
