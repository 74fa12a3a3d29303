package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corewindmill/goharbinger/engine"
)

func TestScoreMoveTTMoveOutranksEverything(t *testing.T) {
	pos := engine.StartingPosition()
	oc := engine.NewOrderingContext()
	tt := findLegalMove(t, pos, "e2e4")
	quiet := findLegalMove(t, pos, "g1f3")

	assert.Equal(t, engine.ScoreTT, oc.ScoreMove(pos, tt, tt, 0))
	assert.Less(t, oc.ScoreMove(pos, quiet, tt, 0), engine.ScoreTT)
}

func TestScoreMoveGoodCaptureOutranksQuiet(t *testing.T) {
	pos, err := engine.ParseFEN("4k3/8/8/3n4/4P3/8/8/4K3 w - - 0 1")
	require.NoError(t, err)
	oc := engine.NewOrderingContext()

	capture := findLegalMove(t, pos, "e4d5")
	quiet := findLegalMove(t, pos, "e1d1")

	assert.Greater(t, oc.ScoreMove(pos, capture, engine.NullMove, 0), oc.ScoreMove(pos, quiet, engine.NullMove, 0))
}

func TestRecordKillerPromotesNewestAndDemotesOld(t *testing.T) {
	oc := engine.NewOrderingContext()
	a := engine.NewMove(engine.RankFile(1, 0), engine.RankFile(2, 0), engine.Quiet)
	b := engine.NewMove(engine.RankFile(1, 1), engine.RankFile(2, 1), engine.Quiet)

	oc.RecordKiller(3, a)
	oc.RecordKiller(3, b)

	k1, k2 := oc.Killers(3)
	assert.Equal(t, b, k1)
	assert.Equal(t, a, k2)
}

func TestRecordKillerIgnoresCaptures(t *testing.T) {
	oc := engine.NewOrderingContext()
	capture := engine.NewMove(engine.RankFile(1, 0), engine.RankFile(2, 0), engine.Capture)
	oc.RecordKiller(1, capture)

	k1, k2 := oc.Killers(1)
	assert.Equal(t, engine.NullMove, k1)
	assert.Equal(t, engine.NullMove, k2)
}

func TestRecordHistoryAccumulatesAndClamps(t *testing.T) {
	pos := engine.StartingPosition()
	oc := engine.NewOrderingContext()
	m := findLegalMove(t, pos, "g1f3")

	for i := 0; i < 1000; i++ {
		oc.RecordHistory(engine.White, m, 10)
	}

	score := oc.ScoreMove(pos, m, engine.NullMove, 0)
	assert.Less(t, score, engine.ScoreGoodCaptureBase)
}

func TestPickNextReturnsHighestScoreFirst(t *testing.T) {
	pos, err := engine.ParseFEN("4k3/8/8/3n4/4P3/8/8/4K3 w - - 0 1")
	require.NoError(t, err)
	oc := engine.NewOrderingContext()

	var list engine.MoveList
	engine.GenerateMoves(pos, engine.ComputeConstraints(pos), &list)

	var ordered engine.OrderedMoves
	ordered.Fill(pos, &list, oc, engine.NullMove, 0)

	first := ordered.PickNext()
	assert.True(t, first.IsCapture(), "the only capture available should be picked first")

	remaining := ordered.Remaining()
	for remaining > 0 {
		remaining--
		_ = ordered.PickNext()
	}
	assert.Equal(t, 0, ordered.Remaining())
}
