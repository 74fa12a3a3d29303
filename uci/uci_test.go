package uci_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corewindmill/goharbinger/uci"
)

func TestUCIHandshake(t *testing.T) {
	var buf bytes.Buffer
	u := uci.New(&buf)

	require.NoError(t, u.Execute("uci"))
	out := buf.String()
	assert.Contains(t, out, "id name goharbinger")
	assert.Contains(t, out, "uciok")
	assert.Contains(t, out, "option name Hash")
}

func TestUCIIsReady(t *testing.T) {
	var buf bytes.Buffer
	u := uci.New(&buf)
	require.NoError(t, u.Execute("isready"))
	assert.Equal(t, "readyok\n", buf.String())
}

func TestUCIPositionStartposAndMoves(t *testing.T) {
	var buf bytes.Buffer
	u := uci.New(&buf)
	require.NoError(t, u.Execute("position startpos moves e2e4 e7e5"))
}

func TestUCIPositionFEN(t *testing.T) {
	var buf bytes.Buffer
	u := uci.New(&buf)
	require.NoError(t, u.Execute("position fen rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR b KQkq - 0 1"))
}

func TestUCIPositionIllegalMoveReturnsError(t *testing.T) {
	var buf bytes.Buffer
	u := uci.New(&buf)
	err := u.Execute("position startpos moves e2e5")
	assert.Error(t, err)
}

func TestUCIGoDepthEmitsBestmove(t *testing.T) {
	var buf bytes.Buffer
	u := uci.New(&buf)
	require.NoError(t, u.Execute("position startpos"))
	require.NoError(t, u.Execute("go depth 2"))

	out := buf.String()
	assert.Contains(t, out, "bestmove ")
	assert.Contains(t, out, "info depth")
}

func TestUCISetOptionHash(t *testing.T) {
	var buf bytes.Buffer
	u := uci.New(&buf)
	require.NoError(t, u.Execute("setoption name Hash value 16"))
	require.NoError(t, u.Execute("position startpos"))
	require.NoError(t, u.Execute("go depth 1"))
	assert.Contains(t, buf.String(), "bestmove ")
}

func TestUCIQuitReturnsErrQuit(t *testing.T) {
	var buf bytes.Buffer
	u := uci.New(&buf)
	err := u.Execute("quit")
	assert.ErrorIs(t, err, uci.ErrQuit)
}

func TestUCIRunStopsAtQuit(t *testing.T) {
	var out bytes.Buffer
	u := uci.New(&out)
	in := strings.NewReader("isready\nquit\nisready\n")
	u.Run(in)
	assert.Equal(t, 1, strings.Count(out.String(), "readyok"))
}
