// Package uci implements the UCI protocol described at
// http://wbec-ridderkerk.nl/html/UCIProtocol.html. It is a thin collaborator
// around package engine: it contains no search logic of its own, only
// command parsing, option storage and `info`/`bestmove` formatting.
package uci

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/corewindmill/goharbinger/engine"
)

// ErrQuit is returned by Execute for the "quit" command; the caller's
// read loop treats it as a request to exit cleanly rather than an error.
var ErrQuit = errors.New("uci: quit")

const (
	name   = "goharbinger"
	author = "goharbinger contributors"
)

// UCI holds one engine session's mutable state: the current position, the
// shared transposition table, engine configuration and the in-flight
// search's time control, if any.
type UCI struct {
	pos     *engine.Position
	tt      *engine.HashTable
	cfg     engine.Config
	out     io.Writer
	tc      *engine.TimeControl
	logger  *infoLogger
	history []uint64
}

// New returns a UCI session with default configuration and the standard
// starting position, writing protocol output to out (ordinarily os.Stdout).
func New(out io.Writer) *UCI {
	return NewWithConfig(out, engine.DefaultConfig())
}

// NewWithConfig is New but seeded from cfg (ordinarily loaded from an
// optional TOML file by the cmd/goharbinger front-end) instead of
// engine.DefaultConfig; UCI `setoption` commands still override it
// afterwards at runtime.
func NewWithConfig(out io.Writer, cfg engine.Config) *UCI {
	tt := engine.NewHashTable(cfg.HashSizeMB)
	return &UCI{
		pos:    engine.StartingPosition(),
		tt:     tt,
		cfg:    cfg,
		out:    out,
		logger: &infoLogger{out: out, tt: tt},
	}
}

// Run reads UCI commands from in, one per line, executing each until
// "quit" is received or in reaches EOF.
func (u *UCI) Run(in io.Reader) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		if err := u.Execute(scanner.Text()); err != nil {
			if errors.Is(err, ErrQuit) {
				return
			}
			fmt.Fprintf(u.out, "info string %v\n", err)
		}
	}
}

var reCommand = regexp.MustCompile(`^\s*(\S+)`)

// Execute parses and runs a single UCI command line. Unknown commands are
// ignored silently per UCI convention; a recognized command that fails to
// parse its arguments returns an error describing the problem, which Run
// reports via `info string` while keeping the prior engine state intact.
func (u *UCI) Execute(line string) error {
	m := reCommand.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	rest := strings.TrimSpace(line[len(m[0]):])

	switch m[1] {
	case "uci":
		return u.cmdUCI()
	case "isready":
		fmt.Fprintln(u.out, "readyok")
		return nil
	case "ucinewgame":
		u.tt.Clear()
		u.pos = engine.StartingPosition()
		u.history = nil
		return nil
	case "position":
		return u.cmdPosition(rest)
	case "go":
		return u.cmdGo(rest)
	case "stop":
		if u.tc != nil {
			u.tc.Stop()
		}
		return nil
	case "setoption":
		return u.cmdSetOption(rest)
	case "quit":
		return ErrQuit
	default:
		// Unknown command: ignored silently per UCI convention.
		return nil
	}
}

func (u *UCI) cmdUCI() error {
	fmt.Fprintf(u.out, "id name %s\n", name)
	fmt.Fprintf(u.out, "id author %s\n", author)
	fmt.Fprintf(u.out, "option name Hash type spin default %d min %d max %d\n",
		engine.DefaultHashTableSizeMB, engine.MinHashSizeMB, engine.MaxHashSizeMB)
	fmt.Fprintf(u.out, "option name Threads type spin default 1 min %d max %d\n",
		engine.MinThreads, engine.MaxThreads)
	fmt.Fprintln(u.out, "option name Clear Hash type button")
	fmt.Fprintln(u.out, "uciok")
	return nil
}

// cmdPosition handles `position [startpos | fen <FEN>] [moves <m>...]`. On
// an illegal move partway through the moves list, it stops applying moves
// and returns an error while keeping the position through the last legal
// move, per the error-handling design.
//
// As it replays the moves list it also rebuilds u.history, the Zobrist key
// of every position the game actually passed through before the resulting
// root, so a three-fold repetition spanning those earlier moves (not just
// ones made inside the upcoming search tree) can still be detected.
func (u *UCI) cmdPosition(rest string) error {
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return fmt.Errorf("uci: position requires an argument")
	}

	var pos *engine.Position
	var err error
	i := 0
	switch fields[0] {
	case "startpos":
		pos = engine.StartingPosition()
		i = 1
	case "fen":
		i = 1
		for i < len(fields) && fields[i] != "moves" {
			i++
		}
		pos, err = engine.ParseFEN(strings.Join(fields[1:i], " "))
	default:
		return fmt.Errorf("uci: unknown position argument %q", fields[0])
	}
	if err != nil {
		return err
	}

	var history []uint64
	if i < len(fields) {
		if fields[i] != "moves" {
			return fmt.Errorf("uci: expected 'moves', got %q", fields[i])
		}
		for _, mv := range fields[i+1:] {
			m, ok := parseUCIMove(pos, mv)
			if !ok {
				// Retain the position through the last legal move rather
				// than discarding the whole command.
				u.pos = pos
				u.history = history
				return fmt.Errorf("uci: illegal move %q", mv)
			}
			history = append(history, pos.Zobrist)
			engine.MakeMove(pos, m)
		}
	}

	u.pos = pos
	u.history = history
	return nil
}

// parseUCIMove resolves long-algebraic move text against the legal moves
// of pos, since the packed Move encoding alone can't be round-tripped from
// text without knowing which move type a given from/to pair actually is.
func parseUCIMove(pos *engine.Position, text string) (engine.Move, bool) {
	if len(text) < 4 {
		return 0, false
	}
	from, err1 := engine.SquareFromString(text[0:2])
	to, err2 := engine.SquareFromString(text[2:4])
	if err1 != nil || err2 != nil {
		return 0, false
	}
	var promo byte
	if len(text) >= 5 {
		promo = text[4]
	}

	constraints := engine.ComputeConstraints(pos)
	var list engine.MoveList
	engine.GenerateMoves(pos, constraints, &list)
	for i := 0; i < list.Len(); i++ {
		m := list.Move(i)
		if m.From() != from || m.To() != to {
			continue
		}
		if !m.IsPromotion() {
			return m, true
		}
		if promotionLetter(m) == promo {
			return m, true
		}
	}
	return 0, false
}

func promotionLetter(m engine.Move) byte {
	switch m.PromotionFigure() {
	case engine.Knight:
		return 'n'
	case engine.Bishop:
		return 'b'
	case engine.Rook:
		return 'r'
	case engine.Queen:
		return 'q'
	}
	return 0
}

// cmdGo handles `go [depth N] [movetime MS] [wtime MS] [btime MS] [winc MS]
// [binc MS] [movestogo N] [infinite]`, starts the search synchronously and
// emits the final `bestmove` line. A real GUI integration would run this on
// its own goroutine so `stop` can interrupt it from Execute; this session
// runs it inline since the caller already reads commands line by line from
// a single goroutine.
func (u *UCI) cmdGo(rest string) error {
	fields := strings.Fields(rest)
	tc := engine.NewTimeControl(u.pos)
	var wtime, btime, winc, binc time.Duration
	var movetime time.Duration
	fixedDepth := 0

	for i := 0; i < len(fields); i++ {
		key := fields[i]
		switch key {
		case "infinite":
			tc.Infinite = true
			continue
		case "depth", "movetime", "wtime", "btime", "winc", "binc", "movestogo":
			i++
			if i >= len(fields) {
				return fmt.Errorf("uci: missing value after %q", key)
			}
		default:
			// Unrecognized token (e.g. an unsupported go subcommand):
			// skipped silently.
			continue
		}
		switch key {
		case "depth":
			d, err := strconv.Atoi(fields[i])
			if err != nil {
				return err
			}
			fixedDepth = d
		case "movetime":
			ms, err := strconv.Atoi(fields[i])
			if err != nil {
				return err
			}
			movetime = time.Duration(ms) * time.Millisecond
		case "wtime":
			ms, _ := strconv.Atoi(fields[i])
			wtime = time.Duration(ms) * time.Millisecond
		case "btime":
			ms, _ := strconv.Atoi(fields[i])
			btime = time.Duration(ms) * time.Millisecond
		case "winc":
			ms, _ := strconv.Atoi(fields[i])
			winc = time.Duration(ms) * time.Millisecond
		case "binc":
			ms, _ := strconv.Atoi(fields[i])
			binc = time.Duration(ms) * time.Millisecond
		case "movestogo":
			n, _ := strconv.Atoi(fields[i])
			tc.MovesToGo = n
		}
	}

	switch {
	case fixedDepth > 0:
		tc = engine.StartFixed(u.pos, fixedDepth, 0)
	case movetime > 0:
		tc = engine.StartFixed(u.pos, 0, movetime)
	case tc.Infinite:
		tc.Start(0, 0)
	default:
		ourTime, ourInc := wtime, winc
		if u.pos.SideToMove == engine.Black {
			ourTime, ourInc = btime, binc
		}
		tc.Start(ourTime, ourInc)
	}

	u.tc = tc
	smp := engine.NewLazySMP(u.tt, engine.MaterialEvaluator{}, u.cfg.Threads)
	smp.AspirationWindow = u.cfg.AspirationWindow
	smp.Contempt = u.cfg.Contempt
	u.logger.tc = tc
	pv := smp.Search(context.Background(), u.pos, tc, u.logger, u.history)

	if len(pv) == 0 {
		fmt.Fprintln(u.out, "bestmove 0000")
		return nil
	}
	fmt.Fprintf(u.out, "bestmove %s\n", pv[0].UCI())
	return nil
}

var reSetOption = regexp.MustCompile(`(?i)^name\s+(.+?)(?:\s+value\s+(.*))?$`)

// cmdSetOption handles `setoption name <id> [value <x>]`. Unknown option
// names are ignored silently (UCI convention); out-of-range numeric values
// are clamped rather than rejected, matching engine.Config's own clamp.
func (u *UCI) cmdSetOption(rest string) error {
	m := reSetOption.FindStringSubmatch(rest)
	if m == nil {
		return fmt.Errorf("uci: malformed setoption %q", rest)
	}
	optName, value := m[1], m[2]

	switch optName {
	case "Clear Hash":
		u.tt.Clear()
	case "Hash":
		mb, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		u.cfg.SetHashSizeMB(mb)
		u.tt = engine.NewHashTable(u.cfg.HashSizeMB)
		u.logger.tt = u.tt
	case "Threads":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		u.cfg.SetThreads(n)
	}
	return nil
}

// infoLogger implements engine.Logger, formatting each completed depth as
// a UCI `info` line on out.
type infoLogger struct {
	out io.Writer
	tc  *engine.TimeControl
	tt  *engine.HashTable
}

func (l *infoLogger) PrintPV(st engine.Stats) {
	elapsed := l.tc.Elapsed()
	if elapsed <= 0 {
		elapsed = time.Microsecond
	}
	nps := uint64(float64(st.Nodes) / elapsed.Seconds())

	fmt.Fprintf(l.out, "info depth %d seldepth %d ", st.Depth, st.SelDepth)
	if engine.IsMateScore(st.Score) {
		plies := engine.MateScore - abs32(st.Score)
		movesToMate := (plies + 1) / 2
		if st.Score < 0 {
			movesToMate = -movesToMate
		}
		fmt.Fprintf(l.out, "score mate %d ", movesToMate)
	} else {
		fmt.Fprintf(l.out, "score cp %d ", st.Score)
	}
	fmt.Fprintf(l.out, "nodes %d nps %d time %d hashfull %d",
		st.Nodes, nps, elapsed.Milliseconds(), l.tt.Hashfull())

	if len(st.PV) > 0 {
		fmt.Fprint(l.out, " pv")
		for _, m := range st.PV {
			fmt.Fprintf(l.out, " %s", m.UCI())
		}
	}
	fmt.Fprintln(l.out)
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
