package engine

import (
	"os"

	logging "github.com/op/go-logging"
)

// diag is the engine-internal diagnostics logger: magic-table self-check
// failures, FEN parse errors surfaced before the UCI layer wraps them, and
// hash-table resize events all go through it. It is kept strictly separate
// from UCI protocol stdout output (engine/search.go's Logger interface) -
// engine/GUI communication must stay on stdout verbatim, so diagnostics are
// written to stderr instead.
var diag = logging.MustGetLogger("engine")

func init() {
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	formatted := logging.NewBackendFormatter(backend, logging.MustStringFormatter(
		`%{time:15:04:05.000} %{level:.4s} %{shortfunc} > %{message}`,
	))
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(logging.WARNING, "engine")
	logging.SetBackend(leveled)
}

// SetLogLevel changes the verbosity of the engine's diagnostics logger. The
// uci package does not expose it as a UCI option.
func SetLogLevel(level logging.Level) {
	logging.SetLevel(level, "engine")
}

// logMagicFailure reports that the self-verifying magic search
// (engine/tables.go) needed more than one attempt for a square; this is
// expected occasionally and never fatal, but worth a trace-level note.
func logMagicFailure(sq Square, attempts int) {
	diag.Debugf("magic search for square %v took %d attempts", sq, attempts)
}

// logFENError reports a FEN parse failure before the UCI layer turns it
// into an `info string` line, so it's also visible to anyone running the
// engine with diagnostics enabled.
func logFENError(fen string, err error) {
	diag.Warningf("invalid FEN %q: %v", fen, err)
}

// logHashResize reports that the transposition table was (re)allocated,
// since an unexpectedly large `setoption name Hash` value is worth seeing
// in diagnostics even though it is clamped rather than rejected.
func logHashResize(sizeMB int) {
	diag.Infof("hash table resized to %d MB", sizeMB)
}
