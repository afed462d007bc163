package vecturakit

import (
	"io"

	"github.com/liliang-cn/vecturakit/internal/corelog"
)

// Logger is the logging interface a DB accepts via OpenWithLogger. Use
// NewLogger/NewStdLogger to build one, or supply your own.
type Logger = corelog.Logger

// Log level constants re-exported for callers building a Logger.
const (
	LevelDebug = corelog.LevelDebug
	LevelInfo  = corelog.LevelInfo
	LevelWarn  = corelog.LevelWarn
	LevelError = corelog.LevelError
)

// NewLogger creates a Logger that writes lines of at least minLevel to w.
func NewLogger(w io.Writer, minLevel corelog.Level) Logger {
	return corelog.New(w, minLevel)
}

// NewStdLogger creates a Logger that writes to stderr.
func NewStdLogger(minLevel corelog.Level) Logger {
	return corelog.NewStd(minLevel)
}

// NopLogger returns a Logger that discards everything, the default used by
// Open.
func NopLogger() Logger {
	return corelog.Nop()
}
