// Package log provides a minimal factory for zerolog loggers.
package log

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// New creates a console [zerolog.Logger] writing to w at the given level
// (one of "debug", "info", "warn", "error"; defaults to warn). Colors are
// only used when w is a terminal.
func New(level string, w io.Writer) zerolog.Logger {
	lvl := zerolog.WarnLevel
	switch level {
	case "debug":
		lvl = zerolog.DebugLevel
	case "info":
		lvl = zerolog.InfoLevel
	case "error":
		lvl = zerolog.ErrorLevel
	}

	out := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.TimeOnly,
		NoColor:    !IsTerminal(w),
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

// IsTerminal reports whether w is a character device.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
