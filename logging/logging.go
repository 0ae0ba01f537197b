// ABOUTME: Structured logger setup
// ABOUTME: Configures the zerolog global logger for console or JSON output
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

// Setup points the global zerolog logger at stderr. format is "console",
// "json", or "auto" (console when stderr is a terminal). Unknown levels
// fall back to info.
func Setup(level, format string) {
	log.Logger = New(os.Stderr, level, format, term.IsTerminal(int(os.Stderr.Fd())))
}

// New builds a logger writing to w.
func New(w io.Writer, level, format string, isTTY bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	out := w
	switch format {
	case "console":
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: !isTTY}
	case "json":
	default:
		if isTTY {
			out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
		}
	}

	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}
