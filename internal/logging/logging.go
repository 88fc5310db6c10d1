// Package logging sets up the zerolog logger gosh uses for internal
// infrastructure diagnostics (config and history load failures) —
// never for command output or exit
// codes, which always go through the shell's own stdout/stderr.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New builds a logger writing to w at the given zerolog level.
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// Default is the logger used when no explicit verbosity was
// requested: errors only, to stderr.
func Default() zerolog.Logger {
	return New(os.Stderr, zerolog.ErrorLevel)
}
