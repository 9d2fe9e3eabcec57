// Package owlog constructs the process's structured logger, the way
// microsoft-tyger's internal/config wires up zerolog for its services:
// a single console writer on stderr, with a level set from configuration
// rather than an ambient global.
package owlog

import (
	"os"

	"github.com/rs/zerolog"
)

// New builds a zerolog.Logger writing to stderr. verbose raises the
// level to debug; otherwise only warnings and errors are emitted,
// keeping stderr free of anything but diagnostics (spec §6: "standard
// error carries diagnostics only, never data").
func New(verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true}).
		Level(level).
		With().Timestamp().Logger()
}
