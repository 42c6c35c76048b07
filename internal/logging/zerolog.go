package logging

import (
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// NewZerolog builds the zerolog.Logger used by the storage and telemetry
// managers, writing to the same destination as the slog logger.
func NewZerolog(w io.Writer, level string) zerolog.Logger {
	if w == nil {
		w = stdout
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}
