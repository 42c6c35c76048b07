package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// stdout is swapped in tests.
var stdout io.Writer = os.Stdout

// SlogManager owns the process logger.
type SlogManager struct {
	logger *slog.Logger
}

// NewSlogManager creates a new slog-based logging manager.
func NewSlogManager() *SlogManager {
	return &SlogManager{}
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup (re)builds the logger. Records go to file when one is given and to
// stdout otherwise; extra handlers receive every record as well. ctx, if
// non-nil, adds its attributes to each record.
func (m *SlogManager) Setup(file io.Writer, level string, ctx ContextProvider, extra ...slog.Handler) {
	handlerOpts := &slog.HandlerOptions{
		Level: parseLevel(level),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
				}
			}
			return a
		},
	}

	out := file
	if out == nil {
		out = stdout
	}

	handlers := append([]slog.Handler{slog.NewTextHandler(out, handlerOpts)}, extra...)
	var h slog.Handler = NewMultiHandler(handlers...)
	if ctx != nil {
		h = NewContextHandler(h, ctx)
	}

	m.logger = slog.New(h)
	m.logger.Debug("Logging initialized", "level", level)
}

// Logger returns the configured logger, or slog.Default before Setup.
func (m *SlogManager) Logger() *slog.Logger {
	if m.logger == nil {
		return slog.Default()
	}
	return m.logger
}

// Component returns a child logger tagged with a component name.
func (m *SlogManager) Component(name string) *slog.Logger {
	return m.Logger().With("component", name)
}
