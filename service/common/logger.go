package common

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// --------------------------------------------------------------------------
// Output indirection
// --------------------------------------------------------------------------

// switchWriter lets InitLoggers swap the output format after component
// loggers have already been created (they are package-level variables, so
// they exist before configuration is read).
type switchWriter struct {
	mu sync.RWMutex
	w  io.Writer
}

func (s *switchWriter) Write(p []byte) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.w.Write(p)
}

func (s *switchWriter) set(w io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.w = w
}

var output = &switchWriter{
	w: zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339},
}

// base is the process-wide root logger. Components derive tagged
// sub-loggers from it via GetLogger.
var base = zerolog.New(output).With().Timestamp().Logger()

// --------------------------------------------------------------------------
// Logger Factory
// --------------------------------------------------------------------------

// GetLogger returns a logger tagged with the component name. Each package
// keeps one in a package-level variable:
//
//	var logger = common.GetLogger("transport")
func GetLogger(component string) zerolog.Logger {
	return base.With().Str("component", component).Logger()
}

// InitLoggers configures the global log level and output format. Console
// output is human-readable for interactive use, otherwise plain JSON.
func InitLoggers(level string, console bool) {
	zerolog.SetGlobalLevel(parseLogLevel(level))
	if console {
		output.set(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		output.set(os.Stderr)
	}
}

// parseLogLevel converts a level string to a zerolog level. Unknown levels
// fall back to info.
func parseLogLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warning", "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
