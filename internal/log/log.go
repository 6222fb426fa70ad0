package log

import (
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu sync.RWMutex
	lg = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, NoColor: true}).
		With().Timestamp().Logger().Level(zerolog.InfoLevel)
)

// L returns the shared logger.
func L() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return &lg
}

// With returns a child logger tagged with a component name.
func With(component string) zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return lg.With().Str("component", component).Logger()
}

// SetLevel adjusts the global level from a config string. Unknown values
// leave the level unchanged.
func SetLevel(level string) {
	mu.Lock()
	defer mu.Unlock()
	switch strings.ToLower(level) {
	case "debug":
		lg = lg.Level(zerolog.DebugLevel)
	case "info":
		lg = lg.Level(zerolog.InfoLevel)
	case "warn":
		lg = lg.Level(zerolog.WarnLevel)
	case "error":
		lg = lg.Level(zerolog.ErrorLevel)
	}
}
