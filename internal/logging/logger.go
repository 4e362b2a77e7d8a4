package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Environment variables read by Init.
const (
	LevelEnv  = "LAYOUT_LOG_LEVEL"
	FormatEnv = "LAYOUT_LOG_FORMAT"
)

// Init initializes the global logger with configuration from environment variables.
// LAYOUT_LOG_LEVEL controls the log level: debug, info, warn, error (default: info).
// LAYOUT_LOG_FORMAT selects console output (default) or json, which Lambda
// and the MCP server use so stdout stays machine-readable.
func Init() {
	Configure(os.Getenv(LevelEnv), os.Getenv(FormatEnv), os.Stderr)
}

// Configure sets the global level and points the global logger at w.
func Configure(level, format string, w io.Writer) {
	zerolog.SetGlobalLevel(ParseLevel(level))
	if format == "json" {
		log.Logger = zerolog.New(w).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: w})
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	}
	return zerolog.InfoLevel
}
