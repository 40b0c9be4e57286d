// Package vaultlog is the mock vault's structured logger, adapted from
// cuemby/warren's pkg/log: same global-logger-plus-Config shape, narrowed
// to the fields the vault and router actually emit (component,
// message_id, operation, result code) instead of node/service/task ids.
package vaultlog

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the package-level logger every component logs through.
var Logger zerolog.Logger

// Level is a logging verbosity, mirrored 1:1 onto zerolog's levels.
type Level string

const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
)

// Config configures the package-level Logger.
type Config struct {
	Level      Level
	JSONOutput bool
	Output     io.Writer
}

// Init (re)configures the global Logger. Safe to call more than once,
// e.g. from a test's TestMain.
func Init(cfg Config) {
	var level zerolog.Level
	switch cfg.Level {
	case DebugLevel:
		level = zerolog.DebugLevel
	case WarnLevel:
		level = zerolog.WarnLevel
	case ErrorLevel:
		level = zerolog.ErrorLevel
	default:
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}

	if cfg.JSONOutput {
		Logger = zerolog.New(output).With().Timestamp().Logger()
		return
	}
	Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        output,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()
}

func init() {
	Init(Config{Level: InfoLevel})
}

// WithComponent returns a child logger tagged with the emitting package.
func WithComponent(component string) zerolog.Logger {
	return Logger.With().Str("component", component).Logger()
}

// WithMessageID returns a child logger tagged with a request's message id.
func WithMessageID(logger zerolog.Logger, messageID string) zerolog.Logger {
	return logger.With().Str("message_id", messageID).Logger()
}
