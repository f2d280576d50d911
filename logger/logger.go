// Package logger builds the zerolog loggers used across the library.
package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// New creates a logger based on the ENV environment variable: console
// output for development, JSON for anything else.
func New() zerolog.Logger {
	switch os.Getenv("ENV") {
	case "", "dev", "development":
		return NewDevelopment()
	default:
		return NewProduction()
	}
}

// NewDevelopment creates a console logger with human-readable timestamps.
func NewDevelopment() zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "2006-01-02 15:04:05",
	}
	return zerolog.New(output).With().Timestamp().Logger()
}

// NewProduction creates a JSON logger with UNIX timestamps.
func NewProduction() zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// Nop returns a disabled logger for components that were not handed one.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
