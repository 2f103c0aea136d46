// Package config carries flag state shared across the command tree.
package config

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// RootConfig holds global flag values.
type RootConfig struct {
	ConfigPath string
	DBPath     string
	LogLevel   string
	NoColor    bool
}

// Logger builds the process logger from the global flags.
func (rc *RootConfig) Logger() zerolog.Logger {
	level, err := zerolog.ParseLevel(rc.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	w := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		NoColor:    rc.NoColor,
		TimeFormat: time.RFC3339,
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
