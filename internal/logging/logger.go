// Package logging builds the zerolog loggers used by the simulator.
package logging

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logging configuration.
type Config struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"` // "json" or "console"
	TimeFormat string `mapstructure:"time_format"`
}

// DefaultConfig logs warnings and above to the console.
func DefaultConfig() Config {
	return Config{
		Level:      zerolog.LevelWarnValue,
		Format:     "console",
		TimeFormat: time.RFC3339,
	}
}

// New creates a zerolog logger writing to output.
// Writes are serialized so concurrent replays may share output.
func New(cfg Config, output io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	output = zerolog.SyncWriter(output)
	switch cfg.Format {
	case "console":
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: cfg.TimeFormat,
		}
	case "json":
		// JSON is the default zerolog format
	default:
		return zerolog.Nop(), fmt.Errorf("invalid log format %q: expected json or console", cfg.Format)
	}
	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger(), nil
}
