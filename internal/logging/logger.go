// Package logging builds the process-wide zerolog logger from the
// logging section of the configuration.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"siruang/internal/config"

	"github.com/rs/zerolog"
)

// New returns the root logger, tagged with the application identity,
// plus a closer for the log file when one was opened. Unrecognized
// settings fall back to JSON on stdout at info level.
func New(cfg config.LoggingConfig, app config.AppConfig) (*zerolog.Logger, io.Closer, error) {
	sink, closer, err := openSink(cfg)
	if err != nil {
		return nil, nil, err
	}
	if normalize(cfg.Format) == "console" {
		sink = zerolog.ConsoleWriter{Out: sink, TimeFormat: time.RFC3339}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	root := zerolog.New(sink).
		Level(parseLevel(cfg.Level)).
		With().
		Timestamp().
		Str("app", app.Name).
		Str("env", app.Environment).
		Str("version", app.Version).
		Logger()

	return &root, closer, nil
}

func openSink(cfg config.LoggingConfig) (io.Writer, io.Closer, error) {
	switch normalize(cfg.Output) {
	case "stderr":
		return os.Stderr, nil, nil
	case "file":
		if cfg.FilePath == "" {
			return nil, nil, fmt.Errorf("logging.output=file requires logging.file_path")
		}
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file %s: %w", cfg.FilePath, err)
		}
		return f, f, nil
	default:
		return os.Stdout, nil, nil
	}
}

func parseLevel(raw string) zerolog.Level {
	s := normalize(raw)
	if s == "" {
		// ParseLevel maps "" to NoLevel, which would mute the logger.
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

func normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
