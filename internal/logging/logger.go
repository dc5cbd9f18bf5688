// Package logging configures the zerolog context logger for the bootstrap.
package logging

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogFilename is the bootstrap's own log file inside the log directory.
const LogFilename = "entrypoint.log"

// Rotation matches the server's log handler: 1 MB per file, 5 backups.
const (
	maxLogSizeMB  = 1
	maxLogBackups = 5
)

// Config defines the configuration for logger creation.
type Config struct {
	// Writer overrides file logging, typically with a buffer in tests.
	Writer io.Writer
	LogDir string
	Level  zerolog.Level
}

// New creates a new context with a logger attached. Production callers set
// LogDir for rotated file output alongside a console writer on stderr; tests
// provide their own Writer.
func New(ctx context.Context, config Config) context.Context {
	var writer io.Writer

	if config.Writer != nil {
		writer = config.Writer
	} else {
		fileWriter := &lumberjack.Logger{
			Filename:   filepath.Join(config.LogDir, LogFilename),
			MaxSize:    maxLogSizeMB,
			MaxBackups: maxLogBackups,
		}
		console := zerolog.ConsoleWriter{Out: os.Stderr}
		writer = zerolog.MultiLevelWriter(console, fileWriter)
	}

	logger := zerolog.New(writer).With().
		Timestamp().
		Logger().
		Level(config.Level)

	return logger.WithContext(ctx)
}

// Get retrieves the logger from the provided context, or a disabled logger
// if none is attached.
func Get(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// ParseLevel converts the configured level name to a zerolog level,
// defaulting to info for unknown names.
func ParseLevel(name string) zerolog.Level {
	level, err := zerolog.ParseLevel(name)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}
