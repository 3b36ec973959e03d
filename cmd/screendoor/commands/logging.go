package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/fivetwenty-io/screendoor/internal/constants"
)

// LogConfig holds the logging flags.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
	File   string `yaml:"file,omitempty"`
	Color  bool   `yaml:"color,omitempty"`
}

var logger = zerolog.Nop()

// Logger returns the logger configured by SetupLogger.
func Logger() zerolog.Logger {
	return logger
}

// SetupLogger configures the package logger and returns a function that
// releases the log file, if any.
func SetupLogger(cfg LogConfig) (func() error, error) {
	built, cleanup, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return nil, err
	}

	logger = built

	return cleanup, nil
}

func newLogger(cfg LogConfig, stderr io.Writer) (zerolog.Logger, func() error, error) {
	level, err := parseLogLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), nil, err
	}

	writer := stderr
	cleanup := func() error { return nil }

	if cfg.File != "" {
		err = os.MkdirAll(filepath.Dir(cfg.File), constants.ConfigDirPerm)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("failed to create log directory: %w", err)
		}

		rotating := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    constants.LogMaxSizeMB,
			MaxBackups: constants.LogMaxBackups,
			MaxAge:     constants.LogMaxAgeDays,
			Compress:   true,
			LocalTime:  true,
		}
		writer = rotating
		cleanup = rotating.Close
	}

	switch strings.ToLower(cfg.Format) {
	case "", constants.LogFormatConsole:
		writer = zerolog.ConsoleWriter{
			Out:        writer,
			TimeFormat: time.RFC3339,
			NoColor:    !cfg.Color || cfg.File != "",
		}
	case constants.LogFormatJSON:
	default:
		return zerolog.Nop(), nil, fmt.Errorf("%w: %s", constants.ErrInvalidLogFormat, cfg.Format)
	}

	return zerolog.New(writer).Level(level).With().Timestamp().Logger(), cleanup, nil
}

func parseLogLevel(raw string) (zerolog.Level, error) {
	switch strings.ToLower(raw) {
	case "", "warn", "warning":
		return zerolog.WarnLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "info":
		return zerolog.InfoLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("%w: %s", constants.ErrInvalidLogLevel, raw)
	}
}

// zerologAdapter adapts a zerolog.Logger to screendoor.Logger.
type zerologAdapter struct {
	logger zerolog.Logger
}

func (a *zerologAdapter) Debug(msg string, fields map[string]interface{}) {
	a.logger.Debug().Fields(fields).Msg(msg)
}

func (a *zerologAdapter) Info(msg string, fields map[string]interface{}) {
	a.logger.Info().Fields(fields).Msg(msg)
}

func (a *zerologAdapter) Warn(msg string, fields map[string]interface{}) {
	a.logger.Warn().Fields(fields).Msg(msg)
}

func (a *zerologAdapter) Error(msg string, fields map[string]interface{}) {
	a.logger.Error().Fields(fields).Msg(msg)
}
