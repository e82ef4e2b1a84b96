// Package applog implements structured logging via log/slog, with optional
// rotation to a local file via lumberjack.
package applog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// OutputConfig describes one log sink.
type OutputConfig struct {
	Type       string `json:"type" mapstructure:"type"` // "console"/"stdout" or "file"
	Path       string `json:"path,omitempty" mapstructure:"path"`
	MaxSizeMB  int    `json:"max_size_mb,omitempty" mapstructure:"max_size_mb"`
	MaxBackups int    `json:"max_backups,omitempty" mapstructure:"max_backups"`
	MaxAgeDays int    `json:"max_age_days,omitempty" mapstructure:"max_age_days"`
	Compress   bool   `json:"compress,omitempty" mapstructure:"compress"`
}

// Config is the logging subsystem's configuration.
type Config struct {
	Level   string         `json:"level" mapstructure:"level"`
	Format  string         `json:"format" mapstructure:"format"` // "json" or "text"
	Outputs []OutputConfig `json:"outputs,omitempty" mapstructure:"outputs"`
}

// Init configures the global slog logger from cfg.
func Init(cfg Config) error {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("applog: invalid log level: %w", err)
	}

	var writers []io.Writer
	for i, output := range cfg.Outputs {
		w, err := createWriter(output)
		if err != nil {
			return fmt.Errorf("applog: output[%d] (%s): %w", i, output.Type, err)
		}
		if w != nil {
			writers = append(writers, w)
		}
	}
	if len(writers) == 0 {
		writers = append(writers, os.Stdout)
	}

	multi := io.MultiWriter(writers...)
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		handler = slog.NewJSONHandler(multi, opts)
	case "text", "":
		handler = slog.NewTextHandler(multi, opts)
	default:
		return fmt.Errorf("applog: unsupported log format: %s (must be json or text)", cfg.Format)
	}

	slog.SetDefault(slog.New(handler))
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown level: %s", s)
	}
}

func createWriter(output OutputConfig) (io.Writer, error) {
	switch strings.ToLower(output.Type) {
	case "console", "stdout", "":
		return os.Stdout, nil
	case "file":
		if output.Path == "" {
			return nil, fmt.Errorf("file output requires 'path' field")
		}
		return &lumberjack.Logger{
			Filename:   output.Path,
			MaxSize:    output.MaxSizeMB,
			MaxBackups: output.MaxBackups,
			MaxAge:     output.MaxAgeDays,
			Compress:   output.Compress,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported output type: %s", output.Type)
	}
}
