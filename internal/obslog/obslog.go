// Package obslog owns the process-wide zap logger shared by the server and the CLI.
package obslog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var globalLogger = zap.NewNop()

// L returns the global logger.
func L() *zap.Logger { return globalLogger }

// Component returns the global logger tagged with a component name.
func Component(name string) *zap.Logger {
	return globalLogger.With(zap.String("component", name))
}

// Sync flushes buffered entries; errors from syncing stderr are ignored.
func Sync() {
	_ = globalLogger.Sync()
}

// Options selects the sinks. Console output goes to stderr so it never
// interleaves with what the CLI prints on stdout.
type Options struct {
	Level   zapcore.Level
	JSON    bool
	Console bool
	File    string
}

// ServerDefaults logs to the console only.
func ServerDefaults() Options {
	return Options{Level: zapcore.InfoLevel, Console: true}
}

// CLIDefaults keeps the terminal clean and logs to a file.
func CLIDefaults() Options {
	return Options{Level: zapcore.InfoLevel, File: filepath.Join("logs", "hotseat-cli.log")}
}

// FromEnv overlays HOTSEAT_LOG_* variables on def.
// HOTSEAT_LOG_FILE=off disables the file sink.
func FromEnv(getenv func(string) string, def Options) Options {
	opts := def
	if v := strings.TrimSpace(getenv("HOTSEAT_LOG_LEVEL")); v != "" {
		opts.Level = parseLevel(v)
	}
	switch strings.ToLower(strings.TrimSpace(getenv("HOTSEAT_LOG_FORMAT"))) {
	case "json":
		opts.JSON = true
	case "console":
		opts.JSON = false
	}
	if v := strings.TrimSpace(getenv("HOTSEAT_LOG_CONSOLE")); v != "" {
		opts.Console = isTrue(v)
	}
	switch v := strings.TrimSpace(getenv("HOTSEAT_LOG_FILE")); {
	case strings.EqualFold(v, "off"):
		opts.File = ""
	case v != "":
		opts.File = v
	}
	return opts
}

// New builds a logger for opts. With no sink selected it falls back to stderr.
func New(opts Options) (*zap.Logger, error) {
	enc := encoder(opts.JSON)
	var cores []zapcore.Core
	if opts.Console {
		cores = append(cores, zapcore.NewCore(enc, zapcore.Lock(os.Stderr), opts.Level))
	}
	if opts.File != "" {
		if dir := filepath.Dir(opts.File); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create log dir: %w", err)
			}
		}
		f, err := os.OpenFile(opts.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		cores = append(cores, zapcore.NewCore(enc.Clone(), zapcore.AddSync(f), opts.Level))
	}
	if len(cores) == 0 {
		cores = append(cores, zapcore.NewCore(enc, zapcore.Lock(os.Stderr), opts.Level))
	}
	return zap.New(zapcore.NewTee(cores...), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

// InitFromEnv replaces the global logger with one built from def and the environment.
func InitFromEnv(def Options) error {
	logger, err := New(FromEnv(os.Getenv, def))
	if err != nil {
		return err
	}
	globalLogger = logger
	return nil
}

func encoder(json bool) zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	if json {
		return zapcore.NewJSONEncoder(cfg)
	}
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.ConsoleSeparator = " | "
	return zapcore.NewConsoleEncoder(cfg)
}

// parseLevel accepts zap level names plus "warning"; anything else is info.
func parseLevel(s string) zapcore.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		return zapcore.WarnLevel
	}
	lvl, err := zapcore.ParseLevel(s)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

func isTrue(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
