// Package logger holds the structured logger shared by the ownkit packages.
//
// Logging is off by default: L discards everything until Init enables it.
// Allocators trace chunk mapping and refused requests at debug level, and
// the leak checker reports handles that were garbage collected without
// being dropped at warn level.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/atomic"
)

// L is the global logger instance. It's initialized to discard all output by default.
// Call Init() before creating handles to enable logging.
var L *slog.Logger = slog.New(slog.DiscardHandler)

var leakCheck atomic.Bool

const (
	logPrefix     = "ownkit-"
	logSuffix     = ".log"
	retentionDays = 30
)

// Options configures the logger initialization.
type Options struct {
	Enabled   bool       // If false, all logging is discarded
	Writer    io.Writer  // Destination. Default: LogDir file if set, else os.Stderr
	LogDir    string     // Directory for dated log files, used when Writer is nil
	Level     slog.Level // Minimum log level. Default: LevelInfo when enabled
	JSON      bool       // Emit JSON records instead of text
	LeakCheck bool       // Report handles that are collected without Drop
}

// Init configures logging. If opts.Enabled is false, all log output is
// discarded and leak checking is turned off.
func Init(opts Options) error {
	if !opts.Enabled {
		L = slog.New(slog.DiscardHandler)
		leakCheck.Store(false)
		return nil
	}

	w := opts.Writer
	if w == nil && opts.LogDir != "" {
		f, err := openDated(opts.LogDir)
		if err != nil {
			return err
		}
		w = f
	}
	if w == nil {
		w = os.Stderr
	}

	level := opts.Level
	if level == 0 {
		level = slog.LevelInfo
	}

	hopts := &slog.HandlerOptions{Level: level}
	if opts.JSON {
		L = slog.New(slog.NewJSONHandler(w, hopts))
	} else {
		L = slog.New(slog.NewTextHandler(w, hopts))
	}
	leakCheck.Store(opts.LeakCheck)
	return nil
}

// LeakCheck reports whether leak checking is enabled.
func LeakCheck() bool { return leakCheck.Load() }

func openDated(logDir string) (*os.File, error) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, err
	}

	// Clean up old logs (best-effort, ignore errors)
	cleanOldLogs(logDir)

	filename := filepath.Join(logDir, logPrefix+time.Now().Format("2006-01-02")+logSuffix)
	return os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

// cleanOldLogs removes log files older than retentionDays.
func cleanOldLogs(logDir string) {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	entries, err := os.ReadDir(logDir)
	if err != nil {
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, logPrefix) || !strings.HasSuffix(name, logSuffix) {
			continue
		}

		// ownkit-2024-01-05.log
		dateStr := strings.TrimPrefix(strings.TrimSuffix(name, logSuffix), logPrefix)
		logDate, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			continue
		}

		if logDate.Before(cutoff) {
			os.Remove(filepath.Join(logDir, name))
		}
	}
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Warn logs a warning message with optional key-value pairs.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }
