// Copyright 2026 The Autowipe Authors
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"context"
	"fmt"
	"log/slog"
)

const (
	// LevelTrace is below slog.LevelDebug: decision-engine internals.
	LevelTrace = slog.LevelDebug - 4

	// LevelFatal is above slog.LevelError: the process is about to
	// exit.
	LevelFatal = slog.LevelError + 4
)

// MinVerbosity and MaxVerbosity bound the configured verbosity.
const (
	MinVerbosity = 1
	MaxVerbosity = 6
)

var verbosityLevels = [...]slog.Level{
	1: LevelFatal,
	2: slog.LevelError,
	3: slog.LevelWarn,
	4: slog.LevelInfo,
	5: slog.LevelDebug,
	6: LevelTrace,
}

// LevelForVerbosity maps a verbosity of 1 (FATAL only) to 6
// (everything down to TRACE) onto the slog level threshold.
func LevelForVerbosity(verbosity int) (slog.Level, error) {
	if verbosity < MinVerbosity || verbosity > MaxVerbosity {
		return 0, fmt.Errorf("log level %d out of range %d-%d", verbosity, MinVerbosity, MaxVerbosity)
	}
	return verbosityLevels[verbosity], nil
}

// LevelName returns the display name of level.
func LevelName(level slog.Level) string {
	switch {
	case level >= LevelFatal:
		return "FATAL"
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	case level >= slog.LevelDebug:
		return "DEBUG"
	}
	return "TRACE"
}

// ReplaceLevel is a slog.HandlerOptions.ReplaceAttr function that
// renders levels with LevelName.
func ReplaceLevel(groups []string, attr slog.Attr) slog.Attr {
	if attr.Key != slog.LevelKey || len(groups) != 0 {
		return attr
	}
	if level, ok := attr.Value.Any().(slog.Level); ok {
		attr.Value = slog.StringValue(LevelName(level))
	}
	return attr
}

// Trace logs at LevelTrace.
func Trace(ctx context.Context, logger *slog.Logger, message string, args ...any) {
	logger.Log(ctx, LevelTrace, message, args...)
}

// Fatal logs at LevelFatal. It does not exit; callers return an error
// that main turns into an exit code.
func Fatal(ctx context.Context, logger *slog.Logger, message string, args ...any) {
	logger.Log(ctx, LevelFatal, message, args...)
}
