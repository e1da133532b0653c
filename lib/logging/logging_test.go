// Copyright 2026 The Autowipe Authors
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestLevelForVerbosity(t *testing.T) {
	tests := []struct {
		verbosity int
		enabled   []slog.Level
		disabled  []slog.Level
	}{
		{1, []slog.Level{LevelFatal}, []slog.Level{slog.LevelError}},
		{3, []slog.Level{LevelFatal, slog.LevelError, slog.LevelWarn}, []slog.Level{slog.LevelInfo}},
		{4, []slog.Level{slog.LevelInfo}, []slog.Level{slog.LevelDebug}},
		{6, []slog.Level{LevelTrace, slog.LevelDebug, LevelFatal}, nil},
	}

	for _, test := range tests {
		threshold, err := LevelForVerbosity(test.verbosity)
		if err != nil {
			t.Fatalf("LevelForVerbosity(%d): %v", test.verbosity, err)
		}
		for _, level := range test.enabled {
			if level < threshold {
				t.Errorf("verbosity %d suppresses %s", test.verbosity, LevelName(level))
			}
		}
		for _, level := range test.disabled {
			if level >= threshold {
				t.Errorf("verbosity %d lets %s through", test.verbosity, LevelName(level))
			}
		}
	}

	for _, invalid := range []int{0, 7, -1} {
		if _, err := LevelForVerbosity(invalid); err == nil {
			t.Errorf("LevelForVerbosity(%d) succeeded, want error", invalid)
		}
	}
}

func TestLevelNames(t *testing.T) {
	tests := map[slog.Level]string{
		LevelFatal:      "FATAL",
		slog.LevelError: "ERROR",
		slog.LevelWarn:  "WARN",
		slog.LevelInfo:  "INFO",
		slog.LevelDebug: "DEBUG",
		LevelTrace:      "TRACE",
	}
	for level, want := range tests {
		if got := LevelName(level); got != want {
			t.Errorf("LevelName(%d) = %q, want %q", level, got, want)
		}
	}
}

func TestNewTextRendersCustomLevels(t *testing.T) {
	var stdout, file bytes.Buffer
	logger, err := New(Options{Verbosity: 6, Format: FormatText, Stdout: &stdout, File: &file})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	Trace(context.Background(), logger, "gate hit", "reason", "too early")
	Fatal(context.Background(), logger, "giving up")

	for name, output := range map[string]string{"stdout": stdout.String(), "file": file.String()} {
		if !strings.Contains(output, "level=TRACE") || !strings.Contains(output, "level=FATAL") {
			t.Errorf("%s output missing custom level names:\n%s", name, output)
		}
	}
}

func TestNewRespectsVerbosity(t *testing.T) {
	var stdout bytes.Buffer
	logger, err := New(Options{Verbosity: 3, Format: FormatText, Stdout: &stdout})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown")

	if strings.Contains(stdout.String(), "hidden") {
		t.Error("INFO record written at verbosity 3")
	}
	if !strings.Contains(stdout.String(), "shown") {
		t.Error("WARN record missing at verbosity 3")
	}
}

func TestNewAutoFormatUsesJSONOffTerminal(t *testing.T) {
	var stdout bytes.Buffer
	logger, err := New(Options{Verbosity: 4, Format: FormatAuto, Stdout: &stdout})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("wipe done", "category", "map")

	var record map[string]any
	if err := json.Unmarshal(stdout.Bytes(), &record); err != nil {
		t.Fatalf("auto format on a buffer is not JSON: %v\n%s", err, stdout.String())
	}
	if record["level"] != "INFO" || record["category"] != "map" {
		t.Errorf("record = %v", record)
	}
}

func TestNewRejectsBadVerbosity(t *testing.T) {
	if _, err := New(Options{Verbosity: 9, Stdout: &bytes.Buffer{}}); err == nil {
		t.Error("New accepted verbosity 9")
	}
}

func TestParseFormat(t *testing.T) {
	for name, want := range map[string]Format{"": FormatAuto, "auto": FormatAuto, "text": FormatText, "json": FormatJSON} {
		got, err := ParseFormat(name)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v", name, got, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) succeeded")
	}
}
