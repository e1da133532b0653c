// Copyright 2026 The Autowipe Authors
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/term"
)

// Format selects the handler encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	// FormatAuto picks text when stdout is a terminal and JSON
	// otherwise (journald, docker logs, files).
	FormatAuto Format = "auto"
)

// ParseFormat validates a format name. The empty string means auto.
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatText, FormatJSON:
		return Format(name), nil
	}
	return "", fmt.Errorf("unknown log format %q (want text, json, or auto)", name)
}

// Options configures New.
type Options struct {
	// Verbosity is the 1-6 severity threshold.
	Verbosity int

	Format Format

	// Stdout receives every record. Usually os.Stdout.
	Stdout io.Writer

	// File, when non-nil, receives a copy of every record.
	File io.Writer
}

// New builds the process logger.
func New(options Options) (*slog.Logger, error) {
	level, err := LevelForVerbosity(options.Verbosity)
	if err != nil {
		return nil, err
	}

	var output io.Writer = options.Stdout
	if options.File != nil {
		output = io.MultiWriter(options.Stdout, options.File)
	}

	handlerOptions := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: ReplaceLevel,
	}

	format := options.Format
	if format == "" || format == FormatAuto {
		format = FormatJSON
		if isTerminal(options.Stdout) {
			format = FormatText
		}
	}

	switch format {
	case FormatText:
		return slog.New(slog.NewTextHandler(output, handlerOptions)), nil
	case FormatJSON:
		return slog.New(slog.NewJSONHandler(output, handlerOptions)), nil
	}
	return nil, fmt.Errorf("unknown log format %q", format)
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(file.Fd()))
}
