// Copyright 2026 The Autowipe Authors
// SPDX-License-Identifier: Apache-2.0

package runner

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
)

// maxLineLength caps a buffered line. Longer output is logged in
// pieces of this size.
const maxLineLength = 64 * 1024

// lineLogger is an io.Writer that logs every complete line written to
// it as one record. Lines written before setLogger are held and logged
// once the logger is known. Safe for concurrent use: exec may still be
// copying into it when Run flushes after WaitDelay.
type lineLogger struct {
	ctx    context.Context
	level  slog.Level
	stream string

	mu      sync.Mutex
	logger  *slog.Logger
	held    []string
	pending []byte
}

func newLineLogger(ctx context.Context, level slog.Level, stream string) *lineLogger {
	return &lineLogger{ctx: ctx, level: level, stream: stream}
}

// setLogger starts logging through logger, beginning with any held
// lines.
func (w *lineLogger) setLogger(logger *slog.Logger) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.logger = logger
	for _, line := range w.held {
		w.logger.Log(w.ctx, w.level, line, "stream", w.stream)
	}
	w.held = nil
}

func (w *lineLogger) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending = append(w.pending, p...)
	for {
		end := bytes.IndexByte(w.pending, '\n')
		if end < 0 {
			break
		}
		w.emitLocked(w.pending[:end])
		w.pending = w.pending[end+1:]
	}
	for len(w.pending) >= maxLineLength {
		w.emitLocked(w.pending[:maxLineLength])
		w.pending = w.pending[maxLineLength:]
	}
	return len(p), nil
}

// flush logs a trailing line that had no newline.
func (w *lineLogger) flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.emitLocked(w.pending)
	w.pending = nil
}

func (w *lineLogger) emitLocked(line []byte) {
	line = bytes.TrimRight(line, "\r")
	if len(line) == 0 {
		return
	}
	if w.logger == nil {
		w.held = append(w.held, string(line))
		return
	}
	w.logger.Log(w.ctx, w.level, string(line), "stream", w.stream)
}
