// Copyright 2026 The Autowipe Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// WriteFile writes content to name inside a fresh temporary directory
// and returns the full path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

// LogBuffer collects log output. Safe for concurrent writers.
type LogBuffer struct {
	mu     sync.Mutex
	buffer bytes.Buffer
}

func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buffer.Write(p)
}

// String returns everything logged so far.
func (b *LogBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buffer.String()
}

// Contains reports whether any logged line contains substring.
func (b *LogBuffer) Contains(substring string) bool {
	return strings.Contains(b.String(), substring)
}

// Count returns how many logged lines contain substring.
func (b *LogBuffer) Count(substring string) int {
	count := 0
	for _, line := range strings.Split(b.String(), "\n") {
		if strings.Contains(line, substring) {
			count++
		}
	}
	return count
}

// Logger returns a text logger at the given level that writes into a
// LogBuffer.
func Logger(level slog.Level) (*slog.Logger, *LogBuffer) {
	buffer := &LogBuffer{}
	return slog.New(slog.NewTextHandler(buffer, &slog.HandlerOptions{Level: level})), buffer
}
