// Copyright 2026 The Autowipe Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers.
//
// [RequireReceive] and [RequireClosed] wrap the select-with-timeout
// pattern so tests that wait on goroutines never hang forever. They
// are the only place in the test suite that uses a real wall-clock
// timeout; everything else runs on a fake clock.
//
// [WriteFile] writes a fixture (typically a configuration file) into a
// per-test temporary directory and returns its path. [Logger] builds a
// slog logger that records every line into a buffer the test can
// inspect.
//
// All helpers call t.Fatalf on failure.
package testutil
