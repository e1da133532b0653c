// Copyright 2026 The Autowipe Authors
// SPDX-License-Identifier: Apache-2.0

// Package logging builds the process logger.
//
// Severity uses a six-step scale, configured as a verbosity from 1 to
// 6: FATAL, ERROR, WARN, INFO, DEBUG, TRACE. A record is written when
// its severity is at or above the configured one, so verbosity 6
// prints everything and verbosity 1 prints only fatal errors. The
// four middle steps are the standard slog levels; [LevelTrace] and
// [LevelFatal] extend the range on either side and are rendered by
// name through [ReplaceLevel].
//
// Records always go to stdout and, when configured, to a [DailyFile]:
// an append-only log whose name carries the current date
// ("autowipe.log" becomes "autowipe.2024-01-15.log"). The file
// switches at the first write after midnight and can gzip the file it
// leaves behind.
package logging
