// Copyright 2026 The Autowipe Authors
// SPDX-License-Identifier: Apache-2.0

// Package process holds the exit codes of the autowipe binary and the
// helpers main uses to leave with them. These are the only places that
// write to stderr without going through the structured logger, for
// errors that happen before the logger exists.
package process
