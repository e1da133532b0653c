// Copyright 2026 The Autowipe Authors
// SPDX-License-Identifier: Apache-2.0

// Package runner executes wipe commands.
//
// A command string is split on whitespace into argv and executed
// directly, without a shell. Each line the command writes to stdout is
// logged at INFO and each stderr line at WARN, tagged with the
// command's PID. The command succeeds only when it exits with status
// zero; any other outcome, including a binary that cannot be started,
// is a failure the caller may retry.
//
// When a timeout is configured the command runs in its own process
// group and the whole group is killed when the timeout expires, so
// helper processes spawned by a wipe script do not outlive it.
package runner
