// Copyright 2026 The Autowipe Authors
// SPDX-License-Identifier: Apache-2.0

// Autowipe runs a game server's wipe commands on a calendar schedule.
//
// Two kinds of wipe are scheduled independently: blueprint wipes and
// map wipes. Each has a set of weekdays, an earliest time of day, a
// first-wipe anchor date and one or more cadence types (weekly,
// biweekly, or the n-th matching weekday of the month). Every interval
// the daemon evaluates both schedules in the configured time zone,
// blueprint first, and runs the command of the first one that is due.
// A blueprint wipe is expected to reset the map as well, so at most
// one command runs per check.
//
// A failed command is retried immediately until the retry budget is
// spent, at which point the daemon logs a fatal error and exits with
// status 4. SIGINT and SIGTERM stop the daemon cleanly between checks
// or by killing the running command.
//
// Configuration comes either from a file (-c/--configuration, JSON
// with comments or YAML) or entirely from flags:
//
//	autowipe -B 4 -M 4 -T 1900 -t 1900 --bp-wipe-types 3 \
//	    --map-wipe-types 1 --first-bp-wipe 2024-01-04 --first-map-wipe 2024-01-04
//
// Exit codes: 0 on clean shutdown or --version, 2 for unparseable
// arguments, 3 for an invalid configuration, 4 when a wipe ran out of
// retries, 1 for anything else.
package main
