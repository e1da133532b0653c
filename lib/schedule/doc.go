// Copyright 2026 The Autowipe Authors
// SPDX-License-Identifier: Apache-2.0

// Package schedule decides whether a wipe should fire now.
//
// A [Rule] describes one category of wipe (blueprint or map): the
// cadence types to try, the ISO weekdays the cadence applies to, the
// earliest time of day ("HHMM"), and the anchor date of the first
// wipe. [Rule.Evaluate] checks the gates in a fixed order:
//
//  1. already fired today: suppress
//  2. anchor date still in the future: suppress
//  3. fire time not reached (string compare on HHMM): suppress
//  4. today is the anchor date: fire
//  5. otherwise dispatch on the wipe type
//
// and returns a [Verdict] carrying the reason, so the daemon can trace
// every decision. Cadence types are ORed: the first type that matches
// wins.
//
// [Decide] walks several [Schedule] values in priority order and
// returns at most one [Action] per call. The blueprint schedule is
// listed first, so when both categories are due in the same tick only
// the blueprint wipe runs and the map wipe is picked up on the next
// tick.
//
// [State.Complete] is the retry state machine: after every wipe attempt
// it advances the per-category state and returns the [Next] step
// (sleep, retry immediately, or give up). It has no knowledge of time
// or processes; the caller passes in today's date.
package schedule
