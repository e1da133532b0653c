// Copyright 2026 The Autowipe Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source so the polling loop
// and the log file rotation can be tested without waiting on the wall
// clock.
//
// Production code holds a [Clock] and calls Now or After on it
// instead of the time package. [Real] forwards to the time package.
// [Fake] returns a [FakeClock] whose time stands still until Advance is
// called.
//
// The daemon sleeps between ticks with After; a test drives it like
// this:
//
//	fake := clock.Fake(time.Date(2024, 1, 15, 17, 59, 0, 0, time.UTC))
//	go daemon.Run(ctx)
//	fake.WaitForTimers(1)       // the loop is now sleeping
//	fake.Advance(time.Minute)   // wake it deterministically
package clock
