// Copyright 2026 The Autowipe Authors
// SPDX-License-Identifier: Apache-2.0

// Package calendar provides the day-granularity calendar arithmetic
// behind wipe schedules: civil dates without a time of day, ISO
// weekday numbering (1=Monday..7=Sunday), the date of the Nth
// occurrence of a weekday in a month, and a week counter relative to
// January 1.
//
// WeekNumber is deliberately not ISO-8601. It counts completed 7-day
// periods since January 1 of the date's own year, so week 1 always
// starts on January 1 whatever weekday that is, and the counter
// restarts every year. Biweekly cadence compares these numbers
// directly and depends on that exact arithmetic.
//
// All functions are pure. Converting a wall-clock instant into a Date
// requires a location; see [DateIn].
package calendar
