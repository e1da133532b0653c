// Copyright 2026 The Autowipe Authors
// SPDX-License-Identifier: Apache-2.0

package calendar

import (
	"fmt"
	"time"
)

// Weekday is an ISO-8601 day of the week: Monday is 1, Sunday is 7.
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// Valid reports whether w is in 1..7.
func (w Weekday) Valid() bool { return w >= Monday && w <= Sunday }

func (w Weekday) String() string {
	if !w.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(w))
	}
	return w.Time().String()
}

// Time converts w to the standard library's Sunday-based weekday.
func (w Weekday) Time() time.Weekday {
	return time.Weekday(int(w) % 7)
}

// ISOWeekday converts a standard library weekday to ISO numbering.
func ISOWeekday(day time.Weekday) Weekday {
	if day == time.Sunday {
		return Sunday
	}
	return Weekday(day)
}

// Date is a calendar day with no time of day and no location. The
// zero Date means "unset" and sorts before every real date.
//
// Dates are comparable with ==.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate returns the Date for year, month, day. It does not
// normalize: use Valid to check that the combination exists.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	year, month, day := t.Date()
	return Date{Year: year, Month: month, Day: day}
}

// DateIn returns the calendar day of the instant t as observed in
// location.
func DateIn(t time.Time, location *time.Location) Date {
	return DateOf(t.In(location))
}

// IsZero reports whether d is the zero (unset) Date.
func (d Date) IsZero() bool { return d == Date{} }

// Valid reports whether d names a day that exists in the proleptic
// Gregorian calendar, including February 29 only in leap years.
func (d Date) Valid() bool {
	if d.Month < time.January || d.Month > time.December || d.Day < 1 {
		return false
	}
	return d.midnight().Day() == d.Day && d.midnight().Month() == d.Month
}

// Weekday returns the ISO weekday of d.
func (d Date) Weekday() Weekday { return ISOWeekday(d.midnight().Weekday()) }

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool { return d.Compare(other) < 0 }

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool { return d.Compare(other) > 0 }

// Compare returns -1, 0 or +1 ordering d against other.
func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return compareInt(d.Year, other.Year)
	case d.Month != other.Month:
		return compareInt(int(d.Month), int(other.Month))
	default:
		return compareInt(d.Day, other.Day)
	}
}

// DaysSince returns the number of days from other to d. Negative when
// d is earlier.
func (d Date) DaysSince(other Date) int {
	// Both sides are UTC midnights, so the difference is an exact
	// multiple of 24h with no DST distortion.
	return int(d.midnight().Sub(other.midnight()).Hours() / 24)
}

// AddDays returns d shifted by n days, normalizing across month and
// year boundaries.
func (d Date) AddDays(n int) Date {
	return DateOf(d.midnight().AddDate(0, 0, n))
}

// String formats d as YYYY-MM-DD. The zero Date formats as "none".
func (d Date) String() string {
	if d.IsZero() {
		return "none"
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MarshalText implements encoding.TextMarshaler so dates render as
// YYYY-MM-DD in structured logs.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d Date) midnight() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// maxDaysInMonth bounds the scan in NthWeekdayOfMonth. The real
// month length comes from date validity, not from this constant.
const maxDaysInMonth = 31

// NthWeekdayOfMonth returns the date of the n-th occurrence of weekday
// in the given month, scanning days 1..31 and stopping at the first
// day that does not exist. Returns false when the month has fewer than
// n occurrences, or when n or weekday is out of range.
func NthWeekdayOfMonth(year int, month time.Month, weekday Weekday, n int) (Date, bool) {
	if n < 1 || !weekday.Valid() {
		return Date{}, false
	}
	count := 0
	for day := 1; day <= maxDaysInMonth; day++ {
		candidate := NewDate(year, month, day)
		if !candidate.Valid() {
			break
		}
		if candidate.Weekday() == weekday {
			count++
			if count == n {
				return candidate, true
			}
		}
	}
	return Date{}, false
}

// WeekNumber returns the 1-indexed count of 7-day periods between
// January 1 of d's year and d: floor(days since Jan 1 / 7) + 1.
// January 1-7 are week 1, January 8-14 week 2, and December 31 is
// week 53 in every year.
func WeekNumber(d Date) int {
	return d.DaysSince(NewDate(d.Year, time.January, 1))/7 + 1
}
