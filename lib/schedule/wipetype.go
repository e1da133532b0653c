// Copyright 2026 The Autowipe Authors
// SPDX-License-Identifier: Apache-2.0

package schedule

import (
	"errors"
	"fmt"
)

// WipeType is a cadence rule. The numeric values are part of the
// configuration format.
type WipeType int

const (
	// Weekly fires on every configured weekday.
	Weekly WipeType = 1

	// Biweekly fires on a configured weekday whose week number is
	// exactly two past the baseline week (the last wipe, or the
	// anchor date when nothing has fired yet).
	Biweekly WipeType = 2

	// FirstWeekday through FifthWeekday fire on the n-th occurrence
	// of a configured weekday in the current month.
	FirstWeekday  WipeType = 3
	SecondWeekday WipeType = 4
	ThirdWeekday  WipeType = 5
	FourthWeekday WipeType = 6
	FifthWeekday  WipeType = 7
)

// ErrUnknownWipeType is returned when a wipe type outside 1..7 reaches
// evaluation. Configuration validation rejects such values, so seeing
// this error means an invariant was broken.
var ErrUnknownWipeType = errors.New("unknown wipe type")

// Valid reports whether t is one of the defined wipe types.
func (t WipeType) Valid() bool { return t >= Weekly && t <= FifthWeekday }

// Occurrence returns n for the "n-th weekday of month" types and 0
// for Weekly, Biweekly, and invalid values.
func (t WipeType) Occurrence() int {
	if t >= FirstWeekday && t <= FifthWeekday {
		return int(t-FirstWeekday) + 1
	}
	return 0
}

func (t WipeType) String() string {
	switch t {
	case Weekly:
		return "weekly"
	case Biweekly:
		return "biweekly"
	case FirstWeekday:
		return "first-weekday"
	case SecondWeekday:
		return "second-weekday"
	case ThirdWeekday:
		return "third-weekday"
	case FourthWeekday:
		return "fourth-weekday"
	case FifthWeekday:
		return "fifth-weekday"
	}
	return fmt.Sprintf("WipeType(%d)", int(t))
}
