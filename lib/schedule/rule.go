// Copyright 2026 The Autowipe Authors
// SPDX-License-Identifier: Apache-2.0

package schedule

import (
	"fmt"
	"time"

	"github.com/autowipe/autowipe/lib/calendar"
)

// TimeLayout is the Go layout of the "HHMM" time-of-day strings that
// rules and evaluations compare lexicographically.
const TimeLayout = "1504"

// maxOccurrences is the largest n for which a weekday can occur n
// times in one month.
const maxOccurrences = 5

// Rule is the immutable wipe configuration for one category.
type Rule struct {
	// Types are tried in order; the first one that matches fires.
	Types []WipeType

	// Days are the ISO weekdays the cadence applies to.
	Days []calendar.Weekday

	// Time is the earliest time of day, as "HHMM", at which the wipe
	// may fire. Compared as a string against Evaluation.Time.
	Time string

	// First is the anchor date: no wipe fires before it, it always
	// fires on it (once the time is reached), and it is the biweekly
	// baseline until the first wipe has happened.
	First calendar.Date
}

// Validate checks the rule for values that evaluation cannot handle.
func (r Rule) Validate() error {
	for _, wipeType := range r.Types {
		if !wipeType.Valid() {
			return fmt.Errorf("%w: %d", ErrUnknownWipeType, int(wipeType))
		}
	}
	for _, day := range r.Days {
		if !day.Valid() {
			return fmt.Errorf("weekday %d out of range 1-7", int(day))
		}
	}
	if !ValidTime(r.Time) {
		return fmt.Errorf("wipe time %q is not HHMM", r.Time)
	}
	if !r.First.Valid() {
		return fmt.Errorf("first wipe date %v is not a valid date", r.First)
	}
	return nil
}

// ValidTime reports whether value is a 24-hour "HHMM" time of day.
func ValidTime(value string) bool {
	if len(value) != len(TimeLayout) {
		return false
	}
	_, err := time.Parse(TimeLayout, value)
	return err == nil
}

// Evaluation is the moment a rule is evaluated against: the calendar
// date and HHMM time of day as observed in Location. Build a fresh
// one for every tick.
type Evaluation struct {
	Date     calendar.Date
	Time     string
	Location *time.Location
}

// EvaluationAt observes the instant now in location.
func EvaluationAt(now time.Time, location *time.Location) Evaluation {
	local := now.In(location)
	return Evaluation{
		Date:     calendar.DateOf(local),
		Time:     local.Format(TimeLayout),
		Location: location,
	}
}

// Reason explains a Verdict.
type Reason string

const (
	ReasonNoTypes         Reason = "no wipe types configured"
	ReasonAlreadyFired    Reason = "already fired today"
	ReasonAnchorInFuture  Reason = "first wipe date is in the future"
	ReasonTooEarly        Reason = "wipe time not reached"
	ReasonAnchorDate      Reason = "today is the first wipe date"
	ReasonCadenceMatch    Reason = "cadence matches today"
	ReasonNoCadenceMatch  Reason = "no cadence matches today"
	ReasonBiweeklyTooSoon Reason = "biweekly week distance is not two"
)

// Verdict is the outcome of evaluating a rule.
type Verdict struct {
	Fire   bool
	Reason Reason

	// Type is the wipe type that produced the verdict. Zero for the
	// type-independent gates.
	Type WipeType

	// Day is the configured weekday that matched, when a cadence
	// produced the verdict.
	Day calendar.Weekday

	// CandidateWeek and BaselineWeek are set for biweekly verdicts
	// that found today as a candidate.
	CandidateWeek int
	BaselineWeek  int
}

// ShouldFire reports whether the rule fires at now, given the date it
// last fired (zero when it never has).
func (r Rule) ShouldFire(lastFired calendar.Date, now Evaluation) (bool, error) {
	verdict, err := r.Evaluate(lastFired, now)
	return verdict.Fire, err
}

// Evaluate applies the gates in order and then tries each wipe type.
// An invalid wipe type is only reported if evaluation reaches it.
func (r Rule) Evaluate(lastFired calendar.Date, now Evaluation) (Verdict, error) {
	if len(r.Types) == 0 {
		return Verdict{Reason: ReasonNoTypes}, nil
	}
	if now.Date == lastFired {
		return Verdict{Reason: ReasonAlreadyFired}, nil
	}
	if r.First.After(now.Date) {
		return Verdict{Reason: ReasonAnchorInFuture}, nil
	}
	if r.Time > now.Time {
		return Verdict{Reason: ReasonTooEarly}, nil
	}
	if now.Date == r.First {
		return Verdict{Fire: true, Reason: ReasonAnchorDate}, nil
	}

	last := Verdict{Reason: ReasonNoCadenceMatch}
	for _, wipeType := range r.Types {
		verdict, err := r.evaluateType(wipeType, lastFired, now.Date)
		if err != nil {
			return Verdict{Type: wipeType}, err
		}
		if verdict.Fire {
			return verdict, nil
		}
		last = verdict
	}
	return last, nil
}

func (r Rule) evaluateType(wipeType WipeType, lastFired, today calendar.Date) (Verdict, error) {
	switch {
	case wipeType == Weekly:
		for _, day := range r.Days {
			for n := 1; n <= maxOccurrences; n++ {
				candidate, ok := calendar.NthWeekdayOfMonth(today.Year, today.Month, day, n)
				if ok && candidate == today {
					return Verdict{Fire: true, Reason: ReasonCadenceMatch, Type: wipeType, Day: day}, nil
				}
			}
		}
		return Verdict{Reason: ReasonNoCadenceMatch, Type: wipeType}, nil

	case wipeType == Biweekly:
		return r.evaluateBiweekly(lastFired, today), nil

	case wipeType.Occurrence() > 0:
		n := wipeType.Occurrence()
		for _, day := range r.Days {
			candidate, ok := calendar.NthWeekdayOfMonth(today.Year, today.Month, day, n)
			if ok && candidate == today {
				return Verdict{Fire: true, Reason: ReasonCadenceMatch, Type: wipeType, Day: day}, nil
			}
		}
		return Verdict{Reason: ReasonNoCadenceMatch, Type: wipeType}, nil
	}
	return Verdict{}, fmt.Errorf("%w: %d", ErrUnknownWipeType, int(wipeType))
}

// evaluateBiweekly compares week numbers relative to January 1 of each
// date's own year. The baseline is not normalized across a year
// boundary: a last wipe in late December (week 52 or 53) never sits
// two weeks before a January candidate, so biweekly schedules stall
// at the turn of the year until the anchor or another type fires.
func (r Rule) evaluateBiweekly(lastFired, today calendar.Date) Verdict {
	baseline := r.First
	if !lastFired.IsZero() {
		baseline = lastFired
	}
	baselineWeek := calendar.WeekNumber(baseline)

	verdict := Verdict{Reason: ReasonNoCadenceMatch, Type: Biweekly}
	for _, day := range r.Days {
		for n := 1; n <= maxOccurrences; n++ {
			candidate, ok := calendar.NthWeekdayOfMonth(today.Year, today.Month, day, n)
			if !ok || candidate != today {
				continue
			}
			candidateWeek := calendar.WeekNumber(candidate)
			if candidateWeek-baselineWeek == 2 {
				return Verdict{
					Fire:          true,
					Reason:        ReasonCadenceMatch,
					Type:          Biweekly,
					Day:           day,
					CandidateWeek: candidateWeek,
					BaselineWeek:  baselineWeek,
				}
			}
			verdict = Verdict{
				Reason:        ReasonBiweeklyTooSoon,
				Type:          Biweekly,
				Day:           day,
				CandidateWeek: candidateWeek,
				BaselineWeek:  baselineWeek,
			}
		}
	}
	return verdict
}
