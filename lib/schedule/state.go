// Copyright 2026 The Autowipe Authors
// SPDX-License-Identifier: Apache-2.0

package schedule

import (
	"fmt"

	"github.com/autowipe/autowipe/lib/calendar"
)

// Phase is the position of a category in the wipe attempt cycle.
type Phase int

const (
	// PhaseIdle: nothing has been attempted since startup.
	PhaseIdle Phase = iota
	// PhaseFireRequested: a wipe command is in flight.
	PhaseFireRequested
	// PhaseSucceeded: the last attempt succeeded.
	PhaseSucceeded
	// PhaseFailed: the last attempt failed.
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseFireRequested:
		return "fire-requested"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// transitions lists the phases reachable from each phase.
var transitions = map[Phase][]Phase{
	PhaseIdle:          {PhaseFireRequested},
	PhaseFireRequested: {PhaseSucceeded, PhaseFailed},
	PhaseSucceeded:     {PhaseFireRequested},
	PhaseFailed:        {PhaseFireRequested},
}

func canTransition(from, to Phase) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Next tells the polling loop what to do after a tick.
type Next int

const (
	// NextSleep waits for the poll interval before the next tick.
	NextSleep Next = iota
	// NextRetry re-evaluates immediately without sleeping.
	NextRetry
	// NextAbort means the retry budget is exhausted; the process
	// must terminate.
	NextAbort
)

func (n Next) String() string {
	switch n {
	case NextSleep:
		return "sleep"
	case NextRetry:
		return "retry"
	case NextAbort:
		return "abort"
	}
	return fmt.Sprintf("Next(%d)", int(n))
}

// UnlimitedRetries disables the retry budget.
const UnlimitedRetries = -1

// RetryPolicy bounds consecutive failed wipe attempts.
type RetryPolicy struct {
	// MaxRetries is the number of retries allowed after the first
	// failed attempt, or UnlimitedRetries.
	MaxRetries int
}

// Allows reports whether another attempt is permitted after the given
// number of consecutive failures.
func (p RetryPolicy) Allows(failures int) bool {
	return p.MaxRetries == UnlimitedRetries || p.MaxRetries >= failures
}

// State is the mutable per-category schedule state. It lives only in
// memory for the lifetime of the process. Not safe for concurrent use;
// the polling loop is its only writer.
type State struct {
	// LastFired is the date of the last successful wipe; zero until
	// the first one.
	LastFired calendar.Date

	// Failures counts consecutive failed attempts since the last
	// success.
	Failures int

	// Phase is the current position in the attempt cycle.
	Phase Phase
}

// Request marks a wipe attempt as started.
func (s *State) Request() error {
	return s.moveTo(PhaseFireRequested)
}

// Complete records the outcome of the attempt started by Request and
// returns what the loop should do next. On success LastFired advances
// to today (never backwards) and Failures resets; on failure Failures
// grows and the policy decides between an immediate retry and abort.
func (s *State) Complete(succeeded bool, today calendar.Date, policy RetryPolicy) (Next, error) {
	if !succeeded {
		if err := s.moveTo(PhaseFailed); err != nil {
			return NextAbort, err
		}
		s.Failures++
		if policy.Allows(s.Failures) {
			return NextRetry, nil
		}
		return NextAbort, nil
	}

	if err := s.moveTo(PhaseSucceeded); err != nil {
		return NextAbort, err
	}
	if today.After(s.LastFired) {
		s.LastFired = today
	}
	s.Failures = 0
	return NextSleep, nil
}

func (s *State) moveTo(phase Phase) error {
	if !canTransition(s.Phase, phase) {
		return fmt.Errorf("schedule: invalid transition %s -> %s", s.Phase, phase)
	}
	s.Phase = phase
	return nil
}
