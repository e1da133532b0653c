// Copyright 2026 The Autowipe Authors
// SPDX-License-Identifier: Apache-2.0

package schedule

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/autowipe/autowipe/lib/calendar"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDecideBlueprintHasPriority(t *testing.T) {
	monday := date(2024, time.January, 15)
	blueprint := NewSchedule(Blueprint, mondayRule(Weekly))
	mapSchedule := NewSchedule(Map, mondayRule(Weekly))
	schedules := []*Schedule{blueprint, mapSchedule}

	action, err := Decide(context.Background(), discardLogger(), schedules, at(monday, "1900"))
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if action.Category() != Blueprint {
		t.Fatalf("first tick fired %q, want blueprint", action.Category())
	}

	// The blueprint wipe succeeds; on the next tick the map wipe is
	// still due.
	if err := blueprint.State.Request(); err != nil {
		t.Fatal(err)
	}
	if _, err := blueprint.State.Complete(true, monday, RetryPolicy{}); err != nil {
		t.Fatal(err)
	}

	action, err = Decide(context.Background(), discardLogger(), schedules, at(monday, "1900"))
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if action.Category() != Map {
		t.Fatalf("second tick fired %q, want map", action.Category())
	}
	if action.Verdict.Reason != ReasonCadenceMatch {
		t.Errorf("reason = %q", action.Verdict.Reason)
	}

	mapSchedule.State.LastFired = monday
	action, err = Decide(context.Background(), discardLogger(), schedules, at(monday, "1900"))
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if !action.None() {
		t.Errorf("third tick fired %q, want nothing", action.Category())
	}
}

func TestDecideNothingDue(t *testing.T) {
	schedules := []*Schedule{
		NewSchedule(Blueprint, mondayRule(Weekly)),
		NewSchedule(Map, mondayRule(FirstWeekday)),
	}
	action, err := Decide(context.Background(), discardLogger(), schedules, at(date(2024, time.January, 17), "2300"))
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if !action.None() || action.Category() != "" {
		t.Errorf("action = %+v, want none", action)
	}
}

func TestDecideStopsAtFirstFire(t *testing.T) {
	// A broken map rule is never evaluated when the blueprint fires.
	broken := Rule{
		Types: []WipeType{WipeType(42)},
		Days:  []calendar.Weekday{calendar.Monday},
		Time:  "0000",
		First: date(2023, time.January, 2),
	}
	schedules := []*Schedule{
		NewSchedule(Blueprint, mondayRule(Weekly)),
		NewSchedule(Map, broken),
	}

	action, err := Decide(context.Background(), discardLogger(), schedules, at(date(2024, time.January, 15), "1900"))
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if action.Category() != Blueprint {
		t.Fatalf("fired %q, want blueprint", action.Category())
	}

	// Once the blueprint is done for the day the map rule is reached
	// and the invariant violation surfaces.
	schedules[0].State.LastFired = date(2024, time.January, 15)
	_, err = Decide(context.Background(), discardLogger(), schedules, at(date(2024, time.January, 15), "1900"))
	if !errors.Is(err, ErrUnknownWipeType) {
		t.Fatalf("Decide error = %v, want ErrUnknownWipeType", err)
	}
}
