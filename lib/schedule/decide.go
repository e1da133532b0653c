// Copyright 2026 The Autowipe Authors
// SPDX-License-Identifier: Apache-2.0

package schedule

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/autowipe/autowipe/lib/logging"
)

// Category identifies a kind of wipe.
type Category string

const (
	// Blueprint wipes reset player blueprints. Evaluated first.
	Blueprint Category = "blueprint"
	// Map wipes reset the world map.
	Map Category = "map"
)

// Schedule binds a category to its rule and state.
type Schedule struct {
	Category Category
	Rule     Rule
	State    *State
}

// NewSchedule returns a schedule with fresh idle state.
func NewSchedule(category Category, rule Rule) *Schedule {
	return &Schedule{Category: category, Rule: rule, State: &State{}}
}

// Action is the result of Decide. The zero Action means nothing is
// due.
type Action struct {
	Schedule *Schedule
	Verdict  Verdict
}

// None reports whether no wipe is due.
func (a Action) None() bool { return a.Schedule == nil }

// Category returns the category that fired, or "" for the zero Action.
func (a Action) Category() Category {
	if a.Schedule == nil {
		return ""
	}
	return a.Schedule.Category
}

// Decide evaluates schedules in order and returns the first one that
// fires. Later schedules are not evaluated once one fires, so at most
// one wipe runs per tick.
func Decide(ctx context.Context, logger *slog.Logger, schedules []*Schedule, now Evaluation) (Action, error) {
	for _, schedule := range schedules {
		logger.Debug("checking for wipes", "category", schedule.Category)

		verdict, err := schedule.Rule.Evaluate(schedule.State.LastFired, now)
		if err != nil {
			return Action{}, fmt.Errorf("evaluating %s schedule: %w", schedule.Category, err)
		}

		logger.Log(ctx, logging.LevelTrace, "wipe decision",
			"category", schedule.Category,
			"fire", verdict.Fire,
			"reason", string(verdict.Reason),
			"wipe_type", verdict.Type,
			"date", now.Date,
			"time", now.Time,
			"first_wipe", schedule.Rule.First,
			"last_wipe", schedule.State.LastFired,
			"candidate_week", verdict.CandidateWeek,
			"baseline_week", verdict.BaselineWeek,
		)

		if verdict.Fire {
			return Action{Schedule: schedule, Verdict: verdict}, nil
		}
	}
	return Action{}, nil
}
