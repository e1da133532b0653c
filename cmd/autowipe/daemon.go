// Copyright 2026 The Autowipe Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/autowipe/autowipe/lib/calendar"
	"github.com/autowipe/autowipe/lib/clock"
	"github.com/autowipe/autowipe/lib/config"
	"github.com/autowipe/autowipe/lib/logging"
	"github.com/autowipe/autowipe/lib/schedule"
)

// errWipeExhausted marks a wipe that failed more often than the retry
// policy allows.
var errWipeExhausted = errors.New("wipe retries exhausted")

// commandRunner executes one wipe command. *runner.Runner in
// production.
type commandRunner interface {
	Run(ctx context.Context, command string) error
}

// Daemon is the polling loop. It owns the per-category schedule state
// and is not safe for concurrent use.
type Daemon struct {
	clock    clock.Clock
	logger   *slog.Logger
	runner   commandRunner
	location *time.Location
	interval time.Duration
	retry    schedule.RetryPolicy

	// schedules are evaluated in order; the first due one runs.
	schedules []*schedule.Schedule
	commands  map[schedule.Category]string
}

func newDaemon(settings *config.Settings, clk clock.Clock, logger *slog.Logger, runner commandRunner) *Daemon {
	return &Daemon{
		clock:    clk,
		logger:   logger,
		runner:   runner,
		location: settings.Location,
		interval: settings.Interval,
		retry:    settings.Retry,
		schedules: []*schedule.Schedule{
			schedule.NewSchedule(schedule.Blueprint, settings.Blueprint),
			schedule.NewSchedule(schedule.Map, settings.Map),
		},
		commands: map[schedule.Category]string{
			schedule.Blueprint: settings.BlueprintCommand,
			schedule.Map:       settings.MapCommand,
		},
	}
}

// Run checks for due wipes every interval until ctx is cancelled,
// which is a clean shutdown and returns nil. A failed wipe is retried
// without waiting. Run returns an error wrapping errWipeExhausted when
// the retry budget runs out, and any error that makes evaluation
// impossible.
func (d *Daemon) Run(ctx context.Context) error {
	d.logger.Info("watching for wipes",
		"interval", d.interval,
		"time_zone", d.location.String(),
		"retries", d.retry.MaxRetries,
	)

	for {
		next, err := d.tick(ctx)
		if ctx.Err() != nil {
			d.logger.Info("shutting down")
			return nil
		}
		if err != nil {
			return err
		}
		if next == schedule.NextRetry {
			continue
		}

		select {
		case <-ctx.Done():
			d.logger.Info("shutting down")
			return nil
		case <-d.clock.After(d.interval):
		}
	}
}

// tick evaluates the schedules once and runs at most one wipe.
func (d *Daemon) tick(ctx context.Context) (schedule.Next, error) {
	now := schedule.EvaluationAt(d.clock.Now(), d.location)

	action, err := schedule.Decide(ctx, d.logger, d.schedules, now)
	if err != nil {
		return schedule.NextAbort, err
	}
	if action.None() {
		d.logger.Debug("no wipe due", "date", now.Date, "time", now.Time)
		return schedule.NextSleep, nil
	}
	return d.execute(ctx, action)
}

func (d *Daemon) execute(ctx context.Context, action schedule.Action) (schedule.Next, error) {
	category := action.Category()
	state := action.Schedule.State
	command := d.commands[category]
	logger := d.logger.With("category", category)

	if err := state.Request(); err != nil {
		return schedule.NextAbort, err
	}
	if state.Failures == 0 {
		logger.Info(fmt.Sprintf("executing %s wipe", category),
			"command", command,
			"wipe_type", action.Verdict.Type,
			"reason", string(action.Verdict.Reason),
		)
	} else {
		logger.Info(fmt.Sprintf("executing %s wipe, retry %d", category, state.Failures),
			"command", command,
		)
	}

	runErr := d.runner.Run(ctx, command)
	if ctx.Err() != nil {
		return schedule.NextAbort, ctx.Err()
	}

	today := calendar.DateIn(d.clock.Now(), d.location)
	next, err := state.Complete(runErr == nil, today, d.retry)
	if err != nil {
		return schedule.NextAbort, err
	}

	switch next {
	case schedule.NextSleep:
		logger.Info(fmt.Sprintf("%s wipe succeeded", category), "last_wipe", state.LastFired)
	case schedule.NextRetry:
		logger.Warn(fmt.Sprintf("%s wipe failed, retrying", category),
			"failures", state.Failures,
			"error", runErr,
		)
	case schedule.NextAbort:
		logger.Error(fmt.Sprintf("%s wipe failed, no retries left", category),
			"failures", state.Failures,
			"error", runErr,
		)
		return next, fmt.Errorf("%w: %s wipe failed %d times: %w", errWipeExhausted, category, state.Failures, runErr)
	}
	logging.Trace(ctx, logger, "wipe state",
		"phase", state.Phase.String(),
		"failures", state.Failures,
		"last_wipe", state.LastFired,
	)
	return next, nil
}
