// Copyright 2026 The Autowipe Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"log/slog"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/autowipe/autowipe/lib/calendar"
	"github.com/autowipe/autowipe/lib/clock"
	"github.com/autowipe/autowipe/lib/config"
	"github.com/autowipe/autowipe/lib/logging"
	"github.com/autowipe/autowipe/lib/process"
	"github.com/autowipe/autowipe/lib/schedule"
	"github.com/autowipe/autowipe/lib/testutil"
)

const (
	blueprintCommand = "/srv/wipe.sh bpwipe"
	mapCommand       = "/srv/wipe.sh mapwipe"
)

// fakeRunner records commands and fails according to a script.
type fakeRunner struct {
	mu       sync.Mutex
	commands []string
	// results are returned in order; once exhausted every run
	// succeeds.
	results []error
	// block, when non-nil, is waited on before each run returns.
	block chan struct{}
}

func (r *fakeRunner) Run(ctx context.Context, command string) error {
	r.mu.Lock()
	r.commands = append(r.commands, command)
	var result error
	if len(r.results) > 0 {
		result, r.results = r.results[0], r.results[1:]
	}
	block := r.block
	r.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return result
}

func (r *fakeRunner) calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.commands...)
}

// thursday is 2024-01-04, a Thursday.
var thursday = calendar.NewDate(2024, time.January, 4)

func weeklyThursday(first calendar.Date) schedule.Rule {
	return schedule.Rule{
		Types: []schedule.WipeType{schedule.Weekly},
		Days:  []calendar.Weekday{calendar.Thursday},
		Time:  "1900",
		First: first,
	}
}

func testSettings(blueprint, mapRule schedule.Rule, retries int) *config.Settings {
	return &config.Settings{
		Blueprint:        blueprint,
		Map:              mapRule,
		BlueprintCommand: blueprintCommand,
		MapCommand:       mapCommand,
		Interval:         10 * time.Second,
		Retry:            schedule.RetryPolicy{MaxRetries: retries},
		Location:         time.UTC,
	}
}

func testLogger(t *testing.T) (*slog.Logger, *testutil.LogBuffer) {
	t.Helper()
	buffer := &testutil.LogBuffer{}
	logger, err := logging.New(logging.Options{
		Verbosity: logging.MaxVerbosity,
		Format:    logging.FormatText,
		Stdout:    buffer,
	})
	if err != nil {
		t.Fatalf("logging.New: %v", err)
	}
	return logger, buffer
}

type daemonHarness struct {
	clock  *clock.FakeClock
	runner *fakeRunner
	logs   *testutil.LogBuffer
	cancel context.CancelFunc
	done   chan error
}

// startDaemon serves a daemon in the background with the fake clock
// set to start.
func startDaemon(t *testing.T, settings *config.Settings, start time.Time, runner *fakeRunner) *daemonHarness {
	t.Helper()
	logger, logs := testLogger(t)
	fake := clock.Fake(start)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	harness := &daemonHarness{clock: fake, runner: runner, logs: logs, cancel: cancel, done: make(chan error, 1)}
	daemon := newDaemon(settings, fake, logger, runner)
	go func() { harness.done <- serve(ctx, daemon, logger) }()
	return harness
}

// waitIdle blocks until the daemon is sleeping between checks.
func (h *daemonHarness) waitIdle() {
	h.clock.WaitForTimers(1)
}

func (h *daemonHarness) stop(t *testing.T) {
	t.Helper()
	h.cancel()
	if err := testutil.RequireReceive(t, h.done, 5*time.Second, "daemon did not stop"); err != nil {
		t.Errorf("Run after cancel = %v, want nil", err)
	}
}

func atUTC(day calendar.Date, hour, minute int) time.Time {
	return time.Date(day.Year, day.Month, day.Day, hour, minute, 0, 0, time.UTC)
}

func TestDaemonExhaustsRetries(t *testing.T) {
	failure := errors.New("exit status 1")
	runner := &fakeRunner{results: []error{failure, failure, failure, failure}}
	settings := testSettings(weeklyThursday(thursday), weeklyThursday(thursday.AddDays(7)), 2)

	harness := startDaemon(t, settings, atUTC(thursday, 19, 30), runner)

	err := testutil.RequireReceive(t, harness.done, 5*time.Second, "daemon did not give up")
	if !errors.Is(err, errWipeExhausted) {
		t.Fatalf("Run = %v, want errWipeExhausted", err)
	}
	if !errors.Is(err, failure) {
		t.Errorf("Run = %v, want the last command error wrapped", err)
	}
	if code := process.ExitCode(err); code != process.ExitWipeFailed {
		t.Errorf("exit code = %d, want %d", code, process.ExitWipeFailed)
	}

	want := []string{blueprintCommand, blueprintCommand, blueprintCommand}
	if got := runner.calls(); !reflect.DeepEqual(got, want) {
		t.Errorf("commands = %q, want %q", got, want)
	}
	if harness.clock.PendingCount() != 0 {
		t.Error("daemon slept between retries")
	}
	for _, line := range []string{
		"executing blueprint wipe, retry 1",
		"executing blueprint wipe, retry 2",
		"level=ERROR msg=\"blueprint wipe failed, no retries left\"",
	} {
		if !harness.logs.Contains(line) {
			t.Errorf("log missing %q:\n%s", line, harness.logs)
		}
	}
}

func TestDaemonZeroRetries(t *testing.T) {
	runner := &fakeRunner{results: []error{errors.New("boom")}}
	settings := testSettings(weeklyThursday(thursday), weeklyThursday(thursday.AddDays(7)), 0)

	harness := startDaemon(t, settings, atUTC(thursday, 19, 30), runner)

	err := testutil.RequireReceive(t, harness.done, 5*time.Second, "daemon did not give up")
	if !errors.Is(err, errWipeExhausted) {
		t.Fatalf("Run = %v, want errWipeExhausted", err)
	}
	if got := len(runner.calls()); got != 1 {
		t.Errorf("ran %d times, want 1", got)
	}
}

func TestDaemonRetrySuccessResets(t *testing.T) {
	runner := &fakeRunner{results: []error{errors.New("busy")}}
	settings := testSettings(weeklyThursday(thursday), weeklyThursday(thursday.AddDays(7)), 1)

	harness := startDaemon(t, settings, atUTC(thursday, 19, 30), runner)
	harness.waitIdle()

	want := []string{blueprintCommand, blueprintCommand}
	if got := runner.calls(); !reflect.DeepEqual(got, want) {
		t.Errorf("commands = %q, want %q", got, want)
	}
	if !harness.logs.Contains("blueprint wipe succeeded") {
		t.Errorf("success not logged:\n%s", harness.logs)
	}
	harness.stop(t)
}

func TestDaemonBlueprintBeforeMap(t *testing.T) {
	runner := &fakeRunner{}
	settings := testSettings(weeklyThursday(thursday), weeklyThursday(thursday), 2)

	harness := startDaemon(t, settings, atUTC(thursday, 19, 30), runner)
	harness.waitIdle()

	if got := runner.calls(); !reflect.DeepEqual(got, []string{blueprintCommand}) {
		t.Fatalf("first check ran %q, want only the blueprint wipe", got)
	}

	// The next check finds blueprint already done today and runs the
	// map wipe that was also due.
	harness.clock.Advance(settings.Interval)
	harness.waitIdle()
	if got := runner.calls(); !reflect.DeepEqual(got, []string{blueprintCommand, mapCommand}) {
		t.Fatalf("second check: commands = %q", got)
	}

	// Nothing else runs today.
	harness.clock.Advance(settings.Interval)
	harness.waitIdle()
	if got := len(runner.calls()); got != 2 {
		t.Errorf("third check ran a command: %q", runner.calls())
	}
	harness.stop(t)
}

func TestDaemonWaitsForWipeTime(t *testing.T) {
	runner := &fakeRunner{}
	settings := testSettings(weeklyThursday(thursday.AddDays(-7)), weeklyThursday(thursday.AddDays(7)), 2)
	settings.Interval = time.Minute

	harness := startDaemon(t, settings, atUTC(thursday, 18, 58), runner)
	harness.waitIdle()
	if got := runner.calls(); len(got) != 0 {
		t.Fatalf("ran %q before the wipe time", got)
	}

	harness.clock.Advance(time.Minute) // 18:59
	harness.waitIdle()
	if got := runner.calls(); len(got) != 0 {
		t.Fatalf("ran %q before the wipe time", got)
	}

	harness.clock.Advance(time.Minute) // 19:00
	harness.waitIdle()
	if got := runner.calls(); !reflect.DeepEqual(got, []string{blueprintCommand}) {
		t.Fatalf("commands at 19:00 = %q", got)
	}
	harness.stop(t)
}

func TestDaemonWeeklyAcrossDays(t *testing.T) {
	runner := &fakeRunner{}
	settings := testSettings(weeklyThursday(thursday), weeklyThursday(thursday.AddDays(365)), 2)
	settings.Interval = 24 * time.Hour

	harness := startDaemon(t, settings, atUTC(thursday, 20, 0), runner)
	harness.waitIdle()

	// Two weeks of daily checks at 20:00: the anchor day plus two
	// following Thursdays.
	for day := 0; day < 14; day++ {
		harness.clock.Advance(24 * time.Hour)
		harness.waitIdle()
	}
	if got := len(runner.calls()); got != 3 {
		t.Errorf("ran %d wipes over two weeks, want 3: %q", got, runner.calls())
	}
	harness.stop(t)
}

func TestDaemonStopsDuringCommand(t *testing.T) {
	runner := &fakeRunner{block: make(chan struct{})}
	settings := testSettings(weeklyThursday(thursday), weeklyThursday(thursday.AddDays(7)), 2)

	harness := startDaemon(t, settings, atUTC(thursday, 19, 30), runner)
	for len(runner.calls()) == 0 {
		time.Sleep(time.Millisecond)
	}
	harness.stop(t)
}

func TestDaemonUnknownWipeTypeIsFatal(t *testing.T) {
	runner := &fakeRunner{}
	broken := weeklyThursday(thursday.AddDays(-7))
	broken.Types = []schedule.WipeType{schedule.WipeType(9)}
	settings := testSettings(broken, weeklyThursday(thursday.AddDays(7)), 2)

	harness := startDaemon(t, settings, atUTC(thursday, 19, 30), runner)

	err := testutil.RequireReceive(t, harness.done, 5*time.Second, "daemon did not stop")
	if !errors.Is(err, schedule.ErrUnknownWipeType) {
		t.Errorf("Run = %v, want ErrUnknownWipeType", err)
	}
	if errors.Is(err, errWipeExhausted) {
		t.Error("unknown wipe type reported as retry exhaustion")
	}
	if code := process.ExitCode(err); code != process.ExitFailure {
		t.Errorf("exit code = %d, want %d", code, process.ExitFailure)
	}
	if !harness.logs.Contains(`level=FATAL msg="autowipe stopped"`) {
		t.Errorf("stop not logged as fatal:\n%s", harness.logs)
	}
	if len(runner.calls()) != 0 {
		t.Errorf("ran %q", runner.calls())
	}
}
