// Copyright 2026 The Autowipe Authors
// SPDX-License-Identifier: Apache-2.0

package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// ErrEmptyCommand is returned by Run for a command with no words.
var ErrEmptyCommand = errors.New("empty wipe command")

// ExitError reports a command that ran to completion with a non-zero
// exit status.
type ExitError struct {
	Command string
	Code    int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("wipe command %q exited with status %d", e.Command, e.Code)
}

// Options configures a Runner.
type Options struct {
	// Timeout bounds each command. Zero means no limit.
	Timeout time.Duration

	// WaitDelay bounds how long Run keeps reading output after the
	// command has exited or been killed, for children that detached
	// and still hold stdout or stderr. Defaults to five seconds.
	WaitDelay time.Duration
}

// Runner runs wipe commands and streams their output into a logger.
type Runner struct {
	logger  *slog.Logger
	options Options
}

// New returns a Runner logging through logger.
func New(logger *slog.Logger, options Options) *Runner {
	if options.WaitDelay <= 0 {
		options.WaitDelay = 5 * time.Second
	}
	return &Runner{logger: logger, options: options}
}

// Split breaks a command string into argv the way Run does: on runs of
// whitespace, with no quoting or escaping.
func Split(command string) []string {
	return strings.Fields(command)
}

// Run executes command and blocks until it exits and all of its output
// has been logged. It returns nil only for exit status zero; otherwise
// an *ExitError, a start failure, or a timeout error.
func (r *Runner) Run(ctx context.Context, command string) error {
	argv := Split(command)
	if len(argv) == 0 {
		return ErrEmptyCommand
	}

	if r.options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.options.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	// Signals sent to the negative PID reach the command and every
	// child it spawned.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return unix.Kill(-cmd.Process.Pid, unix.SIGKILL)
	}
	cmd.WaitDelay = r.options.WaitDelay

	// Non-*os.File writers make exec copy the output itself, and
	// WaitDelay bounds that copy when a detached child keeps the pipes
	// open.
	stdout := newLineLogger(ctx, slog.LevelInfo, "stdout")
	stderr := newLineLogger(ctx, slog.LevelWarn, "stderr")
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting wipe command %q: %w", command, err)
	}
	logger := r.logger.With("pid", cmd.Process.Pid)
	stdout.setLogger(logger)
	stderr.setLogger(logger)
	logger.Debug("wipe command started", "argv", argv)

	err := cmd.Wait()
	stdout.flush()
	stderr.flush()
	code := -1
	if cmd.ProcessState != nil {
		code = cmd.ProcessState.ExitCode()
	}
	logger.Info("wipe command finished", "return_code", code)

	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return fmt.Errorf("wipe command %q timed out after %s: %w", command, r.options.Timeout, ctxErr)
		}
		return fmt.Errorf("wipe command %q interrupted: %w", command, ctxErr)
	}

	if errors.Is(err, exec.ErrWaitDelay) {
		logger.Warn("wipe command exited but left its output open; stopped reading",
			"wait_delay", r.options.WaitDelay)
		return nil
	}
	var exitError *exec.ExitError
	if errors.As(err, &exitError) {
		return &ExitError{Command: command, Code: exitError.ExitCode()}
	}
	if err != nil {
		return fmt.Errorf("waiting for wipe command %q: %w", command, err)
	}
	return nil
}
