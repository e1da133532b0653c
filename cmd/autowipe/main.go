// Copyright 2026 The Autowipe Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/autowipe/autowipe/lib/clock"
	"github.com/autowipe/autowipe/lib/config"
	"github.com/autowipe/autowipe/lib/logging"
	"github.com/autowipe/autowipe/lib/process"
	"github.com/autowipe/autowipe/lib/runner"
	"github.com/autowipe/autowipe/lib/version"
)

func main() {
	process.Exit(run(os.Args[1:]))
}

func run(args []string) error {
	directory, err := executableDirectory()
	if err != nil {
		return err
	}

	cli, err := parseArgs(args, directory, os.Stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}
	if cli.showVersion {
		fmt.Println(version.Full())
		return nil
	}

	settings, err := cli.config.Resolve()
	if err != nil {
		return process.WithCode(process.ExitParseArgsFailed,
			fmt.Errorf("invalid configuration from %s: %w", cli.source(), err))
	}

	clk := clock.Real()
	logger, closeLog, err := newLogger(settings.Log, os.Stdout, clk)
	if err != nil {
		return process.WithCode(process.ExitParseArgsFailed, err)
	}
	defer closeLog()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("autowipe starting",
		"version", version.Info(),
		"configuration", cli.source(),
		"pid", os.Getpid(),
	)
	for _, warning := range settings.Warnings {
		logger.Warn(warning)
	}
	logging.Trace(ctx, logger, "current settings", "settings", settings)

	wipeRunner := runner.New(logger, runner.Options{Timeout: settings.CommandTimeout})
	daemon := newDaemon(settings, clk, logger, wipeRunner)
	return serve(ctx, daemon, logger)
}

// serve runs daemon until ctx is done. An error that stops the daemon
// is logged as fatal and carries the exit code main reports for it.
func serve(ctx context.Context, daemon *Daemon, logger *slog.Logger) error {
	err := daemon.Run(ctx)
	if err == nil {
		return nil
	}
	logging.Fatal(ctx, logger, "autowipe stopped", "error", err)
	if errors.Is(err, errWipeExhausted) {
		return process.WithCode(process.ExitWipeFailed, err)
	}
	return err
}

// newLogger builds the process logger from the log settings. The
// returned close function flushes and closes the log file, if any.
func newLogger(settings config.LogSettings, stdout io.Writer, clk clock.Clock) (*slog.Logger, func() error, error) {
	options := logging.Options{
		Verbosity: settings.Verbosity,
		Format:    settings.Format,
		Stdout:    stdout,
	}
	closeLog := func() error { return nil }

	if settings.File != "" {
		file, err := logging.OpenDailyFile(settings.File, logging.DailyFileOptions{
			AppendDate: settings.AppendDate,
			Compress:   settings.Compress,
			Clock:      clk,
		})
		if err != nil {
			return nil, nil, err
		}
		options.File = file
		closeLog = file.Close
	}

	logger, err := logging.New(options)
	if err != nil {
		closeLog()
		return nil, nil, err
	}
	return logger, closeLog, nil
}

// executableDirectory returns the directory of the running binary,
// with symlinks resolved. Default command and log paths live there.
func executableDirectory() (string, error) {
	executable, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locating executable: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(executable)
	if err != nil {
		return "", fmt.Errorf("resolving executable path: %w", err)
	}
	return filepath.Dir(resolved), nil
}
