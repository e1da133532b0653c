// Copyright 2026 The Autowipe Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/autowipe/autowipe/lib/config"
	"github.com/autowipe/autowipe/lib/process"
)

// minFlagIntervalSeconds is the smallest --interval accepted on the
// command line. Configuration files may go down to one second.
const minFlagIntervalSeconds = 5

// invocation is the parsed command line.
type invocation struct {
	// configPath is the -c/--configuration file, or empty when the
	// configuration came from flags.
	configPath  string
	showVersion bool
	config      *config.Config
}

// source describes where the configuration came from, for the startup
// log line.
func (i *invocation) source() string {
	if i.configPath != "" {
		return i.configPath
	}
	return "command line"
}

// parseArgs parses the command line. With -c/--configuration the file
// is loaded and every other configuration flag is ignored. Syntax
// errors carry process.ExitArgumentError; configuration problems carry
// process.ExitParseArgsFailed.
func parseArgs(args []string, executableDirectory string, output io.Writer) (*invocation, error) {
	defaults := config.Default(executableDirectory)
	flags := pflag.NewFlagSet("autowipe", pflag.ContinueOnError)
	flags.SetOutput(output)
	flags.SortFlags = false

	var (
		blueprintDays    = flags.IntSliceP("bp-wipe-days", "B", nil, "blueprint wipe weekdays, 1 = Monday ... 7 = Sunday (required)")
		mapDays          = flags.IntSliceP("map-wipe-days", "M", nil, "map wipe weekdays, 1 = Monday ... 7 = Sunday (required)")
		blueprintTime    = flags.StringP("bp-wipe-time", "T", "", "earliest blueprint wipe time as HHMM (required)")
		mapTime          = flags.StringP("map-wipe-time", "t", "", "earliest map wipe time as HHMM (required)")
		blueprintTypes   = flags.IntSlice("bp-wipe-types", nil, "blueprint wipe types: 1 weekly, 2 biweekly, 3-7 first to fifth weekday of month (required)")
		mapTypes         = flags.IntSlice("map-wipe-types", nil, "map wipe types: 1 weekly, 2 biweekly, 3-7 first to fifth weekday of month (required)")
		firstBlueprint   = flags.String("first-bp-wipe", "", "date of the first blueprint wipe, in --date-format (required)")
		firstMap         = flags.String("first-map-wipe", "", "date of the first map wipe, in --date-format (required)")
		configPath       = flags.StringP("configuration", "c", "", "configuration file; when set every other configuration flag is ignored")
		interval         = flags.IntP("interval", "i", int(defaults.WipeCheckIntervalSeconds), fmt.Sprintf("seconds between wipe checks, at least %d", minFlagIntervalSeconds))
		dateFormat       = flags.String("date-format", defaults.DateParseFormat, "strptime format of --first-bp-wipe and --first-map-wipe")
		blueprintCommand = flags.String("bp-wipe-command", defaults.BlueprintWipeCommand, "blueprint wipe command")
		mapCommand       = flags.String("map-wipe-command", defaults.MapWipeCommand, "map wipe command")
		logFile          = flags.String("log-file-location", defaults.LogFileLocation, "log file; its directory must exist")
		logLevel         = flags.Int("log-level", int(defaults.LogLevel), "log verbosity, 1 (FATAL) to 6 (TRACE)")
		timeZone         = flags.String("time-zone", "", "IANA time zone the schedule is evaluated in (default local)")
		retries          = flags.Int("retries", int(defaults.WipeCommandRetriesOnFail), "retries after a failed wipe command before exiting, -1 for unlimited")
		appendDate       = flags.Bool("append-date-to-logfile-name", defaults.AppendDateToLogFileName, "write to a new log file each day, named with the date")
		logFormat        = flags.String("log-format", defaults.LogFormat, "log format: text, json, or auto")
		compressRotated  = flags.Bool("compress-rotated-logs", defaults.CompressRotatedLogs, "gzip the previous day's log file")
		commandTimeout   = flags.Int("wipe-command-timeout", int(defaults.WipeCommandTimeoutSeconds), "seconds before a wipe command is killed, 0 for no limit")
		showVersion      = flags.Bool("version", false, "print version information and exit")
	)

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, err
		}
		return nil, process.WithCode(process.ExitArgumentError, err)
	}
	if flags.NArg() > 0 {
		return nil, process.WithCode(process.ExitArgumentError,
			fmt.Errorf("unexpected arguments: %q", flags.Args()))
	}

	result := &invocation{showVersion: *showVersion}
	if result.showVersion {
		return result, nil
	}

	if *configPath != "" {
		cfg, err := config.LoadFile(*configPath, executableDirectory)
		if err != nil {
			return nil, process.WithCode(process.ExitParseArgsFailed, err)
		}
		result.configPath = *configPath
		result.config = cfg
		return result, nil
	}

	if *interval < minFlagIntervalSeconds {
		return nil, process.WithCode(process.ExitParseArgsFailed,
			fmt.Errorf("--interval must be at least %d seconds, got %d", minFlagIntervalSeconds, *interval))
	}
	if flags.Changed("log-file-location") {
		directory := filepath.Dir(*logFile)
		if info, err := os.Stat(directory); err != nil || !info.IsDir() {
			return nil, process.WithCode(process.ExitParseArgsFailed,
				fmt.Errorf("--log-file-location: directory %q does not exist", directory))
		}
	}

	cfg := defaults
	cfg.BlueprintWipeDays = config.IntList(*blueprintDays)
	cfg.MapWipeDays = config.IntList(*mapDays)
	cfg.BlueprintWipeTime = *blueprintTime
	cfg.MapWipeTime = *mapTime
	cfg.BlueprintWipeTypes = config.IntList(*blueprintTypes)
	cfg.MapWipeTypes = config.IntList(*mapTypes)
	cfg.FirstBlueprintWipe = *firstBlueprint
	cfg.FirstMapWipe = *firstMap
	cfg.DateParseFormat = *dateFormat
	cfg.WipeCheckIntervalSeconds = config.Integer(*interval)
	cfg.BlueprintWipeCommand = *blueprintCommand
	cfg.MapWipeCommand = *mapCommand
	cfg.LogFileLocation = *logFile
	cfg.LogLevel = config.Integer(*logLevel)
	cfg.TimeZone = *timeZone
	cfg.WipeCommandRetriesOnFail = config.Integer(*retries)
	cfg.AppendDateToLogFileName = *appendDate
	cfg.LogFormat = *logFormat
	cfg.CompressRotatedLogs = *compressRotated
	cfg.WipeCommandTimeoutSeconds = config.Integer(*commandTimeout)
	result.config = cfg
	return result, nil
}
