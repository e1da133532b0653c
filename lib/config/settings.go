// Copyright 2026 The Autowipe Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ncruces/go-strftime"

	"github.com/autowipe/autowipe/lib/calendar"
	"github.com/autowipe/autowipe/lib/logging"
	"github.com/autowipe/autowipe/lib/schedule"
)

// Settings is the validated, resolved configuration. It does not
// change after startup.
type Settings struct {
	Blueprint schedule.Rule
	Map       schedule.Rule

	BlueprintCommand string
	MapCommand       string

	Interval       time.Duration
	CommandTimeout time.Duration
	Retry          schedule.RetryPolicy

	// Location is the time zone the schedule is evaluated in.
	Location *time.Location

	Log LogSettings

	// DateFormat is the strptime format the anchor dates were parsed
	// with.
	DateFormat string

	// Warnings are non-fatal problems found while resolving, such as
	// an unknown time zone. They are logged once the logger exists.
	Warnings []string
}

// LogSettings configures the process logger.
type LogSettings struct {
	// File is the log file path. Empty disables file logging.
	File       string
	AppendDate bool
	Compress   bool
	Verbosity  int
	Format     logging.Format
}

// Resolve validates c and converts it into Settings.
func (c *Config) Resolve() (*Settings, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	blueprint, err := c.rule(c.BlueprintWipeTypes, c.BlueprintWipeDays, c.BlueprintWipeTime, c.FirstBlueprintWipe)
	if err != nil {
		return nil, fmt.Errorf("blueprint schedule: %w", err)
	}
	mapRule, err := c.rule(c.MapWipeTypes, c.MapWipeDays, c.MapWipeTime, c.FirstMapWipe)
	if err != nil {
		return nil, fmt.Errorf("map schedule: %w", err)
	}

	format, err := logging.ParseFormat(c.LogFormat)
	if err != nil {
		return nil, err
	}

	settings := &Settings{
		Blueprint:        blueprint,
		Map:              mapRule,
		BlueprintCommand: c.BlueprintWipeCommand,
		MapCommand:       c.MapWipeCommand,
		Interval:         time.Duration(c.WipeCheckIntervalSeconds) * time.Second,
		CommandTimeout:   time.Duration(c.WipeCommandTimeoutSeconds) * time.Second,
		Retry:            schedule.RetryPolicy{MaxRetries: int(c.WipeCommandRetriesOnFail)},
		Log: LogSettings{
			File:       c.LogFileLocation,
			AppendDate: c.AppendDateToLogFileName,
			Compress:   c.CompressRotatedLogs,
			Verbosity:  int(c.LogLevel),
			Format:     format,
		},
		DateFormat: c.DateParseFormat,
	}
	settings.Location, settings.Warnings = resolveLocation(c.TimeZone)
	return settings, nil
}

func (c *Config) rule(types, days IntList, wipeTime, first string) (schedule.Rule, error) {
	anchor, err := ParseDate(c.DateParseFormat, first)
	if err != nil {
		return schedule.Rule{}, err
	}
	rule := schedule.Rule{
		Types: make([]schedule.WipeType, len(types)),
		Days:  make([]calendar.Weekday, len(days)),
		Time:  wipeTime,
		First: anchor,
	}
	for i, code := range types {
		rule.Types[i] = schedule.WipeType(code)
	}
	for i, day := range days {
		rule.Days[i] = calendar.Weekday(day)
	}
	return rule, rule.Validate()
}

// ParseDate parses value with the strptime format and returns its
// calendar date.
func ParseDate(format, value string) (calendar.Date, error) {
	parsed, err := strftime.Parse(format, value)
	if err != nil {
		return calendar.Date{}, fmt.Errorf("parsing date %q with format %q: %w", value, format, err)
	}
	return calendar.DateOf(parsed), nil
}

// resolveLocation loads the named zone. An empty name selects the
// local zone silently; an unknown name selects it with a warning.
func resolveLocation(name string) (*time.Location, []string) {
	if name == "" {
		return time.Local, nil
	}
	location, err := time.LoadLocation(name)
	if err != nil {
		return time.Local, []string{
			fmt.Sprintf("invalid time zone %q, using local time zone %q instead", name, time.Local.String()),
		}
	}
	return location, nil
}

// LogValue renders the settings for the startup configuration dump.
func (s *Settings) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("time_zone", s.Location.String()),
		slog.Duration("interval", s.Interval),
		slog.String("date_parse_format", s.DateFormat),
		slog.String("bp_wipe_command", s.BlueprintCommand),
		slog.String("map_wipe_command", s.MapCommand),
		slog.Any("bp_wipe_days", s.Blueprint.Days),
		slog.Any("map_wipe_days", s.Map.Days),
		slog.String("bp_wipe_time", s.Blueprint.Time),
		slog.String("map_wipe_time", s.Map.Time),
		slog.Any("bp_wipe_types", s.Blueprint.Types),
		slog.Any("map_wipe_types", s.Map.Types),
		slog.String("first_bp_wipe", s.Blueprint.First.String()),
		slog.String("first_map_wipe", s.Map.First.String()),
		slog.Int("retries", s.Retry.MaxRetries),
		slog.Duration("command_timeout", s.CommandTimeout),
		slog.String("log_file_location", s.Log.File),
		slog.Bool("append_date_to_logfile_name", s.Log.AppendDate),
		slog.Bool("compress_rotated_logs", s.Log.Compress),
		slog.Int("log_level", s.Log.Verbosity),
		slog.String("log_format", string(s.Log.Format)),
	)
}
