// Copyright 2026 The Autowipe Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/autowipe/autowipe/lib/logging"
	"github.com/autowipe/autowipe/lib/schedule"
)

// Defaults for optional keys.
const (
	DefaultDateFormat        = "%Y-%m-%d"
	DefaultIntervalSeconds   = 10
	DefaultLogLevel          = logging.MaxVerbosity
	DefaultRetries           = 2
	DefaultLogFileName       = "autowipe.log"
	DefaultWipeScriptName    = "wipe.sh"
	MinFileIntervalSeconds   = 1
	UnlimitedRetries         = schedule.UnlimitedRetries
	defaultBlueprintArgument = "bpwipe"
	defaultMapArgument       = "mapwipe"
)

// Config is the raw configuration, one field per file key.
type Config struct {
	// BlueprintWipeDays lists ISO weekdays (1 = Monday ... 7 = Sunday)
	// on which blueprint wipes may happen.
	BlueprintWipeDays IntList `json:"bp_wipe_days" yaml:"bp_wipe_days"`
	MapWipeDays       IntList `json:"map_wipe_days" yaml:"map_wipe_days"`

	// BlueprintWipeTime is the earliest wall-clock time of a blueprint
	// wipe as "HHMM".
	BlueprintWipeTime string `json:"bp_wipe_time" yaml:"bp_wipe_time"`
	MapWipeTime       string `json:"map_wipe_time" yaml:"map_wipe_time"`

	// BlueprintWipeTypes lists cadence codes: 1 weekly, 2 biweekly,
	// 3-7 the first to fifth matching weekday of the month.
	BlueprintWipeTypes IntList `json:"bp_wipe_types" yaml:"bp_wipe_types"`
	MapWipeTypes       IntList `json:"map_wipe_types" yaml:"map_wipe_types"`

	// FirstBlueprintWipe is the anchor date, parsed with
	// DateParseFormat.
	FirstBlueprintWipe string `json:"first_bp_wipe" yaml:"first_bp_wipe"`
	FirstMapWipe       string `json:"first_map_wipe" yaml:"first_map_wipe"`

	// DateParseFormat is a strptime format for the anchor dates.
	DateParseFormat string `json:"date_parse_format" yaml:"date_parse_format"`

	WipeCheckIntervalSeconds Integer `json:"wipe_check_interval_seconds" yaml:"wipe_check_interval_seconds"`

	// BlueprintWipeCommand is split on whitespace and executed without
	// a shell.
	BlueprintWipeCommand string `json:"bp_wipe_command" yaml:"bp_wipe_command"`
	MapWipeCommand       string `json:"map_wipe_command" yaml:"map_wipe_command"`

	LogFileLocation string `json:"log_file_location" yaml:"log_file_location"`

	// LogLevel is the verbosity, 1 (FATAL) to 6 (TRACE).
	LogLevel Integer `json:"log_level" yaml:"log_level"`

	// TimeZone is an IANA zone name. Empty or unknown means the local
	// time zone.
	TimeZone string `json:"time_zone" yaml:"time_zone"`

	// WipeCommandRetriesOnFail is the number of retries after a failed
	// wipe command before the daemon gives up. -1 retries forever.
	WipeCommandRetriesOnFail Integer `json:"wipe_command_retries_on_fail" yaml:"wipe_command_retries_on_fail"`

	AppendDateToLogFileName bool   `json:"append_date_to_logfile_name" yaml:"append_date_to_logfile_name"`
	LogFormat               string `json:"log_format" yaml:"log_format"`
	CompressRotatedLogs     bool   `json:"compress_rotated_logs" yaml:"compress_rotated_logs"`

	// WipeCommandTimeoutSeconds bounds each wipe command. Zero means
	// no limit.
	WipeCommandTimeoutSeconds Integer `json:"wipe_command_timeout_seconds" yaml:"wipe_command_timeout_seconds"`
}

// Default returns a Config with every optional key at its default.
// Default paths are relative to executableDirectory, the directory
// holding the autowipe binary.
func Default(executableDirectory string) *Config {
	script := filepath.Join(executableDirectory, DefaultWipeScriptName)
	return &Config{
		DateParseFormat:          DefaultDateFormat,
		WipeCheckIntervalSeconds: DefaultIntervalSeconds,
		BlueprintWipeCommand:     script + " " + defaultBlueprintArgument,
		MapWipeCommand:           script + " " + defaultMapArgument,
		LogFileLocation:          filepath.Join(executableDirectory, DefaultLogFileName),
		LogLevel:                 DefaultLogLevel,
		WipeCommandRetriesOnFail: DefaultRetries,
		AppendDateToLogFileName:  true,
		LogFormat:                string(logging.FormatAuto),
	}
}

// LoadFile reads the configuration file at path over the defaults.
func LoadFile(path, executableDirectory string) (*Config, error) {
	cfg := Default(executableDirectory)
	if err := cfg.loadFile(path); err != nil {
		return nil, fmt.Errorf("loading configuration file %q: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, c)
	default:
		return json.Unmarshal(jsonc.ToJSON(data), c)
	}
}

// Validate checks the configuration for errors and reports all of
// them at once.
func (c *Config) Validate() error {
	var errs []error

	required := []struct {
		key     string
		missing bool
	}{
		{"bp_wipe_days", len(c.BlueprintWipeDays) == 0},
		{"map_wipe_days", len(c.MapWipeDays) == 0},
		{"bp_wipe_time", c.BlueprintWipeTime == ""},
		{"map_wipe_time", c.MapWipeTime == ""},
		{"bp_wipe_types", len(c.BlueprintWipeTypes) == 0},
		{"map_wipe_types", len(c.MapWipeTypes) == 0},
		{"first_bp_wipe", c.FirstBlueprintWipe == ""},
		{"first_map_wipe", c.FirstMapWipe == ""},
	}
	for _, element := range required {
		if element.missing {
			errs = append(errs, fmt.Errorf("missing configuration element %q", element.key))
		}
	}

	errs = append(errs, validateDays("bp_wipe_days", c.BlueprintWipeDays)...)
	errs = append(errs, validateDays("map_wipe_days", c.MapWipeDays)...)
	errs = append(errs, validateTypes("bp_wipe_types", c.BlueprintWipeTypes)...)
	errs = append(errs, validateTypes("map_wipe_types", c.MapWipeTypes)...)

	if c.BlueprintWipeTime != "" && !schedule.ValidTime(c.BlueprintWipeTime) {
		errs = append(errs, fmt.Errorf("bp_wipe_time %q is not HHMM", c.BlueprintWipeTime))
	}
	if c.MapWipeTime != "" && !schedule.ValidTime(c.MapWipeTime) {
		errs = append(errs, fmt.Errorf("map_wipe_time %q is not HHMM", c.MapWipeTime))
	}

	if c.DateParseFormat == "" {
		errs = append(errs, errors.New("date_parse_format must not be empty"))
	} else {
		if c.FirstBlueprintWipe != "" {
			if _, err := ParseDate(c.DateParseFormat, c.FirstBlueprintWipe); err != nil {
				errs = append(errs, fmt.Errorf("first_bp_wipe: %w", err))
			}
		}
		if c.FirstMapWipe != "" {
			if _, err := ParseDate(c.DateParseFormat, c.FirstMapWipe); err != nil {
				errs = append(errs, fmt.Errorf("first_map_wipe: %w", err))
			}
		}
	}

	if c.WipeCheckIntervalSeconds < MinFileIntervalSeconds {
		errs = append(errs, fmt.Errorf("wipe_check_interval_seconds must be at least %d, got %d",
			MinFileIntervalSeconds, c.WipeCheckIntervalSeconds))
	}

	if strings.TrimSpace(c.BlueprintWipeCommand) == "" {
		errs = append(errs, errors.New("bp_wipe_command must not be empty"))
	}
	if strings.TrimSpace(c.MapWipeCommand) == "" {
		errs = append(errs, errors.New("map_wipe_command must not be empty"))
	}

	if _, err := logging.LevelForVerbosity(int(c.LogLevel)); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	if _, err := logging.ParseFormat(c.LogFormat); err != nil {
		errs = append(errs, fmt.Errorf("log_format: %w", err))
	}

	if c.WipeCommandRetriesOnFail < UnlimitedRetries {
		errs = append(errs, fmt.Errorf("wipe_command_retries_on_fail must be %d (unlimited) or more, got %d",
			UnlimitedRetries, c.WipeCommandRetriesOnFail))
	}
	if c.WipeCommandTimeoutSeconds < 0 {
		errs = append(errs, fmt.Errorf("wipe_command_timeout_seconds must not be negative, got %d",
			c.WipeCommandTimeoutSeconds))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func validateDays(key string, days IntList) []error {
	var errs []error
	for _, day := range days {
		if day < 1 || day > 7 {
			errs = append(errs, fmt.Errorf("%s: weekday %d out of range 1-7", key, day))
		}
	}
	return errs
}

func validateTypes(key string, types IntList) []error {
	var errs []error
	for _, code := range types {
		if !schedule.WipeType(code).Valid() {
			errs = append(errs, fmt.Errorf("%s: %w %d", key, schedule.ErrUnknownWipeType, code))
		}
	}
	return errs
}

// IntList is a list of integers that also accepts numeric strings
// ("bp_wipe_days": ["4", "7"]).
type IntList []int

// UnmarshalJSON implements json.Unmarshaler.
func (l *IntList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	values := make(IntList, 0, len(raw))
	for _, element := range raw {
		number, err := parseJSONInteger(element)
		if err != nil {
			return fmt.Errorf("list element %w", err)
		}
		values = append(values, number)
	}
	*l = values
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *IntList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: expected a list of integers", node.Line)
	}
	values := make(IntList, 0, len(node.Content))
	for _, element := range node.Content {
		number, err := strconv.Atoi(strings.TrimSpace(element.Value))
		if element.Kind != yaml.ScalarNode || err != nil {
			return fmt.Errorf("line %d: list element %q is not an integer", element.Line, element.Value)
		}
		values = append(values, number)
	}
	*l = values
	return nil
}

// Integer is an int that also accepts a numeric string
// ("log_level": "5").
type Integer int

// UnmarshalJSON implements json.Unmarshaler.
func (i *Integer) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	number, err := parseJSONInteger(data)
	if err != nil {
		return fmt.Errorf("value %w", err)
	}
	*i = Integer(number)
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (i *Integer) UnmarshalYAML(node *yaml.Node) error {
	number, err := strconv.Atoi(strings.TrimSpace(node.Value))
	if node.Kind != yaml.ScalarNode || err != nil {
		return fmt.Errorf("line %d: value %q is not an integer", node.Line, node.Value)
	}
	*i = Integer(number)
	return nil
}

// parseJSONInteger decodes a JSON number or a string holding one.
func parseJSONInteger(data []byte) (int, error) {
	var number int
	if err := json.Unmarshal(data, &number); err == nil {
		return number, nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return 0, fmt.Errorf("%s is not an integer", data)
	}
	number, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer", text)
	}
	return number, nil
}
