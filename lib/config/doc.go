// Copyright 2026 The Autowipe Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads and validates autowipe configuration.
//
// Configuration comes from exactly one source: a file named with
// -c/--configuration, or the command-line flags. The two are never
// merged. Both produce a [Config], which mirrors the file keys one to
// one. [Config.Resolve] validates it and converts it into the
// immutable [Settings] the daemon runs with: parsed dates, schedule
// rules, durations and a time zone.
//
// Files ending in .yaml or .yml are decoded as YAML. Anything else is
// decoded as JSON, with comments and trailing commas allowed:
//
//	{
//	    // Thursdays at 19:00, every week.
//	    "bp_wipe_days": [4],
//	    "bp_wipe_time": "1900",
//	    "bp_wipe_types": [1],
//	    "first_bp_wipe": "2024-01-04",
//	    ...
//	}
//
// Keys left out of a file keep the values from [Default]. The schedule
// keys have no defaults and must always be present.
package config
