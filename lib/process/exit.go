// Copyright 2026 The Autowipe Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Exit codes. Service managers and wrapper scripts match on these.
const (
	ExitOK = 0
	// ExitFailure is any error without a more specific code.
	ExitFailure = 1
	// ExitArgumentError: the command line could not be parsed.
	ExitArgumentError = 2
	// ExitParseArgsFailed: arguments or configuration file parsed
	// but did not produce a valid configuration.
	ExitParseArgsFailed = 3
	// ExitWipeFailed: a wipe command failed more often than the retry
	// budget allows.
	ExitWipeFailed = 4
)

// Error attaches an exit code to an error.
type Error struct {
	Code int
	Err  error
}

func (e *Error) Error() string { return e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

// WithCode wraps err so that ExitCode reports code. A nil err stays
// nil.
func WithCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Err: err}
}

// ExitCode returns the code attached to err with WithCode, ExitOK for
// nil, and ExitFailure otherwise.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	return ExitFailure
}

// Report writes "error: err" to w unless err is nil.
func Report(w io.Writer, err error) {
	if err != nil {
		fmt.Fprintf(w, "error: %v\n", err)
	}
}

// Exit reports err on stderr and exits with its ExitCode. Use it in
// main() for errors from run() that the logger may not have recorded.
func Exit(err error) {
	Report(os.Stderr, err)
	os.Exit(ExitCode(err))
}
