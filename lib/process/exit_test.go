// Copyright 2026 The Autowipe Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
)

func TestExitCode(t *testing.T) {
	base := errors.New("bp wipe failed")
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"plain", base, ExitFailure},
		{"coded", WithCode(ExitWipeFailed, base), ExitWipeFailed},
		{"wrapped coded", fmt.Errorf("running daemon: %w", WithCode(ExitParseArgsFailed, base)), ExitParseArgsFailed},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := ExitCode(test.err); got != test.want {
				t.Errorf("ExitCode = %d, want %d", got, test.want)
			}
		})
	}
}

func TestWithCode(t *testing.T) {
	if WithCode(ExitArgumentError, nil) != nil {
		t.Error("WithCode(nil) is not nil")
	}
	base := errors.New("unknown flag")
	err := WithCode(ExitArgumentError, base)
	if !errors.Is(err, base) {
		t.Error("WithCode hides the wrapped error")
	}
	if err.Error() != "unknown flag" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestReport(t *testing.T) {
	var buffer bytes.Buffer
	Report(&buffer, nil)
	if buffer.Len() != 0 {
		t.Errorf("Report(nil) wrote %q", buffer.String())
	}
	Report(&buffer, errors.New("boom"))
	if buffer.String() != "error: boom\n" {
		t.Errorf("Report wrote %q", buffer.String())
	}
}
