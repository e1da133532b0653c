// Copyright 2026 The Autowipe Authors
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"

	"github.com/autowipe/autowipe/lib/calendar"
	"github.com/autowipe/autowipe/lib/clock"
)

// DailyFileOptions configures a DailyFile.
type DailyFileOptions struct {
	// AppendDate inserts the current date into the file name and
	// switches files when the date changes. When false, path is used
	// as is for the whole process lifetime.
	AppendDate bool

	// Compress gzips a dated file after switching away from it and
	// removes the uncompressed original.
	Compress bool

	// Clock supplies the date. Defaults to clock.Real().
	Clock clock.Clock
}

// DailyFile is an io.WriteCloser appending to a date-stamped log file.
// Safe for concurrent use.
type DailyFile struct {
	mu      sync.Mutex
	path    string
	options DailyFileOptions

	file        *os.File
	currentPath string
	currentDate calendar.Date

	// rotateFailure is the last reported error from switching files.
	rotateFailure string
}

// OpenDailyFile opens (creating if needed) the log file for today.
func OpenDailyFile(path string, options DailyFileOptions) (*DailyFile, error) {
	if options.Clock == nil {
		options.Clock = clock.Real()
	}
	dailyFile := &DailyFile{path: path, options: options}
	today := calendar.DateOf(options.Clock.Now())
	file, current, err := dailyFile.openFor(today)
	if err != nil {
		return nil, err
	}
	dailyFile.file, dailyFile.currentPath, dailyFile.currentDate = file, current, today
	return dailyFile, nil
}

// DatedPath inserts day before the extension of path's base name:
// "/var/log/autowipe.log" becomes "/var/log/autowipe.2024-01-15.log",
// and a name without an extension gets the date appended.
func DatedPath(path string, day calendar.Date) string {
	directory, base := filepath.Split(path)
	extension := filepath.Ext(base)
	stem := strings.TrimSuffix(base, extension)
	if stem == "" {
		// A dot file such as ".log" has no stem; date it as a whole.
		stem, extension = base, ""
	}
	return directory + stem + "." + day.String() + extension
}

// Path returns the file currently being written.
func (f *DailyFile) Path() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.currentPath
}

// Write appends p to today's file, switching files first if the date
// changed since the previous write.
func (f *DailyFile) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.file == nil {
		return 0, os.ErrClosed
	}
	if f.options.AppendDate {
		today := calendar.DateOf(f.options.Clock.Now())
		if today != f.currentDate {
			if err := f.rotateLocked(today); err != nil {
				// Stay on the current file; each distinct failure
				// is reported once.
				if message := err.Error(); message != f.rotateFailure {
					f.rotateFailure = message
					fmt.Fprintf(f.file, "switching log file for %s: %v\n", today, err)
				}
			}
		}
	}
	return f.file.Write(p)
}

// Close closes the current file. Further writes fail.
func (f *DailyFile) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.file == nil {
		return nil
	}
	err := f.file.Close()
	f.file = nil
	return err
}

func (f *DailyFile) openFor(day calendar.Date) (*os.File, string, error) {
	path := f.path
	if f.options.AppendDate {
		path = DatedPath(f.path, day)
	}
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, "", fmt.Errorf("opening log file: %w", err)
	}
	return file, path, nil
}

// rotateLocked switches to the file for day. The new file is opened
// before the current one is closed; on failure the current file stays
// in use and currentDate is unchanged, so the next write tries again.
func (f *DailyFile) rotateLocked(day calendar.Date) error {
	file, path, err := f.openFor(day)
	if err != nil {
		return err
	}
	previous, previousFile := f.currentPath, f.file
	f.file, f.currentPath, f.currentDate = file, path, day
	f.rotateFailure = ""

	if err := previousFile.Close(); err != nil {
		fmt.Fprintf(f.file, "closing rotated log file %s: %v\n", previous, err)
		return nil
	}
	if f.options.Compress && previous != f.currentPath {
		if err := compressFile(previous); err != nil {
			// The new file is open; report through it rather than
			// failing the write that triggered the switch.
			fmt.Fprintf(f.file, "compressing rotated log file %s: %v\n", previous, err)
		}
	}
	return nil
}

// compressFile writes path+".gz" and removes path.
func compressFile(path string) error {
	source, err := os.Open(path)
	if err != nil {
		return err
	}
	defer source.Close()

	target, err := os.OpenFile(path+".gz", os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	writer, err := gzip.NewWriterLevel(target, gzip.BestCompression)
	if err != nil {
		target.Close()
		return err
	}
	writer.Name = filepath.Base(path)

	if _, err := io.Copy(writer, source); err != nil {
		writer.Close()
		target.Close()
		os.Remove(path + ".gz")
		return err
	}
	if err := writer.Close(); err != nil {
		target.Close()
		os.Remove(path + ".gz")
		return err
	}
	if err := target.Close(); err != nil {
		os.Remove(path + ".gz")
		return err
	}
	return os.Remove(path)
}
