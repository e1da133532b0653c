// Copyright 2026 The Autowipe Authors
// SPDX-License-Identifier: Apache-2.0

// Package version provides build version information for the autowipe
// binary.
//
// Commit and build time are injected at build time via -ldflags, for
// example:
//
//	go build -ldflags "-X github.com/autowipe/autowipe/lib/version.GitCommit=$(git rev-parse --short HEAD)"
package version
