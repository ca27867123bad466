// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the hubrun command line interface.
//
// Parsing is deliberately hand-rolled: the surface is small and stable,
// and keeping it in one switch makes the help text and the parser easy
// to diff against each other.
//
// # Commands
//
//   - list, start, pause, resume, cancel, delete: download management
//   - status: daemon health and summary
//   - history: past completed and deleted downloads
//   - fitness: will a model fit this machine
//   - config: show/get/set/path
//
// Every command supports --json for scripting; output then uses the
// JSONResponse envelope. Colors follow TTY detection and NO_COLOR.
package cli
