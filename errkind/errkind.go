// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package errkind declares the sentinel error kinds used across the
// state-history subsystem. An error of one of these kinds wraps its kind
// with fmt.Errorf("%w: ...", kind, ...) so callers can classify failures
// with errors.Is instead of string matching; plain I/O and setup errors
// (opening files, binding the listener) are returned without a kind.
package errkind

import "errors"

var (
	// ConfigError covers malformed endpoints, a missing chain plugin, or a
	// bad state-history directory. Fatal at startup.
	ConfigError = errors.New("config error")

	// LogCorruption covers an inconsistent index/data file pairing
	// discovered at open.
	LogCorruption = errors.New("log corruption")

	// LogContract covers a write gap, an underflow, an attempt to read
	// outside [begin_block, end_block), or an oversized payload. Fatal to
	// the ingestion path; it indicates a programmer error upstream.
	LogContract = errors.New("log contract violation")

	// IngestionWarning covers a missing trace for a transaction in an
	// accepted block. Logged and skipped, never fatal.
	IngestionWarning = errors.New("ingestion warning")

	// SessionError covers any protocol, decode, or socket error on a
	// client connection. Closes only that session.
	SessionError = errors.New("session error")

	// InconsistentUndo covers a table id referenced by a row that is
	// neither live nor present in the undo frame's removed set. Fatal;
	// it indicates data corruption in the chain database.
	InconsistentUndo = errors.New("inconsistent undo")
)
