// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package logging

import "strings"

// Sanitize escapes embedded newlines as a literal `\n` so a single log line
// can't be split by
// untrusted content (a client-supplied string finding its way into a log
// field, for instance).
func Sanitize(s string) string {
	return strings.ReplaceAll(s, "\n", "\\n")
}
