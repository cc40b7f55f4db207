// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package history

import (
	"errors"
	"fmt"

	"chain-node/state-history/errkind"
)

var (
	errHeaderSize      = errors.New("history: header buffer has the wrong length")
	errIndexRecordSize = errors.New("history: index record buffer has the wrong length")
)

func corruptionf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{errkind.LogCorruption}, args...)...)
}

func gapf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{errkind.LogContract}, args...)...)
}
