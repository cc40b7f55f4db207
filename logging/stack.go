// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package logging

import "runtime"

// Stacktrace renders the current goroutine's stack (or every goroutine's,
// if Global is set) for inclusion in a fatal log line.
type Stacktrace struct {
	Global bool
}

func (st Stacktrace) String() string {
	buf := make([]byte, 1<<16)
	n := runtime.Stack(buf, st.Global)
	return string(buf[:n])
}
