// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ingest implements BlockIngestor (C3) and TransactionTraceBuffer
// (C4): the glue between the chain engine's applied_transaction/
// accepted_block signals and the three history logs.
package ingest

import (
	"sync"

	"chain-node/state-history/chainid"
)

// TraceBuffer caches execution traces between the applied_transaction and
// accepted_block signals. It is transient per block: OnAcceptedBlock
// drains it to zero before returning (T1).
type TraceBuffer struct {
	mu     sync.Mutex
	traces map[chainid.ID][]byte
}

// NewTraceBuffer returns an empty TraceBuffer.
func NewTraceBuffer() *TraceBuffer {
	return &TraceBuffer{traces: make(map[chainid.ID][]byte)}
}

// Put records the serialized trace data for txID. Callers must only call
// this for traces that carry a receipt; receiptless traces are discarded
// before they ever reach the buffer.
func (b *TraceBuffer) Put(txID chainid.ID, data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.traces[txID] = data
}

// Take returns and removes the buffered trace for txID. ok is false if no
// trace was ever recorded for txID, or it was already taken.
func (b *TraceBuffer) Take(txID chainid.ID) (data []byte, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok = b.traces[txID]
	delete(b.traces, txID)
	return data, ok
}

// Clear empties the buffer outright, dropping any trace that was recorded
// for a transaction that never made it into an accepted block (e.g. one
// that was only ever speculatively executed).
func (b *TraceBuffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.traces = make(map[chainid.ID][]byte)
}

// Len reports how many traces are currently buffered.
func (b *TraceBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.traces)
}
