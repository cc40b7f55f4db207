// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ingest

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"chain-node/state-history/chainid"
	"chain-node/state-history/deltas"
)

// Trace is an opaque, already-serialized execution trace for one
// transaction, as produced by the chain engine.
type Trace struct {
	TxID chainid.ID
	Data []byte
}

// framePayload prepends the u32 size prefix every trace-log and
// chain-state-log entry carries ahead of its serialized vector (§3).
func framePayload(serialized []byte) []byte {
	out := make([]byte, 4+len(serialized))
	binary.LittleEndian.PutUint32(out[:4], uint32(len(serialized)))
	copy(out[4:], serialized)
	return out
}

// UnframePayload reads the u32 size prefix a trace-log or chain-state-log
// entry's payload carries ahead of its serialized vector, and returns the
// vector bytes that follow it (§6). SessionProtocol uses this to recover
// the raw vector it forwards to clients without parsing it.
func UnframePayload(r io.Reader) ([]byte, error) {
	var u32 [4]byte
	if _, err := io.ReadFull(r, u32[:]); err != nil {
		return nil, fmt.Errorf("ingest: reading payload size prefix: %w", err)
	}
	size := binary.LittleEndian.Uint32(u32[:])
	data := make([]byte, size)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("ingest: reading framed payload: %w", err)
	}
	return data, nil
}

// marshalTraces packs a block's present traces, in block order, as a
// count-prefixed vector of (tx id, length-prefixed data) entries.
func marshalTraces(traces []Trace) []byte {
	var buf bytes.Buffer
	var u32 [4]byte

	binary.LittleEndian.PutUint32(u32[:], uint32(len(traces)))
	buf.Write(u32[:])

	for _, tr := range traces {
		buf.Write(tr.TxID[:])
		binary.LittleEndian.PutUint32(u32[:], uint32(len(tr.Data)))
		buf.Write(u32[:])
		buf.Write(tr.Data)
	}
	return buf.Bytes()
}

// marshalDeltas packs a block's table deltas, in extractor order, as a
// count-prefixed vector of (name, rows) entries, each row a
// (present, length-prefixed data) pair.
func marshalDeltas(ds []deltas.Delta) []byte {
	var buf bytes.Buffer
	var u32 [4]byte
	var u16 [2]byte

	binary.LittleEndian.PutUint32(u32[:], uint32(len(ds)))
	buf.Write(u32[:])

	for _, d := range ds {
		name := []byte(d.Table)
		binary.LittleEndian.PutUint16(u16[:], uint16(len(name)))
		buf.Write(u16[:])
		buf.Write(name)

		binary.LittleEndian.PutUint32(u32[:], uint32(len(d.Rows)))
		buf.Write(u32[:])

		for _, row := range d.Rows {
			if row.Present {
				buf.WriteByte(1)
			} else {
				buf.WriteByte(0)
			}
			binary.LittleEndian.PutUint32(u32[:], uint32(len(row.Data)))
			buf.Write(u32[:])
			buf.Write(row.Data)
		}
	}
	return buf.Bytes()
}
