// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package deltas

import (
	"encoding/binary"
	"fmt"

	"chain-node/state-history/errkind"
)

// packRow implements §4.2's two row-packer specializations.
//
// plain tables pack the row alone. contract-table-scoped tables first
// resolve the row's owning contract_table id: if that table is still live,
// its bytes are used; if it was removed in this same undo frame, the
// removed snapshot is used instead; if neither exists the undo stack is
// inconsistent.
func packRow(t Table, row RowSnapshot, tables ContractTableIndex) ([]byte, error) {
	if !ScopedByContractTable[t] {
		return row.Data, nil
	}

	if ctx, ok := tables.Live(row.TableID); ok {
		return joinContext(ctx, row.Data), nil
	}
	if ctx, ok := tables.Removed(row.TableID); ok {
		return joinContext(ctx, row.Data), nil
	}
	return nil, fmt.Errorf("%w: table id %d referenced by row %d in %s is neither live nor removed", errkind.InconsistentUndo, row.TableID, row.ID, t)
}

// joinContext frames two opaque blobs: the owning contract_table's context
// behind a u32 length prefix, then the row itself, unprefixed, running to
// the end. The wire format of the blobs themselves is owned by the chain
// database, not this package.
func joinContext(ctx, row []byte) []byte {
	out := make([]byte, 4+len(ctx)+len(row))
	binary.LittleEndian.PutUint32(out[0:4], uint32(len(ctx)))
	copy(out[4:4+len(ctx)], ctx)
	copy(out[4+len(ctx):], row)
	return out
}
