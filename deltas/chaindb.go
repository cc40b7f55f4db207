// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package deltas

// RowID identifies a single row within a table. Opaque to this package
// beyond equality; the chain database assigns and owns it.
type RowID uint64

// RowSnapshot is a row's id, its packed bytes as of some point in time, and
// (only for tables in ScopedByContractTable) the id of the contract_table
// row it belongs to.
type RowSnapshot struct {
	ID      RowID
	Data    []byte
	TableID RowID
}

// TableIndex is a read view over one table's live rows, as they stand at
// the top of the chain database's undo stack for the block being
// processed.
type TableIndex interface {
	// Row returns the current packed bytes and owning table id of the
	// live row with the given id. ok is false if no such row is live.
	Row(id RowID) (data []byte, tableID RowID, ok bool)

	// Rows returns the ids of every live row, in the table's native
	// iteration order. Used only for the fresh full-snapshot case.
	Rows() []RowID
}

// UndoFrame is the top of one table's undo stack for the block currently
// being ingested: the set of rows the chain engine touched since the last
// commit.
type UndoFrame interface {
	// ModifiedIDs returns the ids of rows that existed before this block
	// and were changed by it. The extractor re-reads their current value
	// from TableIndex rather than using any pre-image.
	ModifiedIDs() []RowID

	// NewIDs returns the ids of rows inserted during this block.
	NewIDs() []RowID

	// RemovedValues returns the last-live snapshot of every row removed
	// during this block; the row is no longer present in TableIndex, so
	// the pre-image is the only value the extractor can emit.
	RemovedValues() []RowSnapshot
}

// ContractTableIndex resolves a contract_table row id referenced by a
// scoped table's rows (§4.2's "contract-table-scoped" row packer).
type ContractTableIndex interface {
	// Live returns the packed bytes of contract_table row id if it is
	// still live.
	Live(id RowID) (data []byte, ok bool)

	// Removed returns the packed bytes of contract_table row id if it
	// was removed during the undo frame currently on top of the stack.
	Removed(id RowID) (data []byte, ok bool)
}

// ChainDatabase is the external collaborator DeltaExtractor reads from: a
// view of the chain engine's tables and undo stack at the moment an
// accepted block's undo frame sits on top. Out of scope per §1; named here
// by interface only.
type ChainDatabase interface {
	TableIndex(t Table) TableIndex
	UndoFrame(t Table) UndoFrame
	ContractTableIndex() ContractTableIndex
}
