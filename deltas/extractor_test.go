// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package deltas

import (
	"testing"

	"github.com/stretchr/testify/require"

	"chain-node/state-history/errkind"
	"chain-node/state-history/logging"
)

type fakeTableIndex struct {
	rows map[RowID][]byte
	ids  map[RowID]RowID // row id -> owning contract_table id, for scoped tables
}

func (f *fakeTableIndex) Row(id RowID) ([]byte, RowID, bool) {
	data, ok := f.rows[id]
	if !ok {
		return nil, 0, false
	}
	return data, f.ids[id], true
}

func (f *fakeTableIndex) Rows() []RowID {
	ids := make([]RowID, 0, len(f.rows))
	for id := range f.rows {
		ids = append(ids, id)
	}
	return ids
}

type fakeUndoFrame struct {
	modified []RowID
	inserted []RowID
	removed  []RowSnapshot
}

func (f *fakeUndoFrame) ModifiedIDs() []RowID         { return f.modified }
func (f *fakeUndoFrame) NewIDs() []RowID              { return f.inserted }
func (f *fakeUndoFrame) RemovedValues() []RowSnapshot { return f.removed }

type fakeContractTableIndex struct {
	live    map[RowID][]byte
	removed map[RowID][]byte
}

func (f *fakeContractTableIndex) Live(id RowID) ([]byte, bool) {
	data, ok := f.live[id]
	return data, ok
}

func (f *fakeContractTableIndex) Removed(id RowID) ([]byte, bool) {
	data, ok := f.removed[id]
	return data, ok
}

type fakeChainDB struct {
	tables  map[Table]*fakeTableIndex
	undos   map[Table]*fakeUndoFrame
	ctables *fakeContractTableIndex
}

func newFakeChainDB() *fakeChainDB {
	db := &fakeChainDB{
		tables:  make(map[Table]*fakeTableIndex),
		undos:   make(map[Table]*fakeUndoFrame),
		ctables: &fakeContractTableIndex{live: map[RowID][]byte{}, removed: map[RowID][]byte{}},
	}
	for _, t := range Tables {
		db.tables[t] = &fakeTableIndex{rows: map[RowID][]byte{}, ids: map[RowID]RowID{}}
		db.undos[t] = &fakeUndoFrame{}
	}
	return db
}

func (db *fakeChainDB) TableIndex(t Table) TableIndex         { return db.tables[t] }
func (db *fakeChainDB) UndoFrame(t Table) UndoFrame           { return db.undos[t] }
func (db *fakeChainDB) ContractTableIndex() ContractTableIndex { return db.ctables }

func TestFreshSnapshotEmitsEveryLiveRowInOrder(t *testing.T) {
	require := require.New(t)
	db := newFakeChainDB()
	db.tables[Account].rows[1] = []byte("alice")
	db.tables[Account].rows[2] = []byte("bob")
	db.tables[Permission].rows[1] = []byte("owner")

	e := NewExtractor(logging.NoLog{})
	got, err := e.Extract(db, true)
	require.NoError(err)
	require.Len(got, 2)
	require.Equal(Account, got[0].Table)
	require.Equal(Permission, got[1].Table)
	require.Len(got[0].Rows, 2)
	for _, r := range got[0].Rows {
		require.True(r.Present)
	}
}

func TestFreshSnapshotSkipsEmptyTables(t *testing.T) {
	require := require.New(t)
	db := newFakeChainDB()
	db.tables[Account].rows[1] = []byte("alice")

	e := NewExtractor(logging.NoLog{})
	got, err := e.Extract(db, true)
	require.NoError(err)
	require.Len(got, 1)
	require.Equal(Account, got[0].Table)
}

func TestModificationUsesCurrentLiveRow(t *testing.T) {
	require := require.New(t)
	db := newFakeChainDB()
	db.tables[Account].rows[1] = []byte("alice-v2")
	db.undos[Account].modified = []RowID{1}

	e := NewExtractor(logging.NoLog{})
	got, err := e.Extract(db, false)
	require.NoError(err)
	require.Len(got, 1)
	require.Equal(Account, got[0].Table)
	require.Len(got[0].Rows, 1)
	require.True(got[0].Rows[0].Present)
	require.Equal([]byte("alice-v2"), got[0].Rows[0].Data)
}

func TestRemovalUsesPreImage(t *testing.T) {
	require := require.New(t)
	db := newFakeChainDB()
	db.undos[Account].removed = []RowSnapshot{{ID: 1, Data: []byte("alice-old")}}

	e := NewExtractor(logging.NoLog{})
	got, err := e.Extract(db, false)
	require.NoError(err)
	require.Len(got, 1)
	require.False(got[0].Rows[0].Present)
	require.Equal([]byte("alice-old"), got[0].Rows[0].Data)
}

func TestNoChangesEmitsNothing(t *testing.T) {
	require := require.New(t)
	db := newFakeChainDB()

	e := NewExtractor(logging.NoLog{})
	got, err := e.Extract(db, false)
	require.NoError(err)
	require.Empty(got)
}

func TestScopedTableResolvesOwningTableID(t *testing.T) {
	require := require.New(t)
	db := newFakeChainDB()
	db.tables[ContractRow].rows[10] = []byte("row-data")
	db.tables[ContractRow].ids[10] = 5
	db.undos[ContractRow].inserted = []RowID{10}
	db.ctables.live[5] = []byte("code.scope.table")

	e := NewExtractor(logging.NoLog{})
	got, err := e.Extract(db, false)
	require.NoError(err)
	require.Len(got, 1)
	require.Equal(ContractRow, got[0].Table)
	require.True(got[0].Rows[0].Present)
}

func TestScopedTableFallsBackToRemovedContext(t *testing.T) {
	require := require.New(t)
	db := newFakeChainDB()
	db.tables[ContractRow].rows[10] = []byte("row-data")
	db.tables[ContractRow].ids[10] = 5
	db.undos[ContractRow].inserted = []RowID{10}
	db.ctables.removed[5] = []byte("dropped-table-context")

	e := NewExtractor(logging.NoLog{})
	got, err := e.Extract(db, false)
	require.NoError(err)
	require.Len(got, 1)
}

func TestScopedTableNeitherLiveNorRemovedIsInconsistentUndo(t *testing.T) {
	require := require.New(t)
	db := newFakeChainDB()
	db.tables[ContractRow].rows[10] = []byte("row-data")
	db.tables[ContractRow].ids[10] = 5
	db.undos[ContractRow].inserted = []RowID{10}
	// db.ctables has neither live[5] nor removed[5].

	e := NewExtractor(logging.NoLog{})
	_, err := e.Extract(db, false)
	require.ErrorIs(err, errkind.InconsistentUndo)
}

func TestModifiedRowMissingFromLiveIsInconsistentUndo(t *testing.T) {
	require := require.New(t)
	db := newFakeChainDB()
	db.undos[Account].modified = []RowID{99}

	e := NewExtractor(logging.NoLog{})
	_, err := e.Extract(db, false)
	require.ErrorIs(err, errkind.InconsistentUndo)
}
