// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"sync"

	"chain-node/state-history/chainid"
	"chain-node/state-history/deltas"
	"chain-node/state-history/plugin"
)

// demoChain is a minimal reference ChainPlugin, in the spirit of
// vms/example/timestampvm: just enough of a chain to exercise the wiring in
// cmd/statehistoryd, never a stand-in for a production execution engine. It
// never calls its own callbacks; a real node drives Plugin through the
// ChainPlugin it supplies instead of this one.
type demoChain struct {
	mu  sync.Mutex
	num uint32
	id  chainid.ID
}

func newDemoChain() *demoChain {
	return &demoChain{}
}

func (c *demoChain) Subscribe(plugin.AppliedTransactionFunc, plugin.AcceptedBlockFunc) plugin.Unsubscribe {
	return func() {}
}

func (c *demoChain) LastIrreversibleBlock() (uint32, chainid.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.num, c.id
}

func (c *demoChain) Database() deltas.ChainDatabase {
	return emptyChainDatabase{}
}

func (c *demoChain) GetBlock(uint32) ([]byte, bool) {
	return nil, false
}

type emptyChainDatabase struct{}

func (emptyChainDatabase) TableIndex(deltas.Table) deltas.TableIndex {
	return emptyTableIndex{}
}

func (emptyChainDatabase) UndoFrame(deltas.Table) deltas.UndoFrame {
	return emptyUndoFrame{}
}

func (emptyChainDatabase) ContractTableIndex() deltas.ContractTableIndex {
	return emptyContractTableIndex{}
}

type emptyTableIndex struct{}

func (emptyTableIndex) Row(deltas.RowID) ([]byte, deltas.RowID, bool) { return nil, 0, false }
func (emptyTableIndex) Rows() []deltas.RowID                         { return nil }

type emptyUndoFrame struct{}

func (emptyUndoFrame) ModifiedIDs() []deltas.RowID         { return nil }
func (emptyUndoFrame) NewIDs() []deltas.RowID              { return nil }
func (emptyUndoFrame) RemovedValues() []deltas.RowSnapshot { return nil }

type emptyContractTableIndex struct{}

func (emptyContractTableIndex) Live(deltas.RowID) ([]byte, bool)    { return nil, false }
func (emptyContractTableIndex) Removed(deltas.RowID) ([]byte, bool) { return nil, false }
