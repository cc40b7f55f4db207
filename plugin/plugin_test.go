// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package plugin

import (
	"net"
	"net/netip"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"chain-node/state-history/chainid"
	"chain-node/state-history/config"
	"chain-node/state-history/deltas"
	"chain-node/state-history/logging"
)

type fakeChain struct {
	lastNum uint32
	lastID  chainid.ID
	db      deltas.ChainDatabase
}

func (f *fakeChain) Subscribe(AppliedTransactionFunc, AcceptedBlockFunc) Unsubscribe {
	return func() {}
}

func (f *fakeChain) LastIrreversibleBlock() (uint32, chainid.ID) { return f.lastNum, f.lastID }
func (f *fakeChain) Database() deltas.ChainDatabase               { return f.db }

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

type emptyChainDB struct{}

func (emptyChainDB) TableIndex(deltas.Table) deltas.TableIndex { return emptyTableIndex{} }
func (emptyChainDB) UndoFrame(deltas.Table) deltas.UndoFrame   { return emptyUndoFrame{} }
func (emptyChainDB) ContractTableIndex() deltas.ContractTableIndex {
	return emptyContractTableIndex{}
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	endpoint, err := netip.ParseAddrPort("127.0.0.1:0")
	require.NoError(t, err)
	return config.Config{
		Dir:      t.TempDir(),
		Delete:   false,
		Endpoint: endpoint,
	}
}

func TestInitializeOpensTheThreeLogFiles(t *testing.T) {
	require := require.New(t)
	cfg := testConfig(t)
	chain := &fakeChain{db: emptyChainDB{}}

	p, err := Initialize(logging.NoLog{}, cfg, chain, nil, nil)
	require.NoError(err)
	defer p.Shutdown()

	for _, name := range []string{"block_state_history", "trace_history", "chain_state_history"} {
		for _, ext := range []string{".log", ".index"} {
			_, err := os.Stat(filepath.Join(cfg.Dir, name+ext))
			require.NoError(err)
		}
	}
}

func TestShutdownIsIdempotentSafeToCallOnce(t *testing.T) {
	require := require.New(t)
	cfg := testConfig(t)
	chain := &fakeChain{db: emptyChainDB{}}

	p, err := Initialize(logging.NoLog{}, cfg, chain, nil, nil)
	require.NoError(err)
	require.NoError(p.Shutdown())
	require.NoError(p.Shutdown())
}

func TestStartupAcceptsConnections(t *testing.T) {
	require := require.New(t)
	cfg := testConfig(t)
	chain := &fakeChain{db: emptyChainDB{}}

	p, err := Initialize(logging.NoLog{}, cfg, chain, nil, nil)
	require.NoError(err)
	defer p.Shutdown()

	p.Startup()

	addr := p.accept.Addr().String()
	conn, err := net.Dial("tcp", addr)
	require.NoError(err)
	defer conn.Close()

	buf := make([]byte, 4)
	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	_, err = conn.Read(buf)
	require.NoError(err) // the 4-byte ABI frame length prefix
}
