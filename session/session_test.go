// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package session

import (
	"encoding/binary"
	"io"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"chain-node/state-history/chainid"
	"chain-node/state-history/history"
	"chain-node/state-history/logging"
	"chain-node/state-history/wire"
)

type fakeChainStatus struct {
	num uint32
	id  chainid.ID
}

func (f fakeChainStatus) LastIrreversibleBlock() (uint32, chainid.ID) { return f.num, f.id }

type fakeBlockStore struct {
	blocks map[uint32][]byte
}

func (f fakeBlockStore) GetBlock(num uint32) ([]byte, bool) {
	data, ok := f.blocks[num]
	return data, ok
}

func openTestLog(t *testing.T, name string) *history.Log {
	t.Helper()
	dir := t.TempDir()
	l, err := history.Open(filepath.Join(dir, name+".log"), filepath.Join(dir, name+".index"), logging.NoLog{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func writeFrameTo(t *testing.T, conn net.Conn, payload []byte) {
	t.Helper()
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	_, err := conn.Write(lenBuf[:])
	require.NoError(t, err)
	_, err = conn.Write(payload)
	require.NoError(t, err)
}

func readFrameFrom(t *testing.T, conn net.Conn) []byte {
	t.Helper()
	frame, err := readFrame(conn)
	require.NoError(t, err)
	return frame
}

func newTestSession(t *testing.T) (*Session, net.Conn) {
	t.Helper()
	serverConn, clientConn := net.Pipe()
	t.Cleanup(func() { _ = clientConn.Close() })

	blockState := openTestLog(t, "block_state")
	trace := openTestLog(t, "trace")
	chainState := openTestLog(t, "chain_state")

	h := history.Header{BlockNum: 5, BlockID: chainid.Empty, PayloadSize: 4}
	require.NoError(t, blockState.WriteEntry(h, chainid.Empty, bytesReader([]byte{0, 0, 0, 0})))

	registry := NewRegistry()
	deps := Deps{
		BlockStateLog: blockState,
		TraceLog:      trace,
		ChainStateLog: chainState,
		Chain:         fakeChainStatus{num: 4, id: chainid.Empty},
		Blocks:        fakeBlockStore{blocks: map[uint32][]byte{5: []byte("raw-block-5")}},
		Registry:      registry,
	}

	s := New(registry.NextID(), serverConn, logging.NoLog{}, deps)
	registry.Add(s)
	return s, clientConn
}

func bytesReader(b []byte) io.Reader { return &sliceReader{data: b} }

type sliceReader struct {
	data []byte
	pos  int
}

func (r *sliceReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}

func TestSessionSendsABIFrameFirst(t *testing.T) {
	require := require.New(t)
	s, client := newTestSession(t)
	defer s.Close()

	s.Start()

	frame := readFrameFrom(t, client)
	require.Contains(string(frame), "get_status_request_v0")
}

func TestSessionAnswersGetStatus(t *testing.T) {
	require := require.New(t)
	s, client := newTestSession(t)
	defer s.Close()

	s.Start()
	_ = readFrameFrom(t, client) // ABI

	writeFrameTo(t, client, wire.GetStatusRequest{}.MarshalBinary())

	respFrame := readFrameFrom(t, client)
	resp, err := wire.DecodeResponse(respFrame)
	require.NoError(err)
	status, ok := resp.(wire.GetStatusResult)
	require.True(ok)
	require.EqualValues(4, status.LastIrreversibleBlockNum)
	// The state range is the chain-state log's, which this session's setup
	// leaves empty (only the block-state log holds block 5).
	require.EqualValues(0, status.StateBeginBlock)
	require.EqualValues(0, status.StateEndBlock)
}

func TestSessionAnswersGetBlockWithPartialData(t *testing.T) {
	require := require.New(t)
	s, client := newTestSession(t)
	defer s.Close()

	s.Start()
	_ = readFrameFrom(t, client) // ABI

	writeFrameTo(t, client, wire.GetBlockRequest{BlockNum: 5}.MarshalBinary())

	respFrame := readFrameFrom(t, client)
	resp, err := wire.DecodeResponse(respFrame)
	require.NoError(err)
	block, ok := resp.(wire.GetBlockResult)
	require.True(ok)
	require.True(block.HasBlock)
	require.Equal([]byte("raw-block-5"), block.Block)
	require.True(block.HasState)
	require.False(block.HasTraces)
	require.False(block.HasDeltas)
}

func TestSessionClosesOnMalformedFrame(t *testing.T) {
	s, client := newTestSession(t)
	defer s.Close()

	s.Start()
	_ = readFrameFrom(t, client) // ABI

	writeFrameTo(t, client, []byte{99}) // unknown request tag

	// The session closes its socket; a subsequent read observes EOF/closed pipe.
	_ = client.SetReadDeadline(time.Now().Add(time.Second))
	buf := make([]byte, 1)
	_, err := client.Read(buf)
	require.Error(t, err)
}
