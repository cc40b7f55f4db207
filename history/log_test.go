// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package history

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"chain-node/state-history/chainid"
	"chain-node/state-history/errkind"
	"chain-node/state-history/logging"
)

func openTestLog(t *testing.T) *Log {
	t.Helper()
	dir := t.TempDir()
	l, err := Open(filepath.Join(dir, "test.log"), filepath.Join(dir, "test.index"), logging.NoLog{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func id(b byte) chainid.ID {
	var i chainid.ID
	i[0] = b
	return i
}

func write(t *testing.T, l *Log, blockNum uint32, blockID, previousID chainid.ID, payload []byte) {
	t.Helper()
	h := Header{BlockNum: blockNum, BlockID: blockID, PayloadSize: uint64(len(payload))}
	require.NoError(t, l.WriteEntry(h, previousID, bytes.NewReader(payload)))
}

func readPayload(t *testing.T, l *Log, blockNum uint32) (Header, []byte) {
	t.Helper()
	h, r, err := l.GetEntry(blockNum)
	require.NoError(t, err)
	p, err := io.ReadAll(r)
	require.NoError(t, err)
	return h, p
}

func TestColdOpenIsEmpty(t *testing.T) {
	l := openTestLog(t)
	require.Zero(t, l.BeginBlock())
	require.Zero(t, l.EndBlock())
}

func TestWriteThenRead(t *testing.T) {
	require := require.New(t)
	l := openTestLog(t)

	write(t, l, 100, id(1), chainid.Empty, []byte("hello"))
	write(t, l, 101, id(2), id(1), []byte("world!"))

	require.EqualValues(100, l.BeginBlock())
	require.EqualValues(102, l.EndBlock())

	h, p := readPayload(t, l, 100)
	require.EqualValues(100, h.BlockNum)
	require.Equal(id(1), h.BlockID)
	require.Equal([]byte("hello"), p)

	h, p = readPayload(t, l, 101)
	require.EqualValues(101, h.BlockNum)
	require.Equal([]byte("world!"), p)

	_, _, err := l.GetEntry(102)
	require.ErrorIs(err, errkind.LogContract)
}

func TestReorgTruncatesTail(t *testing.T) {
	require := require.New(t)
	l := openTestLog(t)

	write(t, l, 100, id(0xA), chainid.Empty, []byte("A"))
	write(t, l, 101, id(0xB), id(0xA), []byte("B"))
	write(t, l, 102, id(0xC), id(0xB), []byte("C"))

	// Fork: a new block 101 whose parent is still A, but whose own id
	// differs from the previously stored B.
	write(t, l, 101, id(0xBB), id(0xA), []byte("B-prime"))

	require.EqualValues(100, l.BeginBlock())
	require.EqualValues(102, l.EndBlock())

	h, p := readPayload(t, l, 101)
	require.Equal(id(0xBB), h.BlockID)
	require.Equal([]byte("B-prime"), p)

	_, _, err := l.GetEntry(102)
	require.Error(err)
}

func TestGapIsRejected(t *testing.T) {
	l := openTestLog(t)
	write(t, l, 100, id(1), chainid.Empty, nil)

	h := Header{BlockNum: 102, BlockID: id(2), PayloadSize: 0}
	err := l.WriteEntry(h, id(1), bytes.NewReader(nil))
	require.Error(t, err)
}

func TestUnderflowIsRejected(t *testing.T) {
	l := openTestLog(t)
	write(t, l, 100, id(1), chainid.Empty, nil)

	h := Header{BlockNum: 50, BlockID: id(2), PayloadSize: 0}
	err := l.WriteEntry(h, chainid.Empty, bytes.NewReader(nil))
	require.Error(t, err)
}

func TestFullTruncationResetsToEmpty(t *testing.T) {
	require := require.New(t)
	l := openTestLog(t)

	write(t, l, 100, id(1), chainid.Empty, []byte("x"))
	write(t, l, 100, id(2), chainid.Empty, []byte("y"))

	require.EqualValues(100, l.BeginBlock())
	require.EqualValues(101, l.EndBlock())
	_, p := readPayload(t, l, 100)
	require.Equal([]byte("y"), p)
}

func TestReopenReconstructsRange(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()
	logPath := filepath.Join(dir, "test.log")
	idxPath := filepath.Join(dir, "test.index")

	l, err := Open(logPath, idxPath, logging.NoLog{})
	require.NoError(err)
	write(t, l, 5, id(1), chainid.Empty, []byte("payload"))
	write(t, l, 6, id(2), id(1), []byte("more"))
	require.NoError(l.Close())

	l2, err := Open(logPath, idxPath, logging.NoLog{})
	require.NoError(err)
	defer l2.Close()

	require.EqualValues(5, l2.BeginBlock())
	require.EqualValues(7, l2.EndBlock())
	h, p := readPayload(t, l2, 6)
	require.EqualValues(6, h.BlockNum)
	require.Equal([]byte("more"), p)
}
