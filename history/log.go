// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package history implements the append-only, block-indexed binary log with
// a sidecar index that gives O(1) random access by block number, and
// truncates its tail on chain reorganization. Three independent logs (block
// state, traces, chain-state deltas) are kept in lockstep by their callers;
// this package only knows about one log at a time.
package history

import (
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"

	"chain-node/state-history/chainid"
	"chain-node/state-history/logging"
	"chain-node/state-history/utils/wrappers"
)

// Log is a single append-only data file plus its sidecar index file.
//
// The cooperative scheduling model described in the original design (all
// ingestion and all log I/O on one event-loop thread) doesn't hold in this
// port: BlockIngestor writes concurrently with SessionProtocol reads. Log
// therefore guards its begin/end bookkeeping and file access with a mutex
// instead of relying on single-threaded serialization.
type Log struct {
	log logging.Logger

	mu sync.RWMutex

	dataFile  *os.File
	indexFile *os.File

	beginBlock uint32
	endBlock   uint32
}

// Open opens or creates the data file at logPath and the index file at
// indexPath, and reconstructs begin_block/end_block from the index's first
// and last records.
func Open(logPath, indexPath string, log logging.Logger) (*Log, error) {
	dataFile, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("history: opening data file %s: %w", logPath, err)
	}
	indexFile, err := os.OpenFile(indexPath, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		dataFile.Close()
		return nil, fmt.Errorf("history: opening index file %s: %w", indexPath, err)
	}

	l := &Log{
		log:       log,
		dataFile:  dataFile,
		indexFile: indexFile,
	}
	if err := l.reconstruct(); err != nil {
		dataFile.Close()
		indexFile.Close()
		return nil, err
	}
	return l, nil
}

func (l *Log) reconstruct() error {
	indexInfo, err := l.indexFile.Stat()
	if err != nil {
		return fmt.Errorf("history: stat index file: %w", err)
	}

	size := indexInfo.Size()
	if size%IndexRecordSize != 0 {
		return corruptionf("index file size %d is not a multiple of the %d-byte record size", size, IndexRecordSize)
	}
	count := uint32(size / IndexRecordSize)
	if count == 0 {
		return nil
	}

	first, err := l.readIndexRecordAtSlot(0)
	if err != nil {
		return err
	}
	last, err := l.readIndexRecordAtSlot(count - 1)
	if err != nil {
		return err
	}

	dataInfo, err := l.dataFile.Stat()
	if err != nil {
		return fmt.Errorf("history: stat data file: %w", err)
	}
	wantSize := int64(last.FilePosition) + HeaderSize + int64(last.PayloadSize)
	if dataInfo.Size() != wantSize {
		return corruptionf("data file size %d does not match %d bytes expected from the last index record", dataInfo.Size(), wantSize)
	}

	l.beginBlock = first.BlockNum
	l.endBlock = last.BlockNum + 1
	return nil
}

// BeginBlock returns the number of the oldest block retained by the log.
func (l *Log) BeginBlock() uint32 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.beginBlock
}

// EndBlock returns one past the number of the newest block retained by the
// log; the retrievable range is the half-open [BeginBlock, EndBlock).
func (l *Log) EndBlock() uint32 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.endBlock
}

// GetEntry returns the header and a reader positioned over exactly
// payload_size bytes for the entry at blockNum. blockNum must be in
// [BeginBlock, EndBlock).
func (l *Log) GetEntry(blockNum uint32) (Header, io.Reader, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if blockNum < l.beginBlock || blockNum >= l.endBlock {
		return Header{}, nil, gapf("block %d is outside the retrievable range [%d, %d)", blockNum, l.beginBlock, l.endBlock)
	}

	rec, err := l.readIndexRecordAtSlot(blockNum - l.beginBlock)
	if err != nil {
		return Header{}, nil, err
	}
	if rec.BlockNum != blockNum {
		return Header{}, nil, corruptionf("index slot for block %d holds block %d", blockNum, rec.BlockNum)
	}

	headerBuf := make([]byte, HeaderSize)
	if _, err := l.dataFile.ReadAt(headerBuf, int64(rec.FilePosition)); err != nil {
		return Header{}, nil, fmt.Errorf("history: reading header for block %d: %w", blockNum, err)
	}
	var onDisk Header
	if err := onDisk.UnmarshalBinary(headerBuf); err != nil {
		return Header{}, nil, err
	}
	if onDisk.BlockNum != blockNum {
		return Header{}, nil, corruptionf("entry at file position %d claims block %d, index slot claims %d", rec.FilePosition, onDisk.BlockNum, blockNum)
	}

	reader := io.NewSectionReader(l.dataFile, int64(rec.FilePosition)+HeaderSize, int64(onDisk.PayloadSize))
	return onDisk, reader, nil
}

// WriteEntry is the core write algorithm: append at the tip, or on reorg
// (header.BlockNum < end_block) truncate the log back to header.BlockNum
// first, then append. previousID is the id the caller claims is the parent
// of this entry; it is never persisted (the parent's own id is already
// recoverable from its own index record) but is checked here purely as a
// consistency diagnostic.
func (l *Log) WriteEntry(header Header, previousID chainid.ID, payload io.Reader) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if header.PayloadSize > MaxPayloadSize {
		return gapf("payload of %d bytes for block %d exceeds the %d byte limit", header.PayloadSize, header.BlockNum, MaxPayloadSize)
	}

	empty := l.beginBlock == l.endBlock
	if !empty {
		switch {
		case header.BlockNum > l.endBlock:
			return gapf("block %d leaves a gap after end_block %d", header.BlockNum, l.endBlock)
		case header.BlockNum < l.beginBlock:
			return gapf("block %d underflows begin_block %d", header.BlockNum, l.beginBlock)
		}

		if header.BlockNum > l.beginBlock {
			parent, err := l.readIndexRecordAtSlot(header.BlockNum - 1 - l.beginBlock)
			if err != nil {
				return err
			}
			if parent.BlockID != previousID && l.log != nil {
				l.log.Debug("incoming block's parent id does not match the stored chain",
					zap.Uint32("blockNum", header.BlockNum),
					zap.Stringer("storedParentID", parent.BlockID),
					zap.Stringer("claimedParentID", previousID),
				)
			}
		}

		if header.BlockNum < l.endBlock {
			if err := l.truncateTo(header.BlockNum); err != nil {
				return err
			}
			empty = l.beginBlock == l.endBlock
		}
	}

	if empty {
		l.beginBlock = header.BlockNum
		l.endBlock = header.BlockNum
	}

	pos, err := l.dataFile.Seek(0, io.SeekEnd)
	if err != nil {
		return fmt.Errorf("history: seeking to data file end: %w", err)
	}

	if _, err := l.dataFile.Write(header.MarshalBinary()); err != nil {
		return fmt.Errorf("history: writing header for block %d: %w", header.BlockNum, err)
	}
	if header.PayloadSize > 0 {
		if _, err := io.CopyN(l.dataFile, payload, int64(header.PayloadSize)); err != nil {
			return fmt.Errorf("history: streaming payload for block %d: %w", header.BlockNum, err)
		}
	}

	rec := indexRecord{Header: header, FilePosition: uint64(pos)}
	if _, err := l.indexFile.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("history: seeking to index file end: %w", err)
	}
	if _, err := l.indexFile.Write(rec.marshalBinary()); err != nil {
		return fmt.Errorf("history: writing index record for block %d: %w", header.BlockNum, err)
	}

	l.endBlock = header.BlockNum + 1
	return nil
}

// truncateTo drops every entry with block number >= n. Assumes l.mu is
// held and begin_block <= n < end_block.
func (l *Log) truncateTo(n uint32) error {
	slot := n - l.beginBlock
	rec, err := l.readIndexRecordAtSlot(slot)
	if err != nil {
		return err
	}
	if err := l.indexFile.Truncate(int64(slot) * IndexRecordSize); err != nil {
		return fmt.Errorf("history: truncating index file: %w", err)
	}
	if err := l.dataFile.Truncate(int64(rec.FilePosition)); err != nil {
		return fmt.Errorf("history: truncating data file: %w", err)
	}
	l.endBlock = n
	if n == l.beginBlock {
		// Fully emptied: the next write_entry starts a fresh begin_block.
		l.beginBlock = 0
		l.endBlock = 0
	}
	return nil
}

func (l *Log) readIndexRecordAtSlot(slot uint32) (indexRecord, error) {
	buf := make([]byte, IndexRecordSize)
	if _, err := l.indexFile.ReadAt(buf, int64(slot)*IndexRecordSize); err != nil {
		return indexRecord{}, fmt.Errorf("history: reading index slot %d: %w", slot, err)
	}
	var rec indexRecord
	if err := rec.unmarshalBinary(buf); err != nil {
		return indexRecord{}, err
	}
	return rec, nil
}

// Close closes both underlying files, returning the first error
// encountered.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	errs := wrappers.Errs{}
	errs.Add(l.dataFile.Close(), l.indexFile.Close())
	return errs.Err
}
