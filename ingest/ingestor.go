// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ingest

import (
	"bytes"
	"fmt"

	"go.uber.org/zap"

	"chain-node/state-history/chainid"
	"chain-node/state-history/deltas"
	"chain-node/state-history/errkind"
	"chain-node/state-history/history"
	"chain-node/state-history/logging"
)

// blockStatePayloadSize is the fixed payload written for every block state
// entry: a u32 "0" meaning the block-state log carries an explicit, empty
// serialized payload. store_block_state is a reserved slot for a future
// full snapshot (§9 open question); writing this keeps all three logs
// advancing together (L4) rather than leaving block-state absent.
const blockStatePayloadSize = 4

// Block carries everything BlockIngestor needs out of an accepted_block
// signal: the block's own identity and the ids of the transactions it
// contains, in execution order.
type Block struct {
	Num          uint32
	ID           chainid.ID
	PreviousID   chainid.ID
	Transactions []chainid.ID
}

// Ingestor is BlockIngestor (C3): on each accepted block it writes one
// entry to each of the three history logs, keeping them in lockstep (L4).
type Ingestor struct {
	log logging.Logger

	blockStateLog *history.Log
	traceLog      *history.Log
	chainStateLog *history.Log

	traces    *TraceBuffer
	extractor *deltas.Extractor
}

// NewIngestor wires the three logs, the trace buffer, and the delta
// extractor together.
func NewIngestor(
	log logging.Logger,
	blockStateLog, traceLog, chainStateLog *history.Log,
	traces *TraceBuffer,
	extractor *deltas.Extractor,
) *Ingestor {
	return &Ingestor{
		log:           log,
		blockStateLog: blockStateLog,
		traceLog:      traceLog,
		chainStateLog: chainStateLog,
		traces:        traces,
		extractor:     extractor,
	}
}

// OnAppliedTransaction is the applied_transaction signal handler: traces
// that carry a receipt are buffered; receiptless traces are discarded.
func (i *Ingestor) OnAppliedTransaction(txID chainid.ID, hasReceipt bool, data []byte) {
	if !hasReceipt {
		return
	}
	i.traces.Put(txID, data)
}

// OnAcceptedBlock is the accepted_block signal handler: it stores block
// state, then traces, then chain-state, in that order, every block.
func (i *Ingestor) OnAcceptedBlock(b Block, db deltas.ChainDatabase) error {
	fresh := i.chainStateLog.BeginBlock() == i.chainStateLog.EndBlock()

	if err := i.storeBlockState(b); err != nil {
		return fmt.Errorf("ingest: storing block state for block %d: %w", b.Num, err)
	}
	if err := i.storeTraces(b); err != nil {
		return fmt.Errorf("ingest: storing traces for block %d: %w", b.Num, err)
	}
	if err := i.storeChainState(b, db, fresh); err != nil {
		return fmt.Errorf("ingest: storing chain state for block %d: %w", b.Num, err)
	}
	return nil
}

func (i *Ingestor) storeBlockState(b Block) error {
	payload := make([]byte, blockStatePayloadSize)
	h := history.Header{BlockNum: b.Num, BlockID: b.ID, PayloadSize: blockStatePayloadSize}
	return i.blockStateLog.WriteEntry(h, b.PreviousID, bytes.NewReader(payload))
}

func (i *Ingestor) storeTraces(b Block) error {
	present := make([]Trace, 0, len(b.Transactions))
	for _, txID := range b.Transactions {
		data, ok := i.traces.Take(txID)
		if !ok {
			i.log.Warn("missing trace for transaction in accepted block",
				zap.Stringer("txID", txID),
				zap.Uint32("blockNum", b.Num),
			)
			continue
		}
		present = append(present, Trace{TxID: txID, Data: data})
	}
	// Drain any trace left over from a speculatively-applied transaction
	// that never made it into this (or any) accepted block, guaranteeing
	// T1 regardless of what on_accepted_block was told about.
	i.traces.Clear()

	payload := framePayload(marshalTraces(present))
	h := history.Header{BlockNum: b.Num, BlockID: b.ID, PayloadSize: uint64(len(payload))}
	return i.traceLog.WriteEntry(h, b.PreviousID, bytes.NewReader(payload))
}

func (i *Ingestor) storeChainState(b Block, db deltas.ChainDatabase, fresh bool) error {
	ds, err := i.extractor.Extract(db, fresh)
	if err != nil {
		return err
	}

	payload := framePayload(marshalDeltas(ds))
	if uint64(len(payload)) > history.MaxPayloadSize {
		return fmt.Errorf("%w: chain-state payload of %d bytes for block %d exceeds the log's limit", errkind.LogContract, len(payload), b.Num)
	}

	h := history.Header{BlockNum: b.Num, BlockID: b.ID, PayloadSize: uint64(len(payload))}
	return i.chainStateLog.WriteEntry(h, b.PreviousID, bytes.NewReader(payload))
}
