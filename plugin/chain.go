// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package plugin

import (
	"chain-node/state-history/chainid"
	"chain-node/state-history/deltas"
)

// ChainPlugin is the chain execution engine (§1, explicitly out of scope):
// the source of the two signals Plugin subscribes to, and of the chain
// database Plugin reads to extract deltas.
type ChainPlugin interface {
	// Subscribe registers the two callbacks Plugin drives its ingestion
	// from, and returns an Unsubscribe to disconnect both at shutdown.
	Subscribe(onAppliedTransaction AppliedTransactionFunc, onAcceptedBlock AcceptedBlockFunc) Unsubscribe

	// LastIrreversibleBlock reports the chain's current last irreversible
	// block, read live for every GetStatus request.
	LastIrreversibleBlock() (num uint32, id chainid.ID)

	// Database returns a read view of the chain database as of the block
	// currently being processed, handed to the delta extractor.
	Database() deltas.ChainDatabase
}

// AppliedTransactionFunc matches the chain engine's applied_transaction
// signal: a transaction id, whether it carries a receipt, and its opaque
// serialized trace.
type AppliedTransactionFunc func(txID chainid.ID, hasReceipt bool, traceData []byte)

// AcceptedBlockFunc matches the chain engine's accepted_block signal.
type AcceptedBlockFunc func(blockNum uint32, blockID, previousID chainid.ID, transactions []chainid.ID)

// Unsubscribe disconnects a prior Subscribe call.
type Unsubscribe func()

// BlockStore is the external block store collaborator (§1): raw serialized
// blocks by number, possibly absent if pruned.
type BlockStore interface {
	GetBlock(blockNum uint32) (data []byte, ok bool)
}
