// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package history

import (
	"encoding/binary"

	"chain-node/state-history/chainid"
)

// HeaderSize is the on-disk size, in bytes, of a Header: a 32-bit block
// number, a 32-byte block id, and a 64-bit payload size.
const HeaderSize = 4 + chainid.Size + 8

// MaxPayloadSize is the hard per-entry payload limit. It guards against the
// payload_size field overflowing a 32-bit length when an entry is later
// framed onto the wire (§9's "traces_bin.size() == (uint32_t)traces_bin.size()"
// check).
const MaxPayloadSize = 1<<32 - 1

// Header is the fixed-layout record written immediately before every log
// entry and embedded in its sidecar index record.
type Header struct {
	BlockNum    uint32
	BlockID     chainid.ID
	PayloadSize uint64
}

// MarshalBinary encodes h in its 44-byte little-endian on-disk layout.
func (h Header) MarshalBinary() []byte {
	buf := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(buf[0:4], h.BlockNum)
	copy(buf[4:4+chainid.Size], h.BlockID[:])
	binary.LittleEndian.PutUint64(buf[4+chainid.Size:], h.PayloadSize)
	return buf
}

// UnmarshalBinary decodes h from its 44-byte on-disk layout. b must be
// exactly HeaderSize bytes.
func (h *Header) UnmarshalBinary(b []byte) error {
	if len(b) != HeaderSize {
		return errHeaderSize
	}
	h.BlockNum = binary.LittleEndian.Uint32(b[0:4])
	copy(h.BlockID[:], b[4:4+chainid.Size])
	h.PayloadSize = binary.LittleEndian.Uint64(b[4+chainid.Size:])
	return nil
}
