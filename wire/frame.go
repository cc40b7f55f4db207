// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package wire implements the external binary protocol (§6): the tagged
// sum types state_request/state_result exchanged over a session after its
// one-time ABI handshake, plus the ABI document itself.
package wire

import (
	"encoding/binary"
	"fmt"

	"chain-node/state-history/errkind"
)

// putOptionalBytes encodes an optional<bytes> field: a tag byte (0 absent,
// 1 present) followed, when present, by a varint length and the raw bytes.
func putOptionalBytes(buf []byte, data []byte, present bool) []byte {
	if !present {
		return append(buf, 0)
	}
	buf = append(buf, 1)
	buf = binary.AppendUvarint(buf, uint64(len(data)))
	return append(buf, data...)
}

func getOptionalBytes(b []byte) (data []byte, rest []byte, err error) {
	if len(b) < 1 {
		return nil, nil, fmt.Errorf("%w: optional<bytes> tag truncated", errkind.SessionError)
	}
	tag, b := b[0], b[1:]
	switch tag {
	case 0:
		return nil, b, nil
	case 1:
		n, read := binary.Uvarint(b)
		if read <= 0 {
			return nil, nil, fmt.Errorf("%w: optional<bytes> length varint truncated", errkind.SessionError)
		}
		b = b[read:]
		if uint64(len(b)) < n {
			return nil, nil, fmt.Errorf("%w: optional<bytes> payload truncated", errkind.SessionError)
		}
		return b[:n], b[n:], nil
	default:
		return nil, nil, fmt.Errorf("%w: optional<bytes> tag %d is neither 0 nor 1", errkind.SessionError, tag)
	}
}
