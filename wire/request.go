// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package wire

import (
	"encoding/binary"
	"fmt"

	"chain-node/state-history/errkind"
)

// Request tag values for the state_request sum type (§6).
const (
	RequestTagGetStatus = 0
	RequestTagGetBlock  = 1
)

// Request is a decoded client -> server frame.
type Request interface {
	// MarshalBinary encodes the request, tag byte first.
	MarshalBinary() []byte
	requestTag() byte
}

// GetStatusRequest carries no fields; it asks for the current retained
// block range and last irreversible block.
type GetStatusRequest struct{}

func (GetStatusRequest) requestTag() byte { return RequestTagGetStatus }

func (GetStatusRequest) MarshalBinary() []byte {
	return []byte{RequestTagGetStatus}
}

// GetBlockRequest asks for everything recorded for one block number.
type GetBlockRequest struct {
	BlockNum uint32
}

func (GetBlockRequest) requestTag() byte { return RequestTagGetBlock }

func (r GetBlockRequest) MarshalBinary() []byte {
	buf := make([]byte, 1, 5)
	buf[0] = RequestTagGetBlock
	buf = binary.LittleEndian.AppendUint32(buf, r.BlockNum)
	return buf
}

// DecodeRequest decodes a state_request frame: a tag byte followed by the
// tag's fields.
func DecodeRequest(b []byte) (Request, error) {
	if len(b) < 1 {
		return nil, fmt.Errorf("%w: empty request frame", errkind.SessionError)
	}
	switch tag, body := b[0], b[1:]; tag {
	case RequestTagGetStatus:
		return GetStatusRequest{}, nil
	case RequestTagGetBlock:
		if len(body) != 4 {
			return nil, fmt.Errorf("%w: get_block_request_v0 expects 4 bytes, got %d", errkind.SessionError, len(body))
		}
		return GetBlockRequest{BlockNum: binary.LittleEndian.Uint32(body)}, nil
	default:
		return nil, fmt.Errorf("%w: unknown state_request tag %d", errkind.SessionError, tag)
	}
}
