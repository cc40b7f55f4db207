// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package wire

import (
	"encoding/binary"
	"fmt"

	"chain-node/state-history/chainid"
	"chain-node/state-history/errkind"
)

// Response tag values for the state_result sum type (§6).
const (
	ResponseTagGetStatus = 0
	ResponseTagGetBlock  = 1
)

// Response is an encoded server -> client frame.
type Response interface {
	MarshalBinary() []byte
	responseTag() byte
}

// GetStatusResult answers get_status_request_v0.
type GetStatusResult struct {
	LastIrreversibleBlockNum uint32
	LastIrreversibleBlockID  chainid.ID
	StateBeginBlock          uint32
	StateEndBlock            uint32
}

func (GetStatusResult) responseTag() byte { return ResponseTagGetStatus }

func (r GetStatusResult) MarshalBinary() []byte {
	buf := make([]byte, 1, 1+4+chainid.Size+4+4)
	buf[0] = ResponseTagGetStatus
	buf = binary.LittleEndian.AppendUint32(buf, r.LastIrreversibleBlockNum)
	buf = append(buf, r.LastIrreversibleBlockID[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, r.StateBeginBlock)
	buf = binary.LittleEndian.AppendUint32(buf, r.StateEndBlock)
	return buf
}

// GetBlockResult answers get_block_request_v0. Each field is independently
// optional: a request for a block number outside any one log's retained
// range simply omits that field rather than failing the whole request.
type GetBlockResult struct {
	BlockNum uint32

	Block      []byte
	HasBlock   bool
	BlockState []byte
	HasState   bool
	Traces     []byte
	HasTraces  bool
	Deltas     []byte
	HasDeltas  bool
}

func (GetBlockResult) responseTag() byte { return ResponseTagGetBlock }

func (r GetBlockResult) MarshalBinary() []byte {
	buf := make([]byte, 1, 64)
	buf[0] = ResponseTagGetBlock
	buf = binary.LittleEndian.AppendUint32(buf, r.BlockNum)
	buf = putOptionalBytes(buf, r.Block, r.HasBlock)
	buf = putOptionalBytes(buf, r.BlockState, r.HasState)
	buf = putOptionalBytes(buf, r.Traces, r.HasTraces)
	buf = putOptionalBytes(buf, r.Deltas, r.HasDeltas)
	return buf
}

// DecodeResponse decodes a state_result frame. Sessions never decode their
// own responses; this exists for client-side tooling and tests.
func DecodeResponse(b []byte) (Response, error) {
	if len(b) < 1 {
		return nil, fmt.Errorf("%w: empty response frame", errkind.SessionError)
	}
	tag, body := b[0], b[1:]
	switch tag {
	case ResponseTagGetStatus:
		const want = 4 + chainid.Size + 4 + 4
		if len(body) != want {
			return nil, fmt.Errorf("%w: get_status_result_v0 expects %d bytes, got %d", errkind.SessionError, want, len(body))
		}
		var id chainid.ID
		copy(id[:], body[4:4+chainid.Size])
		return GetStatusResult{
			LastIrreversibleBlockNum: binary.LittleEndian.Uint32(body[0:4]),
			LastIrreversibleBlockID:  id,
			StateBeginBlock:          binary.LittleEndian.Uint32(body[4+chainid.Size : 8+chainid.Size]),
			StateEndBlock:            binary.LittleEndian.Uint32(body[8+chainid.Size : 12+chainid.Size]),
		}, nil
	case ResponseTagGetBlock:
		if len(body) < 4 {
			return nil, fmt.Errorf("%w: get_block_result_v0 truncated before block_num", errkind.SessionError)
		}
		result, err := decodeGetBlockResultFields(binary.LittleEndian.Uint32(body[:4]), body[4:])
		if err != nil {
			return nil, err
		}
		return result, nil
	default:
		return nil, fmt.Errorf("%w: unknown state_result tag %d", errkind.SessionError, tag)
	}
}

func decodeGetBlockResultFields(blockNum uint32, rest []byte) (GetBlockResult, error) {
	result := GetBlockResult{BlockNum: blockNum}

	fields := []struct {
		data *[]byte
		has  *bool
	}{
		{&result.Block, &result.HasBlock},
		{&result.BlockState, &result.HasState},
		{&result.Traces, &result.HasTraces},
		{&result.Deltas, &result.HasDeltas},
	}
	for _, f := range fields {
		if len(rest) < 1 {
			return GetBlockResult{}, fmt.Errorf("%w: get_block_result_v0 truncated mid-field", errkind.SessionError)
		}
		present := rest[0] == 1
		data, tail, err := getOptionalBytes(rest)
		if err != nil {
			return GetBlockResult{}, err
		}
		*f.data = data
		*f.has = present
		rest = tail
	}
	return result, nil
}
