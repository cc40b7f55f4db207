// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package wire

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"chain-node/state-history/chainid"
)

func TestGetStatusRequestRoundTrips(t *testing.T) {
	require := require.New(t)
	req, err := DecodeRequest(GetStatusRequest{}.MarshalBinary())
	require.NoError(err)
	require.Equal(GetStatusRequest{}, req)
}

func TestGetBlockRequestRoundTrips(t *testing.T) {
	require := require.New(t)
	want := GetBlockRequest{BlockNum: 12345}
	req, err := DecodeRequest(want.MarshalBinary())
	require.NoError(err)
	require.Equal(want, req)
}

func TestDecodeRequestRejectsUnknownTag(t *testing.T) {
	_, err := DecodeRequest([]byte{99})
	require.Error(t, err)
}

func TestGetStatusResultRoundTrips(t *testing.T) {
	require := require.New(t)
	var id chainid.ID
	id[0] = 0xAB
	want := GetStatusResult{
		LastIrreversibleBlockNum: 42,
		LastIrreversibleBlockID:  id,
		StateBeginBlock:          1,
		StateEndBlock:            43,
	}
	resp, err := DecodeResponse(want.MarshalBinary())
	require.NoError(err)
	require.Equal(want, resp)
}

func TestGetBlockResultRoundTripsWithMixedPresence(t *testing.T) {
	require := require.New(t)
	want := GetBlockResult{
		BlockNum:   7,
		Block:      []byte("block-bytes"),
		HasBlock:   true,
		BlockState: nil,
		HasState:   false,
		Traces:     []byte{},
		HasTraces:  true,
		Deltas:     []byte("delta-bytes"),
		HasDeltas:  true,
	}
	resp, err := DecodeResponse(want.MarshalBinary())
	require.NoError(err)
	got, ok := resp.(GetBlockResult)
	require.True(ok)
	require.Equal(want.BlockNum, got.BlockNum)
	require.Equal(want.Block, got.Block)
	require.True(got.HasBlock)
	require.False(got.HasState)
	require.True(got.HasTraces)
	require.Equal(want.Deltas, got.Deltas)
}

func TestABIDocumentMentionsEveryTableTag(t *testing.T) {
	doc := ABIDocument()
	for _, name := range []string{
		"account", "contract_table", "contract_row", "contract_index64",
		"contract_index128", "contract_index256", "contract_index_double",
		"contract_index_long_double", "global_property", "generated_transaction",
		"permission", "permission_link", "resource_limits", "resource_usage",
		"resource_limits_state", "resource_limits_config",
	} {
		require.True(t, strings.Contains(doc, name), "ABI document missing table %q", name)
	}
	require.True(t, strings.Contains(doc, "get_block_result_v0"))
}
