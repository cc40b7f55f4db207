// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package wire

import (
	"bytes"
	"encoding/json"

	"chain-node/state-history/deltas"
)

// abiDocument mirrors the shape of the ABI the original implementation
// embeds as a literal JSON blob (SPEC_FULL §C.2): enough for a client to
// decode every request/result variant and recognize the table-tag closed
// set without a side channel.
type abiDocument struct {
	Version string         `json:"version"`
	Structs []abiStruct    `json:"structs"`
	Types   []abiAliasedTo `json:"types"`
	Tables  []string       `json:"tables"`
}

type abiStruct struct {
	Name   string     `json:"name"`
	Base   string     `json:"base"`
	Fields []abiField `json:"fields"`
}

type abiField struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type abiAliasedTo struct {
	NewTypeName string `json:"new_type_name"`
	Type        string `json:"type"`
}

// ABIDocument renders the session's self-describing schema, sent once per
// connection as the first server -> client frame (§4.4).
func ABIDocument() string {
	doc := abiDocument{
		Version: "state_history_v0",
		Structs: []abiStruct{
			{Name: "get_status_request_v0"},
			{Name: "get_block_request_v0", Fields: []abiField{
				{Name: "block_num", Type: "uint32"},
			}},
			{Name: "get_status_result_v0", Fields: []abiField{
				{Name: "last_irreversible_block_num", Type: "uint32"},
				{Name: "last_irreversible_block_id", Type: "checksum256"},
				{Name: "state_begin_block", Type: "uint32"},
				{Name: "state_end_block", Type: "uint32"},
			}},
			{Name: "get_block_result_v0", Fields: []abiField{
				{Name: "block_num", Type: "uint32"},
				{Name: "block", Type: "bytes?"},
				{Name: "block_state", Type: "bytes?"},
				{Name: "traces", Type: "bytes?"},
				{Name: "deltas", Type: "bytes?"},
			}},
		},
		Types: []abiAliasedTo{
			{NewTypeName: "state_request", Type: "variant<get_status_request_v0,get_block_request_v0>"},
			{NewTypeName: "state_result", Type: "variant<get_status_result_v0,get_block_result_v0>"},
		},
		Tables: tableNames(),
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	// The document is built from a fixed literal above; a marshal error here
	// would mean a programming mistake, not bad input.
	if err := enc.Encode(doc); err != nil {
		panic(err)
	}
	return buf.String()
}

func tableNames() []string {
	names := make([]string, len(deltas.Tables))
	for i, t := range deltas.Tables {
		names[i] = string(t)
	}
	return names
}
