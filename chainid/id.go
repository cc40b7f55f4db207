// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package chainid defines the fixed-size identifiers used throughout the
// state-history subsystem: block ids and transaction ids. Both are opaque
// 32-byte values minted by the chain engine; this package only knows how to
// compare, hash, and print them.
package chainid

import (
	"encoding/hex"
	"errors"
)

// Size is the length in bytes of an ID.
const Size = 32

// ErrWrongLength is returned by FromSlice when the input isn't exactly Size
// bytes long.
var ErrWrongLength = errors.New("chainid: wrong length")

// ID is a 32-byte block or transaction identifier.
type ID [Size]byte

// Empty is the zero-valued ID, used as a sentinel parent id for the first
// block in a log.
var Empty ID

// FromSlice copies b into a new ID. b must be exactly Size bytes.
func FromSlice(b []byte) (ID, error) {
	var id ID
	if len(b) != Size {
		return id, ErrWrongLength
	}
	copy(id[:], b)
	return id, nil
}

// String returns the lowercase hex encoding of id.
func (id ID) String() string {
	return hex.EncodeToString(id[:])
}

// IsEmpty reports whether id is the zero value.
func (id ID) IsEmpty() bool {
	return id == Empty
}
