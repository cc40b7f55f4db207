// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package history

import "encoding/binary"

// IndexRecordSize is the on-disk size, in bytes, of one sidecar index
// record: a Header followed by the 64-bit file offset of that entry's
// header in the data file.
const IndexRecordSize = HeaderSize + 8

// indexRecord is one entry of the sidecar index file. Index record K
// describes block begin_block+K (L1); it is written strictly in order and
// never updated in place, only truncated from the tail on reorg.
type indexRecord struct {
	Header
	FilePosition uint64
}

func (r indexRecord) marshalBinary() []byte {
	buf := make([]byte, IndexRecordSize)
	copy(buf[:HeaderSize], r.Header.MarshalBinary())
	binary.LittleEndian.PutUint64(buf[HeaderSize:], r.FilePosition)
	return buf
}

func (r *indexRecord) unmarshalBinary(b []byte) error {
	if len(b) != IndexRecordSize {
		return errIndexRecordSize
	}
	if err := r.Header.UnmarshalBinary(b[:HeaderSize]); err != nil {
		return err
	}
	r.FilePosition = binary.LittleEndian.Uint64(b[HeaderSize:])
	return nil
}
