// Package nstable implements the two offset tables of the block
// payload format: the namespace table, which maps each namespace to
// its byte range inside the payload, and the per-namespace transaction
// table, which maps each transaction to its byte range inside that
// namespace's region.
//
// The namespace table is serialized as, for j > 0:
//
//	word[0]:    number of entries in the table
//	word[2j-1]: id of the jth namespace
//	word[2j]:   end byte index of the jth namespace in the payload
//
// The jth namespace's byte range is word[2(j-1)]..word[2j]; the first
// namespace starts implicitly at 0. Words are little-endian and
// fixed-width, see the word package.
package nstable

import (
	"errors"

	pkgerrors "github.com/pkg/errors"

	"github.com/sequencerlabs/payload/commit"
	"github.com/sequencerlabs/payload/word"
)

var (
	ErrIndexOutOfRange = errors.New("table index out of range")
	ErrTruncatedTable  = errors.New("table bytes shorter than declared entry count")
)

// NamespaceID identifies a logical transaction namespace within a block.
type NamespaceID uint64

// Entry is one namespace table row: a namespace id and the exclusive
// end offset of its byte range. Entries are ordered by first
// appearance of the namespace, and end offsets are cumulative across
// all prior namespace regions.
type Entry struct {
	ID  NamespaceID
	End uint64
}

// NamespaceTable is the byte-backed namespace index of one payload.
// It is immutable after construction and safe for concurrent readers.
type NamespaceTable struct {
	bytes []byte
}

// Build serializes entries into a namespace table. It fails if the
// entry count, a namespace id, or an end offset does not fit in a
// table word.
func Build(entries []Entry) (*NamespaceTable, error) {
	buf := make([]byte, 0, word.Size*(1+2*len(entries)))
	count, err := word.FromUint64(uint64(len(entries)))
	if err != nil {
		return nil, pkgerrors.Wrap(err, "namespace count")
	}
	buf = append(buf, count.Bytes()...)
	for _, e := range entries {
		id, err := word.FromUint64(uint64(e.ID))
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "namespace id %d", e.ID)
		}
		end, err := word.FromUint64(e.End)
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "namespace %d end offset %d", e.ID, e.End)
		}
		buf = append(buf, id.Bytes()...)
		buf = append(buf, end.Bytes()...)
	}
	return &NamespaceTable{bytes: buf}, nil
}

// FromBytes wraps raw table bytes. It performs no structural
// validation; lookups bound-check lazily so that malformed bytes
// surface as errors at the use site instead of out-of-range reads.
func FromBytes(b []byte) *NamespaceTable {
	return &NamespaceTable{bytes: b}
}

// Bytes returns the canonical serialized table. The slice is shared
// with the table; callers must not modify it.
func (t *NamespaceTable) Bytes() []byte { return t.bytes }

// Len returns the declared number of entries. A table too short to
// hold its count word has zero entries.
func (t *NamespaceTable) Len() int {
	count, err := word.FromBytes(t.bytes)
	if err != nil {
		return 0
	}
	return int(count)
}

// Lookup returns the namespace id and payload byte range of the i-th
// entry. The first entry's start is implicitly zero; every other
// entry starts where its predecessor ends. Declared entries beyond
// the end of the table bytes surface as ErrTruncatedTable.
func (t *NamespaceTable) Lookup(i int) (NamespaceID, uint64, uint64, error) {
	if i < 0 || i >= t.Len() {
		return 0, 0, 0, ErrIndexOutOfRange
	}
	id, err := t.cell(1 + 2*i)
	if err != nil {
		return 0, 0, 0, err
	}
	end, err := t.cell(2 + 2*i)
	if err != nil {
		return 0, 0, 0, err
	}
	var start word.Word
	if i > 0 {
		if start, err = t.cell(2 * i); err != nil {
			return 0, 0, 0, err
		}
	}
	return NamespaceID(id), uint64(start), uint64(end), nil
}

// Commit derives the structural commitment over the canonical table
// bytes. It is part of the cross-implementation conformance surface.
func (t *NamespaceTable) Commit() commit.Commitment[NamespaceTable] {
	return commit.NewBuilder[NamespaceTable]("NSTABLE").
		VarSizeBytes(t.bytes).
		Finalize()
}

func (t *NamespaceTable) cell(i int) (word.Word, error) {
	off := i * word.Size
	if off < 0 || off+word.Size > len(t.bytes) {
		return 0, ErrTruncatedTable
	}
	return word.FromBytes(t.bytes[off:])
}
