package nstable

import (
	pkgerrors "github.com/pkg/errors"

	"github.com/sequencerlabs/payload/word"
)

// TxTable is the transaction index embedded at the head of one
// namespace's byte region. It has the same word layout as the
// namespace table minus the id column:
//
//	word[0]: number of transactions in the namespace
//	word[j]: end byte index of the jth transaction, relative to the
//	         start of the namespace's transaction data
//
// The first transaction starts implicitly at relative offset 0.
type TxTable struct {
	bytes []byte
}

// BuildTxTable serializes a transaction table from the byte lengths of
// the namespace's transactions, in intra-namespace order. It fails if
// the count or a cumulative end offset does not fit in a table word.
func BuildTxTable(lengths []uint64) (*TxTable, error) {
	buf := make([]byte, 0, word.Size*(1+len(lengths)))
	count, err := word.FromUint64(uint64(len(lengths)))
	if err != nil {
		return nil, pkgerrors.Wrap(err, "transaction count")
	}
	buf = append(buf, count.Bytes()...)
	var total uint64
	for i, l := range lengths {
		total += l
		end, err := word.FromUint64(total)
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "transaction %d end offset %d", i, total)
		}
		buf = append(buf, end.Bytes()...)
	}
	return &TxTable{bytes: buf}, nil
}

// ParseTxTable reads a transaction table from the head of a namespace
// region and returns it together with the offset at which transaction
// data begins. A region too short to hold the declared table is
// rejected rather than read out of bounds.
func ParseTxTable(region []byte) (*TxTable, int, error) {
	count, err := word.FromBytes(region)
	if err != nil {
		return nil, 0, ErrTruncatedTable
	}
	size := word.Size * (1 + int(count))
	if size > len(region) {
		return nil, 0, ErrTruncatedTable
	}
	return &TxTable{bytes: region[:size]}, size, nil
}

// Bytes returns the serialized table. Shared, not copied.
func (t *TxTable) Bytes() []byte { return t.bytes }

// Len returns the number of transactions in the table.
func (t *TxTable) Len() int {
	count, err := word.FromBytes(t.bytes)
	if err != nil {
		return 0
	}
	return int(count)
}

// Lookup returns the i-th transaction's byte range relative to the
// start of the namespace's transaction data.
func (t *TxTable) Lookup(i int) (uint64, uint64, error) {
	if i < 0 || i >= t.Len() {
		return 0, 0, ErrIndexOutOfRange
	}
	end, err := t.cell(1 + i)
	if err != nil {
		return 0, 0, err
	}
	var start word.Word
	if i > 0 {
		if start, err = t.cell(i); err != nil {
			return 0, 0, err
		}
	}
	return uint64(start), uint64(end), nil
}

func (t *TxTable) cell(i int) (word.Word, error) {
	off := i * word.Size
	if off < 0 || off+word.Size > len(t.bytes) {
		return 0, ErrTruncatedTable
	}
	return word.FromBytes(t.bytes[off:])
}
