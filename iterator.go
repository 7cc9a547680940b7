package payload

import (
	"errors"

	"github.com/sequencerlabs/payload/nstable"
)

// ErrRangeOutOfBounds reports a table entry whose byte range does not
// fit inside the data it indexes.
var ErrRangeOutOfBounds = errors.New("table byte range out of bounds")

// TxIter lazily walks a payload's transactions in canonical order:
// namespace table order first, then intra-namespace transaction order.
// A consumed iterator cannot be restarted; create a fresh one to
// re-traverse.
//
// Malformed table bytes truncate the iteration: Next returns false and
// Err reports what was wrong. Nothing is ever read out of bounds.
type TxIter struct {
	raw []byte
	ns  *nstable.NamespaceTable

	nsIdx  int
	txIdx  int
	nsID   nstable.NamespaceID
	txs    *nstable.TxTable
	data   []byte // current namespace's transaction data
	global int
	cur    Transaction
	err    error
}

// Transactions returns an iterator over the payload's transactions as
// indexed by metadata. The metadata is trusted to belong to this
// payload; only the bounds checks needed to stay in range are applied.
func (p *Payload) Transactions(metadata *nstable.NamespaceTable) *TxIter {
	return &TxIter{raw: p.raw, ns: metadata, global: -1}
}

// Next advances to the next transaction. It returns false when the
// payload is exhausted or a malformed table truncated the iteration.
func (it *TxIter) Next() bool {
	if it.err != nil {
		return false
	}
	for {
		if it.txs != nil && it.txIdx < it.txs.Len() {
			start, end, err := it.txs.Lookup(it.txIdx)
			if err != nil {
				it.err = err
				return false
			}
			if start > end || end > uint64(len(it.data)) {
				it.err = ErrRangeOutOfBounds
				return false
			}
			it.cur = Transaction{vm: it.nsID, payload: it.data[start:end]}
			it.txIdx++
			it.global++
			return true
		}

		if it.nsIdx >= it.ns.Len() {
			return false
		}
		id, start, end, err := it.ns.Lookup(it.nsIdx)
		if err != nil {
			it.err = err
			return false
		}
		if start > end || end > uint64(len(it.raw)) {
			it.err = ErrRangeOutOfBounds
			return false
		}
		region := it.raw[start:end]
		txs, dataOff, err := nstable.ParseTxTable(region)
		if err != nil {
			it.err = err
			return false
		}
		it.nsID = id
		it.txs = txs
		it.data = region[dataOff:]
		it.txIdx = 0
		it.nsIdx++
	}
}

// Index returns the global index of the current transaction in
// canonical order. Valid only after a true Next.
func (it *TxIter) Index() int { return it.global }

// Tx returns the current transaction. Valid only after a true Next.
// The payload bytes are shared with the underlying payload.
func (it *TxIter) Tx() Transaction { return it.cur }

// Err returns the malformed-table error that truncated the iteration,
// if any.
func (it *TxIter) Err() error { return it.err }
