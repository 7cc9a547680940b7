// Package payload implements the block payload codec of a sequencer
// node: it assembles submitted transactions, grouped by namespace,
// into a canonical byte payload indexed by a namespace table, decodes
// that payload back into transactions, and derives the commitments
// consensus uses to agree on blocks without exchanging payload bytes.
package payload

import (
	"math"

	"github.com/pkg/errors"

	"github.com/sequencerlabs/payload/nstable"
)

// ChainState is the capability the consensus layer hands to payload
// construction. It is reserved for future block size enforcement and
// does not affect the output today.
type ChainState interface {
	MaxBlockSize() uint64
}

// MockChainState stands in where no real chain state exists, e.g. for
// the genesis payload.
type MockChainState struct{}

func (MockChainState) MaxBlockSize() uint64 { return math.MaxUint64 }

// Payload is one block's raw encoded transaction bytes together with
// the namespace table indexing them. It is immutable after
// construction and safe to share across concurrent readers.
type Payload struct {
	raw []byte
	ns  *nstable.NamespaceTable
}

// FromTransactions assembles a payload from an arbitrary-order
// collection of transactions. Namespaces appear in the payload in the
// order they first appear in txs, and transactions keep their supplied
// order within their namespace. The namespace table is returned twice:
// embedded in the payload and standalone as the metadata the
// surrounding protocol persists and transmits separately, so light
// clients can fetch it without the payload bytes.
//
// A word overflow while building either table aborts with an error;
// the proposer must reject the candidate block rather than retry.
func FromTransactions(txs []Transaction, _ ChainState) (*Payload, *nstable.NamespaceTable, error) {
	order, groups := groupByNamespace(txs)

	var raw []byte
	entries := make([]nstable.Entry, 0, len(order))
	for _, id := range order {
		region, err := encodeNamespace(groups[id])
		if err != nil {
			return nil, nil, errors.Wrapf(err, "building namespace %d region", id)
		}
		raw = append(raw, region...)
		entries = append(entries, nstable.Entry{ID: id, End: uint64(len(raw))})
	}

	ns, err := nstable.Build(entries)
	if err != nil {
		return nil, nil, errors.Wrap(err, "building namespace table")
	}
	return &Payload{raw: raw, ns: ns}, ns, nil
}

// FromBytes reconstructs a payload from its raw bytes and the
// namespace table received alongside them. It trusts that metadata is
// the correct table for raw; validating that is the caller's
// responsibility.
func FromBytes(raw []byte, metadata *nstable.NamespaceTable) *Payload {
	return &Payload{raw: raw, ns: metadata}
}

// Genesis returns the empty payload every chain starts from. It is
// equivalent to FromTransactions with no transactions and must always
// succeed.
func Genesis() (*Payload, *nstable.NamespaceTable) {
	p, ns, err := FromTransactions(nil, MockChainState{})
	if err != nil {
		// An empty payload cannot overflow a table word; reaching this
		// is a programming-invariant violation.
		panic(err)
	}
	return p, ns
}

// Encode returns the raw payload bytes verbatim, with no additional
// framing. Shared, not copied.
func (p *Payload) Encode() []byte { return p.raw }

// NsTable returns the payload's embedded namespace table view.
func (p *Payload) NsTable() *nstable.NamespaceTable { return p.ns }

// groupByNamespace partitions txs by namespace id, preserving first
// appearance order across namespaces and supply order within one.
func groupByNamespace(txs []Transaction) ([]nstable.NamespaceID, map[nstable.NamespaceID][]Transaction) {
	var order []nstable.NamespaceID
	groups := make(map[nstable.NamespaceID][]Transaction)
	for _, tx := range txs {
		if _, ok := groups[tx.vm]; !ok {
			order = append(order, tx.vm)
		}
		groups[tx.vm] = append(groups[tx.vm], tx)
	}
	return order, groups
}

// encodeNamespace renders one namespace's byte region: its transaction
// table followed by the concatenated transaction payloads.
func encodeNamespace(txs []Transaction) ([]byte, error) {
	lengths := make([]uint64, len(txs))
	total := 0
	for i, tx := range txs {
		lengths[i] = uint64(len(tx.payload))
		total += len(tx.payload)
	}
	table, err := nstable.BuildTxTable(lengths)
	if err != nil {
		return nil, err
	}
	region := make([]byte, 0, len(table.Bytes())+total)
	region = append(region, table.Bytes()...)
	for _, tx := range txs {
		region = append(region, tx.payload...)
	}
	return region, nil
}
