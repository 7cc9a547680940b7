package payload

import (
	"math/big"

	"github.com/sequencerlabs/payload/commit"
	"github.com/sequencerlabs/payload/nstable"
)

// L1BlockInfo records the finalized L1 block a sequencer block was
// built against. The timestamp is a 256-bit value to match the L1's
// word size.
type L1BlockInfo struct {
	Number    uint64
	Timestamp *big.Int
	Hash      [32]byte
}

// Commit derives the L1 block's structural commitment. The timestamp
// is folded as 32 little-endian bytes.
func (b L1BlockInfo) Commit() commit.Commitment[L1BlockInfo] {
	var ts [32]byte
	b.Timestamp.FillBytes(ts[:])
	reverse(ts[:])
	return commit.NewBuilder[L1BlockInfo]("L1BLOCK").
		U64Field("number", b.Number).
		FixedSizeField("timestamp", ts[:]).
		FixedSizeField("hash", b.Hash[:]).
		Finalize()
}

// Header is the sequencer block header consensus commits to. It
// references the payload through its commitment and namespace table
// rather than embedding payload bytes.
type Header struct {
	Height            uint64
	Timestamp         uint64
	L1Head            uint64
	L1Finalized       *L1BlockInfo
	PayloadCommitment [commit.Size]byte
	NsTable           *nstable.NamespaceTable
}

// Commit derives the header's structural commitment. Field order is
// part of the cross-implementation conformance surface and must not
// change.
func (h Header) Commit() commit.Commitment[Header] {
	b := commit.NewBuilder[Header]("BLOCK").
		U64Field("height", h.Height).
		U64Field("timestamp", h.Timestamp).
		U64Field("l1_head", h.L1Head)
	var l1 *commit.Commitment[L1BlockInfo]
	if h.L1Finalized != nil {
		c := h.L1Finalized.Commit()
		l1 = &c
	}
	b = commit.Optional(b, "l1_finalized", l1)
	b = b.FixedSizeField("payload_commitment", h.PayloadCommitment[:])
	return commit.Field(b, "ns_table", h.NsTable.Commit()).Finalize()
}

func reverse(p []byte) {
	for i, j := 0, len(p)-1; i < j; i, j = i+1, j-1 {
		p[i], p[j] = p[j], p[i]
	}
}
