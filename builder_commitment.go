package payload

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"

	"github.com/sequencerlabs/payload/commit"
	"github.com/sequencerlabs/payload/nstable"
)

// BuilderCommitment is the cheap content digest block builders sign
// over before full protocol commitment types exist: a SHA-256 over the
// payload and its metadata, each value length-prefixed.
type BuilderCommitment [sha256.Size]byte

// Bytes returns a copy of the digest bytes.
func (c BuilderCommitment) Bytes() []byte {
	out := make([]byte, len(c))
	copy(out, c[:])
	return out
}

func (c BuilderCommitment) String() string {
	return hex.EncodeToString(c[:])
}

// BuilderCommitment digests, in exact order, each value prefixed with
// its 8-byte little-endian length:
//
//	len(raw) || len(ns_table) || len(metadata) || raw || ns_table || metadata
//
// The embedded namespace table and the standalone metadata are today
// the same table serialized twice. Both are digested regardless: the
// duplication is a forward-compatibility seam for moving metadata into
// the payload, and downstream verifiers depend on the exact byte
// sequence.
func (p *Payload) BuilderCommitment(metadata *nstable.NamespaceTable) BuilderCommitment {
	h := sha256.New()
	var buf [8]byte
	for _, v := range [][]byte{p.raw, p.ns.Bytes(), metadata.Bytes()} {
		binary.LittleEndian.PutUint64(buf[:], uint64(len(v)))
		h.Write(buf[:])
	}
	h.Write(p.raw)
	h.Write(p.ns.Bytes())
	h.Write(metadata.Bytes())

	var c BuilderCommitment
	h.Sum(c[:0])
	return c
}

// TransactionCommitments returns one structural commitment per
// transaction, in canonical enumeration order.
func (p *Payload) TransactionCommitments(metadata *nstable.NamespaceTable) []commit.Commitment[Transaction] {
	var cs []commit.Commitment[Transaction]
	for it := p.Transactions(metadata); it.Next(); {
		cs = append(cs, it.Tx().Commit())
	}
	return cs
}
