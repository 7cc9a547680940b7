// Package commit derives typed structural commitments over protocol
// values. A commitment is a fixed-size Keccak-256 digest of a value's
// canonical field serialization, carrying a short type tag used by the
// display format. Equal inputs always produce byte-identical digests,
// which lets independent implementations agree on commitments without
// exchanging the underlying values.
package commit

import (
	"bytes"
	"encoding/binary"
	"hash"

	"golang.org/x/crypto/sha3"
)

// Size is the byte length of a commitment digest.
const Size = 32

// Commitment is a typed, fixed-size digest of a committable value.
// The type parameter ties a commitment to the value type it was
// derived from, so commitments over different types cannot be mixed
// up even though they share a representation.
type Commitment[T any] struct {
	tag    string
	digest [Size]byte
}

// Tag returns the display tag of the committed type.
func (c Commitment[T]) Tag() string { return c.tag }

// Bytes returns a copy of the digest bytes.
func (c Commitment[T]) Bytes() []byte {
	out := make([]byte, Size)
	copy(out, c.digest[:])
	return out
}

// Equal reports whether two commitments carry the same tag and digest.
func (c Commitment[T]) Equal(other Commitment[T]) bool {
	return c.tag == other.tag && bytes.Equal(c.digest[:], other.digest[:])
}

// String renders the commitment in the tagged base64 display format,
// e.g. "TX~77xOf9b3_RtGwqQ7_zOPeuJRS0iZwF7EJiV_NzOv4uJ3".
func (c Commitment[T]) String() string {
	return EncodeTagged(c.tag, c.digest[:])
}

// FromTagged parses a commitment from its display format, verifying
// the embedded checksum and the digest length.
func FromTagged[T any](s string) (Commitment[T], error) {
	tag, value, err := DecodeTagged(s)
	if err != nil {
		return Commitment[T]{}, err
	}
	if len(value) != Size {
		return Commitment[T]{}, ErrBadDigestLen
	}
	c := Commitment[T]{tag: tag}
	copy(c.digest[:], value)
	return c, nil
}

// Builder incrementally derives a commitment from a value's fields.
// Fields must be fed in a fixed order with fixed names; the field
// sequence is the canonical serialization the digest is defined over,
// so reordering or renaming a field is a breaking protocol change.
type Builder[T any] struct {
	tag string
	h   hash.Hash
}

// NewBuilder starts a commitment derivation domain-separated by tag.
// The tag is folded into the digest and becomes the display tag of the
// finalized commitment.
func NewBuilder[T any](tag string) *Builder[T] {
	b := &Builder[T]{tag: tag, h: sha3.NewLegacyKeccak256()}
	return b.ConstantString(tag)
}

// ConstantString folds a compile-time constant string into the digest.
// It carries no length prefix, so it must never hold attacker-chosen
// data; use VarSizeBytes for that.
func (b *Builder[T]) ConstantString(s string) *Builder[T] {
	b.h.Write([]byte(s))
	return b
}

// U64 folds a little-endian fixed-width integer into the digest.
func (b *Builder[T]) U64(v uint64) *Builder[T] {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	b.h.Write(buf[:])
	return b
}

// FixedSizeBytes folds bytes whose length is fixed by the protocol.
func (b *Builder[T]) FixedSizeBytes(p []byte) *Builder[T] {
	b.h.Write(p)
	return b
}

// VarSizeBytes folds variable-length bytes, length-prefixed so that
// adjacent fields cannot be reinterpreted across their boundary.
func (b *Builder[T]) VarSizeBytes(p []byte) *Builder[T] {
	b.U64(uint64(len(p)))
	b.h.Write(p)
	return b
}

// U64Field folds a named integer field.
func (b *Builder[T]) U64Field(name string, v uint64) *Builder[T] {
	return b.ConstantString(name).U64(v)
}

// FixedSizeField folds a named fixed-length byte field.
func (b *Builder[T]) FixedSizeField(name string, p []byte) *Builder[T] {
	return b.ConstantString(name).FixedSizeBytes(p)
}

// VarSizeField folds a named variable-length byte field.
func (b *Builder[T]) VarSizeField(name string, p []byte) *Builder[T] {
	return b.ConstantString(name).VarSizeBytes(p)
}

// Field folds the commitment of a nested value as a named field.
// It is a free function because Go methods cannot introduce the nested
// value's type parameter.
func Field[T, S any](b *Builder[T], name string, c Commitment[S]) *Builder[T] {
	return b.ConstantString(name).FixedSizeBytes(c.digest[:])
}

// Optional folds a named field that may be absent. Presence is encoded
// as an integer so that an absent field and a present zero-value field
// digest differently.
func Optional[T, S any](b *Builder[T], name string, c *Commitment[S]) *Builder[T] {
	if c == nil {
		return b.U64Field(name, 0)
	}
	return Field(b.U64Field(name, 1), "value", *c)
}

// Finalize completes the derivation. The builder must not be used
// afterwards.
func (b *Builder[T]) Finalize() Commitment[T] {
	c := Commitment[T]{tag: b.tag}
	b.h.Sum(c.digest[:0])
	return c
}
