// Package word implements the fixed-width integer cells used by the
// payload's namespace and transaction tables. Every offset, count and
// namespace identifier in a serialized table is one little-endian Word.
package word

import (
	"encoding/binary"
	"errors"
	"math"
)

// Size is the byte width of a single table word.
const Size = 4

// Max is the largest value representable in a table word.
const Max = math.MaxUint32

var (
	ErrOverflow    = errors.New("value overflows table word")
	ErrShortBuffer = errors.New("buffer shorter than one table word")
)

// Word is one fixed-width table cell.
type Word uint32

// FromUint64 converts v into a Word. It returns ErrOverflow if v does
// not fit; callers on the block-building path must treat that as a
// hard failure, not a recoverable one.
func FromUint64(v uint64) (Word, error) {
	if v > Max {
		return 0, ErrOverflow
	}
	return Word(v), nil
}

// FromBytes decodes a Word from the first Size bytes of b.
func FromBytes(b []byte) (Word, error) {
	if len(b) < Size {
		return 0, ErrShortBuffer
	}
	return Word(binary.LittleEndian.Uint32(b)), nil
}

// Bytes returns the little-endian fixed-width encoding of w.
func (w Word) Bytes() []byte {
	buf := make([]byte, Size)
	binary.LittleEndian.PutUint32(buf, uint32(w))
	return buf
}
