package commit

import (
	"encoding/base64"
	"errors"
	"strings"
)

var (
	ErrMissingSeparator = errors.New("tagged value has no tag separator")
	ErrEmptyValue       = errors.New("tagged value carries no bytes")
	ErrBadChecksum      = errors.New("tagged value checksum mismatch")
	ErrBadDigestLen     = errors.New("tagged value is not a digest")
)

// b64 is the URL-safe unpadded alphabet shared by every conforming
// implementation of the display format.
var b64 = base64.URLEncoding.WithPadding(base64.NoPadding)

// EncodeTagged renders value in the tagged display format: the tag, a
// tilde, then the base64 encoding of value followed by a one-byte
// checksum over the tag and value.
func EncodeTagged(tag string, value []byte) string {
	buf := make([]byte, 0, len(value)+1)
	buf = append(buf, value...)
	buf = append(buf, checksum(tag, value))
	return tag + "~" + b64.EncodeToString(buf)
}

// DecodeTagged is the inverse of EncodeTagged. It rejects strings with
// a missing tag separator, undecodable base64, or a checksum that does
// not match the tag and value.
func DecodeTagged(s string) (string, []byte, error) {
	tag, enc, ok := strings.Cut(s, "~")
	if !ok {
		return "", nil, ErrMissingSeparator
	}
	buf, err := b64.DecodeString(enc)
	if err != nil {
		return "", nil, err
	}
	if len(buf) == 0 {
		return "", nil, ErrEmptyValue
	}
	value, cs := buf[:len(buf)-1], buf[len(buf)-1]
	if checksum(tag, value) != cs {
		return "", nil, ErrBadChecksum
	}
	return tag, value, nil
}

// checksum is an 8-bit CRC (polynomial 0x07, zero init) over the tag
// bytes then the value bytes, xored with the value length. It guards
// against transcription errors, not tampering.
func checksum(tag string, value []byte) byte {
	crc := crc8(0, []byte(tag))
	crc = crc8(crc, value)
	return crc ^ byte(len(value))
}

func crc8(crc byte, p []byte) byte {
	for _, b := range p {
		crc ^= b
		for i := 0; i < 8; i++ {
			if crc&0x80 != 0 {
				crc = crc<<1 ^ 0x07
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
