package payload

// Reference data types.
//
// The objects in testdata/ have an external, language-independent
// interface: any port of the sequencer, in any language, must derive
// the same commitment strings from the same serialized objects. The
// fixtures are stored in the serialized form they take in query
// responses, decoded here by explicit test setup, and checked against
// the known commitment of each object.
//
// The fixture files themselves are published alongside the reference
// implementation and are not authored here: copy the published
// data/*.json set into testdata/ to run the conformance checks. When
// a fixture file is absent the corresponding test skips rather than
// inventing a stand-in object, since a locally fabricated fixture
// cannot bind this implementation to the external interface.
//
// These tests fail on any breaking change to a commitment scheme or
// serialization. If that happens, be sure you want to break the
// external interface, and only then replace the expected string with
// the actual value logged by the failing test.

import (
	"encoding/hex"
	"errors"
	"io/fs"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/sequencerlabs/payload/commit"
	"github.com/sequencerlabs/payload/nstable"
)

func loadReference(t *testing.T, name string) gjson.Result {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("testdata", name+".json"))
	if errors.Is(err, fs.ErrNotExist) {
		t.Skipf("reference fixture testdata/%s.json not installed", name)
	}
	require.NoError(t, err)
	require.True(t, gjson.ValidBytes(raw), "fixture %s is not valid JSON", name)
	return gjson.ParseBytes(raw)
}

func byteList(v gjson.Result) []byte {
	arr := v.Array()
	out := make([]byte, len(arr))
	for i, e := range arr {
		out[i] = byte(e.Uint())
	}
	return out
}

func hash32(t *testing.T, s string) [32]byte {
	t.Helper()
	raw, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	require.NoError(t, err)
	require.Len(t, raw, 32)
	var out [32]byte
	copy(out[:], raw)
	return out
}

func u256(t *testing.T, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(strings.TrimPrefix(s, "0x"), 16)
	require.True(t, ok, "bad u256 %q", s)
	return v
}

func nsTableFromJSON(v gjson.Result) *nstable.NamespaceTable {
	return nstable.FromBytes(byteList(v.Get("bytes")))
}

func l1BlockFromJSON(t *testing.T, v gjson.Result) L1BlockInfo {
	t.Helper()
	return L1BlockInfo{
		Number:    v.Get("number").Uint(),
		Timestamp: u256(t, v.Get("timestamp").String()),
		Hash:      hash32(t, v.Get("hash").String()),
	}
}

func headerFromJSON(t *testing.T, v gjson.Result) Header {
	t.Helper()
	h := Header{
		Height:    v.Get("height").Uint(),
		Timestamp: v.Get("timestamp").Uint(),
		L1Head:    v.Get("l1_head").Uint(),
		NsTable:   nsTableFromJSON(v.Get("ns_table")),
	}
	if l1 := v.Get("l1_finalized"); l1.Exists() && l1.Type != gjson.Null {
		block := l1BlockFromJSON(t, l1)
		h.L1Finalized = &block
	}
	// The tag is carried by the fixture string itself and already
	// checksummed by the decoder, so only the digest length matters here.
	vid, err := commit.FromTagged[Payload](v.Get("payload_commitment").String())
	require.NoError(t, err)
	copy(h.PayloadCommitment[:], vid.Bytes())
	return h
}

func requireCommitment(t *testing.T, expected string, actual interface{ String() string }) {
	t.Helper()
	// Log the actual value for generating tests in other languages.
	t.Logf("actual commitment: %s", actual)
	require.Equal(t, expected, actual.String())
}

// The decoding helpers above are exercised here with inline objects in
// the same shape as the published fixtures, so the fixture-to-type
// path stays covered even when testdata/ is empty.
func TestHeaderJSONDecoding(t *testing.T) {
	var digest [32]byte
	for i := range digest {
		digest[i] = byte(i)
	}
	doc := `{
		"height": 42,
		"timestamp": 789,
		"l1_head": 124,
		"l1_finalized": {
			"number": 123,
			"timestamp": "0x456",
			"hash": "0x0101010101010101010101010101010101010101010101010101010101010101"
		},
		"payload_commitment": "` + commit.EncodeTagged("HASH", digest[:]) + `",
		"ns_table": {"bytes": [0, 0, 0, 0]}
	}`
	require.True(t, gjson.Valid(doc))
	h := headerFromJSON(t, gjson.Parse(doc))

	require.Equal(t, uint64(42), h.Height)
	require.Equal(t, uint64(789), h.Timestamp)
	require.Equal(t, uint64(124), h.L1Head)
	require.NotNil(t, h.L1Finalized)
	require.Equal(t, uint64(123), h.L1Finalized.Number)
	require.Equal(t, big.NewInt(0x456), h.L1Finalized.Timestamp)
	require.Equal(t, digest, h.PayloadCommitment)
	require.Equal(t, []byte{0, 0, 0, 0}, h.NsTable.Bytes())
	require.Equal(t, "BLOCK", h.Commit().Tag())
}

func TestHeaderJSONPayloadCommitmentTag(t *testing.T) {
	// The payload commitment tag is whatever the fixture carries; the
	// decoder validates its checksum, not its spelling.
	var digest [32]byte
	digest[0] = 0xff
	for _, tag := range []string{"HASH", "VID"} {
		doc := `{
			"height": 1,
			"timestamp": 2,
			"l1_head": 3,
			"payload_commitment": "` + commit.EncodeTagged(tag, digest[:]) + `",
			"ns_table": {"bytes": [0, 0, 0, 0]}
		}`
		h := headerFromJSON(t, gjson.Parse(doc))
		require.Equal(t, digest, h.PayloadCommitment)
		require.Nil(t, h.L1Finalized)
	}
}

func TestL1BlockJSONDecoding(t *testing.T) {
	doc := `{
		"number": 7,
		"timestamp": "0xdeadbeef",
		"hash": "0x00000000000000000000000000000000000000000000000000000000000000aa"
	}`
	block := l1BlockFromJSON(t, gjson.Parse(doc))
	require.Equal(t, uint64(7), block.Number)
	require.Equal(t, uint64(0xdeadbeef), block.Timestamp.Uint64())
	require.Equal(t, byte(0xaa), block.Hash[31])
	require.Equal(t, "L1BLOCK", block.Commit().Tag())
}

func TestReferenceNsTable(t *testing.T) {
	table := nsTableFromJSON(loadReference(t, "ns_table"))
	requireCommitment(t,
		"NSTABLE~GL-lEBAwNZDldxDpySRZQChNnmn9vNzdIAL8W9ENOuh_",
		table.Commit(),
	)
}

func TestReferenceL1Block(t *testing.T) {
	block := l1BlockFromJSON(t, loadReference(t, "l1_block"))
	requireCommitment(t,
		"L1BLOCK~4HpzluLK2Isz3RdPNvNrDAyQcWOF2c9JeLZzVNLmfpQ9",
		block.Commit(),
	)
}

func TestReferenceHeader(t *testing.T) {
	header := headerFromJSON(t, loadReference(t, "header"))
	requireCommitment(t,
		"BLOCK~00ISpu2jHbXD6z-BwMkwR4ijGdgUSoXLp_2jIStmqBrD",
		header.Commit(),
	)
}

func TestReferenceTransaction(t *testing.T) {
	v := loadReference(t, "transaction")
	tx := NewTransaction(
		nstable.NamespaceID(v.Get("vm").Uint()),
		byteList(v.Get("payload")),
	)
	requireCommitment(t,
		"TX~77xOf9b3_RtGwqQ7_zOPeuJRS0iZwF7EJiV_NzOv4uJ3",
		tx.Commit(),
	)
}
