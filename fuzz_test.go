package payload_test

import (
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/require"

	payload "github.com/sequencerlabs/payload"
	"github.com/sequencerlabs/payload/nstable"
)

// Round-trip property: decoding an assembled payload yields the input
// transactions grouped by namespace in first-appearance order, each
// group in its original relative order.
func TestFuzzRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("TestFuzzRoundTrip skipped in short mode.")
	}
	var (
		rounds        = 50
		maxTxs        = 64
		maxNamespaces = 8
		maxTxLen      = 128
	)

	f := fuzz.New().NilChance(0.1).NumElements(0, maxTxLen)
	for round := 0; round < rounds; round++ {
		numTxs := round % maxTxs
		txs := make([]payload.Transaction, 0, numTxs)
		for i := 0; i < numTxs; i++ {
			var body []byte
			f.Fuzz(&body)
			ns := nstable.NamespaceID((i * 7) % maxNamespaces)
			txs = append(txs, payload.NewTransaction(ns, body))
		}

		p, meta, err := payload.FromTransactions(txs, payload.MockChainState{})
		require.NoError(t, err, "round %d", round)

		// Expected canonical order: stable partition by namespace.
		var want []payload.Transaction
		seen := map[nstable.NamespaceID]bool{}
		for _, tx := range txs {
			if seen[tx.Namespace()] {
				continue
			}
			seen[tx.Namespace()] = true
			for _, other := range txs {
				if other.Namespace() == tx.Namespace() {
					want = append(want, other)
				}
			}
		}

		decoded := payload.FromBytes(p.Encode(), meta)
		it := decoded.Transactions(meta)
		n := 0
		for ; it.Next(); n++ {
			require.Less(t, n, len(want), "round %d: too many transactions", round)
			require.Equal(t, want[n].Namespace(), it.Tx().Namespace(), "round %d tx %d", round, n)
			require.Equal(t, string(want[n].Payload()), string(it.Tx().Payload()), "round %d tx %d", round, n)
			require.Equal(t, n, it.Index(), "round %d", round)
		}
		require.NoError(t, it.Err(), "round %d", round)
		require.Equal(t, len(want), n, "round %d", round)

		// Monotone table ends; the last one equals the payload length.
		var prev uint64
		for i := 0; i < meta.Len(); i++ {
			_, start, end, err := meta.Lookup(i)
			require.NoError(t, err)
			require.Equal(t, prev, start)
			require.LessOrEqual(t, start, end)
			prev = end
		}
		require.Equal(t, uint64(len(p.Encode())), prev, "round %d", round)
	}
}
