package payload

import (
	"github.com/sequencerlabs/payload/commit"
	"github.com/sequencerlabs/payload/nstable"
)

// Transaction is an opaque byte payload tagged with the namespace it
// was submitted to. It is immutable once constructed; the payload
// slice must not be modified by the caller afterwards.
type Transaction struct {
	vm      nstable.NamespaceID
	payload []byte
}

// NewTransaction wraps payload bytes for submission to namespace vm.
func NewTransaction(vm nstable.NamespaceID, payload []byte) Transaction {
	return Transaction{vm: vm, payload: payload}
}

// Namespace returns the namespace the transaction belongs to.
func (tx Transaction) Namespace() nstable.NamespaceID { return tx.vm }

// Payload returns the transaction bytes. Shared, not copied.
func (tx Transaction) Payload() []byte { return tx.payload }

// Commit derives the transaction's structural commitment.
func (tx Transaction) Commit() commit.Commitment[Transaction] {
	return commit.NewBuilder[Transaction]("TX").
		U64Field("vm", uint64(tx.vm)).
		VarSizeBytes(tx.payload).
		Finalize()
}
