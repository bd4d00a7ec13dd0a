package unittest

import (
	crand "crypto/rand"
	"math/rand"
	"time"

	"github.com/validated-streams/witness-guard/model/witness"
)

func IdentifierFixture() witness.Identifier {
	var id witness.Identifier
	_, _ = crand.Read(id[:])
	return id
}

func IdentifierListFixture(n int) witness.IdentifierList {
	list := make(witness.IdentifierList, 0, n)
	for i := 0; i < n; i++ {
		list = append(list, IdentifierFixture())
	}
	return list
}

// ValidatorKeyFixture returns random bytes shaped like a validator key. The
// bytes are not a valid curve point; use ValidatorFixture for signing keys.
func ValidatorKeyFixture() witness.ValidatorKey {
	var key witness.ValidatorKey
	_, _ = crand.Read(key[:])
	return key
}

func HeaderFixture() witness.Header {
	return witness.Header{
		ParentID:    IdentifierFixture(),
		Height:      uint64(rand.Uint32()),
		PayloadHash: IdentifierFixture(),
		Timestamp:   time.Now().UTC(),
	}
}

func TransactionsFixture(n int) []witness.Transaction {
	txs := make([]witness.Transaction, 0, n)
	for i := 0; i < n; i++ {
		tx := make(witness.Transaction, 64)
		_, _ = crand.Read(tx)
		txs = append(txs, tx)
	}
	return txs
}

// SignatureFixture returns random bytes with the length of a valid signature.
func SignatureFixture() witness.Signature {
	sig := make(witness.Signature, 64)
	_, _ = crand.Read(sig)
	return sig
}
