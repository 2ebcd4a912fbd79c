package eip712

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

func TestOrderHash_MatchesReferenceEncoder(t *testing.T) {
	order := sampleOrder()
	td := referenceTypedData(big.NewInt(1), testContract)

	ref, err := td.HashStruct("OrderComponents", referenceMessage(order))
	if err != nil {
		t.Fatalf("reference HashStruct: %v", err)
	}
	if got := OrderHash(Default(), order); got != common.BytesToHash(ref) {
		t.Fatalf("OrderHash = %s, reference %s", got.Hex(), common.BytesToHash(ref).Hex())
	}
}

func TestOrderHash_EmptyItems(t *testing.T) {
	order := sampleOrder()
	order.Offer = nil
	order.Consideration = nil
	td := referenceTypedData(big.NewInt(1), testContract)

	ref, err := td.HashStruct("OrderComponents", referenceMessage(order))
	if err != nil {
		t.Fatalf("reference HashStruct: %v", err)
	}
	if got := OrderHash(Default(), order); got != common.BytesToHash(ref) {
		t.Fatalf("OrderHash = %s, reference %s", got.Hex(), common.BytesToHash(ref).Hex())
	}
}

func TestOrderHash_NonceBumpChangesIdentifier(t *testing.T) {
	th := Default()
	order := sampleOrder()
	seen := make(map[common.Hash]uint64)

	for n := uint64(0); n < 16; n++ {
		order.Nonce = n
		h := OrderHash(th, order)
		if prev, ok := seen[h]; ok {
			t.Fatalf("nonce %d collides with nonce %d", n, prev)
		}
		seen[h] = n
	}
}

func TestDigest_MatchesReferenceEncoder(t *testing.T) {
	order := sampleOrder()
	chainID := big.NewInt(1)
	td := referenceTypedData(chainID, testContract)
	td.Message = referenceMessage(order)

	ref, _, err := apitypes.TypedDataAndHash(td)
	if err != nil {
		t.Fatalf("TypedDataAndHash: %v", err)
	}

	th := Default()
	sep := Keccak{}.DeriveDomainSeparator(th.DomainTypeHash, th.NameHash, th.VersionHash, chainID, testContract)
	if got := Digest(sep, OrderHash(th, order)); got != common.BytesToHash(ref) {
		t.Fatalf("Digest = %s, reference %s", got.Hex(), common.BytesToHash(ref).Hex())
	}
}
