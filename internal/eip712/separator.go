package eip712

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Deriver computes domain separators. DeriveInitialDomainSeparator runs once
// at startup; DeriveDomainSeparator is the recomputation path used when the
// chain id observed at call time no longer matches the cached one.
type Deriver interface {
	DeriveInitialDomainSeparator(domainTypeHash, nameHash, versionHash common.Hash, chainID *big.Int, verifyingContract common.Address) common.Hash
	DeriveDomainSeparator(domainTypeHash, nameHash, versionHash common.Hash, chainID *big.Int, verifyingContract common.Address) common.Hash
}

// Keccak is the standard EIP-712 deriver.
type Keccak struct{}

var _ Deriver = Keccak{}

func (k Keccak) DeriveInitialDomainSeparator(domainTypeHash, nameHash, versionHash common.Hash, chainID *big.Int, verifyingContract common.Address) common.Hash {
	return k.DeriveDomainSeparator(domainTypeHash, nameHash, versionHash, chainID, verifyingContract)
}

// DeriveDomainSeparator returns
// keccak256(abi.encode(domainTypeHash, nameHash, versionHash, chainId, verifyingContract)).
func (Keccak) DeriveDomainSeparator(domainTypeHash, nameHash, versionHash common.Hash, chainID *big.Int, verifyingContract common.Address) common.Hash {
	return crypto.Keccak256Hash(
		domainTypeHash.Bytes(),
		nameHash.Bytes(),
		versionHash.Bytes(),
		uint256Word(chainID),
		addressWord(verifyingContract),
	)
}
