package eip712

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"consideration_go/internal/domain"
)

// TypeHashes holds every identifier derived from compile-time constants.
type TypeHashes struct {
	NameHash                  common.Hash `json:"name_hash"`
	VersionHash               common.Hash `json:"version_hash"`
	DomainTypeHash            common.Hash `json:"domain_typehash"`
	OfferItemTypeHash         common.Hash `json:"offer_item_typehash"`
	ConsiderationItemTypeHash common.Hash `json:"consideration_item_typehash"`
	OrderTypeHash             common.Hash `json:"order_typehash"`
}

// Derive computes the type identifiers for the given protocol name and version.
func Derive(name, version string) TypeHashes {
	return TypeHashes{
		NameHash:                  crypto.Keccak256Hash([]byte(name)),
		VersionHash:               crypto.Keccak256Hash([]byte(version)),
		DomainTypeHash:            crypto.Keccak256Hash([]byte(DomainTypeString)),
		OfferItemTypeHash:         crypto.Keccak256Hash([]byte(OfferItemTypeString)),
		ConsiderationItemTypeHash: crypto.Keccak256Hash([]byte(ConsiderationItemTypeString)),
		OrderTypeHash:             crypto.Keccak256Hash([]byte(OrderTypeString())),
	}
}

var (
	defaultOnce   sync.Once
	defaultHashes TypeHashes
)

// Default returns the protocol's type identifiers, computed once per process.
func Default() TypeHashes {
	defaultOnce.Do(func() {
		defaultHashes = Derive(domain.ProtocolName, domain.ProtocolVersion)
	})
	return defaultHashes
}
