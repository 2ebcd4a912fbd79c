package eip712

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"consideration_go/internal/domain"
)

// OfferItemHash returns hashStruct(OfferItem).
func OfferItemHash(th TypeHashes, item domain.OfferItem) common.Hash {
	return crypto.Keccak256Hash(
		th.OfferItemTypeHash.Bytes(),
		uint64Word(uint64(item.ItemType)),
		addressWord(item.Token),
		uint256Word(item.IdentifierOrCriteria),
		uint256Word(item.StartAmount),
		uint256Word(item.EndAmount),
	)
}

// ConsiderationItemHash returns hashStruct(ConsiderationItem).
func ConsiderationItemHash(th TypeHashes, item domain.ConsiderationItem) common.Hash {
	return crypto.Keccak256Hash(
		th.ConsiderationItemTypeHash.Bytes(),
		uint64Word(uint64(item.ItemType)),
		addressWord(item.Token),
		uint256Word(item.IdentifierOrCriteria),
		uint256Word(item.StartAmount),
		uint256Word(item.EndAmount),
		addressWord(item.Recipient),
	)
}

// OrderHash returns hashStruct(OrderComponents), the order identifier used
// as the status key. The offerer's nonce is part of the preimage.
func OrderHash(th TypeHashes, order domain.OrderComponents) common.Hash {
	offer := make([]byte, 0, 32*len(order.Offer))
	for _, item := range order.Offer {
		offer = append(offer, OfferItemHash(th, item).Bytes()...)
	}
	consideration := make([]byte, 0, 32*len(order.Consideration))
	for _, item := range order.Consideration {
		consideration = append(consideration, ConsiderationItemHash(th, item).Bytes()...)
	}

	return crypto.Keccak256Hash(
		th.OrderTypeHash.Bytes(),
		addressWord(order.Offerer),
		addressWord(order.Zone),
		crypto.Keccak256(offer),
		crypto.Keccak256(consideration),
		uint64Word(uint64(order.OrderType)),
		uint256Word(order.StartTime),
		uint256Word(order.EndTime),
		order.ZoneHash.Bytes(),
		uint256Word(order.Salt),
		order.ConduitKey.Bytes(),
		uint64Word(order.Nonce),
	)
}

// Digest returns the value a signer actually signs:
// keccak256("\x19\x01" ++ domainSeparator ++ orderHash).
func Digest(domainSeparator, orderHash common.Hash) common.Hash {
	return crypto.Keccak256Hash([]byte{0x19, 0x01}, domainSeparator.Bytes(), orderHash.Bytes())
}
