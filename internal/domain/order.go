package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ItemType identifies the asset class of an offer or consideration item.
type ItemType uint8

const (
	ItemNative ItemType = iota
	ItemERC20
	ItemERC721
	ItemERC1155
	ItemERC721WithCriteria
	ItemERC1155WithCriteria
)

func (t ItemType) String() string {
	switch t {
	case ItemNative:
		return "NATIVE"
	case ItemERC20:
		return "ERC20"
	case ItemERC721:
		return "ERC721"
	case ItemERC1155:
		return "ERC1155"
	case ItemERC721WithCriteria:
		return "ERC721_WITH_CRITERIA"
	case ItemERC1155WithCriteria:
		return "ERC1155_WITH_CRITERIA"
	default:
		return "UNKNOWN"
	}
}

// OrderType controls partial fills and whether the zone restricts fulfillment.
type OrderType uint8

const (
	OrderFullOpen OrderType = iota
	OrderPartialOpen
	OrderFullRestricted
	OrderPartialRestricted
)

func (t OrderType) String() string {
	switch t {
	case OrderFullOpen:
		return "FULL_OPEN"
	case OrderPartialOpen:
		return "PARTIAL_OPEN"
	case OrderFullRestricted:
		return "FULL_RESTRICTED"
	case OrderPartialRestricted:
		return "PARTIAL_RESTRICTED"
	default:
		return "UNKNOWN"
	}
}

// OfferItem is an asset the offerer gives up.
// Amount and identifier fields are uint256 on the wire; nil means zero.
type OfferItem struct {
	ItemType             ItemType
	Token                common.Address
	IdentifierOrCriteria *big.Int
	StartAmount          *big.Int
	EndAmount            *big.Int
}

// ConsiderationItem is an asset the offerer expects to receive at Recipient.
type ConsiderationItem struct {
	ItemType             ItemType
	Token                common.Address
	IdentifierOrCriteria *big.Int
	StartAmount          *big.Int
	EndAmount            *big.Int
	Recipient            common.Address
}

// OrderComponents is the signed shape of an order.
// Nonce is the offerer's counter at signing time; bumping the counter
// orphans every order signed with the old value.
type OrderComponents struct {
	Offerer       common.Address
	Zone          common.Address
	Offer         []OfferItem
	Consideration []ConsiderationItem
	OrderType     OrderType
	StartTime     *big.Int
	EndTime       *big.Int
	ZoneHash      common.Hash
	Salt          *big.Int
	ConduitKey    common.Hash
	Nonce         uint64
}

// CanCancel reports whether caller is allowed to cancel the order.
func (o *OrderComponents) CanCancel(caller common.Address) bool {
	return caller == o.Offerer || caller == o.Zone
}
