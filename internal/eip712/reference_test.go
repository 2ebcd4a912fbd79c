package eip712

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"consideration_go/internal/domain"
)

// referenceTypedData describes the order shapes through go-ethereum's
// generic EIP-712 encoder, which sorts and appends referenced types on its own.
func referenceTypedData(chainID *big.Int, verifyingContract common.Address) apitypes.TypedData {
	return apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": {
				{Name: "name", Type: "string"},
				{Name: "version", Type: "string"},
				{Name: "chainId", Type: "uint256"},
				{Name: "verifyingContract", Type: "address"},
			},
			"OrderComponents": {
				{Name: "offerer", Type: "address"},
				{Name: "zone", Type: "address"},
				{Name: "offer", Type: "OfferItem[]"},
				{Name: "consideration", Type: "ConsiderationItem[]"},
				{Name: "orderType", Type: "uint8"},
				{Name: "startTime", Type: "uint256"},
				{Name: "endTime", Type: "uint256"},
				{Name: "zoneHash", Type: "bytes32"},
				{Name: "salt", Type: "uint256"},
				{Name: "conduitKey", Type: "bytes32"},
				{Name: "nonce", Type: "uint256"},
			},
			"OfferItem": {
				{Name: "itemType", Type: "uint8"},
				{Name: "token", Type: "address"},
				{Name: "identifierOrCriteria", Type: "uint256"},
				{Name: "startAmount", Type: "uint256"},
				{Name: "endAmount", Type: "uint256"},
			},
			"ConsiderationItem": {
				{Name: "itemType", Type: "uint8"},
				{Name: "token", Type: "address"},
				{Name: "identifierOrCriteria", Type: "uint256"},
				{Name: "startAmount", Type: "uint256"},
				{Name: "endAmount", Type: "uint256"},
				{Name: "recipient", Type: "address"},
			},
		},
		PrimaryType: "OrderComponents",
		Domain: apitypes.TypedDataDomain{
			Name:              domain.ProtocolName,
			Version:           domain.ProtocolVersion,
			ChainId:           (*math.HexOrDecimal256)(new(big.Int).Set(chainID)),
			VerifyingContract: verifyingContract.Hex(),
		},
	}
}

func referenceMessage(o domain.OrderComponents) apitypes.TypedDataMessage {
	offer := make([]interface{}, 0, len(o.Offer))
	for _, it := range o.Offer {
		offer = append(offer, map[string]interface{}{
			"itemType":             big.NewInt(int64(it.ItemType)),
			"token":                it.Token.Hex(),
			"identifierOrCriteria": it.IdentifierOrCriteria,
			"startAmount":          it.StartAmount,
			"endAmount":            it.EndAmount,
		})
	}
	consideration := make([]interface{}, 0, len(o.Consideration))
	for _, it := range o.Consideration {
		consideration = append(consideration, map[string]interface{}{
			"itemType":             big.NewInt(int64(it.ItemType)),
			"token":                it.Token.Hex(),
			"identifierOrCriteria": it.IdentifierOrCriteria,
			"startAmount":          it.StartAmount,
			"endAmount":            it.EndAmount,
			"recipient":            it.Recipient.Hex(),
		})
	}
	return apitypes.TypedDataMessage{
		"offerer":       o.Offerer.Hex(),
		"zone":          o.Zone.Hex(),
		"offer":         offer,
		"consideration": consideration,
		"orderType":     big.NewInt(int64(o.OrderType)),
		"startTime":     o.StartTime,
		"endTime":       o.EndTime,
		"zoneHash":      o.ZoneHash.Bytes(),
		"salt":          o.Salt,
		"conduitKey":    o.ConduitKey.Bytes(),
		"nonce":         new(big.Int).SetUint64(o.Nonce),
	}
}

func sampleOrder() domain.OrderComponents {
	return domain.OrderComponents{
		Offerer: common.HexToAddress("0x00000000000000000000000000000000000000a1"),
		Zone:    common.HexToAddress("0x00000000000000000000000000000000000000b2"),
		Offer: []domain.OfferItem{{
			ItemType:             domain.ItemERC721,
			Token:                common.HexToAddress("0x00000000000000000000000000000000000000c3"),
			IdentifierOrCriteria: big.NewInt(7),
			StartAmount:          big.NewInt(1),
			EndAmount:            big.NewInt(1),
		}},
		Consideration: []domain.ConsiderationItem{
			{
				ItemType:             domain.ItemNative,
				IdentifierOrCriteria: big.NewInt(0),
				StartAmount:          big.NewInt(1_000_000_000_000_000_000),
				EndAmount:            big.NewInt(1_000_000_000_000_000_000),
				Recipient:            common.HexToAddress("0x00000000000000000000000000000000000000a1"),
			},
			{
				ItemType:             domain.ItemERC20,
				Token:                common.HexToAddress("0x00000000000000000000000000000000000000d4"),
				IdentifierOrCriteria: big.NewInt(0),
				StartAmount:          big.NewInt(25),
				EndAmount:            big.NewInt(50),
				Recipient:            common.HexToAddress("0x00000000000000000000000000000000000000e5"),
			},
		},
		OrderType:  domain.OrderPartialRestricted,
		StartTime:  big.NewInt(1_650_000_000),
		EndTime:    big.NewInt(1_950_000_000),
		ZoneHash:   common.HexToHash("0x01"),
		Salt:       big.NewInt(424242),
		ConduitKey: common.HexToHash("0x02"),
		Nonce:      3,
	}
}
