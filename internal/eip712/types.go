package eip712

// Canonical type strings. These are hashed byte-for-byte; whitespace,
// field order and field names are part of the signature scheme.
const (
	DomainTypeString = "EIP712Domain(" +
		"string name," +
		"string version," +
		"uint256 chainId," +
		"address verifyingContract" +
		")"

	OfferItemTypeString = "OfferItem(" +
		"uint8 itemType," +
		"address token," +
		"uint256 identifierOrCriteria," +
		"uint256 startAmount," +
		"uint256 endAmount" +
		")"

	ConsiderationItemTypeString = "ConsiderationItem(" +
		"uint8 itemType," +
		"address token," +
		"uint256 identifierOrCriteria," +
		"uint256 startAmount," +
		"uint256 endAmount," +
		"address recipient" +
		")"

	// OrderComponentsPartialTypeString omits the referenced sub-types;
	// see OrderTypeString for the encoded form.
	OrderComponentsPartialTypeString = "OrderComponents(" +
		"address offerer," +
		"address zone," +
		"OfferItem[] offer," +
		"ConsiderationItem[] consideration," +
		"uint8 orderType," +
		"uint256 startTime," +
		"uint256 endTime," +
		"bytes32 zoneHash," +
		"uint256 salt," +
		"bytes32 conduitKey," +
		"uint256 nonce" +
		")"
)

// referencedTypes lists the sub-types of OrderComponents sorted by type name.
// EIP-712 encodeType appends referenced types in this order.
var referencedTypes = []string{
	ConsiderationItemTypeString,
	OfferItemTypeString,
}

// OrderTypeString returns the full encoded type of OrderComponents.
func OrderTypeString() string {
	s := OrderComponentsPartialTypeString
	for _, sub := range referencedTypes {
		s += sub
	}
	return s
}
