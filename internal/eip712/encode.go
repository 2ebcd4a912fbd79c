package eip712

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
)

// ABI word helpers. Every static EIP-712 member encodes to one 32-byte word.

func uint256Word(v *big.Int) []byte {
	if v == nil {
		return make([]byte, 32)
	}
	// U256 reduces in place.
	return math.U256Bytes(new(big.Int).Set(v))
}

func uint64Word(v uint64) []byte {
	return uint256Word(new(big.Int).SetUint64(v))
}

func addressWord(a common.Address) []byte {
	return common.LeftPadBytes(a.Bytes(), 32)
}
