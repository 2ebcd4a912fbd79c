package infra

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// getConduitCodeHashesSelector is the 4-byte selector of getConduitCodeHashes().
var getConduitCodeHashesSelector = crypto.Keccak256([]byte("getConduitCodeHashes()"))[:4]

// ContractCaller executes read-only contract calls.
type ContractCaller interface {
	CallContract(ctx context.Context, to common.Address, data []byte) ([]byte, error)
}

// ControllerClient reads the conduit controller deployed at Address.
type ControllerClient struct {
	caller  ContractCaller
	address common.Address
}

// NewControllerClient binds a caller to the controller at address.
func NewControllerClient(caller ContractCaller, address common.Address) *ControllerClient {
	return &ControllerClient{caller: caller, address: address}
}

// GetConduitCodeHashes returns the creation and runtime code hashes of the
// controller's conduits. The return data is two 32-byte words.
func (c *ControllerClient) GetConduitCodeHashes(ctx context.Context) (common.Hash, common.Hash, error) {
	out, err := c.caller.CallContract(ctx, c.address, getConduitCodeHashesSelector)
	if err != nil {
		return common.Hash{}, common.Hash{}, err
	}
	if len(out) < 2*common.HashLength {
		return common.Hash{}, common.Hash{}, fmt.Errorf("%w: getConduitCodeHashes returned %d bytes", ErrRPC, len(out))
	}
	return common.BytesToHash(out[:32]), common.BytesToHash(out[32:64]), nil
}
