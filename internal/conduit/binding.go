package conduit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
)

// ErrInitialization marks a failure to bind the conduit controller at startup.
var ErrInitialization = errors.New("initialization failed")

// Controller is the external conduit registry. Only the code hash lookup is
// consumed here.
type Controller interface {
	GetConduitCodeHashes(ctx context.Context) (creationCodeHash, runtimeCodeHash common.Hash, err error)
}

// Binding is the immutable reference to the controller plus the conduit code
// hash fetched at startup. It is trusted for the lifetime of the process.
type Binding struct {
	controller      common.Address
	codeHash        common.Hash
	runtimeCodeHash common.Hash
}

// Bind queries the controller once. There are no retries: any failure, a zero
// controller address or an empty code hash aborts initialization.
func Bind(ctx context.Context, address common.Address, controller Controller) (*Binding, error) {
	if address == (common.Address{}) {
		return nil, fmt.Errorf("%w: conduit controller address is zero", ErrInitialization)
	}
	if controller == nil {
		return nil, fmt.Errorf("%w: no conduit controller client", ErrInitialization)
	}

	creation, runtime, err := controller.GetConduitCodeHashes(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: conduit code hash lookup: %w", ErrInitialization, err)
	}
	if creation == (common.Hash{}) {
		return nil, fmt.Errorf("%w: conduit controller %s returned an empty code hash", ErrInitialization, address.Hex())
	}

	slog.Info("Conduit controller bound",
		slog.String("controller", address.Hex()),
		slog.String("code_hash", creation.Hex()),
		slog.String("runtime_code_hash", runtime.Hex()))

	return &Binding{
		controller:      address,
		codeHash:        creation,
		runtimeCodeHash: runtime,
	}, nil
}

// Controller returns the bound registry address.
func (b *Binding) Controller() common.Address { return b.controller }

// CodeHash returns the cached conduit creation code hash used to validate
// conduit addresses.
func (b *Binding) CodeHash() common.Hash { return b.codeHash }

// RuntimeCodeHash returns the runtime code hash reported alongside it.
func (b *Binding) RuntimeCodeHash() common.Hash { return b.runtimeCodeHash }
