package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"consideration_go/internal/conduit"
	"consideration_go/internal/domain"
	"consideration_go/internal/eip712"
	"consideration_go/internal/guard"
	"consideration_go/internal/storage"
)

var (
	// ErrInitialization is returned by New when the system cannot come into existence.
	ErrInitialization = conduit.ErrInitialization
	// ErrReentrancy is returned by any protected call started while another is running.
	ErrReentrancy = guard.ErrReentrancy
)

// ChainIdentity reports the network the system is currently running on.
type ChainIdentity interface {
	ChainID(ctx context.Context) (*big.Int, error)
}

// Params are the startup parameters.
type Params struct {
	Name              string         // defaults to domain.ProtocolName
	Version           string         // defaults to domain.ProtocolVersion
	Address           common.Address // verifying contract, i.e. this system
	ConduitController common.Address
}

// Dependencies are the collaborators consulted at startup and afterwards.
type Dependencies struct {
	Chain      ChainIdentity
	Controller conduit.Controller
	Store      storage.Store
	Deriver    eip712.Deriver // defaults to eip712.Keccak{}
}

// Information is the summary published to callers.
type Information struct {
	Version           string
	DomainSeparator   common.Hash
	ConduitController common.Address
}

// Consideration is the process-wide state object. Identifiers are fixed at
// construction; only the domain separator can be recomputed, and only when the
// chain id changes.
type Consideration struct {
	name    string
	version string
	address common.Address

	typeHashes      eip712.TypeHashes
	deriver         eip712.Deriver
	chain           ChainIdentity
	chainID         *big.Int
	domainSeparator common.Hash

	conduit *conduit.Binding
	guard   *guard.Guard
	store   storage.Store
}

// New runs the startup sequence: type hashes, chain id, initial domain
// separator, conduit binding. On any failure it returns nil and an error
// wrapping ErrInitialization.
func New(ctx context.Context, p Params, deps Dependencies) (*Consideration, error) {
	if p.Name == "" {
		p.Name = domain.ProtocolName
	}
	if p.Version == "" {
		p.Version = domain.ProtocolVersion
	}
	if p.Address == (common.Address{}) {
		return nil, fmt.Errorf("%w: system address is zero", ErrInitialization)
	}
	if deps.Store == nil {
		return nil, fmt.Errorf("%w: no store", ErrInitialization)
	}
	if deps.Chain == nil {
		return nil, fmt.Errorf("%w: no chain identity", ErrInitialization)
	}
	if deps.Deriver == nil {
		deps.Deriver = eip712.Keccak{}
	}

	th := eip712.Default()
	if p.Name != domain.ProtocolName || p.Version != domain.ProtocolVersion {
		th = eip712.Derive(p.Name, p.Version)
	}

	chainID, err := deps.Chain.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: chain id lookup: %w", ErrInitialization, err)
	}
	if chainID == nil || chainID.Sign() <= 0 {
		return nil, fmt.Errorf("%w: invalid chain id %v", ErrInitialization, chainID)
	}
	chainID = new(big.Int).Set(chainID)

	separator := deps.Deriver.DeriveInitialDomainSeparator(th.DomainTypeHash, th.NameHash, th.VersionHash, chainID, p.Address)

	binding, err := conduit.Bind(ctx, p.ConduitController, deps.Controller)
	if err != nil {
		return nil, err
	}

	c := &Consideration{
		name:            p.Name,
		version:         p.Version,
		address:         p.Address,
		typeHashes:      th,
		deriver:         deps.Deriver,
		chain:           deps.Chain,
		chainID:         chainID,
		domainSeparator: separator,
		conduit:         binding,
		guard:           guard.New(p.Name),
		store:           deps.Store,
	}

	slog.Info("Consideration initialized",
		slog.String("name", p.Name),
		slog.String("version", p.Version),
		slog.String("chain_id", chainID.String()),
		slog.String("address", p.Address.Hex()),
		slog.String("domain_separator", separator.Hex()))

	return c, nil
}

// Name returns the protocol name.
func (c *Consideration) Name() string { return c.name }

// Address returns the verifying contract address.
func (c *Consideration) Address() common.Address { return c.address }

// TypeHashes returns the identifiers derived at startup.
func (c *Consideration) TypeHashes() eip712.TypeHashes { return c.typeHashes }

// ChainID returns a copy of the chain id cached at startup.
func (c *Consideration) ChainID() *big.Int { return new(big.Int).Set(c.chainID) }

// ConduitController returns the bound registry address.
func (c *Consideration) ConduitController() common.Address { return c.conduit.Controller() }

// ConduitCodeHash returns the cached conduit creation code hash.
func (c *Consideration) ConduitCodeHash() common.Hash { return c.conduit.CodeHash() }

// GuardState exposes the reentrancy guard state.
func (c *Consideration) GuardState() guard.State { return c.guard.GetState() }

// CachedDomainSeparator returns the separator derived at startup.
func (c *Consideration) CachedDomainSeparator() common.Hash { return c.domainSeparator }

// DomainSeparatorFor returns the cached separator when chainID matches the one
// seen at startup and recomputes it otherwise.
func (c *Consideration) DomainSeparatorFor(chainID *big.Int) common.Hash {
	if chainID != nil && chainID.Cmp(c.chainID) == 0 {
		return c.domainSeparator
	}
	th := c.typeHashes
	return c.deriver.DeriveDomainSeparator(th.DomainTypeHash, th.NameHash, th.VersionHash, chainID, c.address)
}

// DomainSeparator returns the separator for the chain observed right now.
// After a chain split the current chain id differs from the cached one and
// the value is recomputed, so signatures do not replay across forks.
func (c *Consideration) DomainSeparator(ctx context.Context) (common.Hash, error) {
	current, err := c.chain.ChainID(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("chain id lookup: %w", err)
	}
	if current == nil {
		return common.Hash{}, fmt.Errorf("chain id lookup returned nothing")
	}
	if current.Cmp(c.chainID) != 0 {
		slog.Warn("Chain id changed since startup, recomputing domain separator",
			slog.String("cached", c.chainID.String()),
			slog.String("current", current.String()))
	}
	return c.DomainSeparatorFor(current), nil
}

// Information returns the version, current domain separator and conduit controller.
func (c *Consideration) Information(ctx context.Context) (Information, error) {
	sep, err := c.DomainSeparator(ctx)
	if err != nil {
		return Information{}, err
	}
	return Information{
		Version:           c.version,
		DomainSeparator:   sep,
		ConduitController: c.conduit.Controller(),
	}, nil
}

// GetOrderHash hashes the order exactly as given, including its Nonce field.
func (c *Consideration) GetOrderHash(order domain.OrderComponents) common.Hash {
	return eip712.OrderHash(c.typeHashes, order)
}

// CurrentOrderHash hashes the order with the offerer's current nonce. An
// order signed under an older nonce no longer produces this identifier.
func (c *Consideration) CurrentOrderHash(ctx context.Context, r storage.Reader, order domain.OrderComponents) (common.Hash, error) {
	nonce, err := r.Nonce(ctx, order.Offerer)
	if err != nil {
		return common.Hash{}, err
	}
	order.Nonce = nonce
	return eip712.OrderHash(c.typeHashes, order), nil
}

// Digest returns the value the offerer must have signed for the order to
// verify right now. Inside a protected body the nonce is read through the
// open transaction carried by ctx.
func (c *Consideration) Digest(ctx context.Context, order domain.OrderComponents) (common.Hash, error) {
	return c.DigestWith(ctx, c.reader(ctx), order)
}

// DigestWith is Digest reading the nonce through r.
func (c *Consideration) DigestWith(ctx context.Context, r storage.Reader, order domain.OrderComponents) (common.Hash, error) {
	sep, err := c.DomainSeparator(ctx)
	if err != nil {
		return common.Hash{}, err
	}
	orderHash, err := c.CurrentOrderHash(ctx, r, order)
	if err != nil {
		return common.Hash{}, err
	}
	return eip712.Digest(sep, orderHash), nil
}

// GetOrderStatus reads an order's status, through the protected call's
// transaction when ctx carries one.
func (c *Consideration) GetOrderStatus(ctx context.Context, orderHash common.Hash) (domain.OrderStatus, error) {
	return c.reader(ctx).OrderStatus(ctx, orderHash)
}

// GetNonce reads an offerer's current nonce, through the protected call's
// transaction when ctx carries one.
func (c *Consideration) GetNonce(ctx context.Context, offerer common.Address) (uint64, error) {
	return c.reader(ctx).Nonce(ctx, offerer)
}

// Manifest captures the published read-only state.
func (c *Consideration) Manifest() *storage.Manifest {
	th := c.typeHashes
	return &storage.Manifest{
		CreatedUnix:       time.Now().Unix(),
		Name:              c.name,
		Version:           c.version,
		ChainID:           c.chainID.String(),
		VerifyingContract: c.address.Hex(),
		DomainSeparator:   c.domainSeparator.Hex(),
		TypeHashes: map[string]string{
			"name":               th.NameHash.Hex(),
			"version":            th.VersionHash.Hex(),
			"eip712_domain":      th.DomainTypeHash.Hex(),
			"offer_item":         th.OfferItemTypeHash.Hex(),
			"consideration_item": th.ConsiderationItemTypeHash.Hex(),
			"order_components":   th.OrderTypeHash.Hex(),
		},
		ConduitController:  c.conduit.Controller().Hex(),
		ConduitCodeHash:    c.conduit.CodeHash().Hex(),
		ConduitRuntimeHash: c.conduit.RuntimeCodeHash().Hex(),
	}
}
