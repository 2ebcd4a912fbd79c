package engine

import (
	"context"
	"errors"
	"math/big"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"consideration_go/internal/domain"
	"consideration_go/internal/storage"
)

var (
	testAddress    = common.HexToAddress("0x00000000006c3852cbef3e08e8df289169ede581")
	testController = common.HexToAddress("0x00000000f9490004c11cef243f5400493c00ad63")
	testCodeHash   = common.HexToHash("0x023d904f2503c37127200ca07b976c3a53cc562623f67023115bf311f5805059")
	testRuntime    = common.HexToHash("0x31a1c2bf6e2b64e4e5e0d4c6e3e1b7c1d0c9b8a7f6e5d4c3b2a1908070605040")

	offerer  = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	zone     = common.HexToAddress("0x00000000000000000000000000000000000000b2")
	stranger = common.HexToAddress("0x00000000000000000000000000000000000000ff")
)

// mutableChain reports whatever chain id the test sets.
type mutableChain struct {
	mu  sync.Mutex
	id  *big.Int
	err error
}

func newChain(id int64) *mutableChain { return &mutableChain{id: big.NewInt(id)} }

func (m *mutableChain) ChainID(_ context.Context) (*big.Int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return new(big.Int).Set(m.id), nil
}

func (m *mutableChain) set(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.id = big.NewInt(id)
}

type stubController struct {
	creation common.Hash
	runtime  common.Hash
	err      error
	calls    int
}

func (s *stubController) GetConduitCodeHashes(_ context.Context) (common.Hash, common.Hash, error) {
	s.calls++
	return s.creation, s.runtime, s.err
}

func okController() *stubController {
	return &stubController{creation: testCodeHash, runtime: testRuntime}
}

func newTestEngine(t *testing.T, chain ChainIdentity, store storage.Store) *Consideration {
	t.Helper()
	c, err := New(context.Background(), Params{
		Address:           testAddress,
		ConduitController: testController,
	}, Dependencies{
		Chain:      chain,
		Controller: okController(),
		Store:      store,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return c
}

func newSQLiteStore(t *testing.T) storage.Store {
	t.Helper()
	s, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "engine.db"))
	if err != nil {
		t.Fatalf("failed to open sqlite store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func storeFactories() map[string]func(t *testing.T) storage.Store {
	return map[string]func(t *testing.T) storage.Store{
		"memory": func(t *testing.T) storage.Store { return storage.NewMemoryStore() },
		"sqlite": newSQLiteStore,
	}
}

func testOrder() domain.OrderComponents {
	return domain.OrderComponents{
		Offerer: offerer,
		Zone:    zone,
		Offer: []domain.OfferItem{{
			ItemType:             domain.ItemERC721,
			Token:                common.HexToAddress("0x00000000000000000000000000000000000000c3"),
			IdentifierOrCriteria: big.NewInt(42),
			StartAmount:          big.NewInt(1),
			EndAmount:            big.NewInt(1),
		}},
		Consideration: []domain.ConsiderationItem{{
			ItemType:    domain.ItemNative,
			StartAmount: big.NewInt(5_000),
			EndAmount:   big.NewInt(5_000),
			Recipient:   offerer,
		}},
		OrderType: domain.OrderFullRestricted,
		StartTime: big.NewInt(0),
		EndTime:   big.NewInt(2_000_000_000),
		Salt:      big.NewInt(99),
	}
}

var errBoom = errors.New("boom")
