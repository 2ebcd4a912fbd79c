package storage

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"consideration_go/internal/domain"
)

// MemoryStore keeps state in process memory. Transactions stage writes in an
// overlay and apply them on Commit.
type MemoryStore struct {
	mu       sync.RWMutex
	statuses map[common.Hash]domain.OrderStatus
	nonces   map[common.Address]uint64
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		statuses: make(map[common.Hash]domain.OrderStatus),
		nonces:   make(map[common.Address]uint64),
	}
}

func (s *MemoryStore) OrderStatus(_ context.Context, orderHash common.Hash) (domain.OrderStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.statuses[orderHash], nil
}

func (s *MemoryStore) Nonce(_ context.Context, offerer common.Address) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nonces[offerer], nil
}

func (s *MemoryStore) Begin(_ context.Context) (Tx, error) {
	return &memoryTx{
		store:    s,
		statuses: make(map[common.Hash]domain.OrderStatus),
		nonces:   make(map[common.Address]uint64),
	}, nil
}

func (s *MemoryStore) Close() error { return nil }

type memoryTx struct {
	store    *MemoryStore
	statuses map[common.Hash]domain.OrderStatus
	nonces   map[common.Address]uint64
	done     bool
}

func (t *memoryTx) OrderStatus(ctx context.Context, orderHash common.Hash) (domain.OrderStatus, error) {
	if t.done {
		return domain.OrderStatus{}, ErrTxDone
	}
	if st, ok := t.statuses[orderHash]; ok {
		return st, nil
	}
	return t.store.OrderStatus(ctx, orderHash)
}

func (t *memoryTx) Nonce(ctx context.Context, offerer common.Address) (uint64, error) {
	if t.done {
		return 0, ErrTxDone
	}
	if n, ok := t.nonces[offerer]; ok {
		return n, nil
	}
	return t.store.Nonce(ctx, offerer)
}

func (t *memoryTx) PutOrderStatus(_ context.Context, orderHash common.Hash, status domain.OrderStatus) error {
	if t.done {
		return ErrTxDone
	}
	t.statuses[orderHash] = status
	return nil
}

func (t *memoryTx) PutNonce(_ context.Context, offerer common.Address, nonce uint64) error {
	if t.done {
		return ErrTxDone
	}
	t.nonces[offerer] = nonce
	return nil
}

func (t *memoryTx) Commit() error {
	if t.done {
		return ErrTxDone
	}
	t.done = true

	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	for k, v := range t.statuses {
		t.store.statuses[k] = v
	}
	for k, v := range t.nonces {
		t.store.nonces[k] = v
	}
	return nil
}

func (t *memoryTx) Rollback() error {
	if t.done {
		return ErrTxDone
	}
	t.done = true
	return nil
}
