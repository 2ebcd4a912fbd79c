package storage

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"

	"consideration_go/internal/domain"
)

// ErrTxDone is returned when a committed or rolled back transaction is reused.
var ErrTxDone = errors.New("storage: transaction already finished")

// Reader exposes the order status and nonce mappings.
// Keys that were never written read as the zero value.
type Reader interface {
	OrderStatus(ctx context.Context, orderHash common.Hash) (domain.OrderStatus, error)
	Nonce(ctx context.Context, offerer common.Address) (uint64, error)
}

// Tx is an all-or-nothing unit of writes. Every mutation of order status or
// nonces happens inside one, opened by a protected call.
type Tx interface {
	Reader
	PutOrderStatus(ctx context.Context, orderHash common.Hash, status domain.OrderStatus) error
	PutNonce(ctx context.Context, offerer common.Address, nonce uint64) error
	Commit() error
	Rollback() error
}

// Store is the process-wide persistent state for order statuses and nonces.
type Store interface {
	Reader
	Begin(ctx context.Context) (Tx, error)
	Close() error
}
