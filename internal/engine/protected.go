package engine

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"

	"consideration_go/internal/domain"
	"consideration_go/internal/storage"
	"consideration_go/pkg/safe"
)

var (
	// ErrUnauthorizedCanceller is returned when the caller is neither offerer nor zone.
	ErrUnauthorizedCanceller = errors.New("caller may not cancel this order")
	// ErrNonceOverflow is returned when a nonce cannot be incremented further.
	ErrNonceOverflow = errors.New("nonce overflow")
)

type txKey struct{}

// reader returns the transaction of the enclosing protected call, or the store.
// The SQLite store has one connection, held by that transaction.
func (c *Consideration) reader(ctx context.Context) storage.Reader {
	if tx, ok := ctx.Value(txKey{}).(storage.Tx); ok {
		return tx
	}
	return c.store
}

// ProtectedFunc is the body of a protected call. All writes go through tx.
type ProtectedFunc func(ctx context.Context, tx storage.Tx) error

// Protect runs fn under the reentrancy guard inside one store transaction.
// fn's writes commit only if it returns nil; on error or panic they are
// rolled back and the guard is released. A nested Protect fails with
// ErrReentrancy before opening a transaction. The ctx handed to fn carries
// tx, so GetNonce, GetOrderStatus and Digest called with it read through tx.
func (c *Consideration) Protect(ctx context.Context, fn ProtectedFunc) error {
	return c.guard.Do(func() error {
		tx, err := c.store.Begin(ctx)
		if err != nil {
			return err
		}
		committed := false
		defer func() {
			if !committed {
				if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, storage.ErrTxDone) {
					slog.Error("Rollback failed", slog.Any("error", rbErr))
				}
			}
		}()

		if err := fn(context.WithValue(ctx, txKey{}, tx), tx); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		committed = true
		return nil
	})
}

// IncrementNonce bumps the offerer's nonce, invalidating every order signed
// under the previous value. Returns the new nonce.
func (c *Consideration) IncrementNonce(ctx context.Context, offerer common.Address) (uint64, error) {
	var next uint64
	err := c.Protect(ctx, func(ctx context.Context, tx storage.Tx) error {
		current, err := tx.Nonce(ctx, offerer)
		if err != nil {
			return err
		}
		n, ok := safe.Increment(current)
		if !ok {
			return ErrNonceOverflow
		}
		next = n
		return tx.PutNonce(ctx, offerer, next)
	})
	if err != nil {
		return 0, err
	}

	slog.Info("Nonce incremented",
		slog.String("offerer", offerer.Hex()),
		slog.Uint64("nonce", next))
	return next, nil
}

// Cancel marks each order cancelled. caller must be the offerer or the zone
// of every order; otherwise nothing is written.
func (c *Consideration) Cancel(ctx context.Context, caller common.Address, orders []domain.OrderComponents) error {
	return c.Protect(ctx, func(ctx context.Context, tx storage.Tx) error {
		for i := range orders {
			order := &orders[i]
			if !order.CanCancel(caller) {
				return ErrUnauthorizedCanceller
			}

			orderHash := c.GetOrderHash(*order)
			status, err := tx.OrderStatus(ctx, orderHash)
			if err != nil {
				return err
			}
			status.IsValidated = false
			status.IsCancelled = true
			if err := tx.PutOrderStatus(ctx, orderHash, status); err != nil {
				return err
			}

			slog.Info("Order cancelled",
				slog.String("order_hash", orderHash.Hex()),
				slog.String("offerer", order.Offerer.Hex()))
		}
		return nil
	})
}
