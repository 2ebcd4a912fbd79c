package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	_ "github.com/glebarez/go-sqlite"

	"consideration_go/internal/domain"
)

// SQLiteStore persists order statuses and nonces in SQLite.
// uint64 values are stored bit-for-bit in INTEGER columns.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) the database at dbPath with WAL mode enabled.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	// Single writer. Pragmas below are per-connection, so keep exactly one.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=FULL;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %s: %w", pragma, err)
		}
	}

	// Rows are never deleted: order_status is the permanent audit trail.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS order_status (
			order_hash TEXT PRIMARY KEY,
			is_validated INTEGER NOT NULL,
			is_cancelled INTEGER NOT NULL,
			numerator INTEGER NOT NULL,
			denominator INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create order_status table: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS nonces (
			offerer TEXT PRIMARY KEY,
			nonce INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create nonces table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// OrderStatus reads the status of an order outside any transaction.
func (s *SQLiteStore) OrderStatus(ctx context.Context, orderHash common.Hash) (domain.OrderStatus, error) {
	return queryOrderStatus(ctx, s.db, orderHash)
}

// Nonce reads the current nonce of an offerer outside any transaction.
func (s *SQLiteStore) Nonce(ctx context.Context, offerer common.Address) (uint64, error) {
	return queryNonce(ctx, s.db, offerer)
}

// Begin starts a write transaction. Reads through the store block until it
// finishes, so protected calls must read through the Tx.
func (s *SQLiteStore) Begin(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin tx: %w", err)
	}
	return &sqliteTx{tx: tx}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func queryOrderStatus(ctx context.Context, q queryer, orderHash common.Hash) (domain.OrderStatus, error) {
	var (
		st                     domain.OrderStatus
		numerator, denominator int64
	)
	err := q.QueryRowContext(ctx,
		"SELECT is_validated, is_cancelled, numerator, denominator FROM order_status WHERE order_hash = ?",
		orderHash.Hex(),
	).Scan(&st.IsValidated, &st.IsCancelled, &numerator, &denominator)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.OrderStatus{}, nil
	}
	if err != nil {
		return domain.OrderStatus{}, fmt.Errorf("failed to query order status: %w", err)
	}
	st.Numerator = uint64(numerator)
	st.Denominator = uint64(denominator)
	return st, nil
}

func queryNonce(ctx context.Context, q queryer, offerer common.Address) (uint64, error) {
	var nonce int64
	err := q.QueryRowContext(ctx, "SELECT nonce FROM nonces WHERE offerer = ?", offerer.Hex()).Scan(&nonce)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query nonce: %w", err)
	}
	return uint64(nonce), nil
}

type sqliteTx struct {
	tx   *sql.Tx
	done bool
}

func (t *sqliteTx) OrderStatus(ctx context.Context, orderHash common.Hash) (domain.OrderStatus, error) {
	if t.done {
		return domain.OrderStatus{}, ErrTxDone
	}
	return queryOrderStatus(ctx, t.tx, orderHash)
}

func (t *sqliteTx) Nonce(ctx context.Context, offerer common.Address) (uint64, error) {
	if t.done {
		return 0, ErrTxDone
	}
	return queryNonce(ctx, t.tx, offerer)
}

func (t *sqliteTx) PutOrderStatus(ctx context.Context, orderHash common.Hash, status domain.OrderStatus) error {
	if t.done {
		return ErrTxDone
	}
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO order_status (order_hash, is_validated, is_cancelled, numerator, denominator, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(order_hash) DO UPDATE SET
			is_validated=excluded.is_validated,
			is_cancelled=excluded.is_cancelled,
			numerator=excluded.numerator,
			denominator=excluded.denominator,
			updated_at=excluded.updated_at`,
		orderHash.Hex(), status.IsValidated, status.IsCancelled,
		int64(status.Numerator), int64(status.Denominator), time.Now().UnixMicro(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert order status: %w", err)
	}
	return nil
}

func (t *sqliteTx) PutNonce(ctx context.Context, offerer common.Address, nonce uint64) error {
	if t.done {
		return ErrTxDone
	}
	_, err := t.tx.ExecContext(ctx,
		"INSERT INTO nonces (offerer, nonce, updated_at) VALUES (?, ?, ?) ON CONFLICT(offerer) DO UPDATE SET nonce=excluded.nonce, updated_at=excluded.updated_at",
		offerer.Hex(), int64(nonce), time.Now().UnixMicro(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert nonce: %w", err)
	}
	return nil
}

func (t *sqliteTx) Commit() error {
	if t.done {
		return ErrTxDone
	}
	t.done = true
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func (t *sqliteTx) Rollback() error {
	if t.done {
		return ErrTxDone
	}
	t.done = true
	// database/sql rolls back on its own when the Begin context is cancelled.
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("failed to rollback: %w", err)
	}
	return nil
}
