package memory

import (
	"context"

	"reqgen/internal/domain/repositories"
)

type txKey struct{}

// TransactionManager gives the in-memory store all-or-nothing semantics:
// transactions run one at a time and a failed one restores the state captured
// when it began. Writes made outside a transaction while one is running are
// lost if it rolls back.
type TransactionManager struct {
	store *Store
	txMu  chan struct{}
}

// NewTransactionManager creates a transaction manager over store
func NewTransactionManager(store *Store) repositories.TransactionManager {
	return &TransactionManager{
		store: store,
		txMu:  make(chan struct{}, 1),
	}
}

// ExecTx executes fn within a transaction. Nested calls join the outer transaction.
func (tm *TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	select {
	case tm.txMu <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-tm.txMu }()

	tm.store.mu.RLock()
	before := tm.store.snapshotLocked()
	wasDirty := tm.store.dirty
	tm.store.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		tm.store.mu.Lock()
		tm.store.restoreLocked(before)
		tm.store.dirty = wasDirty
		tm.store.mu.Unlock()
		return err
	}

	return nil
}
