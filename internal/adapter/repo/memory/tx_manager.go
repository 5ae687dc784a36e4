package memory

import (
	"context"

	"hearthfield/internal/app/ports"
)

// TxManager serializes game calls on the store's mutex. With an inner manager
// the call also runs inside that manager's transaction, so a durable journal
// commits all events of one call together.
type TxManager struct {
	store *Store
	inner ports.TxManager
}

func NewTxManager(store *Store) TxManager {
	return TxManager{store: store}
}

func (t TxManager) Wrap(inner ports.TxManager) TxManager {
	t.inner = inner
	return t
}

func (t TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.store.tx.Lock()
	defer t.store.tx.Unlock()
	if t.inner != nil {
		return t.inner.RunInTx(ctx, fn)
	}
	return fn(ctx)
}
