package memory

import (
	"context"
	"sync"

	appledger "github.com/jhoicas/Kardex-api/internal/application/ledger"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ appledger.TxRunner = (*TxRunner)(nil)

// TxRunner unidad de trabajo sobre el Store. Serializa los commits y
// restaura el estado previo si fn devuelve error, imitando el rollback
// de una transacción de base de datos.
type TxRunner struct {
	store *Store
	txMu  sync.Mutex
}

func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

func (r *TxRunner) Run(ctx context.Context, fn func(txRepo repository.TransactionRepository, balanceRepo repository.BalanceRepository) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	snap := r.store.snapshot()
	if err := fn(r.store.Transactions(), r.store.Balances()); err != nil {
		r.store.restore(snap)
		return err
	}
	return nil
}
