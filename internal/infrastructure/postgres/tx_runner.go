package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Restaurante-api/internal/application/ledger"
	"github.com/jhoicas/Restaurante-api/internal/application/loss"
	"github.com/jhoicas/Restaurante-api/internal/application/purchasing"
	"github.com/jhoicas/Restaurante-api/internal/domain/repository"
)

// El mismo runner sirve a los tres flujos escritores.
var _ ledger.TxRunner = (*TxRunner)(nil)
var _ purchasing.TxRunner = (*TxRunner)(nil)
var _ loss.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL, pasando
// repositorios atados a esa tx. Rollback implícito si el callback falla.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run transacción del motor del libro: stock + asientos.
func (r *TxRunner) Run(ctx context.Context, fn func(
	stockRepo repository.StockItemRepository,
	entryRepo repository.LedgerEntryRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewStockItemRepository(tx), NewLedgerEntryRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunPurchase transacción del flujo de compras: stock + asientos + órdenes.
func (r *TxRunner) RunPurchase(ctx context.Context, fn func(
	stockRepo repository.StockItemRepository,
	entryRepo repository.LedgerEntryRepository,
	orderRepo repository.PurchaseOrderRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewStockItemRepository(tx), NewLedgerEntryRepository(tx), NewPurchaseOrderRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunLoss transacción del registro de mermas: stock + asientos + mermas.
func (r *TxRunner) RunLoss(ctx context.Context, fn func(
	stockRepo repository.StockItemRepository,
	entryRepo repository.LedgerEntryRepository,
	lossRepo repository.LossRecordRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewStockItemRepository(tx), NewLedgerEntryRepository(tx), NewLossRecordRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
