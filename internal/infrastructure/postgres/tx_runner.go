package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/VentasCampo-api/internal/application/fulfillment"
	"github.com/jhoicas/VentasCampo-api/internal/domain/repository"
)

// Ensure TxRunner implements fulfillment.TxRunner.
var _ fulfillment.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL. Si la conexión se
// cae a mitad de camino, el rollback nativo de la BD garantiza que no quede estado
// parcial (pedido sin reserva, o reserva sin pedido).
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	orders repository.OrderRepository,
	ledger repository.StockLedgerRepository,
	movements repository.StockMovementRepository,
	warehouses repository.WarehouseRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	orders := NewOrderRepository(tx)
	ledger := NewStockLedgerRepository(tx)
	movements := NewStockMovementRepository(tx)
	warehouses := NewWarehouseRepository(tx)

	if err := fn(orders, ledger, movements, warehouses); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
