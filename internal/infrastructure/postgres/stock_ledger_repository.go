package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/VentasCampo-api/internal/domain"
	"github.com/jhoicas/VentasCampo-api/internal/domain/entity"
	"github.com/jhoicas/VentasCampo-api/internal/domain/repository"
)

var _ repository.StockLedgerRepository = (*StockLedgerRepo)(nil)

// StockLedgerRepo implementación de StockLedgerRepository sobre PostgreSQL (pool o tx).
// Las tres mutaciones son updates condicionales de UNA sentencia: la condición en el
// WHERE es lo que sostiene el invariante available >= 0 bajo concurrencia, sin ventana
// entre leer y escribir.
type StockLedgerRepo struct {
	q Querier
}

// NewStockLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockLedgerRepository(q Querier) *StockLedgerRepo {
	return &StockLedgerRepo{q: q}
}

// AvailableInWarehouse devuelve la disponibilidad en una bodega concreta.
// Sin fila en el ledger = cero disponible (las filas pre-existen por bodega/producto).
func (r *StockLedgerRepo) AvailableInWarehouse(ctx context.Context, tenantID, productID, warehouseID string) (int, error) {
	query := `
		SELECT COALESCE(SUM(quantity_on_hand - quantity_reserved), 0)
		FROM stock_ledger
		WHERE tenant_id = $1 AND product_id = $2 AND warehouse_id = $3`
	var available int
	if err := r.q.QueryRow(ctx, query, tenantID, productID, warehouseID).Scan(&available); err != nil {
		return 0, fmt.Errorf("available in warehouse: %w", err)
	}
	return available, nil
}

// Reserve incrementa la reserva solo si hay disponible suficiente EN LA MISMA sentencia.
// Dos callers concurrentes no pueden pasar el límite: el segundo update no encuentra
// fila que cumpla la condición y devuelve false.
func (r *StockLedgerRepo) Reserve(ctx context.Context, tenantID, productID, warehouseID string, qty int) (bool, error) {
	query := `
		UPDATE stock_ledger
		SET quantity_reserved = quantity_reserved + $4, updated_at = now()
		WHERE tenant_id = $1 AND product_id = $2 AND warehouse_id = $3
		  AND quantity_on_hand - quantity_reserved >= $4`
	ct, err := r.q.Exec(ctx, query, tenantID, productID, warehouseID, qty)
	if err != nil {
		return false, fmt.Errorf("reserve stock: %w", err)
	}
	return ct.RowsAffected() == 1, nil
}

// CommitReservation deduce on_hand y reserved a la vez, con guardia reserved >= qty.
// Cero filas afectadas significa que alguien saltó la máquina de estados o que el
// ledger está corrupto: ErrLedgerIntegrity, el caller debe hacer rollback completo.
func (r *StockLedgerRepo) CommitReservation(ctx context.Context, tenantID, productID, warehouseID string, qty int) error {
	query := `
		UPDATE stock_ledger
		SET quantity_on_hand  = quantity_on_hand  - $4,
		    quantity_reserved = quantity_reserved - $4,
		    updated_at = now()
		WHERE tenant_id = $1 AND product_id = $2 AND warehouse_id = $3
		  AND quantity_reserved >= $4`
	ct, err := r.q.Exec(ctx, query, tenantID, productID, warehouseID, qty)
	if err != nil {
		return fmt.Errorf("commit reservation: %w", err)
	}
	if ct.RowsAffected() != 1 {
		return fmt.Errorf("producto %s bodega %s: confirmar %d con reserva menor: %w",
			productID, warehouseID, qty, domain.ErrLedgerIntegrity)
	}
	return nil
}

// Release libera la reserva sin tocar on_hand, con la misma guardia de integridad.
func (r *StockLedgerRepo) Release(ctx context.Context, tenantID, productID, warehouseID string, qty int) error {
	query := `
		UPDATE stock_ledger
		SET quantity_reserved = quantity_reserved - $4, updated_at = now()
		WHERE tenant_id = $1 AND product_id = $2 AND warehouse_id = $3
		  AND quantity_reserved >= $4`
	ct, err := r.q.Exec(ctx, query, tenantID, productID, warehouseID, qty)
	if err != nil {
		return fmt.Errorf("release stock: %w", err)
	}
	if ct.RowsAffected() != 1 {
		return fmt.Errorf("producto %s bodega %s: liberar %d con reserva menor: %w",
			productID, warehouseID, qty, domain.ErrLedgerIntegrity)
	}
	return nil
}

// Snapshot contadores agregados del producto a nivel tenant (una lectura consistente).
func (r *StockLedgerRepo) Snapshot(ctx context.Context, tenantID, productID string) (entity.StockLevel, error) {
	query := `
		SELECT COALESCE(SUM(quantity_on_hand), 0), COALESCE(SUM(quantity_reserved), 0)
		FROM stock_ledger
		WHERE tenant_id = $1 AND product_id = $2`
	var level entity.StockLevel
	if err := r.q.QueryRow(ctx, query, tenantID, productID).Scan(&level.OnHand, &level.Reserved); err != nil {
		return entity.StockLevel{}, fmt.Errorf("stock snapshot: %w", err)
	}
	return level, nil
}

// ListByWarehouse lista las filas del ledger de una bodega.
func (r *StockLedgerRepo) ListByWarehouse(ctx context.Context, tenantID, warehouseID string, limit, offset int) ([]*entity.StockLedgerEntry, error) {
	query := `
		SELECT tenant_id, product_id, warehouse_id, quantity_on_hand, quantity_reserved, updated_at
		FROM stock_ledger
		WHERE tenant_id = $1 AND warehouse_id = $2
		ORDER BY product_id
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, tenantID, warehouseID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock ledger: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockLedgerEntry
	for rows.Next() {
		var e entity.StockLedgerEntry
		if err := rows.Scan(&e.TenantID, &e.ProductID, &e.WarehouseID, &e.QuantityOnHand, &e.QuantityReserved, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock ledger: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
