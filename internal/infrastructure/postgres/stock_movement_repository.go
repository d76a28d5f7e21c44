package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/VentasCampo-api/internal/domain/entity"
	"github.com/jhoicas/VentasCampo-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo bitácora de movimientos de inventario. Solo inserciones;
// los movimientos nunca se editan ni borran.
type StockMovementRepo struct {
	q Querier
}

func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (
			id, tenant_id, reference, product_id, warehouse_id,
			quantity, movement_type, movement_date, reason, status, created_by, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.TenantID, m.Reference, m.ProductID, m.WarehouseID,
		m.Quantity, m.Type, m.Date, m.Reason, m.Status, nullIfEmpty(m.CreatedBy), m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// List movimientos del tenant, más recientes primero.
func (r *StockMovementRepo) List(ctx context.Context, tenantID string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, tenant_id, reference, product_id, warehouse_id,
		       quantity, movement_type, movement_date, reason, status, COALESCE(created_by, ''), created_at
		FROM stock_movements
		WHERE tenant_id = $1
		ORDER BY movement_date DESC, created_at DESC
		LIMIT $2 OFFSET $3`
	return r.scanMovements(ctx, query, tenantID, limit, offset)
}

// ListByProduct movimientos de un producto del tenant.
func (r *StockMovementRepo) ListByProduct(ctx context.Context, tenantID, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, tenant_id, reference, product_id, warehouse_id,
		       quantity, movement_type, movement_date, reason, status, COALESCE(created_by, ''), created_at
		FROM stock_movements
		WHERE tenant_id = $1 AND product_id = $2
		ORDER BY movement_date DESC, created_at DESC
		LIMIT $3 OFFSET $4`
	return r.scanMovements(ctx, query, tenantID, productID, limit, offset)
}

func (r *StockMovementRepo) scanMovements(ctx context.Context, query string, args ...any) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var movements []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.TenantID, &m.Reference, &m.ProductID, &m.WarehouseID,
			&m.Quantity, &m.Type, &m.Date, &m.Reason, &m.Status, &m.CreatedBy, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		movements = append(movements, &m)
	}
	return movements, rows.Err()
}
