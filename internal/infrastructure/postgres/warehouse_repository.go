package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/VentasCampo-api/internal/domain"
	"github.com/jhoicas/VentasCampo-api/internal/domain/entity"
	"github.com/jhoicas/VentasCampo-api/internal/domain/repository"
)

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

// WarehouseRepo catálogo de almacenes del tenant.
type WarehouseRepo struct {
	q Querier
}

func NewWarehouseRepository(q Querier) *WarehouseRepo {
	return &WarehouseRepo{q: q}
}

const warehouseColumns = `id, tenant_id, name, COALESCE(address, ''), is_default, created_at, updated_at`

// GetByID obtiene un almacén por ID. El caller valida la pertenencia al tenant.
func (r *WarehouseRepo) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	query := `SELECT ` + warehouseColumns + ` FROM warehouses WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id))
}

// GetDefault almacén por defecto del tenant. ErrNotFound si el tenant no tiene
// ninguno marcado (dato mal sembrado).
func (r *WarehouseRepo) GetDefault(ctx context.Context, tenantID string) (*entity.Warehouse, error) {
	query := `SELECT ` + warehouseColumns + ` FROM warehouses WHERE tenant_id = $1 AND is_default ORDER BY created_at LIMIT 1`
	w, err := r.scanOne(r.q.QueryRow(ctx, query, tenantID))
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, fmt.Errorf("default warehouse for tenant %s: %w", tenantID, domain.ErrNotFound)
	}
	return w, nil
}

// ListByTenant lista los almacenes del tenant, el default primero.
func (r *WarehouseRepo) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Warehouse, error) {
	query := `SELECT ` + warehouseColumns + ` FROM warehouses WHERE tenant_id = $1 ORDER BY is_default DESC, name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	defer rows.Close()
	var warehouses []*entity.Warehouse
	for rows.Next() {
		var w entity.Warehouse
		if err := rows.Scan(&w.ID, &w.TenantID, &w.Name, &w.Address, &w.IsDefault, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan warehouse: %w", err)
		}
		warehouses = append(warehouses, &w)
	}
	return warehouses, rows.Err()
}

func (r *WarehouseRepo) scanOne(row pgx.Row) (*entity.Warehouse, error) {
	var w entity.Warehouse
	err := row.Scan(&w.ID, &w.TenantID, &w.Name, &w.Address, &w.IsDefault, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get warehouse: %w", err)
	}
	return &w, nil
}
