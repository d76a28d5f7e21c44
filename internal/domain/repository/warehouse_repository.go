package repository

import (
	"context"

	"github.com/jhoicas/VentasCampo-api/internal/domain/entity"
)

// WarehouseRepository define el puerto de persistencia para Warehouse (DIP).
type WarehouseRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)
	// GetDefault resuelve la bodega contra la que se reservan los pedidos del tenant.
	GetDefault(ctx context.Context, tenantID string) (*entity.Warehouse, error)
	ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Warehouse, error)
}
