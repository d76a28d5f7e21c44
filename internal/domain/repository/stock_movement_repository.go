package repository

import (
	"context"

	"github.com/jhoicas/VentasCampo-api/internal/domain/entity"
)

// StockMovementRepository define el puerto del historial de movimientos (append-only).
// Create nunca falla por condiciones de negocio, solo por infraestructura.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	List(ctx context.Context, tenantID string, limit, offset int) ([]*entity.StockMovement, error)
	ListByProduct(ctx context.Context, tenantID, productID string, limit, offset int) ([]*entity.StockMovement, error)
}
