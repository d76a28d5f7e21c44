package repository

import (
	"context"

	"github.com/jhoicas/VentasCampo-api/internal/domain/entity"
)

// StockLedgerRepository define el puerto del ledger de stock. Es el ÚNICO camino de
// escritura sobre quantity_on_hand/quantity_reserved; ningún otro código toca esas
// columnas directamente.
type StockLedgerRepository interface {
	// AvailableInWarehouse devuelve la disponibilidad en una bodega concreta.
	AvailableInWarehouse(ctx context.Context, tenantID, productID, warehouseID string) (int, error)
	// Reserve incrementa quantity_reserved solo si available >= qty, en UN update
	// condicional. Devuelve false si no había stock suficiente en ese instante;
	// dos llamadas concurrentes jamás pueden reservar por encima del límite.
	Reserve(ctx context.Context, tenantID, productID, warehouseID string, qty int) (bool, error)
	// CommitReservation convierte la reserva en deducción física: decrementa on_hand y
	// reserved. Si reserved < qty devuelve ErrLedgerIntegrity (defecto, no negocio).
	CommitReservation(ctx context.Context, tenantID, productID, warehouseID string, qty int) error
	// Release libera la reserva sin tocar on_hand. La idempotencia es responsabilidad
	// del caller: no liberar dos veces la misma reserva.
	Release(ctx context.Context, tenantID, productID, warehouseID string, qty int) error
	// Snapshot devuelve los contadores agregados del producto a nivel tenant
	// (lectura consistente, sin efectos).
	Snapshot(ctx context.Context, tenantID, productID string) (entity.StockLevel, error)
	// ListByWarehouse lista las filas del ledger de una bodega (visibilidad operativa).
	ListByWarehouse(ctx context.Context, tenantID, warehouseID string, limit, offset int) ([]*entity.StockLedgerEntry, error)
}
