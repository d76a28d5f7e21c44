package fulfillment

import (
	"context"

	"github.com/jhoicas/VentasCampo-api/internal/domain/entity"
	"github.com/jhoicas/VentasCampo-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Garantiza atomicidad entre pedidos, líneas, ledger y movimientos:
// o se confirma todo el grupo o no queda nada observable.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		orders repository.OrderRepository,
		ledger repository.StockLedgerRepository,
		movements repository.StockMovementRepository,
		warehouses repository.WarehouseRepository,
	) error) error
}

// EventPublisher publica eventos de dominio después del commit SQL. Es best-effort:
// nunca afecta el resultado de la transacción.
type EventPublisher interface {
	OrderCreated(tenantID, orderID, orderNumber, totalAmount string)
	OrderStatusChanged(tenantID, orderID string, from, to entity.OrderStatus)
}

// StatusCache cache del estado de pedidos para el polling ligero de los vendedores en
// campo. Las fallas del cache se absorben en silencio (la BD sigue siendo la verdad).
// Las entradas van calificadas por tenant, igual que toda consulta de pedidos: un hit
// jamás puede revelar el estado (ni la existencia) de un pedido ajeno.
type StatusCache interface {
	SetStatus(ctx context.Context, tenantID, orderID string, status entity.OrderStatus)
	GetStatus(ctx context.Context, tenantID, orderID string) (entity.OrderStatus, bool)
}
