package repository

import (
	"context"
	"time"

	"github.com/jhoicas/VentasCampo-api/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para pedidos y sus líneas (DIP).
// Todas las consultas van acotadas por tenant.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	CreateItem(ctx context.Context, item *entity.OrderItem) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Order, error)
	GetItems(ctx context.Context, orderID string) ([]*entity.OrderItem, error)
	// GetStatusForUpdate lee el estado actual bloqueando la fila (SELECT FOR UPDATE)
	// para serializar transiciones concurrentes sobre el mismo pedido.
	GetStatusForUpdate(ctx context.Context, tenantID, id string) (entity.OrderStatus, error)
	UpdateStatus(ctx context.Context, tenantID, id string, status entity.OrderStatus) error
	// NextSequenceForDate devuelve el siguiente consecutivo del día para numerar pedidos
	// (SO-YYYYMMDD-NNNN). Debe llamarse dentro de la transacción de creación.
	NextSequenceForDate(ctx context.Context, tenantID string, date time.Time) (int, error)
}
