package fulfillment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/VentasCampo-api/internal/domain"
	"github.com/jhoicas/VentasCampo-api/internal/domain/entity"
	"github.com/jhoicas/VentasCampo-api/internal/domain/repository"
)

// UpdateOrderStatus transiciona el estado de un pedido y aplica el efecto de inventario
// correspondiente, todo en una transacción:
//   - entrar a "shipped" confirma la reserva de cada línea (deducción física) y agrega
//     un movimiento de auditoría por línea;
//   - entrar a "cancelled" desde un estado que mantiene reserva la libera;
//   - el resto de transiciones son neutrales para inventario.
//
// La fila del pedido se bloquea (SELECT FOR UPDATE) para serializar transiciones
// concurrentes; un segundo "shipped" se rechaza por el grafo antes de tocar el ledger.
// NO es idempotente: el caller no debe reintentar a ciegas — ante un error de
// infraestructura se reintenta la operación completa, nunca se reanuda.
func (uc *UseCase) UpdateOrderStatus(ctx context.Context, tenantID, orderID, newStatus, actorID string) error {
	if tenantID == "" || orderID == "" {
		return domain.ErrInvalidInput
	}
	target, ok := entity.ParseOrderStatus(newStatus)
	if !ok {
		return domain.ErrInvalidStatus
	}

	var from entity.OrderStatus

	err := uc.txRunner.Run(ctx, func(
		orders repository.OrderRepository,
		ledger repository.StockLedgerRepository,
		movements repository.StockMovementRepository,
		warehouses repository.WarehouseRepository,
	) error {
		current, err := orders.GetStatusForUpdate(ctx, tenantID, orderID)
		if err != nil {
			return err
		}
		from = current

		if !entity.CanTransition(current, target) {
			return fmt.Errorf("%s → %s: %w", current, target, domain.ErrInvalidTransition)
		}

		switch {
		case target == entity.OrderStatusShipped:
			if err := uc.commitStock(ctx, orders, ledger, movements, warehouses, tenantID, orderID, actorID); err != nil {
				return err
			}
		case target == entity.OrderStatusCancelled && current.HoldsReservation():
			if err := uc.releaseStock(ctx, orders, ledger, warehouses, tenantID, orderID); err != nil {
				return err
			}
		}

		return orders.UpdateStatus(ctx, tenantID, orderID, target)
	})
	if err != nil {
		return err
	}

	uc.statusCache.SetStatus(ctx, tenantID, orderID, target)
	uc.publisher.OrderStatusChanged(tenantID, orderID, from, target)
	return nil
}

// commitStock convierte la reserva de cada línea en deducción física y deja un
// movimiento "sale" por línea, referenciado al número del pedido (sin FK, para que el
// historial sobreviva al pedido).
func (uc *UseCase) commitStock(
	ctx context.Context,
	orders repository.OrderRepository,
	ledger repository.StockLedgerRepository,
	movements repository.StockMovementRepository,
	warehouses repository.WarehouseRepository,
	tenantID, orderID, actorID string,
) error {
	order, err := orders.GetByID(ctx, tenantID, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return domain.ErrNotFound
	}
	items, err := orders.GetItems(ctx, orderID)
	if err != nil {
		return err
	}
	wh, err := warehouses.GetDefault(ctx, tenantID)
	if err != nil {
		return err
	}
	if wh == nil {
		return fmt.Errorf("tenant %s sin bodega por defecto: %w", tenantID, domain.ErrNotFound)
	}

	now := time.Now()
	for _, item := range items {
		// Si reserved < qty el update condicional no afecta filas y el repo devuelve
		// ErrLedgerIntegrity: alguien saltó la máquina de estados. Rollback completo.
		if err := ledger.CommitReservation(ctx, tenantID, item.ProductID, wh.ID, item.Quantity); err != nil {
			return err
		}
		mov := &entity.StockMovement{
			ID:          uuid.New().String(),
			TenantID:    tenantID,
			Reference:   order.OrderNumber,
			ProductID:   item.ProductID,
			WarehouseID: wh.ID,
			Quantity:    item.Quantity,
			Type:        entity.MovementTypeSale,
			Date:        now,
			Reason:      "venta pedido " + order.OrderNumber,
			Status:      entity.MovementStatusCompleted,
			CreatedBy:   actorID,
			CreatedAt:   now,
		}
		if err := movements.Create(ctx, mov); err != nil {
			return err
		}
	}
	return nil
}

// releaseStock libera la reserva de cada línea sin tocar on_hand.
func (uc *UseCase) releaseStock(
	ctx context.Context,
	orders repository.OrderRepository,
	ledger repository.StockLedgerRepository,
	warehouses repository.WarehouseRepository,
	tenantID, orderID string,
) error {
	items, err := orders.GetItems(ctx, orderID)
	if err != nil {
		return err
	}
	wh, err := warehouses.GetDefault(ctx, tenantID)
	if err != nil {
		return err
	}
	if wh == nil {
		return fmt.Errorf("tenant %s sin bodega por defecto: %w", tenantID, domain.ErrNotFound)
	}
	for _, item := range items {
		if err := ledger.Release(ctx, tenantID, item.ProductID, wh.ID, item.Quantity); err != nil {
			return err
		}
	}
	return nil
}
