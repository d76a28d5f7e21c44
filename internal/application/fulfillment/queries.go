package fulfillment

import (
	"context"

	"github.com/jhoicas/VentasCampo-api/internal/application/dto"
	"github.com/jhoicas/VentasCampo-api/internal/domain"
)

// GetOrderWithDetails lectura del pedido con líneas y nombres de presentación.
// Sin efectos; cualquier número de llamadas deja el estado intacto.
func (uc *UseCase) GetOrderWithDetails(ctx context.Context, tenantID, orderID string) (*dto.OrderResponse, error) {
	order, err := uc.orderRepo.GetByID(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.orderRepo.GetItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return uc.toOrderResponse(ctx, order, items), nil
}

// StockCheck diagnóstico de solo lectura: explica por línea si el pedido podría
// cumplirse con el stock agregado actual del tenant. Lo usan los operadores para
// entender un bloqueo de cumplimiento; no muta nada.
func (uc *UseCase) StockCheck(ctx context.Context, tenantID, orderID string) ([]dto.StockCheckLine, error) {
	order, err := uc.orderRepo.GetByID(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.orderRepo.GetItems(ctx, orderID)
	if err != nil {
		return nil, err
	}

	lines := make([]dto.StockCheckLine, 0, len(items))
	for _, item := range items {
		level, err := uc.ledgerRepo.Snapshot(ctx, tenantID, item.ProductID)
		if err != nil {
			return nil, err
		}
		lines = append(lines, dto.StockCheckLine{
			ProductID:      item.ProductID,
			Requested:      item.Quantity,
			TotalStock:     level.OnHand,
			ReservedStock:  level.Reserved,
			AvailableStock: level.Available(),
			CanFulfill:     level.Available() >= item.Quantity,
		})
	}
	return lines, nil
}

// GetOrderStatus consulta ligera del estado, con read-through al cache. La clave del
// cache incluye el tenant: un hit caliente responde exactamente lo mismo que un miss
// frío para un pedido ajeno (ErrNotFound), sin confirmar siquiera su existencia.
func (uc *UseCase) GetOrderStatus(ctx context.Context, tenantID, orderID string) (*dto.OrderStatusResponse, error) {
	if status, ok := uc.statusCache.GetStatus(ctx, tenantID, orderID); ok {
		return &dto.OrderStatusResponse{OrderID: orderID, Status: string(status), Cached: true}, nil
	}
	order, err := uc.orderRepo.GetByID(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	uc.statusCache.SetStatus(ctx, tenantID, orderID, order.Status)
	return &dto.OrderStatusResponse{OrderID: orderID, Status: string(order.Status), Cached: false}, nil
}
