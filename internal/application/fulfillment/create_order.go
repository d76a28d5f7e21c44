package fulfillment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/VentasCampo-api/internal/application/dto"
	"github.com/jhoicas/VentasCampo-api/internal/domain"
	"github.com/jhoicas/VentasCampo-api/internal/domain/entity"
	"github.com/jhoicas/VentasCampo-api/internal/domain/repository"
)

// CreateOrder crea el pedido con sus líneas y reserva el stock de cada una, todo en una
// sola transacción. Sin pedidos parciales: si alguna línea no tiene stock suficiente,
// se devuelve un *domain.InsufficientStockError que enumera TODAS las líneas cortas y
// no queda ningún pedido, línea ni reserva observable.
func (uc *UseCase) CreateOrder(ctx context.Context, tenantID, actorID string, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if tenantID == "" || in.CustomerID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, item := range in.Items {
		if item.ProductID == "" || item.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
	}

	orderDate := time.Now()
	if in.OrderDate != "" {
		d, err := time.Parse("2006-01-02", in.OrderDate)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		orderDate = d
	}
	paymentStatus := entity.PaymentStatusPending
	switch in.PaymentStatus {
	case "":
	case entity.PaymentStatusPending, entity.PaymentStatusPaid, entity.PaymentStatusPartial:
		paymentStatus = in.PaymentStatus
	default:
		return nil, domain.ErrInvalidInput
	}

	var deliveryDate *time.Time
	if in.DeliveryDate != "" {
		d, err := time.Parse("2006-01-02", in.DeliveryDate)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		deliveryDate = &d
	}

	// Validar cliente y que pertenezca al tenant (fuera de la tx, solo lectura).
	customer, err := uc.customerRepo.GetByID(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	if customer.TenantID != tenantID {
		return nil, domain.ErrForbidden
	}

	now := time.Now()
	order := &entity.Order{
		ID:             uuid.New().String(),
		TenantID:       tenantID,
		CustomerID:     in.CustomerID,
		SalespersonID:  in.SalespersonID,
		OrderDate:      orderDate,
		DeliveryDate:   deliveryDate,
		Subtotal:       in.Subtotal,
		TaxAmount:      in.TaxAmount,
		DiscountAmount: in.DiscountAmount,
		TotalAmount:    in.TotalAmount,
		PaymentMethod:  in.PaymentMethod,
		PaymentStatus:  paymentStatus,
		Status:         entity.OrderStatusPending,
		Notes:          in.Notes,
		CreatedBy:      actorID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	var items []*entity.OrderItem

	err = uc.txRunner.Run(ctx, func(
		orders repository.OrderRepository,
		ledger repository.StockLedgerRepository,
		_ repository.StockMovementRepository,
		warehouses repository.WarehouseRepository,
	) error {
		// 1) Resolver la bodega del tenant contra la que se reserva.
		wh, err := warehouses.GetDefault(ctx, tenantID)
		if err != nil {
			return err
		}
		if wh == nil {
			return fmt.Errorf("tenant %s sin bodega por defecto: %w", tenantID, domain.ErrNotFound)
		}

		// 2) Pasada de disponibilidad sobre TODAS las líneas antes de escribir nada,
		// para reportar cada faltante de una vez y no solo el primero.
		var shorts []domain.InsufficientItem
		for _, item := range in.Items {
			avail, err := ledger.AvailableInWarehouse(ctx, tenantID, item.ProductID, wh.ID)
			if err != nil {
				return err
			}
			if avail < item.Quantity {
				shorts = append(shorts, domain.InsufficientItem{
					ProductID: item.ProductID,
					Requested: item.Quantity,
					Available: avail,
				})
			}
		}
		if len(shorts) > 0 {
			return &domain.InsufficientStockError{Items: shorts}
		}

		// 3) Número de pedido: consecutivo del día por tenant.
		seq, err := orders.NextSequenceForDate(ctx, tenantID, orderDate)
		if err != nil {
			return err
		}
		order.OrderNumber = fmt.Sprintf("SO-%s-%04d", orderDate.Format("20060102"), seq)

		// 4) Insertar cabecera y líneas.
		if err := orders.Create(ctx, order); err != nil {
			return err
		}
		for _, item := range in.Items {
			it := &entity.OrderItem{
				ID:                 uuid.New().String(),
				OrderID:            order.ID,
				ProductID:          item.ProductID,
				Quantity:           item.Quantity,
				UnitPrice:          item.UnitPrice,
				DiscountPercentage: item.DiscountPercentage,
				TaxPercentage:      item.TaxPercentage,
				LineTotal:          item.LineTotal,
			}
			if err := orders.CreateItem(ctx, it); err != nil {
				return err
			}
			items = append(items, it)
		}

		// 5) Reservar cada línea con UN update condicional. Si otra transacción ganó la
		// carrera desde la pasada de disponibilidad, el update no afecta filas y el
		// pedido completo se revierte reportando la disponibilidad fresca.
		for _, item := range in.Items {
			ok, err := ledger.Reserve(ctx, tenantID, item.ProductID, wh.ID, item.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				avail, err := ledger.AvailableInWarehouse(ctx, tenantID, item.ProductID, wh.ID)
				if err != nil {
					return err
				}
				return &domain.InsufficientStockError{Items: []domain.InsufficientItem{{
					ProductID: item.ProductID,
					Requested: item.Quantity,
					Available: avail,
				}}}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := uc.toOrderResponse(ctx, order, items)

	// Post-commit, best-effort: evento y cache nunca afectan el resultado.
	uc.publisher.OrderCreated(tenantID, order.ID, order.OrderNumber, order.TotalAmount.String())
	uc.statusCache.SetStatus(ctx, tenantID, order.ID, order.Status)

	return resp, nil
}
