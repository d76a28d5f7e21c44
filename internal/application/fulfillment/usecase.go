package fulfillment

import (
	"context"

	"github.com/jhoicas/VentasCampo-api/internal/application/dto"
	"github.com/jhoicas/VentasCampo-api/internal/domain/entity"
	"github.com/jhoicas/VentasCampo-api/internal/domain/repository"
)

// UseCase servicio de cumplimiento de pedidos: el único punto de entrada que acopla el
// ciclo de vida del pedido con el ledger de stock. Toda mutación multi-tabla pasa por
// el TxRunner; nada se "recupera a medias" dentro del servicio — la recuperación es
// transaccional, no procedimental.
type UseCase struct {
	txRunner     TxRunner
	orderRepo    repository.OrderRepository
	ledgerRepo   repository.StockLedgerRepository
	customerRepo repository.CustomerRepository
	userRepo     repository.UserRepository
	publisher    EventPublisher
	statusCache  StatusCache
}

// NewUseCase construye el servicio. Los repos sueltos (no transaccionales) se usan solo
// para lecturas; las escrituras siempre van por los repos atados a la tx del TxRunner.
func NewUseCase(
	txRunner TxRunner,
	orderRepo repository.OrderRepository,
	ledgerRepo repository.StockLedgerRepository,
	customerRepo repository.CustomerRepository,
	userRepo repository.UserRepository,
	publisher EventPublisher,
	statusCache StatusCache,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		orderRepo:    orderRepo,
		ledgerRepo:   ledgerRepo,
		customerRepo: customerRepo,
		userRepo:     userRepo,
		publisher:    publisher,
		statusCache:  statusCache,
	}
}

// toOrderResponse arma la respuesta con líneas y nombres de presentación.
func (uc *UseCase) toOrderResponse(ctx context.Context, order *entity.Order, items []*entity.OrderItem) *dto.OrderResponse {
	resp := &dto.OrderResponse{
		ID:             order.ID,
		OrderNumber:    order.OrderNumber,
		CustomerID:     order.CustomerID,
		SalespersonID:  order.SalespersonID,
		OrderDate:      order.OrderDate.Format("2006-01-02"),
		Subtotal:       order.Subtotal,
		TaxAmount:      order.TaxAmount,
		DiscountAmount: order.DiscountAmount,
		TotalAmount:    order.TotalAmount,
		PaymentMethod:  order.PaymentMethod,
		PaymentStatus:  order.PaymentStatus,
		Status:         string(order.Status),
		Notes:          order.Notes,
		Items:          make([]dto.OrderItemResponse, 0, len(items)),
		CreatedAt:      order.CreatedAt,
		UpdatedAt:      order.UpdatedAt,
	}
	if order.DeliveryDate != nil {
		resp.DeliveryDate = order.DeliveryDate.Format("2006-01-02")
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.OrderItemResponse{
			ID:                 it.ID,
			ProductID:          it.ProductID,
			Quantity:           it.Quantity,
			UnitPrice:          it.UnitPrice,
			DiscountPercentage: it.DiscountPercentage,
			TaxPercentage:      it.TaxPercentage,
			LineTotal:          it.LineTotal,
		})
	}

	// Campos derivados de presentación; su ausencia no es un error del pedido.
	if customer, err := uc.customerRepo.GetByID(ctx, order.CustomerID); err == nil && customer != nil {
		resp.CustomerName = customer.Name
	}
	if order.SalespersonID != "" {
		if user, err := uc.userRepo.GetByID(ctx, order.SalespersonID); err == nil && user != nil {
			resp.SalespersonName = user.Name
		}
	}
	return resp
}
