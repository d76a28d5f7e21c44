package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/VentasCampo-api/internal/application/dto"
	"github.com/jhoicas/VentasCampo-api/internal/application/fulfillment"
	"github.com/jhoicas/VentasCampo-api/internal/domain"
)

// OrderHandler maneja las peticiones HTTP de pedidos (protegido).
type OrderHandler struct {
	uc *fulfillment.UseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *fulfillment.UseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Create godoc
// @Summary      Crear pedido con reserva de stock
// @Description  Crea el pedido, sus líneas y reserva el stock en una sola transacción.
//
//	Si algún producto no tiene stock disponible se rechaza todo el pedido
//	con el detalle de los faltantes.
//
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "customer_id, order_date, items[]"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.InsufficientStockResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	userID := GetUserID(c)
	if tenantID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.CreateOrder(c.Context(), tenantID, userID, in)
	if err != nil {
		return orderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// UpdateStatus godoc
// @Summary      Cambiar estado del pedido
// @Description  Aplica una transición del ciclo de vida. shipped descuenta el stock
//
//	reservado y registra movimientos; cancelled libera la reserva.
//
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "ID del pedido"
// @Param        body  body  dto.UpdateOrderStatusRequest  true  "status destino"
// @Success      200   {object}  dto.UpdateStatusResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	userID := GetUserID(c)
	if tenantID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	orderID := c.Params("id")
	var in dto.UpdateOrderStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.UpdateOrderStatus(c.Context(), tenantID, orderID, in.Status, userID); err != nil {
		return orderError(c, err)
	}
	return c.JSON(dto.UpdateStatusResponse{Success: true, Status: in.Status})
}

// GetByID godoc
// @Summary      Detalle de un pedido
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	resp, err := h.uc.GetOrderWithDetails(c.Context(), tenantID, c.Params("id"))
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(resp)
}

// GetStatus godoc
// @Summary      Estado actual del pedido (cacheado)
// @Description  Lectura liviana para el polling de vendedores en campo. Sirve desde
//
//	cache cuando hay un valor fresco; de lo contrario consulta la BD.
//
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderStatusResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/status [get]
func (h *OrderHandler) GetStatus(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	resp, err := h.uc.GetOrderStatus(c.Context(), tenantID, c.Params("id"))
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(resp)
}

// StockCheck godoc
// @Summary      Verificación de stock de un pedido
// @Description  Por cada línea del pedido informa stock total, reservado y disponible
//
//	del tenant, y si la línea podría surtirse hoy. Solo lectura.
//
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del pedido"
// @Success      200  {array}   dto.StockCheckLine
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/stock-check [get]
func (h *OrderHandler) StockCheck(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	lines, err := h.uc.StockCheck(c.Context(), tenantID, c.Params("id"))
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(lines), "items": lines})
}

// orderError mapea los errores de dominio a respuestas HTTP. El detalle de errores
// internos nunca se expone al cliente.
func orderError(c *fiber.Ctx, err error) error {
	var stockErr *domain.InsufficientStockError
	if errors.As(err, &stockErr) {
		return c.Status(fiber.StatusConflict).JSON(dto.InsufficientStockResponse{
			Code:    "INSUFFICIENT_STOCK",
			Message: "stock insuficiente para surtir el pedido",
			Items:   stockErr.Items,
		})
	}
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidStatus):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_STATUS", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "pedido no encontrado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	case errors.Is(err, domain.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: err.Error()})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrLedgerIntegrity):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "LEDGER_INTEGRITY", Message: "inconsistencia de reservas detectada"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
	}
}
