package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/VentasCampo-api/internal/domain"
)

// OrderItemRequest una línea de producto dentro del pedido. LineTotal llega ya calculado
// por el caller (cantidad × precio neto de descuento/impuesto); aquí no se re-deriva.
type OrderItemRequest struct {
	ProductID          string          `json:"product_id" validate:"required"`
	Quantity           int             `json:"quantity" validate:"required,gt=0"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	TaxPercentage      decimal.Decimal `json:"tax_percentage"`
	LineTotal          decimal.Decimal `json:"line_total"`
}

// CreateOrderRequest entrada para crear un pedido con sus líneas.
// Las fechas usan formato "2006-01-02"; order_date vacío = hoy.
type CreateOrderRequest struct {
	CustomerID     string             `json:"customer_id" validate:"required"`
	SalespersonID  string             `json:"salesperson_id"`
	OrderDate      string             `json:"order_date"`
	DeliveryDate   string             `json:"delivery_date"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	TaxAmount      decimal.Decimal    `json:"tax_amount"`
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
	TotalAmount    decimal.Decimal    `json:"total_amount"`
	PaymentMethod  string             `json:"payment_method"`
	PaymentStatus  string             `json:"payment_status"` // pending (default) | paid | partial
	Notes          string             `json:"notes"`
	Items          []OrderItemRequest `json:"items" validate:"required,min=1"`
}

// UpdateOrderStatusRequest entrada para la transición de estado.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderItemResponse salida de una línea de pedido.
type OrderItemResponse struct {
	ID                 string          `json:"id"`
	ProductID          string          `json:"product_id"`
	Quantity           int             `json:"quantity"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	TaxPercentage      decimal.Decimal `json:"tax_percentage"`
	LineTotal          decimal.Decimal `json:"line_total"`
}

// OrderResponse salida de un pedido con líneas y campos de presentación derivados.
type OrderResponse struct {
	ID              string              `json:"id"`
	OrderNumber     string              `json:"order_number"`
	CustomerID      string              `json:"customer_id"`
	CustomerName    string              `json:"customer_name,omitempty"`
	SalespersonID   string              `json:"salesperson_id,omitempty"`
	SalespersonName string              `json:"salesperson_name,omitempty"`
	OrderDate       string              `json:"order_date"`
	DeliveryDate    string              `json:"delivery_date,omitempty"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	TaxAmount       decimal.Decimal     `json:"tax_amount"`
	DiscountAmount  decimal.Decimal     `json:"discount_amount"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	PaymentMethod   string              `json:"payment_method,omitempty"`
	PaymentStatus   string              `json:"payment_status"`
	Status          string              `json:"status"`
	Notes           string              `json:"notes,omitempty"`
	Items           []OrderItemResponse `json:"items"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// OrderStatusResponse salida ligera del endpoint de consulta de estado.
type OrderStatusResponse struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
	Cached  bool   `json:"cached"`
}

// UpdateStatusResponse confirmación de una transición; el caller re-consulta el pedido
// si necesita la representación completa.
type UpdateStatusResponse struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
}

// StockCheckLine diagnóstico de una línea de pedido contra el ledger (solo lectura).
type StockCheckLine struct {
	ProductID      string `json:"product_id"`
	Requested      int    `json:"requested"`
	TotalStock     int    `json:"total_stock"`
	ReservedStock  int    `json:"reserved_stock"`
	AvailableStock int    `json:"available_stock"`
	CanFulfill     bool   `json:"can_fulfill"`
}

// InsufficientStockResponse cuerpo 409 enumerando todas las líneas cortas.
type InsufficientStockResponse struct {
	Code    string                    `json:"code"`
	Message string                    `json:"message"`
	Items   []domain.InsufficientItem `json:"items"`
}
