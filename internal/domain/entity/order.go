package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus estado del ciclo de vida de un pedido.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusPacked     OrderStatus = "packed"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Estados de pago del pedido.
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusPartial = "partial"
)

// validNext grafo de transiciones permitido. El avance es monótono: un pedido nunca
// vuelve a un estado anterior ni sale de un estado terminal. "shipped" solo admite
// "delivered"; un segundo intento de despacho se rechaza aquí, antes de tocar el ledger.
var validNext = map[OrderStatus]map[OrderStatus]bool{
	OrderStatusPending:    {OrderStatusConfirmed: true, OrderStatusProcessing: true, OrderStatusPacked: true, OrderStatusShipped: true, OrderStatusCancelled: true},
	OrderStatusConfirmed:  {OrderStatusProcessing: true, OrderStatusPacked: true, OrderStatusShipped: true, OrderStatusCancelled: true},
	OrderStatusProcessing: {OrderStatusPacked: true, OrderStatusShipped: true, OrderStatusCancelled: true},
	OrderStatusPacked:     {OrderStatusShipped: true, OrderStatusCancelled: true},
	OrderStatusShipped:    {OrderStatusDelivered: true},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
}

// ParseOrderStatus valida un string contra el enum. Los valores desconocidos se rechazan
// antes de cualquier mutación de estado.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	st := OrderStatus(s)
	_, ok := validNext[st]
	return st, ok
}

// CanTransition indica si la transición from→to está en el grafo.
func CanTransition(from, to OrderStatus) bool {
	return validNext[from][to]
}

// IsTerminal indica si el estado no admite ninguna transición posterior.
func (s OrderStatus) IsTerminal() bool {
	return len(validNext[s]) == 0
}

// HoldsReservation indica si un pedido en este estado mantiene viva su reserva de stock.
// confirmed→processing→packed son neutrales para inventario, así que la reserva sigue
// viva hasta despachar (commit) o cancelar (release).
func (s OrderStatus) HoldsReservation() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing, OrderStatusPacked:
		return true
	}
	return false
}

// Order cabecera de un pedido de venta. Nunca se elimina físicamente; el ciclo de vida
// es solo por estado.
type Order struct {
	ID             string
	TenantID       string
	OrderNumber    string // único por tenant, secuenciado por fecha: SO-YYYYMMDD-NNNN
	CustomerID     string
	SalespersonID  string
	OrderDate      time.Time
	DeliveryDate   *time.Time
	Subtotal       decimal.Decimal
	TaxAmount      decimal.Decimal
	DiscountAmount decimal.Decimal
	TotalAmount    decimal.Decimal
	PaymentMethod  string
	PaymentStatus  string
	Status         OrderStatus
	Notes          string
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// OrderItem línea de producto de un pedido. Inmutable después de crearse junto al pedido.
// LineTotal llega calculado por el caller; este núcleo no re-deriva precios.
type OrderItem struct {
	ID                 string
	OrderID            string
	ProductID          string
	Quantity           int // siempre > 0
	UnitPrice          decimal.Decimal
	DiscountPercentage decimal.Decimal
	TaxPercentage      decimal.Decimal
	LineTotal          decimal.Decimal
}
