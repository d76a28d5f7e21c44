package entity

import "time"

// StockLedgerEntry estado de stock por (tenant, producto, bodega).
// Es la única fuente de verdad de disponibilidad: quantity_on_hand es lo físicamente
// presente y quantity_reserved lo comprometido a pedidos abiertos aún no despachados.
type StockLedgerEntry struct {
	TenantID         string
	ProductID        string
	WarehouseID      string
	QuantityOnHand   int
	QuantityReserved int
	UpdatedAt        time.Time
}

// Available cantidad consumible por pedidos nuevos. Nunca puede ser negativa;
// el invariante se sostiene en SQL con updates condicionales, no aquí.
func (e *StockLedgerEntry) Available() int {
	return e.QuantityOnHand - e.QuantityReserved
}

// StockLevel agregado de stock de un producto a nivel tenant (sumado entre bodegas).
// Usado por el diagnóstico de stock de pedidos.
type StockLevel struct {
	OnHand   int
	Reserved int
}

// Available cantidad disponible agregada.
func (l StockLevel) Available() int {
	return l.OnHand - l.Reserved
}
