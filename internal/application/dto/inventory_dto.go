package dto

import "time"

// StockLedgerEntryResponse una fila del ledger de una bodega.
type StockLedgerEntryResponse struct {
	ProductID        string    `json:"product_id"`
	WarehouseID      string    `json:"warehouse_id"`
	QuantityOnHand   int       `json:"quantity_on_hand"`
	QuantityReserved int       `json:"quantity_reserved"`
	Available        int       `json:"available"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// StockLedgerListResponse listado paginado del ledger.
type StockLedgerListResponse struct {
	Items []StockLedgerEntryResponse `json:"items"`
	Page  PageResponse               `json:"page"`
}

// StockMovementResponse un movimiento del historial de auditoría.
type StockMovementResponse struct {
	ID          string    `json:"id"`
	Reference   string    `json:"reference"`
	ProductID   string    `json:"product_id"`
	WarehouseID string    `json:"warehouse_id"`
	Quantity    int       `json:"quantity"`
	Type        string    `json:"type"`
	Date        time.Time `json:"date"`
	Reason      string    `json:"reason,omitempty"`
	Status      string    `json:"status"`
	CreatedBy   string    `json:"created_by,omitempty"`
}

// StockMovementListResponse listado paginado de movimientos.
type StockMovementListResponse struct {
	Items []StockMovementResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}
