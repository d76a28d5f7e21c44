package entity

import "time"

// Tipos de movimiento de stock. Por ahora solo se genera "sale" (deducción al despachar);
// "return" y "adjustment" quedan reservados para los flujos de devolución y ajuste.
const (
	MovementTypeSale       = "sale"
	MovementTypeReturn     = "return"
	MovementTypeAdjustment = "adjustment"
)

// Estado de un movimiento. Los movimientos se crean ya completados.
const MovementStatusCompleted = "completed"

// StockMovement registro de auditoría inmutable de una deducción confirmada.
// Referencia al pedido por su número (Reference), no por foreign key, para que el
// historial sobreviva a cualquier mutación del pedido.
type StockMovement struct {
	ID          string
	TenantID    string
	Reference   string // número del pedido que originó el movimiento
	ProductID   string
	WarehouseID string // bodega origen de la deducción
	Quantity    int
	Type        string // sale, return, adjustment
	Date        time.Time
	Reason      string
	Status      string
	CreatedBy   string
	CreatedAt   time.Time
}
