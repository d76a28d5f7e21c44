package entity

import "time"

// Warehouse representa una bodega o sucursal donde se almacena inventario (multi-bodega).
// IsDefault marca la bodega contra la que se reservan los pedidos del tenant.
type Warehouse struct {
	ID        string
	TenantID  string
	Name      string
	Address   string
	IsDefault bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
