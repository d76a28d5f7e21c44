package entity

import "time"

// Customer cliente del tenant. El catálogo de clientes se administra fuera de este
// núcleo; aquí solo se lee para campos de presentación de pedidos.
type Customer struct {
	ID        string
	TenantID  string
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
