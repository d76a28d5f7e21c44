package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin      = "admin"
	RoleSupervisor = "supervisor"
	RoleVendedor   = "vendedor"
)

// User usuario del sistema (vendedor de campo, supervisor o administrador).
// La autenticación y los permisos se resuelven fuera de este núcleo; aquí solo
// se lee para el nombre del vendedor en las respuestas de pedidos.
type User struct {
	ID        string
	TenantID  string
	Email     string
	Name      string
	Role      string // admin, supervisor, vendedor
	Status    string // active, inactive, suspended
	CreatedAt time.Time
	UpdatedAt time.Time
}
