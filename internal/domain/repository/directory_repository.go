package repository

import (
	"context"

	"github.com/jhoicas/VentasCampo-api/internal/domain/entity"
)

// CustomerRepository lectura del catálogo de clientes (administrado fuera de este núcleo).
type CustomerRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
}

// UserRepository lectura de usuarios (vendedores) para campos de presentación.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
}
