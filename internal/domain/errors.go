package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInvalidStatus     = errors.New("estado de pedido desconocido")
	ErrInvalidTransition = errors.New("transición de estado no permitida")
	ErrForbidden         = errors.New("acceso denegado")
	ErrInsufficientStock = errors.New("stock insuficiente")
	// ErrLedgerIntegrity indica una mutación del ledger que contradice lo reservado
	// (ej: confirmar más de lo reservado). Es una señal de defecto, no un error de negocio.
	ErrLedgerIntegrity = errors.New("inconsistencia en el ledger de stock")
)

// InsufficientItem detalla una línea sin stock suficiente.
type InsufficientItem struct {
	ProductID string `json:"product_id"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

// InsufficientStockError enumera TODAS las líneas cortas de un pedido, no solo la primera,
// para que el caller pueda presentar todos los problemas de una vez.
type InsufficientStockError struct {
	Items []InsufficientItem
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Items))
	for _, it := range e.Items {
		parts = append(parts, fmt.Sprintf("%s (solicitado %d, disponible %d)", it.ProductID, it.Requested, it.Available))
	}
	return "stock insuficiente: " + strings.Join(parts, "; ")
}

// Is permite detectar el error con errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
