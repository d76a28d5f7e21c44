package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/VentasCampo-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Máquina de estados de pedidos: el avance es monótono y los estados terminales
// nunca se reabren. Estas propiedades protegen al ledger de dobles commits y de
// liberaciones fantasma.
// ──────────────────────────────────────────────────────────────────────────────

func TestParseOrderStatus_ValoresConocidos(t *testing.T) {
	for _, s := range []string{"pending", "confirmed", "processing", "packed", "shipped", "delivered", "cancelled"} {
		st, ok := entity.ParseOrderStatus(s)
		assert.True(t, ok, "el estado %q debe ser válido", s)
		assert.Equal(t, entity.OrderStatus(s), st)
	}
}

func TestParseOrderStatus_ValorDesconocidoRechazado(t *testing.T) {
	for _, s := range []string{"", "PENDING", "enviado", "shipped ", "deleted"} {
		_, ok := entity.ParseOrderStatus(s)
		assert.False(t, ok, "el estado %q debe rechazarse", s)
	}
}

func TestCanTransition_CadenaNominal(t *testing.T) {
	cadena := []entity.OrderStatus{
		entity.OrderStatusPending,
		entity.OrderStatusConfirmed,
		entity.OrderStatusProcessing,
		entity.OrderStatusPacked,
		entity.OrderStatusShipped,
		entity.OrderStatusDelivered,
	}
	for i := 0; i < len(cadena)-1; i++ {
		assert.True(t, entity.CanTransition(cadena[i], cadena[i+1]),
			"%s → %s debe permitirse", cadena[i], cadena[i+1])
	}
}

func TestCanTransition_DespachoDesdeCualquierEstadoActivo(t *testing.T) {
	// "shipped" es alcanzable desde cualquier estado previo al despacho.
	for _, from := range []entity.OrderStatus{
		entity.OrderStatusPending, entity.OrderStatusConfirmed,
		entity.OrderStatusProcessing, entity.OrderStatusPacked,
	} {
		assert.True(t, entity.CanTransition(from, entity.OrderStatusShipped))
		assert.True(t, entity.CanTransition(from, entity.OrderStatusCancelled))
	}
}

func TestCanTransition_NoRetrocede(t *testing.T) {
	assert.False(t, entity.CanTransition(entity.OrderStatusConfirmed, entity.OrderStatusPending))
	assert.False(t, entity.CanTransition(entity.OrderStatusPacked, entity.OrderStatusProcessing))
	assert.False(t, entity.CanTransition(entity.OrderStatusShipped, entity.OrderStatusPacked))
}

func TestCanTransition_DobleDespachoRechazado(t *testing.T) {
	// Guardia explícita contra el doble commit: shipped solo admite delivered.
	assert.False(t, entity.CanTransition(entity.OrderStatusShipped, entity.OrderStatusShipped))
	assert.False(t, entity.CanTransition(entity.OrderStatusShipped, entity.OrderStatusCancelled))
	assert.True(t, entity.CanTransition(entity.OrderStatusShipped, entity.OrderStatusDelivered))
}

func TestCanTransition_TerminalesNoSeReabren(t *testing.T) {
	todos := []entity.OrderStatus{
		entity.OrderStatusPending, entity.OrderStatusConfirmed, entity.OrderStatusProcessing,
		entity.OrderStatusPacked, entity.OrderStatusShipped, entity.OrderStatusDelivered,
		entity.OrderStatusCancelled,
	}
	for _, terminal := range []entity.OrderStatus{entity.OrderStatusDelivered, entity.OrderStatusCancelled} {
		assert.True(t, terminal.IsTerminal())
		for _, to := range todos {
			assert.False(t, entity.CanTransition(terminal, to),
				"%s → %s no debe permitirse", terminal, to)
		}
	}
}

func TestHoldsReservation(t *testing.T) {
	assert.True(t, entity.OrderStatusPending.HoldsReservation())
	assert.True(t, entity.OrderStatusConfirmed.HoldsReservation())
	assert.True(t, entity.OrderStatusProcessing.HoldsReservation())
	assert.True(t, entity.OrderStatusPacked.HoldsReservation())
	assert.False(t, entity.OrderStatusShipped.HoldsReservation())
	assert.False(t, entity.OrderStatusDelivered.HoldsReservation())
	assert.False(t, entity.OrderStatusCancelled.HoldsReservation())
}

func TestStockLedgerEntry_Available(t *testing.T) {
	e := &entity.StockLedgerEntry{QuantityOnHand: 100, QuantityReserved: 60}
	assert.Equal(t, 40, e.Available())

	l := entity.StockLevel{OnHand: 100, Reserved: 100}
	assert.Equal(t, 0, l.Available())
}
