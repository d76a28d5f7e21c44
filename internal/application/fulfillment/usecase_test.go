package fulfillment_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/VentasCampo-api/internal/application/dto"
	"github.com/jhoicas/VentasCampo-api/internal/application/fulfillment"
	"github.com/jhoicas/VentasCampo-api/internal/domain"
	"github.com/jhoicas/VentasCampo-api/internal/domain/entity"
	"github.com/jhoicas/VentasCampo-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
//
// memStore simula la BD completa. El TxRunner falso toma un snapshot antes de
// ejecutar el callback y lo restaura si falla: mismo contrato de atomicidad que
// la transacción real. El mutex del store serializa las transacciones, igual que
// lo hacen los updates condicionales de PostgreSQL.
// ──────────────────────────────────────────────────────────────────────────────

type ledgerKey struct {
	tenant, product, warehouse string
}

type stockRow struct {
	onHand   int
	reserved int
}

type memStore struct {
	mu         sync.Mutex
	ledger     map[ledgerKey]*stockRow
	orders     map[string]*entity.Order
	items      map[string][]*entity.OrderItem
	movements  []*entity.StockMovement
	warehouses []*entity.Warehouse
	customers  map[string]*entity.Customer
	users      map[string]*entity.User

	// beforeReserve permite simular una transacción rival que gana la carrera
	// entre la pasada de disponibilidad y la reserva.
	beforeReserve func(k ledgerKey)
}

type storeSnapshot struct {
	ledger    map[ledgerKey]*stockRow
	orders    map[string]*entity.Order
	items     map[string][]*entity.OrderItem
	movements []*entity.StockMovement
}

func (s *memStore) snapshot() storeSnapshot {
	snap := storeSnapshot{
		ledger:    make(map[ledgerKey]*stockRow, len(s.ledger)),
		orders:    make(map[string]*entity.Order, len(s.orders)),
		items:     make(map[string][]*entity.OrderItem, len(s.items)),
		movements: append([]*entity.StockMovement(nil), s.movements...),
	}
	for k, v := range s.ledger {
		row := *v
		snap.ledger[k] = &row
	}
	for k, v := range s.orders {
		o := *v
		snap.orders[k] = &o
	}
	for k, v := range s.items {
		snap.items[k] = append([]*entity.OrderItem(nil), v...)
	}
	return snap
}

func (s *memStore) restore(snap storeSnapshot) {
	s.ledger = snap.ledger
	s.orders = snap.orders
	s.items = snap.items
	s.movements = snap.movements
}

type memTxRunner struct {
	s *memStore
}

func (r *memTxRunner) Run(_ context.Context, fn func(
	orders repository.OrderRepository,
	ledger repository.StockLedgerRepository,
	movements repository.StockMovementRepository,
	warehouses repository.WarehouseRepository,
) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	snap := r.s.snapshot()
	err := fn(&memOrderRepo{r.s}, &memLedgerRepo{r.s}, &memMovementRepo{r.s}, &memWarehouseRepo{r.s})
	if err != nil {
		r.s.restore(snap)
	}
	return err
}

// ── repos ─────────────────────────────────────────────────────────────────────

type memOrderRepo struct{ s *memStore }

func (r *memOrderRepo) Create(_ context.Context, o *entity.Order) error {
	cp := *o
	r.s.orders[o.ID] = &cp
	return nil
}

func (r *memOrderRepo) CreateItem(_ context.Context, it *entity.OrderItem) error {
	cp := *it
	r.s.items[it.OrderID] = append(r.s.items[it.OrderID], &cp)
	return nil
}

func (r *memOrderRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Order, error) {
	o, ok := r.s.orders[id]
	if !ok || o.TenantID != tenantID {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *memOrderRepo) GetItems(_ context.Context, orderID string) ([]*entity.OrderItem, error) {
	return r.s.items[orderID], nil
}

func (r *memOrderRepo) GetStatusForUpdate(_ context.Context, tenantID, id string) (entity.OrderStatus, error) {
	o, ok := r.s.orders[id]
	if !ok || o.TenantID != tenantID {
		return "", domain.ErrNotFound
	}
	return o.Status, nil
}

func (r *memOrderRepo) UpdateStatus(_ context.Context, tenantID, id string, status entity.OrderStatus) error {
	o, ok := r.s.orders[id]
	if !ok || o.TenantID != tenantID {
		return domain.ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	return nil
}

func (r *memOrderRepo) NextSequenceForDate(_ context.Context, tenantID string, date time.Time) (int, error) {
	prefix := "SO-" + date.Format("20060102") + "-"
	n := 1
	for _, o := range r.s.orders {
		if o.TenantID == tenantID && len(o.OrderNumber) > len(prefix) && o.OrderNumber[:len(prefix)] == prefix {
			n++
		}
	}
	return n, nil
}

type memLedgerRepo struct{ s *memStore }

func (r *memLedgerRepo) AvailableInWarehouse(_ context.Context, tenantID, productID, warehouseID string) (int, error) {
	row, ok := r.s.ledger[ledgerKey{tenantID, productID, warehouseID}]
	if !ok {
		return 0, nil
	}
	return row.onHand - row.reserved, nil
}

func (r *memLedgerRepo) Reserve(_ context.Context, tenantID, productID, warehouseID string, qty int) (bool, error) {
	k := ledgerKey{tenantID, productID, warehouseID}
	if r.s.beforeReserve != nil {
		r.s.beforeReserve(k)
	}
	row, ok := r.s.ledger[k]
	if !ok || row.onHand-row.reserved < qty {
		return false, nil
	}
	row.reserved += qty
	return true, nil
}

func (r *memLedgerRepo) CommitReservation(_ context.Context, tenantID, productID, warehouseID string, qty int) error {
	row, ok := r.s.ledger[ledgerKey{tenantID, productID, warehouseID}]
	if !ok || row.reserved < qty {
		return fmt.Errorf("commit %s: %w", productID, domain.ErrLedgerIntegrity)
	}
	row.onHand -= qty
	row.reserved -= qty
	return nil
}

func (r *memLedgerRepo) Release(_ context.Context, tenantID, productID, warehouseID string, qty int) error {
	row, ok := r.s.ledger[ledgerKey{tenantID, productID, warehouseID}]
	if !ok || row.reserved < qty {
		return fmt.Errorf("release %s: %w", productID, domain.ErrLedgerIntegrity)
	}
	row.reserved -= qty
	return nil
}

func (r *memLedgerRepo) Snapshot(_ context.Context, tenantID, productID string) (entity.StockLevel, error) {
	var level entity.StockLevel
	for k, row := range r.s.ledger {
		if k.tenant == tenantID && k.product == productID {
			level.OnHand += row.onHand
			level.Reserved += row.reserved
		}
	}
	return level, nil
}

func (r *memLedgerRepo) ListByWarehouse(_ context.Context, tenantID, warehouseID string, limit, offset int) ([]*entity.StockLedgerEntry, error) {
	var out []*entity.StockLedgerEntry
	for k, row := range r.s.ledger {
		if k.tenant == tenantID && k.warehouse == warehouseID {
			out = append(out, &entity.StockLedgerEntry{
				TenantID:         k.tenant,
				ProductID:        k.product,
				WarehouseID:      k.warehouse,
				QuantityOnHand:   row.onHand,
				QuantityReserved: row.reserved,
			})
		}
	}
	return out, nil
}

type memMovementRepo struct{ s *memStore }

func (r *memMovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	cp := *m
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

func (r *memMovementRepo) List(_ context.Context, tenantID string, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.TenantID == tenantID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memMovementRepo) ListByProduct(_ context.Context, tenantID, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.TenantID == tenantID && m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

type memWarehouseRepo struct{ s *memStore }

func (r *memWarehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	for _, w := range r.s.warehouses {
		if w.ID == id {
			return w, nil
		}
	}
	return nil, nil
}

func (r *memWarehouseRepo) GetDefault(_ context.Context, tenantID string) (*entity.Warehouse, error) {
	for _, w := range r.s.warehouses {
		if w.TenantID == tenantID && w.IsDefault {
			return w, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memWarehouseRepo) ListByTenant(_ context.Context, tenantID string, limit, offset int) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	for _, w := range r.s.warehouses {
		if w.TenantID == tenantID {
			out = append(out, w)
		}
	}
	return out, nil
}

type memCustomerRepo struct{ s *memStore }

func (r *memCustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	return r.s.customers[id], nil
}

type memUserRepo struct{ s *memStore }

func (r *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	return r.s.users[id], nil
}

// ── puertos post-commit ───────────────────────────────────────────────────────

type recordedEvent struct {
	kind    string
	orderID string
	from    entity.OrderStatus
	to      entity.OrderStatus
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *recordingPublisher) OrderCreated(tenantID, orderID, orderNumber, totalAmount string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{kind: "created", orderID: orderID})
}

func (p *recordingPublisher) OrderStatusChanged(tenantID, orderID string, from, to entity.OrderStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{kind: "status", orderID: orderID, from: from, to: to})
}

func (p *recordingPublisher) all() []recordedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]recordedEvent(nil), p.events...)
}

type memStatusCache struct {
	mu     sync.Mutex
	values map[string]entity.OrderStatus
}

func cacheKey(tenantID, orderID string) string {
	return tenantID + ":" + orderID
}

func (c *memStatusCache) SetStatus(_ context.Context, tenantID, orderID string, status entity.OrderStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[cacheKey(tenantID, orderID)] = status
}

func (c *memStatusCache) GetStatus(_ context.Context, tenantID, orderID string) (entity.OrderStatus, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.values[cacheKey(tenantID, orderID)]
	return st, ok
}

func (c *memStatusCache) forget(tenantID, orderID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, cacheKey(tenantID, orderID))
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

const (
	testTenant    = "00000000-0000-0000-0000-0000000000t1"
	otroTenant    = "00000000-0000-0000-0000-0000000000t2"
	testCustomer  = "00000000-0000-0000-0000-0000000000c1"
	otroCustomer  = "00000000-0000-0000-0000-0000000000c2"
	testVendedor  = "00000000-0000-0000-0000-0000000000u1"
	testWarehouse = "00000000-0000-0000-0000-0000000000w1"
	productoA     = "00000000-0000-0000-0000-0000000000p1"
	productoB     = "00000000-0000-0000-0000-0000000000p2"
)

type fixture struct {
	store     *memStore
	uc        *fulfillment.UseCase
	publisher *recordingPublisher
	cache     *memStatusCache
}

// newFixture arma el caso de uso completo con fakes. Stock inicial:
// productoA 10 en mano, productoB 5 en mano, sin reservas.
func newFixture() *fixture {
	store := &memStore{
		ledger: map[ledgerKey]*stockRow{
			{testTenant, productoA, testWarehouse}: {onHand: 10},
			{testTenant, productoB, testWarehouse}: {onHand: 5},
		},
		orders: map[string]*entity.Order{},
		items:  map[string][]*entity.OrderItem{},
		warehouses: []*entity.Warehouse{
			{ID: testWarehouse, TenantID: testTenant, Name: "Bodega Central", IsDefault: true},
		},
		customers: map[string]*entity.Customer{
			testCustomer: {ID: testCustomer, TenantID: testTenant, Name: "Tienda La Esquina"},
			otroCustomer: {ID: otroCustomer, TenantID: otroTenant, Name: "Cliente Ajeno"},
		},
		users: map[string]*entity.User{
			testVendedor: {ID: testVendedor, TenantID: testTenant, Name: "Laura Gómez", Role: entity.RoleVendedor},
		},
	}
	publisher := &recordingPublisher{}
	cache := &memStatusCache{values: map[string]entity.OrderStatus{}}
	uc := fulfillment.NewUseCase(
		&memTxRunner{store},
		&memOrderRepo{store},
		&memLedgerRepo{store},
		&memCustomerRepo{store},
		&memUserRepo{store},
		publisher,
		cache,
	)
	return &fixture{store: store, uc: uc, publisher: publisher, cache: cache}
}

func lineas(qtys map[string]int) []dto.OrderItemRequest {
	var items []dto.OrderItemRequest
	for pid, q := range qtys {
		items = append(items, dto.OrderItemRequest{
			ProductID: pid,
			Quantity:  q,
			UnitPrice: decimal.NewFromInt(1000),
			LineTotal: decimal.NewFromInt(int64(q) * 1000),
		})
	}
	return items
}

func (f *fixture) crearPedido(t *testing.T, qtys map[string]int) *dto.OrderResponse {
	t.Helper()
	resp, err := f.uc.CreateOrder(context.Background(), testTenant, testVendedor, dto.CreateOrderRequest{
		CustomerID:    testCustomer,
		SalespersonID: testVendedor,
		OrderDate:     time.Now().Format("2006-01-02"),
		TotalAmount:   decimal.NewFromInt(1000),
		Items:         lineas(qtys),
	})
	require.NoError(t, err, "el pedido de fixture debe crearse")
	return resp
}

func (f *fixture) fila(product string) stockRow {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	return *f.store.ledger[ledgerKey{testTenant, product, testWarehouse}]
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateOrder
// ──────────────────────────────────────────────────────────────────────────────

func TestCrearPedido_ReservaStockYNumeraPorDia(t *testing.T) {
	f := newFixture()

	resp := f.crearPedido(t, map[string]int{productoA: 3, productoB: 2})

	hoy := time.Now().Format("20060102")
	assert.Equal(t, "SO-"+hoy+"-0001", resp.OrderNumber, "primer pedido del día")
	assert.Equal(t, string(entity.OrderStatusPending), resp.Status)
	assert.Equal(t, "Tienda La Esquina", resp.CustomerName)
	assert.Equal(t, "Laura Gómez", resp.SalespersonName)
	assert.Len(t, resp.Items, 2)

	// La reserva quedó apuntada sin tocar el stock físico.
	assert.Equal(t, stockRow{onHand: 10, reserved: 3}, f.fila(productoA))
	assert.Equal(t, stockRow{onHand: 5, reserved: 2}, f.fila(productoB))

	// Post-commit: evento y cache.
	events := f.publisher.all()
	require.Len(t, events, 1)
	assert.Equal(t, "created", events[0].kind)
	st, ok := f.cache.GetStatus(context.Background(), testTenant, resp.ID)
	assert.True(t, ok)
	assert.Equal(t, entity.OrderStatusPending, st)

	// Segundo pedido del mismo día: siguiente consecutivo.
	resp2 := f.crearPedido(t, map[string]int{productoA: 1})
	assert.Equal(t, "SO-"+hoy+"-0002", resp2.OrderNumber)
}

func TestCrearPedido_StockInsuficienteEnumeraTodasLasLineas(t *testing.T) {
	f := newFixture()

	_, err := f.uc.CreateOrder(context.Background(), testTenant, testVendedor, dto.CreateOrderRequest{
		CustomerID: testCustomer,
		Items:      lineas(map[string]int{productoA: 11, productoB: 6}),
	})
	require.Error(t, err)

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr, "debe ser el error estructurado de stock")
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	require.Len(t, stockErr.Items, 2, "debe enumerar TODAS las líneas cortas, no solo la primera")

	faltantes := map[string]domain.InsufficientItem{}
	for _, it := range stockErr.Items {
		faltantes[it.ProductID] = it
	}
	assert.Equal(t, domain.InsufficientItem{ProductID: productoA, Requested: 11, Available: 10}, faltantes[productoA])
	assert.Equal(t, domain.InsufficientItem{ProductID: productoB, Requested: 6, Available: 5}, faltantes[productoB])

	// Nada observable: ni pedido, ni líneas, ni reservas, ni eventos.
	assert.Empty(t, f.store.orders)
	assert.Empty(t, f.store.items)
	assert.Equal(t, stockRow{onHand: 10}, f.fila(productoA))
	assert.Equal(t, stockRow{onHand: 5}, f.fila(productoB))
	assert.Empty(t, f.publisher.all())
}

func TestCrearPedido_RollbackCompletoSiPierdeLaCarreraDeReserva(t *testing.T) {
	f := newFixture()

	// Una transacción rival consume productoB entre la pasada de disponibilidad
	// y la reserva: el update condicional no afecta filas.
	f.store.beforeReserve = func(k ledgerKey) {
		if k.product == productoB {
			f.store.ledger[k].onHand = 1
		}
	}

	_, err := f.uc.CreateOrder(context.Background(), testTenant, testVendedor, dto.CreateOrderRequest{
		CustomerID: testCustomer,
		Items: []dto.OrderItemRequest{
			{ProductID: productoA, Quantity: 4},
			{ProductID: productoB, Quantity: 3},
		},
	})
	require.Error(t, err)

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	require.Len(t, stockErr.Items, 1)
	assert.Equal(t, productoB, stockErr.Items[0].ProductID)
	assert.Equal(t, 3, stockErr.Items[0].Requested)
	assert.Equal(t, 1, stockErr.Items[0].Available, "debe reportar la disponibilidad fresca, no la de la pasada inicial")

	// La reserva de productoA que sí alcanzó a aplicarse se revirtió completa.
	assert.Equal(t, 0, f.fila(productoA).reserved)
	assert.Empty(t, f.store.orders)
	assert.Empty(t, f.publisher.all())
}

func TestCrearPedido_Validaciones(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	casos := []struct {
		nombre string
		in     dto.CreateOrderRequest
		quiere error
	}{
		{"sin líneas", dto.CreateOrderRequest{CustomerID: testCustomer}, domain.ErrInvalidInput},
		{"cantidad cero", dto.CreateOrderRequest{CustomerID: testCustomer, Items: []dto.OrderItemRequest{{ProductID: productoA, Quantity: 0}}}, domain.ErrInvalidInput},
		{"fecha malformada", dto.CreateOrderRequest{CustomerID: testCustomer, OrderDate: "29/08/2026", Items: lineas(map[string]int{productoA: 1})}, domain.ErrInvalidInput},
		{"cliente inexistente", dto.CreateOrderRequest{CustomerID: "no-existe", Items: lineas(map[string]int{productoA: 1})}, domain.ErrNotFound},
		{"cliente de otro tenant", dto.CreateOrderRequest{CustomerID: otroCustomer, Items: lineas(map[string]int{productoA: 1})}, domain.ErrForbidden},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			_, err := f.uc.CreateOrder(ctx, testTenant, testVendedor, c.in)
			assert.ErrorIs(t, err, c.quiere)
		})
	}
	assert.Empty(t, f.store.orders, "ninguna validación fallida debe dejar rastro")
}

// ──────────────────────────────────────────────────────────────────────────────
// UpdateOrderStatus
// ──────────────────────────────────────────────────────────────────────────────

func TestActualizarEstado_DespachoDescuentaYRegistraMovimientos(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	resp := f.crearPedido(t, map[string]int{productoA: 3, productoB: 2})

	for _, st := range []string{"confirmed", "processing", "packed", "shipped"} {
		require.NoError(t, f.uc.UpdateOrderStatus(ctx, testTenant, resp.ID, st, testVendedor), "transición a %s", st)
	}

	// Despachar convierte la reserva en deducción física.
	assert.Equal(t, stockRow{onHand: 7, reserved: 0}, f.fila(productoA))
	assert.Equal(t, stockRow{onHand: 3, reserved: 0}, f.fila(productoB))

	// Un movimiento "sale" por línea, referenciado al número del pedido.
	require.Len(t, f.store.movements, 2)
	for _, m := range f.store.movements {
		assert.Equal(t, entity.MovementTypeSale, m.Type)
		assert.Equal(t, entity.MovementStatusCompleted, m.Status)
		assert.Equal(t, resp.OrderNumber, m.Reference)
		assert.Equal(t, testVendedor, m.CreatedBy)
	}

	st, ok := f.cache.GetStatus(ctx, testTenant, resp.ID)
	require.True(t, ok)
	assert.Equal(t, entity.OrderStatusShipped, st)

	events := f.publisher.all()
	ultimo := events[len(events)-1]
	assert.Equal(t, "status", ultimo.kind)
	assert.Equal(t, entity.OrderStatusPacked, ultimo.from)
	assert.Equal(t, entity.OrderStatusShipped, ultimo.to)
}

func TestActualizarEstado_DobleDespachoRechazado(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	resp := f.crearPedido(t, map[string]int{productoA: 3})
	require.NoError(t, f.uc.UpdateOrderStatus(ctx, testTenant, resp.ID, "shipped", testVendedor))

	err := f.uc.UpdateOrderStatus(ctx, testTenant, resp.ID, "shipped", testVendedor)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	// El ledger no se tocó por segunda vez.
	assert.Equal(t, stockRow{onHand: 7, reserved: 0}, f.fila(productoA))
	assert.Len(t, f.store.movements, 1, "un solo movimiento por la única deducción real")
}

func TestActualizarEstado_CancelarLiberaReserva(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// Cancelable desde cualquier estado que mantenga reserva.
	for _, previo := range []string{"", "confirmed", "processing", "packed"} {
		resp := f.crearPedido(t, map[string]int{productoA: 4})
		if previo != "" {
			require.NoError(t, f.uc.UpdateOrderStatus(ctx, testTenant, resp.ID, previo, testVendedor))
		}
		require.NoError(t, f.uc.UpdateOrderStatus(ctx, testTenant, resp.ID, "cancelled", testVendedor))

		fila := f.fila(productoA)
		assert.Equal(t, 0, fila.reserved, "cancelar desde %q debe liberar la reserva", previo)
		assert.Equal(t, 10, fila.onHand, "cancelar no toca el stock físico")
	}
	assert.Empty(t, f.store.movements, "cancelar no genera movimientos de venta")
}

func TestActualizarEstado_TransicionesInvalidas(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	resp := f.crearPedido(t, map[string]int{productoA: 2})

	t.Run("estado desconocido", func(t *testing.T) {
		err := f.uc.UpdateOrderStatus(ctx, testTenant, resp.ID, "bogus", testVendedor)
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	})

	t.Run("pedido inexistente", func(t *testing.T) {
		err := f.uc.UpdateOrderStatus(ctx, testTenant, "no-existe", "confirmed", testVendedor)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("pedido de otro tenant invisible", func(t *testing.T) {
		err := f.uc.UpdateOrderStatus(ctx, otroTenant, resp.ID, "confirmed", testVendedor)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("cancelar después de despachar", func(t *testing.T) {
		require.NoError(t, f.uc.UpdateOrderStatus(ctx, testTenant, resp.ID, "shipped", testVendedor))
		err := f.uc.UpdateOrderStatus(ctx, testTenant, resp.ID, "cancelled", testVendedor)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		assert.Equal(t, stockRow{onHand: 8, reserved: 0}, f.fila(productoA), "el despacho previo queda intacto")
	})

	t.Run("retroceso rechazado", func(t *testing.T) {
		require.NoError(t, f.uc.UpdateOrderStatus(ctx, testTenant, resp.ID, "delivered", testVendedor))
		err := f.uc.UpdateOrderStatus(ctx, testTenant, resp.ID, "pending", testVendedor)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestConsultas_DetalleStockCheckYEstado(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	resp := f.crearPedido(t, map[string]int{productoA: 3, productoB: 5})

	detalle, err := f.uc.GetOrderWithDetails(ctx, testTenant, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.OrderNumber, detalle.OrderNumber)
	assert.Len(t, detalle.Items, 2)

	_, err = f.uc.GetOrderWithDetails(ctx, otroTenant, resp.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "pedidos de otro tenant son invisibles")

	// StockCheck refleja la propia reserva del pedido: nada disponible para B.
	lines, err := f.uc.StockCheck(ctx, testTenant, resp.ID)
	require.NoError(t, err)
	porProducto := map[string]dto.StockCheckLine{}
	for _, l := range lines {
		porProducto[l.ProductID] = l
	}
	assert.Equal(t, dto.StockCheckLine{
		ProductID: productoA, Requested: 3,
		TotalStock: 10, ReservedStock: 3, AvailableStock: 7, CanFulfill: true,
	}, porProducto[productoA])
	assert.Equal(t, dto.StockCheckLine{
		ProductID: productoB, Requested: 5,
		TotalStock: 5, ReservedStock: 5, AvailableStock: 0, CanFulfill: false,
	}, porProducto[productoB])

	// StockCheck es de solo lectura: repetirlo no cambia nada.
	antes := f.fila(productoA)
	_, err = f.uc.StockCheck(ctx, testTenant, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, antes, f.fila(productoA))

	// GetOrderStatus: read-through al cache.
	f.cache.forget(testTenant, resp.ID)
	st1, err := f.uc.GetOrderStatus(ctx, testTenant, resp.ID)
	require.NoError(t, err)
	assert.False(t, st1.Cached, "primer hit va a la BD")
	assert.Equal(t, "pending", st1.Status)

	st2, err := f.uc.GetOrderStatus(ctx, testTenant, resp.ID)
	require.NoError(t, err)
	assert.True(t, st2.Cached, "segundo hit sale del cache")
	assert.Equal(t, st1.Status, st2.Status)
}

func TestConsultarEstado_CacheCalienteNoCruzaTenants(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	resp := f.crearPedido(t, map[string]int{productoA: 1})

	// El dueño calienta el cache.
	st, err := f.uc.GetOrderStatus(ctx, testTenant, resp.ID)
	require.NoError(t, err)
	require.Equal(t, "pending", st.Status)
	_, err = f.uc.GetOrderStatus(ctx, testTenant, resp.ID)
	require.NoError(t, err)

	// Otro tenant que conoce el UUID recibe lo mismo con cache caliente que frío:
	// ErrNotFound, sin confirmar siquiera que el pedido existe.
	_, err = f.uc.GetOrderStatus(ctx, otroTenant, resp.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "un hit caliente no debe servir pedidos ajenos")

	// Y esa consulta fallida no debe haber sembrado nada consultable.
	_, ok := f.cache.GetStatus(ctx, otroTenant, resp.ID)
	assert.False(t, ok)
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia
// ──────────────────────────────────────────────────────────────────────────────

func TestCrearPedidosConcurrentes_NoSobrevende(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// 10 vendedores piden 1 unidad de productoB (stock 5) a la vez.
	const intentos = 10
	var wg sync.WaitGroup
	errs := make(chan error, intentos)
	for i := 0; i < intentos; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.CreateOrder(ctx, testTenant, testVendedor, dto.CreateOrderRequest{
				CustomerID: testCustomer,
				Items:      lineas(map[string]int{productoB: 1}),
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	exitos, faltantes := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			exitos++
		case errors.Is(err, domain.ErrInsufficientStock):
			faltantes++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 5, exitos, "solo caben 5 reservas")
	assert.Equal(t, 5, faltantes)

	fila := f.fila(productoB)
	assert.Equal(t, 5, fila.reserved, "las reservas nunca exceden el stock en mano")
	assert.Equal(t, 5, fila.onHand)
	assert.Len(t, f.store.orders, 5)

	// Los consecutivos del día no se repiten entre creadores concurrentes.
	numeros := map[string]bool{}
	for _, o := range f.store.orders {
		assert.False(t, numeros[o.OrderNumber], "número de pedido repetido: %s", o.OrderNumber)
		numeros[o.OrderNumber] = true
	}
}
