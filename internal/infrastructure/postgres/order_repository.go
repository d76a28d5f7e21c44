package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/VentasCampo-api/internal/domain"
	"github.com/jhoicas/VentasCampo-api/internal/domain/entity"
	"github.com/jhoicas/VentasCampo-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository sobre PostgreSQL (pool o tx).
// Los pedidos nunca se borran físicamente; solo cambian de estado.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create inserta la cabecera del pedido.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	query := `
		INSERT INTO orders (
			id, tenant_id, order_number, customer_id, salesperson_id,
			order_date, delivery_date, subtotal, tax_amount, discount_amount, total_amount,
			payment_method, payment_status, status, notes, created_by, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.TenantID, o.OrderNumber, o.CustomerID, nullIfEmpty(o.SalespersonID),
		o.OrderDate, o.DeliveryDate, o.Subtotal, o.TaxAmount, o.DiscountAmount, o.TotalAmount,
		o.PaymentMethod, o.PaymentStatus, string(o.Status), o.Notes, nullIfEmpty(o.CreatedBy), o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("order number %s: %w", o.OrderNumber, err)
		}
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

// CreateItem inserta una línea del pedido.
func (r *OrderRepo) CreateItem(ctx context.Context, it *entity.OrderItem) error {
	query := `
		INSERT INTO order_items (
			id, order_id, product_id, quantity, unit_price,
			discount_percentage, tax_percentage, line_total
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.OrderID, it.ProductID, it.Quantity, it.UnitPrice,
		it.DiscountPercentage, it.TaxPercentage, it.LineTotal,
	)
	if err != nil {
		return fmt.Errorf("create order item: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera de un pedido del tenant. nil si no existe.
func (r *OrderRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Order, error) {
	query := `
		SELECT id, tenant_id, order_number, customer_id, COALESCE(salesperson_id, ''),
		       order_date, delivery_date, subtotal, tax_amount, discount_amount, total_amount,
		       payment_method, payment_status, status, notes, COALESCE(created_by, ''), created_at, updated_at
		FROM orders
		WHERE tenant_id = $1 AND id = $2`
	var o entity.Order
	var status string
	err := r.q.QueryRow(ctx, query, tenantID, id).Scan(
		&o.ID, &o.TenantID, &o.OrderNumber, &o.CustomerID, &o.SalespersonID,
		&o.OrderDate, &o.DeliveryDate, &o.Subtotal, &o.TaxAmount, &o.DiscountAmount, &o.TotalAmount,
		&o.PaymentMethod, &o.PaymentStatus, &status, &o.Notes, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	o.Status = entity.OrderStatus(status)
	return &o, nil
}

// GetItems obtiene las líneas de un pedido.
func (r *OrderRepo) GetItems(ctx context.Context, orderID string) ([]*entity.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, quantity, unit_price,
		       discount_percentage, tax_percentage, line_total
		FROM order_items
		WHERE order_id = $1
		ORDER BY id`
	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()
	var items []*entity.OrderItem
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.UnitPrice,
			&it.DiscountPercentage, &it.TaxPercentage, &it.LineTotal); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

// GetStatusForUpdate lee el estado bloqueando la fila (SELECT FOR UPDATE) para
// serializar transiciones concurrentes sobre el mismo pedido.
func (r *OrderRepo) GetStatusForUpdate(ctx context.Context, tenantID, id string) (entity.OrderStatus, error) {
	query := `SELECT status FROM orders WHERE tenant_id = $1 AND id = $2 FOR UPDATE`
	var status string
	err := r.q.QueryRow(ctx, query, tenantID, id).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("get order status for update: %w", err)
	}
	return entity.OrderStatus(status), nil
}

// UpdateStatus actualiza el estado del pedido.
func (r *OrderRepo) UpdateStatus(ctx context.Context, tenantID, id string, status entity.OrderStatus) error {
	query := `UPDATE orders SET status = $3, updated_at = now() WHERE tenant_id = $1 AND id = $2`
	ct, err := r.q.Exec(ctx, query, tenantID, id, string(status))
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if ct.RowsAffected() != 1 {
		return domain.ErrNotFound
	}
	return nil
}

// NextSequenceForDate siguiente consecutivo del día para el tenant. El advisory lock
// transaccional sobre (tenant, día) serializa a los creadores concurrentes del mismo
// día: dos transacciones simultáneas nunca computan el mismo consecutivo, así que el
// índice único (tenant_id, order_number) queda como respaldo, no como camino de error.
// Debe llamarse dentro de la transacción de creación; el lock se suelta en el commit.
func (r *OrderRepo) NextSequenceForDate(ctx context.Context, tenantID string, date time.Time) (int, error) {
	day := date.Format("20060102")
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, tenantID+":"+day); err != nil {
		return 0, fmt.Errorf("lock order sequence: %w", err)
	}
	query := `
		SELECT COUNT(*) + 1
		FROM orders
		WHERE tenant_id = $1 AND order_number LIKE $2`
	var seq int
	if err := r.q.QueryRow(ctx, query, tenantID, "SO-"+day+"-%").Scan(&seq); err != nil {
		return 0, fmt.Errorf("next order sequence: %w", err)
	}
	return seq, nil
}

// nullIfEmpty mapea "" a NULL para columnas con FK opcional.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
