package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Restaurante-api/internal/domain"
	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/jhoicas/Restaurante-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

const purchaseOrderColumns = "id, order_no, supplier_name, total_amount, status, creator, approver, approved_at, received_by, received_at, remark, created_at, updated_at, deleted_at"

// PurchaseOrderRepo implementación del puerto PurchaseOrderRepository sobre
// PostgreSQL (usable con pool o tx). Las líneas viven en
// purchase_order_items y se cargan junto con la orden.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

// Create persiste la orden y sus líneas.
func (r *PurchaseOrderRepo) Create(order *entity.PurchaseOrder) error {
	ctx := context.Background()
	query := `
		INSERT INTO purchase_orders (id, order_no, supplier_name, total_amount, status, creator, remark, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		order.ID, order.OrderNo, order.SupplierName, order.TotalAmount,
		string(order.Status), order.Creator, order.Remark, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert purchase order: %w", err)
	}
	itemQuery := `
		INSERT INTO purchase_order_items (id, order_id, product_name, quantity, price, amount, received)
		VALUES ($1, $2, $3, $4, $5, $6, false)`
	for _, it := range order.Items {
		if _, err := r.q.Exec(ctx, itemQuery,
			it.ID, order.ID, it.ProductName, it.Quantity, it.Price, it.Amount,
		); err != nil {
			return fmt.Errorf("insert purchase order item: %w", err)
		}
	}
	return nil
}

func (r *PurchaseOrderRepo) get(query string, args ...any) (*entity.PurchaseOrder, error) {
	ctx := context.Background()
	var o entity.PurchaseOrder
	var status string
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&o.ID, &o.OrderNo, &o.SupplierName, &o.TotalAmount, &status,
		&o.Creator, &o.Approver, &o.ApprovedAt, &o.ReceivedBy, &o.ReceivedAt,
		&o.Remark, &o.CreatedAt, &o.UpdatedAt, &o.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	o.Status = entity.PurchaseOrderStatus(status)

	items, err := r.loadItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (r *PurchaseOrderRepo) loadItems(ctx context.Context, orderID string) ([]entity.PurchaseOrderItem, error) {
	query := `
		SELECT id, order_id, product_name, quantity, price, amount, received, received_at
		FROM purchase_order_items WHERE order_id = $1 ORDER BY product_name`
	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list purchase order items: %w", err)
	}
	defer rows.Close()

	var items []entity.PurchaseOrderItem
	for rows.Next() {
		var it entity.PurchaseOrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductName, &it.Quantity,
			&it.Price, &it.Amount, &it.Received, &it.ReceivedAt); err != nil {
			return nil, fmt.Errorf("scan purchase order item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// GetByID obtiene la orden con sus líneas.
func (r *PurchaseOrderRepo) GetByID(id string) (*entity.PurchaseOrder, error) {
	query := fmt.Sprintf(`SELECT %s FROM purchase_orders WHERE id = $1`, purchaseOrderColumns)
	return r.get(query, id)
}

// GetForUpdate obtiene la orden bloqueando su fila (SELECT FOR UPDATE) para
// serializar aprobación, recepción y cancelación concurrentes.
func (r *PurchaseOrderRepo) GetForUpdate(id string) (*entity.PurchaseOrder, error) {
	query := fmt.Sprintf(`SELECT %s FROM purchase_orders WHERE id = $1 FOR UPDATE`, purchaseOrderColumns)
	return r.get(query, id)
}

// UpdateStatus persiste estado, aprobador/receptor, remark y updated_at.
func (r *PurchaseOrderRepo) UpdateStatus(order *entity.PurchaseOrder) error {
	query := `
		UPDATE purchase_orders
		SET status = $2, approver = $3, approved_at = $4, received_by = $5, received_at = $6, remark = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		order.ID, string(order.Status), order.Approver, order.ApprovedAt,
		order.ReceivedBy, order.ReceivedAt, order.Remark, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update purchase order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkItemReceived marca la línea como recibida solo si aún no lo estaba.
func (r *PurchaseOrderRepo) MarkItemReceived(itemID string, receivedAt time.Time) (bool, error) {
	query := `
		UPDATE purchase_order_items SET received = true, received_at = $2
		WHERE id = $1 AND received = false`
	tag, err := r.q.Exec(context.Background(), query, itemID, receivedAt)
	if err != nil {
		return false, fmt.Errorf("mark item received: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// List consulta órdenes activas con filtros de estado y subcadenas de número
// y proveedor, paginado descendente por fecha, junto con el total.
func (r *PurchaseOrderRepo) List(filter repository.PurchaseOrderFilter) ([]*entity.PurchaseOrder, int, error) {
	ctx := context.Background()
	where := "deleted_at IS NULL"
	args := []any{}
	pos := 1
	if filter.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, filter.Status)
		pos++
	}
	if filter.OrderNo != "" {
		where += fmt.Sprintf(" AND order_no ILIKE $%d", pos)
		args = append(args, "%"+filter.OrderNo+"%")
		pos++
	}
	if filter.Supplier != "" {
		where += fmt.Sprintf(" AND supplier_name ILIKE $%d", pos)
		args = append(args, "%"+filter.Supplier+"%")
		pos++
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM purchase_orders WHERE " + where
	if err := r.q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count purchase orders: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM purchase_orders WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		purchaseOrderColumns, where, pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()

	var orders []*entity.PurchaseOrder
	for rows.Next() {
		var o entity.PurchaseOrder
		var status string
		if err := rows.Scan(&o.ID, &o.OrderNo, &o.SupplierName, &o.TotalAmount, &status,
			&o.Creator, &o.Approver, &o.ApprovedAt, &o.ReceivedBy, &o.ReceivedAt,
			&o.Remark, &o.CreatedAt, &o.UpdatedAt, &o.DeletedAt); err != nil {
			return nil, 0, fmt.Errorf("scan purchase order: %w", err)
		}
		o.Status = entity.PurchaseOrderStatus(status)
		orders = append(orders, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for _, o := range orders {
		items, err := r.loadItems(ctx, o.ID)
		if err != nil {
			return nil, 0, err
		}
		o.Items = items
	}
	return orders, total, nil
}

// SoftDelete marca la orden como eliminada; nunca borra físicamente porque
// puede haber asientos del libro que la referencian.
func (r *PurchaseOrderRepo) SoftDelete(id string, deletedAt time.Time) error {
	query := `UPDATE purchase_orders SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`
	tag, err := r.q.Exec(context.Background(), query, id, deletedAt)
	if err != nil {
		return fmt.Errorf("soft delete purchase order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
