package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Restaurante-api/internal/domain"
	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/jhoicas/Restaurante-api/internal/domain/repository"
)

var _ repository.StockItemRepository = (*StockItemRepo)(nil)

const stockItemColumns = "id, name, unit, quantity, unit_price, low_stock_threshold, created_at, updated_at, deleted_at"

// StockItemRepo implementación del puerto StockItemRepository sobre
// PostgreSQL (usable con pool o tx).
type StockItemRepo struct {
	q Querier
}

// NewStockItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockItemRepository(q Querier) *StockItemRepo {
	return &StockItemRepo{q: q}
}

func scanStockItem(row pgx.Row) (*entity.StockItem, error) {
	var s entity.StockItem
	err := row.Scan(
		&s.ID, &s.Name, &s.Unit, &s.Quantity, &s.UnitPrice,
		&s.LowStockThreshold, &s.CreatedAt, &s.UpdatedAt, &s.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// Create persiste un nuevo ítem de stock.
func (r *StockItemRepo) Create(item *entity.StockItem) error {
	query := `
		INSERT INTO stock_items (id, name, unit, quantity, unit_price, low_stock_threshold, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.Name, item.Unit, item.Quantity, item.UnitPrice,
		item.LowStockThreshold, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert stock item: %w", err)
	}
	return nil
}

// GetByID obtiene un ítem activo por ID.
func (r *StockItemRepo) GetByID(id string) (*entity.StockItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM stock_items WHERE id = $1 AND deleted_at IS NULL`, stockItemColumns)
	item, err := scanStockItem(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		return nil, fmt.Errorf("get stock item: %w", err)
	}
	return item, nil
}

// GetByName obtiene un ítem activo por nombre (identidad de producto).
func (r *StockItemRepo) GetByName(name string) (*entity.StockItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM stock_items WHERE name = $1 AND deleted_at IS NULL`, stockItemColumns)
	item, err := scanStockItem(r.q.QueryRow(context.Background(), query, name))
	if err != nil {
		return nil, fmt.Errorf("get stock item by name: %w", err)
	}
	return item, nil
}

// GetForUpdate obtiene el ítem por nombre y bloquea la fila (SELECT FOR
// UPDATE) para serializar deltas concurrentes. Prefiere el ítem activo; si
// solo existe uno eliminado lo devuelve para que el caso de uso reporte
// AlreadyDeleted en vez de NotFound.
func (r *StockItemRepo) GetForUpdate(name string) (*entity.StockItem, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM stock_items WHERE name = $1
		ORDER BY (deleted_at IS NULL) DESC, updated_at DESC
		LIMIT 1
		FOR UPDATE`, stockItemColumns)
	item, err := scanStockItem(r.q.QueryRow(context.Background(), query, name))
	if err != nil {
		return nil, fmt.Errorf("get stock item for update: %w", err)
	}
	return item, nil
}

// UpdateQuantityPrice escribe cantidad y precio vigente (solo el motor del libro).
func (r *StockItemRepo) UpdateQuantityPrice(id string, quantity, unitPrice decimal.Decimal, updatedAt time.Time) error {
	query := `UPDATE stock_items SET quantity = $2, unit_price = $3, updated_at = $4 WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, quantity, unitPrice, updatedAt)
	if err != nil {
		return fmt.Errorf("update stock quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Update persiste metadatos del ítem (nombre, unidad, precio, umbral).
func (r *StockItemRepo) Update(item *entity.StockItem) error {
	query := `
		UPDATE stock_items
		SET name = $2, unit = $3, unit_price = $4, low_stock_threshold = $5, updated_at = $6
		WHERE id = $1 AND deleted_at IS NULL`
	tag, err := r.q.Exec(context.Background(), query,
		item.ID, item.Name, item.Unit, item.UnitPrice, item.LowStockThreshold, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update stock item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List consulta ítems activos con filtros de nombre (subcadena) y estado
// (low incluye agotados), paginado, junto con el total.
func (r *StockItemRepo) List(filter repository.StockItemFilter) ([]*entity.StockItem, int, error) {
	where := "deleted_at IS NULL"
	args := []any{}
	pos := 1
	if filter.Name != "" {
		where += fmt.Sprintf(" AND name ILIKE $%d", pos)
		args = append(args, "%"+filter.Name+"%")
		pos++
	}
	if filter.Status == "low" {
		where += " AND (quantity = 0 OR (low_stock_threshold > 0 AND quantity <= low_stock_threshold))"
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM stock_items WHERE " + where
	if err := r.q.QueryRow(context.Background(), countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count stock items: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM stock_items WHERE %s ORDER BY name LIMIT $%d OFFSET $%d",
		stockItemColumns, where, pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list stock items: %w", err)
	}
	defer rows.Close()

	var items []*entity.StockItem
	for rows.Next() {
		var s entity.StockItem
		if err := rows.Scan(&s.ID, &s.Name, &s.Unit, &s.Quantity, &s.UnitPrice,
			&s.LowStockThreshold, &s.CreatedAt, &s.UpdatedAt, &s.DeletedAt); err != nil {
			return nil, 0, fmt.Errorf("scan stock item: %w", err)
		}
		items = append(items, &s)
	}
	return items, total, rows.Err()
}

// SoftDelete marca el ítem como eliminado.
func (r *StockItemRepo) SoftDelete(id string, deletedAt time.Time) error {
	query := `UPDATE stock_items SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`
	tag, err := r.q.Exec(context.Background(), query, id, deletedAt)
	if err != nil {
		return fmt.Errorf("soft delete stock item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
