package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/jhoicas/Restaurante-api/internal/domain/repository"
)

var _ repository.LedgerEntryRepository = (*LedgerEntryRepo)(nil)

// LedgerEntryRepo implementación del libro de inventario sobre PostgreSQL
// (usable con pool o tx). Solo INSERT y SELECT: los asientos son inmutables.
type LedgerEntryRepo struct {
	q Querier
}

// NewLedgerEntryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerEntryRepository(q Querier) *LedgerEntryRepo {
	return &LedgerEntryRepo{q: q}
}

// Create asienta una entrada en el libro.
func (r *LedgerEntryRepo) Create(entry *entity.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (id, stock_item_id, product_name, change_type, change_quantity, unit_price_at_time, quantity_before, quantity_after, ref_no, reason, operator, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.StockItemID, entry.ProductName, entry.ChangeType,
		entry.ChangeQuantity, entry.UnitPriceAtTime, entry.QuantityBefore, entry.QuantityAfter,
		entry.RefNo, entry.Reason, entry.Operator, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	return nil
}

// List consulta el historial con filtros de producto, tipo de cambio y rango
// de fechas, paginado descendente por fecha, junto con el total.
func (r *LedgerEntryRepo) List(filter repository.LedgerEntryFilter) ([]*entity.LedgerEntry, int, error) {
	where := "1=1"
	args := []any{}
	pos := 1
	if filter.ProductName != "" {
		where += fmt.Sprintf(" AND product_name = $%d", pos)
		args = append(args, filter.ProductName)
		pos++
	}
	if filter.ChangeType != "" {
		where += fmt.Sprintf(" AND change_type = $%d", pos)
		args = append(args, filter.ChangeType)
		pos++
	}
	if filter.From != nil {
		where += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		where += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *filter.To)
		pos++
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM ledger_entries WHERE " + where
	if err := r.q.QueryRow(context.Background(), countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count ledger entries: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, stock_item_id, product_name, change_type, change_quantity, unit_price_at_time, quantity_before, quantity_after, ref_no, reason, operator, created_at
		FROM ledger_entries WHERE %s
		ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, where, pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []*entity.LedgerEntry
	for rows.Next() {
		var e entity.LedgerEntry
		if err := rows.Scan(&e.ID, &e.StockItemID, &e.ProductName, &e.ChangeType,
			&e.ChangeQuantity, &e.UnitPriceAtTime, &e.QuantityBefore, &e.QuantityAfter,
			&e.RefNo, &e.Reason, &e.Operator, &e.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan ledger entry: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, total, rows.Err()
}
