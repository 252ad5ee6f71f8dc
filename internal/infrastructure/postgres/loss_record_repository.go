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

var _ repository.LossRecordRepository = (*LossRecordRepo)(nil)

const lossRecordColumns = "id, loss_no, stock_item_id, product_name, quantity, price, amount, reason, remark, operator, created_at, deleted_at"

// LossRecordRepo implementación del puerto LossRecordRepository sobre
// PostgreSQL (usable con pool o tx).
type LossRecordRepo struct {
	q Querier
}

// NewLossRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLossRecordRepository(q Querier) *LossRecordRepo {
	return &LossRecordRepo{q: q}
}

// Create persiste un registro de merma.
func (r *LossRecordRepo) Create(record *entity.LossRecord) error {
	query := `
		INSERT INTO loss_records (id, loss_no, stock_item_id, product_name, quantity, price, amount, reason, remark, operator, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		record.ID, record.LossNo, record.StockItemID, record.ProductName,
		record.Quantity, record.Price, record.Amount, record.Reason,
		record.Remark, record.Operator, record.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert loss record: %w", err)
	}
	return nil
}

// GetByID obtiene un registro por ID (incluye eliminados, para distinguir
// AlreadyDeleted de NotFound).
func (r *LossRecordRepo) GetByID(id string) (*entity.LossRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM loss_records WHERE id = $1`, lossRecordColumns)
	var rec entity.LossRecord
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&rec.ID, &rec.LossNo, &rec.StockItemID, &rec.ProductName,
		&rec.Quantity, &rec.Price, &rec.Amount, &rec.Reason,
		&rec.Remark, &rec.Operator, &rec.CreatedAt, &rec.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get loss record: %w", err)
	}
	return &rec, nil
}

// List consulta registros activos, filtrables por producto, paginado
// descendente por fecha, junto con el total.
func (r *LossRecordRepo) List(filter repository.LossRecordFilter) ([]*entity.LossRecord, int, error) {
	where := "deleted_at IS NULL"
	args := []any{}
	pos := 1
	if filter.ProductName != "" {
		where += fmt.Sprintf(" AND product_name = $%d", pos)
		args = append(args, filter.ProductName)
		pos++
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM loss_records WHERE " + where
	if err := r.q.QueryRow(context.Background(), countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count loss records: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM loss_records WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		lossRecordColumns, where, pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list loss records: %w", err)
	}
	defer rows.Close()

	var records []*entity.LossRecord
	for rows.Next() {
		var rec entity.LossRecord
		if err := rows.Scan(&rec.ID, &rec.LossNo, &rec.StockItemID, &rec.ProductName,
			&rec.Quantity, &rec.Price, &rec.Amount, &rec.Reason,
			&rec.Remark, &rec.Operator, &rec.CreatedAt, &rec.DeletedAt); err != nil {
			return nil, 0, fmt.Errorf("scan loss record: %w", err)
		}
		records = append(records, &rec)
	}
	return records, total, rows.Err()
}

// SoftDelete marca el registro como eliminado; el asiento del libro queda.
func (r *LossRecordRepo) SoftDelete(id string, deletedAt time.Time) error {
	query := `UPDATE loss_records SET deleted_at = $2 WHERE id = $1 AND deleted_at IS NULL`
	tag, err := r.q.Exec(context.Background(), query, id, deletedAt)
	if err != nil {
		return fmt.Errorf("soft delete loss record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
