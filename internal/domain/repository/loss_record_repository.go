package repository

import (
	"time"

	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
)

// LossRecordFilter filtros para el listado de mermas.
type LossRecordFilter struct {
	ProductName string
	Limit       int
	Offset      int
}

// LossRecordRepository define el puerto de persistencia de mermas.
type LossRecordRepository interface {
	Create(record *entity.LossRecord) error
	GetByID(id string) (*entity.LossRecord, error)
	List(filter LossRecordFilter) ([]*entity.LossRecord, int, error)
	SoftDelete(id string, deletedAt time.Time) error
}
