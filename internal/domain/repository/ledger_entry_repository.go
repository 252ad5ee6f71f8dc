package repository

import (
	"time"

	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
)

// LedgerEntryFilter filtros para consultar el historial del libro.
type LedgerEntryFilter struct {
	ProductName string
	ChangeType  string
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}

// LedgerEntryRepository define el puerto de persistencia del libro de
// inventario. Solo inserta y consulta: las entradas nunca se mutan ni borran.
type LedgerEntryRepository interface {
	Create(entry *entity.LedgerEntry) error
	List(filter LedgerEntryFilter) ([]*entity.LedgerEntry, int, error)
}
