package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockItem representa un insumo rastreable del inventario del restaurante.
// Name es la identidad única entre ítems activos (no eliminados).
// Quantity solo se modifica a través del libro de inventario (ApplyDelta);
// los campos de metadatos (nombre, unidad, umbral) se editan por CRUD normal.
type StockItem struct {
	ID                string
	Name              string
	Unit              string          // kg, litro, unidad, etc.
	Quantity          decimal.Decimal // nunca negativa
	UnitPrice         decimal.Decimal
	LowStockThreshold decimal.Decimal // cero = sin umbral configurado
	CreatedAt         time.Time
	UpdatedAt         time.Time
	DeletedAt         *time.Time
}

// IsDeleted indica si el ítem fue eliminado lógicamente.
func (s *StockItem) IsDeleted() bool {
	return s.DeletedAt != nil
}
