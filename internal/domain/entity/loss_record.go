package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LossRecord registra una baja voluntaria de stock (merma): daño, vencimiento,
// rotura. Price es el precio unitario del ítem en el momento del registro, no
// un precio histórico. Cada registro exitoso produce exactamente un LedgerEntry
// de tipo loss y nunca puede dejar la cantidad por debajo de cero.
type LossRecord struct {
	ID          string
	LossNo      string // único, legible (BS...)
	StockItemID string
	ProductName string // snapshot denormalizado
	Quantity    decimal.Decimal
	Price       decimal.Decimal
	Amount      decimal.Decimal // Quantity * Price
	Reason      string
	Remark      string
	Operator    string
	CreatedAt   time.Time
	DeletedAt   *time.Time
}
