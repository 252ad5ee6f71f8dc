package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de cambio en el libro de inventario (variante cerrada).
const (
	ChangeTypePurchase     = "purchase"      // recepción de orden de compra
	ChangeTypeLoss         = "loss"          // merma (daño, vencimiento)
	ChangeTypeManualAdjust = "manual_adjust" // ajuste manual
	ChangeTypeOrderConsume = "order_consume" // consumo por pedido de cliente
)

// ValidChangeType indica si s es uno de los tipos de cambio conocidos.
func ValidChangeType(s string) bool {
	switch s {
	case ChangeTypePurchase, ChangeTypeLoss, ChangeTypeManualAdjust, ChangeTypeOrderConsume:
		return true
	}
	return false
}

// LedgerEntry es un registro de auditoría inmutable: cada cambio de cantidad
// exitoso produce exactamente uno. Nunca se actualiza ni se borra.
// Invariante: QuantityAfter = QuantityBefore + ChangeQuantity, ambas >= 0.
type LedgerEntry struct {
	ID              string
	StockItemID     string
	ProductName     string // snapshot denormalizado del nombre
	ChangeType      string
	ChangeQuantity  decimal.Decimal // con signo: positivo entrada, negativo salida
	UnitPriceAtTime decimal.Decimal
	QuantityBefore  decimal.Decimal
	QuantityAfter   decimal.Decimal
	RefNo           string // orderNo / lossNo / id del pedido que causó el cambio
	Reason          string
	Operator        string
	CreatedAt       time.Time
}
