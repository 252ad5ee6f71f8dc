package ledger

import "github.com/shopspring/decimal"

// Estados derivados de un ítem de stock según cantidad vs. umbral.
const (
	StatusOut    = "out"    // cantidad == 0
	StatusLow    = "low"    // 0 < cantidad <= umbral (umbral > 0)
	StatusNormal = "normal"
)

// StockStatus deriva el estado de un ítem (servicio de dominio).
// out si cantidad == 0; low si hay umbral y la cantidad no lo supera.
func StockStatus(quantity, threshold decimal.Decimal) string {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return StatusOut
	}
	if threshold.GreaterThan(decimal.Zero) && quantity.LessThanOrEqual(threshold) {
		return StatusLow
	}
	return StatusNormal
}

// TotalValue valor total del ítem: cantidad * precio unitario.
func TotalValue(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice)
}

// WeightedUnitPrice costo promedio ponderado tras una entrada:
// ((StockActual * PrecioActual) + (CantEntrada * PrecioEntrada)) / (StockActual + CantEntrada)
func WeightedUnitPrice(stockQty, stockPrice, inQty, inPrice decimal.Decimal) decimal.Decimal {
	sum := stockQty.Add(inQty)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := stockQty.Mul(stockPrice).Add(inQty.Mul(inPrice))
	return num.Div(sum)
}
