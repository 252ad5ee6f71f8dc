package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateStockItemRequest body para POST /api/stock.
type CreateStockItemRequest struct {
	Name              string          `json:"name"`
	Unit              string          `json:"unit"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold"`
}

// UpdateStockItemRequest body para PUT /api/stock/:id. Solo metadatos:
// la cantidad se modifica únicamente vía movimientos del libro.
type UpdateStockItemRequest struct {
	Name              *string          `json:"name,omitempty"`
	Unit              *string          `json:"unit,omitempty"`
	UnitPrice         *decimal.Decimal `json:"unit_price,omitempty"`
	LowStockThreshold *decimal.Decimal `json:"low_stock_threshold,omitempty"`
}

// StockItemResponse ítem de stock con campos derivados.
type StockItemResponse struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Unit              string          `json:"unit"`
	Quantity          decimal.Decimal `json:"quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold"`
	Status            string          `json:"status"`      // out | low | normal
	TotalValue        decimal.Decimal `json:"total_value"` // quantity * unit_price
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ListStockRequest query para GET /api/stock.
type ListStockRequest struct {
	Name   string `query:"name"`
	Status string `query:"status"` // all | low
	PageRequest
}

// ApplyDeltaRequest body para ajustes manuales y consumos por pedido.
type ApplyDeltaRequest struct {
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"` // con signo
	RefNo       string          `json:"ref_no,omitempty"`
	Reason      string          `json:"reason"`
}

// LedgerEntryResponse entrada del historial del libro.
type LedgerEntryResponse struct {
	ID              string          `json:"id"`
	ProductName     string          `json:"product_name"`
	ChangeType      string          `json:"change_type"`
	ChangeQuantity  decimal.Decimal `json:"change_quantity"`
	UnitPriceAtTime decimal.Decimal `json:"unit_price_at_time"`
	QuantityBefore  decimal.Decimal `json:"quantity_before"`
	QuantityAfter   decimal.Decimal `json:"quantity_after"`
	RefNo           string          `json:"ref_no,omitempty"`
	Reason          string          `json:"reason,omitempty"`
	Operator        string          `json:"operator"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ListHistoryRequest query para GET /api/stock/history.
type ListHistoryRequest struct {
	ProductName string     `query:"product_name"`
	ChangeType  string     `query:"change_type"`
	From        *time.Time `query:"from"`
	To          *time.Time `query:"to"`
	PageRequest
}
