package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateLossRequest body para POST /api/losses.
type CreateLossRequest struct {
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"` // siempre positiva
	Reason      string          `json:"reason"`
	Remark      string          `json:"remark,omitempty"`
}

// LossRecordResponse merma registrada.
type LossRecordResponse struct {
	ID          string          `json:"id"`
	LossNo      string          `json:"loss_no"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Amount      decimal.Decimal `json:"amount"`
	Reason      string          `json:"reason"`
	Remark      string          `json:"remark,omitempty"`
	Operator    string          `json:"operator"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ListLossesRequest query para GET /api/losses.
type ListLossesRequest struct {
	ProductName string `query:"product_name"`
	PageRequest
}
