package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseItemRequest línea de una orden de compra a crear.
type PurchaseItemRequest struct {
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// CreatePurchaseOrderRequest body para POST /api/purchases.
type CreatePurchaseOrderRequest struct {
	SupplierName string                `json:"supplier_name"`
	Items        []PurchaseItemRequest `json:"items"`
	Remark       string                `json:"remark,omitempty"`
}

// ApprovePurchaseOrderRequest body para POST /api/purchases/:id/approve.
// Approve=false rechaza la orden (pasa a cancelled).
type ApprovePurchaseOrderRequest struct {
	Approve bool   `json:"approve"`
	Remark  string `json:"remark,omitempty"`
}

// ReceivePurchaseOrderRequest body para POST /api/purchases/:id/receive.
type ReceivePurchaseOrderRequest struct {
	Remark string `json:"remark,omitempty"`
}

// PurchaseItemResponse línea de orden en respuestas.
type PurchaseItemResponse struct {
	ID          string          `json:"id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Amount      decimal.Decimal `json:"amount"`
	Received    bool            `json:"received"`
	ReceivedAt  *time.Time      `json:"received_at,omitempty"`
}

// PurchaseOrderResponse orden de compra completa.
type PurchaseOrderResponse struct {
	ID           string                 `json:"id"`
	OrderNo      string                 `json:"order_no"`
	SupplierName string                 `json:"supplier_name"`
	Items        []PurchaseItemResponse `json:"items"`
	TotalAmount  decimal.Decimal        `json:"total_amount"`
	Status       string                 `json:"status"`
	Creator      string                 `json:"creator"`
	Approver     string                 `json:"approver,omitempty"`
	ApprovedAt   *time.Time             `json:"approved_at,omitempty"`
	ReceivedBy   string                 `json:"received_by,omitempty"`
	ReceivedAt   *time.Time             `json:"received_at,omitempty"`
	Remark       string                 `json:"remark,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// ListPurchaseOrdersRequest query para GET /api/purchases.
type ListPurchaseOrdersRequest struct {
	Status   string `query:"status"`
	OrderNo  string `query:"order_no"`
	Supplier string `query:"supplier"`
	PageRequest
}
