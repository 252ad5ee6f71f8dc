package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus estado de una orden de compra.
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusPending   PurchaseOrderStatus = "pending"
	PurchaseOrderStatusApproved  PurchaseOrderStatus = "approved"
	PurchaseOrderStatusCompleted PurchaseOrderStatus = "completed"
	PurchaseOrderStatusCancelled PurchaseOrderStatus = "cancelled"
)

// IsValid indica si el estado es uno de los conocidos.
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusPending, PurchaseOrderStatusApproved,
		PurchaseOrderStatusCompleted, PurchaseOrderStatusCancelled:
		return true
	}
	return false
}

// IsTerminal indica si ningún evento puede sacar a la orden de este estado.
func (s PurchaseOrderStatus) IsTerminal() bool {
	return s == PurchaseOrderStatusCompleted || s == PurchaseOrderStatusCancelled
}

// CanTransitionTo valida la máquina de estados:
// pending -> approved | cancelled; approved -> completed.
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	switch s {
	case PurchaseOrderStatusPending:
		return target == PurchaseOrderStatusApproved || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusApproved:
		return target == PurchaseOrderStatusCompleted
	}
	return false
}

// CanReceive solo las órdenes aprobadas pueden recibirse.
func (s PurchaseOrderStatus) CanReceive() bool {
	return s == PurchaseOrderStatusApproved
}

// PurchaseOrderItem línea de una orden de compra.
// Received marca que la línea ya impactó el inventario: re-ejecutar la
// recepción de la orden omite las líneas marcadas (semántica por línea,
// al menos una vez).
type PurchaseOrderItem struct {
	ID          string
	OrderID     string
	ProductName string
	Quantity    decimal.Decimal
	Price       decimal.Decimal
	Amount      decimal.Decimal // Quantity * Price
	Received    bool
	ReceivedAt  *time.Time
}

// PurchaseOrder solicitud de compra con líneas embebidas.
// La recepción es el único camino por el que una compra aumenta stock.
type PurchaseOrder struct {
	ID           string
	OrderNo      string // único, legible (CG...)
	SupplierName string
	Items        []PurchaseOrderItem
	TotalAmount  decimal.Decimal // suma de Amount de las líneas al crearse
	Status       PurchaseOrderStatus
	Creator      string
	Approver     string
	ApprovedAt   *time.Time
	ReceivedBy   string
	ReceivedAt   *time.Time
	Remark       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

// PendingItems devuelve las líneas aún no recibidas.
func (o *PurchaseOrder) PendingItems() []PurchaseOrderItem {
	var pending []PurchaseOrderItem
	for _, it := range o.Items {
		if !it.Received {
			pending = append(pending, it)
		}
	}
	return pending
}

// IsDeleted indica si la orden fue eliminada lógicamente.
func (o *PurchaseOrder) IsDeleted() bool {
	return o.DeletedAt != nil
}
