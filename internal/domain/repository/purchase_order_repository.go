package repository

import (
	"time"

	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
)

// PurchaseOrderFilter filtros para el listado de órdenes de compra.
type PurchaseOrderFilter struct {
	Status   string // "" = todas
	OrderNo  string // subcadena
	Supplier string // subcadena
	Limit    int
	Offset   int
}

// PurchaseOrderRepository define el puerto de persistencia de órdenes de
// compra (la orden embebe sus líneas). GetForUpdate bloquea la fila de la
// orden para serializar aprobación/recepción concurrentes.
type PurchaseOrderRepository interface {
	Create(order *entity.PurchaseOrder) error
	GetByID(id string) (*entity.PurchaseOrder, error)
	GetForUpdate(id string) (*entity.PurchaseOrder, error)
	// UpdateStatus persiste estado, aprobador/receptor, remark y updated_at.
	UpdateStatus(order *entity.PurchaseOrder) error
	// MarkItemReceived marca la línea como recibida solo si aún no lo estaba;
	// devuelve false si otra recepción ya la había marcado.
	MarkItemReceived(itemID string, receivedAt time.Time) (bool, error)
	List(filter PurchaseOrderFilter) ([]*entity.PurchaseOrder, int, error)
	SoftDelete(id string, deletedAt time.Time) error
}
