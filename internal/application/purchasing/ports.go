package purchasing

import (
	"context"

	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/jhoicas/Restaurante-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios del flujo de compras atados a esa tx. La recepción lo usa una
// vez por línea: delta de stock + marca de línea recibida como unidad atómica.
type TxRunner interface {
	RunPurchase(ctx context.Context, fn func(
		stockRepo repository.StockItemRepository,
		entryRepo repository.LedgerEntryRepository,
		orderRepo repository.PurchaseOrderRepository,
	) error) error
}

// ReceivingSlipGenerator genera el remito de recepción de una orden en PDF.
type ReceivingSlipGenerator interface {
	GenerateReceivingSlip(ctx context.Context, order *entity.PurchaseOrder) ([]byte, error)
}
