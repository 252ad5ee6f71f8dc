package ledger

import (
	"context"

	"github.com/jhoicas/Restaurante-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que la actualización de cantidad y
// el asiento en el libro se confirmen como una sola unidad.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockRepo repository.StockItemRepository,
		entryRepo repository.LedgerEntryRepository,
	) error) error
}
