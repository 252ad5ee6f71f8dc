package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Restaurante-api/internal/application/dto"
	"github.com/jhoicas/Restaurante-api/internal/domain"
	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	domledger "github.com/jhoicas/Restaurante-api/internal/domain/ledger"
	"github.com/jhoicas/Restaurante-api/internal/domain/repository"
)

// UseCase es el motor del libro de inventario: el único punto de entrada para
// cambiar cantidades de stock. Todos los escritores (recepción de compras,
// mermas, ajustes manuales, consumo por pedidos) pasan por ApplyDelta, de modo
// que comparten la misma disciplina de concurrencia: bloqueo de fila
// (SELECT FOR UPDATE) dentro de una transacción que confirma cantidad y
// asiento juntos, o nada.
type UseCase struct {
	txRunner  TxRunner
	entryRepo repository.LedgerEntryRepository
}

// New construye el motor del libro. entryRepo (atado al pool) solo se usa
// para consultas; las escrituras siempre van por txRunner.
func New(txRunner TxRunner, entryRepo repository.LedgerEntryRepository) *UseCase {
	return &UseCase{txRunner: txRunner, entryRepo: entryRepo}
}

// ApplyDeltaInput entrada para aplicar un delta con signo al stock de un producto.
type ApplyDeltaInput struct {
	ProductName string
	Quantity    decimal.Decimal // positivo entrada, negativo salida; nunca cero
	ChangeType  string
	UnitPrice   *decimal.Decimal // precio de la entrada (compras); nil = precio actual del ítem
	RefNo       string           // documento causante: orderNo, lossNo, id de pedido
	Reason      string
	Operator    string
	// CreateMissing da de alta el producto si no existe (solo recepción de
	// compras, con UnitPrice obligatorio).
	CreateMissing bool
	Unit          string // unidad al crear
}

func (in ApplyDeltaInput) validate() error {
	if in.ProductName == "" || in.Quantity.IsZero() {
		return domain.ErrInvalidInput
	}
	if !entity.ValidChangeType(in.ChangeType) {
		return domain.ErrInvalidInput
	}
	if in.UnitPrice != nil && in.UnitPrice.IsNegative() {
		return domain.ErrInvalidInput
	}
	if in.CreateMissing && (in.UnitPrice == nil || !in.Quantity.GreaterThan(decimal.Zero)) {
		return domain.ErrInvalidInput
	}
	return nil
}

// ApplyDelta inicia una transacción, bloquea la fila del producto, aplica el
// delta y asienta la entrada en el libro. Commit o Rollback como unidad: si
// falla, ni la cantidad ni el libro cambian.
func (uc *UseCase) ApplyDelta(ctx context.Context, input ApplyDeltaInput) (*entity.LedgerEntry, error) {
	var entry *entity.LedgerEntry
	err := uc.txRunner.Run(ctx, func(
		stockRepo repository.StockItemRepository,
		entryRepo repository.LedgerEntryRepository,
	) error {
		e, err := uc.ApplyDeltaInTx(stockRepo, entryRepo, input, time.Now())
		if err != nil {
			return err
		}
		entry = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// ApplyDeltaInTx aplica el delta usando repositorios ya atados a la
// transacción del caller (misma tx). Lo usan la recepción de compras y el
// registro de mermas para que sus propias escrituras queden en la misma
// unidad atómica que el movimiento de stock.
func (uc *UseCase) ApplyDeltaInTx(
	stockRepo repository.StockItemRepository,
	entryRepo repository.LedgerEntryRepository,
	input ApplyDeltaInput,
	now time.Time,
) (*entity.LedgerEntry, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	// Bloquea la fila del producto para serializar deltas concurrentes
	item, err := stockRepo.GetForUpdate(input.ProductName)
	if err != nil {
		return nil, err
	}
	if item == nil {
		if !input.CreateMissing {
			return nil, domain.ErrNotFound
		}
		item = &entity.StockItem{
			ID:        uuid.New().String(),
			Name:      input.ProductName,
			Unit:      input.Unit,
			Quantity:  decimal.Zero,
			UnitPrice: *input.UnitPrice,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := stockRepo.Create(item); err != nil {
			// Dos recepciones pueden querer estrenar el mismo producto a la
			// vez: el que pierde el índice único recibe un conflicto
			// reintentable, no un duplicado de alta manual.
			if errors.Is(err, domain.ErrDuplicate) {
				return nil, domain.ErrConflict
			}
			return nil, err
		}
	}
	if item.IsDeleted() {
		return nil, domain.ErrAlreadyDeleted
	}

	before := item.Quantity
	after := before.Add(input.Quantity)
	if after.IsNegative() {
		return nil, domain.ErrInsufficientStock
	}

	// Precio del asiento: el de la entrada si viene (compras), si no el vigente.
	// Las entradas con precio propio recalculan el costo promedio ponderado.
	entryPrice := item.UnitPrice
	newPrice := item.UnitPrice
	if input.UnitPrice != nil {
		entryPrice = *input.UnitPrice
		if input.Quantity.GreaterThan(decimal.Zero) {
			newPrice = domledger.WeightedUnitPrice(before, item.UnitPrice, input.Quantity, entryPrice)
		}
	}

	if err := stockRepo.UpdateQuantityPrice(item.ID, after, newPrice, now); err != nil {
		return nil, err
	}

	entry := &entity.LedgerEntry{
		ID:              uuid.New().String(),
		StockItemID:     item.ID,
		ProductName:     item.Name,
		ChangeType:      input.ChangeType,
		ChangeQuantity:  input.Quantity,
		UnitPriceAtTime: entryPrice,
		QuantityBefore:  before,
		QuantityAfter:   after,
		RefNo:           input.RefNo,
		Reason:          input.Reason,
		Operator:        input.Operator,
		CreatedAt:       now,
	}
	if err := entryRepo.Create(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// ListHistory consulta el historial del libro (solo lectura, sin efectos).
func (uc *UseCase) ListHistory(ctx context.Context, in dto.ListHistoryRequest) ([]dto.LedgerEntryResponse, int, error) {
	_ = ctx
	if in.ChangeType != "" && !entity.ValidChangeType(in.ChangeType) {
		return nil, 0, domain.ErrInvalidInput
	}
	in.DefaultPage()
	entries, total, err := uc.entryRepo.List(repository.LedgerEntryFilter{
		ProductName: in.ProductName,
		ChangeType:  in.ChangeType,
		From:        in.From,
		To:          in.To,
		Limit:       in.Limit,
		Offset:      in.Offset,
	})
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryResponse(e))
	}
	return out, total, nil
}

func toEntryResponse(e *entity.LedgerEntry) dto.LedgerEntryResponse {
	return dto.LedgerEntryResponse{
		ID:              e.ID,
		ProductName:     e.ProductName,
		ChangeType:      e.ChangeType,
		ChangeQuantity:  e.ChangeQuantity,
		UnitPriceAtTime: e.UnitPriceAtTime,
		QuantityBefore:  e.QuantityBefore,
		QuantityAfter:   e.QuantityAfter,
		RefNo:           e.RefNo,
		Reason:          e.Reason,
		Operator:        e.Operator,
		CreatedAt:       e.CreatedAt,
	}
}
