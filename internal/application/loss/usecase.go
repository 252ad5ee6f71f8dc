package loss

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Restaurante-api/internal/application/dto"
	"github.com/jhoicas/Restaurante-api/internal/application/ledger"
	"github.com/jhoicas/Restaurante-api/internal/domain"
	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	domledger "github.com/jhoicas/Restaurante-api/internal/domain/ledger"
	"github.com/jhoicas/Restaurante-api/internal/domain/repository"
)

// TxRunner transacción con los repositorios del registro de mermas.
type TxRunner interface {
	RunLoss(ctx context.Context, fn func(
		stockRepo repository.StockItemRepository,
		entryRepo repository.LedgerEntryRepository,
		lossRepo repository.LossRecordRepository,
	) error) error
}

// UseCase registro de mermas: bajas voluntarias de stock con motivo. El
// registro y su asiento en el libro se confirman en la misma transacción;
// una merma nunca puede dejar la cantidad por debajo de cero (un error de
// carga se reporta, no se recorta en silencio).
type UseCase struct {
	txRunner TxRunner
	lossRepo repository.LossRecordRepository
	ledgerUC *ledger.UseCase
}

// New construye el caso de uso. lossRepo (atado al pool) solo para lecturas.
func New(txRunner TxRunner, lossRepo repository.LossRecordRepository, ledgerUC *ledger.UseCase) *UseCase {
	return &UseCase{txRunner: txRunner, lossRepo: lossRepo, ledgerUC: ledgerUC}
}

// Record registra una merma: toma el precio unitario vigente del producto en
// este momento (no uno histórico), aplica el delta negativo y persiste el
// registro, todo como una unidad. Propaga ErrInsufficientStock del libro.
func (uc *UseCase) Record(ctx context.Context, in dto.CreateLossRequest, operator string) (*dto.LossRecordResponse, error) {
	if in.ProductName == "" || !in.Quantity.GreaterThan(decimal.Zero) || in.Reason == "" {
		return nil, domain.ErrInvalidInput
	}

	var record *entity.LossRecord
	err := uc.txRunner.RunLoss(ctx, func(
		stockRepo repository.StockItemRepository,
		entryRepo repository.LedgerEntryRepository,
		lossRepo repository.LossRecordRepository,
	) error {
		now := time.Now()
		lossNo := domledger.NewLossNo(now)
		entry, err := uc.ledgerUC.ApplyDeltaInTx(stockRepo, entryRepo, ledger.ApplyDeltaInput{
			ProductName: in.ProductName,
			Quantity:    in.Quantity.Neg(),
			ChangeType:  entity.ChangeTypeLoss,
			RefNo:       lossNo,
			Reason:      in.Reason,
			Operator:    operator,
		}, now)
		if err != nil {
			return err
		}
		record = &entity.LossRecord{
			ID:          uuid.New().String(),
			LossNo:      lossNo,
			StockItemID: entry.StockItemID,
			ProductName: entry.ProductName,
			Quantity:    in.Quantity,
			Price:       entry.UnitPriceAtTime,
			Amount:      in.Quantity.Mul(entry.UnitPriceAtTime),
			Reason:      in.Reason,
			Remark:      in.Remark,
			Operator:    operator,
			CreatedAt:   now,
		}
		return lossRepo.Create(record)
	})
	if err != nil {
		return nil, err
	}
	return toLossResponse(record), nil
}

// List consulta mermas, filtrables por producto.
func (uc *UseCase) List(ctx context.Context, in dto.ListLossesRequest) ([]dto.LossRecordResponse, int, error) {
	_ = ctx
	in.DefaultPage()
	records, total, err := uc.lossRepo.List(repository.LossRecordFilter{
		ProductName: in.ProductName,
		Limit:       in.Limit,
		Offset:      in.Offset,
	})
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.LossRecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, *toLossResponse(r))
	}
	return out, total, nil
}

// Delete elimina lógicamente el registro. El asiento del libro queda: el
// historial es inmutable y el stock ya descontado no se repone por borrar
// el registro administrativo.
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	_ = ctx
	record, err := uc.lossRepo.GetByID(id)
	if err != nil {
		return err
	}
	if record == nil {
		return domain.ErrNotFound
	}
	if record.DeletedAt != nil {
		return domain.ErrAlreadyDeleted
	}
	return uc.lossRepo.SoftDelete(id, time.Now())
}

func toLossResponse(r *entity.LossRecord) *dto.LossRecordResponse {
	return &dto.LossRecordResponse{
		ID:          r.ID,
		LossNo:      r.LossNo,
		ProductName: r.ProductName,
		Quantity:    r.Quantity,
		Price:       r.Price,
		Amount:      r.Amount,
		Reason:      r.Reason,
		Remark:      r.Remark,
		Operator:    r.Operator,
		CreatedAt:   r.CreatedAt,
	}
}
