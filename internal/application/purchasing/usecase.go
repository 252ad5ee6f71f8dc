package purchasing

import (
	"context"
	"errors"
	"fmt"
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

// Reintentos al chocar el índice único de order_no (colisión de número).
const maxOrderNoRetries = 3

// UseCase flujo de órdenes de compra: crear, aprobar/rechazar, recibir,
// cancelar y consultar. La aprobación y la recepción son actores distintos:
// el libro solo se toca con cantidades físicamente verificadas al recibir.
type UseCase struct {
	txRunner  TxRunner
	orderRepo repository.PurchaseOrderRepository
	ledgerUC  *ledger.UseCase
	slipGen   ReceivingSlipGenerator
}

// New construye el caso de uso. orderRepo (atado al pool) se usa para
// lecturas; las escrituras van por txRunner.
func New(txRunner TxRunner, orderRepo repository.PurchaseOrderRepository, ledgerUC *ledger.UseCase, slipGen ReceivingSlipGenerator) *UseCase {
	return &UseCase{txRunner: txRunner, orderRepo: orderRepo, ledgerUC: ledgerUC, slipGen: slipGen}
}

// Create valida las líneas, calcula importes y crea la orden en pending.
// Cabecera y líneas se insertan en una sola transacción: si una línea falla
// no queda ninguna orden a medias.
func (uc *UseCase) Create(ctx context.Context, in dto.CreatePurchaseOrderRequest, creator string) (*dto.PurchaseOrderResponse, error) {
	if in.SupplierName == "" || creator == "" {
		return nil, domain.ErrInvalidInput
	}
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidItems
	}

	now := time.Now()
	items := make([]entity.PurchaseOrderItem, 0, len(in.Items))
	total := decimal.Zero
	for _, it := range in.Items {
		if it.ProductName == "" || !it.Quantity.GreaterThan(decimal.Zero) || it.Price.IsNegative() {
			return nil, domain.ErrInvalidItems
		}
		amount := it.Quantity.Mul(it.Price)
		items = append(items, entity.PurchaseOrderItem{
			ID:          uuid.New().String(),
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			Price:       it.Price,
			Amount:      amount,
		})
		total = total.Add(amount)
	}

	order := &entity.PurchaseOrder{
		ID:           uuid.New().String(),
		SupplierName: in.SupplierName,
		Items:        items,
		TotalAmount:  total,
		Status:       entity.PurchaseOrderStatusPending,
		Creator:      creator,
		Remark:       in.Remark,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}

	// El número legible puede colisionar dentro del mismo segundo; el índice
	// único lo detecta y se reintenta con otro sufijo.
	var err error
	for attempt := 0; attempt < maxOrderNoRetries; attempt++ {
		order.OrderNo = domledger.NewOrderNo(now)
		err = uc.txRunner.RunPurchase(ctx, func(
			_ repository.StockItemRepository,
			_ repository.LedgerEntryRepository,
			orderRepo repository.PurchaseOrderRepository,
		) error {
			return orderRepo.Create(order)
		})
		if err == nil {
			return toOrderResponse(order), nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
	}
	return nil, err
}

// Approve procesa la aprobación (approve=true → approved) o el rechazo
// (approve=false → cancelled). Solo legal desde pending.
func (uc *UseCase) Approve(ctx context.Context, orderID string, in dto.ApprovePurchaseOrderRequest, approver string) (*dto.PurchaseOrderResponse, error) {
	var result *entity.PurchaseOrder
	err := uc.txRunner.RunPurchase(ctx, func(
		_ repository.StockItemRepository,
		_ repository.LedgerEntryRepository,
		orderRepo repository.PurchaseOrderRepository,
	) error {
		order, err := orderRepo.GetForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.IsDeleted() {
			return domain.ErrAlreadyDeleted
		}
		if order.Status != entity.PurchaseOrderStatusPending {
			return domain.ErrInvalidState
		}

		now := time.Now()
		if in.Approve {
			order.Status = entity.PurchaseOrderStatusApproved
			order.Approver = approver
			order.ApprovedAt = &now
		} else {
			order.Status = entity.PurchaseOrderStatusCancelled
			order.Approver = approver
			order.ApprovedAt = &now
		}
		if in.Remark != "" {
			order.Remark = in.Remark
		}
		order.UpdatedAt = now
		if err := orderRepo.UpdateStatus(order); err != nil {
			return err
		}
		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(result), nil
}

// Receive confirma la entrega física de una orden aprobada. Cada línea es su
// propia unidad atómica (delta de stock + marca de recibida en una tx); un
// fallo a mitad deja las líneas anteriores confirmadas y la orden en
// approved, de modo que re-ejecutar la recepción retoma solo las líneas
// pendientes (al menos una vez por línea). La orden pasa a completed recién
// cuando todas las líneas quedaron recibidas.
func (uc *UseCase) Receive(ctx context.Context, orderID string, in dto.ReceivePurchaseOrderRequest, receiver string) (*dto.PurchaseOrderResponse, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.IsDeleted() {
		return nil, domain.ErrAlreadyDeleted
	}
	if !order.Status.CanReceive() {
		return nil, domain.ErrInvalidState
	}

	for _, item := range order.PendingItems() {
		item := item
		err := uc.txRunner.RunPurchase(ctx, func(
			stockRepo repository.StockItemRepository,
			entryRepo repository.LedgerEntryRepository,
			orderRepo repository.PurchaseOrderRepository,
		) error {
			// Revalida bajo bloqueo: otra recepción o una cancelación pudo ganar.
			locked, err := orderRepo.GetForUpdate(orderID)
			if err != nil {
				return err
			}
			if locked == nil || locked.IsDeleted() {
				return domain.ErrNotFound
			}
			if !locked.Status.CanReceive() {
				return domain.ErrInvalidState
			}
			now := time.Now()
			marked, err := orderRepo.MarkItemReceived(item.ID, now)
			if err != nil {
				return err
			}
			if !marked {
				// Línea ya confirmada por una recepción anterior
				return nil
			}
			price := item.Price
			_, err = uc.ledgerUC.ApplyDeltaInTx(stockRepo, entryRepo, ledger.ApplyDeltaInput{
				ProductName:   item.ProductName,
				Quantity:      item.Quantity,
				ChangeType:    entity.ChangeTypePurchase,
				UnitPrice:     &price,
				RefNo:         order.OrderNo,
				Reason:        fmt.Sprintf("recepción orden %s", order.OrderNo),
				Operator:      receiver,
				CreateMissing: true,
			}, now)
			return err
		})
		if err != nil {
			return nil, err
		}
	}

	// Transición final, con verificación bajo bloqueo de que no quedó ninguna
	// línea pendiente.
	var result *entity.PurchaseOrder
	err = uc.txRunner.RunPurchase(ctx, func(
		_ repository.StockItemRepository,
		_ repository.LedgerEntryRepository,
		orderRepo repository.PurchaseOrderRepository,
	) error {
		locked, err := orderRepo.GetForUpdate(orderID)
		if err != nil {
			return err
		}
		if locked == nil || locked.IsDeleted() {
			return domain.ErrNotFound
		}
		if locked.Status == entity.PurchaseOrderStatusCompleted {
			result = locked
			return nil
		}
		if !locked.Status.CanReceive() {
			return domain.ErrInvalidState
		}
		if len(locked.PendingItems()) > 0 {
			return domain.ErrConflict
		}
		now := time.Now()
		locked.Status = entity.PurchaseOrderStatusCompleted
		locked.ReceivedBy = receiver
		locked.ReceivedAt = &now
		if in.Remark != "" {
			locked.Remark = in.Remark
		}
		locked.UpdatedAt = now
		if err := orderRepo.UpdateStatus(locked); err != nil {
			return err
		}
		result = locked
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(result), nil
}

// Delete elimina lógicamente la orden. Legal solo antes de recibir (pending
// o approved); no toca el libro porque ningún stock cambió todavía.
func (uc *UseCase) Delete(ctx context.Context, orderID string) error {
	return uc.txRunner.RunPurchase(ctx, func(
		_ repository.StockItemRepository,
		_ repository.LedgerEntryRepository,
		orderRepo repository.PurchaseOrderRepository,
	) error {
		order, err := orderRepo.GetForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.IsDeleted() {
			return domain.ErrAlreadyDeleted
		}
		if order.Status != entity.PurchaseOrderStatusPending && order.Status != entity.PurchaseOrderStatusApproved {
			return domain.ErrInvalidState
		}
		return orderRepo.SoftDelete(orderID, time.Now())
	})
}

// GetByID obtiene una orden por ID.
func (uc *UseCase) GetByID(ctx context.Context, orderID string) (*dto.PurchaseOrderResponse, error) {
	_ = ctx
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil || order.IsDeleted() {
		return nil, domain.ErrNotFound
	}
	return toOrderResponse(order), nil
}

// List consulta órdenes con filtros de estado, número y proveedor.
func (uc *UseCase) List(ctx context.Context, in dto.ListPurchaseOrdersRequest) ([]dto.PurchaseOrderResponse, int, error) {
	_ = ctx
	if in.Status != "" && !entity.PurchaseOrderStatus(in.Status).IsValid() {
		return nil, 0, domain.ErrInvalidInput
	}
	in.DefaultPage()
	orders, total, err := uc.orderRepo.List(repository.PurchaseOrderFilter{
		Status:   in.Status,
		OrderNo:  in.OrderNo,
		Supplier: in.Supplier,
		Limit:    in.Limit,
		Offset:   in.Offset,
	})
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.PurchaseOrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, *toOrderResponse(o))
	}
	return out, total, nil
}

// ReceivingSlipPDF genera el remito de recepción en PDF.
func (uc *UseCase) ReceivingSlipPDF(ctx context.Context, orderID string) ([]byte, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil || order.IsDeleted() {
		return nil, domain.ErrNotFound
	}
	return uc.slipGen.GenerateReceivingSlip(ctx, order)
}

func toOrderResponse(o *entity.PurchaseOrder) *dto.PurchaseOrderResponse {
	items := make([]dto.PurchaseItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dto.PurchaseItemResponse{
			ID:          it.ID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			Price:       it.Price,
			Amount:      it.Amount,
			Received:    it.Received,
			ReceivedAt:  it.ReceivedAt,
		})
	}
	return &dto.PurchaseOrderResponse{
		ID:           o.ID,
		OrderNo:      o.OrderNo,
		SupplierName: o.SupplierName,
		Items:        items,
		TotalAmount:  o.TotalAmount,
		Status:       string(o.Status),
		Creator:      o.Creator,
		Approver:     o.Approver,
		ApprovedAt:   o.ApprovedAt,
		ReceivedBy:   o.ReceivedBy,
		ReceivedAt:   o.ReceivedAt,
		Remark:       o.Remark,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}
