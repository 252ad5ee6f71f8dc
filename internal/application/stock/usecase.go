package stock

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Restaurante-api/internal/application/dto"
	"github.com/jhoicas/Restaurante-api/internal/domain"
	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	domledger "github.com/jhoicas/Restaurante-api/internal/domain/ledger"
	"github.com/jhoicas/Restaurante-api/internal/domain/repository"
)

// UseCase CRUD de ítems de stock. Solo metadatos: la cantidad se modifica
// únicamente a través del motor del libro (ApplyDelta), nunca por edición
// directa.
type UseCase struct {
	repo repository.StockItemRepository
}

// New construye el caso de uso.
func New(repo repository.StockItemRepository) *UseCase {
	return &UseCase{repo: repo}
}

// Create da de alta un producto con cantidad cero. Nombre único entre activos.
func (uc *UseCase) Create(ctx context.Context, in dto.CreateStockItemRequest) (*dto.StockItemResponse, error) {
	_ = ctx
	if in.Name == "" || in.UnitPrice.IsNegative() || in.LowStockThreshold.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetByName(in.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	item := &entity.StockItem{
		ID:                uuid.New().String(),
		Name:              in.Name,
		Unit:              in.Unit,
		UnitPrice:         in.UnitPrice,
		LowStockThreshold: in.LowStockThreshold,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.repo.Create(item); err != nil {
		return nil, err
	}
	return toStockResponse(item), nil
}

// GetByID obtiene un ítem por ID.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*dto.StockItemResponse, error) {
	_ = ctx
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return toStockResponse(item), nil
}

// Update modifica metadatos (nombre, unidad, precio, umbral). No permite
// tocar Quantity: eso es del libro.
func (uc *UseCase) Update(ctx context.Context, id string, in dto.UpdateStockItemRequest) (*dto.StockItemResponse, error) {
	_ = ctx
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil && *in.Name != item.Name {
		if *in.Name == "" {
			return nil, domain.ErrInvalidInput
		}
		other, err := uc.repo.GetByName(*in.Name)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != item.ID {
			return nil, domain.ErrDuplicate
		}
		item.Name = *in.Name
	}
	if in.Unit != nil {
		item.Unit = *in.Unit
	}
	if in.UnitPrice != nil {
		if in.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		item.UnitPrice = *in.UnitPrice
	}
	if in.LowStockThreshold != nil {
		if in.LowStockThreshold.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		item.LowStockThreshold = *in.LowStockThreshold
	}
	item.UpdatedAt = time.Now()
	if err := uc.repo.Update(item); err != nil {
		return nil, err
	}
	return toStockResponse(item), nil
}

// List consulta el stock actual: subcadena de nombre y estado all|low
// (low incluye agotados). Cada fila lleva estado y valor total derivados.
func (uc *UseCase) List(ctx context.Context, in dto.ListStockRequest) ([]dto.StockItemResponse, int, error) {
	_ = ctx
	switch in.Status {
	case "", "all", domledger.StatusLow:
	default:
		return nil, 0, domain.ErrInvalidInput
	}
	in.DefaultPage()
	items, total, err := uc.repo.List(repository.StockItemFilter{
		Name:   in.Name,
		Status: in.Status,
		Limit:  in.Limit,
		Offset: in.Offset,
	})
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.StockItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, *toStockResponse(it))
	}
	return out, total, nil
}

// Delete elimina lógicamente el ítem; deja de resolver para el libro y para
// la disponibilidad de platos.
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	_ = ctx
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	return uc.repo.SoftDelete(id, time.Now())
}

func toStockResponse(it *entity.StockItem) *dto.StockItemResponse {
	return &dto.StockItemResponse{
		ID:                it.ID,
		Name:              it.Name,
		Unit:              it.Unit,
		Quantity:          it.Quantity,
		UnitPrice:         it.UnitPrice,
		LowStockThreshold: it.LowStockThreshold,
		Status:            domledger.StockStatus(it.Quantity, it.LowStockThreshold),
		TotalValue:        domledger.TotalValue(it.Quantity, it.UnitPrice),
		CreatedAt:         it.CreatedAt,
		UpdatedAt:         it.UpdatedAt,
	}
}
