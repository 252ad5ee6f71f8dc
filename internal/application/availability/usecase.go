package availability

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Restaurante-api/internal/application/dto"
	"github.com/jhoicas/Restaurante-api/internal/domain"
	"github.com/jhoicas/Restaurante-api/internal/domain/repository"
)

// UseCase política de lado lectura consultada por el catálogo de platos:
// nunca escribe en el libro. Un plato solo puede publicarse si todos sus
// insumos existen y tienen stock; un insumo inexistente bloquea igual que
// uno agotado (un plato con costo desconocido no es confiable para la venta).
type UseCase struct {
	stockRepo repository.StockItemRepository
}

// New construye la política con el repositorio de stock (solo lectura).
func New(stockRepo repository.StockItemRepository) *UseCase {
	return &UseCase{stockRepo: stockRepo}
}

// CanListDish decide si el plato puede ofrecerse a la venta. Blocked nombra
// cada insumo agotado o inexistente.
func (uc *UseCase) CanListDish(ctx context.Context, in dto.DishAvailabilityRequest) (*dto.DishAvailabilityResponse, error) {
	_ = ctx
	if len(in.Ingredients) == 0 {
		return nil, domain.ErrInvalidInput
	}
	var blocked []string
	for _, name := range in.Ingredients {
		item, err := uc.stockRepo.GetByName(name)
		if err != nil {
			return nil, err
		}
		if item == nil || !item.Quantity.GreaterThan(decimal.Zero) {
			blocked = append(blocked, name)
		}
	}
	return &dto.DishAvailabilityResponse{
		Allowed: len(blocked) == 0,
		Blocked: blocked,
	}, nil
}

// ComputeCost suma el precio unitario vigente de los insumos del plato.
// Cifra indicativa para mostrar, no un registro contable: los insumos que no
// resuelven se excluyen de la suma y se devuelven en Missing para que el
// caller sepa que la cifra es parcial (el consumo por pedidos usa precios
// exactos del libro, no esta aproximación).
func (uc *UseCase) ComputeCost(ctx context.Context, in dto.DishAvailabilityRequest) (*dto.DishCostResponse, error) {
	_ = ctx
	if len(in.Ingredients) == 0 {
		return nil, domain.ErrInvalidInput
	}
	cost := decimal.Zero
	var missing []string
	for _, name := range in.Ingredients {
		item, err := uc.stockRepo.GetByName(name)
		if err != nil {
			return nil, err
		}
		if item == nil {
			missing = append(missing, name)
			continue
		}
		cost = cost.Add(item.UnitPrice)
	}
	return &dto.DishCostResponse{Cost: cost, Missing: missing}, nil
}
