package availability_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Restaurante-api/internal/application/availability"
	"github.com/jhoicas/Restaurante-api/internal/application/dto"
	"github.com/jhoicas/Restaurante-api/internal/domain"
	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/jhoicas/Restaurante-api/internal/domain/repository"
)

// fakeStockRepo repositorio de solo lectura para la política de platos.
type fakeStockRepo struct {
	items map[string]*entity.StockItem
}

func (r *fakeStockRepo) Create(*entity.StockItem) error              { return nil }
func (r *fakeStockRepo) GetByID(string) (*entity.StockItem, error)   { return nil, nil }
func (r *fakeStockRepo) GetForUpdate(string) (*entity.StockItem, error) {
	return nil, nil
}

func (r *fakeStockRepo) GetByName(name string) (*entity.StockItem, error) {
	if it, ok := r.items[name]; ok {
		cp := *it
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeStockRepo) UpdateQuantityPrice(string, decimal.Decimal, decimal.Decimal, time.Time) error {
	return nil
}
func (r *fakeStockRepo) Update(*entity.StockItem) error { return nil }
func (r *fakeStockRepo) List(repository.StockItemFilter) ([]*entity.StockItem, int, error) {
	return nil, 0, nil
}
func (r *fakeStockRepo) SoftDelete(string, time.Time) error { return nil }

func newUseCase() (*availability.UseCase, *fakeStockRepo) {
	repo := &fakeStockRepo{items: map[string]*entity.StockItem{}}
	return availability.New(repo), repo
}

func (r *fakeStockRepo) seed(name string, qty, price string) {
	r.items[name] = &entity.StockItem{
		ID:        uuid.New().String(),
		Name:      name,
		Quantity:  decimal.RequireFromString(qty),
		UnitPrice: decimal.RequireFromString(price),
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCanListDish_TodosConStock_Permitido(t *testing.T) {
	uc, repo := newUseCase()
	repo.seed("harina", "10", "5")
	repo.seed("tomate", "3", "2")

	out, err := uc.CanListDish(context.Background(), dto.DishAvailabilityRequest{
		DishName:    "pizza",
		Ingredients: []string{"harina", "tomate"},
	})
	require.NoError(t, err)
	assert.True(t, out.Allowed)
	assert.Empty(t, out.Blocked)
}

// Escenario clásico: un insumo agotado bloquea el plato; repuesto el stock,
// el plato vuelve a estar disponible.
func TestCanListDish_InsumoAgotadoBloqueaYSeDesbloquea(t *testing.T) {
	uc, repo := newUseCase()
	repo.seed("harina", "10", "5")
	repo.seed("tomate", "0", "2")

	out, err := uc.CanListDish(context.Background(), dto.DishAvailabilityRequest{
		Ingredients: []string{"harina", "tomate"},
	})
	require.NoError(t, err)
	assert.False(t, out.Allowed)
	assert.Equal(t, []string{"tomate"}, out.Blocked)

	repo.seed("tomate", "5", "2")
	out, err = uc.CanListDish(context.Background(), dto.DishAvailabilityRequest{
		Ingredients: []string{"harina", "tomate"},
	})
	require.NoError(t, err)
	assert.True(t, out.Allowed)
}

func TestCanListDish_InsumoInexistenteBloqueaIgualQueAgotado(t *testing.T) {
	uc, repo := newUseCase()
	repo.seed("harina", "10", "5")

	out, err := uc.CanListDish(context.Background(), dto.DishAvailabilityRequest{
		Ingredients: []string{"harina", "trufa"},
	})
	require.NoError(t, err)
	assert.False(t, out.Allowed)
	assert.Equal(t, []string{"trufa"}, out.Blocked)
}

func TestCanListDish_SinIngredientes(t *testing.T) {
	uc, _ := newUseCase()
	_, err := uc.CanListDish(context.Background(), dto.DishAvailabilityRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestComputeCost_SumaPreciosVigentes(t *testing.T) {
	uc, repo := newUseCase()
	repo.seed("harina", "10", "5.5")
	repo.seed("tomate", "3", "2")

	out, err := uc.ComputeCost(context.Background(), dto.DishAvailabilityRequest{
		Ingredients: []string{"harina", "tomate"},
	})
	require.NoError(t, err)
	assert.True(t, dec("7.5").Equal(out.Cost))
	assert.Empty(t, out.Missing)
}

// A diferencia de la disponibilidad, el costo no se bloquea: excluye el
// insumo no resuelto y lo reporta para que el caller sepa que es parcial.
func TestComputeCost_InsumoNoResueltoSeExcluyeYReporta(t *testing.T) {
	uc, repo := newUseCase()
	repo.seed("harina", "10", "5.5")

	out, err := uc.ComputeCost(context.Background(), dto.DishAvailabilityRequest{
		Ingredients: []string{"harina", "trufa"},
	})
	require.NoError(t, err)
	assert.True(t, dec("5.5").Equal(out.Cost))
	assert.Equal(t, []string{"trufa"}, out.Missing)
}

func TestComputeCost_InsumoAgotadoIgualSuma(t *testing.T) {
	uc, repo := newUseCase()
	repo.seed("harina", "0", "5.5")

	out, err := uc.ComputeCost(context.Background(), dto.DishAvailabilityRequest{
		Ingredients: []string{"harina"},
	})
	require.NoError(t, err)
	assert.True(t, dec("5.5").Equal(out.Cost),
		"el costo usa el precio, no la existencia")
	assert.Empty(t, out.Missing)
}
