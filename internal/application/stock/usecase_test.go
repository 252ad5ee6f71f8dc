package stock_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Restaurante-api/internal/application/dto"
	"github.com/jhoicas/Restaurante-api/internal/application/stock"
	"github.com/jhoicas/Restaurante-api/internal/domain"
	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	domledger "github.com/jhoicas/Restaurante-api/internal/domain/ledger"
	"github.com/jhoicas/Restaurante-api/internal/domain/repository"
)

// fakeStockRepo repositorio en memoria para el CRUD de insumos.
type fakeStockRepo struct {
	items []*entity.StockItem
}

func (r *fakeStockRepo) Create(item *entity.StockItem) error {
	cp := *item
	r.items = append(r.items, &cp)
	return nil
}

func (r *fakeStockRepo) GetByID(id string) (*entity.StockItem, error) {
	for _, it := range r.items {
		if it.ID == id && it.DeletedAt == nil {
			cp := *it
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeStockRepo) GetByName(name string) (*entity.StockItem, error) {
	for _, it := range r.items {
		if it.Name == name && it.DeletedAt == nil {
			cp := *it
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeStockRepo) GetForUpdate(name string) (*entity.StockItem, error) {
	return r.GetByName(name)
}

func (r *fakeStockRepo) UpdateQuantityPrice(string, decimal.Decimal, decimal.Decimal, time.Time) error {
	return nil
}

func (r *fakeStockRepo) Update(item *entity.StockItem) error {
	for i, it := range r.items {
		if it.ID == item.ID {
			cp := *item
			r.items[i] = &cp
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeStockRepo) List(filter repository.StockItemFilter) ([]*entity.StockItem, int, error) {
	var out []*entity.StockItem
	for _, it := range r.items {
		if it.DeletedAt != nil {
			continue
		}
		if filter.Name != "" && !strings.Contains(it.Name, filter.Name) {
			continue
		}
		if filter.Status == domledger.StatusLow {
			low := it.Quantity.IsZero() ||
				(it.LowStockThreshold.GreaterThan(decimal.Zero) && it.Quantity.LessThanOrEqual(it.LowStockThreshold))
			if !low {
				continue
			}
		}
		cp := *it
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (r *fakeStockRepo) SoftDelete(id string, deletedAt time.Time) error {
	for _, it := range r.items {
		if it.ID == id && it.DeletedAt == nil {
			d := deletedAt
			it.DeletedAt = &d
			return nil
		}
	}
	return domain.ErrNotFound
}

func newUseCase() (*stock.UseCase, *fakeStockRepo) {
	repo := &fakeStockRepo{}
	return stock.New(repo), repo
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCreate_ProductoNaceSinStock(t *testing.T) {
	uc, _ := newUseCase()

	item, err := uc.Create(context.Background(), dto.CreateStockItemRequest{
		Name:              "harina",
		Unit:              "kg",
		UnitPrice:         dec("5.5"),
		LowStockThreshold: dec("10"),
	})
	require.NoError(t, err)

	assert.True(t, item.Quantity.IsZero(), "la cantidad inicial siempre es cero: el stock entra por el libro")
	assert.Equal(t, domledger.StatusOut, item.Status)
	assert.True(t, item.TotalValue.IsZero())
}

func TestCreate_NombreDuplicado(t *testing.T) {
	uc, _ := newUseCase()
	_, err := uc.Create(context.Background(), dto.CreateStockItemRequest{Name: "harina", UnitPrice: dec("5")})
	require.NoError(t, err)

	_, err = uc.Create(context.Background(), dto.CreateStockItemRequest{Name: "harina", UnitPrice: dec("6")})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCreate_Validacion(t *testing.T) {
	uc, _ := newUseCase()
	_, err := uc.Create(context.Background(), dto.CreateStockItemRequest{UnitPrice: dec("5")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "nombre requerido")

	_, err = uc.Create(context.Background(), dto.CreateStockItemRequest{Name: "x", UnitPrice: dec("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "precio negativo")
}

func TestUpdate_SoloMetadatos(t *testing.T) {
	uc, repo := newUseCase()
	created, err := uc.Create(context.Background(), dto.CreateStockItemRequest{
		Name: "harina", Unit: "kg", UnitPrice: dec("5"),
	})
	require.NoError(t, err)

	newName := "harina 000"
	threshold := dec("20")
	got, err := uc.Update(context.Background(), created.ID, dto.UpdateStockItemRequest{
		Name:              &newName,
		LowStockThreshold: &threshold,
	})
	require.NoError(t, err)
	assert.Equal(t, "harina 000", got.Name)
	assert.True(t, dec("20").Equal(got.LowStockThreshold))

	stored, _ := repo.GetByID(created.ID)
	assert.True(t, stored.Quantity.IsZero(), "Update jamás toca la cantidad")
}

func TestUpdate_RenombreADuplicado(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()
	_, err := uc.Create(ctx, dto.CreateStockItemRequest{Name: "harina", UnitPrice: dec("5")})
	require.NoError(t, err)
	b, err := uc.Create(ctx, dto.CreateStockItemRequest{Name: "azúcar", UnitPrice: dec("2")})
	require.NoError(t, err)

	name := "harina"
	_, err = uc.Update(ctx, b.ID, dto.UpdateStockItemRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestList_FiltroLowIncluyeAgotados(t *testing.T) {
	uc, repo := newUseCase()
	now := time.Now()
	repo.items = []*entity.StockItem{
		{ID: "1", Name: "harina", Quantity: dec("50"), LowStockThreshold: dec("10"), CreatedAt: now, UpdatedAt: now},
		{ID: "2", Name: "azúcar", Quantity: dec("5"), LowStockThreshold: dec("10"), CreatedAt: now, UpdatedAt: now},
		{ID: "3", Name: "sal", Quantity: dec("0"), CreatedAt: now, UpdatedAt: now},
	}

	items, total, err := uc.List(context.Background(), dto.ListStockRequest{Status: "low"})
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	statuses := map[string]string{}
	for _, it := range items {
		statuses[it.Name] = it.Status
	}
	assert.Equal(t, domledger.StatusLow, statuses["azúcar"])
	assert.Equal(t, domledger.StatusOut, statuses["sal"])
}

func TestList_EstadoInvalido(t *testing.T) {
	uc, _ := newUseCase()
	_, _, err := uc.List(context.Background(), dto.ListStockRequest{Status: "agotado"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDelete_YNotFound(t *testing.T) {
	uc, _ := newUseCase()
	created, err := uc.Create(context.Background(), dto.CreateStockItemRequest{Name: "harina", UnitPrice: dec("5")})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(context.Background(), created.ID))

	_, err = uc.GetByID(context.Background(), created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "un ítem eliminado no se consulta")

	assert.ErrorIs(t, uc.Delete(context.Background(), created.ID), domain.ErrNotFound)
}
