package ledger_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Restaurante-api/internal/application/dto"
	"github.com/jhoicas/Restaurante-api/internal/application/ledger"
	"github.com/jhoicas/Restaurante-api/internal/domain"
	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/jhoicas/Restaurante-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria: emulan la disciplina transaccional del runner real.
// El mutex del runner serializa las transacciones (el equivalente del
// SELECT FOR UPDATE por fila) y un snapshot del estado emula el rollback.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu      sync.Mutex
	items   []*entity.StockItem
	entries []*entity.LedgerEntry

	failEntryCreate   bool // fuerza el fallo del INSERT del asiento
	duplicateOnCreate bool // emula perder la carrera del índice único de nombre
}

func newMemStore() *memStore { return &memStore{} }

func (s *memStore) snapshot() ([]*entity.StockItem, int) {
	items := make([]*entity.StockItem, len(s.items))
	for i, it := range s.items {
		cp := *it
		items[i] = &cp
	}
	return items, len(s.entries)
}

func (s *memStore) restore(items []*entity.StockItem, nEntries int) {
	s.items = items
	s.entries = s.entries[:nEntries]
}

func (s *memStore) findActiveByName(name string) *entity.StockItem {
	for _, it := range s.items {
		if it.Name == name && it.DeletedAt == nil {
			return it
		}
	}
	return nil
}

// memStockRepo opera sobre el store; el runner ya tiene tomado el mutex.
type memStockRepo struct{ store *memStore }

func (r *memStockRepo) Create(item *entity.StockItem) error {
	if r.store.duplicateOnCreate || r.store.findActiveByName(item.Name) != nil {
		return domain.ErrDuplicate
	}
	cp := *item
	r.store.items = append(r.store.items, &cp)
	return nil
}

func (r *memStockRepo) GetByID(id string) (*entity.StockItem, error) {
	for _, it := range r.store.items {
		if it.ID == id && it.DeletedAt == nil {
			cp := *it
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memStockRepo) GetByName(name string) (*entity.StockItem, error) {
	if it := r.store.findActiveByName(name); it != nil {
		cp := *it
		return &cp, nil
	}
	return nil, nil
}

func (r *memStockRepo) GetForUpdate(name string) (*entity.StockItem, error) {
	// Prefiere el ítem activo; si solo hay uno eliminado lo devuelve para
	// que el caso de uso distinga AlreadyDeleted de NotFound.
	if it := r.store.findActiveByName(name); it != nil {
		cp := *it
		return &cp, nil
	}
	for _, it := range r.store.items {
		if it.Name == name {
			cp := *it
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memStockRepo) UpdateQuantityPrice(id string, quantity, unitPrice decimal.Decimal, updatedAt time.Time) error {
	for _, it := range r.store.items {
		if it.ID == id {
			it.Quantity = quantity
			it.UnitPrice = unitPrice
			it.UpdatedAt = updatedAt
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *memStockRepo) Update(item *entity.StockItem) error {
	for i, it := range r.store.items {
		if it.ID == item.ID {
			cp := *item
			r.store.items[i] = &cp
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *memStockRepo) List(filter repository.StockItemFilter) ([]*entity.StockItem, int, error) {
	var out []*entity.StockItem
	for _, it := range r.store.items {
		if it.DeletedAt != nil {
			continue
		}
		if filter.Name != "" && !strings.Contains(it.Name, filter.Name) {
			continue
		}
		cp := *it
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (r *memStockRepo) SoftDelete(id string, deletedAt time.Time) error {
	for _, it := range r.store.items {
		if it.ID == id && it.DeletedAt == nil {
			d := deletedAt
			it.DeletedAt = &d
			return nil
		}
	}
	return domain.ErrNotFound
}

type memEntryRepo struct{ store *memStore }

func (r *memEntryRepo) Create(entry *entity.LedgerEntry) error {
	if r.store.failEntryCreate {
		return assert.AnError
	}
	cp := *entry
	r.store.entries = append(r.store.entries, &cp)
	return nil
}

func (r *memEntryRepo) List(filter repository.LedgerEntryFilter) ([]*entity.LedgerEntry, int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.LedgerEntry
	for _, e := range r.store.entries {
		if filter.ProductName != "" && e.ProductName != filter.ProductName {
			continue
		}
		if filter.ChangeType != "" && e.ChangeType != filter.ChangeType {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	total := len(out)
	if filter.Offset > len(out) {
		return nil, total, nil
	}
	out = out[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, total, nil
}

type memTxRunner struct{ store *memStore }

func (r *memTxRunner) Run(_ context.Context, fn func(
	stockRepo repository.StockItemRepository,
	entryRepo repository.LedgerEntryRepository,
) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	items, nEntries := r.store.snapshot()
	if err := fn(&memStockRepo{store: r.store}, &memEntryRepo{store: r.store}); err != nil {
		r.store.restore(items, nEntries)
		return err
	}
	return nil
}

func newUseCase() (*ledger.UseCase, *memStore) {
	store := newMemStore()
	uc := ledger.New(&memTxRunner{store: store}, &memEntryRepo{store: store})
	return uc, store
}

func seedItem(store *memStore, name string, qty, price string) *entity.StockItem {
	item := &entity.StockItem{
		ID:        uuid.New().String(),
		Name:      name,
		Unit:      "kg",
		Quantity:  dec(qty),
		UnitPrice: dec(price),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	store.items = append(store.items, item)
	return item
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr(d decimal.Decimal) *decimal.Decimal { return &d }

// ──────────────────────────────────────────────────────────────────────────────
// ApplyDelta
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyDelta_EntradaConAltaDeProducto(t *testing.T) {
	uc, store := newUseCase()

	entry, err := uc.ApplyDelta(context.Background(), ledger.ApplyDeltaInput{
		ProductName:   "harina",
		Quantity:      dec("50"),
		ChangeType:    entity.ChangeTypePurchase,
		UnitPrice:     ptr(dec("5.5")),
		RefNo:         "CG20260830120000AAAAAAAA",
		Operator:      "comprador-1",
		CreateMissing: true,
		Unit:          "kg",
	})
	require.NoError(t, err)

	assert.True(t, entry.QuantityBefore.IsZero(), "el producto nace con cantidad cero")
	assert.True(t, dec("50").Equal(entry.QuantityAfter))
	assert.True(t, dec("5.5").Equal(entry.UnitPriceAtTime))

	item := store.findActiveByName("harina")
	require.NotNil(t, item)
	assert.True(t, dec("50").Equal(item.Quantity))
	assert.True(t, dec("5.5").Equal(item.UnitPrice))
	assert.Len(t, store.entries, 1)
}

func TestApplyDelta_SalidaEncadenaBeforeAfter(t *testing.T) {
	uc, store := newUseCase()
	seedItem(store, "harina", "50", "5.5")

	entry, err := uc.ApplyDelta(context.Background(), ledger.ApplyDeltaInput{
		ProductName: "harina",
		Quantity:    dec("-20"),
		ChangeType:  entity.ChangeTypeOrderConsume,
		RefNo:       "pedido-77",
		Operator:    "cocinero-1",
	})
	require.NoError(t, err)

	assert.True(t, dec("50").Equal(entry.QuantityBefore))
	assert.True(t, dec("30").Equal(entry.QuantityAfter))
	assert.True(t, dec("5.5").Equal(entry.UnitPriceAtTime),
		"una salida asienta el precio vigente del ítem")
	assert.True(t, dec("30").Equal(store.findActiveByName("harina").Quantity))
}

func TestApplyDelta_StockInsuficiente_NoCambiaNada(t *testing.T) {
	uc, store := newUseCase()
	seedItem(store, "azúcar", "3", "2")

	_, err := uc.ApplyDelta(context.Background(), ledger.ApplyDeltaInput{
		ProductName: "azúcar",
		Quantity:    dec("-5"),
		ChangeType:  entity.ChangeTypeLoss,
		Reason:      "vencido",
		Operator:    "cocinero-1",
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.True(t, dec("3").Equal(store.findActiveByName("azúcar").Quantity),
		"la cantidad no debe recortarse en silencio")
	assert.Empty(t, store.entries, "un delta rechazado no deja asiento")
}

func TestApplyDelta_ProductoInexistente_NotFound(t *testing.T) {
	uc, _ := newUseCase()

	_, err := uc.ApplyDelta(context.Background(), ledger.ApplyDeltaInput{
		ProductName: "trufa",
		Quantity:    dec("-1"),
		ChangeType:  entity.ChangeTypeOrderConsume,
		Operator:    "cocinero-1",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApplyDelta_ProductoEliminado_AlreadyDeleted(t *testing.T) {
	uc, store := newUseCase()
	item := seedItem(store, "aceite", "10", "8")
	now := time.Now()
	item.DeletedAt = &now

	_, err := uc.ApplyDelta(context.Background(), ledger.ApplyDeltaInput{
		ProductName: "aceite",
		Quantity:    dec("-1"),
		ChangeType:  entity.ChangeTypeManualAdjust,
		Reason:      "conteo",
		Operator:    "admin-1",
	})
	assert.ErrorIs(t, err, domain.ErrAlreadyDeleted,
		"un ítem eliminado se reporta distinto a uno inexistente")
}

func TestApplyDelta_AltaSimultaneaDelMismoProducto_Conflicto(t *testing.T) {
	uc, store := newUseCase()
	store.duplicateOnCreate = true

	_, err := uc.ApplyDelta(context.Background(), ledger.ApplyDeltaInput{
		ProductName:   "harina",
		Quantity:      dec("50"),
		ChangeType:    entity.ChangeTypePurchase,
		UnitPrice:     ptr(dec("5.5")),
		RefNo:         "CG20260830120000AAAAAAAA",
		Operator:      "comprador-1",
		CreateMissing: true,
		Unit:          "kg",
	})
	assert.ErrorIs(t, err, domain.ErrConflict,
		"perder la carrera del alta es un conflicto reintentable, no un duplicado")
	assert.Empty(t, store.entries)
}

func TestApplyDelta_FalloDelAsiento_RevierteCantidad(t *testing.T) {
	uc, store := newUseCase()
	seedItem(store, "harina", "50", "5.5")
	store.failEntryCreate = true

	_, err := uc.ApplyDelta(context.Background(), ledger.ApplyDeltaInput{
		ProductName: "harina",
		Quantity:    dec("-10"),
		ChangeType:  entity.ChangeTypeLoss,
		Reason:      "derrame",
		Operator:    "cocinero-1",
	})
	require.Error(t, err)

	// Cantidad y asiento se confirman juntos o ninguno.
	assert.True(t, dec("50").Equal(store.findActiveByName("harina").Quantity),
		"si el asiento no se escribe, la cantidad tampoco")
	assert.Empty(t, store.entries)
}

func TestApplyDelta_EntradaConPrecio_RecalculaPromedio(t *testing.T) {
	uc, store := newUseCase()
	seedItem(store, "arroz", "10", "4")

	entry, err := uc.ApplyDelta(context.Background(), ledger.ApplyDeltaInput{
		ProductName: "arroz",
		Quantity:    dec("10"),
		ChangeType:  entity.ChangeTypePurchase,
		UnitPrice:   ptr(dec("6")),
		Operator:    "comprador-1",
	})
	require.NoError(t, err)

	assert.True(t, dec("6").Equal(entry.UnitPriceAtTime),
		"el asiento lleva el precio de la entrada")
	item := store.findActiveByName("arroz")
	assert.True(t, dec("5").Equal(item.UnitPrice),
		"el ítem queda con costo promedio ponderado: esperaba 5, obtuve %s", item.UnitPrice)
	assert.True(t, dec("20").Equal(item.Quantity))
}

func TestApplyDelta_Validacion(t *testing.T) {
	uc, store := newUseCase()
	seedItem(store, "sal", "10", "1")

	cases := []struct {
		name string
		in   ledger.ApplyDeltaInput
	}{
		{"cantidad cero", ledger.ApplyDeltaInput{
			ProductName: "sal", Quantity: dec("0"), ChangeType: entity.ChangeTypeManualAdjust,
		}},
		{"sin producto", ledger.ApplyDeltaInput{
			Quantity: dec("1"), ChangeType: entity.ChangeTypeManualAdjust,
		}},
		{"tipo de cambio desconocido", ledger.ApplyDeltaInput{
			ProductName: "sal", Quantity: dec("1"), ChangeType: "transferencia",
		}},
		{"precio negativo", ledger.ApplyDeltaInput{
			ProductName: "sal", Quantity: dec("1"), ChangeType: entity.ChangeTypePurchase,
			UnitPrice: ptr(dec("-1")),
		}},
		{"alta sin precio", ledger.ApplyDeltaInput{
			ProductName: "nuevo", Quantity: dec("1"), ChangeType: entity.ChangeTypePurchase,
			CreateMissing: true,
		}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := uc.ApplyDelta(context.Background(), c.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Empty(t, store.entries)
}

// N escritores concurrentes sobre el mismo producto: la cantidad final es la
// suma de los deltas y los asientos forman una cadena sin huecos
// (QuantityBefore de cada uno = QuantityAfter del anterior).
func TestApplyDelta_ConcurrenciaSerializada(t *testing.T) {
	uc, store := newUseCase()
	seedItem(store, "harina", "100", "5")

	const n = 40
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		delta := dec("1")
		changeType := entity.ChangeTypeManualAdjust
		if i%2 == 0 {
			delta = dec("-1")
		}
		go func(d decimal.Decimal) {
			defer wg.Done()
			_, err := uc.ApplyDelta(context.Background(), ledger.ApplyDeltaInput{
				ProductName: "harina",
				Quantity:    d,
				ChangeType:  changeType,
				Reason:      "conteo",
				Operator:    "admin-1",
			})
			assert.NoError(t, err)
		}(delta)
	}
	wg.Wait()

	// 20 deltas de +1 y 20 de -1 sobre 100
	assert.True(t, dec("100").Equal(store.findActiveByName("harina").Quantity))
	require.Len(t, store.entries, n)

	for i := 1; i < len(store.entries); i++ {
		prev, cur := store.entries[i-1], store.entries[i]
		assert.True(t, prev.QuantityAfter.Equal(cur.QuantityBefore),
			"asiento %d: before %s no encadena con after %s", i, cur.QuantityBefore, prev.QuantityAfter)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// ListHistory
// ──────────────────────────────────────────────────────────────────────────────

func TestListHistory_FiltraPorProductoYTipo(t *testing.T) {
	uc, store := newUseCase()
	seedItem(store, "harina", "100", "5")
	seedItem(store, "azúcar", "100", "2")

	mustDelta := func(product, changeType, qty string) {
		t.Helper()
		_, err := uc.ApplyDelta(context.Background(), ledger.ApplyDeltaInput{
			ProductName: product,
			Quantity:    dec(qty),
			ChangeType:  changeType,
			Reason:      "test",
			Operator:    "admin-1",
		})
		require.NoError(t, err)
	}
	mustDelta("harina", entity.ChangeTypeLoss, "-5")
	mustDelta("harina", entity.ChangeTypeManualAdjust, "2")
	mustDelta("azúcar", entity.ChangeTypeLoss, "-1")

	entries, total, err := uc.ListHistory(context.Background(), dto.ListHistoryRequest{
		ProductName: "harina",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, entries, 2)

	entries, total, err = uc.ListHistory(context.Background(), dto.ListHistoryRequest{
		ChangeType: entity.ChangeTypeLoss,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	for _, e := range entries {
		assert.Equal(t, entity.ChangeTypeLoss, e.ChangeType)
	}
}

func TestListHistory_TipoInvalido(t *testing.T) {
	uc, _ := newUseCase()
	_, _, err := uc.ListHistory(context.Background(), dto.ListHistoryRequest{
		ChangeType: "transferencia",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
