package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
)

// StockItemFilter filtros para el listado de stock.
type StockItemFilter struct {
	Name   string // subcadena del nombre
	Status string // "" | "all" | "low" (low incluye out)
	Limit  int
	Offset int
}

// StockItemRepository define el puerto de persistencia para StockItem.
// Get/GetByName solo ven ítems activos; GetForUpdate puede devolver un ítem
// eliminado (prefiriendo el activo) para que el caso de uso distinga
// NotFound de AlreadyDeleted, y bloquea la fila (SELECT FOR UPDATE).
type StockItemRepository interface {
	Create(item *entity.StockItem) error
	GetByID(id string) (*entity.StockItem, error)
	GetByName(name string) (*entity.StockItem, error)
	GetForUpdate(name string) (*entity.StockItem, error)
	// UpdateQuantityPrice escribe la nueva cantidad y el precio unitario
	// vigente; solo el motor del libro la usa.
	UpdateQuantityPrice(id string, quantity, unitPrice decimal.Decimal, updatedAt time.Time) error
	Update(item *entity.StockItem) error
	List(filter StockItemFilter) ([]*entity.StockItem, int, error)
	SoftDelete(id string, deletedAt time.Time) error
}
