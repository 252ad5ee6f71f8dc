package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Restaurante-api/internal/application/dto"
	"github.com/jhoicas/Restaurante-api/internal/application/ledger"
	"github.com/jhoicas/Restaurante-api/internal/application/stock"
	"github.com/jhoicas/Restaurante-api/internal/domain"
	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
)

// StockHandler maneja el catálogo de insumos y los movimientos del libro.
type StockHandler struct {
	stockUC  *stock.UseCase
	ledgerUC *ledger.UseCase
}

// NewStockHandler construye el handler de stock.
func NewStockHandler(stockUC *stock.UseCase, ledgerUC *ledger.UseCase) *StockHandler {
	return &StockHandler{stockUC: stockUC, ledgerUC: ledgerUC}
}

// Create godoc
// @Summary      Crear insumo
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockItemRequest  true  "name, unit, unit_price, low_stock_threshold"
// @Success      201   {object}  dto.StockItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock [post]
func (h *StockHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateStockItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	item, err := h.stockUC.Create(c.Context(), in)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		if err == domain.ErrDuplicate {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "ya existe un insumo con ese nombre"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// List godoc
// @Summary      Listar insumos con estado de stock
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        name    query  string  false  "filtro por nombre (substring)"
// @Param        status  query  string  false  "all | low"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	var in dto.ListStockRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	items, total, err := h.stockUC.List(c.Context(), in)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "status debe ser all o low"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{
		"items": items,
		"page":  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	})
}

// GetByID godoc
// @Summary      Detalle de un insumo
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "UUID del insumo"
// @Success      200  {object}  dto.StockItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{id} [get]
func (h *StockHandler) GetByID(c *fiber.Ctx) error {
	item, err := h.stockUC.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "insumo no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(item)
}

// Update godoc
// @Summary      Actualizar metadatos de un insumo
// @Description  Solo metadatos (nombre, unidad, precio de referencia, umbral).
//
//	La cantidad se modifica únicamente vía movimientos del libro.
//
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "UUID del insumo"
// @Param        body  body  dto.UpdateStockItemRequest  true  "campos opcionales"
// @Success      200   {object}  dto.StockItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/{id} [put]
func (h *StockHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateStockItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	item, err := h.stockUC.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "insumo no encontrado"})
		}
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		if err == domain.ErrDuplicate {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "ya existe un insumo con ese nombre"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(item)
}

// Delete godoc
// @Summary      Eliminar (soft-delete) un insumo
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "UUID del insumo"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{id} [delete]
func (h *StockHandler) Delete(c *fiber.Ctx) error {
	if err := h.stockUC.Delete(c.Context(), c.Params("id")); err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "insumo no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"message": "insumo eliminado"})
}

// Adjust godoc
// @Summary      Ajuste manual de stock
// @Description  Aplica un delta con signo (conteo físico, corrección). Queda
//
//	asentado en el libro como manual_adjust.
//
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ApplyDeltaRequest  true  "product_name, quantity con signo, reason"
// @Success      201   {object}  dto.LedgerEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/adjust [post]
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	return h.applyDelta(c, entity.ChangeTypeManualAdjust)
}

// Consume godoc
// @Summary      Consumo de insumos por pedido
// @Description  Descuenta insumos al despachar un pedido de cocina. Queda
//
//	asentado en el libro como order_consume.
//
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ApplyDeltaRequest  true  "product_name, quantity negativa, ref_no del pedido"
// @Success      201   {object}  dto.LedgerEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/consume [post]
func (h *StockHandler) Consume(c *fiber.Ctx) error {
	return h.applyDelta(c, entity.ChangeTypeOrderConsume)
}

func (h *StockHandler) applyDelta(c *fiber.Ctx, changeType string) error {
	var in dto.ApplyDeltaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	entry, err := h.ledgerUC.ApplyDelta(c.Context(), ledger.ApplyDeltaInput{
		ProductName: in.ProductName,
		Quantity:    in.Quantity,
		ChangeType:  changeType,
		RefNo:       in.RefNo,
		Reason:      in.Reason,
		Operator:    GetUserID(c),
	})
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "insumo no encontrado"})
		}
		if err == domain.ErrAlreadyDeleted {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_DELETED", Message: "el insumo fue eliminado"})
		}
		if err == domain.ErrInsufficientStock {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(toLedgerEntryResponse(entry))
}

// History godoc
// @Summary      Historial del libro de movimientos
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_name  query  string  false  "filtro exacto por producto"
// @Param        change_type   query  string  false  "purchase | loss | manual_adjust | order_consume"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/history [get]
func (h *StockHandler) History(c *fiber.Ctx) error {
	var in dto.ListHistoryRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	entries, total, err := h.ledgerUC.ListHistory(c.Context(), in)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "change_type inválido"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{
		"entries": entries,
		"page":    dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	})
}

func toLedgerEntryResponse(e *entity.LedgerEntry) dto.LedgerEntryResponse {
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
