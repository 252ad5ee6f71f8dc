package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Restaurante-api/internal/application/dto"
	"github.com/jhoicas/Restaurante-api/internal/application/loss"
	"github.com/jhoicas/Restaurante-api/internal/domain"
)

// LossHandler maneja el registro de mermas.
type LossHandler struct {
	uc *loss.UseCase
}

// NewLossHandler construye el handler de mermas.
func NewLossHandler(uc *loss.UseCase) *LossHandler {
	return &LossHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar merma
// @Description  Descuenta el stock y asienta el movimiento en el libro en la
//
//	misma transacción. El precio se toma del ítem al momento.
//
// @Tags         losses
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLossRequest  true  "product_name, quantity positiva, reason"
// @Success      201   {object}  dto.LossRecordResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/losses [post]
func (h *LossHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateLossRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	rec, err := h.uc.Record(c.Context(), in, GetUserID(c))
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
	return c.Status(fiber.StatusCreated).JSON(rec)
}

// List godoc
// @Summary      Listar mermas
// @Tags         losses
// @Security     Bearer
// @Produce      json
// @Param        product_name  query  string  false  "filtro exacto por producto"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/losses [get]
func (h *LossHandler) List(c *fiber.Ctx) error {
	var in dto.ListLossesRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	records, total, err := h.uc.List(c.Context(), in)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{
		"losses": records,
		"page":   dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	})
}

// Delete godoc
// @Summary      Eliminar (soft-delete) una merma
// @Description  Oculta el registro del listado; el asiento del libro y el
//
//	descuento de stock ya aplicado no se revierten.
//
// @Tags         losses
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "UUID de la merma"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/losses/{id} [delete]
func (h *LossHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "merma no encontrada"})
		}
		if err == domain.ErrAlreadyDeleted {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_DELETED", Message: "la merma ya fue eliminada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"message": "merma eliminada"})
}
