package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Restaurante-api/internal/application/availability"
	"github.com/jhoicas/Restaurante-api/internal/application/dto"
	"github.com/jhoicas/Restaurante-api/internal/domain"
)

// DishHandler responde consultas de disponibilidad y costo de platos. El
// catálogo de platos vive fuera de este servicio; el cliente envía los
// nombres de los insumos vinculados al plato.
type DishHandler struct {
	uc *availability.UseCase
}

// NewDishHandler construye el handler de platos.
func NewDishHandler(uc *availability.UseCase) *DishHandler {
	return &DishHandler{uc: uc}
}

// Availability godoc
// @Summary      Verificar si un plato puede publicarse
// @Description  Un plato se bloquea si alguno de sus insumos no existe o
//
//	tiene stock cero. Blocked lista los insumos que lo impiden.
//
// @Tags         dishes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DishAvailabilityRequest  true  "ingredients"
// @Success      200   {object}  dto.DishAvailabilityResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/dishes/availability [post]
func (h *DishHandler) Availability(c *fiber.Ctx) error {
	var in dto.DishAvailabilityRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.CanListDish(c.Context(), in)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "ingredients es requerido"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Cost godoc
// @Summary      Costo estimado de un plato
// @Description  Suma los precios unitarios actuales de los insumos. Cifra
//
//	indicativa: los insumos no resueltos se excluyen y se
//	reportan en missing.
//
// @Tags         dishes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DishAvailabilityRequest  true  "ingredients"
// @Success      200   {object}  dto.DishCostResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/dishes/cost [post]
func (h *DishHandler) Cost(c *fiber.Ctx) error {
	var in dto.DishAvailabilityRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.ComputeCost(c.Context(), in)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "ingredients es requerido"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
