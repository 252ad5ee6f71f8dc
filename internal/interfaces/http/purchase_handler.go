package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Restaurante-api/internal/application/dto"
	"github.com/jhoicas/Restaurante-api/internal/application/purchasing"
	"github.com/jhoicas/Restaurante-api/internal/domain"
)

// PurchaseHandler maneja el ciclo de vida de las órdenes de compra.
type PurchaseHandler struct {
	uc *purchasing.UseCase
}

// NewPurchaseHandler construye el handler de compras.
func NewPurchaseHandler(uc *purchasing.UseCase) *PurchaseHandler {
	return &PurchaseHandler{uc: uc}
}

// Create godoc
// @Summary      Crear orden de compra
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseOrderRequest  true  "supplier_name, items"
// @Success      201   {object}  dto.PurchaseOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/purchases [post]
func (h *PurchaseHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePurchaseOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, err := h.uc.Create(c.Context(), in, GetUserID(c))
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		if err == domain.ErrInvalidItems {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ITEMS", Message: "ítems inválidos: cantidad > 0 y precio >= 0"})
		}
		if err == domain.ErrConflict {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "no se pudo generar un número de orden único"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// List godoc
// @Summary      Listar órdenes de compra
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        status    query  string  false  "pending | approved | completed | cancelled"
// @Param        order_no  query  string  false  "filtro por número (substring)"
// @Param        supplier  query  string  false  "filtro por proveedor (substring)"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/purchases [get]
func (h *PurchaseHandler) List(c *fiber.Ctx) error {
	var in dto.ListPurchaseOrdersRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	orders, total, err := h.uc.List(c.Context(), in)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "status inválido"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{
		"orders": orders,
		"page":   dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	})
}

// GetByID godoc
// @Summary      Detalle de una orden de compra
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "UUID de la orden"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [get]
func (h *PurchaseHandler) GetByID(c *fiber.Ctx) error {
	order, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "orden no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(order)
}

// Approve godoc
// @Summary      Aprobar o rechazar una orden pendiente
// @Description  approve=true pasa la orden a approved; approve=false la
//
//	cancela. Solo órdenes en estado pending.
//
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                          true  "UUID de la orden"
// @Param        body  body  dto.ApprovePurchaseOrderRequest true  "approve, remark"
// @Success      200   {object}  dto.PurchaseOrderResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchases/{id}/approve [post]
func (h *PurchaseHandler) Approve(c *fiber.Ctx) error {
	var in dto.ApprovePurchaseOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, err := h.uc.Approve(c.Context(), c.Params("id"), in, GetUserID(c))
	if err != nil {
		return purchaseError(c, err)
	}
	return c.JSON(order)
}

// Receive godoc
// @Summary      Recibir mercancía de una orden aprobada
// @Description  Incrementa el stock de cada ítem, asienta los movimientos en
//
//	el libro y pasa la orden a completed. Es el único camino que
//	aumenta stock por compras. Reintentable: los ítems ya
//	recibidos no se duplican.
//
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                          true  "UUID de la orden"
// @Param        body  body  dto.ReceivePurchaseOrderRequest true  "remark opcional"
// @Success      200   {object}  dto.PurchaseOrderResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchases/{id}/receive [post]
func (h *PurchaseHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceivePurchaseOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, err := h.uc.Receive(c.Context(), c.Params("id"), in, GetUserID(c))
	if err != nil {
		return purchaseError(c, err)
	}
	return c.JSON(order)
}

// Delete godoc
// @Summary      Eliminar (soft-delete) una orden
// @Description  Solo órdenes en pending o approved; una orden completed es
//
//	historial contable y no se elimina.
//
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "UUID de la orden"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [delete]
func (h *PurchaseHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return purchaseError(c, err)
	}
	return c.JSON(fiber.Map{"message": "orden eliminada"})
}

// ReceivingSlip godoc
// @Summary      Comprobante de recepción en PDF
// @Tags         purchases
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "UUID de la orden"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id}/slip [get]
func (h *PurchaseHandler) ReceivingSlip(c *fiber.Ctx) error {
	pdfBytes, err := h.uc.ReceivingSlipPDF(c.Context(), c.Params("id"))
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "orden no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.Send(pdfBytes)
}

// purchaseError mapea los errores del flujo de compras a códigos HTTP.
func purchaseError(c *fiber.Ctx, err error) error {
	if err == domain.ErrNotFound {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "orden no encontrada"})
	}
	if err == domain.ErrInvalidState {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_STATE", Message: "la orden no admite esta transición"})
	}
	if err == domain.ErrAlreadyDeleted {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_DELETED", Message: "la orden fue eliminada"})
	}
	if err == domain.ErrInvalidInput {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
