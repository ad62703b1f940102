package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gadgetops/resale-api/internal/application/dto"
	"github.com/gadgetops/resale-api/internal/application/lifecycle"
)

// LifecycleHandler expone las transiciones de estado, el libro de pagos y las
// devoluciones de un artículo.
type LifecycleHandler struct {
	uc *lifecycle.UseCase
}

// NewLifecycleHandler construye el handler.
func NewLifecycleHandler(uc *lifecycle.UseCase) *LifecycleHandler {
	return &LifecycleHandler{uc: uc}
}

// SendToRepair godoc
// @Summary      Enviar un artículo a reparación
// @Tags         lifecycle
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del artículo"
// @Param        body  body  dto.SendToRepairRequest  true  "detalle de la reparación"
// @Success      200  {object}  dto.ItemResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      412  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/repair [post]
func (h *LifecycleHandler) SendToRepair(c *fiber.Ctx) error {
	var in dto.SendToRepairRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	item, err := h.uc.SendToRepair(c.Context(), GetCompanyID(c), GetActor(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ItemFromEntity(item))
}

// CompleteRepair godoc
// @Summary      Completar la reparación en curso
// @Tags         lifecycle
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del artículo"
// @Success      200  {object}  dto.ItemResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/repair/complete [post]
func (h *LifecycleHandler) CompleteRepair(c *fiber.Ctx) error {
	item, err := h.uc.CompleteRepair(c.Context(), GetCompanyID(c), GetActor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ItemFromEntity(item))
}

// MarkSold godoc
// @Summary      Marcar un artículo como vendido
// @Tags         lifecycle
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del artículo"
// @Param        body  body  dto.MarkSoldRequest  true  "datos de la venta"
// @Success      200  {object}  dto.ItemResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      412  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/sell [post]
func (h *LifecycleHandler) MarkSold(c *fiber.Ctx) error {
	var in dto.MarkSoldRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	item, err := h.uc.MarkSold(c.Context(), GetCompanyID(c), GetActor(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ItemFromEntity(item))
}

// CollectUnpaid godoc
// @Summary      Entregar el artículo a un cobrador sin pago
// @Tags         lifecycle
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del artículo"
// @Param        body  body  dto.CollectUnpaidRequest  true  "cobrador"
// @Success      200  {object}  dto.ItemResponse
// @Router       /api/items/{id}/collect [post]
func (h *LifecycleHandler) CollectUnpaid(c *fiber.Ctx) error {
	var in dto.CollectUnpaidRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	item, err := h.uc.CollectUnpaid(c.Context(), GetCompanyID(c), GetActor(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ItemFromEntity(item))
}

// UpdatePayments godoc
// @Summary      Registrar pagos y actualizar estado de cobro
// @Tags         lifecycle
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del artículo"
// @Param        body  body  dto.UpdatePaymentsRequest  true  "pagos y cobrador"
// @Success      200  {object}  dto.ItemResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/payments [put]
func (h *LifecycleHandler) UpdatePayments(c *fiber.Ctx) error {
	var in dto.UpdatePaymentsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	item, err := h.uc.UpdatePayments(c.Context(), GetCompanyID(c), GetActor(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ItemFromEntity(item))
}

// RemoveCollector godoc
// @Summary      Quitar el cobrador y devolver el artículo al stock
// @Tags         lifecycle
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del artículo"
// @Success      200  {object}  dto.ItemResponse
// @Router       /api/items/{id}/collector [delete]
func (h *LifecycleHandler) RemoveCollector(c *fiber.Ctx) error {
	item, err := h.uc.RemoveCollector(c.Context(), GetCompanyID(c), GetActor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ItemFromEntity(item))
}

// ProcessReturn godoc
// @Summary      Procesar la devolución de un artículo vendido
// @Tags         returns
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del artículo"
// @Param        body  body  dto.ProcessReturnRequest  true  "detalle de la devolución"
// @Success      201  {object}  dto.ReturnResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      412  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/returns [post]
func (h *LifecycleHandler) ProcessReturn(c *fiber.Ctx) error {
	var in dto.ProcessReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	rec, item, err := h.uc.ProcessReturn(c.Context(), GetCompanyID(c), GetActor(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"return": dto.ReturnFromEntity(rec),
		"item":   dto.ItemFromEntity(item),
	})
}

// ListReturns godoc
// @Summary      Listar las devoluciones de un artículo
// @Tags         returns
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del artículo"
// @Success      200  {array}  dto.ReturnResponse
// @Router       /api/items/{id}/returns [get]
func (h *LifecycleHandler) ListReturns(c *fiber.Ctx) error {
	list, err := h.uc.ListReturns(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.ReturnResponse, 0, len(list))
	for _, r := range list {
		out = append(out, *dto.ReturnFromEntity(r))
	}
	return c.JSON(out)
}

// GetReturn godoc
// @Summary      Obtener un registro de devolución
// @Tags         returns
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la devolución"
// @Success      200  {object}  dto.ReturnResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/returns/{id} [get]
func (h *LifecycleHandler) GetReturn(c *fiber.Ctx) error {
	rec, err := h.uc.GetReturn(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ReturnFromEntity(rec))
}
