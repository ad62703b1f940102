package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/gadgetops/resale-api/internal/application/dto"
	"github.com/gadgetops/resale-api/internal/application/lifecycle"
	"github.com/gadgetops/resale-api/internal/domain/entity"
	"github.com/gadgetops/resale-api/internal/domain/repository"
)

// ItemHandler maneja las peticiones HTTP del inventario (protegido).
type ItemHandler struct {
	uc *lifecycle.UseCase
}

// NewItemHandler construye el handler.
func NewItemHandler(uc *lifecycle.UseCase) *ItemHandler {
	return &ItemHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar artículo de inventario
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemRequest  true  "datos del artículo"
// @Success      201   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	item, err := h.uc.CreateItem(c.Context(), GetCompanyID(c), GetActor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ItemFromEntity(item))
}

// List godoc
// @Summary      Listar artículos con filtros
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        device_type  query  string  false  "tipo de dispositivo"
// @Param        status       query  string  false  "estado del ciclo de vida"
// @Param        q            query  string  false  "búsqueda por nombre, marca, modelo o serie"
// @Success      200  {object}  dto.ItemListResponse
// @Router       /api/items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	var in dto.ListItemsRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}
	in.DefaultPage()
	items, total, err := h.uc.ListItems(c.Context(), GetCompanyID(c), repository.ItemFilter{
		DeviceType: in.DeviceType,
		Status:     in.Status,
		Search:     in.Search,
		Limit:      in.Limit,
		Offset:     in.Offset,
	})
	if err != nil {
		return respondError(c, err)
	}
	out := dto.ItemListResponse{
		Items: make([]dto.ItemResponse, 0, len(items)),
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}
	for _, item := range items {
		out.Items = append(out.Items, *dto.ItemFromEntity(item))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener un artículo
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del artículo"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	item, err := h.uc.GetItem(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ItemFromEntity(item))
}

// UpdatePrices godoc
// @Summary      Fijar precios y dejar el artículo disponible
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del artículo"
// @Param        body  body  dto.UpdatePricesRequest  true  "precios"
// @Success      200  {object}  dto.ItemResponse
// @Router       /api/items/{id}/prices [put]
func (h *ItemHandler) UpdatePrices(c *fiber.Ctx) error {
	var in dto.UpdatePricesRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	item, err := h.uc.UpdatePrices(c.Context(), GetCompanyID(c), GetActor(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ItemFromEntity(item))
}

// UpdateGeneral godoc
// @Summary      Actualizar campos descriptivos
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del artículo"
// @Param        body  body  dto.UpdateGeneralRequest  true  "campos a actualizar"
// @Success      200  {object}  dto.ItemResponse
// @Router       /api/items/{id} [put]
func (h *ItemHandler) UpdateGeneral(c *fiber.Ctx) error {
	var in dto.UpdateGeneralRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	item, err := h.uc.UpdateGeneral(c.Context(), GetCompanyID(c), GetActor(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ItemFromEntity(item))
}

// Delete godoc
// @Summary      Eliminar un artículo
// @Tags         items
// @Security     Bearer
// @Param        id  path  string  true  "ID del artículo"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [delete]
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteItem(c.Context(), GetCompanyID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ChangeHistory godoc
// @Summary      Historial de cambios de un artículo
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id    path   string  true   "ID del artículo"
// @Param        from  query  string  false  "fecha inicial YYYY-MM-DD"
// @Param        to    query  string  false  "fecha final YYYY-MM-DD"
// @Success      200  {array}  dto.ChangeRecordResponse
// @Router       /api/items/{id}/history [get]
func (h *ItemHandler) ChangeHistory(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	itemID := c.Params("id")
	fromStr, toStr := c.Query("from"), c.Query("to")

	if fromStr != "" || toStr != "" {
		from, perr := time.Parse("2006-01-02", fromStr)
		if perr != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "from inválido"})
		}
		to, perr := time.Parse("2006-01-02", toStr)
		if perr != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "to inválido"})
		}
		list, herr := h.uc.GetChangeHistoryBetween(c.Context(), companyID, itemID, from, to.AddDate(0, 0, 1))
		if herr != nil {
			return respondError(c, herr)
		}
		return c.JSON(toChangeRecords(list))
	}
	list, err := h.uc.GetChangeHistory(c.Context(), companyID, itemID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toChangeRecords(list))
}

func toChangeRecords(list []entity.ChangeRecord) []dto.ChangeRecordResponse {
	out := make([]dto.ChangeRecordResponse, 0, len(list))
	for _, r := range list {
		out = append(out, dto.ChangeRecordFromEntity(r))
	}
	return out
}
