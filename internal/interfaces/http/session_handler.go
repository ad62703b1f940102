package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/gadgetops/resale-api/internal/application/dailystock"
	"github.com/gadgetops/resale-api/internal/application/dto"
)

// SessionHandler maneja la apertura, cierre y consulta de las sesiones diarias
// de stock.
type SessionHandler struct {
	uc *dailystock.UseCase
}

// NewSessionHandler construye el handler.
func NewSessionHandler(uc *dailystock.UseCase) *SessionHandler {
	return &SessionHandler{uc: uc}
}

// OpenDay godoc
// @Summary      Abrir la sesión de stock del día
// @Tags         sessions
// @Security     Bearer
// @Produce      json
// @Success      201  {object}  dto.SessionResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sessions/open [post]
func (h *SessionHandler) OpenDay(c *fiber.Ctx) error {
	session, err := h.uc.OpenDay(c.Context(), GetCompanyID(c), GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SessionFromEntity(session))
}

// CloseDay godoc
// @Summary      Cerrar la sesión del día y conciliar el stock
// @Tags         sessions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CloseDayRequest  true  "notas de cierre"
// @Success      200  {object}  dto.SessionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sessions/close [post]
func (h *SessionHandler) CloseDay(c *fiber.Ctx) error {
	var in dto.CloseDayRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	session, err := h.uc.CloseDay(c.Context(), GetCompanyID(c), GetActor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.SessionFromEntity(session))
}

// GetCurrent godoc
// @Summary      Sesión abierta del día
// @Tags         sessions
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SessionResponse
// @Failure      412  {object}  dto.ErrorResponse
// @Router       /api/sessions/current [get]
func (h *SessionHandler) GetCurrent(c *fiber.Ctx) error {
	session, err := h.uc.GetCurrentSession(c.Context(), GetCompanyID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.SessionFromEntity(session))
}

// GetByDate godoc
// @Summary      Sesión de una fecha concreta
// @Tags         sessions
// @Security     Bearer
// @Produce      json
// @Param        date  path  string  true  "fecha YYYY-MM-DD"
// @Success      200  {object}  dto.SessionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sessions/{date} [get]
func (h *SessionHandler) GetByDate(c *fiber.Ctx) error {
	date, err := time.Parse("2006-01-02", c.Params("date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_DATE", Message: "la fecha debe ser YYYY-MM-DD"})
	}
	session, err := h.uc.GetSession(c.Context(), GetCompanyID(c), date)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.SessionFromEntity(session))
}

// List godoc
// @Summary      Listar sesiones recientes
// @Tags         sessions
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "límite"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {array}  dto.SessionResponse
// @Router       /api/sessions [get]
func (h *SessionHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}
	page.DefaultPage()
	sessions, err := h.uc.ListSessions(c.Context(), GetCompanyID(c), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, *dto.SessionFromEntity(s))
	}
	return c.JSON(out)
}

// RecordTransaction godoc
// @Summary      Registrar una transacción en la sesión abierta
// @Tags         sessions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordTransactionRequest  true  "transacción"
// @Success      200  {object}  dto.SessionResponse
// @Failure      412  {object}  dto.ErrorResponse
// @Router       /api/sessions/transactions [post]
func (h *SessionHandler) RecordTransaction(c *fiber.Ctx) error {
	var in dto.RecordTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	session, err := h.uc.RecordTransaction(c.Context(), GetCompanyID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.SessionFromEntity(session))
}

// GetReport godoc
// @Summary      Datos del reporte diario de una fecha
// @Tags         sessions
// @Security     Bearer
// @Produce      json
// @Param        date  path  string  true  "fecha YYYY-MM-DD"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sessions/{date}/report [get]
func (h *SessionHandler) GetReport(c *fiber.Ctx) error {
	date, err := time.Parse("2006-01-02", c.Params("date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_DATE", Message: "la fecha debe ser YYYY-MM-DD"})
	}
	report, err := h.uc.BuildDailyReport(c.Context(), GetCompanyID(c), date)
	if err != nil {
		return respondError(c, err)
	}
	sold := make([]dto.ItemResponse, 0, len(report.SoldItems))
	for _, item := range report.SoldItems {
		sold = append(sold, *dto.ItemFromEntity(item))
	}
	return c.JSON(fiber.Map{
		"company_name": report.CompanyName,
		"date":         report.Date.Format("2006-01-02"),
		"session":      dto.SessionFromEntity(report.Session),
		"sold_items":   sold,
	})
}

// SendReport godoc
// @Summary      Enviar por correo el reporte diario en PDF
// @Tags         sessions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SendReportRequest  true  "fecha y destinatario opcionales"
// @Success      202  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sessions/report [post]
func (h *SessionHandler) SendReport(c *fiber.Ctx) error {
	var in dto.SendReportRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.SendDailyReport(c.Context(), GetCompanyID(c), in); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "enviado"})
}
