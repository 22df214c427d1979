package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
)

// AlertHandler consulta y ciclo de vida de alertas (protegido).
type AlertHandler struct {
	alerts *inventory.AlertEngine
}

// NewAlertHandler construye el handler.
func NewAlertHandler(alerts *inventory.AlertEngine) *AlertHandler {
	return &AlertHandler{alerts: alerts}
}

// List godoc
// @Summary      Listar alertas
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        status      query     string  false  "active | acknowledged | resolved | dismissed"
// @Param        alert_type  query     string  false  "low_stock | out_of_stock | overstock | expiry_warning | theft_suspicion"
// @Param        product_id  query     string  false  "Filtrar por producto"
// @Param        page        query     int     false  "Página (1-based)"
// @Param        limit       query     int     false  "Tamaño de página (máx. 100)"
// @Success      200         {object}  map[string]interface{}
// @Failure      400         {object}  dto.ErrorResponse
// @Router       /api/inventory/alerts [get]
func (h *AlertHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badRequest(c, "INVALID_QUERY", "parámetros de paginación inválidos")
	}
	page.DefaultPage()
	list, err := h.alerts.ListAlerts(c.Context(), inventory.AlertQuery{
		Status:    c.Query("status"),
		Type:      c.Query("alert_type"),
		ProductID: c.Query("product_id"),
		Page:      page,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"items": dto.NewAlertList(list),
		"page":  dto.PageResponse{Page: page.Page, Limit: page.Limit, Count: len(list)},
	})
}

// GetByID godoc
// @Summary      Consultar una alerta
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        id   path      int  true  "ID de la alerta"
// @Success      200  {object}  dto.AlertResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/alerts/{id} [get]
func (h *AlertHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "VALIDATION", "id inválido")
	}
	alert, err := h.alerts.GetAlert(c.Context(), int64(id))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewAlertResponse(alert))
}

// Raise godoc
// @Summary      Levantar alerta manual
// @Description  Si ya existe una alerta activa del mismo tipo para el producto se devuelve esa (200).
// @Tags         alerts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.RaiseAlertRequest  true  "product_id, alert_type, severity, message"
// @Success      201   {object}  dto.AlertResponse
// @Success      200   {object}  dto.AlertResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/alerts [post]
func (h *AlertHandler) Raise(c *fiber.Ctx) error {
	var in dto.RaiseAlertRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	alert, created, err := h.alerts.RaiseAlert(c.Context(), inventory.RaiseAlertInput{
		ProductID: in.ProductID,
		Type:      in.AlertType,
		Severity:  in.Severity,
		Message:   in.Message,
		ActorID:   GetUserID(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(dto.NewAlertResponse(alert))
}

// Update godoc
// @Summary      Cambiar estado de una alerta
// @Description  active → acknowledged | resolved | dismissed; acknowledged → resolved.
// @Tags         alerts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      int                     true  "ID de la alerta"
// @Param        body  body      dto.UpdateAlertRequest  true  "status, resolution_notes"
// @Success      200   {object}  dto.AlertResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/alerts/{id} [patch]
func (h *AlertHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "VALIDATION", "id inválido")
	}
	var in dto.UpdateAlertRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	alert, err := h.alerts.UpdateAlert(c.Context(), inventory.UpdateAlertInput{
		AlertID: int64(id),
		Status:  in.Status,
		ActorID: GetUserID(c),
		Notes:   in.ResolutionNotes,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewAlertResponse(alert))
}
