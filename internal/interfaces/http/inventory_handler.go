package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// InventoryHandler maneja ledger, reservas, log de operaciones y resumen (protegido).
type InventoryHandler struct {
	ledger       *inventory.StockLedger
	reservations *inventory.ReservationManager
	oplog        *inventory.OperationLog
	summary      *inventory.SummaryReporter
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	ledger *inventory.StockLedger,
	reservations *inventory.ReservationManager,
	oplog *inventory.OperationLog,
	summary *inventory.SummaryReporter,
) *InventoryHandler {
	return &InventoryHandler{ledger: ledger, reservations: reservations, oplog: oplog, summary: summary}
}

// RegisterProduct godoc
// @Summary      Registrar producto en el ledger
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.RegisterProductRequest  true  "product_id, initial_stock, umbrales (0 = por defecto)"
// @Success      201   {object}  dto.StockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/products [post]
func (h *InventoryHandler) RegisterProduct(c *fiber.Ctx) error {
	var in dto.RegisterProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	rec, err := h.ledger.RegisterProduct(c.Context(), inventory.RegisterProductInput{
		ProductID:         in.ProductID,
		InitialStock:      in.InitialStock,
		LowStockThreshold: in.LowStockThreshold,
		ReorderPoint:      in.ReorderPoint,
		MaxStock:          in.MaxStock,
		ActorID:           GetUserID(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewStockResponse(rec))
}

// ListStock godoc
// @Summary      Listar registros de stock
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        page   query     int  false  "Página (1-based)"
// @Param        limit  query     int  false  "Tamaño de página (máx. 100)"
// @Success      200    {object}  map[string]interface{}
// @Router       /api/inventory/stock [get]
func (h *InventoryHandler) ListStock(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badRequest(c, "INVALID_QUERY", "parámetros de paginación inválidos")
	}
	page.DefaultPage()
	list, err := h.ledger.ListStock(c.Context(), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"items": dto.NewStockList(list),
		"page":  dto.PageResponse{Page: page.Page, Limit: page.Limit, Count: len(list)},
	})
}

// GetStock godoc
// @Summary      Consultar stock de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        productId  path      string  true  "ID del producto"
// @Success      200        {object}  dto.StockResponse
// @Failure      404        {object}  dto.ErrorResponse
// @Router       /api/inventory/stock/{productId} [get]
func (h *InventoryHandler) GetStock(c *fiber.Ctx) error {
	rec, err := h.ledger.GetStock(c.Context(), c.Params("productId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewStockResponse(rec))
}

// UpdateThresholds godoc
// @Summary      Actualizar umbrales de un producto
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        productId  path      string                       true  "ID del producto"
// @Param        body       body      dto.UpdateThresholdsRequest  true  "low_stock_threshold, reorder_point, max_stock"
// @Success      200        {object}  dto.StockResponse
// @Failure      400        {object}  dto.ErrorResponse
// @Failure      404        {object}  dto.ErrorResponse
// @Router       /api/inventory/stock/{productId}/thresholds [put]
func (h *InventoryHandler) UpdateThresholds(c *fiber.Ctx) error {
	var in dto.UpdateThresholdsRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	rec, err := h.ledger.UpdateThresholds(c.Context(), c.Params("productId"), inventory.ThresholdsInput{
		LowStockThreshold: in.LowStockThreshold,
		ReorderPoint:      in.ReorderPoint,
		MaxStock:          in.MaxStock,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewStockResponse(rec))
}

// ReplayStock godoc
// @Summary      Auditar stock contra el log de operaciones
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        productId  path      string  true  "ID del producto"
// @Success      200        {object}  dto.ReplayResponse
// @Failure      404        {object}  dto.ErrorResponse
// @Router       /api/inventory/stock/{productId}/replay [get]
func (h *InventoryHandler) ReplayStock(c *fiber.Ctx) error {
	out, err := h.ledger.ReplayStock(c.Context(), c.Params("productId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Adjust godoc
// @Summary      Aplicar operación de stock
// @Description  stock_in, stock_out, adjustment, return_stock, damage o transfer. Queda en el log de operaciones.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        productId  path      string                  true  "ID del producto"
// @Param        body       body      dto.AdjustStockRequest  true  "operation_type, quantity (> 0)"
// @Success      201        {object}  dto.OperationResponse
// @Failure      400        {object}  dto.ErrorResponse
// @Failure      404        {object}  dto.ErrorResponse
// @Failure      409        {object}  dto.ErrorResponse
// @Router       /api/inventory/stock/{productId}/adjust [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	op, err := h.ledger.Adjust(c.Context(), inventory.AdjustInput{
		ProductID:       c.Params("productId"),
		OperationType:   entity.OperationType(in.OperationType),
		Quantity:        in.Quantity,
		ActorID:         GetUserID(c),
		Notes:           in.Notes,
		ReferenceNumber: in.ReferenceNumber,
		Details: entity.OperationDetails{
			Source:              inventory.SourceAPI,
			ReasonCode:          in.ReasonCode,
			TransferDestination: in.TransferDestination,
		},
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewOperationResponse(op))
}

// Reserve godoc
// @Summary      Reservar stock
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        productId  path      string                  true  "ID del producto"
// @Param        body       body      dto.ReservationRequest  true  "quantity (> 0), reference_number"
// @Success      200        {object}  dto.StockResponse
// @Failure      400        {object}  dto.ErrorResponse
// @Failure      404        {object}  dto.ErrorResponse
// @Failure      409        {object}  dto.ErrorResponse
// @Router       /api/inventory/stock/{productId}/reserve [post]
func (h *InventoryHandler) Reserve(c *fiber.Ctx) error {
	var in dto.ReservationRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	rec, err := h.reservations.Reserve(c.Context(), inventory.ReservationInput{
		ProductID:       c.Params("productId"),
		Quantity:        in.Quantity,
		ActorID:         GetUserID(c),
		ReferenceNumber: in.ReferenceNumber,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewStockResponse(rec))
}

// Release godoc
// @Summary      Liberar reserva
// @Description  Libera min(quantity, reserved_stock). released indica cuánto se liberó.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        productId  path      string                  true  "ID del producto"
// @Param        body       body      dto.ReservationRequest  true  "quantity (> 0), reference_number"
// @Success      200        {object}  dto.ReleaseResponse
// @Failure      400        {object}  dto.ErrorResponse
// @Failure      404        {object}  dto.ErrorResponse
// @Router       /api/inventory/stock/{productId}/release [post]
func (h *InventoryHandler) Release(c *fiber.Ctx) error {
	var in dto.ReservationRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	res, err := h.reservations.Release(c.Context(), inventory.ReservationInput{
		ProductID:       c.Params("productId"),
		Quantity:        in.Quantity,
		ActorID:         GetUserID(c),
		ReferenceNumber: in.ReferenceNumber,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ReleaseResponse{
		Stock:     dto.NewStockResponse(res.Stock),
		Requested: res.Requested,
		Released:  res.Released,
	})
}

// ListOperations godoc
// @Summary      Consultar log de operaciones
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id        query     string  false  "Filtrar por producto"
// @Param        operation_type    query     string  false  "Filtrar por tipo"
// @Param        reference_number  query     string  false  "Filtrar por referencia"
// @Param        page              query     int     false  "Página (1-based)"
// @Param        limit             query     int     false  "Tamaño de página (máx. 100)"
// @Success      200               {object}  map[string]interface{}
// @Failure      400               {object}  dto.ErrorResponse
// @Router       /api/inventory/operations [get]
func (h *InventoryHandler) ListOperations(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badRequest(c, "INVALID_QUERY", "parámetros de paginación inválidos")
	}
	page.DefaultPage()
	list, err := h.oplog.Query(c.Context(), inventory.OperationQuery{
		ProductID:       c.Query("product_id"),
		OperationType:   c.Query("operation_type"),
		ReferenceNumber: c.Query("reference_number"),
		Page:            page,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"items": dto.NewOperationList(list),
		"page":  dto.PageResponse{Page: page.Page, Limit: page.Limit, Count: len(list)},
	})
}

// GetOperation godoc
// @Summary      Consultar una operación
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path      int  true  "ID de la operación"
// @Success      200  {object}  dto.OperationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/operations/{id} [get]
func (h *InventoryHandler) GetOperation(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "VALIDATION", "id inválido")
	}
	op, err := h.oplog.Get(c.Context(), int64(id))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewOperationResponse(op))
}

// Summary godoc
// @Summary      Resumen del inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.InventorySummaryDTO
// @Router       /api/inventory/summary [get]
func (h *InventoryHandler) Summary(c *fiber.Ctx) error {
	out, err := h.summary.GetSummary(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SummaryPDF godoc
// @Summary      Resumen del inventario en PDF
// @Tags         inventory
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}    binary
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/inventory/summary/pdf [get]
func (h *InventoryHandler) SummaryPDF(c *fiber.Ctx) error {
	out, err := h.summary.SummaryPDF(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="resumen-inventario.pdf"`)
	return c.Send(out)
}

// LowStock godoc
// @Summary      Productos en stock bajo
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.StockResponse
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	list, err := h.summary.ListLowStock(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewStockList(list))
}
