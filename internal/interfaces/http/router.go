package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/auth"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger       *inventory.StockLedger
	Reservations *inventory.ReservationManager
	OperationLog *inventory.OperationLog
	Alerts       *inventory.AlertEngine
	Summary      *inventory.SummaryReporter
	AuthUC       *auth.AuthUseCase
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/token", authHandler.Token)

	// Rutas protegidas (requieren Bearer Token)
	inv := api.Group("/inventory", AuthMiddleware(deps.JWTSecret))
	operators := RequireRole(auth.RoleAdmin, auth.RoleOperator)
	writers := RequireRole(auth.RoleAdmin, auth.RoleOperator, auth.RoleWorkflow)
	workflows := RequireRole(auth.RoleAdmin, auth.RoleWorkflow)

	h := NewInventoryHandler(deps.Ledger, deps.Reservations, deps.OperationLog, deps.Summary)
	inv.Post("/products", operators, h.RegisterProduct)
	inv.Get("/stock", h.ListStock)
	inv.Get("/stock/:productId", h.GetStock)
	inv.Put("/stock/:productId/thresholds", operators, h.UpdateThresholds)
	inv.Get("/stock/:productId/replay", operators, h.ReplayStock)
	inv.Post("/stock/:productId/adjust", writers, h.Adjust)
	inv.Post("/stock/:productId/reserve", workflows, h.Reserve)
	inv.Post("/stock/:productId/release", workflows, h.Release)
	inv.Get("/operations", h.ListOperations)
	inv.Get("/operations/:id", h.GetOperation)
	inv.Get("/summary", h.Summary)
	inv.Get("/summary/pdf", operators, h.SummaryPDF)
	inv.Get("/low-stock", h.LowStock)

	a := NewAlertHandler(deps.Alerts)
	inv.Get("/alerts", a.List)
	inv.Get("/alerts/:id", a.GetByID)
	inv.Post("/alerts", operators, a.Raise)
	inv.Patch("/alerts/:id", operators, a.Update)
}
