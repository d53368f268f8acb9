package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jcastanov/planta-api/internal/application/bom"
	"github.com/jcastanov/planta-api/internal/application/stock"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	StockQuery   *stock.QueryUseCase
	PostMovement *stock.PostMovementUseCase
	Transfer     *stock.TransferUseCase
	Feasibility  *bom.FeasibilityUseCase
	JWTSecret    string
}

// Router registra las rutas de la API. Todo bajo /api requiere Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	stockHandler := NewStockHandler(deps.StockQuery, deps.PostMovement, deps.Transfer)
	feasibilityHandler := NewFeasibilityHandler(deps.Feasibility)

	// Lecturas del motor
	stocks := api.Group("/stock")
	stocks.Get("/:item_id", stockHandler.GetCurrentStock)
	stocks.Get("/:item_id/as-of", stockHandler.GetStockAsOf)
	stocks.Get("/:item_id/movements", stockHandler.ListMovements)

	api.Get("/warehouses/:id/stock/:item_id", stockHandler.GetBucket)

	// Escrituras del motor
	inv := api.Group("/inventory")
	inv.Post("/movements", stockHandler.PostMovement)
	inv.Post("/transfers", stockHandler.Transfer)

	// Factibilidad de producción (BOM, un nivel)
	api.Get("/bom/:parent_item_id/feasibility", feasibilityHandler.CheckFeasibility)
}
