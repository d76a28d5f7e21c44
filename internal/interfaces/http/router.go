package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/VentasCampo-api/internal/application/fulfillment"
	"github.com/jhoicas/VentasCampo-api/internal/application/usecase"
	"github.com/jhoicas/VentasCampo-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	FulfillmentUC *fulfillment.UseCase
	WarehouseUC   *usecase.WarehouseUseCase
	MovementUC    *usecase.MovementUseCase
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Todas las rutas del servicio requieren Bearer Token: el tenant sale del token,
	// nunca del cuerpo ni de la URL.
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Orders
	orders := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.FulfillmentUC)
	orders.Post("/", orderHandler.Create)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Get("/:id/status", orderHandler.GetStatus)
	orders.Get("/:id/stock-check", orderHandler.StockCheck)
	// Cancelar y despachar mueven stock; solo supervisores y administradores.
	orders.Patch("/:id/status", RequireRole(entity.RoleAdmin, entity.RoleSupervisor), orderHandler.UpdateStatus)

	// Warehouses
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id/stock", warehouseHandler.Stock)

	// Inventory movements (solo lectura; los movimientos nacen del ciclo de pedidos)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.MovementUC)
	invGroup.Get("/movements", inventoryHandler.ListMovements)
}
