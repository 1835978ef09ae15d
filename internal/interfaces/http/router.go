package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/warehouse-ops-api/internal/application/auth"
	"github.com/jhoicas/warehouse-ops-api/internal/application/demand"
	"github.com/jhoicas/warehouse-ops-api/internal/application/inventory"
	"github.com/jhoicas/warehouse-ops-api/internal/application/shipment"
	"github.com/jhoicas/warehouse-ops-api/internal/application/skus"
	"github.com/jhoicas/warehouse-ops-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	DemandUC    *demand.DemandUseCase
	ShipmentUC  *shipment.ShipmentUseCase
	InventoryUC *inventory.InventoryUseCase
	RepairUC    *inventory.RepairUseCase
	SkuUC       *skus.SkuUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	writer := RequireRole(entity.RoleAdmin, entity.RoleOperator)
	anyRole := RequireRole(entity.RoleAdmin, entity.RoleOperator, entity.RoleViewer)

	// Demanda (protegido)
	demandGroup := protected.Group("/demand")
	demandHandler := NewDemandHandler(deps.DemandUC)
	demandGroup.Post("/", writer, demandHandler.Submit)
	demandGroup.Get("/", anyRole, demandHandler.ListBatches)
	demandGroup.Put("/lines/:record_num/quantity", writer, demandHandler.SetQuantity)
	demandGroup.Delete("/lines/:record_num", writer, demandHandler.DeleteLine)
	demandGroup.Get("/:need_num", anyRole, demandHandler.GetBatchDetail)
	demandGroup.Delete("/:need_num", writer, demandHandler.DeleteBatch)

	// Envíos (protegido)
	shipments := protected.Group("/shipments")
	shipmentHandler := NewShipmentHandler(deps.ShipmentUC)
	shipments.Post("/", writer, shipmentHandler.Create)
	shipments.Get("/", anyRole, shipmentHandler.List)
	shipments.Post("/:id/ship", writer, shipmentHandler.MarkShipped)
	shipments.Get("/:id", anyRole, shipmentHandler.GetDetail)
	shipments.Delete("/:id", writer, shipmentHandler.Delete)

	// Inventario (protegido)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.InventoryUC, deps.RepairUC)
	invGroup.Post("/units", writer, inventoryHandler.CreateUnit)
	invGroup.Delete("/units/:id", writer, inventoryHandler.CancelUnit)
	invGroup.Get("/availability", anyRole, inventoryHandler.GetAvailability)
	invGroup.Post("/repair", RequireRole(entity.RoleAdmin), inventoryHandler.Repair)

	// Mapeos de SKU (protegido)
	skuGroup := protected.Group("/skus")
	skuHandler := NewSkuHandler(deps.SkuUC)
	skuGroup.Post("/", writer, skuHandler.Create)
	skuGroup.Get("/", anyRole, skuHandler.List)
	skuGroup.Delete("/:id", writer, skuHandler.Delete)
}
