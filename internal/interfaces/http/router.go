package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/fulfillment-planner/internal/application/catalog"
	"github.com/jhoicas/fulfillment-planner/internal/application/inventory"
	"github.com/jhoicas/fulfillment-planner/internal/application/planning"
	"github.com/jhoicas/fulfillment-planner/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	PalletUC    *catalog.PalletUseCase
	IncomingUC  *inventory.IncomingStockUseCase
	WorkOrderUC *planning.WorkOrderUseCase
	Health      *HealthHandler
	Metrics     nethttp.Handler // nil = sin /metrics
	JWTSecret   string
	Log         *logger.Logger // nil = sin log de errores internos
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	app.Use(requestLogger(log.Component("http")))

	if deps.Health != nil {
		app.Get("/health", deps.Health.Check)
	}
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	// Rutas protegidas (requieren Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	anyRole := RequireRole(RoleAdmin, RolePlanner, RoleWarehouse)
	planner := RequireRole(RoleAdmin, RolePlanner)
	warehouse := RequireRole(RoleAdmin, RoleWarehouse)

	// Pallet (lectura para todos los roles)
	palletHandler := NewPalletHandler(deps.PalletUC)
	pallet := api.Group("/pallet", anyRole)
	pallet.Post("/capacity", palletHandler.Calculate)
	pallet.Post("/validate", palletHandler.Validate)
	pallet.Get("/pallets-needed", palletHandler.PalletsNeeded)
	api.Put("/products/:id/case-geometry", planner, palletHandler.UpdateCaseGeometry)

	// Incoming stock
	incomingHandler := NewIncomingStockHandler(deps.IncomingUC)
	incoming := api.Group("/incoming-stock")
	incoming.Get("/", anyRole, incomingHandler.List)
	incoming.Get("/:id", anyRole, incomingHandler.GetByID)
	incoming.Post("/", planner, incomingHandler.Create)
	incoming.Post("/:id/link", planner, incomingHandler.Link)
	incoming.Post("/:id/receive", planner, incomingHandler.Receive)
	incoming.Post("/:id/cancel", planner, incomingHandler.Cancel)
	incoming.Post("/:id/purchase-order", planner, incomingHandler.AttachPurchaseOrder)

	// Work orders: planeación (planner) y alistamiento (warehouse)
	woHandler := NewWorkOrderHandler(deps.WorkOrderUC)
	workOrders := api.Group("/work-orders")
	workOrders.Get("/", anyRole, woHandler.List)
	workOrders.Get("/preview", anyRole, woHandler.Preview)
	workOrders.Post("/draft", planner, woHandler.CreateDraft)
	workOrders.Post("/confirm", planner, woHandler.Confirm)
	workOrders.Get("/:id", anyRole, woHandler.GetByID)
	workOrders.Post("/:id/cancel", planner, woHandler.Cancel)
	workOrders.Post("/:id/complete", warehouse, woHandler.Complete)
	workOrders.Post("/:id/products/:productId/resolve", planner, woHandler.ResolveShortage)
	workOrders.Post("/:id/stores/:storeId/start", warehouse, woHandler.StartPicking)
	workOrders.Post("/:id/stores/:storeId/items/:productId/pick", warehouse, woHandler.PickItem)
}
