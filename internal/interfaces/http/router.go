package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/trufas-inventario-api/internal/application/auth"
	"github.com/jhoicas/trufas-inventario-api/internal/application/inventory"
	"github.com/jhoicas/trufas-inventario-api/internal/application/usecase"
	"github.com/jhoicas/trufas-inventario-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	ProductUC  *usecase.ProductUseCase
	CategoryUC *usecase.CategoryUseCase
	Inventory  InventoryUseCases
	OrderStock *inventory.OrderStockUseCase
	Tokens     TokenVerifier
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	// Pasaporte público (destino del QR)
	passportHandler := NewPassportHandler(deps.Inventory.Query)
	app.Get("/passport/:uid", passportHandler.Get)

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas: Bearer Token de administrador
	protected := api.Group("/", AuthMiddleware(deps.Tokens), RequireRole(entity.RoleAdmin))

	protected.Post("/users", authHandler.CreateUser)

	// Catálogo
	productHandler := NewProductHandler(deps.ProductUC, deps.CategoryUC)
	protected.Post("/categories", productHandler.CreateCategory)
	protected.Get("/categories", productHandler.ListCategories)
	protected.Post("/products", productHandler.Create)
	protected.Get("/products", productHandler.List)
	protected.Get("/products/:code", productHandler.GetByCode)
	protected.Put("/products/:code", productHandler.Update)
	protected.Post("/products/:code/variants", productHandler.CreateVariant)
	protected.Put("/variants/:sku/active", productHandler.SetVariantActive)

	// Inventario serializado, libro y transferencia masiva
	inv := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Inventory)
	inv.Post("/serialized/receive", inventoryHandler.Receive)
	inv.Get("/serialized/items", inventoryHandler.ListItems)
	inv.Get("/serialized/items/:uid", inventoryHandler.GetItem)
	inv.Put("/serialized/items/:uid/status", inventoryHandler.UpdateStatus)
	inv.Get("/serialized/items/:uid/label", inventoryHandler.Label)
	inv.Get("/serialized/items/:uid/qr", inventoryHandler.QRCode)
	inv.Post("/stock/adjust", inventoryHandler.Adjust)
	inv.Get("/product/:code", inventoryHandler.ProductStock)
	inv.Get("/movements", inventoryHandler.ListMovements)
	inv.Get("/export/serialized_items", inventoryHandler.Export)
	inv.Post("/import/serialized_items", inventoryHandler.Import)
	inv.Post("/reconcile", inventoryHandler.Reconcile)

	// Flujo de pedidos
	orderHandler := NewOrderHandler(deps.OrderStock)
	orders := inv.Group("/orders/:order_id")
	orders.Post("/items/:uid/allocate", orderHandler.AllocateItem)
	orders.Post("/items/:uid/release", orderHandler.ReleaseItem)
	orders.Post("/items/:uid/sell", orderHandler.SellItem)
	orders.Post("/variants/:sku/sell", orderHandler.SellVariant)
	orders.Post("/variants/:sku/return", orderHandler.ReturnVariant)
}
