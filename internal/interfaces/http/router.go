package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/stock-ledger/internal/application/auth"
	"github.com/tu-usuario/stock-ledger/internal/application/inventory"
	"github.com/tu-usuario/stock-ledger/internal/application/usecase"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	ProfileUC *usecase.ProfileUseCase
	ProductUC *usecase.ProductUseCase
	Ledger    *inventory.LedgerUseCase
	Query     *inventory.QueryUseCase
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	authRequired := AuthMiddleware(deps.JWTSecret)
	anyRole := RequireRole(entity.RoleUser, entity.RoleAdmin)
	adminOnly := RequireRole(entity.RoleAdmin)

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Profile (protegido)
	profileHandler := NewProfileHandler(deps.ProfileUC)
	profile := api.Group("/profile", authRequired, anyRole)
	profile.Get("/", profileHandler.Get)
	profile.Patch("/", profileHandler.Update)

	// Products: lectura pública, escritura protegida
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", authRequired, adminOnly, productHandler.Create)
	products.Patch("/:id", authRequired, anyRole, productHandler.Update)
	products.Delete("/:id", authRequired, adminOnly, productHandler.Delete)

	// Inventory movements (protegido). El despachador genérico es solo ADMIN;
	// los endpoints dedicados in/out permiten USER y el motor aplica la regla
	// de dueño-o-admin por producto.
	movements := api.Group("/inventory-movements", authRequired)
	inventoryHandler := NewInventoryHandler(deps.Ledger, deps.Query)
	movements.Post("/", adminOnly, inventoryHandler.CreateMovement)
	movements.Post("/in", anyRole, inventoryHandler.AddStock)
	movements.Post("/out", anyRole, inventoryHandler.RemoveStock)
	movements.Get("/", anyRole, inventoryHandler.ListMovements)
	movements.Get("/product/:productId", anyRole, inventoryHandler.GetProductHistory)
}
