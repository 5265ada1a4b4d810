package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/puntoventa/kardex-api/internal/application/auth"
	"github.com/puntoventa/kardex-api/internal/application/catalog"
	"github.com/puntoventa/kardex-api/internal/application/inventory"
	"github.com/puntoventa/kardex-api/internal/application/sales"
	"github.com/puntoventa/kardex-api/internal/domain/entity"
	"github.com/puntoventa/kardex-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC *catalog.ProductUseCase
	Ledger    *inventory.StockLedgerService
	SaleUC    *sales.RegisterSaleUseCase
	AuthUC    *auth.AuthUseCase
	JWTSecret string
	Log       *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.Log)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Productos (protegido)
	products := protected.Group("/productos")
	productHandler := NewProductHandler(deps.ProductUC, deps.Log)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/buscar", productHandler.Search)
	products.Get("/:id", productHandler.Get)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", RequireRole(entity.RoleAdmin), productHandler.Delete)

	// Kardex (protegido)
	kardex := protected.Group("/kardex")
	movementHandler := NewMovementHandler(deps.Ledger, deps.Log)
	kardex.Post("/", movementHandler.Register)
	kardex.Get("/", movementHandler.List)
	kardex.Get("/:id", movementHandler.Get)
	kardex.Put("/:id", RequireRole(entity.RoleAdmin), movementHandler.Update)
	kardex.Delete("/:id", RequireRole(entity.RoleAdmin), movementHandler.Delete)

	// Usuarios (protegido; solo un admin concede roles)
	usuarios := protected.Group("/usuarios")
	usuarios.Post("/", RequireRole(entity.RoleAdmin), authHandler.CreateUser)

	// Ventas (protegido)
	ventas := protected.Group("/ventas")
	saleHandler := NewSaleHandler(deps.SaleUC, deps.Log)
	ventas.Post("/", saleHandler.Register)
	ventas.Get("/:id", saleHandler.Get)
}
