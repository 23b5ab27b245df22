package router

import (
	"time"

	"counterpos/internal/config"
	"counterpos/internal/handler"
	"counterpos/internal/infra"
	"counterpos/internal/middleware"
	"counterpos/internal/repository"
	"counterpos/internal/service"
	"counterpos/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, syncCB *infra.CircuitBreaker, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	cartRepo := repository.NewCartRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	inventorySvc := service.NewInventoryService(productRepo, movementRepo, settingsRepo)
	cartSvc := service.NewCartService(cartRepo, productRepo, settingsRepo)
	checkoutSvc := service.NewCheckoutService(saleRepo, cartRepo, productRepo, settingsRepo, movementRepo, dispatcher)
	salesSvc := service.NewSalesService(saleRepo)
	settingsSvc := service.NewSettingsService(settingsRepo)
	reportSvc := service.NewReportService(saleRepo, productRepo, settingsRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	productsH := handler.NewProductsHandler(inventorySvc)
	inventoryH := handler.NewInventoryHandler(inventorySvc)
	cartH := handler.NewCartHandler(cartSvc)
	checkoutH := handler.NewCheckoutHandler(checkoutSvc)
	salesH := handler.NewSalesHandler(salesSvc, saleRepo, cfg.StoreName, cfg.PDFStoragePath)
	settingsH := handler.NewSettingsHandler(settingsSvc)
	reportsH := handler.NewReportsHandler(reportSvc)
	priceH := handler.NewPriceLookupHandler(productRepo, settingsRepo, rdb)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, syncCB))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Price check — no auth required (customer-facing kiosk)
	r.GET("/v1/price/:barcode", priceH.GetByBarcode)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	anyRole := middleware.RequireRole("cashier", "manager", "admin")
	managerUp := middleware.RequireRole("manager", "admin")
	adminOnly := middleware.RequireRole("admin")

	v1 := r.Group("/v1", jwtMW)
	{
		// Cart — always scoped to the authenticated operator
		cart := v1.Group("/cart", anyRole)
		{
			cart.GET("", cartH.Get)
			cart.POST("/items", cartH.AddItem)
			cart.PATCH("/items/:id", cartH.UpdateItem)
			cart.DELETE("/items/:id", cartH.RemoveItem)
			cart.DELETE("", cartH.Clear)
		}

		v1.POST("/checkout", anyRole, checkoutH.Commit)

		// Sales ledger
		v1.GET("/sales", anyRole, salesH.List)
		v1.GET("/sales/:id", anyRole, salesH.GetByID)
		v1.GET("/sales/:id/receipt", anyRole, salesH.Receipt)

		// Products — any operator can read (catalog sync), writes need manager+
		v1.GET("/products", anyRole, productsH.List)
		v1.GET("/products/:id", anyRole, productsH.GetByID)
		v1.PATCH("/products/:id/stock", managerUp, productsH.AdjustStock)
		prods := v1.Group("/products", managerUp)
		{
			prods.POST("", productsH.Create)
			prods.PUT("/:id", productsH.Update)
			prods.DELETE("/:id", productsH.Delete)
			prods.POST("/bulk", productsH.BulkImport)
			prods.POST("/import", productsH.ImportCSV)
			prods.GET("/export", productsH.ExportCSV)
		}

		inv := v1.Group("/inventory", managerUp)
		{
			inv.GET("/alerts", inventoryH.Alerts)
			inv.GET("/movements", inventoryH.Movements)
		}

		// Settings — reads for everyone (the cart needs them), writes manager+
		v1.GET("/settings", anyRole, settingsH.Get)
		v1.PUT("/settings", managerUp, settingsH.Update)

		reports := v1.Group("/reports", managerUp)
		{
			reports.GET("/summary", reportsH.Summary)
			reports.GET("/top-products", reportsH.TopProducts)
			reports.GET("/valuation", reportsH.Valuation)
		}

		users := v1.Group("/users", adminOnly)
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
			users.PUT("/:id", usersH.Update)
			users.DELETE("/:id", usersH.Deactivate)
			users.PATCH("/:id/reactivate", usersH.Reactivate)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
