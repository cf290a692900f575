package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-commerce-api/internal/handler"
	"go-commerce-api/internal/middleware"
	"go-commerce-api/internal/model"
	"go-commerce-api/internal/repository"
	"go-commerce-api/internal/service"
	"go-commerce-api/internal/ws"
	"go-commerce-api/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
	)

	// 3. Seed default admin and starter categories
	seedDefaults(db)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	cartRepo := repository.NewCartRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	userRepo := repository.NewUserRepo(db)

	catalogService := service.NewCatalogService(productRepo, wsHub)
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		catalogService.SetCacheClient(redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
		}))
		log.Println("Product cache enabled via Redis at", addr)
	}
	categoryService := service.NewCategoryService(categoryRepo)
	cartService := service.NewCartService(cartRepo, productRepo)
	orderService := service.NewOrderService(orderRepo, productRepo, wsHub)
	authService := service.NewAuthService(userRepo)

	authHandler := handler.NewAuthHandler(authService)
	productHandler := handler.NewProductHandler(catalogService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	cartHandler := handler.NewCartHandler(cartService)
	orderHandler := handler.NewOrderHandler(orderService)
	healthHandler := handler.NewHealthHandler(db)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Commerce API v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 7. Routes
	api := app.Group("/api")

	// ============ PUBLIC ROUTES ============
	api.Get("/health", healthHandler.Health)

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	api.Get("/products", productHandler.GetProducts)
	api.Get("/products/:id", productHandler.GetProduct)
	api.Get("/categories", categoryHandler.GetCategories)
	api.Get("/categories/:id", categoryHandler.GetCategory)
	api.Get("/categories/:id/products", productHandler.GetProductsByCategory)

	// Payment-gateway callback, reachable without authentication
	api.Put("/orders/confirm-payment", orderHandler.ConfirmPayment)

	// ============ CART ROUTES (user or guest session) ============
	cart := api.Group("/cart", middleware.OptionalAuth())
	cart.Get("/", cartHandler.GetCart)
	cart.Post("/items", cartHandler.AddToCart)
	cart.Put("/items/:id", cartHandler.UpdateCartItem)
	cart.Delete("/items/:id", cartHandler.RemoveCartItem)
	cart.Delete("/", cartHandler.ClearCart)
	cart.Post("/merge", middleware.RequireAuth(), cartHandler.MergeCart)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth())

	protected.Get("/users/me", authHandler.Profile)

	protected.Get("/orders", orderHandler.GetUserOrders)
	protected.Post("/orders", orderHandler.CreateOrder)
	protected.Get("/orders/:id", orderHandler.GetOrder)
	protected.Put("/orders/:id/cancel", orderHandler.CancelOrder)

	// ============ ADMIN ROUTES ============
	admin := api.Group("", middleware.RequireAuth(), middleware.RequireAdmin())

	admin.Post("/products", productHandler.CreateProduct)
	admin.Put("/products/:id", productHandler.UpdateProduct)
	admin.Delete("/products/:id", productHandler.DeleteProduct)

	admin.Post("/categories", categoryHandler.CreateCategory)
	admin.Put("/categories/:id", categoryHandler.UpdateCategory)
	admin.Delete("/categories/:id", categoryHandler.DeleteCategory)

	admin.Get("/admin/orders", orderHandler.GetAllOrders)
	admin.Put("/orders/:id/status", orderHandler.UpdateStatus)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedDefaults creates the default admin user and starter categories if absent
func seedDefaults(db *gorm.DB) {
	userRepo := repository.NewUserRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)

	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@example.com"
	}

	existing, err := userRepo.FindByEmail(adminEmail)
	if err == nil && existing == nil {
		admin := &model.User{
			Email:    adminEmail,
			FullName: "Administrator",
			Role:     model.RoleAdmin,
			IsActive: true,
		}
		password := os.Getenv("ADMIN_PASSWORD")
		if password == "" {
			password = "admin123"
		}
		if err := admin.SetPassword(password); err != nil {
			log.Printf("Warning: Failed to hash admin password: %v", err)
			return
		}
		if err := userRepo.Create(admin); err != nil {
			log.Printf("Warning: Failed to create admin user: %v", err)
		} else {
			log.Printf("Admin user created: %s", adminEmail)
		}
	}

	defaults := []model.Category{
		{Name: "Electronics", Slug: "electronics", Description: "Devices and gadgets", IsActive: true},
		{Name: "Clothing", Slug: "clothing", Description: "Apparel and accessories", IsActive: true},
		{Name: "Home & Garden", Slug: "home-garden", Description: "Household goods", IsActive: true},
	}
	for i := range defaults {
		existing, err := categoryRepo.FindBySlug(defaults[i].Slug)
		if err != nil || existing != nil {
			continue
		}
		if err := categoryRepo.Create(&defaults[i]); err != nil {
			log.Printf("Warning: Failed to seed category %s: %v", defaults[i].Slug, err)
		}
	}
}
