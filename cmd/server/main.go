package main

import (
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/platefeed/platefeed/internal/config"
	"github.com/platefeed/platefeed/internal/database"
	"github.com/platefeed/platefeed/internal/handlers"
	"github.com/platefeed/platefeed/internal/middleware"
	"github.com/platefeed/platefeed/internal/types"
	"github.com/platefeed/platefeed/internal/utils"

	_ "github.com/platefeed/platefeed/docs/api" // Swagger docs
)

// @title Platefeed API
// @version 1.0.0
// @description Recipe sharing data service: recipes, favorites, shopping carts and author subscriptions
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/platefeed/platefeed

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name cookie_session

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler:          customErrorHandler,
		DisableStartupMessage: false,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("platefeed")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Uploaded recipe images
	app.Static("/media", cfg.MediaRoot)

	// API routes under /api
	api := app.Group("/api")

	// Version middleware
	api.Use(middleware.VersionMiddleware())

	// Create handlers
	recipeHandler := &handlers.RecipeHandler{DB: db, Cfg: cfg}
	userHandler := &handlers.UserHandler{DB: db, Cfg: cfg}
	catalogHandler := &handlers.CatalogHandler{DB: db}

	authRequired := middleware.AuthRequired(db, cfg)
	authOptional := middleware.AuthOptional(db, cfg)

	// Recipe routes; the static download path registers before /:id
	recipes := api.Group("/recipes")
	recipes.Get("/download_shopping_cart", authRequired, recipeHandler.DownloadShoppingCart)
	recipes.Get("/", authOptional, recipeHandler.List)
	recipes.Post("/", authRequired, recipeHandler.Create)
	recipes.Get("/:id", authOptional, recipeHandler.Get)
	recipes.Patch("/:id", authRequired, recipeHandler.Update)
	recipes.Delete("/:id", authRequired, recipeHandler.Delete)
	recipes.Post("/:id/favorite", authRequired, recipeHandler.Favorite)
	recipes.Delete("/:id/favorite", authRequired, recipeHandler.Unfavorite)
	recipes.Post("/:id/shopping_cart", authRequired, recipeHandler.CartAdd)
	recipes.Delete("/:id/shopping_cart", authRequired, recipeHandler.CartRemove)

	// User routes; static paths register before /:id
	users := api.Group("/users")
	users.Get("/subscriptions", authRequired, userHandler.Subscriptions)
	users.Get("/me", authRequired, userHandler.Me)
	users.Get("/", authOptional, userHandler.List)
	users.Post("/", userHandler.Create)
	users.Get("/:id", authOptional, userHandler.Get)
	users.Post("/:id/subscribe", authRequired, userHandler.Subscribe)
	users.Delete("/:id/subscribe", authRequired, userHandler.Unsubscribe)

	// Reference data routes
	api.Get("/tags", catalogHandler.ListTags)
	api.Get("/tags/:id", catalogHandler.GetTag)
	api.Get("/ingredients", catalogHandler.ListIngredients)
	api.Get("/ingredients/:id", catalogHandler.GetIngredient)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return utils.NotFoundResponse(c, "[404] Resource Not Found")
	})

	// Authorizer client initializes lazily on the first authenticated request
	log.Printf("Authorizer will be initialized on first authenticated request")

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	port := cfg.Port
	log.Printf("Starting server on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Println("Server stopped")
}

// customErrorHandler handles errors globally
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "unknown"

	// Check if it's a Fiber error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Check for authorization errors raised by the middleware
	var custom *types.CustomError
	if errors.As(err, &custom) {
		code = custom.Code
		message = custom.Message
		errorType = custom.Type
	}

	return c.Status(code).JSON(fiber.Map{
		"status":    code,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}
