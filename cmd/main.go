package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/tleroy/geocaching-api/internal/db"
	"github.com/tleroy/geocaching-api/internal/handlers"
	"github.com/tleroy/geocaching-api/internal/middleware"
	"github.com/tleroy/geocaching-api/internal/storage"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading it, using environment variables")
	}

	// Initialize Fiber
	app := fiber.New()
	// Initialize MinIO
	storage.InitMinio()
	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	// Get MongoDB URI from environment
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017/geocaching" // Default fallback
	}

	// Connect to MongoDB
	mongoDB := db.ConnectMongoDB(mongoURI, "geocaching")

	handlers.InitAdminHandler(mongoDB)

	api := app.Group("/api")

	// Auth Routes
	auth := api.Group("/auth")
	auth.Post("/register", handlers.RegisterHandler)
	auth.Post("/login", handlers.LoginHandler)

	// Geocache Routes
	geocache := api.Group("/geocache", middleware.AuthMiddleware)
	geocache.Get("/", handlers.ListGeocachesHandler)
	geocache.Post("/", handlers.CreateGeocacheHandler)
	geocache.Put("/:id", handlers.UpdateGeocacheHandler)
	geocache.Delete("/:id", handlers.DeleteGeocacheHandler)
	geocache.Post("/:id/found", handlers.MarkFoundHandler)
	geocache.Post("/:id/like", handlers.ToggleLikeHandler)
	geocache.Post("/:id/comment", handlers.AddCommentHandler)
	geocache.Put("/:id/comment/:commentId", handlers.UpdateCommentHandler)
	geocache.Delete("/:id/comment/:commentId", handlers.DeleteCommentHandler)
	geocache.Post("/:id/comment/:commentId/like", handlers.ToggleCommentLikeHandler)

	// Ranking Routes
	rankings := api.Group("/rankings", middleware.AuthMiddleware)
	rankings.Get("/best-customers", handlers.BestCustomersHandler)
	rankings.Get("/popular-caches", handlers.PopularCachesHandler)
	rankings.Get("/rarely-found-caches", handlers.RarelyFoundCachesHandler)

	// Upload Routes
	upload := api.Group("/upload", middleware.AuthMiddleware)
	upload.Put("/avatar", handlers.UploadAvatarHandler)
	upload.Post("/geocache/:id/photo", handlers.UploadPhotoHandler)

	// Admin Routes
	admin := api.Group("/admin", middleware.AdminMiddleware)
	admin.Get("/users", handlers.ListUsers)
	admin.Put("/users/:id", handlers.ResetPasswordHandler)
	admin.Put("/users/:id/admin", handlers.SetAdminHandler)
	admin.Delete("/users/:id", handlers.DeleteUserHandler)

	// Get port from environment
	port := os.Getenv("PORT")
	if port == "" {
		port = "5001" // Default port
	}

	// Start server
	log.Fatal(app.Listen(":" + port))
}
