package main

import (
	"os"
	"os/signal"
	"syscall"

	"go-scanner-ws/internal/broadcast"
	"go-scanner-ws/internal/handler"
	"go-scanner-ws/internal/middleware"
	"go-scanner-ws/internal/model"
	"go-scanner-ws/internal/repository"
	"go-scanner-ws/internal/service"
	"go-scanner-ws/pkg/database"
	"go-scanner-ws/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	log := logger.Get()

	db := database.ConnectDB()
	if err := db.AutoMigrate(
		&model.User{},
		&model.Article{},
		&model.BOM{},
		&model.BOMItem{},
		&model.ScanSession{},
		&model.ScanRecord{},
	); err != nil {
		log.WithError(err).Fatal("auto-migration failed")
	}

	userRepo := repository.NewUserRepo(db)
	articleRepo := repository.NewArticleRepo(db)
	bomRepo := repository.NewBOMRepo(db)
	sessionRepo := repository.NewSessionRepo(db)
	recordRepo := repository.NewRecordRepo(db)

	hub := broadcast.NewHub()

	authService := service.NewAuthService(userRepo)
	catalogService := service.NewCatalogService(articleRepo, bomRepo)
	sessionService := service.NewSessionService(sessionRepo, recordRepo, bomRepo, hub)
	scanService := service.NewScanService(db, sessionRepo, recordRepo, articleRepo, bomRepo, hub)
	reportService := service.NewReportService(sessionRepo, recordRepo, bomRepo, userRepo, scanService)

	seedDevUser(authService)

	authHandler := handler.NewAuthHandler(authService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	sessionHandler := handler.NewSessionHandler(sessionService)
	scanHandler := handler.NewScanHandler(scanService)
	reportHandler := handler.NewReportHandler(reportService)
	streamHandler := handler.NewStreamHandler(hub)

	app := fiber.New(fiber.Config{
		AppName:   "scanner-backend",
		BodyLimit: 30 << 20,
	})
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(fiberlogger.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", middleware.Protected(), authHandler.Me)

	authed := middleware.Protected()

	articles := api.Group("/articles", authed)
	articles.Post("/upload", catalogHandler.UploadArticles)
	articles.Get("/", catalogHandler.ListArticles)
	articles.Get("/:sap", catalogHandler.GetArticle)

	boms := api.Group("/boms", authed)
	boms.Post("/upload", catalogHandler.UploadBOM)
	boms.Get("/", catalogHandler.ListBOMs)
	boms.Get("/categories", catalogHandler.Categories)
	boms.Get("/:id", catalogHandler.GetBOM)
	boms.Get("/:id/items", catalogHandler.GetBOMItems)
	boms.Delete("/:id", catalogHandler.DeleteBOM)

	scan := api.Group("/scan", authed)
	scan.Get("/overview", sessionHandler.Overview)

	sessions := scan.Group("/sessions")
	sessions.Post("/", sessionHandler.Create)
	sessions.Get("/", sessionHandler.List)
	sessions.Post("/:id/end", sessionHandler.End)
	sessions.Delete("/:id", sessionHandler.Delete)
	sessions.Get("/:id/records", scanHandler.SessionRecords)
	sessions.Get("/:id/summary", scanHandler.Summary)
	sessions.Get("/:id/inventory-summary", scanHandler.InventorySummary)
	sessions.Get("/:id/inventory-summary-by-category", scanHandler.InventorySummaryByCategory)
	sessions.Get("/:id/missing-items", scanHandler.MissingItems)

	records := scan.Group("/records")
	records.Post("/", scanHandler.Record)
	records.Put("/:id", scanHandler.UpdateQuantity)
	records.Delete("/:id", scanHandler.Delete)

	reports := api.Group("/reports", authed)
	reports.Get("/session/:id/report", reportHandler.Report)
	reports.Get("/session/:id/preview", reportHandler.Preview)
	reports.Get("/session/:id/inventory-export", reportHandler.InventoryExport)

	app.Use("/events", middleware.Protected(), streamHandler.Upgrade)
	app.Get("/events/stream", streamHandler.Stream())

	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		if err := app.Listen(":" + port); err != nil {
			log.WithError(err).Fatal("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	if err := app.Shutdown(); err != nil {
		log.WithError(err).Error("shutdown failed")
	}
}

// seedDevUser creates a default operator account on first boot when
// SEED_USER_EMAIL is set, so fresh environments are usable immediately.
func seedDevUser(auth service.AuthService) {
	email := os.Getenv("SEED_USER_EMAIL")
	if email == "" {
		return
	}
	password := os.Getenv("SEED_USER_PASSWORD")
	if password == "" {
		password = "changeme123"
	}

	_, err := auth.Register(&service.RegisterRequest{
		Email:    email,
		Password: password,
		FullName: "Default Operator",
	})
	if err != nil && err != service.ErrEmailTaken {
		logger.Get().WithError(err).Warn("could not seed default user")
	}
}
