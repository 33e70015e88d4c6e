package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ahazfernando/aussie-ops-financials/internal/admin"
	"github.com/ahazfernando/aussie-ops-financials/internal/auth"
	"github.com/ahazfernando/aussie-ops-financials/internal/clients"
	"github.com/ahazfernando/aussie-ops-financials/internal/config"
	"github.com/ahazfernando/aussie-ops-financials/internal/costs"
	"github.com/ahazfernando/aussie-ops-financials/internal/database"
	"github.com/ahazfernando/aussie-ops-financials/internal/feed"
	"github.com/ahazfernando/aussie-ops-financials/internal/finance"
	"github.com/ahazfernando/aussie-ops-financials/internal/reports"
	"github.com/ahazfernando/aussie-ops-financials/internal/router"
	"github.com/ahazfernando/aussie-ops-financials/internal/unitecon"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("error connecting to database: %v", err)
	}
	defer pool.Close()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "internal server error"

			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				code = fiberErr.Code
				message = fiberErr.Message
			}

			return c.Status(code).JSON(fiber.Map{"error": message})
		},
	})

	app.Use(router.CorsMiddleware(cfg.CORSOrigins))
	app.Use(requestLogger())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	txFeed := feed.New[finance.Transaction]()
	tracker := finance.TrackSummary(txFeed)
	defer tracker.Close()

	financeRepo := finance.NewRepo(pool)
	clientsRepo := clients.NewRepo(pool)
	costsRepo := costs.NewRepo(pool)

	r := &router.Router{
		AuthHandler: &auth.Handler{
			DB:       pool,
			Secret:   []byte(cfg.JWTSecret),
			TokenTTL: cfg.TokenTTL,
			SetupKey: cfg.AdminSetupKey,
		},
		ClientsHandler:  clients.NewHandler(clientsRepo, pool),
		FinanceHandler:  finance.NewHandler(financeRepo, txFeed, pool),
		SummaryTracker:  tracker,
		CostsHandler:    costs.NewHandler(costsRepo, pool),
		UniteconHandler: unitecon.NewHandler(financeRepo, costsRepo, clientsRepo),
		ReportsHandler:  reports.NewHandler(financeRepo),
		AdminHandler:    admin.NewHandler(pool, cfg.AdminKey),
		AuthMW:          auth.Middleware([]byte(cfg.JWTSecret)),
		WriteLimit:      router.RateLimitWrite(cfg.RateLimitMax, cfg.RateLimitWindow),
	}
	r.RegisterRoutes(app)

	log.Println("Listening on port", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}

func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		log.Printf("%s %s %d %s", c.Method(), c.Path(), status, time.Since(start))
		return err
	}
}
