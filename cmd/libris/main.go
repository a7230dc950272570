package main

import (
	"context"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"libris/internal/config"
	"libris/internal/http/handlers"
	applog "libris/internal/log"
	"libris/internal/repos"
	"libris/internal/services"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	// Templates & app
	engine := html.New("./web/templates", ".html")

	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			// Avoid leaking internals; the API gets JSON, pages get the friendly view
			if strings.HasPrefix(c.Path(), "/api/") {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
			}
			if rerr := c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{
				"Message": "Something went wrong. Please try again.",
			}); rerr != nil {
				return c.Status(fiber.StatusInternalServerError).SendString("Something went wrong. Please try again.")
			}
			return nil
		},
	})
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(cors.New()) // API is consumed by an external frontend
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.limit.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	}))

	// ---------- App handlers ----------
	deps := handlers.NewDeps(db)

	app.Get("/", deps.MetaHandler.Dashboard)
	app.Get("/schema", deps.MetaHandler.Schema)
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })

	api := app.Group("/api")

	api.Get("/books", deps.BookHandler.List)
	api.Post("/books", deps.BookHandler.Create)
	api.Put("/books/:id", deps.BookHandler.Update)
	api.Delete("/books/:id", deps.BookHandler.Delete)
	api.Get("/books/:id/availability", deps.BookHandler.Availability)

	api.Get("/members", deps.MemberHandler.List)
	api.Post("/members", deps.MemberHandler.Create)
	api.Put("/members/:id", deps.MemberHandler.Update)
	api.Delete("/members/:id", deps.MemberHandler.Delete)

	api.Get("/loans", deps.LoanHandler.List)
	api.Post("/loans/borrow", deps.LoanHandler.Borrow)
	api.Post("/loans/:id/return", deps.LoanHandler.Return)

	api.Get("/stats", deps.StatsHandler.Summary)

	// 404 fallthrough
	app.Use(func(c *fiber.Ctx) error {
		if strings.HasPrefix(c.Path(), "/api/") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
		}
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Page not found"})
	})

	// Background overdue sweep keeps persisted loan status in step with due dates
	sweeper := services.NewOverdueSweeper(deps.LoanRepo, cfg.SweepEvery)
	go sweeper.Run(context.Background())

	log.Fatal(app.Listen(":" + cfg.Port))
}
