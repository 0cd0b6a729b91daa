package server

import (
	"github.com/fadilmartias/candidate-screener/internal/config"
	"github.com/fadilmartias/candidate-screener/internal/middleware"
	"github.com/fadilmartias/candidate-screener/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// RouteRegistrar is implemented by every handler.
type RouteRegistrar interface {
	RegisterRoutes(router fiber.Router)
}

// NewApp builds the Fiber app with the shared middleware stack and mounts
// each handler under cfg.RoutePrefix.
func NewApp(cfg *config.AppConfig, handlers ...RouteRegistrar) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		ErrorHandler: util.FiberErrorHandler,
		// Emails arrive percent-encoded in path params.
		UnescapePath: true,
	})

	app.Use(util.WithEnvironment(cfg.IsProduction()))
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: !cfg.IsProduction(),
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(pprof.New(pprof.Config{
		Next: func(c *fiber.Ctx) bool {
			return cfg.IsProduction()
		},
	}))
	app.Use(healthcheck.New())
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(middleware.RateLimiter(cfg.RateLimitMax, 0, middleware.SkipPaths(cfg.RoutePrefix+"/health")))

	var router fiber.Router = app
	if cfg.RoutePrefix != "" {
		router = app.Group(cfg.RoutePrefix)
	}
	for _, h := range handlers {
		h.RegisterRoutes(router)
	}
	return app
}
