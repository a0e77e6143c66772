// handlers/app.go
package handlers

import (
	"time"

	"rank-progression-system/logger"
	"rank-progression-system/metrics"
	"rank-progression-system/middleware"
	"rank-progression-system/services"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Services bundles everything the HTTP layer depends on.
type Services struct {
	DB            *gorm.DB
	Ranks         *services.RankService
	Notifications *services.NotificationService
	Users         *services.UserService
	Missions      *services.MissionService
	Shop          *services.ShopService
	Artifacts     *services.ArtifactService
	Cards         *services.CardService
}

type AppOptions struct {
	AllowedOrigins string
	ServiceToken   string
	// AdminRole guards requirement writes and notification deletes. Empty disables the guard.
	AdminRole string
}

// NewApp builds the fiber application with middleware and every route mounted.
func NewApp(opts AppOptions, svc Services, log *logger.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "rank-progression-system",
		BodyLimit:    10 * 1024 * 1024,
		ReadTimeout:  30 * time.Second,
		JSONEncoder:  sonic.Marshal,
		JSONDecoder:  sonic.Unmarshal,
		ErrorHandler: ErrorHandler(log),
	})

	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(middleware.RequestLogger(log))
	app.Use(middleware.ActorContext())

	if opts.AllowedOrigins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     opts.AllowedOrigins,
			AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
			AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, X-User-ID, X-User-Roles, Cache-Control",
			ExposeHeaders:    "Content-Length, Content-Type, X-Request-ID",
			AllowCredentials: true,
			MaxAge:           86400,
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		if svc.DB != nil {
			sqlDB, err := svc.DB.DB()
			if err != nil {
				return err
			}
			if err := sqlDB.PingContext(c.UserContext()); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
			}
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	api := app.Group("/api", middleware.GatewayAuthMiddleware(opts.ServiceToken, log))
	admin := middleware.RequireRole(opts.AdminRole)
	SetupRankRoutes(api, svc.Ranks, svc.Notifications, admin, log)
	SetupNotificationRoutes(api, svc.Notifications, admin)
	SetupUserRoutes(api, svc.Users)
	SetupMissionRoutes(api, svc.Missions)
	SetupShopRoutes(api, svc.Shop)
	SetupArtifactRoutes(api, svc.Artifacts)
	SetupCardRoutes(api, svc.Cards)

	return app
}
