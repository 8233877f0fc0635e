package bootstrap

import (
	"strings"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"

	httpadapter "mailmind_server/adapter/in/http"
	"mailmind_server/config"
	"mailmind_server/infra/middleware"
	"mailmind_server/pkg/logger"
)

// NewAPI assembles the Fiber application with its full middleware stack and
// routes.
func NewAPI(cfg *config.Config) (*fiber.App, func(), error) {
	logLevel := logger.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = logger.LevelDebug
	}
	logger.Init(logger.Config{
		Level:   logLevel,
		Service: "mailmind-api",
	})

	deps, cleanup, err := NewDependencies(cfg)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize dependencies")
		return nil, nil, err
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          middleware.ErrorHandler(),
		DisableStartupMessage: cfg.IsProduction(),
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		BodyLimit:             2 * 1024 * 1024,
	})

	// Global middleware stack (order matters)
	app.Use(middleware.Recover())
	app.Use(middleware.RequestID())
	app.Use(middleware.RequestLogger())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	allowOrigins := strings.Join(cfg.AllowedOrigins, ",")
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization,X-Request-ID",
		ExposeHeaders:    "X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Health checks, no auth required
	healthHandler := httpadapter.NewHealthHandler(deps.MongoClient, deps.Redis)
	healthHandler.Register(app)

	requireSession := middleware.JWTAuth(cfg.JWTSecret)

	// OAuth flow: login and callback are public, Google redirects back here
	authHandler := httpadapter.NewAuthHandler(deps.Store.Users(), deps.OAuthConfig, cfg.JWTSecret)
	authHandler.Register(app, requireSession)

	// Everything else requires a session token
	api := app.Group("/api")
	api.Use(requireSession)

	emails := api.Group("/emails")
	httpadapter.NewEmailHandler(deps.TriageService, deps.FetchCooldown).Register(emails)
	httpadapter.NewPreferenceHandler(deps.PreferenceService).Register(emails)
	httpadapter.NewCalendarHandler(deps.CalendarService).Register(emails)
	httpadapter.NewNotificationHandler(deps.NotificationService).Register(emails)

	return app, cleanup, nil
}
