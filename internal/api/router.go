package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/berneytech/helpdesk/internal/api/handler"
	"github.com/berneytech/helpdesk/internal/api/middleware"
	"github.com/berneytech/helpdesk/internal/core/ports"
	"github.com/berneytech/helpdesk/internal/core/service"
	"github.com/berneytech/helpdesk/internal/infrastructure/config"
	mongodb "github.com/berneytech/helpdesk/internal/infrastructure/db/mongo"
	redisdb "github.com/berneytech/helpdesk/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, billing ports.BillingProvider, sessionStore *mongodb.SessionStore, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{cfg.AllowedOrigin},
		AllowCredentials: true,
		AllowMethods:     []string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderContentType},
	}))
	e.Use(echoprometheus.NewMiddleware("helpdesk"))

	e.Use(session.Middleware(sessionStore))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	ticketRepo := mongodb.NewTicketRepository(db)
	messageRepo := mongodb.NewMessageRepository(db)
	subCache := redisdb.NewSubscriptionCache(rdb, cfg.Session.SubscriptionCacheTTL)

	authService := service.NewAuthService(userRepo, billing, log)
	identityService := service.NewIdentityService(userRepo, billing, subCache, log)
	ticketService := service.NewTicketService(ticketRepo, messageRepo, userRepo, log)

	authHandler := handler.NewAuthHandler(authService, identityService, log)
	ticketHandler := handler.NewTicketHandler(ticketService)
	adminHandler := handler.NewAdminHandler(userRepo)

	// Restores the identity (user + subscription) for every request carrying
	// a session; anonymous requests pass through untouched.
	e.Use(middleware.LoadIdentity(identityService, log))

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/signup", authHandler.Signup)
	auth.GET("/get", authHandler.Get)
	auth.POST("/logout", authHandler.Logout, middleware.RequireAuth)

	// --- Ticket routes (authenticated) ---
	ticket := auth.Group("/ticket", middleware.RequireAuth)
	ticket.POST("/new", ticketHandler.Create)
	ticket.GET("/view/:ticketId", ticketHandler.View)
	ticket.POST("/message/new", ticketHandler.AddMessage)

	// --- Admin routes (staff only) ---
	admin := e.Group("/api/admin", middleware.RequireAuth, middleware.RequireAccessLevel(1))
	admin.GET("/getUsers", adminHandler.ListUsers)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
