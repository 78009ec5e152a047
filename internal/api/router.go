package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/habitat-society/habitat-api/docs"
	"github.com/habitat-society/habitat-api/internal/api/handler"
	"github.com/habitat-society/habitat-api/internal/api/middleware"
	"github.com/habitat-society/habitat-api/internal/core/domain"
	"github.com/habitat-society/habitat-api/internal/core/ports"
	"github.com/habitat-society/habitat-api/internal/core/service"
	mongorepo "github.com/habitat-society/habitat-api/internal/infrastructure/db/mongo"
	redisstore "github.com/habitat-society/habitat-api/internal/infrastructure/db/redis"
	"github.com/habitat-society/habitat-api/internal/infrastructure/http/handlers"
	"github.com/habitat-society/habitat-api/internal/pkg/config"
)

// Deps carries the process-wide resources the router wires handlers from.
type Deps struct {
	Config   *config.Config
	Log      zerolog.Logger
	DB       *mongo.Database
	Redis    *redis.Client
	Payments ports.PaymentService
	Ledger   ports.PaymentPublisher
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(d.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: d.Config.CORS.AllowedOrigins,
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
			headerIdempotencyKey,
		},
	}))
	e.Use(echomiddleware.BodyLimit(d.Config.BodyLimit))
	e.Use(echoprometheus.NewMiddleware("habitat"))

	// --- Dependencies ---
	cost := d.Config.Auth.BcryptCost
	tokens := service.NewJWTIssuer(d.Config.Auth.JWTSecret, d.Config.Auth.TokenTTL)

	userRepo := mongorepo.NewUserRepository(d.DB)
	amenityRepo := mongorepo.NewAmenityRepository(d.DB)
	technicianRepo := mongorepo.NewTechnicianRepository(d.DB)

	authService := service.NewAuthService(userRepo, tokens, cost, d.Log)
	userService := service.NewUserService(userRepo, cost, d.Log)
	billService := service.NewBillService(
		mongorepo.NewBillRepository(d.DB),
		userRepo,
		redisstore.NewIdempotencyStore(d.Redis, "bills-generate"),
		d.Ledger,
		d.Log,
	)
	bookingService := service.NewBookingService(mongorepo.NewBookingRepository(d.DB), amenityRepo, d.Log)
	issueService := service.NewIssueService(mongorepo.NewIssueRepository(d.DB), technicianRepo, d.Log)
	visitorService := service.NewVisitorService(mongorepo.NewVisitorRepository(d.DB), d.Log)
	amenityService := service.NewAmenityService(amenityRepo, d.Log)
	technicianService := service.NewTechnicianService(technicianRepo, d.Log)
	noticeService := service.NewNoticeService(mongorepo.NewNoticeRepository(d.DB), d.Log)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	billHandler := handler.NewBillHandler(billService, d.Payments)
	bookingHandler := handler.NewBookingHandler(bookingService)
	issueHandler := handler.NewIssueHandler(issueService)
	visitorHandler := handler.NewVisitorHandler(visitorService)
	amenityHandler := handler.NewAmenityHandler(amenityService)
	technicianHandler := handler.NewTechnicianHandler(technicianService)
	noticeHandler := handler.NewNoticeHandler(noticeService)

	authMiddleware := middleware.Auth(tokens, authService)
	can := middleware.RequirePermission
	managers := middleware.RequireRole(domain.RoleAdmin, domain.RoleCommittee)

	// --- Health probes and tooling (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(map[string]handlers.Check{
		"mongodb": handlers.MongoCheck(d.DB),
		"redis":   handlers.RedisCheck(d.Redis),
	})

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	if !d.Config.IsProduction() {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	g := e.Group("/api")

	// --- Auth routes ---
	g.POST("/auth/register", authHandler.Register)
	g.POST("/auth/login", authHandler.Login)
	g.GET("/auth/me", authHandler.Me, authMiddleware)
	g.GET("/auth/permissions", authHandler.Permissions, authMiddleware)

	// --- Everything below requires a bearer token ---
	r := securedRoutes{group: g, auth: authMiddleware}

	registerUserRoutes(r, userHandler, authHandler)

	r.GET("/bills", billHandler.List, can(domain.PermBillsRead))
	r.GET("/bills/:id", billHandler.Get, can(domain.PermBillsRead))
	r.POST("/bills", billHandler.Create, can(domain.PermBillsWrite), managers)
	r.POST("/bills/generate", billHandler.Generate, can(domain.PermBillsWrite), managers)
	r.PUT("/bills/:id", billHandler.Update, can(domain.PermBillsWrite), managers)
	r.DELETE("/bills/:id", billHandler.Delete, can(domain.PermBillsDelete))
	r.PATCH("/bills/:id/pay", billHandler.Pay, can(domain.PermBillsWrite))
	r.GET("/payments", billHandler.Payments, can(domain.PermPaymentsRead))

	r.GET("/bookings", bookingHandler.List, can(domain.PermBookingsRead))
	r.GET("/bookings/:id", bookingHandler.Get, can(domain.PermBookingsRead))
	r.POST("/bookings", bookingHandler.Create, can(domain.PermBookingsWrite))
	r.PUT("/bookings/:id", bookingHandler.Update, can(domain.PermBookingsWrite))
	r.DELETE("/bookings/:id", bookingHandler.Delete, can(domain.PermBookingsDelete))
	r.PATCH("/bookings/:id/approve", bookingHandler.Approve, can(domain.PermBookingsWrite), middleware.RequireRole(domain.RoleAdmin))
	r.PATCH("/bookings/:id/cancel", bookingHandler.Cancel, can(domain.PermBookingsWrite))

	r.GET("/amenities", amenityHandler.List, can(domain.PermAmenitiesRead))
	r.GET("/amenities/:id", amenityHandler.Get, can(domain.PermAmenitiesRead))
	r.POST("/amenities", amenityHandler.Create, can(domain.PermAmenitiesWrite))
	r.PUT("/amenities/:id", amenityHandler.Update, can(domain.PermAmenitiesWrite))
	r.DELETE("/amenities/:id", amenityHandler.Delete, can(domain.PermAmenitiesDelete))

	r.GET("/issues", issueHandler.List, can(domain.PermIssuesRead))
	r.GET("/issues/:id", issueHandler.Get, can(domain.PermIssuesRead))
	r.POST("/issues", issueHandler.Create, can(domain.PermIssuesWrite))
	r.PUT("/issues/:id", issueHandler.Update, can(domain.PermIssuesWrite))
	r.DELETE("/issues/:id", issueHandler.Delete, can(domain.PermIssuesDelete))

	r.GET("/technicians", technicianHandler.List, can(domain.PermTechniciansRead))
	r.GET("/technicians/:id", technicianHandler.Get, can(domain.PermTechniciansRead))
	r.POST("/technicians", technicianHandler.Create, can(domain.PermTechniciansWrite))
	r.PUT("/technicians/:id", technicianHandler.Update, can(domain.PermTechniciansWrite))
	r.DELETE("/technicians/:id", technicianHandler.Delete, can(domain.PermTechniciansDelete))

	r.GET("/visitors", visitorHandler.List, can(domain.PermVisitorsRead))
	r.GET("/visitors/:id", visitorHandler.Get, can(domain.PermVisitorsRead))
	r.POST("/visitors", visitorHandler.Create, can(domain.PermVisitorsWrite))
	r.PUT("/visitors/:id", visitorHandler.Update, can(domain.PermVisitorsWrite))
	r.DELETE("/visitors/:id", visitorHandler.Delete, can(domain.PermVisitorsDelete))
	r.PATCH("/visitors/:id/checkout", visitorHandler.Checkout, can(domain.PermVisitorsWrite))

	r.GET("/notices", noticeHandler.List, can(domain.PermNoticesRead))
	r.GET("/notices/:id", noticeHandler.Get, can(domain.PermNoticesRead))
	r.POST("/notices", noticeHandler.Create, can(domain.PermNoticesWrite))
	r.PUT("/notices/:id", noticeHandler.Update, can(domain.PermNoticesWrite))
	r.DELETE("/notices/:id", noticeHandler.Delete, can(domain.PermNoticesDelete))

	return e
}

const headerIdempotencyKey = "Idempotency-Key"

// securedRoutes attaches the auth middleware to each route rather than to a
// group, since group middleware also guards the group's catch-all route and
// would turn unknown paths into 401 instead of 404.
type securedRoutes struct {
	group *echo.Group
	auth  echo.MiddlewareFunc
}

func (s securedRoutes) add(method, path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	s.group.Add(method, path, h, append([]echo.MiddlewareFunc{s.auth}, m...)...)
}

func (s securedRoutes) GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	s.add(http.MethodGet, path, h, m...)
}

func (s securedRoutes) POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	s.add(http.MethodPost, path, h, m...)
}

func (s securedRoutes) PUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	s.add(http.MethodPut, path, h, m...)
}

func (s securedRoutes) PATCH(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	s.add(http.MethodPatch, path, h, m...)
}

func (s securedRoutes) DELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	s.add(http.MethodDelete, path, h, m...)
}

// registerUserRoutes wires the user directory. Creating accounts with an
// arbitrary role is admin only; users:write alone is not enough.
func registerUserRoutes(r securedRoutes, users *handler.UserHandler, auth *handler.AuthHandler) {
	can := middleware.RequirePermission

	r.GET("/users/me", auth.Me)
	r.PUT("/users/me", users.UpdateMe)
	r.GET("/users", users.List, can(domain.PermUsersRead))
	r.GET("/users/:id", users.Get, can(domain.PermUsersRead))
	r.POST("/users", users.Create, can(domain.PermUsersWrite), middleware.RequireRole(domain.RoleAdmin))
	r.PUT("/users/:id", users.Update, can(domain.PermUsersWrite))
	r.DELETE("/users/:id", users.Delete, can(domain.PermUsersDelete))
}

// requestLogger emits one zerolog event per request after the error handler
// has set the final status.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		HandleError:  true,
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
