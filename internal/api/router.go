package api

import (
	"strconv"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/proteccion-civil/incident-system/internal/api/handler"
	"github.com/proteccion-civil/incident-system/internal/api/middleware"
	"github.com/proteccion-civil/incident-system/internal/core/domain"
	"github.com/proteccion-civil/incident-system/internal/core/ports"
	"github.com/proteccion-civil/incident-system/internal/pkg/ids"
)

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Auth         *handler.AuthHandler
	Events       *handler.EventHandler
	Corporations *handler.CatalogHandler
	Motives      *handler.CatalogHandler
	Incidents    *handler.IncidentHandler
	Evidence     *handler.EvidenceHandler
	Users        *handler.UserHandler
	Health       *handler.HealthHandler
}

// Options configures the cross-cutting middleware.
type Options struct {
	CORSOrigins    []string
	BodyLimitBytes int64
	Log            zerolog.Logger
	// Registry receives the HTTP metrics. Nil means the default registry.
	Registry       *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(h Handlers, tokens ports.TokenService, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{Generator: ids.New}))
	e.Use(requestLogger(opts.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     opts.CORSOrigins,
		AllowCredentials: true,
		AllowHeaders: []string{
			echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept,
			echo.HeaderAuthorization, handler.IdempotencyHeader,
		},
	}))
	if opts.BodyLimitBytes > 0 {
		e.Use(echomiddleware.BodyLimit(strconv.FormatInt(opts.BodyLimitBytes, 10) + "B"))
	}
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if opts.Registry != nil {
		registerer, gatherer = opts.Registry, opts.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "incidents",
		Registerer: registerer,
	}))

	session := middleware.RequireSession(tokens)
	optional := middleware.OptionalSession(tokens)
	admin := middleware.RBAC(domain.RoleAdmin)
	editor := middleware.RBAC(domain.RoleAdmin, domain.RoleCapturista)

	// --- Auth ---
	auth := e.Group("/auth")
	auth.POST("/login", h.Auth.Login)
	auth.GET("/me", h.Auth.Me, session)
	auth.POST("/logout", h.Auth.Logout)

	// --- Events ---
	ev := e.Group("/eventos")
	ev.GET("/activos", h.Events.ListActive)
	ev.GET("/inactivos", h.Events.ListInactive)
	ev.GET("/:id", h.Events.Get)
	ev.POST("", h.Events.Create, session, admin)
	ev.PUT("/:id", h.Events.Update, session, admin)
	ev.DELETE("/:id", h.Events.Delete, session, admin)

	// --- Catalogs ---
	mountCatalog(e.Group("/corporaciones"), "/activas", h.Corporations, session, admin)
	mountCatalog(e.Group("/motivos"), "/activos", h.Motives, session, admin)

	// --- Incidents ---
	inc := e.Group("/incidencias")
	inc.GET("/catalogos/corporaciones", h.Incidents.Corporations)
	inc.GET("/catalogos/motivos", h.Incidents.Motives)
	inc.GET("/evento/:idEvento", h.Incidents.ListByEvent, optional)
	inc.GET("/evento/:idEvento/filtrar", h.Incidents.Filter, optional)
	inc.GET("/evento/:idEvento/estadisticas", h.Incidents.Stats)
	inc.GET("/:id", h.Incidents.Get, optional)
	inc.POST("", h.Incidents.Create, session, editor)
	inc.PUT("/:id", h.Incidents.Update, session, editor)
	inc.PUT("/:id/cerrar", h.Incidents.Close, session, editor)
	inc.DELETE("/:id", h.Incidents.Delete, session, admin)

	// --- Evidence ---
	evd := e.Group("/evidencias")
	evd.GET("/incidencia/:id", h.Evidence.ListByIncident)
	evd.GET("/incidencia/:id/estadisticas", h.Evidence.Stats)
	evd.GET("/:id", h.Evidence.Get)
	evd.GET("/:id/descargar", h.Evidence.Download)
	evd.POST("/upload", h.Evidence.Upload, session, editor)
	evd.DELETE("/:id", h.Evidence.Delete, session, editor)

	// --- Admin users ---
	users := e.Group("/usuarios-admin", session, admin)
	users.GET("", h.Users.List)
	users.GET("/:id", h.Users.Get)
	users.POST("", h.Users.Create)
	users.PUT("/:id", h.Users.Update)
	users.PATCH("/:id/toggle", h.Users.Toggle)
	users.DELETE("/:id", h.Users.Delete)

	// --- Probes and docs (no auth required) ---
	e.GET("/health", h.Health.Liveness)
	e.GET("/health/ready", h.Health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func mountCatalog(g *echo.Group, activePath string, h *handler.CatalogHandler, mw ...echo.MiddlewareFunc) {
	g.GET("", h.List)
	g.GET(activePath, h.ListActive)
	g.GET("/:id", h.Get)
	g.POST("", h.Create, mw...)
	g.PUT("/:id", h.Update, mw...)
	g.PATCH("/:id/toggle", h.Toggle, mw...)
	g.DELETE("/:id", h.Delete, mw...)
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics" || c.Path() == "/health"
		},
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			} else if v.Status >= 400 {
				ev = log.Warn()
			}
			ev.Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
