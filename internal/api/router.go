package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/Ritesh-201/rbac-and-forms/docs"
	"github.com/Ritesh-201/rbac-and-forms/internal/api/handler"
	"github.com/Ritesh-201/rbac-and-forms/internal/api/middleware"
	"github.com/Ritesh-201/rbac-and-forms/internal/core/ports"
	"github.com/Ritesh-201/rbac-and-forms/internal/core/rbac"
	"github.com/Ritesh-201/rbac-and-forms/internal/infrastructure/http/handlers"
)

const (
	formBodyLimit   = "64K"
	uploadBodyLimit = "26M" // several files of up to 5MB each
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Log       zerolog.Logger
	JWTSecret string
	Origins   []string

	Boards    ports.BoardService
	Sessions  ports.SessionService
	Directory ports.UserDirectory
	// Audit is optional; without it the history endpoint answers 404.
	Audit handler.AuditLog
	// Checks are run by /health/ready, keyed by dependency name.
	Checks map[string]handlers.Check
	// Metrics defaults to the global Prometheus registry.
	Metrics *prometheus.Registry
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
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	if len(d.Origins) > 0 {
		e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
			AllowOrigins:  d.Origins,
			AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization, "Idempotency-Key"},
			ExposeHeaders: []string{echo.HeaderXRequestID},
		}))
	}

	promMW := echoprometheus.MiddlewareConfig{Namespace: "taskboard", Subsystem: "http"}
	promHandler := echoprometheus.HandlerConfig{}
	if d.Metrics != nil {
		promMW.Registerer = d.Metrics
		promHandler.Gatherer = d.Metrics
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(promMW))

	// --- Dependencies ---
	sessionHandler := handler.NewSessionHandler(d.Sessions)
	directoryHandler := handler.NewDirectoryHandler(d.Directory)
	boardHandler := handler.NewBoardHandler(d.Boards, d.Audit)
	formHandler := handler.NewFormHandler()
	authMiddleware := middleware.Auth(d.JWTSecret)

	v1 := e.Group("/v1")

	// --- Session (no auth: the role switcher is how a token is obtained) ---
	v1.POST("/session", sessionHandler.Switch)

	// --- Directory ---
	v1.GET("/abilities", directoryHandler.Abilities, authMiddleware)
	v1.GET("/employees", directoryHandler.Employees, authMiddleware, middleware.RBAC(rbac.ActionRead, rbac.SubjectBoard))
	v1.GET("/team", directoryHandler.Team, authMiddleware, middleware.RBAC(rbac.ActionManage, rbac.SubjectUser))

	// --- Boards ---
	// Mutations carry no RBAC guard: denials are resolved per task by the
	// board service and reported as outcomes.
	boards := v1.Group("/boards/:board_id", authMiddleware)
	boards.GET("", boardHandler.Get, middleware.RBAC(rbac.ActionRead, rbac.SubjectBoard))
	boards.POST("/moves", boardHandler.Move)
	boards.POST("/tasks", boardHandler.CreateTask)
	boards.PATCH("/tasks/:task_id", boardHandler.EditTask)
	boards.GET("/mutations", boardHandler.History, middleware.RBAC(rbac.ActionManage, rbac.SubjectBoard))

	// --- Forms ---
	// Bodies are capped before they are read or spooled to disk.
	forms := v1.Group("/forms")
	jsonLimit := echomiddleware.BodyLimit(formBodyLimit)
	forms.POST("/registration", formHandler.Registration, jsonLimit)
	forms.POST("/registration/steps/:step", formHandler.RegistrationStep, jsonLimit)
	forms.POST("/support", formHandler.Support, jsonLimit)
	forms.POST("/upload", formHandler.Upload, echomiddleware.BodyLimit(uploadBodyLimit))

	// --- Health checks (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	readinessHandler := handlers.NewReadinessHandler(d.Checks)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(promHandler))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogStatus:    true,
		LogMethod:    true,
		LogURI:       true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			switch {
			case v.Status >= 500:
				ev = log.Error().Err(v.Error)
			case v.Error != nil:
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
