package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/erp-platform/employee-service/internal/api/handler"
	"github.com/erp-platform/employee-service/internal/api/middleware"
	"github.com/erp-platform/employee-service/internal/core/domain"
	"github.com/erp-platform/employee-service/internal/core/ports"
)

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	Logger     zerolog.Logger
	Tokens     middleware.TokenVerifier
	Identities ports.IdentityResolver
	Employees  ports.EmployeeService
	Ledger     ports.LedgerService

	// Health lists the dependencies checked by /health/ready.
	Health map[string]handler.Pinger

	// Registerer and Gatherer default to the prometheus default registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	if deps.Registerer == nil {
		deps.Registerer = prometheus.DefaultRegisterer
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "employee_costs",
		Registerer: deps.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler(deps.Health)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: deps.Gatherer}))

	// --- API (principal established once, roles checked per route) ---
	employees := handler.NewEmployeeHandler(deps.Employees)
	ledger := handler.NewLedgerHandler(deps.Ledger, deps.Logger)

	api := e.Group("/api", middleware.Auth(deps.Tokens, deps.Identities, deps.Logger))

	api.POST("/employees", employees.Create, middleware.RBAC(domain.RoleAdmin, domain.RoleHRManager))
	api.GET("/employees", employees.List, middleware.RBAC(domain.RoleAdmin, domain.RoleManager, domain.RoleHRManager))
	api.GET("/employees/:id", employees.Get, middleware.Authenticated())
	api.PUT("/employees/:id", employees.Update, middleware.RBAC(domain.RoleAdmin, domain.RoleHRManager))
	api.DELETE("/employees/:id", employees.Delete, middleware.RBAC(domain.RoleAdmin))

	hours := api.Group("/employees/:employeeId/work-hours")
	hours.POST("", ledger.RegisterWorkHours, middleware.RBAC(domain.RoleAdmin, domain.RoleManager, domain.RoleEmployee))
	hours.GET("", ledger.ListWorkHours, middleware.RBAC(domain.RoleAdmin, domain.RoleManager, domain.RoleHRManager))
	hours.PUT("/:id", ledger.UpdateWorkHours, middleware.RBAC(domain.RoleAdmin, domain.RoleManager))

	allocations := api.Group("/employees/:employeeId/allocations")
	allocations.POST("", ledger.Allocate, middleware.RBAC(domain.RoleAdmin, domain.RoleManager))
	allocations.GET("/history", ledger.AllocationHistory, middleware.RBAC(domain.RoleAdmin, domain.RoleManager))

	return e
}
