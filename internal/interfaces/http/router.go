package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/ecolend-api/internal/application/analytics"
	"github.com/jhoicas/ecolend-api/internal/application/auth"
	"github.com/jhoicas/ecolend-api/internal/application/dto"
	"github.com/jhoicas/ecolend-api/internal/application/finance"
	"github.com/jhoicas/ecolend-api/internal/application/loan"
	"github.com/jhoicas/ecolend-api/internal/application/ports"
	"github.com/jhoicas/ecolend-api/internal/application/usecase"
	"github.com/jhoicas/ecolend-api/internal/domain/entity"
	"github.com/jhoicas/ecolend-api/internal/infrastructure/metrics"
	"github.com/jhoicas/ecolend-api/pkg/logger"
)

// RateLimit intentos de login por IP.
type RateLimit struct {
	PerMinute int
	Burst     int
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	UserUC      *usecase.UserUseCase
	EquipmentUC *usecase.EquipmentUseCase
	LoanUC      *loan.LoanUseCase
	ESGUC       *analytics.ESGUseCase
	ExportUC    *analytics.ExportUseCase
	AuditUC     *analytics.AuditLogUseCase
	DashboardUC *analytics.DashboardUseCase
	Finance     *finance.Facade
	Sessions    ports.SessionRevoker
	JWTSecret   string
	LoginLimit  RateLimit
	Service     string
	// Opcionales: sin Logger no se registran peticiones; sin Metrics no hay /metrics.
	Logger  *logger.Logger
	Metrics *metrics.Metrics
	// Health verifica dependencias (p. ej. ping a PostgreSQL). nil = siempre ok.
	Health func(ctx context.Context) error
}

// Router registra middlewares y rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Metrics != nil {
		app.Use(deps.Metrics.Middleware())
	}
	if deps.Logger != nil {
		app.Use(RequestLogger(deps.Logger.Named("http")))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		if deps.Health != nil {
			if err := deps.Health(c.UserContext()); err != nil {
				c.Locals(LocalError, err)
				return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "UNHEALTHY", Message: "dependencia no disponible"})
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "service": deps.Service})
	})
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	api := app.Group("/api")

	// Auth (público, con límite por IP)
	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC)
	api.Post("/auth/login", RateLimitPerIP(deps.LoginLimit.PerMinute, deps.LoginLimit.Burst), authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("", AuthMiddleware(deps.JWTSecret, deps.Sessions))
	checker := deps.UserUC
	manageOps := RequirePermission(entity.PermManageOperations, checker)
	manageUsers := RequirePermission(entity.PermManageUsers, checker)
	viewReports := RequirePermission(entity.PermViewReports, checker)

	protected.Get("/me", authHandler.Me)

	// Equipos
	equipmentHandler := NewEquipmentHandler(deps.EquipmentUC, deps.LoanUC)
	equipment := protected.Group("/equipment")
	equipment.Get("/", equipmentHandler.List)
	equipment.Get("/:id", equipmentHandler.GetByID)
	equipment.Post("/", manageOps, equipmentHandler.Create)
	equipment.Put("/:id", manageOps, equipmentHandler.Update)
	equipment.Delete("/:id", manageOps, equipmentHandler.Delete)
	equipment.Get("/:id/loans", manageOps, equipmentHandler.ActiveLoans)

	// Préstamos
	loanHandler := NewLoanHandler(deps.LoanUC, checker)
	loans := protected.Group("/loans")
	loans.Post("/", loanHandler.Create)
	loans.Get("/mine", loanHandler.Mine)
	loans.Get("/active", manageOps, loanHandler.Active)
	loans.Post("/:id/return", loanHandler.Return)
	loans.Post("/:id/damage", loanHandler.MarkDamaged)

	// Usuarios
	userHandler := NewUserHandler(deps.UserUC)
	users := protected.Group("/users")
	users.Get("/", manageUsers, userHandler.List)
	users.Post("/", manageUsers, userHandler.Create)
	users.Post("/:id/activate", manageUsers, userHandler.Activate)
	users.Post("/:id/deactivate", manageUsers, userHandler.Deactivate)
	users.Get("/:id/roles", manageUsers, userHandler.Roles)
	users.Post("/:id/roles", manageUsers, userHandler.AssignRole)
	users.Get("/:id/loans", manageOps, loanHandler.ByUser)

	// ESG, auditoría y dashboard
	analyticsHandler := NewAnalyticsHandler(deps.ESGUC, deps.ExportUC, deps.AuditUC)
	protected.Get("/esg/metrics", viewReports, analyticsHandler.Metrics)
	protected.Get("/esg/export", viewReports, analyticsHandler.Export)
	protected.Get("/audit-logs", RequirePermission(entity.PermManageCompliance, checker), analyticsHandler.AuditLogs)
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard/executive", viewReports, dashboardHandler.Executive)

	// Finanzas
	financeHandler := NewFinanceHandler(deps.Finance)
	fin := protected.Group("/finance")
	fin.Get("/overview", viewReports, financeHandler.Overview)
	fin.Get("/suppliers", viewReports, financeHandler.ListSuppliers)
	fin.Post("/suppliers", manageOps, financeHandler.CreateSupplier)
	fin.Put("/suppliers/:id", manageOps, financeHandler.UpdateSupplier)
	fin.Get("/contracts", viewReports, financeHandler.ListContracts)
	fin.Post("/contracts", manageOps, financeHandler.CreateContract)
	fin.Get("/invoices", viewReports, financeHandler.ListInvoices)
	fin.Post("/invoices", manageOps, financeHandler.CreateInvoice)
	fin.Post("/invoices/:id/pay", manageOps, financeHandler.PayInvoice)
	fin.Post("/expenses", manageOps, financeHandler.CreateExpense)
	fin.Post("/refresh-statuses", RequirePermission(entity.PermManageSystem, checker), financeHandler.RefreshStatuses)
}
