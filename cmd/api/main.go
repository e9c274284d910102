package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/ecolend-api/docs"
	"github.com/jhoicas/ecolend-api/internal/application/analytics"
	"github.com/jhoicas/ecolend-api/internal/application/auth"
	"github.com/jhoicas/ecolend-api/internal/application/finance"
	"github.com/jhoicas/ecolend-api/internal/application/loan"
	"github.com/jhoicas/ecolend-api/internal/application/ports"
	"github.com/jhoicas/ecolend-api/internal/application/usecase"
	inframetrics "github.com/jhoicas/ecolend-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/ecolend-api/internal/infrastructure/pdf"
	"github.com/jhoicas/ecolend-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/ecolend-api/internal/infrastructure/redis"
	"github.com/jhoicas/ecolend-api/internal/infrastructure/scheduler"
	"github.com/jhoicas/ecolend-api/internal/infrastructure/xmlreport"
	httpRouter "github.com/jhoicas/ecolend-api/internal/interfaces/http"
	"github.com/jhoicas/ecolend-api/pkg/config"
	"github.com/jhoicas/ecolend-api/pkg/logger"
)

// @title                      EcoLend API
// @version                    1.0
// @description                Préstamo de equipos y reportes ESG.
// @BasePath                   /
// @securityDefinitions.apikey Bearer
// @in                         header
// @name                       Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	applied, err := postgres.Migrate(ctx, pool)
	if err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	for _, name := range applied {
		log.Info().Str("migration", name).Msg("migración aplicada")
	}

	// Revocación de sesiones: sin Redis los tokens de usuarios desactivados siguen vigentes hasta expirar.
	var sessions ports.SessionRevoker = ports.NoopSessionRevoker{}
	if cfg.Redis.Enabled() {
		rdb, err := infraredis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		sessions = infraredis.NewSessionStore(rdb, time.Duration(cfg.JWT.Expiration)*time.Minute)
	} else {
		log.Warn().Msg("REDIS_ADDR vacío: revocación de sesiones deshabilitada")
	}

	metrics := inframetrics.New(true)

	txRunner := postgres.NewTxRunner(pool)
	userRepo := postgres.NewUserRepository(pool)
	equipmentRepo := postgres.NewEquipmentRepository(pool)
	loanRepo := postgres.NewLoanRepository(pool)
	auditRepo := postgres.NewAuditLogRepository(pool)
	analyticsRepo := postgres.NewESGAnalyticsRepository(pool)

	userUC := usecase.NewUserUseCase(txRunner, userRepo, sessions)
	equipmentUC := usecase.NewEquipmentUseCase(txRunner, equipmentRepo)
	loanUC := loan.NewLoanUseCase(txRunner, loanRepo, metrics)
	esgUC := analytics.NewESGUseCase(analyticsRepo)
	exportUC := analytics.NewExportUseCase(esgUC, infrapdf.NewESGReportRenderer(cfg.App.Name), xmlreport.NewESGReportRenderer())
	auditUC := analytics.NewAuditLogUseCase(auditRepo)
	dashboardUC := analytics.NewDashboardUseCase(analyticsRepo)
	financeFacade := finance.NewFacade(txRunner, finance.Repositories{
		Suppliers: postgres.NewSupplierRepository(pool),
		Contracts: postgres.NewContractRepository(pool),
		Invoices:  postgres.NewInvoiceRepository(pool),
		Expenses:  postgres.NewExpenseRepository(pool),
	})
	authUC := auth.NewAuthUseCase(userRepo, userUC, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	created, err := authUC.BootstrapAdmin(ctx, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword, cfg.Bootstrap.AdminName)
	if err != nil {
		log.Fatal().Err(err).Msg("crear administrador inicial")
	}
	if created {
		log.Info().Str("email", cfg.Bootstrap.AdminEmail).Msg("administrador inicial creado")
	}

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched, err = scheduler.New(log, financeFacade, metrics, cfg.Scheduler.FinanceRefreshCron)
		if err != nil {
			log.Fatal().Err(err).Msg("registrar tareas programadas")
		}
		sched.Start()
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(cors.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "EcoLend API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		UserUC:      userUC,
		EquipmentUC: equipmentUC,
		LoanUC:      loanUC,
		ESGUC:       esgUC,
		ExportUC:    exportUC,
		AuditUC:     auditUC,
		DashboardUC: dashboardUC,
		Finance:     financeFacade,
		Sessions:    sessions,
		JWTSecret:   cfg.JWT.Secret,
		LoginLimit: httpRouter.RateLimit{
			PerMinute: cfg.RateLimit.LoginPerMinute,
			Burst:     cfg.RateLimit.LoginBurst,
		},
		Service: cfg.App.Name,
		Logger:  log,
		Metrics: metrics,
		Health:  pool.Ping,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if sched != nil {
		sched.Stop(shutdownCtx)
	}

	log.Info().Msg("aplicación detenida")
}
