package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/timereg-api/internal/application/analytics"
	"github.com/jhoicas/timereg-api/internal/application/auth"
	"github.com/jhoicas/timereg-api/internal/application/catalog"
	"github.com/jhoicas/timereg-api/internal/application/report"
	"github.com/jhoicas/timereg-api/internal/application/scope"
	"github.com/jhoicas/timereg-api/internal/application/tenant"
	"github.com/jhoicas/timereg-api/internal/application/timer"
	"github.com/jhoicas/timereg-api/internal/domain/timesheet"
	"github.com/jhoicas/timereg-api/internal/infrastructure/metrics"
	"github.com/jhoicas/timereg-api/internal/infrastructure/notifier"
	infrapdf "github.com/jhoicas/timereg-api/internal/infrastructure/pdf"
	"github.com/jhoicas/timereg-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/timereg-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/timereg-api/internal/interfaces/http"
	"github.com/jhoicas/timereg-api/pkg/config"
	"github.com/jhoicas/timereg-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

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
		Bool("round_to_5_min", cfg.Report.RoundToStep).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		if err := postgres.RunMigrations(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Msg("migraciones aplicadas")
	}

	redisClient, err := infraredis.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a Redis")
	}
	defer redisClient.Close()

	repos := postgres.NewRepos(pool)
	txRunner := postgres.NewTxRunner(pool)
	policy := timesheet.Policy{RoundToStep: cfg.Report.RoundToStep}
	appMetrics := metrics.New(prometheus.DefaultRegisterer)

	resetNotifier, err := notifier.New(cfg.Notification, redisClient, log.Component("notifier"))
	if err != nil {
		log.Fatal().Err(err).Msg("notificador")
	}
	revoker := infraredis.NewTokenRevoker(redisClient)

	guard := scope.NewGuard(repos.Profiles, appMetrics, log.Component("scope"))
	directory := tenant.NewDirectory(txRunner, repos, log.Component("tenant"))
	catalogUC := catalog.NewUseCase(txRunner, repos, log.Component("catalog")).WithRecorder(appMetrics)
	timerManager := timer.NewManager(txRunner, repos, policy, appMetrics, log.Component("timer"))
	reportUC := report.NewUseCase(repos, policy, infrapdf.NewMarotoTimesheetGenerator(cfg.Report.Locale))
	dashboardUC := analytics.NewDashboardUseCase(repos, policy)
	authUC := auth.NewAuthUseCase(auth.Deps{
		Tx:       txRunner,
		Repos:    repos,
		Codes:    infraredis.NewResetCodeStore(redisClient, cfg.Notification.CodeTTL),
		Notifier: resetNotifier,
		Revoker:  revoker,
	}, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log.Component("auth"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30, // exportación PDF
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Timereg API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "db_unavailable", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		Directory:   directory,
		Catalog:     catalogUC,
		Timer:       timerManager,
		Reports:     reportUC,
		DashboardUC: dashboardUC,
		Guard:       guard,
		Policy:      policy,
		Revoker:     revoker,
		Gatherer:    prometheus.DefaultGatherer,
		JWTSecret:   cfg.JWT.Secret,
		AuthRate:    cfg.HTTP.AuthRatePerMinute,
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

	log.Info().Msg("aplicación detenida")
}
