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

	"github.com/gadgetops/resale-api/internal/application/dailystock"
	"github.com/gadgetops/resale-api/internal/application/lifecycle"
	"github.com/gadgetops/resale-api/internal/application/usecase"
	"github.com/gadgetops/resale-api/internal/infrastructure/mailer"
	infrapdf "github.com/gadgetops/resale-api/internal/infrastructure/pdf"
	"github.com/gadgetops/resale-api/internal/infrastructure/postgres"
	httpRouter "github.com/gadgetops/resale-api/internal/interfaces/http"
	"github.com/gadgetops/resale-api/pkg/config"
	"github.com/gadgetops/resale-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
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

	companyRepo := postgres.NewCompanyRepository(pool)
	itemRepo := postgres.NewItemRepository(pool)
	logRepo := postgres.NewChangeLogRepository(pool)
	returnRepo := postgres.NewReturnRepository(pool)
	sessionRepo := postgres.NewSessionRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	lifecycleUC := lifecycle.NewUseCase(txRunner, itemRepo, logRepo, returnRepo)
	companyUC := usecase.NewCompanyUseCase(companyRepo)
	analyticsUC := usecase.NewAnalyticsUseCase(analyticsRepo)

	// Reporte diario: el envío por correo se activa solo con SMTP configurado.
	var sender dailystock.ReportSender
	if cfg.SMTP.Enabled() {
		sender = mailer.NewGomailSender(cfg.SMTP)
		log.Info().Str("host", cfg.SMTP.Host).Msg("SMTP habilitado para reportes diarios")
	} else {
		log.Warn().Msg("SMTP sin configurar; el reporte diario por correo queda deshabilitado")
	}
	pdfGenerator := infrapdf.NewDailyReportGenerator()
	dailyUC := dailystock.NewUseCase(sessionRepo, itemRepo, companyRepo, sender, pdfGenerator, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "GadgetOps Resale API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CompanyUC:   companyUC,
		LifecycleUC: lifecycleUC,
		DailyUC:     dailyUC,
		AnalyticsUC: analyticsUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("apagando servidor")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("apagado del servidor HTTP")
	}
}
