// @title        Painel Almoxarifado BFF
// @version      1.0
// @description  Estado de las páginas del painel del almoxarifado sobre el backend REST.
// @BasePath     /
// @securityDefinitions.apikey Bearer
// @in           header
// @name         Authorization
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

	appadmin "github.com/jhoicas/painel-almoxarifado/internal/application/admin"
	appanalytics "github.com/jhoicas/painel-almoxarifado/internal/application/analytics"
	"github.com/jhoicas/painel-almoxarifado/internal/application/operator"
	"github.com/jhoicas/painel-almoxarifado/internal/application/product"
	"github.com/jhoicas/painel-almoxarifado/internal/application/workspace"
	"github.com/jhoicas/painel-almoxarifado/internal/infrastructure/almoxapi"
	infrapdf "github.com/jhoicas/painel-almoxarifado/internal/infrastructure/pdf"
	"github.com/jhoicas/painel-almoxarifado/internal/infrastructure/prefs"
	"github.com/jhoicas/painel-almoxarifado/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/painel-almoxarifado/internal/interfaces/http"
	"github.com/jhoicas/painel-almoxarifado/pkg/config"
	"github.com/jhoicas/painel-almoxarifado/pkg/logger"
)

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
		Str("backend", cfg.Backend.URL).
		Msg("iniciando aplicación")

	loc := cfg.App.Location()
	timeout := cfg.Backend.Timeout()

	policy, err := appanalytics.ParseUnknownLevelPolicy(cfg.Dashboard.RollupUnknownPolicy)
	if err != nil {
		log.Fatal().Err(err).Msg("política de rollup")
	}

	api, err := almoxapi.NewClient(almoxapi.Options{
		BaseURL:        cfg.Backend.URL,
		Timeout:        timeout,
		MaxConcurrency: cfg.Backend.MaxConcurrency,
		MaxProducts:    cfg.Backend.ExpiryMaxProducts,
		Location:       loc,
		Logger:         log.Component("almoxapi"),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("cliente del backend")
	}

	prefStore, err := prefs.NewFileStore(cfg.Prefs.Dir)
	if err != nil {
		log.Fatal().Err(err).Msg("directorio de preferencias")
	}

	registry := workspace.NewRegistry(api, prefStore, workspace.Config{
		Policy:      policy,
		Timeout:     timeout,
		Location:    loc,
		IdleTimeout: cfg.Workspace.IdleTimeout(),
		Logger:      log.Zerolog(),
	})
	if err := registry.Start(); err != nil {
		log.Fatal().Err(err).Msg("limpieza de workspaces")
	}

	// PDF del dashboard y planilla del rollup
	dashboardUC := appanalytics.NewDashboardUseCase(api, api, appanalytics.DashboardOptions{
		Report:   infrapdf.NewMarotoReportRenderer(loc),
		Location: loc,
		Logger:   log.Component("dashboard"),
	})
	adminSvc := appadmin.NewService(api, timeout, log.Component("admin"))
	operatorSvc := operator.NewService(api, operator.Options{Timeout: timeout, Location: loc, Logger: log.Component("operador")})
	productSvc := product.NewService(api, product.Options{Timeout: timeout, Location: loc, Logger: log.Component("produto")})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: timeout + 10*time.Second,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Zerolog()))

	// Swagger UI: http://localhost:<port>/docs
	if cfg.App.DocsEnabled {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Painel Almoxarifado",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "workspaces": registry.Len()})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Workspaces: registry,
		Dashboard:  dashboardUC,
		Admin:      adminSvc,
		Operator:   operatorSvc,
		Products:   productSvc,
		Rollup:     xlsx.NewRollupWriter(loc),
		JWTSecret:  cfg.JWT.Secret,
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
	registry.Stop()

	log.Info().Msg("aplicación detenida")
}
