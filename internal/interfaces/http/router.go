package http

import (
	"github.com/gofiber/fiber/v2"

	appadmin "github.com/jhoicas/painel-almoxarifado/internal/application/admin"
	appanalytics "github.com/jhoicas/painel-almoxarifado/internal/application/analytics"
	"github.com/jhoicas/painel-almoxarifado/internal/application/operator"
	"github.com/jhoicas/painel-almoxarifado/internal/application/ports"
	"github.com/jhoicas/painel-almoxarifado/internal/application/product"
	"github.com/jhoicas/painel-almoxarifado/internal/application/workspace"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Workspaces *workspace.Registry
	Dashboard  *appanalytics.DashboardUseCase
	Admin      *appadmin.Service
	Operator   *operator.Service
	Products   *product.Service
	Rollup     ports.RollupWorkbookWriter
	JWTSecret  string
}

// Router registra las rutas del painel. Todo va detrás de AuthMiddleware.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api/painel", AuthMiddleware(deps.JWTSecret))

	managers := RequireLevel(
		entity.LevelSuperAdmin, entity.LevelAdminCentral, entity.LevelGerenteAlmox, entity.LevelRespSubAlmox,
	)
	admins := RequireLevel(entity.LevelSuperAdmin, entity.LevelAdminCentral)

	// Dashboard
	dashboard := NewDashboardHandler(deps.Dashboard)
	api.Get("/dashboard", dashboard.Get)
	api.Get("/dashboard/report.pdf", dashboard.Report)

	// Estoque
	stockHandler := NewStockHandler(deps.Workspaces, deps.Rollup)
	est := api.Group("/estoque")
	est.Get("/", stockHandler.Get)
	est.Put("/filtros", stockHandler.PutFilters)
	est.Put("/por-pagina", stockHandler.PutPerPage)
	est.Post("/mais", stockHandler.More)
	est.Get("/export", stockHandler.Export)
	est.Get("/locais", stockHandler.Locations)
	est.Get("/rollup.xlsx", managers, stockHandler.Rollup)

	// Movimentações
	movHandler := NewMovementHandler(deps.Workspaces)
	mov := api.Group("/movimentacoes")
	mov.Get("/", movHandler.List)
	mov.Put("/filtros", movHandler.PutFilters)
	mov.Post("/pagina", movHandler.GoToPage)
	mov.Put("/por-pagina", movHandler.PutPerPage)
	mov.Post("/ordem", movHandler.ToggleOrder)

	flows := NewFlowHandler(deps.Workspaces)

	tr := api.Group("/transferencia", managers)
	tr.Get("/", flows.TransferState)
	tr.Get("/sugestoes", flows.TransferSuggest)
	tr.Post("/abrir", flows.TransferOpen)
	tr.Post("/produto", flows.TransferProduct)
	tr.Post("/origem", flows.TransferOrigin)
	tr.Post("/destino", flows.TransferDestination)
	tr.Post("/enviar", flows.TransferSubmit)
	tr.Post("/fechar", flows.TransferClose)

	dist := api.Group("/distribuicao", managers)
	dist.Get("/", flows.DistributionState)
	dist.Get("/sugestoes", flows.DistributionSuggest)
	dist.Post("/abrir", flows.DistributionOpen)
	dist.Post("/produto", flows.DistributionProduct)
	dist.Post("/origem", flows.DistributionOrigin)
	dist.Post("/filtro", flows.DistributionFilter)
	dist.Post("/destinos", flows.DistributionAddTarget)
	dist.Put("/destinos/:id", flows.DistributionQuantity)
	dist.Delete("/destinos/:id", flows.DistributionRemoveTarget)
	dist.Post("/enviar", flows.DistributionSubmit)
	dist.Post("/fechar", flows.DistributionClose)

	// Demandas
	demands := NewDemandHandler(deps.Workspaces)
	dem := api.Group("/demandas")
	dem.Get("/minhas", demands.Mine)
	dem.Post("/", demands.Create)
	dem.Get("/lista", demands.Draft)
	dem.Post("/lista", demands.AddToDraft)
	dem.Delete("/lista/:id", demands.RemoveDraftItem)
	dem.Post("/lista/limpar", demands.ClearDraft)
	dem.Post("/lista/finalizar", demands.FinalizeDraft)
	dem.Get("/gerencia", managers, demands.Management)

	prefs := NewPreferencesHandler(deps.Workspaces)
	api.Get("/preferencias", prefs.Get)
	api.Put("/preferencias", prefs.Put)

	// Operador de setor
	op := NewOperatorHandler(deps.Operator)
	opr := api.Group("/operador", RequireSector())
	opr.Get("/setor", op.Sector)
	opr.Get("/produtos", op.Products)
	opr.Get("/painel", op.Panel)
	opr.Post("/consumo", op.RegisterConsumption)

	// Cadastro de produtos y recebimento
	products := NewProductHandler(deps.Products)
	prod := api.Group("/produtos", managers)
	prod.Get("/centrais", products.Centrals)
	prod.Get("/categorias", products.Categories)
	prod.Post("/codigo", products.GenerateCode)
	prod.Get("/codigo/disponivel", products.CheckCode)
	prod.Post("/", products.Create)
	prod.Get("/:id/almoxarifados", products.Warehouses)
	prod.Post("/:id/recebimento", products.Receive)
	api.Get("/recebimento/validade", managers, products.ExpiryHint)

	// Administração
	adminHandler := NewAdminHandler(deps.Admin)
	adm := api.Group("/admin", admins)
	adm.Get("/backups", adminHandler.Backups)
	adm.Post("/backups", adminHandler.CreateBackup)
	adm.Post("/backups/restaurar", adminHandler.Restore)
	adm.Put("/backups/agendamento", adminHandler.SaveSchedule)
	adm.Post("/arquivar", adminHandler.Archive)
	adm.Post("/zerar", adminHandler.Reset)
}
