// Package analytics contiene el motor de agregación (consumo, alertas, rollup por
// producto) y el caso de uso del dashboard que arma los widgets visibles.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/painel-almoxarifado/internal/application/dto"
	"github.com/jhoicas/painel-almoxarifado/internal/application/ports"
	"github.com/jhoicas/painel-almoxarifado/internal/application/view"
	"github.com/jhoicas/painel-almoxarifado/internal/domain"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/entity"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/series"
)

// Ids de widget.
const (
	WidgetConsumoMedio    = "consumo_medio"
	WidgetAcoesRapidas    = "acoes_rapidas"
	WidgetEstoqueBaixo    = "estoque_baixo"
	WidgetVencimentos     = "vencimentos"
	WidgetConsumoPorSetor = "consumo_por_setor"
)

// Tamaños de página usados por cada widget.
const (
	levelMovementsPerPage  = 1000
	sectorListPerPage      = 200
	sectorMovementsPerPage = 3000
	sectorStockPerPage     = 2000
	lowStockPerPage        = 200
	expiryProductsPerPage  = 200
)

var managers = []entity.AccessLevel{
	entity.LevelSuperAdmin, entity.LevelAdminCentral, entity.LevelGerenteAlmox, entity.LevelRespSubAlmox,
}

// DashboardCapabilities allow-list de widgets por nivel, en orden de exhibición.
func DashboardCapabilities() *view.Capabilities {
	return view.NewCapabilities(
		view.Capability{ID: WidgetConsumoMedio, Allowed: entity.AllLevels},
		view.Capability{ID: WidgetAcoesRapidas, Allowed: entity.AllLevels},
		view.Capability{ID: WidgetEstoqueBaixo, Allowed: managers},
		view.Capability{ID: WidgetVencimentos, Allowed: managers},
		view.Capability{ID: WidgetConsumoPorSetor, Allowed: managers},
	)
}

type widgetMeta struct {
	title string
	size  string
}

var widgetMetas = map[string]widgetMeta{
	WidgetConsumoMedio:    {"Consumo Médio (30 dias)", "lg-12"},
	WidgetAcoesRapidas:    {"Ações Rápidas", "lg-6"},
	WidgetEstoqueBaixo:    {"Estoque Baixo", "lg-6"},
	WidgetVencimentos:     {"Vencimentos", "lg-6"},
	WidgetConsumoPorSetor: {"Consumo por Setor", "lg-12"},
}

var quickActions = []dto.QuickActionDTO{
	{ID: "transferencia", Label: "Transferência", Href: "/movimentacoes#transferencia"},
	{ID: "saida", Label: "Saída", Href: "/movimentacoes#saida"},
}

// ErrReportUnavailable no hay renderizador de PDF configurado.
var ErrReportUnavailable = errors.New("dashboard: reporte PDF no disponible")

// DashboardUseCase arma los widgets del dashboard según el nivel de acceso.
//
// Cada widget se obtiene en paralelo y lleva su propio estado; la falla de uno
// no vacía el dashboard.
type DashboardUseCase struct {
	api    ports.WarehouseAPI
	lots   ports.LotFanOut
	report ports.DashboardReportRenderer
	caps   *view.Capabilities
	loc    *time.Location
	now    func() time.Time
	log    zerolog.Logger
}

// DashboardOptions dependencias opcionales del caso de uso.
type DashboardOptions struct {
	Report   ports.DashboardReportRenderer
	Location *time.Location
	Now      func() time.Time
	Logger   zerolog.Logger
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(api ports.WarehouseAPI, lots ports.LotFanOut, opts DashboardOptions) *DashboardUseCase {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &DashboardUseCase{
		api:    api,
		lots:   lots,
		report: opts.Report,
		caps:   DashboardCapabilities(),
		loc:    opts.Location,
		now:    opts.Now,
		log:    opts.Logger,
	}
}

// Capabilities registro usado para decidir la visibilidad.
func (uc *DashboardUseCase) Capabilities() *view.Capabilities { return uc.caps }

// Widgets construye el dashboard para el contexto de acceso.
func (uc *DashboardUseCase) Widgets(ctx context.Context, access entity.AccessContext) (*dto.DashboardDTO, error) {
	if !access.Level.Valid() {
		return nil, fmt.Errorf("dashboard: nivel %q: %w", access.Level, domain.ErrForbidden)
	}
	now := uc.now().In(uc.loc)
	ids := uc.caps.Visible(access.Level)
	widgets := make([]dto.WidgetDTO, len(ids))

	var g errgroup.Group
	for i, id := range ids {
		g.Go(func() error {
			widgets[i] = uc.widget(ctx, id, access, now)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	return &dto.DashboardDTO{
		Title:       "Dashboard",
		UserName:    access.UserName,
		Level:       string(access.Level),
		GeneratedAt: now,
		Widgets:     widgets,
	}, nil
}

// Report genera el PDF de los widgets visibles.
func (uc *DashboardUseCase) Report(ctx context.Context, access entity.AccessContext) ([]byte, error) {
	if uc.report == nil {
		return nil, ErrReportUnavailable
	}
	d, err := uc.Widgets(ctx, access)
	if err != nil {
		return nil, err
	}
	out, err := uc.report.RenderDashboard(ctx, d)
	if err != nil {
		return nil, fmt.Errorf("dashboard: generar pdf: %w", err)
	}
	return out, nil
}

func (uc *DashboardUseCase) widget(ctx context.Context, id string, access entity.AccessContext, now time.Time) dto.WidgetDTO {
	meta := widgetMetas[id]
	w := dto.WidgetDTO{ID: id, Title: meta.title, Size: meta.size}

	data, empty, err := uc.fetch(ctx, id, access, now)
	switch {
	case err != nil:
		uc.log.Warn().Err(err).Str("widget", id).Msg("widget con error")
		w.State = string(view.Error)
		w.Error = domain.UserMessage(err, view.DefaultFallback)
	case empty:
		w.State = string(view.Empty)
		w.Data = data
	default:
		w.State = string(view.Populated)
		w.Data = data
	}
	return w
}

func (uc *DashboardUseCase) fetch(ctx context.Context, id string, access entity.AccessContext, now time.Time) (any, bool, error) {
	switch id {
	case WidgetConsumoMedio:
		d, err := uc.consumptionByLevel(ctx, access, now)
		if err != nil {
			return nil, false, err
		}
		return d, allZero(d), nil
	case WidgetAcoesRapidas:
		return quickActions, false, nil
	case WidgetEstoqueBaixo:
		d, err := uc.lowStock(ctx)
		if err != nil {
			return nil, false, err
		}
		return d, d.ZeroCount == 0 && d.LowCount == 0, nil
	case WidgetVencimentos:
		d, err := uc.expiry(ctx, now)
		if err != nil {
			return nil, false, err
		}
		return d, len(d.Items) == 0, nil
	case WidgetConsumoPorSetor:
		d, err := uc.consumptionBySector(ctx, now)
		if err != nil {
			return nil, false, err
		}
		return d, len(d.Sectors) == 0, nil
	}
	return nil, true, nil
}

func (uc *DashboardUseCase) consumptionByLevel(ctx context.Context, access entity.AccessContext, now time.Time) (dto.ConsumptionByLevelDTO, error) {
	page, err := uc.api.ListMovements(ctx, dto.MovementQuery{
		PageRequest: dto.PageRequest{PerPage: levelMovementsPerPage},
		DataInicio:  series.FormatISODate(now.AddDate(0, 0, -(ConsumptionDays - 1))),
		DataFim:     series.FormatISODate(now),
	})
	if err != nil {
		return dto.ConsumptionByLevelDTO{}, fmt.Errorf("consumo por nível: %w", err)
	}
	return ConsumptionByLevel(page.Items, ScopeFor(access), now), nil
}

func (uc *DashboardUseCase) consumptionBySector(ctx context.Context, now time.Time) (dto.ConsumptionBySectorDTO, error) {
	var (
		sectors []entity.Location
		movs    entity.Page[entity.Movement]
		stock   entity.Page[entity.StockRecord]
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		sectors, err = uc.api.ListSectors(gctx, sectorListPerPage)
		return err
	})
	g.Go(func() (err error) {
		movs, err = uc.api.ListMovements(gctx, dto.MovementQuery{
			PageRequest: dto.PageRequest{PerPage: sectorMovementsPerPage},
			DataInicio:  series.FormatISODate(now.AddDate(0, 0, -(ConsumptionDays - 1))),
			DataFim:     series.FormatISODate(now),
		})
		return err
	})
	g.Go(func() (err error) {
		stock, err = uc.api.ListStock(gctx, dto.StockQuery{PageRequest: dto.PageRequest{PerPage: sectorStockPerPage}})
		return err
	})
	if err := g.Wait(); err != nil {
		return dto.ConsumptionBySectorDTO{}, fmt.Errorf("consumo por setor: %w", err)
	}
	return ConsumptionBySector(sectors, movs.Items, stock.Items, now), nil
}

func (uc *DashboardUseCase) lowStock(ctx context.Context) (dto.LowStockDTO, error) {
	page, err := uc.api.ListStock(ctx, dto.StockQuery{PageRequest: dto.PageRequest{PerPage: lowStockPerPage}})
	if err != nil {
		return dto.LowStockDTO{}, fmt.Errorf("estoque baixo: %w", err)
	}
	return LowStockAlerts(page.Items, LowStockWidgetLimit), nil
}

func (uc *DashboardUseCase) expiry(ctx context.Context, now time.Time) (dto.ExpiryAttentionDTO, error) {
	active := true
	products, err := uc.api.ListProducts(ctx, dto.ProductQuery{PerPage: expiryProductsPerPage, Active: &active})
	if err != nil {
		return dto.ExpiryAttentionDTO{}, fmt.Errorf("vencimentos: produtos: %w", err)
	}
	lots, err := uc.lots.LotsForProducts(ctx, products)
	if err != nil {
		return dto.ExpiryAttentionDTO{}, fmt.Errorf("vencimentos: lotes: %w", err)
	}
	return ExpiryAttention(lots, now, ExpiryWidgetLimit), nil
}

func allZero(d dto.ConsumptionByLevelDTO) bool {
	for _, s := range d.Series {
		for _, v := range s.Daily {
			if v != 0 {
				return false
			}
		}
	}
	return true
}
