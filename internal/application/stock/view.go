// Package stock implementa la vista de estoque por jerarquía: filtros con debounce,
// paginación con "carregar mais", rollup por producto, tarjetas de resumen y export.
package stock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/painel-almoxarifado/internal/application/analytics"
	"github.com/jhoicas/painel-almoxarifado/internal/application/dto"
	"github.com/jhoicas/painel-almoxarifado/internal/application/ports"
	"github.com/jhoicas/painel-almoxarifado/internal/application/view"
	"github.com/jhoicas/painel-almoxarifado/internal/domain"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/entity"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/inventory"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/series"
)

// PerPageOptions tamaños de página ofrecidos en el selector "Itens".
var PerPageOptions = []int{20, 50, 100}

// Filters filtros de la página.
type Filters struct {
	Produto string `json:"produto"`
	Tipo    string `json:"tipo"`
	Status  string `json:"status"`
	Local   string `json:"local"`
}

// Data contenido de la vista cuando hay datos.
type Data struct {
	Filters    Filters                `json:"filters"`
	Rows       []dto.StockRowDTO      `json:"rows"`
	Products   []dto.ProductRollupDTO `json:"products"`
	Summary    dto.StockSummaryDTO    `json:"summary"`
	Pagination dto.PageResponse       `json:"pagination"`
	ExportURL  string                 `json:"export_url"`

	records []entity.StockRecord
}

// Options configuración de la vista.
type Options struct {
	PerPage   int
	Policy    analytics.UnknownLevelPolicy
	Timeout   time.Duration
	Location  *time.Location
	Logger    zerolog.Logger
	OnPerPage func(int) // persiste per_page_estoque
}

// View controlador de la página de estoque de un usuario.
type View struct {
	api      ports.WarehouseAPI
	loader   *view.Loader[Data]
	debounce *view.Debouncer
	policy   analytics.UnknownLevelPolicy
	loc      *time.Location
	log      zerolog.Logger
	onPer    func(int)

	mu      sync.Mutex
	filters Filters
	perPage int
	base    context.Context
	stop    context.CancelFunc
}

// New crea la vista. Los fetches disparados por debounce corren bajo un contexto
// propio de la vista que Close cancela.
func New(api ports.WarehouseAPI, opts Options) *View {
	if opts.PerPage <= 0 {
		opts.PerPage = 20
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	base, stop := context.WithCancel(context.Background())
	return &View{
		api: api,
		loader: view.NewLoader(view.LoaderOptions[Data]{
			Timeout:  opts.Timeout,
			Fallback: view.DefaultFallback,
			IsEmpty:  func(d Data) bool { return len(d.Rows) == 0 },
			Logger:   opts.Logger,
			Name:     "estoque",
		}),
		debounce: view.NewDebouncer(view.StockDebounce),
		policy:   opts.Policy,
		loc:      opts.Location,
		log:      opts.Logger,
		onPer:    opts.OnPerPage,
		perPage:  opts.PerPage,
		base:     base,
		stop:     stop,
	}
}

// Snapshot estado actual.
func (v *View) Snapshot() view.Snapshot[Data] { return v.loader.Snapshot() }

// Filters filtros vigentes.
func (v *View) Filters() Filters {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filters
}

// PerPage tamaño de página vigente.
func (v *View) PerPage() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.perPage
}

// Refresh recarga la página 1 de inmediato ("Atualizar"/"Filtrar").
func (v *View) Refresh(ctx context.Context) view.Snapshot[Data] {
	v.debounce.Stop()
	snap, _ := v.loader.Load(ctx, v.fetchPage(1, nil))
	return snap
}

// SetFilters reemplaza los filtros y programa la recarga tras el debounce.
func (v *View) SetFilters(f Filters) {
	v.mu.Lock()
	v.filters = f
	v.mu.Unlock()
	v.schedule()
}

// SetPerPage cambia el tamaño de página, lo persiste y programa la recarga.
func (v *View) SetPerPage(n int) error {
	if !validPerPage(n) {
		return domain.NewValidationError(fmt.Sprintf("Itens por página inválido: %d", n))
	}
	v.mu.Lock()
	v.perPage = n
	v.mu.Unlock()
	if v.onPer != nil {
		v.onPer(n)
	}
	v.schedule()
	return nil
}

// LoadMore trae la página siguiente y la agrega a la actual. Sin página siguiente no hace nada.
func (v *View) LoadMore(ctx context.Context) view.Snapshot[Data] {
	cur := v.loader.Snapshot()
	if cur.State != view.Populated || !cur.Data.Pagination.HasNext {
		return cur
	}
	snap, _ := v.loader.Load(ctx, v.fetchPage(cur.Data.Pagination.Page+1, cur.Data.records))
	return snap
}

// ExportURL URL del export con los mismos filtros de la tabla.
func (v *View) ExportURL() string {
	return v.api.StockExportURL(v.query(1))
}

// Locations locales para el selector de filtro.
func (v *View) Locations(ctx context.Context) ([]entity.Location, error) {
	locs, err := v.api.ListLocations(ctx)
	if err != nil {
		return nil, fmt.Errorf("estoque: locais: %w", err)
	}
	return locs, nil
}

// AllProducts rollup de todas las filas cargadas (planilla).
func (v *View) AllProducts() []dto.ProductRollupDTO {
	return v.loader.Snapshot().Data.Products
}

// Close cancela el debounce y cualquier fetch en vuelo.
func (v *View) Close() {
	v.debounce.Stop()
	v.loader.Cancel()
	v.stop()
}

func (v *View) schedule() {
	v.debounce.Trigger(func() {
		v.loader.Load(v.base, v.fetchPage(1, nil))
	})
}

func (v *View) query(page int) dto.StockQuery {
	v.mu.Lock()
	defer v.mu.Unlock()
	return dto.StockQuery{
		PageRequest: dto.PageRequest{Page: page, PerPage: v.perPage},
		Produto:     v.filters.Produto,
		Tipo:        v.filters.Tipo,
		Status:      v.filters.Status,
		Local:       v.filters.Local,
	}
}

func (v *View) fetchPage(page int, prev []entity.StockRecord) func(context.Context) (Data, error) {
	q := v.query(page)
	exportQ := q
	exportQ.Page = 1
	exportURL := v.api.StockExportURL(exportQ)
	filters := v.Filters()
	return func(ctx context.Context) (Data, error) {
		res, err := v.api.ListStock(ctx, q)
		if err != nil {
			return Data{}, err
		}
		records := make([]entity.StockRecord, 0, len(prev)+len(res.Items))
		records = append(records, prev...)
		records = append(records, res.Items...)
		return v.build(filters, exportURL, records, res.Pagination), nil
	}
}

func (v *View) build(f Filters, exportURL string, records []entity.StockRecord, p entity.Pagination) Data {
	rows := make([]dto.StockRowDTO, 0, len(records))
	for _, r := range records {
		rows = append(rows, v.row(r))
	}
	return Data{
		Filters:  f,
		Rows:     rows,
		Products: analytics.RollupByProduct(records, v.policy),
		Summary:  analytics.SummarizeStock(records),
		Pagination: dto.PageResponse{
			Page: p.Page, Pages: p.Pages, Total: p.Total, PerPage: p.PerPage,
			HasNext: p.HasNext, HasPrev: p.HasPrev,
		},
		ExportURL: exportURL,
		records:   records,
	}
}

func (v *View) row(r entity.StockRecord) dto.StockRowDTO {
	updated := "-"
	if r.LastUpdated != nil {
		updated = series.FormatBRDateTime(r.LastUpdated.In(v.loc))
	}
	label := r.LocationType.Label()
	if !r.LocationType.Known() {
		label = r.RawLocationType
	}
	return dto.StockRowDTO{
		ProductID:         r.ProductID,
		ProductName:       r.ProductName,
		ProductCode:       r.ProductCode,
		Unit:              r.Unit,
		LocationType:      string(r.LocationType),
		LocationTypeLabel: label,
		LocationID:        r.LocationID,
		LocationName:      r.LocationName,
		Quantity:          r.QuantityTotal,
		Available:         r.QuantityAvailable,
		Initial:           r.QuantityInitial,
		Status:            string(inventory.ClassifyStock(r.QuantityAvailable, r.QuantityInitial)),
		LastUpdated:       updated,
	}
}

func validPerPage(n int) bool {
	for _, o := range PerPageOptions {
		if o == n {
			return true
		}
	}
	return false
}
