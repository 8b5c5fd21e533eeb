// Package movement contiene la lista de movimentações y los dos flujos modales
// que escriben movimientos: transferência y distribuição (saída a setores).
package movement

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/painel-almoxarifado/internal/application/dto"
	"github.com/jhoicas/painel-almoxarifado/internal/application/ports"
	"github.com/jhoicas/painel-almoxarifado/internal/application/view"
	"github.com/jhoicas/painel-almoxarifado/internal/domain"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/entity"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/hierarchy"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/inventory"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/series"
)

// PerPageOptions tamaños de página ofrecidos.
var PerPageOptions = []int{10, 20, 50}

// TypeOptions valores del filtro de tipo.
var TypeOptions = []string{"ENTRADA", "SAIDA", "TRANSFERENCIA"}

// Orden de la lista.
const (
	OrderDesc = "desc"
	OrderAsc  = "asc"
)

// Filters filtros de la lista.
type Filters struct {
	Tipo       string `json:"tipo"`
	Produto    string `json:"produto"`
	DataInicio string `json:"data_inicio"`
	DataFim    string `json:"data_fim"`
}

// ListData contenido de la lista.
type ListData struct {
	Filters    Filters              `json:"filters"`
	Order      string               `json:"ordem"`
	OrderLabel string               `json:"ordem_label"`
	Rows       []dto.MovementRowDTO `json:"rows"`
	Pagination dto.PageResponse     `json:"pagination"`
}

// ListOptions configuración de la lista.
type ListOptions struct {
	PerPage   int
	Timeout   time.Duration
	Location  *time.Location
	Logger    zerolog.Logger
	OnPerPage func(int) // persiste movs.per_page
}

// ListView controlador de la lista de movimentações.
type ListView struct {
	api      ports.WarehouseAPI
	loader   *view.Loader[ListData]
	debounce *view.Debouncer
	loc      *time.Location
	onPer    func(int)

	mu      sync.Mutex
	filters Filters
	order   string
	perPage int
	pages   int
	base    context.Context
	stop    context.CancelFunc
}

// NewListView crea la lista en orden descendente.
func NewListView(api ports.WarehouseAPI, opts ListOptions) *ListView {
	if opts.PerPage <= 0 {
		opts.PerPage = 20
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	base, stop := context.WithCancel(context.Background())
	return &ListView{
		api: api,
		loader: view.NewLoader(view.LoaderOptions[ListData]{
			Timeout:  opts.Timeout,
			Fallback: "Erro ao carregar",
			IsEmpty:  func(d ListData) bool { return len(d.Rows) == 0 },
			Logger:   opts.Logger,
			Name:     "movimentacoes",
		}),
		debounce: view.NewDebouncer(view.MovementsDebounce),
		loc:      opts.Location,
		onPer:    opts.OnPerPage,
		order:    OrderDesc,
		perPage:  opts.PerPage,
		pages:    1,
		base:     base,
		stop:     stop,
	}
}

// Snapshot estado actual.
func (v *ListView) Snapshot() view.Snapshot[ListData] { return v.loader.Snapshot() }

// Order orden vigente.
func (v *ListView) Order() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.order
}

// PerPage tamaño de página vigente.
func (v *ListView) PerPage() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.perPage
}

// Refresh carga la página indicada de inmediato.
func (v *ListView) Refresh(ctx context.Context, page int) view.Snapshot[ListData] {
	v.debounce.Stop()
	return v.load(ctx, page)
}

// SetFilters reemplaza los filtros; la recarga en página 1 ocurre tras el debounce.
func (v *ListView) SetFilters(f Filters) {
	v.mu.Lock()
	v.filters = f
	v.mu.Unlock()
	v.schedule()
}

// ToggleOrder alterna desc/asc y programa la recarga.
func (v *ListView) ToggleOrder() string {
	v.mu.Lock()
	if v.order == OrderDesc {
		v.order = OrderAsc
	} else {
		v.order = OrderDesc
	}
	o := v.order
	v.mu.Unlock()
	v.schedule()
	return o
}

// SetPerPage persiste el tamaño y recarga la página 1.
func (v *ListView) SetPerPage(ctx context.Context, n int) (view.Snapshot[ListData], error) {
	valid := false
	for _, o := range PerPageOptions {
		valid = valid || o == n
	}
	if !valid {
		return v.Snapshot(), domain.NewValidationError(fmt.Sprintf("Itens por página inválido: %d", n))
	}
	v.mu.Lock()
	v.perPage = n
	v.mu.Unlock()
	if v.onPer != nil {
		v.onPer(n)
	}
	return v.Refresh(ctx, 1), nil
}

// GoToPage carga la página p acotada a [1, páginas].
func (v *ListView) GoToPage(ctx context.Context, p int) view.Snapshot[ListData] {
	return v.Refresh(ctx, v.clamp(p))
}

// Close cancela debounce y fetch en vuelo.
func (v *ListView) Close() {
	v.debounce.Stop()
	v.loader.Cancel()
	v.stop()
}

func (v *ListView) clamp(p int) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	if p < 1 {
		return 1
	}
	if p > v.pages {
		return v.pages
	}
	return p
}

func (v *ListView) schedule() {
	v.debounce.Trigger(func() {
		v.load(v.base, 1)
	})
}

// load aplica el fetch y, si fue el vigente, actualiza el total de páginas para GoToPage.
func (v *ListView) load(ctx context.Context, page int) view.Snapshot[ListData] {
	snap, applied := v.loader.Load(ctx, v.fetch(page))
	if applied && snap.State != view.Error {
		v.mu.Lock()
		v.pages = max(snap.Data.Pagination.Pages, 1)
		v.mu.Unlock()
	}
	return snap
}

func (v *ListView) fetch(page int) func(context.Context) (ListData, error) {
	v.mu.Lock()
	f, order := v.filters, v.order
	q := dto.MovementQuery{
		PageRequest: dto.PageRequest{Page: page, PerPage: v.perPage},
		Tipo:        f.Tipo,
		Produto:     f.Produto,
		DataInicio:  f.DataInicio,
		DataFim:     f.DataFim,
		Ordem:       order,
	}
	v.mu.Unlock()

	return func(ctx context.Context) (ListData, error) {
		res, err := v.api.ListMovements(ctx, q)
		if err != nil {
			return ListData{}, err
		}
		p := res.Pagination
		rows := make([]dto.MovementRowDTO, 0, len(res.Items))
		for _, m := range res.Items {
			rows = append(rows, Row(m, v.loc))
		}
		return ListData{
			Filters:    f,
			Order:      order,
			OrderLabel: OrderLabel(order),
			Rows:       rows,
			Pagination: dto.PageResponse{
				Page: p.Page, Pages: p.Pages, Total: p.Total, PerPage: p.PerPage,
				HasNext: p.HasNext, HasPrev: p.HasPrev,
			},
		}, nil
	}
}

// OrderLabel texto del botón de orden.
func OrderLabel(order string) string {
	if order == OrderAsc {
		return "Mais antigas primeiro"
	}
	return "Mais recentes primeiro"
}

// TypeLabel etiqueta e ícono del tipo de movimiento. Tipos desconocidos se muestran tal cual.
func TypeLabel(movType string) (label, icon string) {
	switch hierarchy.NormalizeMovementType(movType) {
	case hierarchy.MovEntrada:
		return "Entrada", "fas fa-arrow-down text-success"
	case hierarchy.MovSaida, hierarchy.MovDistribuicao:
		return "Saída", "fas fa-arrow-up text-danger"
	case hierarchy.MovTransferencia:
		return "Transferência", "fas fa-exchange-alt text-primary"
	}
	return movType, "fas fa-question"
}

// LocationsText "origen → destino", o el que exista, o "-".
func LocationsText(origin, destination string) string {
	switch {
	case origin != "" && destination != "":
		return origin + " → " + destination
	case origin != "":
		return origin
	case destination != "":
		return destination
	}
	return "-"
}

// Row convierte un movimiento en fila de la tabla.
func Row(m entity.Movement, loc *time.Location) dto.MovementRowDTO {
	label, icon := TypeLabel(m.Type)
	date := "-"
	if m.Timestamp != nil {
		date = series.FormatBRDateTime(m.Timestamp.In(loc))
	}
	qty := "-"
	if m.Quantity.Valid {
		qty = inventory.FormatQuantity(m.Quantity.Decimal)
	}
	return dto.MovementRowDTO{
		ID:          m.ID,
		Date:        date,
		Type:        m.Type,
		TypeLabel:   label,
		TypeIcon:    icon,
		ProductName: m.ProductName,
		Quantity:    qty,
		Locations:   LocationsText(m.Origin.Name, m.Destination.Name),
		User:        m.ResponsibleUser,
		Reason:      m.Reason,
	}
}
