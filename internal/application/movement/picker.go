package movement

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/painel-almoxarifado/internal/application/dto"
	"github.com/jhoicas/painel-almoxarifado/internal/application/ports"
	"github.com/jhoicas/painel-almoxarifado/internal/application/view"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/entity"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/hierarchy"
)

const suggestionsPerPage = 20

// ProductOption sugerencia de producto.
type ProductOption struct {
	ID   string `json:"id"`
	Code string `json:"codigo"`
	Name string `json:"nome"`
}

// OriginOption local con saldo disponible del producto elegido.
type OriginOption struct {
	Type      string          `json:"tipo"`
	ID        string          `json:"id"`
	Name      string          `json:"nome"`
	Available decimal.Decimal `json:"disponivel"`
}

// FlowOptions configuración común de los flujos modales.
type FlowOptions struct {
	Timeout   time.Duration
	Logger    zerolog.Logger
	Modal     view.Modal // nil = StateModal
	OnSuccess func()     // recarga de la lista tras un envío exitoso
}

// picker búsqueda de producto con debounce y carga de orígenes, compartida por los flujos.
type picker struct {
	api      ports.WarehouseAPI
	debounce *view.Debouncer
	timeout  time.Duration
	log      zerolog.Logger
	base     context.Context
	stop     context.CancelFunc

	mu          sync.Mutex
	searchGen   uint64
	query       string
	suggestions []ProductOption
	searching   bool
	product     *ProductOption
	origins     []OriginOption
	origin      *OriginOption
}

func newPicker(api ports.WarehouseAPI, opts FlowOptions) *picker {
	base, stop := context.WithCancel(context.Background())
	return &picker{
		api:      api,
		debounce: view.NewDebouncer(view.SuggestionDebounce),
		timeout:  opts.Timeout,
		log:      opts.Logger,
		base:     base,
		stop:     stop,
	}
}

func (p *picker) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.timeout > 0 {
		return context.WithTimeout(ctx, p.timeout)
	}
	return context.WithCancel(ctx)
}

// resetPicker vuelve al estado inicial; llamar con mu tomado.
func (p *picker) resetPicker() {
	p.searchGen++
	p.query = ""
	p.suggestions = nil
	p.searching = false
	p.product = nil
	p.origins = nil
	p.origin = nil
}

// Search programa la búsqueda de sugerencias; un texto vacío limpia la lista.
func (p *picker) Search(q string) {
	p.mu.Lock()
	p.searchGen++
	token := p.searchGen
	p.query = q
	if q == "" {
		p.suggestions = nil
		p.searching = false
		p.mu.Unlock()
		p.debounce.Stop()
		return
	}
	p.mu.Unlock()

	p.debounce.Trigger(func() {
		p.mu.Lock()
		if token != p.searchGen {
			p.mu.Unlock()
			return
		}
		p.searching = true
		p.mu.Unlock()

		ctx, cancel := p.bounded(p.base)
		defer cancel()
		products, err := p.api.ListProducts(ctx, dto.ProductQuery{Search: q, PerPage: suggestionsPerPage})

		p.mu.Lock()
		defer p.mu.Unlock()
		if token != p.searchGen {
			p.log.Debug().Str("q", q).Msg("sugerencias obsoletas descartadas")
			return
		}
		p.searching = false
		p.suggestions = make([]ProductOption, 0, len(products))
		if err != nil {
			p.log.Warn().Err(err).Msg("búsqueda de productos falló")
			return
		}
		for _, pr := range products {
			p.suggestions = append(p.suggestions, ProductOption{ID: pr.ID, Code: pr.Code, Name: pr.Name})
		}
	})
}

// SelectProduct fija el producto y carga sus orígenes: locales con disponible > 0 que no son setor.
func (p *picker) SelectProduct(ctx context.Context, id string) {
	id = hierarchy.NormalizeIdentifier(id)
	p.mu.Lock()
	opt := ProductOption{ID: id}
	for _, s := range p.suggestions {
		if s.ID == id {
			opt = s
			break
		}
	}
	p.product = &opt
	p.origin = nil
	p.origins = nil
	p.suggestions = nil
	p.searchGen++
	if opt.Name != "" {
		p.query = opt.Name
	} else if opt.Code != "" {
		p.query = opt.Code
	}
	p.mu.Unlock()
	p.debounce.Stop()

	ctx, cancel := p.bounded(ctx)
	defer cancel()
	rows, err := p.api.ProductStock(ctx, id)
	if err != nil {
		p.log.Warn().Err(err).Str("produto", id).Msg("estoque do produto indisponível")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.product == nil || p.product.ID != id {
		return
	}
	p.origins = OriginOptions(rows)
}

// SelectOrigin fija el origen entre las opciones cargadas.
func (p *picker) SelectOrigin(tipo, id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	lvl := string(hierarchy.NormalizeLevel(tipo))
	id = hierarchy.NormalizeIdentifier(id)
	for _, o := range p.origins {
		if o.Type == lvl && o.ID == id {
			sel := o
			p.origin = &sel
			return true
		}
	}
	return false
}

// OriginOptions filtra las filas de estoque del producto que sirven de origen.
func OriginOptions(rows []entity.ProductStockRow) []OriginOption {
	out := make([]OriginOption, 0, len(rows))
	for _, r := range rows {
		if !r.QuantityAvailable.IsPositive() || r.LocationType == hierarchy.Setor {
			continue
		}
		out = append(out, OriginOption{
			Type:      string(r.LocationType),
			ID:        r.LocationID,
			Name:      r.LocationName,
			Available: r.QuantityAvailable,
		})
	}
	return out
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
