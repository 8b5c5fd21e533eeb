// Package demand cubre la página de demandas: creación, carrito (lista de rascunho),
// "minhas demandas" y las listas de gerência.
package demand

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/painel-almoxarifado/internal/application/dto"
	"github.com/jhoicas/painel-almoxarifado/internal/application/ports"
	"github.com/jhoicas/painel-almoxarifado/internal/application/view"
	"github.com/jhoicas/painel-almoxarifado/internal/domain"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/entity"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/inventory"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/series"
)

const (
	listPerPage     = 50
	invalidInputMsg = "Informe Produto ID e quantidade válida."
	listFallback    = "Erro ao listar"
)

// DestinationTypes destinos aceptados; setor es el default.
var DestinationTypes = []string{"setor", "almoxarifado", "sub_almoxarifado"}

// ResolvedStatuses estados que forman la lista "Resolvidas".
var ResolvedStatuses = []string{entity.DemandAtendido, entity.DemandParcialmenteAtendido, entity.DemandNegado}

var numericID = regexp.MustCompile(`^\d+$`)

// Input formulario "Nova Demanda".
type Input struct {
	Produto     string `json:"produto"` // id o texto de búsqueda
	Quantidade  string `json:"quantidade"`
	Destino     string `json:"destino_tipo"`
	Observacoes string `json:"observacoes"`
}

type demandForm struct {
	ProductID string          `json:"produto"`
	Quantity  decimal.Decimal `json:"quantidade"`
	Destino   string          `json:"destino_tipo"`
}

func (f demandForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.ProductID, validation.Required.Error(invalidInputMsg)),
		validation.Field(&f.Quantity, view.Positive(invalidInputMsg)),
		validation.Field(&f.Destino, validation.In(toAny(DestinationTypes)...).Error("Destino inválido")),
	)
}

// Options configuración de la vista.
type Options struct {
	Timeout  time.Duration
	Location *time.Location
	Logger   zerolog.Logger
}

// View controlador de la página de demandas.
type View struct {
	api     ports.WarehouseAPI
	timeout time.Duration
	loc     *time.Location
	log     zerolog.Logger

	mine     *view.Loader[[]dto.DemandRowDTO]
	draft    *view.Loader[[]dto.DraftItemDTO]
	pending  *view.Loader[[]dto.DemandRowDTO]
	resolved *view.Loader[[]dto.DemandRowDTO]
}

// New crea la vista; nada se carga hasta el primer Load*.
func New(api ports.WarehouseAPI, opts Options) *View {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	rows := func(name string) *view.Loader[[]dto.DemandRowDTO] {
		return view.NewLoader(view.LoaderOptions[[]dto.DemandRowDTO]{
			Timeout:  opts.Timeout,
			Fallback: listFallback,
			IsEmpty:  func(r []dto.DemandRowDTO) bool { return len(r) == 0 },
			Logger:   opts.Logger,
			Name:     name,
		})
	}
	return &View{
		api:     api,
		timeout: opts.Timeout,
		loc:     opts.Location,
		log:     opts.Logger,
		mine:    rows("demandas_minhas"),
		draft: view.NewLoader(view.LoaderOptions[[]dto.DraftItemDTO]{
			Timeout:  opts.Timeout,
			Fallback: listFallback,
			IsEmpty:  func(r []dto.DraftItemDTO) bool { return len(r) == 0 },
			Logger:   opts.Logger,
			Name:     "demandas_lista",
		}),
		pending:  rows("demandas_pendentes"),
		resolved: rows("demandas_resolvidas"),
	}
}

// ── Escrituras ────────────────────────────────────────────────────────────────

// Create envía la demanda y recarga "minhas".
func (v *View) Create(ctx context.Context, in Input) error {
	form, err := v.form(ctx, in)
	if err != nil {
		return err
	}
	if err := v.call(ctx, func(ctx context.Context) error {
		return v.api.CreateDemand(ctx, dto.NewDemandRequest{
			ProdutoID:   form.ProductID,
			Quantidade:  form.Quantity,
			DestinoTipo: form.Destino,
			Observacoes: strings.TrimSpace(in.Observacoes),
		})
	}); err != nil {
		return fmt.Errorf("demanda: criar: %w", err)
	}
	v.LoadMine(ctx, "")
	return nil
}

// AddToDraft agrega el ítem al carrito y lo recarga.
func (v *View) AddToDraft(ctx context.Context, in Input) error {
	form, err := v.form(ctx, in)
	if err != nil {
		return err
	}
	if err := v.call(ctx, func(ctx context.Context) error {
		return v.api.AddDraftItem(ctx, dto.DraftItemRequest{
			ProdutoID:  form.ProductID,
			Quantidade: form.Quantity,
			Observacao: strings.TrimSpace(in.Observacoes),
		})
	}); err != nil {
		return fmt.Errorf("demanda: adicionar à lista: %w", err)
	}
	v.LoadDraft(ctx)
	return nil
}

// RemoveDraftItem quita un ítem del carrito.
func (v *View) RemoveDraftItem(ctx context.Context, id string) error {
	if err := v.call(ctx, func(ctx context.Context) error { return v.api.RemoveDraftItem(ctx, id) }); err != nil {
		return fmt.Errorf("demanda: remover item %s: %w", id, err)
	}
	v.LoadDraft(ctx)
	return nil
}

// ClearDraft vacía el carrito.
func (v *View) ClearDraft(ctx context.Context) error {
	if err := v.call(ctx, v.api.ClearDraft); err != nil {
		return fmt.Errorf("demanda: limpar lista: %w", err)
	}
	v.LoadDraft(ctx)
	return nil
}

// FinalizeDraft convierte el carrito en una demanda agrupada.
func (v *View) FinalizeDraft(ctx context.Context, destino string) error {
	destino = destinationOrDefault(destino)
	if err := validation.Validate(destino, validation.In(toAny(DestinationTypes)...)); err != nil {
		return domain.NewValidationError("Destino inválido")
	}
	if err := v.call(ctx, func(ctx context.Context) error {
		return v.api.FinalizeDraft(ctx, dto.FinalizeDraftRequest{DestinoTipo: destino})
	}); err != nil {
		return fmt.Errorf("demanda: finalizar lista: %w", err)
	}
	v.LoadDraft(ctx)
	v.LoadMine(ctx, "")
	return nil
}

// ── Listas ────────────────────────────────────────────────────────────────────

// LoadMine carga "minhas demandas" filtradas por search (id, produto, status o data).
func (v *View) LoadMine(ctx context.Context, search string) view.Snapshot[[]dto.DemandRowDTO] {
	snap, _ := v.mine.Load(ctx, func(ctx context.Context) ([]dto.DemandRowDTO, error) {
		items, err := v.api.ListDemands(ctx, "", true, listPerPage)
		if err != nil {
			return nil, err
		}
		return FilterRows(v.rows(items), search), nil
	})
	return snap
}

// LoadDraft carga el carrito.
func (v *View) LoadDraft(ctx context.Context) view.Snapshot[[]dto.DraftItemDTO] {
	snap, _ := v.draft.Load(ctx, func(ctx context.Context) ([]dto.DraftItemDTO, error) {
		items, err := v.api.ListDraft(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]dto.DraftItemDTO, 0, len(items))
		for _, it := range items {
			out = append(out, dto.DraftItemDTO{
				ID:          it.ID,
				ProductName: it.ProductName,
				Quantity:    it.Quantity.Round(0).String(),
				Note:        it.Note,
			})
		}
		return out, nil
	})
	return snap
}

// LoadPending lista de gerência "Pendentes".
func (v *View) LoadPending(ctx context.Context) view.Snapshot[[]dto.DemandRowDTO] {
	snap, _ := v.pending.Load(ctx, func(ctx context.Context) ([]dto.DemandRowDTO, error) {
		items, err := v.api.ListDemands(ctx, entity.DemandPendente, false, listPerPage)
		if err != nil {
			return nil, err
		}
		return v.rows(items), nil
	})
	return snap
}

// LoadResolved lista "Resolvidas": atendido, parcialmente atendido y negado juntas,
// de la más reciente a la más antigua. Cualquier estado que falle invalida la lista.
func (v *View) LoadResolved(ctx context.Context) view.Snapshot[[]dto.DemandRowDTO] {
	snap, _ := v.resolved.Load(ctx, func(ctx context.Context) ([]dto.DemandRowDTO, error) {
		parts := make([][]entity.Demand, len(ResolvedStatuses))
		g, gctx := errgroup.WithContext(ctx)
		for i, st := range ResolvedStatuses {
			g.Go(func() error {
				items, err := v.api.ListDemands(gctx, st, false, listPerPage)
				if err != nil {
					return fmt.Errorf("status %s: %w", st, err)
				}
				parts[i] = items
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		var all []entity.Demand
		for _, p := range parts {
			all = append(all, p...)
		}
		return v.rows(SortByLastChange(all)), nil
	})
	return snap
}

// Mine, Draft, Pending y Resolved devuelven el último estado de cada lista.
func (v *View) Mine() view.Snapshot[[]dto.DemandRowDTO]     { return v.mine.Snapshot() }
func (v *View) Draft() view.Snapshot[[]dto.DraftItemDTO]    { return v.draft.Snapshot() }
func (v *View) Pending() view.Snapshot[[]dto.DemandRowDTO]  { return v.pending.Snapshot() }
func (v *View) Resolved() view.Snapshot[[]dto.DemandRowDTO] { return v.resolved.Snapshot() }

// Close cancela las cargas en vuelo.
func (v *View) Close() {
	v.mine.Cancel()
	v.draft.Cancel()
	v.pending.Cancel()
	v.resolved.Cancel()
}

// ResolveProductID devuelve raw si es numérico; si no, el id del primer producto que
// encuentra la búsqueda, o raw cuando no hay resultado o la búsqueda falla.
func (v *View) ResolveProductID(ctx context.Context, raw string) string {
	val := strings.TrimSpace(raw)
	if val == "" || numericID.MatchString(val) {
		return val
	}
	ctx, cancel := v.bounded(ctx)
	defer cancel()
	products, err := v.api.ListProducts(ctx, dto.ProductQuery{Search: val, PerPage: 1})
	if err != nil {
		v.log.Debug().Err(err).Str("q", val).Msg("búsqueda de producto falló, se usa el texto")
		return val
	}
	if len(products) == 0 || products[0].ID == "" {
		return val
	}
	return products[0].ID
}

func (v *View) form(ctx context.Context, in Input) (demandForm, error) {
	qty, _ := inventory.ParseQuantity(in.Quantidade)
	form := demandForm{
		ProductID: v.ResolveProductID(ctx, in.Produto),
		Quantity:  qty,
		Destino:   destinationOrDefault(in.Destino),
	}
	if err := view.FirstError(form.Validate(), "produto", "quantidade", "destino_tipo"); err != nil {
		return form, err
	}
	return form, nil
}

func (v *View) call(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := v.bounded(ctx)
	defer cancel()
	return fn(ctx)
}

func (v *View) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	if v.timeout > 0 {
		return context.WithTimeout(ctx, v.timeout)
	}
	return context.WithCancel(ctx)
}

func (v *View) rows(items []entity.Demand) []dto.DemandRowDTO {
	out := make([]dto.DemandRowDTO, 0, len(items))
	for _, d := range items {
		out = append(out, Row(d, v.loc))
	}
	return out
}

// Row convierte una demanda en fila. Los grupos no muestran unidad.
func Row(d entity.Demand, loc *time.Location) dto.DemandRowDTO {
	qty := d.QuantityRequested.Round(0).String()
	group := d.IsGroup()
	if !group && d.Unit != "" {
		qty += " " + d.Unit
	}
	created := ""
	if d.CreatedAt != nil {
		created = series.FormatBRDateTime(d.CreatedAt.In(loc))
	}
	return dto.DemandRowDTO{
		ID:              d.ID,
		DisplayID:       firstNonEmpty(d.DisplayID, d.ID),
		ProductName:     firstNonEmpty(d.ProductName, d.ProductID),
		SectorName:      firstNonEmpty(d.SectorName, d.SectorID),
		Quantity:        qty,
		DestinationType: d.DestinationType,
		Status:          strings.ToLower(d.Status),
		CreatedAt:       created,
		IsGroup:         group,
	}
}

// SortByLastChange ordena por updated_at (o created_at) descendente; sin fecha al final.
func SortByLastChange(items []entity.Demand) []entity.Demand {
	out := append([]entity.Demand(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastChange().After(out[j].LastChange())
	})
	return out
}

// FilterRows filtro de texto sin distinguir mayúsculas sobre id, produto, status y data.
func FilterRows(rows []dto.DemandRowDTO, search string) []dto.DemandRowDTO {
	q := strings.ToLower(strings.TrimSpace(search))
	if q == "" {
		return rows
	}
	out := make([]dto.DemandRowDTO, 0, len(rows))
	for _, r := range rows {
		hay := strings.ToLower(strings.Join([]string{r.DisplayID, r.ProductName, r.Status, r.CreatedAt}, "\x00"))
		if strings.Contains(hay, q) {
			out = append(out, r)
		}
	}
	return out
}

func destinationOrDefault(d string) string {
	d = strings.ToLower(strings.TrimSpace(d))
	if d == "" {
		return "setor"
	}
	return d
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func toAny(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
