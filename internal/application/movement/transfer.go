package movement

import (
	"context"
	"fmt"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/painel-almoxarifado/internal/application/dto"
	"github.com/jhoicas/painel-almoxarifado/internal/application/ports"
	"github.com/jhoicas/painel-almoxarifado/internal/application/view"
	"github.com/jhoicas/painel-almoxarifado/internal/domain"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/entity"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/hierarchy"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/inventory"
)

const transferFallback = "Falha ao executar transferência"

// DestinationOption local de destino con la marca de estoque existente.
type DestinationOption struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	HasStock bool   `json:"tem_estoque"`
}

// TransferState estado observable del modal de transferência.
type TransferState struct {
	Open            bool                `json:"open"`
	Query           string              `json:"query"`
	Suggestions     []ProductOption     `json:"sugestoes"`
	Searching       bool                `json:"buscando"`
	Product         *ProductOption      `json:"produto,omitempty"`
	Origins         []OriginOption      `json:"origens"`
	Origin          *OriginOption       `json:"origem,omitempty"`
	DestinationType string              `json:"destino_tipo"`
	Centrals        []DestinationOption `json:"centrais"`
	CentralID       string              `json:"central_id"`
	Destinations    []DestinationOption `json:"destinos"`
	DestinationID   string              `json:"destino_id"`
	Submitting      bool                `json:"enviando"`
	Error           string              `json:"erro,omitempty"`
}

// TransferInput campos libres del formulario.
type TransferInput struct {
	Quantidade  string `json:"quantidade"`
	Motivo      string `json:"motivo"`
	Observacoes string `json:"observacoes"`
}

// transferForm lo que se valida antes de ir a la red.
type transferForm struct {
	ProductID   string          `json:"produto"`
	OriginID    string          `json:"origem"`
	Destination string          `json:"destino"`
	Quantity    decimal.Decimal `json:"quantidade"`
}

func (f transferForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.ProductID, validation.Required.Error("Selecione um produto")),
		validation.Field(&f.OriginID, validation.Required.Error("Selecione a origem")),
		validation.Field(&f.Destination, validation.Required.Error("Selecione o destino")),
		validation.Field(&f.Quantity, view.Positive("Quantidade deve ser maior que zero")),
	)
}

// destinationCache centrais, almoxarifados y sub-almoxarifados para elegir destino.
type destinationCache struct {
	loaded   bool
	centrals []entity.Location
	almox    []entity.Location
	subs     []entity.Location
	names    map[string]string
}

// TransferFlow flujo del modal "Nova Transferência".
type TransferFlow struct {
	*picker
	modal     view.Modal
	onSuccess func()

	open       bool
	destType   hierarchy.Level
	centralID  string
	destID     string
	submitting bool
	err        string
	cache      destinationCache
	cacheMu    sync.Mutex
}

// NewTransferFlow crea el flujo cerrado.
func NewTransferFlow(api ports.WarehouseAPI, opts FlowOptions) *TransferFlow {
	if opts.Modal == nil {
		opts.Modal = view.NewStateModal()
	}
	f := &TransferFlow{
		picker:    newPicker(api, opts),
		modal:     opts.Modal,
		onSuccess: opts.OnSuccess,
		destType:  hierarchy.SubAlmoxarifado,
	}
	f.modal.OnHidden(func() {
		f.debounce.Stop()
		f.mu.Lock()
		f.open = false
		f.mu.Unlock()
	})
	return f
}

// Open reinicia el formulario, muestra el modal y carga (una vez) los locales de destino.
func (f *TransferFlow) Open(ctx context.Context) TransferState {
	f.mu.Lock()
	f.resetPicker()
	f.open = true
	f.destType = hierarchy.SubAlmoxarifado
	f.centralID = ""
	f.destID = ""
	f.submitting = false
	f.err = ""
	f.mu.Unlock()

	f.modal.Show()
	f.loadDestinations(ctx)
	return f.State()
}

// Close oculta el modal.
func (f *TransferFlow) Close() { f.modal.Hide() }

// Shutdown libera los recursos del flujo.
func (f *TransferFlow) Shutdown() {
	f.debounce.Stop()
	f.stop()
}

// SetDestinationType cambia el tipo de destino y limpia el local elegido.
func (f *TransferFlow) SetDestinationType(tipo string) error {
	lvl := hierarchy.NormalizeLevel(tipo)
	switch lvl {
	case hierarchy.SubAlmoxarifado, hierarchy.Almoxarifado, hierarchy.Central:
	default:
		return domain.NewValidationError(fmt.Sprintf("Tipo de destino inválido: %s", tipo))
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.destType = lvl
	f.destID = ""
	return nil
}

// SetCentral filtra los destinos por central ("" = todas) y limpia el local elegido.
func (f *TransferFlow) SetCentral(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.centralID = hierarchy.NormalizeIdentifier(id)
	f.destID = ""
}

// SelectDestination fija el local de destino.
func (f *TransferFlow) SelectDestination(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.destID = hierarchy.NormalizeIdentifier(id)
}

// Submit valida y envía la transferência. Con éxito cierra el modal y dispara la recarga;
// con falla el mensaje queda en el estado y el modal sigue abierto.
func (f *TransferFlow) Submit(ctx context.Context, in TransferInput) error {
	qty, _ := inventory.ParseQuantity(in.Quantidade)

	f.mu.Lock()
	form := transferForm{Destination: f.destID, Quantity: qty}
	var req dto.TransferRequest
	if f.product != nil {
		form.ProductID = f.product.ID
	}
	if f.origin != nil {
		form.OriginID = f.origin.ID
		req.Origem = dto.LocationRefDTO{Tipo: f.origin.Type, ID: f.origin.ID}
	}
	if err := view.FirstError(form.Validate(), "produto", "origem", "destino", "quantidade"); err != nil {
		f.err = domain.UserMessage(err, transferFallback)
		f.mu.Unlock()
		return err
	}
	req.ProdutoID = form.ProductID
	req.Quantidade = qty
	req.Destino = dto.LocationRefDTO{Tipo: string(f.destType), ID: f.destID}
	req.Motivo = strPtr(in.Motivo)
	req.Observacoes = strPtr(in.Observacoes)
	f.submitting = true
	f.err = ""
	f.mu.Unlock()

	ctx, cancel := f.bounded(ctx)
	defer cancel()
	err := f.api.Transfer(ctx, req)

	f.mu.Lock()
	f.submitting = false
	if err != nil {
		f.err = domain.UserMessage(err, transferFallback)
		f.mu.Unlock()
		return fmt.Errorf("transferência: %w", err)
	}
	f.mu.Unlock()

	f.modal.Hide()
	if f.onSuccess != nil {
		f.onSuccess()
	}
	return nil
}

// State copia del estado para la vista.
func (f *TransferFlow) State() TransferState {
	f.mu.Lock()
	defer f.mu.Unlock()
	st := TransferState{
		Open:            f.open,
		Query:           f.query,
		Suggestions:     append([]ProductOption{}, f.suggestions...),
		Searching:       f.searching,
		Origins:         append([]OriginOption{}, f.origins...),
		DestinationType: string(f.destType),
		CentralID:       f.centralID,
		DestinationID:   f.destID,
		Submitting:      f.submitting,
		Error:           f.err,
	}
	if f.product != nil {
		p := *f.product
		st.Product = &p
	}
	if f.origin != nil {
		o := *f.origin
		st.Origin = &o
	}
	for _, c := range f.cache.centrals {
		st.Centrals = append(st.Centrals, DestinationOption{ID: c.ID, Label: c.Name})
	}
	st.Destinations = f.destinationsLocked()
	return st
}

// destinationsLocked destinos del tipo elegido filtrados por central; llamar con mu tomado.
func (f *TransferFlow) destinationsLocked() []DestinationOption {
	withStock := make(map[string]bool, len(f.origins))
	for _, o := range f.origins {
		withStock[o.Type+"|"+o.ID] = true
	}
	var list []entity.Location
	switch f.destType {
	case hierarchy.Central:
		out := make([]DestinationOption, 0, len(f.cache.centrals))
		for _, c := range f.cache.centrals {
			out = append(out, DestinationOption{ID: c.ID, Label: c.Name, HasStock: withStock[string(hierarchy.Central)+"|"+c.ID]})
		}
		return out
	case hierarchy.Almoxarifado:
		list = f.cache.almox
	default:
		list = f.cache.subs
	}
	out := make([]DestinationOption, 0, len(list))
	for _, l := range list {
		if f.centralID != "" && l.CentralID != f.centralID {
			continue
		}
		out = append(out, DestinationOption{
			ID:       l.ID,
			Label:    DestinationLabel(l, f.cache.names),
			HasStock: withStock[string(f.destType)+"|"+l.ID],
		})
	}
	return out
}

// DestinationLabel "nome • C<central>", con el id de la central si no se conoce el nombre.
func DestinationLabel(l entity.Location, centralNames map[string]string) string {
	name := l.Name
	if name == "" {
		name = "-"
	}
	cn := centralNames[l.CentralID]
	if cn == "" {
		cn = l.CentralID
	}
	return name + " • C" + cn
}

// loadDestinations carga las tres listas en paralelo una sola vez; una lista que falla queda vacía.
func (f *TransferFlow) loadDestinations(ctx context.Context) {
	f.cacheMu.Lock()
	defer f.cacheMu.Unlock()
	f.mu.Lock()
	loaded := f.cache.loaded
	f.mu.Unlock()
	if loaded {
		return
	}

	ctx, cancel := f.bounded(ctx)
	defer cancel()
	levels := []hierarchy.Level{hierarchy.Central, hierarchy.Almoxarifado, hierarchy.SubAlmoxarifado}
	lists := make([][]entity.Location, len(levels))
	var g errgroup.Group
	for i, lvl := range levels {
		g.Go(func() error {
			locs, err := f.api.ListLocationsByLevel(ctx, lvl)
			if err != nil {
				f.log.Warn().Err(err).Str("nivel", string(lvl)).Msg("locais de destino indisponíveis")
				return nil
			}
			lists[i] = locs
			return nil
		})
	}
	_ = g.Wait()

	names := make(map[string]string, len(lists[0]))
	for _, c := range lists[0] {
		names[c.ID] = c.Name
	}
	f.mu.Lock()
	f.cache = destinationCache{loaded: len(lists[0]) > 0, centrals: lists[0], almox: lists[1], subs: lists[2], names: names}
	f.mu.Unlock()
}
