package movement

import (
	"context"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/painel-almoxarifado/internal/application/dto"
	"github.com/jhoicas/painel-almoxarifado/internal/application/ports"
	"github.com/jhoicas/painel-almoxarifado/internal/application/view"
	"github.com/jhoicas/painel-almoxarifado/internal/domain"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/entity"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/hierarchy"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/inventory"
)

const (
	distributionFallback = "Falha ao executar distribuição"
	sectorsPerPage       = 1000
)

// SectorTarget setor destino con la cantidad asignada.
type SectorTarget struct {
	ID       string          `json:"id"`
	Name     string          `json:"nome"`
	Quantity decimal.Decimal `json:"quantidade"`
}

// SectorOption setor disponible en la lista filtrable.
type SectorOption struct {
	ID   string `json:"id"`
	Name string `json:"nome"`
}

// DistributionState estado observable del modal de saída.
type DistributionState struct {
	Open         bool            `json:"open"`
	Query        string          `json:"query"`
	Suggestions  []ProductOption `json:"sugestoes"`
	Searching    bool            `json:"buscando"`
	Product      *ProductOption  `json:"produto,omitempty"`
	Origins      []OriginOption  `json:"origens"`
	Origin       *OriginOption   `json:"origem,omitempty"`
	SectorFilter string          `json:"filtro_setor"`
	Sectors      []SectorOption  `json:"setores"`
	Targets      []SectorTarget  `json:"destinos"`
	Submitting   bool            `json:"enviando"`
	Error        string          `json:"erro,omitempty"`
}

// DistributionInput campos libres del formulario.
type DistributionInput struct {
	Motivo      string `json:"motivo"`
	Observacoes string `json:"observacoes"`
}

type distributionForm struct {
	ProductID string                   `json:"produto"`
	OriginID  string                   `json:"origem"`
	Targets   []dto.DistributionTarget `json:"destinos"`
}

func (f distributionForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.ProductID, validation.Required.Error("Selecione um produto")),
		validation.Field(&f.OriginID, validation.Required.Error("Selecione a origem")),
		validation.Field(&f.Targets, validation.Required.Error("Informe ao menos um setor com quantidade maior que zero")),
	)
}

// DistributionFlow flujo del modal "Saída" (distribuição a setores).
type DistributionFlow struct {
	*picker
	modal     view.Modal
	onSuccess func()

	open       bool
	sectors    []entity.Location
	filter     string
	targets    []SectorTarget
	submitting bool
	err        string
}

// NewDistributionFlow crea el flujo cerrado.
func NewDistributionFlow(api ports.WarehouseAPI, opts FlowOptions) *DistributionFlow {
	if opts.Modal == nil {
		opts.Modal = view.NewStateModal()
	}
	f := &DistributionFlow{
		picker:    newPicker(api, opts),
		modal:     opts.Modal,
		onSuccess: opts.OnSuccess,
	}
	f.modal.OnHidden(func() {
		f.debounce.Stop()
		f.mu.Lock()
		f.open = false
		f.mu.Unlock()
	})
	return f
}

// Open reinicia el formulario, muestra el modal y carga los setores.
func (f *DistributionFlow) Open(ctx context.Context) DistributionState {
	f.mu.Lock()
	f.resetPicker()
	f.open = true
	f.filter = ""
	f.targets = nil
	f.submitting = false
	f.err = ""
	f.mu.Unlock()

	f.modal.Show()

	ctx, cancel := f.bounded(ctx)
	defer cancel()
	sectors, err := f.api.ListSectors(ctx, sectorsPerPage)
	if err != nil {
		f.log.Warn().Err(err).Msg("setores indisponíveis")
		sectors = nil
	}
	f.mu.Lock()
	f.sectors = sectors
	f.mu.Unlock()
	return f.State()
}

// Close oculta el modal.
func (f *DistributionFlow) Close() { f.modal.Hide() }

// Shutdown libera los recursos del flujo.
func (f *DistributionFlow) Shutdown() {
	f.debounce.Stop()
	f.stop()
}

// SetSectorFilter filtro de texto sobre el nombre del setor (sin distinguir mayúsculas).
func (f *DistributionFlow) SetSectorFilter(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filter = text
}

// AddTarget agrega un setor con cantidad 0; un setor ya agregado se ignora.
func (f *DistributionFlow) AddTarget(id string) error {
	id = hierarchy.NormalizeIdentifier(id)
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.targets {
		if t.ID == id {
			return nil
		}
	}
	for _, s := range f.sectors {
		if s.ID == id {
			f.targets = append(f.targets, SectorTarget{ID: id, Name: sectorName(s), Quantity: decimal.Zero})
			return nil
		}
	}
	return domain.NewValidationError(fmt.Sprintf("Setor não encontrado: %s", id))
}

// RemoveTarget quita el setor de los destinos.
func (f *DistributionFlow) RemoveTarget(id string) {
	id = hierarchy.NormalizeIdentifier(id)
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.targets[:0]
	for _, t := range f.targets {
		if t.ID != id {
			out = append(out, t)
		}
	}
	f.targets = out
}

// UpdateQuantity fija la cantidad de un destino; ilegible o negativa queda en 0.
func (f *DistributionFlow) UpdateQuantity(id, raw string) {
	id = hierarchy.NormalizeIdentifier(id)
	q, ok := inventory.ParseQuantity(raw)
	if !ok || q.IsNegative() {
		q = decimal.Zero
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.targets {
		if f.targets[i].ID == id {
			f.targets[i].Quantity = q
		}
	}
}

// Submit envía solo los destinos con cantidad > 0; al menos uno es obligatorio.
func (f *DistributionFlow) Submit(ctx context.Context, in DistributionInput) error {
	f.mu.Lock()
	form := distributionForm{}
	var req dto.DistributionRequest
	if f.product != nil {
		form.ProductID = f.product.ID
	}
	if f.origin != nil {
		form.OriginID = f.origin.ID
		req.Origem = dto.LocationRefDTO{Tipo: f.origin.Type, ID: f.origin.ID}
	}
	form.Targets = PositiveTargets(f.targets)
	if err := view.FirstError(form.Validate(), "produto", "origem", "destinos"); err != nil {
		f.err = domain.UserMessage(err, distributionFallback)
		f.mu.Unlock()
		return err
	}
	req.ProdutoID = form.ProductID
	req.Destinos = form.Targets
	req.Motivo = strPtr(in.Motivo)
	req.Observacoes = strPtr(in.Observacoes)
	f.submitting = true
	f.err = ""
	f.mu.Unlock()

	ctx, cancel := f.bounded(ctx)
	defer cancel()
	err := f.api.Distribute(ctx, req)

	f.mu.Lock()
	f.submitting = false
	if err != nil {
		f.err = domain.UserMessage(err, distributionFallback)
		f.mu.Unlock()
		return fmt.Errorf("distribuição: %w", err)
	}
	f.mu.Unlock()

	f.modal.Hide()
	if f.onSuccess != nil {
		f.onSuccess()
	}
	return nil
}

// State copia del estado para la vista.
func (f *DistributionFlow) State() DistributionState {
	f.mu.Lock()
	defer f.mu.Unlock()
	st := DistributionState{
		Open:         f.open,
		Query:        f.query,
		Suggestions:  append([]ProductOption{}, f.suggestions...),
		Searching:    f.searching,
		Origins:      append([]OriginOption{}, f.origins...),
		SectorFilter: f.filter,
		Sectors:      FilterSectors(f.sectors, f.filter),
		Targets:      append([]SectorTarget{}, f.targets...),
		Submitting:   f.submitting,
		Error:        f.err,
	}
	if f.product != nil {
		p := *f.product
		st.Product = &p
	}
	if f.origin != nil {
		o := *f.origin
		st.Origin = &o
	}
	return st
}

// PositiveTargets destinos con cantidad > 0 en el formato del backend.
func PositiveTargets(targets []SectorTarget) []dto.DistributionTarget {
	out := make([]dto.DistributionTarget, 0, len(targets))
	for _, t := range targets {
		if t.Quantity.IsPositive() {
			out = append(out, dto.DistributionTarget{ID: t.ID, Quantidade: t.Quantity})
		}
	}
	return out
}

// FilterSectors setores cuyo nombre contiene text, sin distinguir mayúsculas.
func FilterSectors(sectors []entity.Location, text string) []SectorOption {
	needle := strings.ToLower(strings.TrimSpace(text))
	out := make([]SectorOption, 0, len(sectors))
	for _, s := range sectors {
		name := sectorName(s)
		if needle != "" && !strings.Contains(strings.ToLower(name), needle) {
			continue
		}
		out = append(out, SectorOption{ID: s.ID, Name: name})
	}
	return out
}

func sectorName(s entity.Location) string {
	if s.Name != "" {
		return s.Name
	}
	return s.ID
}
