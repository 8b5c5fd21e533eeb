// Package operator atiende la página del operador de setor: estoque del producto en
// su setor, resumen del día, lotes y registro de consumo.
package operator

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/painel-almoxarifado/internal/application/dto"
	"github.com/jhoicas/painel-almoxarifado/internal/application/ports"
	"github.com/jhoicas/painel-almoxarifado/internal/domain"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/entity"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/hierarchy"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/inventory"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/series"
)

const (
	searchPerPage      = 10
	noLotsText         = "Sem lotes cadastrados."
	consumptionFailMsg = "Erro ao registrar consumo."
)

// Origen de los lotes mostrados.
const (
	LotsFromProduct = "produto"
	LotsNone        = ""
)

// Options configuración del servicio.
type Options struct {
	Timeout  time.Duration
	Location *time.Location
	Now      func() time.Time
	Logger   zerolog.Logger
}

// Service casos de uso del operador. Todo se limita al setor del AccessContext.
type Service struct {
	api     ports.WarehouseAPI
	timeout time.Duration
	loc     *time.Location
	now     func() time.Time
	log     zerolog.Logger
}

// NewService construye el servicio.
func NewService(api ports.WarehouseAPI, opts Options) *Service {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{api: api, timeout: opts.Timeout, loc: opts.Location, now: opts.Now, log: opts.Logger}
}

// SearchProducts sugerencias de producto; sin texto devuelve los primeros del catálogo.
func (s *Service) SearchProducts(ctx context.Context, term string) ([]entity.Product, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()
	products, err := s.api.ListProducts(ctx, dto.ProductQuery{Search: term, PerPage: searchPerPage})
	if err != nil {
		return nil, fmt.Errorf("operador: buscar produtos: %w", err)
	}
	return products, nil
}

// SectorName nombre del setor del operador; "-" sin setor y el id si el backend falla.
func (s *Service) SectorName(ctx context.Context, access entity.AccessContext) string {
	if access.SectorID == "" {
		return "-"
	}
	sector, err := s.sector(ctx, access.SectorID)
	if err != nil || sector == nil {
		return access.SectorID
	}
	if sector.Name == "" {
		return "Setor"
	}
	return sector.Name
}

// Panel carga en paralelo tarjeta de estoque, resumen del día y lotes del producto.
// Cada parte que falla queda en cero sin afectar a las demás.
func (s *Service) Panel(ctx context.Context, access entity.AccessContext, productID, unit string) (*dto.OperatorPanelDTO, error) {
	productID = hierarchy.NormalizeIdentifier(productID)
	if productID == "" {
		return nil, domain.NewValidationError("Selecione um produto primeiro.")
	}
	out := &dto.OperatorPanelDTO{ProductID: productID}
	var g errgroup.Group
	g.Go(func() error {
		out.SectorName = s.SectorName(ctx, access)
		return nil
	})
	g.Go(func() error {
		out.Stock = s.StockCard(ctx, access.SectorID, productID, unit)
		return nil
	})
	g.Go(func() error {
		out.Day = s.DaySummary(ctx, access.SectorID, productID)
		return nil
	})
	g.Go(func() error {
		out.Lots = s.Lots(ctx, access.SectorID, productID)
		return nil
	})
	_ = g.Wait()
	return out, nil
}

// StockCard busca la fila de tipo setor cuyo local es el setor del operador (por su id
// o por el id que devuelve /setores/{id}). Reservado = max(0, total − disponível).
func (s *Service) StockCard(ctx context.Context, sectorID, productID, unit string) dto.SectorStockDTO {
	card := dto.SectorStockDTO{Total: decimal.Zero, Available: decimal.Zero, Reserved: decimal.Zero, Unit: unit}
	ctx, cancel := s.bounded(ctx)
	defer cancel()
	rows, err := s.api.ProductStock(ctx, productID)
	if err != nil {
		s.log.Warn().Err(err).Str("produto", productID).Msg("estoque do setor indisponível")
		return card
	}
	candidates := map[string]bool{}
	if sectorID != "" {
		candidates[sectorID] = true
		if sector, err := s.sector(ctx, sectorID); err == nil && sector != nil && sector.ID != "" {
			candidates[sector.ID] = true
		}
	}
	for _, r := range rows {
		if r.LocationType != hierarchy.Setor || !candidates[r.LocationID] {
			continue
		}
		card.Total = r.Quantity
		card.Available = r.QuantityAvailable
		card.Reserved = decimal.Max(decimal.Zero, r.Quantity.Sub(r.QuantityAvailable))
		card.UpdatedAt = "-"
		if r.LastUpdated != nil {
			card.UpdatedAt = series.FormatBRDateTime(r.LastUpdated.In(s.loc))
		}
		return card
	}
	return card
}

// DaySummary resumen del día; ceros sin setor o si el backend falla.
func (s *Service) DaySummary(ctx context.Context, sectorID, productID string) dto.DaySummaryDTO {
	zero := dto.DaySummaryDTO{ReceivedFromAlmox: decimal.Zero, ReceivedFromSub: decimal.Zero, UsedToday: decimal.Zero, Available: decimal.Zero}
	if sectorID == "" {
		return zero
	}
	ctx, cancel := s.bounded(ctx)
	defer cancel()
	sum, err := s.api.SectorDaySummary(ctx, sectorID, productID)
	if err != nil || sum == nil {
		if err != nil {
			s.log.Warn().Err(err).Str("setor", sectorID).Msg("resumo do dia indisponível")
		}
		return zero
	}
	return *sum
}

// Lots recorre setor → central → almoxarifado → sub_almoxarifado → todo el producto y
// devuelve la primera lista no vacía.
func (s *Service) Lots(ctx context.Context, sectorID, productID string) dto.SectorLotsDTO {
	empty := dto.SectorLotsDTO{Origin: LotsNone, Rows: []dto.LotRowDTO{}, EmptyText: noLotsText}
	if sectorID == "" {
		return empty
	}
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	origin, lots := s.findLots(ctx, sectorID, productID)
	if len(lots) == 0 {
		return empty
	}
	now := s.now().In(s.loc)
	rows := make([]dto.LotRowDTO, 0, len(lots))
	for _, l := range lots {
		rows = append(rows, LotRow(l, now, s.loc))
	}
	return dto.SectorLotsDTO{Origin: origin, Rows: rows}
}

type lotStep struct {
	level hierarchy.Level
	ids   []string
}

func (s *Service) findLots(ctx context.Context, sectorID, productID string) (string, []entity.Lot) {
	if lots := s.lotsAt(ctx, productID, hierarchy.Setor, sectorID); len(lots) > 0 {
		return string(hierarchy.Setor), lots
	}
	var chain []lotStep
	if sector, err := s.sector(ctx, sectorID); err == nil && sector != nil {
		chain = []lotStep{
			{hierarchy.Central, sector.CentralIDs},
			{hierarchy.Almoxarifado, sector.AlmoxarifadoIDs},
			{hierarchy.SubAlmoxarifado, sector.SubAlmoxarifadoIDs},
		}
	}
	for _, step := range chain {
		for _, id := range step.ids {
			if lots := s.lotsAt(ctx, productID, step.level, id); len(lots) > 0 {
				return string(step.level), lots
			}
		}
	}
	lots, err := s.api.ProductLots(ctx, productID, dto.LotQuery{})
	if err != nil {
		s.log.Warn().Err(err).Str("produto", productID).Msg("lotes do produto indisponíveis")
		return LotsNone, nil
	}
	return LotsFromProduct, lots
}

func (s *Service) lotsAt(ctx context.Context, productID string, level hierarchy.Level, id string) []entity.Lot {
	lots, err := s.api.ProductLots(ctx, productID, dto.LotQuery{LocationType: string(level), LocationID: id})
	if err != nil {
		s.log.Debug().Err(err).Str("nivel", string(level)).Str("local", id).Msg("lotes indisponíveis no local")
		return nil
	}
	return lots
}

// LotRow número, vencimiento DD/MM/YYYY y estado del lote respecto de now.
func LotRow(l entity.Lot, now time.Time, loc *time.Location) dto.LotRowDTO {
	row := dto.LotRowDTO{Number: l.LotNumber, Expiry: "-", Status: "-"}
	if row.Number == "" {
		row.Number = "-"
	}
	if l.ExpiryDate == nil {
		return row
	}
	exp := l.ExpiryDate.In(loc)
	row.Expiry = series.FormatBR(exp)
	switch st, days := inventory.ClassifyExpiry(exp, now); st {
	case inventory.ExpiryVencido:
		row.Status = "Vencido"
	case inventory.ExpiryProximo:
		row.Status = fmt.Sprintf("Vence em %d dias", days)
	default:
		row.Status = "Válido"
	}
	return row
}

// RegisterConsumption registra el consumo del día del producto en el setor del operador.
func (s *Service) RegisterConsumption(ctx context.Context, access entity.AccessContext, productID, raw string) error {
	productID = hierarchy.NormalizeIdentifier(productID)
	if productID == "" {
		return domain.NewValidationError("Selecione um produto primeiro.")
	}
	qty, ok := inventory.ParseQuantity(raw)
	if !ok || !qty.IsPositive() {
		return domain.NewValidationError("Informe uma quantidade maior que zero.")
	}
	ctx, cancel := s.bounded(ctx)
	defer cancel()
	if err := s.api.RegisterConsumption(ctx, dto.ConsumptionRequest{ProdutoID: productID, SaidaDia: qty}); err != nil {
		return fmt.Errorf("operador: registrar consumo: %w", err)
	}
	s.log.Info().Str("setor", access.SectorID).Str("produto", productID).Str("quantidade", qty.String()).Msg("consumo registrado")
	return nil
}

// ConsumptionMessage texto de estado tras RegisterConsumption.
func ConsumptionMessage(err error) string {
	if err == nil {
		return "Consumo registrado."
	}
	return domain.UserMessage(err, consumptionFailMsg)
}

func (s *Service) sector(ctx context.Context, id string) (*entity.Sector, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()
	return s.api.GetSector(ctx, id)
}

func (s *Service) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}
	return context.WithCancel(ctx)
}
