package almoxapi

import (
	"context"

	"github.com/jhoicas/painel-almoxarifado/internal/application/dto"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/entity"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/hierarchy"
)

// ListSectors GET /api/setores?per_page.
func (c *Client) ListSectors(ctx context.Context, perPage int) ([]entity.Location, error) {
	return c.listLocations(ctx, "/api/setores", hierarchy.Setor, perPage)
}

// GetSector GET /api/setores/{id}: setor con los ids de sus ancestros.
func (c *Client) GetSector(ctx context.Context, id string) (*entity.Sector, error) {
	var w wireSector
	if err := c.getJSON(ctx, "/api/setores/"+escape(id), nil, &w); err != nil {
		return nil, err
	}
	s := w.toEntity()
	if s.ID == "" {
		s.ID = hierarchy.NormalizeIdentifier(id)
	}
	return &s, nil
}

type wireDaySummary struct {
	RecebidoHojePorOrigem struct {
		Almoxarifado    flexDecimal `json:"almoxarifado"`
		SubAlmoxarifado flexDecimal `json:"sub_almoxarifado"`
	} `json:"recebido_hoje_por_origem"`
	UsadoHojeTotal    flexDecimal `json:"usado_hoje_total"`
	EstoqueDisponivel flexDecimal `json:"estoque_disponivel"`
	EstoqueAtual      flexDecimal `json:"estoque_atual"`
}

// SectorDaySummary GET /api/setores/{id}/produtos/{pid}/resumo-dia.
func (c *Client) SectorDaySummary(ctx context.Context, sectorID, productID string) (*dto.DaySummaryDTO, error) {
	var w wireDaySummary
	path := "/api/setores/" + escape(sectorID) + "/produtos/" + escape(productID) + "/resumo-dia"
	if err := c.getJSON(ctx, path, nil, &w); err != nil {
		return nil, err
	}
	return &dto.DaySummaryDTO{
		ReceivedFromAlmox: w.RecebidoHojePorOrigem.Almoxarifado.Or(zero),
		ReceivedFromSub:   w.RecebidoHojePorOrigem.SubAlmoxarifado.Or(zero),
		UsedToday:         w.UsadoHojeTotal.Or(zero),
		Available:         w.EstoqueDisponivel.Or(w.EstoqueAtual.Or(zero)),
	}, nil
}

// RegisterConsumption POST /api/setor/registro.
func (c *Client) RegisterConsumption(ctx context.Context, req dto.ConsumptionRequest) error {
	return c.post(ctx, "/api/setor/registro", req, nil)
}
