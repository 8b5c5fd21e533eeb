package almoxapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jhoicas/painel-almoxarifado/internal/application/dto"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/entity"
)

// ListDemands GET /api/demandas[?status][&mine=1][&per_page].
func (c *Client) ListDemands(ctx context.Context, status string, mine bool, perPage int) ([]entity.Demand, error) {
	v := url.Values{}
	setIf(v, "status", status)
	if mine {
		v.Set("mine", "1")
	}
	if perPage > 0 {
		v.Set("per_page", itoa(perPage))
	}
	raw, err := c.do(ctx, http.MethodGet, "/api/demandas", v, nil)
	if err != nil {
		return nil, err
	}
	wire, err := decodeList[wireDemand](raw, "items")
	if err != nil {
		return nil, err
	}
	out := make([]entity.Demand, 0, len(wire))
	for _, w := range wire {
		out = append(out, w.toEntity(c.loc))
	}
	return out, nil
}

// CreateDemand POST /api/demandas.
func (c *Client) CreateDemand(ctx context.Context, req dto.NewDemandRequest) error {
	return c.post(ctx, "/api/demandas", req, nil)
}

// ListDraft GET /api/demandas/lista.
func (c *Client) ListDraft(ctx context.Context) ([]entity.DraftDemandItem, error) {
	raw, err := c.do(ctx, http.MethodGet, "/api/demandas/lista", nil, nil)
	if err != nil {
		return nil, err
	}
	wire, err := decodeList[wireDraftItem](raw, "items")
	if err != nil {
		return nil, err
	}
	out := make([]entity.DraftDemandItem, 0, len(wire))
	for _, w := range wire {
		out = append(out, w.toEntity())
	}
	return out, nil
}

// AddDraftItem POST /api/demandas/lista.
func (c *Client) AddDraftItem(ctx context.Context, req dto.DraftItemRequest) error {
	return c.post(ctx, "/api/demandas/lista", req, nil)
}

// RemoveDraftItem DELETE /api/demandas/lista/{id}.
func (c *Client) RemoveDraftItem(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/demandas/lista/"+escape(id), nil, nil)
	return err
}

// ClearDraft POST /api/demandas/lista/clear.
func (c *Client) ClearDraft(ctx context.Context) error {
	return c.post(ctx, "/api/demandas/lista/clear", nil, nil)
}

// FinalizeDraft POST /api/demandas/finalizar.
func (c *Client) FinalizeDraft(ctx context.Context, req dto.FinalizeDraftRequest) error {
	return c.post(ctx, "/api/demandas/finalizar", req, nil)
}
