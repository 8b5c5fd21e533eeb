package almoxapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jhoicas/painel-almoxarifado/internal/application/dto"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/entity"
)

func movementValues(q dto.MovementQuery) url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", itoa(q.Page))
	}
	if q.PerPage > 0 {
		v.Set("per_page", itoa(q.PerPage))
	}
	setIf(v, "tipo", q.Tipo)
	setIf(v, "produto", q.Produto)
	setIf(v, "data_inicio", q.DataInicio)
	setIf(v, "data_fim", q.DataFim)
	setIf(v, "ordem", q.Ordem)
	return v
}

// ListMovements GET /api/movimentacoes.
func (c *Client) ListMovements(ctx context.Context, q dto.MovementQuery) (entity.Page[entity.Movement], error) {
	raw, err := c.do(ctx, http.MethodGet, "/api/movimentacoes", movementValues(q), nil)
	if err != nil {
		return entity.Page[entity.Movement]{}, err
	}
	wire, err := decodeList[wireMovement](raw, "items")
	if err != nil {
		return entity.Page[entity.Movement]{}, err
	}
	pag, err := NormalizePagination(raw, q.Page, q.PerPage, len(wire))
	if err != nil {
		return entity.Page[entity.Movement]{}, err
	}
	items := make([]entity.Movement, 0, len(wire))
	for _, w := range wire {
		items = append(items, w.toEntity(c.loc))
	}
	return entity.Page[entity.Movement]{Items: items, Pagination: pag}, nil
}

// Transfer POST /api/movimentacoes/transferencia.
func (c *Client) Transfer(ctx context.Context, req dto.TransferRequest) error {
	return c.post(ctx, "/api/movimentacoes/transferencia", req, nil)
}

// Distribute POST /api/movimentacoes/distribuicao.
func (c *Client) Distribute(ctx context.Context, req dto.DistributionRequest) error {
	return c.post(ctx, "/api/movimentacoes/distribuicao", req, nil)
}
