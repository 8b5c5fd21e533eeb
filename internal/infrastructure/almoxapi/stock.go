package almoxapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jhoicas/painel-almoxarifado/internal/application/dto"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/entity"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/hierarchy"
)

func stockValues(q dto.StockQuery) url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", itoa(q.Page))
	}
	if q.PerPage > 0 {
		v.Set("per_page", itoa(q.PerPage))
	}
	setIf(v, "produto", q.Produto)
	setIf(v, "tipo", q.Tipo)
	setIf(v, "status", q.Status)
	setIf(v, "local", q.Local)
	return v
}

// ListStock GET /api/estoque/hierarquia. Acepta arreglo desnudo o {items, pagination}.
func (c *Client) ListStock(ctx context.Context, q dto.StockQuery) (entity.Page[entity.StockRecord], error) {
	raw, err := c.do(ctx, http.MethodGet, "/api/estoque/hierarquia", stockValues(q), nil)
	if err != nil {
		return entity.Page[entity.StockRecord]{}, err
	}
	wire, err := decodeList[wireStock](raw, "items")
	if err != nil {
		return entity.Page[entity.StockRecord]{}, err
	}
	pag, err := NormalizePagination(raw, q.Page, q.PerPage, len(wire))
	if err != nil {
		return entity.Page[entity.StockRecord]{}, err
	}
	items := make([]entity.StockRecord, 0, len(wire))
	for _, w := range wire {
		items = append(items, w.toEntity(c.loc))
	}
	return entity.Page[entity.StockRecord]{Items: items, Pagination: pag}, nil
}

// StockExportURL URL de descarga del export con los mismos filtros (sin paginar).
func (c *Client) StockExportURL(q dto.StockQuery) string {
	q.Page = 1
	return c.endpoint("/api/estoque/hierarquia/export", stockValues(q))
}

// ListLocations GET /api/hierarquia/locais (todos los niveles).
func (c *Client) ListLocations(ctx context.Context) ([]entity.Location, error) {
	raw, err := c.do(ctx, http.MethodGet, "/api/hierarquia/locais", nil, nil)
	if err != nil {
		return nil, err
	}
	wire, err := decodeList[wireLocation](raw, "items")
	if err != nil {
		return nil, err
	}
	out := make([]entity.Location, 0, len(wire))
	for _, w := range wire {
		out = append(out, w.toEntity(""))
	}
	return out, nil
}

var levelPaths = map[hierarchy.Level]string{
	hierarchy.Central:         "/api/centrais",
	hierarchy.Almoxarifado:    "/api/almoxarifados",
	hierarchy.SubAlmoxarifado: "/api/sub-almoxarifados",
	hierarchy.Setor:           "/api/setores",
}

// ListLocationsByLevel GET /api/centrais|almoxarifados|sub-almoxarifados|setores?per_page=1000.
func (c *Client) ListLocationsByLevel(ctx context.Context, level hierarchy.Level) ([]entity.Location, error) {
	path, ok := levelPaths[level]
	if !ok {
		return []entity.Location{}, nil
	}
	return c.listLocations(ctx, path, level, 1000)
}

func (c *Client) listLocations(ctx context.Context, path string, level hierarchy.Level, perPage int) ([]entity.Location, error) {
	q := url.Values{}
	if perPage > 0 {
		q.Set("per_page", itoa(perPage))
	}
	raw, err := c.do(ctx, http.MethodGet, path, q, nil)
	if err != nil {
		return nil, err
	}
	wire, err := decodeList[wireLocation](raw, "items")
	if err != nil {
		return nil, err
	}
	out := make([]entity.Location, 0, len(wire))
	for _, w := range wire {
		out = append(out, w.toEntity(level))
	}
	return out, nil
}
