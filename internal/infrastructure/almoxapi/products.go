package almoxapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/jhoicas/painel-almoxarifado/internal/application/dto"
	"github.com/jhoicas/painel-almoxarifado/internal/domain"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/entity"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/hierarchy"
)

// ListProducts GET /api/produtos?search&per_page&ativo.
func (c *Client) ListProducts(ctx context.Context, q dto.ProductQuery) ([]entity.Product, error) {
	v := url.Values{}
	setIf(v, "search", strings.TrimSpace(q.Search))
	if q.PerPage > 0 {
		v.Set("per_page", itoa(q.PerPage))
	}
	if q.Active != nil {
		v.Set("ativo", fmt.Sprintf("%t", *q.Active))
	}
	raw, err := c.do(ctx, http.MethodGet, "/api/produtos", v, nil)
	if err != nil {
		return nil, err
	}
	wire, err := decodeList[wireProduct](raw, "items")
	if err != nil {
		return nil, err
	}
	out := make([]entity.Product, 0, len(wire))
	for _, w := range wire {
		out = append(out, w.toEntity())
	}
	return out, nil
}

// ListCategories GET /api/categorias?ativo=true&per_page=1000.
func (c *Client) ListCategories(ctx context.Context) ([]entity.Category, error) {
	v := url.Values{"ativo": {"true"}, "per_page": {"1000"}}
	raw, err := c.do(ctx, http.MethodGet, "/api/categorias", v, nil)
	if err != nil {
		return nil, err
	}
	wire, err := decodeList[wireCategory](raw, "items")
	if err != nil {
		return nil, err
	}
	out := make([]entity.Category, 0, len(wire))
	for _, w := range wire {
		out = append(out, entity.Category{ID: string(w.ID), Code: w.Codigo, Name: w.Nome})
	}
	return out, nil
}

// CreateProduct POST /api/produtos; devuelve el id creado.
func (c *Client) CreateProduct(ctx context.Context, p entity.NewProduct) (string, error) {
	var resp struct {
		ID flexString `json:"id"`
	}
	if err := c.post(ctx, "/api/produtos", p, &resp); err != nil {
		return "", err
	}
	return string(resp.ID), nil
}

// GenerateProductCode POST /api/produtos/gerar-codigo.
func (c *Client) GenerateProductCode(ctx context.Context, req dto.GenerateCodeRequest) (string, error) {
	var resp struct {
		Success flexBool `json:"success"`
		Codigo  string   `json:"codigo"`
	}
	if err := c.post(ctx, "/api/produtos/gerar-codigo", req, &resp); err != nil {
		return "", err
	}
	if (resp.Success.Set && !resp.Success.Value) || resp.Codigo == "" {
		return "", fmt.Errorf("almoxapi: gerar-codigo sin código: %w", domain.ErrMalformedResponse)
	}
	return resp.Codigo, nil
}

// ProductLots GET /api/produtos/{id}/lotes[?local_tipo&local_id].
func (c *Client) ProductLots(ctx context.Context, productID string, q dto.LotQuery) ([]entity.Lot, error) {
	v := url.Values{}
	setIf(v, "local_tipo", q.LocationType)
	setIf(v, "local_id", q.LocationID)
	raw, err := c.do(ctx, http.MethodGet, "/api/produtos/"+escape(productID)+"/lotes", v, nil)
	if err != nil {
		return nil, err
	}
	wire, err := decodeList[wireLot](raw, "items")
	if err != nil {
		return nil, err
	}
	out := make([]entity.Lot, 0, len(wire))
	for _, w := range wire {
		lot := w.toEntity(c.loc)
		if lot.ProductID == "" {
			lot.ProductID = productID
		}
		out = append(out, lot)
	}
	return out, nil
}

// ProductStock GET /api/produtos/{id}/estoque (lista bajo "estoques").
func (c *Client) ProductStock(ctx context.Context, productID string) ([]entity.ProductStockRow, error) {
	raw, err := c.do(ctx, http.MethodGet, "/api/produtos/"+escape(productID)+"/estoque", nil, nil)
	if err != nil {
		return nil, err
	}
	wire, err := decodeList[wireProductStock](raw, "estoques")
	if err != nil {
		return nil, err
	}
	out := make([]entity.ProductStockRow, 0, len(wire))
	for _, w := range wire {
		out = append(out, w.toEntity(c.loc))
	}
	return out, nil
}

// ProductWarehouses GET /api/produtos/{id}/almoxarifados (lista bajo "almoxarifados").
func (c *Client) ProductWarehouses(ctx context.Context, productID string) ([]entity.Location, error) {
	raw, err := c.do(ctx, http.MethodGet, "/api/produtos/"+escape(productID)+"/almoxarifados", nil, nil)
	if err != nil {
		return nil, err
	}
	wire, err := decodeList[wireLocation](raw, "almoxarifados")
	if err != nil {
		return nil, err
	}
	out := make([]entity.Location, 0, len(wire))
	for _, w := range wire {
		out = append(out, w.toEntity(hierarchy.Almoxarifado))
	}
	return out, nil
}

// ReceiveProduct POST /api/produtos/{id}/recebimento.
func (c *Client) ReceiveProduct(ctx context.Context, productID string, req dto.ReceiptRequest) error {
	return c.post(ctx, "/api/produtos/"+escape(productID)+"/recebimento", req, nil)
}
