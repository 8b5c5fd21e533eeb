package almoxapi

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/painel-almoxarifado/internal/application/dto"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/entity"
)

// LotsForProducts consulta los lotes de cada producto con a lo sumo maxConcurrency
// llamadas simultáneas y examinando como máximo maxProducts productos.
// Una falla de un producto se registra y se omite; la cancelación del contexto
// aborta todo el recorrido.
func (c *Client) LotsForProducts(ctx context.Context, products []entity.Product) ([]entity.Lot, error) {
	if len(products) > c.maxProducts {
		c.log.Debug().Int("products", len(products)).Int("limit", c.maxProducts).Msg("recorrido de lotes truncado")
		products = products[:c.maxProducts]
	}

	results := make([][]entity.Lot, len(products))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.maxConcurrency)

	var mu sync.Mutex
	failed := 0
	for i, p := range products {
		if p.ID == "" {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			lots, err := c.ProductLots(gctx, p.ID, dto.LotQuery{})
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				mu.Lock()
				failed++
				mu.Unlock()
				c.log.Warn().Err(err).Str("produto_id", p.ID).Msg("lotes del producto omitidos")
				return nil
			}
			for j := range lots {
				if lots[j].ProductName == "" {
					lots[j].ProductName = p.Name
				}
			}
			results[i] = lots
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]entity.Lot, 0)
	for _, r := range results {
		out = append(out, r...)
	}
	if failed > 0 {
		c.log.Debug().Int("failed", failed).Int("lots", len(out)).Msg("recorrido de lotes con omisiones")
	}
	return out, nil
}
