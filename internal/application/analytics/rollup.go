package analytics

import (
	"fmt"
	"strings"

	"github.com/jhoicas/painel-almoxarifado/internal/application/dto"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/entity"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/hierarchy"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/inventory"
)

// UnknownLevelPolicy destino de los registros cuyo nivel no es uno de los cuatro conocidos.
type UnknownLevelPolicy int

const (
	// UnknownBucket suma en el balde Outros.
	UnknownBucket UnknownLevelPolicy = iota
	// FoldUnknownIntoAlmoxarifado suma en almoxarifado, como hacía el painel anterior.
	FoldUnknownIntoAlmoxarifado
)

// ParseUnknownLevelPolicy interpreta ROLLUP_UNKNOWN_POLICY ("bucket" | "almoxarifado").
func ParseUnknownLevelPolicy(s string) (UnknownLevelPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "bucket", "outros":
		return UnknownBucket, nil
	case "almoxarifado", "fold":
		return FoldUnknownIntoAlmoxarifado, nil
	}
	return UnknownBucket, fmt.Errorf("política de nivel desconocido inválida: %q", s)
}

func (p UnknownLevelPolicy) String() string {
	if p == FoldUnknownIntoAlmoxarifado {
		return "almoxarifado"
	}
	return "bucket"
}

// RollupByProduct agrupa el estoque por producto sumando la cantidad total en cada nivel.
// Disponible e inicial se suman sobre todos los niveles para el badge de estado.
// Registros sin produto_id se omiten. El orden es el de primera aparición.
func RollupByProduct(stock []entity.StockRecord, policy UnknownLevelPolicy) []dto.ProductRollupDTO {
	index := make(map[string]int)
	out := make([]dto.ProductRollupDTO, 0)
	for _, r := range stock {
		if r.ProductID == "" {
			continue
		}
		i, ok := index[r.ProductID]
		if !ok {
			i = len(out)
			index[r.ProductID] = i
			out = append(out, dto.ProductRollupDTO{
				ProductID:   r.ProductID,
				ProductName: r.ProductName,
				ProductCode: r.ProductCode,
				Unit:        r.Unit,
			})
		}
		p := &out[i]
		switch r.LocationType {
		case hierarchy.Central:
			p.Central = p.Central.Add(r.QuantityTotal)
		case hierarchy.Almoxarifado:
			p.Almoxarifado = p.Almoxarifado.Add(r.QuantityTotal)
		case hierarchy.SubAlmoxarifado:
			p.SubAlmoxarifado = p.SubAlmoxarifado.Add(r.QuantityTotal)
		case hierarchy.Setor:
			p.Setor = p.Setor.Add(r.QuantityTotal)
		default:
			if policy == FoldUnknownIntoAlmoxarifado {
				p.Almoxarifado = p.Almoxarifado.Add(r.QuantityTotal)
			} else {
				p.Outros = p.Outros.Add(r.QuantityTotal)
			}
		}
		p.Available = p.Available.Add(r.QuantityAvailable)
		p.Initial = p.Initial.Add(r.QuantityInitial)
		if r.LastUpdated != nil && (p.LastUpdated == nil || r.LastUpdated.After(*p.LastUpdated)) {
			t := *r.LastUpdated
			p.LastUpdated = &t
		}
	}
	for i := range out {
		out[i].Status = string(inventory.ClassifyStock(out[i].Available, out[i].Initial))
	}
	return out
}

// SummarizeStock cuenta productos y locales distintos y registros baixos/zerados.
func SummarizeStock(stock []entity.StockRecord) dto.StockSummaryDTO {
	products := make(map[string]struct{})
	locations := make(map[string]struct{})
	var s dto.StockSummaryDTO
	for _, r := range stock {
		products[r.ProductID] = struct{}{}
		locations[r.LocationID] = struct{}{}
		switch inventory.ClassifyStock(r.QuantityAvailable, r.QuantityInitial) {
		case inventory.StockZerado:
			s.Zero++
		case inventory.StockBaixo:
			s.Low++
		}
	}
	s.Products = len(products)
	s.Locations = len(locations)
	return s
}
