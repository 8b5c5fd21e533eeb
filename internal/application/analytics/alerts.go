package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/painel-almoxarifado/internal/application/dto"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/entity"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/inventory"
)

const (
	LowStockWidgetLimit = 3
	ExpiryWidgetLimit   = 5
)

var hundred = decimal.NewFromInt(100)

func stockAlert(r entity.StockRecord, status inventory.StockStatus) dto.StockAlertDTO {
	threshold := inventory.LowStockThreshold(r.QuantityInitial)
	fill := 0.0
	if threshold.IsPositive() {
		pct := decimal.Min(hundred, r.QuantityAvailable.Div(threshold).Mul(hundred))
		fill = decimal.Max(decimal.Zero, pct).InexactFloat64()
	}
	return dto.StockAlertDTO{
		ProductID:    r.ProductID,
		ProductName:  r.ProductName,
		LocationType: r.LocationType.Label(),
		LocationName: r.LocationName,
		Available:    r.QuantityAvailable,
		Initial:      r.QuantityInitial,
		Threshold:    threshold,
		Status:       string(status),
		FillPct:      fill,
	}
}

// LowStockAlerts clasifica cada registro con su propio umbral y devuelve los primeros
// limit zerados y los primeros limit baixos (orden de llegada), más los totales.
func LowStockAlerts(stock []entity.StockRecord, limit int) dto.LowStockDTO {
	out := dto.LowStockDTO{Zero: []dto.StockAlertDTO{}, Low: []dto.StockAlertDTO{}}
	for _, r := range stock {
		switch status := inventory.ClassifyStock(r.QuantityAvailable, r.QuantityInitial); status {
		case inventory.StockZerado:
			out.ZeroCount++
			if limit <= 0 || len(out.Zero) < limit {
				out.Zero = append(out.Zero, stockAlert(r, status))
			}
		case inventory.StockBaixo:
			out.LowCount++
			if limit <= 0 || len(out.Low) < limit {
				out.Low = append(out.Low, stockAlert(r, status))
			}
		}
	}
	return out
}

// ExpiryAttention lista los lotes vencidos y próximos a vencer (≤30 días); los válidos
// quedan fuera. Orden: vencidos primero, luego días ascendentes. Lotes sin fecha se ignoran.
func ExpiryAttention(lots []entity.Lot, now time.Time, limit int) dto.ExpiryAttentionDTO {
	items := make([]dto.ExpiryItemDTO, 0)
	out := dto.ExpiryAttentionDTO{}
	for _, l := range lots {
		if l.ExpiryDate == nil {
			continue
		}
		status, days := inventory.ClassifyExpiry(*l.ExpiryDate, now)
		switch status {
		case inventory.ExpiryVencido:
			out.ExpiredCount++
		case inventory.ExpiryProximo:
			out.NearCount++
		default:
			continue
		}
		lotNumber := l.LotNumber
		if lotNumber == "" {
			lotNumber = "-"
		}
		items = append(items, dto.ExpiryItemDTO{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			LotNumber:   lotNumber,
			ExpiryDate:  *l.ExpiryDate,
			Days:        days,
			Status:      string(status),
			Label:       inventory.ExpiryLabel(days),
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		vi := items[i].Status == string(inventory.ExpiryVencido)
		vj := items[j].Status == string(inventory.ExpiryVencido)
		if vi != vj {
			return vi
		}
		return items[i].Days < items[j].Days
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	out.Items = items
	return out
}
