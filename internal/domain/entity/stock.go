package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/painel-almoxarifado/internal/domain/hierarchy"
)

// StockRecord foto del estoque de un producto en un local de la jerarquía.
// quantity_available ≤ quantity_total lo garantiza el backend; aquí no se revalida.
type StockRecord struct {
	ProductID         string
	ProductName       string
	ProductCode       string
	Unit              string
	RawLocationType   string
	LocationType      hierarchy.Level
	LocationID        string
	LocationName      string
	QuantityTotal     decimal.Decimal
	QuantityAvailable decimal.Decimal
	HasAvailable      bool // false cuando el backend omitió quantidade_disponivel
	QuantityInitial   decimal.Decimal
	LastUpdated       *time.Time
}

// OnHand disponible si vino informado, si no el total.
func (s StockRecord) OnHand() decimal.Decimal {
	if s.HasAvailable {
		return s.QuantityAvailable
	}
	return s.QuantityTotal
}

// ProductStockRow fila de /produtos/{id}/estoque: estoque del producto por local.
type ProductStockRow struct {
	LocationType      hierarchy.Level
	LocationID        string
	LocationName      string
	Quantity          decimal.Decimal
	QuantityAvailable decimal.Decimal
	LastUpdated       *time.Time
}
