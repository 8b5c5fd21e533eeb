package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/painel-almoxarifado/internal/domain/hierarchy"
)

// LocationRef referencia a un local de la jerarquía (origen o destino de un movimiento).
type LocationRef struct {
	RawType string          // tal como llegó del backend
	Type    hierarchy.Level // normalizado
	ID      string          // identificador normalizado
	Name    string
}

// Movement registro de movimentação. Inmutable una vez leído; cada fetch reemplaza el conjunto.
type Movement struct {
	ID              string
	Type            string // normalizado: entrada, saida, transferencia, consumo, retirada, distribuicao
	ProductID       string
	ProductName     string
	Quantity        decimal.NullDecimal // Valid=false si el backend mandó null o un valor ilegible
	Origin          LocationRef
	Destination     LocationRef
	Timestamp       *time.Time
	ResponsibleUser string
	Reason          string
	Notes           string
}

// OutboundQuantity cantidad utilizable para series de consumo: solo positiva y válida.
func (m Movement) OutboundQuantity() (decimal.Decimal, bool) {
	if !m.Quantity.Valid || !m.Quantity.Decimal.IsPositive() {
		return decimal.Zero, false
	}
	return m.Quantity.Decimal, true
}
