package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una demanda.
const (
	DemandPendente             = "pendente"
	DemandAtendido             = "atendido"
	DemandParcialmenteAtendido = "parcialmente_atendido"
	DemandNegado               = "negado"
)

// Demand pedido interno de reposición de un setor.
type Demand struct {
	ID                string
	DisplayID         string
	ProductID         string
	ProductName       string
	SectorID          string
	SectorName        string
	QuantityRequested decimal.Decimal
	Unit              string
	DestinationType   string
	Status            string
	ItemsCount        int
	CreatedAt         *time.Time
	UpdatedAt         *time.Time
}

// LastChange updated_at o, si falta, created_at.
func (d Demand) LastChange() time.Time {
	if d.UpdatedAt != nil {
		return *d.UpdatedAt
	}
	if d.CreatedAt != nil {
		return *d.CreatedAt
	}
	return time.Time{}
}

// IsGroup demanda que agrupa una lista (carrito finalizado).
func (d Demand) IsGroup() bool {
	return d.ItemsCount > 0 || len(d.ProductName) >= 7 && d.ProductName[:7] == "Lista ("
}

// DraftDemandItem ítem del carrito de demanda aún no finalizado.
type DraftDemandItem struct {
	ID          string
	ProductID   string
	ProductName string
	Quantity    decimal.Decimal
	Note        string
}
