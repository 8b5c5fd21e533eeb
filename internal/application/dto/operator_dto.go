package dto

import "github.com/shopspring/decimal"

// SectorStockDTO tarjeta "Estoque no meu setor".
type SectorStockDTO struct {
	Total     decimal.Decimal `json:"total"`
	Available decimal.Decimal `json:"disponivel"`
	Reserved  decimal.Decimal `json:"reservado"`
	UpdatedAt string          `json:"atualizado"` // DD/MM/YYYY HH:MM, "-" o vacío sin registro
	Unit      string          `json:"unidade"`
}

// LotRowDTO una fila de la tabla de lotes del operador.
type LotRowDTO struct {
	Number string `json:"numero_lote"`
	Expiry string `json:"venc"`
	Status string `json:"status"` // Vencido | Vence em N dias | Válido | -
}

// SectorLotsDTO lotes con el nivel donde se encontraron (setor, central, ..., produto).
type SectorLotsDTO struct {
	Origin    string      `json:"origem"`
	Rows      []LotRowDTO `json:"lotes"`
	EmptyText string      `json:"vazio,omitempty"`
}

// OperatorPanelDTO todo lo que muestra la página del operador para un producto.
type OperatorPanelDTO struct {
	SectorName string         `json:"setor_nome"`
	ProductID  string         `json:"produto_id"`
	Stock      SectorStockDTO `json:"estoque"`
	Day        DaySummaryDTO  `json:"resumo_dia"`
	Lots       SectorLotsDTO  `json:"lotes"`
}
