package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ── Consumo ───────────────────────────────────────────────────────────────────

// LevelSeriesDTO serie diaria de consumo de un nivel de la jerarquía.
type LevelSeriesDTO struct {
	Level     string    `json:"level"`
	Label     string    `json:"label"`
	Color     string    `json:"color"`
	Daily     []float64 `json:"daily"`
	MovingAvg []float64 `json:"moving_avg"` // media móvil de 7 días (lo que se grafica)
	Last7Avg  float64   `json:"last7_avg"`
}

// ConsumptionByLevelDTO widget consumo_medio.
type ConsumptionByLevelDTO struct {
	Days    []string         `json:"days"`   // YYYY-MM-DD, el más antiguo primero
	Labels  []string         `json:"labels"` // MM-DD
	Series  []LevelSeriesDTO `json:"series"`
	Summary string           `json:"summary"`
}

// SectorConsumptionDTO una fila del widget consumo_por_setor.
type SectorConsumptionDTO struct {
	SectorID  string          `json:"sector_id"`
	Name      string          `json:"name"`
	ShortName string          `json:"short_name"`
	Color     string          `json:"color"`
	Daily     []float64       `json:"daily"`
	MovingAvg []float64       `json:"moving_avg"`
	Total30d  float64         `json:"total_30d"`
	Last7Avg  float64         `json:"last7_avg"`
	OnHand    decimal.Decimal `json:"on_hand"`
}

// ConsumptionBySectorDTO widget consumo_por_setor.
type ConsumptionBySectorDTO struct {
	Days    []string               `json:"days"`
	Labels  []string               `json:"labels"`
	Sectors []SectorConsumptionDTO `json:"sectors"`
}

// ── Alertas ───────────────────────────────────────────────────────────────────

// StockAlertDTO registro de estoque zerado o baixo.
type StockAlertDTO struct {
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	LocationType string          `json:"location_type"`
	LocationName string          `json:"location_name"`
	Available    decimal.Decimal `json:"available"`
	Initial      decimal.Decimal `json:"initial"`
	Threshold    decimal.Decimal `json:"threshold"`
	Status       string          `json:"status"`
	FillPct      float64         `json:"fill_pct"` // min(100, disponible/umbral*100)
}

// LowStockDTO widget estoque_baixo.
type LowStockDTO struct {
	Zero      []StockAlertDTO `json:"zero"`
	Low       []StockAlertDTO `json:"low"`
	ZeroCount int             `json:"zero_count"`
	LowCount  int             `json:"low_count"`
}

// ExpiryItemDTO lote que requiere atención.
type ExpiryItemDTO struct {
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	LotNumber   string    `json:"lot_number"`
	ExpiryDate  time.Time `json:"expiry_date"`
	Days        int       `json:"days"`
	Status      string    `json:"status"`
	Label       string    `json:"label"`
}

// ExpiryAttentionDTO widget vencimentos.
type ExpiryAttentionDTO struct {
	Items        []ExpiryItemDTO `json:"items"`
	ExpiredCount int             `json:"expired_count"`
	NearCount    int             `json:"near_count"`
}

// ── Estoque agregado ──────────────────────────────────────────────────────────

// ProductRollupDTO estoque de un producto sumado por nivel.
type ProductRollupDTO struct {
	ProductID       string          `json:"product_id"`
	ProductName     string          `json:"product_name"`
	ProductCode     string          `json:"product_code"`
	Unit            string          `json:"unit"`
	Central         decimal.Decimal `json:"central"`
	Almoxarifado    decimal.Decimal `json:"almoxarifado"`
	SubAlmoxarifado decimal.Decimal `json:"sub_almoxarifado"`
	Setor           decimal.Decimal `json:"setor"`
	Outros          decimal.Decimal `json:"outros"`
	Available       decimal.Decimal `json:"available"`
	Initial         decimal.Decimal `json:"initial"`
	LastUpdated     *time.Time      `json:"last_updated,omitempty"`
	Status          string          `json:"status"`
}

// StockSummaryDTO tarjetas del encabezado de la página de estoque.
type StockSummaryDTO struct {
	Products  int `json:"products"`
	Locations int `json:"locations"`
	Low       int `json:"low"`
	Zero      int `json:"zero"`
}

// ── Dashboard ─────────────────────────────────────────────────────────────────

// QuickActionDTO acceso rápido del widget acoes_rapidas.
type QuickActionDTO struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Href  string `json:"href"`
}

// WidgetDTO un widget con su propio estado; una falla no tumba el resto.
type WidgetDTO struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Size  string `json:"size"`
	State string `json:"state"`
	Error string `json:"error,omitempty"`
	Data  any    `json:"data,omitempty"`
}

// DashboardDTO respuesta de GET /api/painel/dashboard.
type DashboardDTO struct {
	Title       string      `json:"title"`
	UserName    string      `json:"user_name"`
	Level       string      `json:"level"`
	GeneratedAt time.Time   `json:"generated_at"`
	Widgets     []WidgetDTO `json:"widgets"`
}
