package inventory

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// StockStatus clasificación de un registro de estoque.
type StockStatus string

const (
	StockZerado StockStatus = "zerado"
	StockBaixo  StockStatus = "baixo"
	StockNormal StockStatus = "normal"
)

var (
	lowStockRatio = decimal.NewFromFloat(0.1)
	lowStockFloor = decimal.NewFromInt(5)
)

// LowStockThreshold limiar por registro: max(inicial × 0,1; 5).
func LowStockThreshold(initial decimal.Decimal) decimal.Decimal {
	return decimal.Max(initial.Mul(lowStockRatio), lowStockFloor)
}

// ClassifyStock zerado si disponible ≤ 0; baixo si disponible ≤ limiar; si no normal.
func ClassifyStock(available, initial decimal.Decimal) StockStatus {
	if available.LessThanOrEqual(decimal.Zero) {
		return StockZerado
	}
	if available.LessThanOrEqual(LowStockThreshold(initial)) {
		return StockBaixo
	}
	return StockNormal
}

// ExpiryStatus clasificación de un lote respecto de "ahora".
type ExpiryStatus string

const (
	ExpiryVencido ExpiryStatus = "vencido"
	ExpiryProximo ExpiryStatus = "proximo"
	ExpiryValido  ExpiryStatus = "valido"
)

// ExpiryWarningDays ventana de aviso de vencimiento (inclusive).
const ExpiryWarningDays = 30

// DaysToExpiry ceil((vencimiento − ahora) / 1 día).
func DaysToExpiry(expiry, now time.Time) int {
	days := expiry.Sub(now).Hours() / 24
	return int(math.Ceil(days))
}

// ClassifyExpiry vencido (< 0 días), proximo ([0, 30]) o valido.
func ClassifyExpiry(expiry, now time.Time) (ExpiryStatus, int) {
	days := DaysToExpiry(expiry, now)
	switch {
	case days < 0:
		return ExpiryVencido, days
	case days <= ExpiryWarningDays:
		return ExpiryProximo, days
	}
	return ExpiryValido, days
}

// ExpiryLabel texto corto para el widget: "Vencido há 3d", "Vence hoje", "Vence em 12d".
func ExpiryLabel(days int) string {
	switch {
	case days < 0:
		return "Vencido há " + itoa(-days) + "d"
	case days == 0:
		return "Vence hoje"
	}
	return "Vence em " + itoa(days) + "d"
}

// ReceiptExpiryHint aviso mostrado al registrar un recebimento con fecha de vencimiento.
func ReceiptExpiryHint(expiry, now time.Time) string {
	days := DaysToExpiry(expiry, now)
	switch {
	case days < 0:
		return "Produto já vencido!"
	case days <= ExpiryWarningDays:
		return "Vence em breve!"
	case days <= 90:
		return "Vencimento próximo"
	}
	return "Validade adequada"
}
