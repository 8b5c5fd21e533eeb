package inventory

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

func itoa(n int) string { return strconv.Itoa(n) }

// FormatQuantity entero sin decimales, fraccionario con 2 decimales.
func FormatQuantity(q decimal.Decimal) string {
	if q.Equal(q.Truncate(0)) {
		return q.Truncate(0).String()
	}
	return q.StringFixed(2)
}

// ParseQuantity interpreta la cantidad tecleada: acepta coma decimal ("2,5").
// Vacío o ilegible devuelve false.
func ParseQuantity(raw string) (decimal.Decimal, bool) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
