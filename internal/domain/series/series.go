// Package series agrupa utilidades de fechas y series numéricas para los gráficos
// del painel: claves de día, media móvil causal y parseo flexible de fechas.
package series

import "time"

const dayKeyLayout = "2006-01-02"

// DayKey clave de día calendario YYYY-MM-DD en la zona de t.
func DayKey(t time.Time) string { return t.Format(dayKeyLayout) }

// LastNDayKeys devuelve n claves consecutivas terminando en el día de now, la más antigua primero.
func LastNDayKeys(now time.Time, n int) []string {
	if n <= 0 {
		return []string{}
	}
	keys := make([]string, 0, n)
	for i := n - 1; i >= 0; i-- {
		keys = append(keys, DayKey(now.AddDate(0, 0, -i)))
	}
	return keys
}

// ShortLabel "MM-DD" a partir de una clave de día (etiquetas del eje X).
func ShortLabel(dayKey string) string {
	if len(dayKey) < 10 {
		return dayKey
	}
	return dayKey[5:10]
}

// MovingAverage media móvil causal del mismo largo que la serie. En la posición i
// promedia los últimos min(window, i+1) valores: el arranque no se rellena con ceros.
func MovingAverage(series []float64, window int) []float64 {
	if window < 1 {
		window = 1
	}
	out := make([]float64, len(series))
	for i := range series {
		start := i - window + 1
		if start < 0 {
			start = 0
		}
		var sum float64
		for _, v := range series[start : i+1] {
			sum += v
		}
		out[i] = sum / float64(i+1-start)
	}
	return out
}

// Mean promedio simple; 0 para una serie vacía.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// Sum total de la serie.
func Sum(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum
}

// Tail últimos n elementos (o todos si hay menos).
func Tail(xs []float64, n int) []float64 {
	if n <= 0 {
		return xs[:0]
	}
	if len(xs) <= n {
		return xs
	}
	return xs[len(xs)-n:]
}
