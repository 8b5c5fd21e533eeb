package analytics

import (
	"fmt"
	"math"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/painel-almoxarifado/internal/application/dto"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/entity"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/hierarchy"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/series"
)

const (
	ConsumptionDays = 30 // ventana de los gráficos de consumo
	MovingAvgWindow = 7
	sectorNameMax   = 22
)

// chartLevels niveles graficados para perfiles de gestión (central no se grafica).
var chartLevels = []hierarchy.Level{hierarchy.Almoxarifado, hierarchy.SubAlmoxarifado, hierarchy.Setor}

var levelColors = map[hierarchy.Level]string{
	hierarchy.Almoxarifado:    "#22c55e",
	hierarchy.SubAlmoxarifado: "#06b6d4",
	hierarchy.Setor:           "#f59e0b",
}

// ConsumptionScope alcance de visibilidad de las series de consumo.
// Un operador solo ve salidas originadas en su propio setor.
type ConsumptionScope struct {
	Operator bool
	SectorID string
}

// ScopeFor deriva el alcance a partir del contexto de acceso.
func ScopeFor(access entity.AccessContext) ConsumptionScope {
	return ConsumptionScope{
		Operator: access.IsOperator(),
		SectorID: hierarchy.NormalizeIdentifier(access.SectorID),
	}
}

func (s ConsumptionScope) levels() []hierarchy.Level {
	if s.Operator {
		return []hierarchy.Level{hierarchy.Setor}
	}
	return chartLevels
}

// admits aplica el límite de visibilidad del operador; un operador sin setor no ve nada.
func (s ConsumptionScope) admits(m entity.Movement) bool {
	if !s.Operator {
		return true
	}
	if s.SectorID == "" {
		return false
	}
	return m.Origin.Type == hierarchy.Setor && hierarchy.NormalizeIdentifier(m.Origin.ID) == s.SectorID
}

// outboundOn devuelve el día (clave) y la cantidad de una salida válida dentro de la ventana.
func outboundOn(m entity.Movement, window map[string]int, loc *time.Location) (int, float64, bool) {
	if !hierarchy.IsOutbound(m.Type) || m.Timestamp == nil {
		return 0, 0, false
	}
	idx, ok := window[series.DayKey(m.Timestamp.In(loc))]
	if !ok {
		return 0, 0, false
	}
	q, ok := m.OutboundQuantity()
	if !ok {
		return 0, 0, false
	}
	f := q.InexactFloat64()
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0, 0, false
	}
	return idx, f, true
}

func windowIndex(days []string) map[string]int {
	idx := make(map[string]int, len(days))
	for i, d := range days {
		idx[d] = i
	}
	return idx
}

func shortLabels(days []string) []string {
	out := make([]string, len(days))
	for i, d := range days {
		out[i] = series.ShortLabel(d)
	}
	return out
}

// ConsumptionByLevel agrega las salidas de los últimos 30 días por nivel de origen.
// Cantidades nulas, negativas, cero o no finitas se descartan; entradas nunca cuentan.
func ConsumptionByLevel(movs []entity.Movement, scope ConsumptionScope, now time.Time) dto.ConsumptionByLevelDTO {
	days := series.LastNDayKeys(now, ConsumptionDays)
	window := windowIndex(days)
	levels := scope.levels()

	daily := make(map[hierarchy.Level][]float64, len(levels))
	for _, l := range levels {
		daily[l] = make([]float64, len(days))
	}

	for _, m := range movs {
		if !scope.admits(m) {
			continue
		}
		bucket, ok := daily[m.Origin.Type]
		if !ok {
			continue
		}
		i, q, ok := outboundOn(m, window, now.Location())
		if !ok {
			continue
		}
		bucket[i] += q
	}

	out := dto.ConsumptionByLevelDTO{
		Days:   days,
		Labels: shortLabels(days),
		Series: make([]dto.LevelSeriesDTO, 0, len(levels)),
	}
	avgs := make(map[hierarchy.Level]float64, len(levels))
	for _, l := range levels {
		ma := series.MovingAverage(daily[l], MovingAvgWindow)
		last7 := series.Mean(series.Tail(ma, MovingAvgWindow))
		avgs[l] = last7
		out.Series = append(out.Series, dto.LevelSeriesDTO{
			Level:     string(l),
			Label:     l.Label(),
			Color:     levelColors[l],
			Daily:     daily[l],
			MovingAvg: ma,
			Last7Avg:  last7,
		})
	}
	if scope.Operator {
		out.Summary = fmt.Sprintf("Média (7d) — Setor: %.1f", avgs[hierarchy.Setor])
	} else {
		out.Summary = fmt.Sprintf("Média (7d) — Almox: %.1f, Sub: %.1f, Setor: %.1f",
			avgs[hierarchy.Almoxarifado], avgs[hierarchy.SubAlmoxarifado], avgs[hierarchy.Setor])
	}
	return out
}

// SectorColor color del setor idx en la paleta hsl; el divisor nunca baja de 6.
func SectorColor(idx, total int) string {
	div := total
	if div < 6 {
		div = 6
	}
	hue := int(math.Round(float64(idx) / float64(div) * 300))
	return fmt.Sprintf("hsl(%d, 70%%, 50%%)", hue)
}

// ShortName recorta nombres largos a 22 runas con "…".
func ShortName(name string) string {
	if utf8.RuneCountInString(name) <= sectorNameMax {
		return name
	}
	r := []rune(name)
	return string(r[:sectorNameMax]) + "…"
}

// ConsumptionBySector serie de salidas por setor de origen, con el estoque que el setor tiene ahora.
func ConsumptionBySector(sectors []entity.Location, movs []entity.Movement, stock []entity.StockRecord, now time.Time) dto.ConsumptionBySectorDTO {
	days := series.LastNDayKeys(now, ConsumptionDays)
	window := windowIndex(days)

	// salidas por setor de origen
	bySector := make(map[string][]float64, len(sectors))
	for _, s := range sectors {
		bySector[hierarchy.NormalizeIdentifier(s.ID)] = make([]float64, len(days))
	}
	for _, m := range movs {
		if m.Origin.Type != hierarchy.Setor {
			continue
		}
		bucket, ok := bySector[hierarchy.NormalizeIdentifier(m.Origin.ID)]
		if !ok {
			continue
		}
		i, q, ok := outboundOn(m, window, now.Location())
		if !ok {
			continue
		}
		bucket[i] += q
	}

	onHand := make(map[string]decimal.Decimal, len(sectors))
	for _, r := range stock {
		if r.LocationType != hierarchy.Setor {
			continue
		}
		id := hierarchy.NormalizeIdentifier(r.LocationID)
		onHand[id] = onHand[id].Add(r.OnHand())
	}

	out := dto.ConsumptionBySectorDTO{
		Days:    days,
		Labels:  shortLabels(days),
		Sectors: make([]dto.SectorConsumptionDTO, 0, len(sectors)),
	}
	for idx, s := range sectors {
		id := hierarchy.NormalizeIdentifier(s.ID)
		name := s.Name
		if name == "" || name == s.ID {
			name = "Setor " + id
		}
		daily := bySector[id]
		ma := series.MovingAverage(daily, MovingAvgWindow)
		out.Sectors = append(out.Sectors, dto.SectorConsumptionDTO{
			SectorID:  id,
			Name:      name,
			ShortName: ShortName(name),
			Color:     SectorColor(idx, len(sectors)),
			Daily:     daily,
			MovingAvg: ma,
			Total30d:  series.Sum(daily),
			Last7Avg:  series.Mean(series.Tail(ma, MovingAvgWindow)),
			OnHand:    onHand[id],
		})
	}
	return out
}
