// Package pdf genera el relatório en PDF del dashboard con los widgets visibles
// para el nivel de acceso del usuario.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: título + usuario/nivel  │  fecha de generación     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  WIDGET: título                                              │
//	│    tabla del widget | "Sem dados" | mensaje de error         │
//	│  ... un bloque por widget, en el orden del dashboard ...     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: leyenda                                             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/painel-almoxarifado/internal/application/dto"
	"github.com/jhoicas/painel-almoxarifado/internal/application/view"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorDanger  = &props.Color{Red: 180, Green: 30, Blue: 30}
)

var br = message.NewPrinter(language.BrazilianPortuguese)

// ── Renderer ──────────────────────────────────────────────────────────────────

// MarotoReportRenderer implementa ports.DashboardReportRenderer usando Maroto v2.
type MarotoReportRenderer struct {
	loc *time.Location
}

// NewMarotoReportRenderer construye el renderizador; las fechas se muestran en loc.
func NewMarotoReportRenderer(loc *time.Location) *MarotoReportRenderer {
	if loc == nil {
		loc = time.Local
	}
	return &MarotoReportRenderer{loc: loc}
}

// RenderDashboard genera el PDF y devuelve sus bytes.
func (g *MarotoReportRenderer) RenderDashboard(ctx context.Context, d *dto.DashboardDTO) ([]byte, error) {
	if d == nil {
		return nil, fmt.Errorf("pdf: dashboard vacío")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Relatório do Painel", true).
		WithAuthor(d.UserName, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(headerRow(d, g.loc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	for _, w := range d.Widgets {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("pdf: %w", err)
		}
		m.AddRows(line.NewRow(3))
		m.AddRows(widgetTitleRow(w.Title))
		m.AddRows(widgetRows(w, g.loc)...)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(d *dto.DashboardDTO, loc *time.Location) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(nonEmpty(d.Title, "Dashboard"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s • %s", nonEmpty(d.UserName, "-"), nonEmpty(d.Level, "-")), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Gerado em", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(d.GeneratedAt.In(loc).Format("02/01/2006 15:04"), props.Text{
				Size: 9, Align: align.Right, Top: 7,
			}),
		),
	)
}

func widgetTitleRow(title string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 1}),
	))
}

func messageRow(msg string, color *props.Color) core.Row {
	return row.New(6).Add(col.New(12).Add(
		text.New(msg, props.Text{Size: 8, Color: color, Top: 1, Left: 2}),
	))
}

// widgetRows filas del cuerpo de un widget según su estado y tipo de datos.
func widgetRows(w dto.WidgetDTO, loc *time.Location) []core.Row {
	switch view.State(w.State) {
	case view.Error:
		return []core.Row{messageRow(nonEmpty(w.Error, view.DefaultFallback), colorDanger)}
	case view.Empty:
		return []core.Row{messageRow("Sem dados", colorGray)}
	}

	switch data := w.Data.(type) {
	case dto.ConsumptionByLevelDTO:
		return consumptionByLevelRows(data)
	case []dto.QuickActionDTO:
		labels := make([]string, 0, len(data))
		for _, a := range data {
			labels = append(labels, a.Label)
		}
		return []core.Row{messageRow(strings.Join(labels, " • "), colorGray)}
	case dto.LowStockDTO:
		return lowStockRows(data)
	case dto.ExpiryAttentionDTO:
		return expiryRows(data, loc)
	case dto.ConsumptionBySectorDTO:
		return consumptionBySectorRows(data)
	}
	return []core.Row{messageRow("Sem dados", colorGray)}
}

// tableHeader cabecera de tabla; sizes suma 12.
func tableHeader(labels []string, sizes []int) core.Row {
	cols := make([]core.Col, 0, len(labels))
	for i, l := range labels {
		a := align.Left
		if i > 0 {
			a = align.Right
		}
		cols = append(cols, col.New(sizes[i]).Add(text.New(l, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 1, Left: 1, Right: 1,
		})))
	}
	return row.New(6).Add(cols...)
}

func tableRow(values []string, sizes []int) core.Row {
	cols := make([]core.Col, 0, len(values))
	for i, v := range values {
		a := align.Left
		if i > 0 {
			a = align.Right
		}
		cols = append(cols, col.New(sizes[i]).Add(text.New(v, props.Text{
			Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
		})))
	}
	return row.New(5).Add(cols...)
}

func consumptionByLevelRows(d dto.ConsumptionByLevelDTO) []core.Row {
	sizes := []int{6, 3, 3}
	rows := []core.Row{tableHeader([]string{"Nível", "Média 7 dias", "Último dia"}, sizes)}
	for _, s := range d.Series {
		last := 0.0
		if n := len(s.Daily); n > 0 {
			last = s.Daily[n-1]
		}
		rows = append(rows, tableRow([]string{s.Label, formatFloat(s.Last7Avg, 1), formatFloat(last, 0)}, sizes))
	}
	if d.Summary != "" {
		rows = append(rows, messageRow(d.Summary, colorGray))
	}
	return rows
}

func lowStockRows(d dto.LowStockDTO) []core.Row {
	sizes := []int{4, 3, 2, 2, 1}
	rows := []core.Row{
		messageRow(fmt.Sprintf("Zerados: %d   |   Baixos: %d", d.ZeroCount, d.LowCount), colorGray),
		tableHeader([]string{"Produto", "Local", "Disponível", "Limite", "Status"}, sizes),
	}
	for _, group := range [][]dto.StockAlertDTO{d.Zero, d.Low} {
		for _, a := range group {
			rows = append(rows, tableRow([]string{
				nonEmpty(a.ProductName, a.ProductID), nonEmpty(a.LocationName, "-"),
				formatDecimal(a.Available), formatDecimal(a.Threshold), a.Status,
			}, sizes))
		}
	}
	return rows
}

func expiryRows(d dto.ExpiryAttentionDTO, loc *time.Location) []core.Row {
	sizes := []int{5, 2, 2, 1, 2}
	rows := []core.Row{
		messageRow(fmt.Sprintf("Vencidos: %d   |   Próximos: %d", d.ExpiredCount, d.NearCount), colorGray),
		tableHeader([]string{"Produto", "Lote", "Vencimento", "Dias", "Status"}, sizes),
	}
	for _, it := range d.Items {
		rows = append(rows, tableRow([]string{
			nonEmpty(it.ProductName, it.ProductID), nonEmpty(it.LotNumber, "-"),
			it.ExpiryDate.In(loc).Format("02/01/2006"), fmt.Sprint(it.Days), nonEmpty(it.Label, it.Status),
		}, sizes))
	}
	return rows
}

func consumptionBySectorRows(d dto.ConsumptionBySectorDTO) []core.Row {
	sizes := []int{6, 2, 2, 2}
	rows := []core.Row{tableHeader([]string{"Setor", "Total 30 dias", "Média 7 dias", "Em estoque"}, sizes)}
	for _, s := range d.Sectors {
		rows = append(rows, tableRow([]string{
			s.Name, formatFloat(s.Total30d, 0), formatFloat(s.Last7Avg, 1), formatDecimal(s.OnHand),
		}, sizes))
	}
	return rows
}

func footerRow() core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New("Relatório gerado pelo painel do almoxarifado. Valores sujeitos à atualização do estoque.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatFloat número con separador de miles "." y decimal ",".
// Ej: 1234.5 → "1.234,5"
func formatFloat(v float64, decimals int) string {
	return br.Sprintf(fmt.Sprintf("%%.%df", decimals), v)
}

func formatDecimal(d decimal.Decimal) string {
	if d.Equal(d.Truncate(0)) {
		return formatFloat(d.InexactFloat64(), 0)
	}
	return formatFloat(d.InexactFloat64(), 2)
}
