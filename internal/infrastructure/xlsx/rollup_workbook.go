// Package xlsx exporta a planilla el estoque agregado por producto.
package xlsx

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/painel-almoxarifado/internal/application/dto"
)

const sheetName = "Estoque por produto"

var headers = []string{
	"Código", "Produto", "Unidade",
	"Central", "Almoxarifado", "Sub-almoxarifado", "Setor", "Outros",
	"Disponível", "Inicial", "Status", "Atualizado em",
}

// RollupWriter implementa ports.RollupWorkbookWriter con excelize.
type RollupWriter struct {
	loc *time.Location
}

// NewRollupWriter construye el writer; las fechas se escriben en loc.
func NewRollupWriter(loc *time.Location) *RollupWriter {
	if loc == nil {
		loc = time.Local
	}
	return &RollupWriter{loc: loc}
}

// WriteRollup genera el .xlsx con una fila por producto.
func (w *RollupWriter) WriteRollup(ctx context.Context, rows []dto.ProductRollupDTO) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, fmt.Errorf("xlsx: cabecera: %w", err)
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetCellStyle(sheetName, "A1", lastCol+"1", style)
	}

	for i, r := range rows {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("xlsx: %w", err)
		}
		updated := ""
		if r.LastUpdated != nil {
			updated = r.LastUpdated.In(w.loc).Format("02/01/2006 15:04")
		}
		values := []any{
			r.ProductCode, r.ProductName, r.Unit,
			r.Central.InexactFloat64(), r.Almoxarifado.InexactFloat64(),
			r.SubAlmoxarifado.InexactFloat64(), r.Setor.InexactFloat64(), r.Outros.InexactFloat64(),
			r.Available.InexactFloat64(), r.Initial.InexactFloat64(), r.Status, updated,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("xlsx: fila %d: %w", i+2, err)
		}
	}

	_ = f.SetColWidth(sheetName, "A", lastCol, 16)
	_ = f.SetColWidth(sheetName, "B", "B", 36)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return buf.Bytes(), nil
}
