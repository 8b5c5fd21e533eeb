package ports

import (
	"context"

	"github.com/jhoicas/painel-almoxarifado/internal/application/dto"
)

// DashboardReportRenderer genera el PDF del dashboard con los widgets visibles.
type DashboardReportRenderer interface {
	RenderDashboard(ctx context.Context, d *dto.DashboardDTO) ([]byte, error)
}

// RollupWorkbookWriter genera la planilla del estoque agregado por producto.
type RollupWorkbookWriter interface {
	WriteRollup(ctx context.Context, rows []dto.ProductRollupDTO) ([]byte, error)
}
