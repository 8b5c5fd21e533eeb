package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/painel-almoxarifado/internal/application/analytics"
	"github.com/jhoicas/painel-almoxarifado/internal/application/dto"
)

// DashboardHandler maneja los endpoints del Dashboard.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Get devuelve los widgets visibles para el nivel del token.
// GET /api/painel/dashboard
//
// Cada widget trae su propio estado (loading/error/empty/populated); la falla de
// uno no afecta a los demás.
func (h *DashboardHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Widgets(requestContext(c), GetAccess(c))
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(out)
}

// Report GET /api/painel/dashboard/report.pdf
func (h *DashboardHandler) Report(c *fiber.Ctx) error {
	out, err := h.uc.Report(requestContext(c), GetAccess(c))
	if err != nil {
		if errors.Is(err, appanalytics.ErrReportUnavailable) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code: "REPORT_UNAVAILABLE", Message: "relatório PDF indisponível",
			})
		}
		return writeError(c, err, "Erro ao gerar relatório")
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="dashboard.pdf"`)
	return c.Send(out)
}
