package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/painel-almoxarifado/internal/application/ports"
	"github.com/jhoicas/painel-almoxarifado/internal/application/stock"
	"github.com/jhoicas/painel-almoxarifado/internal/application/workspace"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// workspaces acceso al workspace del usuario del request.
type workspaces struct {
	reg *workspace.Registry
}

// acquire obtiene el workspace marcado en uso; release debe llamarse siempre.
func (h workspaces) acquire(c *fiber.Ctx) (*workspace.Workspace, func(), error) {
	w, release, err := h.reg.Acquire(requestContext(c), GetAccess(c))
	if err != nil {
		return nil, release, err
	}
	w.Authorize(authorization(c))
	return w, release, nil
}

type perPageRequest struct {
	PerPage int `json:"per_page"`
}

// StockHandler página de estoque por jerarquía.
type StockHandler struct {
	workspaces
	rollup ports.RollupWorkbookWriter
}

// NewStockHandler construye el handler.
func NewStockHandler(reg *workspace.Registry, rollup ports.RollupWorkbookWriter) *StockHandler {
	return &StockHandler{workspaces: workspaces{reg: reg}, rollup: rollup}
}

// Get godoc
// @Summary      Estado de la página de estoque
// @Description  Primera visita o ?refresh=true dispara la carga; si no devuelve el último estado.
// @Tags         estoque
// @Security     Bearer
// @Produce      json
// @Param        refresh  query  bool  false  "Forzar recarga"
// @Success      200  {object}  view.Snapshot[stock.Data]
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/painel/estoque [get]
func (h *StockHandler) Get(c *fiber.Ctx) error {
	w, release, err := h.acquire(c)
	defer release()
	if err != nil {
		return writeError(c, err, "")
	}
	snap := w.Stock.Snapshot()
	if c.QueryBool("refresh") || snap.Generation == 0 {
		snap = w.Stock.Refresh(requestContext(c))
	}
	return c.JSON(snap)
}

// PutFilters aplica los filtros; la recarga sale tras el debounce (202).
func (h *StockHandler) PutFilters(c *fiber.Ctx) error {
	var in stock.Filters
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	w, release, err := h.acquire(c)
	defer release()
	if err != nil {
		return writeError(c, err, "")
	}
	w.Stock.SetFilters(in)
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"filters": w.Stock.Filters()})
}

// PutPerPage cambia los itens por página y lo persiste en las preferencias.
func (h *StockHandler) PutPerPage(c *fiber.Ctx) error {
	var in perPageRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	w, release, err := h.acquire(c)
	defer release()
	if err != nil {
		return writeError(c, err, "")
	}
	if err := w.Stock.SetPerPage(in.PerPage); err != nil {
		return writeError(c, err, "")
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"per_page": w.Stock.PerPage()})
}

// More agrega la página siguiente a la actual.
func (h *StockHandler) More(c *fiber.Ctx) error {
	w, release, err := h.acquire(c)
	defer release()
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(w.Stock.LoadMore(requestContext(c)))
}

// Export devuelve la URL de exportación con los filtros vigentes.
func (h *StockHandler) Export(c *fiber.Ctx) error {
	w, release, err := h.acquire(c)
	defer release()
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(fiber.Map{"url": w.Stock.ExportURL()})
}

// Locations locales para el filtro "Local".
func (h *StockHandler) Locations(c *fiber.Ctx) error {
	w, release, err := h.acquire(c)
	defer release()
	if err != nil {
		return writeError(c, err, "")
	}
	locs, err := w.Stock.Locations(requestContext(c))
	if err != nil {
		return writeError(c, err, "Erro ao carregar locais")
	}
	return c.JSON(locs)
}

// Rollup planilla del estoque agregado por producto de lo ya cargado.
func (h *StockHandler) Rollup(c *fiber.Ctx) error {
	w, release, err := h.acquire(c)
	defer release()
	if err != nil {
		return writeError(c, err, "")
	}
	out, err := h.rollup.WriteRollup(requestContext(c), w.Stock.AllProducts())
	if err != nil {
		return writeError(c, err, "Erro ao gerar planilha")
	}
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="estoque-por-produto.xlsx"`)
	return c.Send(out)
}
