package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/painel-almoxarifado/internal/application/movement"
	"github.com/jhoicas/painel-almoxarifado/internal/application/workspace"
)

// MovementHandler lista de movimentações.
type MovementHandler struct {
	workspaces
}

// NewMovementHandler construye el handler.
func NewMovementHandler(reg *workspace.Registry) *MovementHandler {
	return &MovementHandler{workspaces: workspaces{reg: reg}}
}

type pageRequest struct {
	Page int `json:"page"`
}

// List GET /api/painel/movimentacoes[?page=N]
// Sin page devuelve el estado actual (cargando la página 1 en la primera visita).
func (h *MovementHandler) List(c *fiber.Ctx) error {
	w, release, err := h.acquire(c)
	defer release()
	if err != nil {
		return writeError(c, err, "")
	}
	if page := c.QueryInt("page", 0); page > 0 {
		return c.JSON(w.Movements.GoToPage(requestContext(c), page))
	}
	snap := w.Movements.Snapshot()
	if snap.Generation == 0 {
		snap = w.Movements.Refresh(requestContext(c), 1)
	}
	return c.JSON(snap)
}

// PutFilters aplica filtros; la recarga en página 1 sale tras el debounce.
func (h *MovementHandler) PutFilters(c *fiber.Ctx) error {
	var in movement.Filters
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	w, release, err := h.acquire(c)
	defer release()
	if err != nil {
		return writeError(c, err, "")
	}
	w.Movements.SetFilters(in)
	return c.SendStatus(fiber.StatusAccepted)
}

// GoToPage navega a la página indicada (acotada al rango válido).
func (h *MovementHandler) GoToPage(c *fiber.Ctx) error {
	var in pageRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	w, release, err := h.acquire(c)
	defer release()
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(w.Movements.GoToPage(requestContext(c), in.Page))
}

// PutPerPage cambia itens por página y recarga la página 1.
func (h *MovementHandler) PutPerPage(c *fiber.Ctx) error {
	var in perPageRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	w, release, err := h.acquire(c)
	defer release()
	if err != nil {
		return writeError(c, err, "")
	}
	snap, err := w.Movements.SetPerPage(requestContext(c), in.PerPage)
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(snap)
}

// ToggleOrder alterna la ordem por data.
func (h *MovementHandler) ToggleOrder(c *fiber.Ctx) error {
	w, release, err := h.acquire(c)
	defer release()
	if err != nil {
		return writeError(c, err, "")
	}
	order := w.Movements.ToggleOrder()
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"ordem": order, "ordem_label": movement.OrderLabel(order)})
}
