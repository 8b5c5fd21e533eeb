package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/painel-almoxarifado/internal/application/demand"
	"github.com/jhoicas/painel-almoxarifado/internal/application/workspace"
)

// DemandHandler demandas: nueva demanda, carrinho (lista) y gerência.
type DemandHandler struct {
	workspaces
}

// NewDemandHandler construye el handler.
func NewDemandHandler(reg *workspace.Registry) *DemandHandler {
	return &DemandHandler{workspaces: workspaces{reg: reg}}
}

type finalizeRequest struct {
	Destino string `json:"destino_tipo"`
}

// Mine GET /api/painel/demandas/minhas?q=texto
func (h *DemandHandler) Mine(c *fiber.Ctx) error {
	w, release, err := h.acquire(c)
	defer release()
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(w.Demands.LoadMine(requestContext(c), c.Query("q")))
}

// Create godoc
// @Summary      Nueva demanda
// @Tags         demandas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  demand.Input  true  "Produto (id o texto), quantidade y destino"
// @Success      201   {object}  view.Snapshot[[]dto.DemandRowDTO]
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/painel/demandas [post]
func (h *DemandHandler) Create(c *fiber.Ctx) error {
	var in demand.Input
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	w, release, err := h.acquire(c)
	defer release()
	if err != nil {
		return writeError(c, err, "")
	}
	if err := w.Demands.Create(requestContext(c), in); err != nil {
		return writeError(c, err, "Erro ao criar demanda")
	}
	return c.Status(fiber.StatusCreated).JSON(w.Demands.Mine())
}

// Draft GET /api/painel/demandas/lista
func (h *DemandHandler) Draft(c *fiber.Ctx) error {
	w, release, err := h.acquire(c)
	defer release()
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(w.Demands.LoadDraft(requestContext(c)))
}

func (h *DemandHandler) AddToDraft(c *fiber.Ctx) error {
	var in demand.Input
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	w, release, err := h.acquire(c)
	defer release()
	if err != nil {
		return writeError(c, err, "")
	}
	if err := w.Demands.AddToDraft(requestContext(c), in); err != nil {
		return writeError(c, err, "Erro ao adicionar à lista")
	}
	return c.JSON(w.Demands.Draft())
}

func (h *DemandHandler) RemoveDraftItem(c *fiber.Ctx) error {
	w, release, err := h.acquire(c)
	defer release()
	if err != nil {
		return writeError(c, err, "")
	}
	if err := w.Demands.RemoveDraftItem(requestContext(c), c.Params("id")); err != nil {
		return writeError(c, err, "Erro ao remover item")
	}
	return c.JSON(w.Demands.Draft())
}

func (h *DemandHandler) ClearDraft(c *fiber.Ctx) error {
	w, release, err := h.acquire(c)
	defer release()
	if err != nil {
		return writeError(c, err, "")
	}
	if err := w.Demands.ClearDraft(requestContext(c)); err != nil {
		return writeError(c, err, "Erro ao limpar lista")
	}
	return c.JSON(w.Demands.Draft())
}

// FinalizeDraft envía el carrinho como demandas; devuelve "minhas demandas" recargada.
func (h *DemandHandler) FinalizeDraft(c *fiber.Ctx) error {
	var in finalizeRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	w, release, err := h.acquire(c)
	defer release()
	if err != nil {
		return writeError(c, err, "")
	}
	if err := w.Demands.FinalizeDraft(requestContext(c), in.Destino); err != nil {
		return writeError(c, err, "Erro ao finalizar lista")
	}
	return c.JSON(fiber.Map{"lista": w.Demands.Draft(), "minhas": w.Demands.Mine()})
}

// Management pendientes y resueltas, para la página de gerência.
func (h *DemandHandler) Management(c *fiber.Ctx) error {
	w, release, err := h.acquire(c)
	defer release()
	if err != nil {
		return writeError(c, err, "")
	}
	ctx := requestContext(c)
	return c.JSON(fiber.Map{
		"pendentes":  w.Demands.LoadPending(ctx),
		"resolvidas": w.Demands.LoadResolved(ctx),
	})
}
