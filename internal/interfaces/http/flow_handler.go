package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/painel-almoxarifado/internal/application/movement"
	"github.com/jhoicas/painel-almoxarifado/internal/application/workspace"
	"github.com/jhoicas/painel-almoxarifado/internal/domain"
)

// FlowHandler modales de transferência y distribuição (saída para setores).
// Cada acción devuelve el estado completo del modal.
type FlowHandler struct {
	workspaces
}

// NewFlowHandler construye el handler.
func NewFlowHandler(reg *workspace.Registry) *FlowHandler {
	return &FlowHandler{workspaces: workspaces{reg: reg}}
}

type idRequest struct {
	ID string `json:"id"`
}

type originRequest struct {
	Tipo string `json:"tipo"`
	ID   string `json:"id"`
}

type destinationRequest struct {
	Tipo      string `json:"tipo"`
	CentralID string `json:"central_id"`
	ID        string `json:"id"`
}

type quantityRequest struct {
	Quantidade string `json:"quantidade"`
}

type filterRequest struct {
	Texto string `json:"texto"`
}

var errInvalidOrigin = domain.NewValidationError("Origem inválida")

// ── Transferência ─────────────────────────────────────────────────────────────

func (h *FlowHandler) TransferOpen(c *fiber.Ctx) error {
	w, release, err := h.acquire(c)
	defer release()
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(w.Transfer.Open(requestContext(c)))
}

func (h *FlowHandler) TransferState(c *fiber.Ctx) error {
	w, release, err := h.acquire(c)
	defer release()
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(w.Transfer.State())
}

// TransferSuggest programa la búsqueda; las sugerencias aparecen en el estado tras el debounce.
func (h *FlowHandler) TransferSuggest(c *fiber.Ctx) error {
	w, release, err := h.acquire(c)
	defer release()
	if err != nil {
		return writeError(c, err, "")
	}
	w.Transfer.Search(c.Query("q"))
	return c.Status(fiber.StatusAccepted).JSON(w.Transfer.State())
}

func (h *FlowHandler) TransferProduct(c *fiber.Ctx) error {
	var in idRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	w, release, err := h.acquire(c)
	defer release()
	if err != nil {
		return writeError(c, err, "")
	}
	w.Transfer.SelectProduct(requestContext(c), in.ID)
	return c.JSON(w.Transfer.State())
}

func (h *FlowHandler) TransferOrigin(c *fiber.Ctx) error {
	var in originRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	w, release, err := h.acquire(c)
	defer release()
	if err != nil {
		return writeError(c, err, "")
	}
	if !w.Transfer.SelectOrigin(in.Tipo, in.ID) {
		return writeError(c, errInvalidOrigin, "")
	}
	return c.JSON(w.Transfer.State())
}

// TransferDestination aplica los campos presentes: tipo, central y local de destino.
func (h *FlowHandler) TransferDestination(c *fiber.Ctx) error {
	var in destinationRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	w, release, err := h.acquire(c)
	defer release()
	if err != nil {
		return writeError(c, err, "")
	}
	if in.Tipo != "" {
		if err := w.Transfer.SetDestinationType(in.Tipo); err != nil {
			return writeError(c, err, "")
		}
	}
	if in.CentralID != "" {
		w.Transfer.SetCentral(in.CentralID)
	}
	if in.ID != "" {
		w.Transfer.SelectDestination(in.ID)
	}
	return c.JSON(w.Transfer.State())
}

func (h *FlowHandler) TransferSubmit(c *fiber.Ctx) error {
	var in movement.TransferInput
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	w, release, err := h.acquire(c)
	defer release()
	if err != nil {
		return writeError(c, err, "")
	}
	if err := w.Transfer.Submit(requestContext(c), in); err != nil {
		return writeError(c, err, "Falha ao executar transferência")
	}
	return c.JSON(w.Transfer.State())
}

func (h *FlowHandler) TransferClose(c *fiber.Ctx) error {
	w, release, err := h.acquire(c)
	defer release()
	if err != nil {
		return writeError(c, err, "")
	}
	w.Transfer.Close()
	return c.JSON(w.Transfer.State())
}

// ── Distribuição ──────────────────────────────────────────────────────────────

func (h *FlowHandler) DistributionOpen(c *fiber.Ctx) error {
	w, release, err := h.acquire(c)
	defer release()
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(w.Distribution.Open(requestContext(c)))
}

func (h *FlowHandler) DistributionState(c *fiber.Ctx) error {
	w, release, err := h.acquire(c)
	defer release()
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(w.Distribution.State())
}

func (h *FlowHandler) DistributionSuggest(c *fiber.Ctx) error {
	w, release, err := h.acquire(c)
	defer release()
	if err != nil {
		return writeError(c, err, "")
	}
	w.Distribution.Search(c.Query("q"))
	return c.Status(fiber.StatusAccepted).JSON(w.Distribution.State())
}

func (h *FlowHandler) DistributionProduct(c *fiber.Ctx) error {
	var in idRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	w, release, err := h.acquire(c)
	defer release()
	if err != nil {
		return writeError(c, err, "")
	}
	w.Distribution.SelectProduct(requestContext(c), in.ID)
	return c.JSON(w.Distribution.State())
}

func (h *FlowHandler) DistributionOrigin(c *fiber.Ctx) error {
	var in originRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	w, release, err := h.acquire(c)
	defer release()
	if err != nil {
		return writeError(c, err, "")
	}
	if !w.Distribution.SelectOrigin(in.Tipo, in.ID) {
		return writeError(c, errInvalidOrigin, "")
	}
	return c.JSON(w.Distribution.State())
}

func (h *FlowHandler) DistributionFilter(c *fiber.Ctx) error {
	var in filterRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	w, release, err := h.acquire(c)
	defer release()
	if err != nil {
		return writeError(c, err, "")
	}
	w.Distribution.SetSectorFilter(in.Texto)
	return c.JSON(w.Distribution.State())
}

func (h *FlowHandler) DistributionAddTarget(c *fiber.Ctx) error {
	var in idRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	w, release, err := h.acquire(c)
	defer release()
	if err != nil {
		return writeError(c, err, "")
	}
	if err := w.Distribution.AddTarget(in.ID); err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(w.Distribution.State())
}

func (h *FlowHandler) DistributionQuantity(c *fiber.Ctx) error {
	var in quantityRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	w, release, err := h.acquire(c)
	defer release()
	if err != nil {
		return writeError(c, err, "")
	}
	w.Distribution.UpdateQuantity(c.Params("id"), in.Quantidade)
	return c.JSON(w.Distribution.State())
}

func (h *FlowHandler) DistributionRemoveTarget(c *fiber.Ctx) error {
	w, release, err := h.acquire(c)
	defer release()
	if err != nil {
		return writeError(c, err, "")
	}
	w.Distribution.RemoveTarget(c.Params("id"))
	return c.JSON(w.Distribution.State())
}

func (h *FlowHandler) DistributionSubmit(c *fiber.Ctx) error {
	var in movement.DistributionInput
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	w, release, err := h.acquire(c)
	defer release()
	if err != nil {
		return writeError(c, err, "")
	}
	if err := w.Distribution.Submit(requestContext(c), in); err != nil {
		return writeError(c, err, "Falha ao executar distribuição")
	}
	return c.JSON(w.Distribution.State())
}

func (h *FlowHandler) DistributionClose(c *fiber.Ctx) error {
	w, release, err := h.acquire(c)
	defer release()
	if err != nil {
		return writeError(c, err, "")
	}
	w.Distribution.Close()
	return c.JSON(w.Distribution.State())
}
