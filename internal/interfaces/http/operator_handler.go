package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/painel-almoxarifado/internal/application/operator"
)

// OperatorHandler página del operador de setor.
type OperatorHandler struct {
	svc *operator.Service
}

// NewOperatorHandler construye el handler.
func NewOperatorHandler(svc *operator.Service) *OperatorHandler {
	return &OperatorHandler{svc: svc}
}

type consumptionRequest struct {
	Produto    string `json:"produto"`
	Quantidade string `json:"quantidade"`
}

func (h *OperatorHandler) Sector(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"nome": h.svc.SectorName(requestContext(c), GetAccess(c))})
}

func (h *OperatorHandler) Products(c *fiber.Ctx) error {
	out, err := h.svc.SearchProducts(requestContext(c), c.Query("q"))
	if err != nil {
		return writeError(c, err, "Erro ao buscar produtos")
	}
	return c.JSON(out)
}

// Panel GET /api/painel/operador/painel?produto=ID&unidade=UN
func (h *OperatorHandler) Panel(c *fiber.Ctx) error {
	out, err := h.svc.Panel(requestContext(c), GetAccess(c), c.Query("produto"), c.Query("unidade"))
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(out)
}

// RegisterConsumption responde siempre con el texto de estado que muestra la página.
func (h *OperatorHandler) RegisterConsumption(c *fiber.Ctx) error {
	var in consumptionRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	err := h.svc.RegisterConsumption(requestContext(c), GetAccess(c), in.Produto, in.Quantidade)
	if err != nil {
		return writeError(c, err, operator.ConsumptionMessage(err))
	}
	return c.JSON(fiber.Map{"mensagem": operator.ConsumptionMessage(nil)})
}
