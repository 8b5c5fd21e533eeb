package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/painel-almoxarifado/internal/application/admin"
)

// AdminHandler backups, agendamento, arquivamento y reset del banco.
// Restaurar y zerar exigen confirmacao = "APAGAR".
type AdminHandler struct {
	svc *admin.Service
}

// NewAdminHandler construye el handler.
func NewAdminHandler(svc *admin.Service) *AdminHandler {
	return &AdminHandler{svc: svc}
}

type restoreRequest struct {
	Arquivo     string `json:"arquivo"`
	Modo        string `json:"modo"`
	Confirmacao string `json:"confirmacao"`
}

type archiveRequest struct {
	Colecao string `json:"colecao"`
	Query   string `json:"query"`
}

type resetRequest struct {
	PreservarAdmin bool   `json:"preservar_admin"`
	Confirmacao    string `json:"confirmacao"`
}

func (h *AdminHandler) Backups(c *fiber.Ctx) error {
	out, err := h.svc.Backups(requestContext(c))
	if err != nil {
		return writeError(c, err, "Erro ao listar backups")
	}
	return c.JSON(out)
}

func (h *AdminHandler) CreateBackup(c *fiber.Ctx) error {
	file, err := h.svc.CreateBackup(requestContext(c))
	if err != nil {
		return writeError(c, err, "Erro ao criar backup")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"arquivo": file})
}

// Restore godoc
// @Summary      Restaurar backup
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  restoreRequest  true  "Archivo, modo (substituir|mesclar) y confirmación APAGAR"
// @Success      204
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/painel/admin/backups/restaurar [post]
func (h *AdminHandler) Restore(c *fiber.Ctx) error {
	var in restoreRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.svc.Restore(requestContext(c), in.Arquivo, in.Modo, in.Confirmacao); err != nil {
		return writeError(c, err, "Erro ao restaurar backup")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AdminHandler) SaveSchedule(c *fiber.Ctx) error {
	var in admin.ScheduleInput
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.svc.SaveSchedule(requestContext(c), in); err != nil {
		return writeError(c, err, "Erro ao salvar agendamento")
	}
	return c.JSON(in.WithDefaults())
}

func (h *AdminHandler) Archive(c *fiber.Ctx) error {
	var in archiveRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	moved, err := h.svc.Archive(requestContext(c), in.Colecao, in.Query)
	if err != nil {
		return writeError(c, err, "Erro ao arquivar")
	}
	return c.JSON(fiber.Map{"movidos": moved})
}

// Reset zera el banco; sin confirmación no llega al backend.
func (h *AdminHandler) Reset(c *fiber.Ctx) error {
	var in resetRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.svc.Reset(requestContext(c), in.PreservarAdmin, in.Confirmacao); err != nil {
		return writeError(c, err, "Erro ao zerar banco")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
