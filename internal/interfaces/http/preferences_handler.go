package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/painel-almoxarifado/internal/application/dto"
	"github.com/jhoicas/painel-almoxarifado/internal/application/workspace"
)

// PreferencesHandler preferencias del usuario (itens por página, modo escuro).
type PreferencesHandler struct {
	workspaces
}

// NewPreferencesHandler construye el handler.
func NewPreferencesHandler(reg *workspace.Registry) *PreferencesHandler {
	return &PreferencesHandler{workspaces: workspaces{reg: reg}}
}

func (h *PreferencesHandler) Get(c *fiber.Ctx) error {
	w, release, err := h.acquire(c)
	defer release()
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(w.Preferences())
}

func (h *PreferencesHandler) Put(c *fiber.Ctx) error {
	var in dto.Preferences
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	w, release, err := h.acquire(c)
	defer release()
	if err != nil {
		return writeError(c, err, "")
	}
	if err := w.UpdatePreferences(requestContext(c), in); err != nil {
		return writeError(c, err, "Erro ao salvar preferências")
	}
	return c.JSON(w.Preferences())
}
