package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/painel-almoxarifado/internal/application/dto"
)

// RequireSector exige que el token traiga sector_id. Debe usarse DESPUÉS de
// AuthMiddleware.
//
//   - 401 si no hay AccessContext en el request.
//   - 403 SECTOR_REQUIRED si el usuario no tiene setor vinculado.
func RequireSector() fiber.Handler {
	return func(c *fiber.Ctx) error {
		acc, ok := access(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "contexto de acesso ausente",
			})
		}
		if acc.SectorID == "" {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "SECTOR_REQUIRED",
				Message: "Usuário sem setor vinculado",
			})
		}
		return c.Next()
	}
}
