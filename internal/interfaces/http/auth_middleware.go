package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/painel-almoxarifado/internal/application/dto"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/entity"
	"github.com/jhoicas/painel-almoxarifado/internal/infrastructure/almoxapi"
	"github.com/jhoicas/painel-almoxarifado/pkg/jwt"
)

// Locals keys del contexto de acceso en Fiber.
const (
	LocalAccess        = "access"
	LocalAuthorization = "authorization"
)

// AuthMiddleware valida el Bearer Token JWT y deja el AccessContext en c.Locals.
// El header original se conserva para reenviarlo al backend.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		a, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		if a.AccessLevel == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "access_level no encontrado en el token"})
		}
		level := entity.AccessLevel(strings.ToLower(strings.TrimSpace(a.AccessLevel)))
		if !level.Valid() {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "access_level desconocido"})
		}
		c.Locals(LocalAccess, entity.AccessContext{
			Level:    level,
			SectorID: a.SectorID,
			UserID:   a.UserID,
			UserName: a.UserName,
		})
		c.Locals(LocalAuthorization, authHeader)
		return c.Next()
	}
}

// RequireLevel deja pasar solo a los niveles indicados. Debe usarse DESPUÉS de AuthMiddleware.
func RequireLevel(levels ...entity.AccessLevel) fiber.Handler {
	allowed := make(map[entity.AccessLevel]bool, len(levels))
	for _, l := range levels {
		allowed[l] = true
	}
	return func(c *fiber.Ctx) error {
		a, ok := access(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "contexto de acceso ausente"})
		}
		if !allowed[a.Level] {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "nivel de acceso sin permiso para este recurso"})
		}
		return c.Next()
	}
}

// GetAccess devuelve el AccessContext del request (después del middleware de auth).
func GetAccess(c *fiber.Ctx) entity.AccessContext {
	a, _ := access(c)
	return a
}

func access(c *fiber.Ctx) (entity.AccessContext, bool) {
	a, ok := c.Locals(LocalAccess).(entity.AccessContext)
	return a, ok
}

func authorization(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalAuthorization).(string)
	return s
}

// requestContext contexto del request con el Authorization a reenviar al backend.
func requestContext(c *fiber.Ctx) context.Context {
	return almoxapi.WithAuthorization(c.UserContext(), authorization(c))
}
