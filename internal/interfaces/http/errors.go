package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/painel-almoxarifado/internal/application/dto"
	"github.com/jhoicas/painel-almoxarifado/internal/application/view"
	"github.com/jhoicas/painel-almoxarifado/internal/domain"
)

// writeError traduce un error de la capa de aplicación a status + ErrorResponse.
// El mensaje es el que verían las vistas (domain.UserMessage).
func writeError(c *fiber.Ctx, err error, fallback string) error {
	if fallback == "" {
		fallback = view.DefaultFallback
	}
	status, code := classify(err)
	msg := domain.UserMessage(err, fallback)
	if status == fiber.StatusInternalServerError {
		msg = fallback
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrConfirmationRequired):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrTransport), errors.Is(err, domain.ErrRemote), errors.Is(err, domain.ErrMalformedResponse):
		return fiber.StatusBadGateway, "UPSTREAM"
	default:
		return fiber.StatusInternalServerError, "INTERNAL"
	}
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
