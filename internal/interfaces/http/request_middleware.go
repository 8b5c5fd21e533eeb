package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/painel-almoxarifado/internal/infrastructure/almoxapi"
)

const (
	// HeaderRequestID header de correlación; se reenvía al backend.
	HeaderRequestID = "X-Request-ID"
	LocalRequestID  = "request_id"
)

// RequestLogger asigna el X-Request-ID (el recibido o uno nuevo), lo deja en el
// UserContext para las llamadas al backend y registra cada request al terminar.
func RequestLogger(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		id := c.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals(LocalRequestID, id)
		c.Set(HeaderRequestID, id)
		c.SetUserContext(almoxapi.WithRequestID(c.UserContext(), id))

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Warn()
		}
		ev.Str("request_id", id).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.IP()).
			Msg("HTTP request")
		return err
	}
}
