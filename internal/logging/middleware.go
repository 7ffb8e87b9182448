package logging

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

const HeaderRequestID = "X-Request-ID"

// Middleware assigns a request id, exposes it through c.UserContext() and
// writes one access log line per request.
func Middleware(logger zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		reqID := c.Get(HeaderRequestID)
		if reqID == "" {
			reqID = NewID()
		}
		c.Set(HeaderRequestID, reqID)
		c.SetUserContext(WithRequestID(c.UserContext(), reqID))

		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		} else if err != nil {
			status = fiber.StatusInternalServerError
		}

		ev := logger.Info()
		if status >= fiber.StatusInternalServerError {
			ev = logger.Error().Err(err)
		}
		ev.Str("request_id", reqID).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Msg("request")
		return err
	}
}
