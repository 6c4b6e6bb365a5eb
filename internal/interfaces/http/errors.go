package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fulfillment-planner/internal/application/dto"
	"github.com/jhoicas/fulfillment-planner/internal/domain"
	"github.com/jhoicas/fulfillment-planner/pkg/logger"
)

const localLogger = "logger"

// requestLogger deja el logger disponible para writeError.
func requestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(localLogger, log)
		return c.Next()
	}
}

func loggerFrom(c *fiber.Ctx) *logger.Logger {
	if log, ok := c.Locals(localLogger).(*logger.Logger); ok {
		return log
	}
	return logger.Nop()
}

// writeError traduce errores de dominio a código HTTP y código de error estable.
func writeError(c *fiber.Ctx, err error) error {
	status, code := fiber.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status, code = fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrNotFound):
		status, code = fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrAlreadyConfirmed):
		status, code = fiber.StatusConflict, "ALREADY_CONFIRMED"
	case errors.Is(err, domain.ErrConcurrentConfirmation):
		status, code = fiber.StatusConflict, "CONCURRENT_CONFIRMATION"
	case errors.Is(err, domain.ErrConcurrentResolution):
		status, code = fiber.StatusConflict, "CONCURRENT_RESOLUTION"
	case errors.Is(err, domain.ErrIncompletePicking):
		status, code = fiber.StatusConflict, "INCOMPLETE_PICKING"
	case errors.Is(err, domain.ErrInvalidTransition):
		status, code = fiber.StatusConflict, "INVALID_TRANSITION"
	case errors.Is(err, domain.ErrConflict):
		status, code = fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrForbidden):
		status, code = fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrUnauthorized):
		status, code = fiber.StatusUnauthorized, "UNAUTHORIZED"
	}
	if status == fiber.StatusInternalServerError {
		// La causa puede traer detalle del driver: va al log, no al cliente.
		loggerFrom(c).Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("error interno")
		return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: "error interno"})
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}
