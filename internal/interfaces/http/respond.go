package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/puntoventa/kardex-api/internal/application/dto"
	"github.com/puntoventa/kardex-api/internal/domain"
	"github.com/puntoventa/kardex-api/pkg/logger"
)

// respondError traduce errores de dominio al sobre uniforme y al status HTTP.
// La clasificación es por tipo de error (errors.As), nunca por texto. Cualquier
// error no clasificado se responde como 500 con mensaje genérico: el detalle
// queda en el log, no en la respuesta.
func respondError(c *fiber.Ctx, log *logger.Logger, err error) error {
	var (
		validationErr *domain.ValidationError
		notFoundErr   *domain.NotFoundError
		businessErr   *domain.BusinessRuleError
		stockErr      *domain.InsufficientStockError
		priceErr      *domain.PriceMismatchError
		totalErr      *domain.InvalidTotalError
	)

	switch {
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error(validationErr.Error()))
	case errors.As(err, &totalErr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error(totalErr.Error()))
	case errors.As(err, &notFoundErr):
		return c.Status(fiber.StatusNotFound).JSON(dto.Error(notFoundErr.Error()))
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Error("no autorizado"))
	case errors.As(err, &priceErr):
		return c.Status(fiber.StatusForbidden).JSON(dto.Error(priceErr.Error()))
	case errors.As(err, &businessErr):
		return c.Status(fiber.StatusForbidden).JSON(dto.Error(businessErr.Error()))
	case errors.As(err, &stockErr):
		return c.Status(fiber.StatusConflict).JSON(dto.Error(stockErr.Error()))
	default:
		log.Error().Err(err).Str("path", c.Path()).Msg("error interno")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Error("Error interno del servidor"))
	}
}

// respondCreated responde 201 con el sobre exitoso.
func respondCreated(c *fiber.Ctx, data any, mensajes ...string) error {
	return c.Status(fiber.StatusCreated).JSON(dto.Success(data, mensajes...))
}

// respondOK responde 200 con el sobre exitoso.
func respondOK(c *fiber.Ctx, data any, mensajes ...string) error {
	return c.JSON(dto.Success(data, mensajes...))
}

// respondBadBody responde 400 por cuerpo JSON ilegible.
func respondBadBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.Error("cuerpo de la petición inválido"))
}
