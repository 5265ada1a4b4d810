package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/puntoventa/kardex-api/internal/application/dto"
	"github.com/puntoventa/kardex-api/internal/application/sales"
	"github.com/puntoventa/kardex-api/internal/domain"
	"github.com/puntoventa/kardex-api/pkg/logger"
)

// SaleHandler maneja las peticiones HTTP del punto de venta (protegido).
type SaleHandler struct {
	uc  *sales.RegisterSaleUseCase
	log *logger.Logger
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sales.RegisterSaleUseCase, log *logger.Logger) *SaleHandler {
	return &SaleHandler{uc: uc, log: log}
}

// Register registra una venta multi-línea. Todo el flujo (cabecera, detalle y
// movimientos SALIDA) ocurre en una sola transacción: o entra todo o nada.
func (h *SaleHandler) Register(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID <= 0 {
		return respondError(c, h.log, domain.ErrUnauthorized)
	}
	var in dto.RegisterSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return respondBadBody(c)
	}
	id, err := h.uc.RegisterSale(c.Context(), in, userID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return respondCreated(c, fiber.Map{"ventas_id": id}, "Venta registrada correctamente")
}

// Get devuelve una venta con sus líneas de detalle.
func (h *SaleHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	sale, err := h.uc.GetSale(c.Context(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return respondOK(c, sale)
}
