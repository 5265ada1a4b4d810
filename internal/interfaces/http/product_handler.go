package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/puntoventa/kardex-api/internal/application/catalog"
	"github.com/puntoventa/kardex-api/internal/application/dto"
	"github.com/puntoventa/kardex-api/internal/domain"
	"github.com/puntoventa/kardex-api/pkg/logger"
)

// ProductHandler maneja las peticiones HTTP del catálogo (protegido).
type ProductHandler struct {
	uc  *catalog.ProductUseCase
	log *logger.Logger
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *catalog.ProductUseCase, log *logger.Logger) *ProductHandler {
	return &ProductHandler{uc: uc, log: log}
}

// Create da de alta un producto. Si trae stock inicial, queda registrado como
// movimiento ENTRADA en el kardex dentro de la misma transacción.
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID <= 0 {
		return respondError(c, h.log, domain.ErrUnauthorized)
	}
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return respondBadBody(c)
	}
	id, err := h.uc.Create(c.Context(), in, userID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return respondCreated(c, fiber.Map{"productos_id": id}, "Producto creado correctamente")
}

// List lista productos activos con paginación.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return respondBadBody(c)
	}
	products, err := h.uc.List(c.Context(), page)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return respondOK(c, products)
}

// Search busca productos por nombre, sin distinguir mayúsculas ni acentos.
func (h *ProductHandler) Search(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return respondBadBody(c)
	}
	products, err := h.uc.Search(c.Context(), c.Query("q"), page)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return respondOK(c, products)
}

// Get devuelve un producto por ID.
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	product, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return respondOK(c, product)
}

// Update actualiza datos maestros del producto. El stock no se toca por aquí.
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return respondBadBody(c)
	}
	if err := h.uc.Update(c.Context(), id, in); err != nil {
		return respondError(c, h.log, err)
	}
	return respondOK(c, nil, "Producto actualizado correctamente")
}

// Delete da de baja lógica un producto; su historial de kardex permanece.
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	if err := h.uc.Deactivate(c.Context(), id); err != nil {
		return respondError(c, h.log, err)
	}
	return respondOK(c, nil, "Producto eliminado correctamente")
}
