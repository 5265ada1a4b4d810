package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/puntoventa/kardex-api/internal/application/dto"
	"github.com/puntoventa/kardex-api/internal/application/inventory"
	"github.com/puntoventa/kardex-api/internal/domain"
	"github.com/puntoventa/kardex-api/internal/domain/repository"
	"github.com/puntoventa/kardex-api/pkg/logger"
)

// MovementHandler maneja las peticiones HTTP del kardex (protegido).
type MovementHandler struct {
	ledger *inventory.StockLedgerService
	log    *logger.Logger
}

// NewMovementHandler construye el handler.
func NewMovementHandler(ledger *inventory.StockLedgerService, log *logger.Logger) *MovementHandler {
	return &MovementHandler{ledger: ledger, log: log}
}

// Register registra un movimiento manual (ENTRADA o SALIDA) del kardex.
func (h *MovementHandler) Register(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID <= 0 {
		return respondError(c, h.log, domain.ErrUnauthorized)
	}
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return respondBadBody(c)
	}
	id, err := h.ledger.RegisterMovement(c.Context(), in, userID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return respondCreated(c, fiber.Map{"movimientos_id": id}, "Movimiento registrado correctamente")
}

// List devuelve el historial de movimientos con filtros opcionales
// (product_id, tipo) y paginación.
func (h *MovementHandler) List(c *fiber.Ctx) error {
	productID, _ := strconv.ParseInt(c.Query("product_id", "0"), 10, 64)
	filter := repository.KardexFilter{
		ProductID: productID,
		Type:      c.Query("tipo"),
		Limit:     c.QueryInt("limit", 50),
		Offset:    c.QueryInt("offset", 0),
	}
	entries, err := h.ledger.ListKardex(c.Context(), filter)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return respondOK(c, toMovementResponses(entries))
}

// Get devuelve un movimiento individual con nombres resueltos.
func (h *MovementHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	entry, err := h.ledger.GetMovement(c.Context(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return respondOK(c, toMovementResponse(entry))
}

// Update corrige un movimiento existente. Si cambia tipo o cantidad, el stock
// del producto se revierte y se reaplica dentro de la misma transacción.
func (h *MovementHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	var in dto.UpdateMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return respondBadBody(c)
	}
	if err := h.ledger.UpdateMovement(c.Context(), id, in); err != nil {
		return respondError(c, h.log, err)
	}
	return respondOK(c, nil, "Movimiento actualizado correctamente")
}

// Delete elimina lógicamente un movimiento y revierte su efecto sobre el stock.
func (h *MovementHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	if err := h.ledger.SoftDeleteMovement(c.Context(), id); err != nil {
		return respondError(c, h.log, err)
	}
	return respondOK(c, nil, "Movimiento eliminado correctamente")
}

// parseID lee el parámetro :id de la ruta.
func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, &domain.ValidationError{Field: "id", Message: "identificador inválido"}
	}
	return id, nil
}

func toMovementResponse(e *repository.KardexEntry) dto.MovementResponse {
	return dto.MovementResponse{
		ID:              e.MovementID,
		Date:            e.Date,
		ProductID:       e.ProductID,
		ProductName:     e.ProductName,
		ProductCode:     e.ProductCode,
		UserName:        e.UserName,
		Type:            e.Type,
		Quantity:        e.Quantity,
		HistoricalStock: e.HistoricalStock,
		Motive:          e.Motive,
		Comment:         e.Comment,
	}
}

func toMovementResponses(entries []*repository.KardexEntry) []dto.MovementResponse {
	out := make([]dto.MovementResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toMovementResponse(e))
	}
	return out
}
