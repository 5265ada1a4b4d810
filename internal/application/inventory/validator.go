package inventory

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/puntoventa/kardex-api/internal/application/dto"
	"github.com/puntoventa/kardex-api/internal/domain"
	"github.com/puntoventa/kardex-api/internal/domain/entity"
)

// Límites de los campos de un movimiento (coinciden con las columnas de BD).
const (
	MaxMotiveLen  = 50
	MaxCommentLen = 200
)

// ValidateMovement valida la creación de un movimiento. Función pura: sin I/O,
// sin efectos, determinista. Las reglas de negocio que requieren BD (producto
// existe, activo, stock suficiente) viven en el servicio, no aquí.
func ValidateMovement(in dto.RegisterMovementRequest) error {
	if in.ProductID <= 0 {
		return &domain.ValidationError{Field: "product_id", Message: "el ID del producto no es válido"}
	}
	if strings.TrimSpace(in.Type) == "" {
		return &domain.ValidationError{Field: "movement_type", Message: "es obligatorio y no puede estar vacío"}
	}
	if !entity.ValidMovementType(in.Type) {
		return &domain.ValidationError{Field: "movement_type", Message: "debe ser 'ENTRADA' o 'SALIDA'. Valor recibido: " + in.Type}
	}
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return &domain.ValidationError{Field: "quantity", Message: "la cantidad del movimiento debe ser mayor a 0"}
	}
	if strings.TrimSpace(in.Motive) == "" {
		return &domain.ValidationError{Field: "motive", Message: "es obligatorio y no puede estar vacío"}
	}
	if len(in.Motive) > MaxMotiveLen {
		return &domain.ValidationError{Field: "motive", Message: "el motivo no puede exceder los 50 caracteres"}
	}
	if len(in.Comment) > MaxCommentLen {
		return &domain.ValidationError{Field: "comment", Message: "el comentario no puede exceder los 200 caracteres"}
	}
	return nil
}

// ValidateMovementPatch valida una actualización parcial: cada campo presente
// debe cumplir la misma regla que en la creación; la ausencia no es error.
func ValidateMovementPatch(in dto.UpdateMovementRequest) error {
	if in.Type != nil && !entity.ValidMovementType(*in.Type) {
		return &domain.ValidationError{Field: "movement_type", Message: "debe ser 'ENTRADA' o 'SALIDA'"}
	}
	if in.Quantity != nil && !in.Quantity.GreaterThan(decimal.Zero) {
		return &domain.ValidationError{Field: "quantity", Message: "la cantidad debe ser mayor a cero"}
	}
	if in.Motive != nil {
		if strings.TrimSpace(*in.Motive) == "" {
			return &domain.ValidationError{Field: "motive", Message: "el motivo es requerido"}
		}
		if len(*in.Motive) > MaxMotiveLen {
			return &domain.ValidationError{Field: "motive", Message: "el motivo no puede exceder los 50 caracteres"}
		}
	}
	if in.Comment != nil && len(*in.Comment) > MaxCommentLen {
		return &domain.ValidationError{Field: "comment", Message: "el comentario no puede exceder los 200 caracteres"}
	}
	return nil
}
