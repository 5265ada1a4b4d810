package catalog

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/puntoventa/kardex-api/internal/application/dto"
	"github.com/puntoventa/kardex-api/internal/domain"
	"github.com/puntoventa/kardex-api/internal/domain/entity"
)

// Límites de los campos de producto.
const (
	MinNameLen = 3
	MaxNameLen = 100
	MaxCodeLen = 50
)

var maxPrice = decimal.New(999999999, -2) // 9,999,999.99

// ValidateProduct valida la creación de un producto. Pura, sin I/O.
func ValidateProduct(in dto.CreateProductRequest) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return &domain.ValidationError{Field: "productos_nombre", Message: "el nombre del producto es obligatorio"}
	}
	if len(name) < MinNameLen {
		return &domain.ValidationError{Field: "productos_nombre", Message: "el nombre del producto debe tener al menos 3 caracteres"}
	}
	if len(in.Name) > MaxNameLen {
		return &domain.ValidationError{Field: "productos_nombre", Message: "el nombre del producto no puede exceder los 100 caracteres"}
	}
	if len(in.Code) > MaxCodeLen {
		return &domain.ValidationError{Field: "productos_codigo", Message: "el código no puede exceder los 50 caracteres"}
	}
	if in.Unit != "" && !entity.ValidUnit(in.Unit) {
		return &domain.ValidationError{Field: "productos_unidad", Message: "la unidad debe ser: UND, KG, LT o MTS"}
	}
	if in.Price == nil {
		return &domain.ValidationError{Field: "productos_precio", Message: "el precio del producto es obligatorio"}
	}
	if err := validatePrice(*in.Price); err != nil {
		return err
	}
	if in.Stock != nil && in.Stock.IsNegative() {
		return &domain.ValidationError{Field: "productos_stock", Message: "el stock no puede ser negativo"}
	}
	return nil
}

// ValidateProductPatch valida una actualización parcial: cada campo presente
// cumple la misma regla que en la creación.
func ValidateProductPatch(in dto.UpdateProductRequest) error {
	if in.Name == nil && in.Code == nil && in.Unit == nil && in.Price == nil {
		return &domain.ValidationError{Message: "debe enviar al menos un campo para actualizar"}
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if len(name) < MinNameLen {
			return &domain.ValidationError{Field: "productos_nombre", Message: "el nombre del producto debe tener al menos 3 caracteres"}
		}
		if len(*in.Name) > MaxNameLen {
			return &domain.ValidationError{Field: "productos_nombre", Message: "el nombre del producto no puede exceder los 100 caracteres"}
		}
	}
	if in.Code != nil && len(*in.Code) > MaxCodeLen {
		return &domain.ValidationError{Field: "productos_codigo", Message: "el código no puede exceder los 50 caracteres"}
	}
	if in.Unit != nil && !entity.ValidUnit(*in.Unit) {
		return &domain.ValidationError{Field: "productos_unidad", Message: "la unidad debe ser: UND, KG, LT o MTS"}
	}
	if in.Price != nil {
		if err := validatePrice(*in.Price); err != nil {
			return err
		}
	}
	return nil
}

func validatePrice(p decimal.Decimal) error {
	if p.IsNegative() {
		return &domain.ValidationError{Field: "productos_precio", Message: "el precio no puede ser negativo"}
	}
	if p.GreaterThan(maxPrice) {
		return &domain.ValidationError{Field: "productos_precio", Message: "el precio excede el límite permitido"}
	}
	return nil
}
